// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package log builds the console logger every command carries in its context.
package log

import (
	"context"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🏭 New creates a console logger writing to out. Colors follow
// color.NoColor, so NO_COLOR and non-terminal output are respected.
func New(out io.Writer, level zerolog.Level) zerolog.Logger {
	console := zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = out
		w.NoColor = color.NoColor
		w.TimeFormat = time.Kitchen
	})
	return zerolog.New(console).With().Timestamp().Logger().Level(level)
}

// 🎯 NewContext returns ctx carrying a console logger writing to out
func NewContext(ctx context.Context, out io.Writer, level zerolog.Level) context.Context {
	return New(out, level).WithContext(ctx)
}

// 🎯 WithLevel returns ctx with its logger switched to level
func WithLevel(ctx context.Context, level zerolog.Level) context.Context {
	return zerolog.Ctx(ctx).Level(level).WithContext(ctx)
}
