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
package status

import (
	"context"
	"fmt"
	"sync"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/sharedplugins/pkg/share"
)

// 📢 TerminalReporter prints user friendly progress with pterm and mirrors
// everything to zerolog.
type TerminalReporter struct {
	mu           sync.Mutex
	log          zerolog.Logger
	listFailures bool
}

var _ share.Reporter = (*TerminalReporter)(nil)

// 🎯 NewTerminalReporter creates a reporter logging through the context logger.
func NewTerminalReporter(ctx context.Context, listFailures bool) *TerminalReporter {
	return &TerminalReporter{
		log:          *zerolog.Ctx(ctx),
		listFailures: listFailures,
	}
}

func (r *TerminalReporter) Start(_ context.Context, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg := fmt.Sprintf("Copying %s", plural(total, "plugin"))
	pterm.Info.WithPrefix(pterm.Prefix{Text: "📦"}).Println(msg)
	r.log.Info().Int("total", total).Msg(msg)
}

// Progress is printed only with debug messages enabled; it fires per entry.
func (r *TerminalReporter) Progress(_ context.Context, text string, fraction float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pterm.Debug.Println(FormatProgress(text, fraction))
	r.log.Debug().Float64("fraction", fraction).Msg(text)
}

func (r *TerminalReporter) PluginDone(_ context.Context, res share.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()

	line := FormatResult(res)
	switch {
	case res.Err != nil:
		pterm.Error.WithPrefix(pterm.Prefix{Text: "❌"}).Println(line)
		r.log.Error().Err(res.Err).Str("plugin", res.Plugin.ID).Msg("plugin copy failed")
		return
	case res.OK():
		pterm.Success.WithPrefix(pterm.Prefix{Text: "✨"}).Println(line)
	default:
		pterm.Warning.WithPrefix(pterm.Prefix{Text: "⚠️"}).Println(line)
	}

	if res.Outcome == nil {
		return
	}
	for _, f := range res.Outcome.Failures {
		if r.listFailures {
			pterm.Println(FormatFailure(f))
		}
		r.log.Warn().Err(f.Cause).Str("plugin", res.Plugin.ID).Str("path", f.RelativePath).Msg("entry failed")
	}
	for _, s := range res.Outcome.Skipped {
		r.log.Debug().Str("plugin", res.Plugin.ID).Str("path", s.RelativePath).Str("reason", s.Reason).Msg("entry skipped")
	}
}

func (r *TerminalReporter) Finish(_ context.Context, report *share.Report) {
	r.mu.Lock()
	defer r.mu.Unlock()

	summary := FormatSummary(report)
	if report.OK() {
		pterm.Success.WithPrefix(pterm.Prefix{Text: "✅"}).Println(summary)
		r.log.Info().Int("plugins", report.Succeeded()).Int("files", report.Files()).Msg("copy complete")
		return
	}
	pterm.Warning.WithPrefix(pterm.Prefix{Text: "⚠️"}).Println(summary)
	r.log.Warn().
		Int("succeeded", report.Succeeded()).
		Int("failed", report.Failed()).
		Int("failed_entries", report.FailedEntries()).
		Bool("cancelled", report.Cancelled()).
		Msg("copy finished with failures")
}

func (r *TerminalReporter) Notify(_ context.Context, level share.Level, title, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg := fmt.Sprintf("%s: %s", title, message)
	switch level {
	case share.LevelError:
		pterm.Error.WithPrefix(pterm.Prefix{Text: "❌"}).Println(msg)
		r.log.Error().Msg(msg)
	case share.LevelWarning:
		pterm.Warning.WithPrefix(pterm.Prefix{Text: "⚠️"}).Println(msg)
		r.log.Warn().Msg(msg)
	default:
		pterm.Info.WithPrefix(pterm.Prefix{Text: "ℹ️"}).Println(msg)
		r.log.Info().Msg(msg)
	}
}

// 🙋 PromptConfirmer asks on the terminal.
type PromptConfirmer struct{}

var _ share.Confirmer = PromptConfirmer{}

func (PromptConfirmer) Confirm(_ context.Context, question string) (bool, error) {
	return pterm.DefaultInteractiveConfirm.Show(question)
}
