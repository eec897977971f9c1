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
package plugin

import (
	"context"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Selector narrows a list of candidates down to the ones to share. It stands
// in for whatever asks the user, be it flags, a config file or a prompt.
type Selector interface {
	Select(ctx context.Context, candidates []Descriptor) ([]Descriptor, error)
}

// All selects every candidate.
type All struct{}

func (All) Select(_ context.Context, candidates []Descriptor) ([]Descriptor, error) {
	return candidates, nil
}

// Patterns selects candidates whose ID or directory name matches an Include
// pattern (all, when Include is empty) and no Exclude pattern.
type Patterns struct {
	Include []string
	Exclude []string
}

func (p Patterns) Select(_ context.Context, candidates []Descriptor) ([]Descriptor, error) {
	for _, pattern := range append(append([]string(nil), p.Include...), p.Exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Errorf("invalid pattern %q", pattern)
		}
	}

	out := make([]Descriptor, 0, len(candidates))
	for _, d := range candidates {
		if len(p.Include) > 0 && !matchAny(p.Include, d) {
			continue
		}
		if matchAny(p.Exclude, d) {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

// SelectorFunc adapts a function to Selector.
type SelectorFunc func(ctx context.Context, candidates []Descriptor) ([]Descriptor, error)

func (f SelectorFunc) Select(ctx context.Context, candidates []Descriptor) ([]Descriptor, error) {
	return f(ctx, candidates)
}

func matchAny(patterns []string, d Descriptor) bool {
	for _, pattern := range patterns {
		if doublestar.MatchUnvalidated(pattern, d.ID) || doublestar.MatchUnvalidated(pattern, d.DirName()) {
			return true
		}
	}
	return false
}
