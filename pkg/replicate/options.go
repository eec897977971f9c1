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
package replicate

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// 🔗 SymlinkPolicy decides what happens to symbolic links found in the source.
type SymlinkPolicy int

const (
	SymlinkSkip     SymlinkPolicy = iota // record the link as skipped
	SymlinkFollow                        // copy whatever the link points to
	SymlinkCopyLink                      // recreate the link itself
)

func (p SymlinkPolicy) String() string {
	switch p {
	case SymlinkSkip:
		return "skip"
	case SymlinkFollow:
		return "follow"
	case SymlinkCopyLink:
		return "copy"
	default:
		return "unknown"
	}
}

// ParseSymlinkPolicy parses "skip", "follow" or "copy". Empty means skip.
func ParseSymlinkPolicy(s string) (SymlinkPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "skip":
		return SymlinkSkip, nil
	case "follow":
		return SymlinkFollow, nil
	case "copy", "copy-link", "link":
		return SymlinkCopyLink, nil
	default:
		return SymlinkSkip, errors.Errorf("unknown symlink policy %q", s)
	}
}

// ProgressFunc is called once per completed entry with its relative path and
// the number of entries completed so far in the call.
type ProgressFunc func(relPath string, done int)

// Option configures a Replicator.
type Option func(*Replicator)

// WithSymlinkPolicy sets how symbolic links are handled.
func WithSymlinkPolicy(p SymlinkPolicy) Option {
	return func(r *Replicator) {
		r.symlinks = p
	}
}

// WithProgress registers a progress sink.
func WithProgress(fn ProgressFunc) Option {
	return func(r *Replicator) {
		r.progress = fn
	}
}

// WithIgnore skips entries whose relative path matches any of the doublestar
// patterns. An ignored directory is not descended into.
func WithIgnore(patterns ...string) Option {
	return func(r *Replicator) {
		r.ignore = append(r.ignore, patterns...)
	}
}

// ValidatePatterns checks ignore patterns up front so a typo does not turn into
// a silent "ignore nothing".
func ValidatePatterns(patterns []string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return errors.Errorf("invalid pattern %q", p)
		}
	}
	return nil
}
