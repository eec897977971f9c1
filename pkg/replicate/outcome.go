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
	"fmt"

	"gitlab.com/tozd/go/errors"
)

// 📦 Request names one tree to mirror.
type Request struct {
	Source      string
	Destination string
}

// String returns "source -> destination".
func (r Request) String() string {
	return fmt.Sprintf("%s -> %s", r.Source, r.Destination)
}

// ❌ Failure is one entry that could not be replicated.
type Failure struct {
	RelativePath string // slash separated, relative to the source root
	Cause        error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.RelativePath, f.Cause)
}

// Unwrap returns the underlying cause.
func (f Failure) Unwrap() error {
	return f.Cause
}

// Is reports every Failure as an ErrEntryCopyFailed.
func (f Failure) Is(target error) bool {
	return target == ErrEntryCopyFailed
}

// ⏭️ Skip is an entry that was deliberately not copied.
type Skip struct {
	RelativePath string
	Reason       string
}

// 📊 Outcome summarizes a single Replicate call.
type Outcome struct {
	Copied    int       // files written to the destination
	Failures  []Failure // in walk order
	Skipped   []Skip    // in walk order
	Cancelled bool
}

// OK reports whether every entry was handled and the walk ran to completion.
func (o *Outcome) OK() bool {
	return len(o.Failures) == 0 && !o.Cancelled
}

// FailedPaths lists the relative paths of all failed entries.
func (o *Outcome) FailedPaths() []string {
	paths := make([]string, 0, len(o.Failures))
	for _, f := range o.Failures {
		paths = append(paths, f.RelativePath)
	}
	return paths
}

// Err folds the outcome into a single error, or nil when OK.
func (o *Outcome) Err() error {
	if o.OK() {
		return nil
	}
	errs := make([]error, 0, len(o.Failures)+1)
	for _, f := range o.Failures {
		errs = append(errs, f)
	}
	if o.Cancelled {
		errs = append(errs, ErrCancelled)
	}
	return errors.Join(errs...)
}

func (o *Outcome) fail(rel string, cause error) {
	o.Failures = append(o.Failures, Failure{RelativePath: rel, Cause: cause})
}

func (o *Outcome) skip(rel, reason string) {
	o.Skipped = append(o.Skipped, Skip{RelativePath: rel, Reason: reason})
}
