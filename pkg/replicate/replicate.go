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
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔁 Replicator mirrors directory trees. The zero value skips symlinks and
// reports no progress.
type Replicator struct {
	symlinks SymlinkPolicy
	progress ProgressFunc
	ignore   []string
}

// 🏭 New creates a Replicator with the given options.
func New(opts ...Option) *Replicator {
	r := &Replicator{symlinks: SymlinkSkip}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// With returns a copy of r with extra options applied. r itself is unchanged.
func (r *Replicator) With(opts ...Option) *Replicator {
	cp := *r
	cp.ignore = append([]string(nil), r.ignore...)
	for _, opt := range opts {
		opt(&cp)
	}
	return &cp
}

// Replicate copies req.Source into req.Destination.
//
// The returned error is non-nil only for fatal problems: ErrSourceNotFound,
// ErrNestedPathConflict or ErrDestinationUncreatable. In those cases nothing
// has been written. Per-entry problems and cancellation are reported through
// the Outcome.
func (r *Replicator) Replicate(ctx context.Context, req Request) (*Outcome, error) {
	logger := zerolog.Ctx(ctx).With().
		Str("source", req.Source).
		Str("destination", req.Destination).
		Logger()

	src, dst, err := absPaths(req)
	if err != nil {
		return nil, err
	}

	// the root is followed even when it is a link; the caller named it explicitly
	info, err := os.Stat(src)
	if err != nil {
		return nil, errors.Errorf("%w: %s: %v", ErrSourceNotFound, req.Source, err)
	}

	if isNested(src, dst) {
		return nil, errors.Errorf("%w: %s is inside %s", ErrNestedPathConflict, req.Destination, req.Source)
	}

	if ctx.Err() != nil {
		return &Outcome{Cancelled: true}, nil
	}

	w := &walker{
		ctx:      ctx,
		r:        r,
		dst:      dst,
		out:      &Outcome{},
		visiting: map[string]struct{}{},
		logger:   logger,
	}

	if !info.IsDir() {
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return nil, errors.Errorf("%w: %s: %v", ErrDestinationUncreatable, filepath.Dir(dst), err)
		}
		w.singleFile(src, info)
		return w.out, nil
	}

	if err := os.MkdirAll(dst, dirPerm(info.Mode())); err != nil {
		return nil, errors.Errorf("%w: %s: %v", ErrDestinationUncreatable, dst, err)
	}
	w.realDst = resolveExisting(dst)

	logger.Debug().Msg("replicating tree")
	w.root(src)

	logger.Debug().
		Int("copied", w.out.Copied).
		Int("failed", len(w.out.Failures)).
		Int("skipped", len(w.out.Skipped)).
		Bool("cancelled", w.out.Cancelled).
		Msg("replication finished")

	return w.out, nil
}

// Replicate is a shorthand for New(opts...).Replicate(ctx, req).
func Replicate(ctx context.Context, req Request, opts ...Option) (*Outcome, error) {
	return New(opts...).Replicate(ctx, req)
}

func absPaths(req Request) (string, string, error) {
	if req.Source == "" {
		return "", "", errors.Errorf("%w: empty source path", ErrSourceNotFound)
	}
	if req.Destination == "" {
		return "", "", errors.Errorf("%w: empty destination path", ErrDestinationUncreatable)
	}
	src, err := filepath.Abs(req.Source)
	if err != nil {
		return "", "", errors.Errorf("resolving source: %w", err)
	}
	dst, err := filepath.Abs(req.Destination)
	if err != nil {
		return "", "", errors.Errorf("resolving destination: %w", err)
	}
	return src, dst, nil
}

// isNested reports whether dst is src or a descendant of it. Both paths are
// compared lexically and again with symlinks resolved, so a destination that
// reaches back into the source through a link is caught too.
func isNested(src, dst string) bool {
	return within(src, dst) || within(resolveExisting(src), resolveExisting(dst))
}

func within(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// resolveExisting evaluates symlinks on the longest resolvable prefix of p and
// re-appends the rest. A prefix that is missing, sits under a regular file or
// cannot be searched is left to MkdirAll to report.
func resolveExisting(p string) string {
	var rest []string
	cur := p
	for {
		if resolved, err := filepath.EvalSymlinks(cur); err == nil {
			return filepath.Join(append([]string{resolved}, rest...)...)
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return p
		}
		rest = append([]string{filepath.Base(cur)}, rest...)
		cur = parent
	}
}

// dirPerm keeps the source permissions but always lets the owner fill the
// directory, otherwise a read-only source dir could never be populated.
func dirPerm(mode fs.FileMode) fs.FileMode {
	return mode.Perm() | 0o700
}
