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
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// walker carries the state of one Replicate call.
type walker struct {
	ctx    context.Context
	r      *Replicator
	dst    string
	out    *Outcome

	// realDst is dst with symlinks resolved; a followed link must not lead to
	// it or above it
	realDst string

	done   int
	logger zerolog.Logger

	// real paths of the directories on the current descent path, used to
	// detect cycles when links are followed
	visiting map[string]struct{}
}

func (w *walker) target(rel string) string {
	if rel == "" {
		return w.dst
	}
	return filepath.Join(w.dst, filepath.FromSlash(rel))
}

func (w *walker) completed(rel string) {
	w.done++
	if w.r.progress != nil {
		w.r.progress(rel, w.done)
	}
}

func (w *walker) fail(rel string, err error) {
	w.logger.Debug().Str("path", rel).Err(err).Msg("entry failed")
	w.out.fail(rel, err)
	w.completed(rel)
}

func (w *walker) skip(rel, reason string) {
	w.logger.Debug().Str("path", rel).Str("reason", reason).Msg("entry skipped")
	w.out.skip(rel, reason)
	w.completed(rel)
}

func (w *walker) ignored(rel string) bool {
	for _, pattern := range w.r.ignore {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// root walks the source root, whose mirror has already been created.
func (w *walker) root(src string) {
	if resolved, err := filepath.EvalSymlinks(src); err == nil {
		w.visiting[resolved] = struct{}{}
	}
	w.walkDir(src, "")
}

// walkDir visits the children of srcDir in name order. It returns false when
// the walk was cancelled.
func (w *walker) walkDir(srcDir, rel string) bool {
	// os.ReadDir sorts by filename
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		w.fail(relOrRoot(rel), errors.Errorf("reading directory: %w", err))
		return true
	}

	for _, entry := range entries {
		if w.ctx.Err() != nil {
			w.out.Cancelled = true
			return false
		}

		childRel := path.Join(rel, entry.Name())
		childSrc := filepath.Join(srcDir, entry.Name())

		if w.ignored(childRel) {
			w.skip(childRel, "ignored by pattern")
			continue
		}

		if !w.entry(childSrc, childRel, entry.Type()) {
			return false
		}
	}
	return true
}

func (w *walker) entry(src, rel string, mode fs.FileMode) bool {
	switch {
	case mode&fs.ModeSymlink != 0:
		return w.symlink(src, rel)
	case mode.IsDir():
		return w.directory(src, rel)
	case mode.IsRegular():
		w.file(src, rel)
	default:
		w.skip(rel, "unsupported file type "+mode.Type().String())
	}
	return true
}

// directory creates the mirror of src before descending, so every file copy
// below it finds its parent in place.
func (w *walker) directory(src, rel string) bool {
	info, err := os.Stat(src)
	if err != nil {
		w.fail(rel, errors.Errorf("stat directory: %w", err))
		return true
	}

	if w.r.symlinks == SymlinkFollow {
		resolved, err := filepath.EvalSymlinks(src)
		if err != nil {
			w.fail(rel, errors.Errorf("resolving directory: %w", err))
			return true
		}
		if _, loop := w.visiting[resolved]; loop {
			w.fail(rel, errors.Errorf("%w: %s", ErrSymlinkCycle, resolved))
			return true
		}
		if w.realDst != "" && within(resolved, w.realDst) {
			w.fail(rel, errors.Errorf("%w: %s contains the destination", ErrNestedPathConflict, resolved))
			return true
		}
		w.visiting[resolved] = struct{}{}
		defer delete(w.visiting, resolved)
	}

	if err := os.MkdirAll(w.target(rel), dirPerm(info.Mode())); err != nil {
		w.fail(rel, errors.Errorf("creating directory: %w", err))
		return true
	}
	w.completed(rel)

	return w.walkDir(src, rel)
}

func (w *walker) file(src, rel string) {
	info, err := os.Stat(src)
	if err != nil {
		w.fail(rel, errors.Errorf("stat file: %w", err))
		return
	}
	if err := copyFile(src, w.target(rel), info.Mode().Perm()); err != nil {
		w.fail(rel, err)
		return
	}
	w.out.Copied++
	w.completed(rel)
}

func (w *walker) singleFile(src string, info fs.FileInfo) {
	rel := filepath.Base(src)
	if err := copyFile(src, w.dst, info.Mode().Perm()); err != nil {
		w.fail(rel, err)
		return
	}
	w.out.Copied++
	w.completed(rel)
}

func (w *walker) symlink(src, rel string) bool {
	linkTarget, err := os.Readlink(src)
	if err != nil {
		w.fail(rel, errors.Errorf("reading link: %w", err))
		return true
	}

	switch w.r.symlinks {
	case SymlinkCopyLink:
		dst := w.target(rel)
		if err := os.Remove(dst); err != nil && !errors.Is(err, fs.ErrNotExist) {
			w.fail(rel, errors.Errorf("replacing link: %w", err))
			return true
		}
		if err := os.Symlink(linkTarget, dst); err != nil {
			w.fail(rel, errors.Errorf("creating link: %w", err))
			return true
		}
		w.completed(rel)
		return true

	case SymlinkFollow:
		info, err := os.Stat(src)
		if err != nil {
			w.fail(rel, errors.Errorf("following link to %s: %w", linkTarget, err))
			return true
		}
		if !info.IsDir() {
			w.file(src, rel)
			return true
		}
		// directory rejects targets already on the descent path or containing dst
		return w.directory(src, rel)

	default:
		w.skip(rel, "symlink to "+linkTarget)
		return true
	}
}

// copyFile writes src to dst through a temp file in the destination directory
// and renames it into place. An existing file at dst is replaced; a reader never
// sees a half written dst.
func copyFile(src, dst string, perm fs.FileMode) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return errors.Errorf("opening source file: %w", err)
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".tmp-*")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = io.Copy(tmp, in); err != nil {
		return errors.Errorf("copying file content: %w", err)
	}
	if err = tmp.Chmod(perm); err != nil {
		return errors.Errorf("setting file mode: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return errors.Errorf("closing temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), dst); err != nil {
		return errors.Errorf("renaming temp file: %w", err)
	}
	return nil
}

func relOrRoot(rel string) string {
	if rel == "" {
		return "."
	}
	return rel
}
