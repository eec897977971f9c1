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
package share

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/sharedplugins/pkg/plugin"
	"github.com/walteh/sharedplugins/pkg/replicate"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// ErrCentralDirNotSet means there is nowhere to copy to yet.
var ErrCentralDirNotSet = errors.Base("central directory not set")

// Level is the severity of a notification.
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

// 📢 Reporter receives progress and results. Implementations must be safe for
// concurrent use; plugins finish on different goroutines.
type Reporter interface {
	// Start is called once before any plugin is copied.
	Start(ctx context.Context, total int)
	// Progress is called once per completed entry and once per completed plugin.
	Progress(ctx context.Context, text string, fraction float64)
	// PluginDone is called when a plugin has been handled, successfully or not.
	PluginDone(ctx context.Context, result Result)
	// Finish is called once with the full report.
	Finish(ctx context.Context, report *Report)
	// Notify shows a one-off message that is not tied to a plugin.
	Notify(ctx context.Context, level Level, title, message string)
}

// Confirmer asks a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, question string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, question string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, question string) (bool, error) {
	return f(ctx, question)
}

// AlwaysConfirm answers yes without asking.
var AlwaysConfirm = ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })

// 🔧 Options configures a Sharer.
type Options struct {
	// CentralRoot is the folder plugins are copied into. Empty means "not set".
	CentralRoot string
	// Concurrency caps how many plugins are copied at once. Defaults to 1.
	Concurrency int
	// SelfID is never offered for sharing by OnPluginInstalled.
	SelfID string
	// Replicator copies each plugin tree. Defaults to replicate.New().
	Replicator *replicate.Replicator
	// Reporter receives progress and results. Required.
	Reporter Reporter
}

// 🎮 Sharer copies plugins into the central directory.
type Sharer struct {
	central     string
	concurrency int
	selfID      string
	replicator  *replicate.Replicator
	reporter    Reporter
}

// 🏭 New creates a Sharer.
func New(opts Options) (*Sharer, error) {
	if opts.Reporter == nil {
		return nil, errors.Errorf("reporter is required")
	}
	if opts.Replicator == nil {
		opts.Replicator = replicate.New()
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	return &Sharer{
		central:     opts.CentralRoot,
		concurrency: opts.Concurrency,
		selfID:      opts.SelfID,
		replicator:  opts.Replicator,
		reporter:    opts.Reporter,
	}, nil
}

// Destination is where d ends up under the central root.
func (s *Sharer) Destination(d plugin.Descriptor) string {
	return filepath.Join(s.central, d.DirName())
}

// 📋 ShareAll copies every plugin into the central directory and returns one
// Result per plugin in input order. Problems with a single plugin end up in
// its Result; the returned error is only for problems that stop everything
// (central directory unset or uncreatable).
func (s *Sharer) ShareAll(ctx context.Context, plugins []plugin.Descriptor) (*Report, error) {
	logger := zerolog.Ctx(ctx).With().Str("central", s.central).Logger()
	ctx = logger.WithContext(ctx)

	if s.central == "" {
		s.reporter.Notify(ctx, LevelWarning, "Configuration Needed",
			"Please configure the central plugins directory: sharedplugins config set-central <dir>")
		return nil, ErrCentralDirNotSet
	}

	if len(plugins) == 0 {
		s.reporter.Notify(ctx, LevelInfo, "No Plugins Found", "No third-party plugins were found to copy.")
		return &Report{}, nil
	}

	if err := os.MkdirAll(s.central, 0o755); err != nil {
		s.reporter.Notify(ctx, LevelError, "Error", fmt.Sprintf("Failed to create central directory: %v", err))
		return nil, errors.Errorf("%w: %s: %v", replicate.ErrDestinationUncreatable, s.central, err)
	}

	report := &Report{Results: make([]Result, len(plugins))}
	tracker := newProgress(len(plugins))

	s.reporter.Start(ctx, len(plugins))
	logger.Debug().Int("plugins", len(plugins)).Int("concurrency", s.concurrency).Msg("sharing plugins")

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for _, group := range s.groupByDestination(plugins) {
		g.Go(func() error {
			for _, i := range group {
				// each index is written by exactly one goroutine
				report.Results[i] = s.shareOne(ctx, i, plugins[i], tracker)
				s.reporter.Progress(ctx, fmt.Sprintf("Copied %s", plugins[i].Name), tracker.finish(i))
				s.reporter.PluginDone(ctx, report.Results[i])
			}
			return nil
		})
	}
	_ = g.Wait()

	s.reporter.Finish(ctx, report)
	return report, nil
}

// 🔌 OnPluginInstalled handles a freshly installed plugin: bundled plugins,
// this tool itself and an unset central directory are ignored; otherwise the
// user is asked and, on yes, the plugin is shared. A nil Result means nothing
// was copied.
func (s *Sharer) OnPluginInstalled(ctx context.Context, d plugin.Descriptor, confirm Confirmer) (*Result, error) {
	logger := zerolog.Ctx(ctx).With().Str("plugin", d.ID).Logger()

	if d.Bundled || plugin.IsSelf(d, s.selfID) {
		logger.Debug().Msg("ignoring bundled or own plugin")
		return nil, nil
	}
	if s.central == "" {
		logger.Debug().Msg("central directory not set, not offering to share")
		return nil, nil
	}

	ok, err := confirm.Confirm(ctx, fmt.Sprintf("Copy '%s' to the shared directory?", d.Name))
	if err != nil {
		return nil, errors.Errorf("asking for confirmation: %w", err)
	}
	if !ok {
		logger.Debug().Msg("user declined")
		return nil, nil
	}

	report, err := s.ShareAll(ctx, []plugin.Descriptor{d})
	if err != nil {
		return nil, err
	}
	return &report.Results[0], nil
}

func (s *Sharer) shareOne(ctx context.Context, i int, d plugin.Descriptor, tracker *progress) Result {
	dst := s.Destination(d)
	logger := zerolog.Ctx(ctx).With().Str("plugin", d.ID).Str("destination", dst).Logger()

	entries := countEntries(d.Path)
	r := s.replicator.With(replicate.WithProgress(func(rel string, done int) {
		s.reporter.Progress(ctx, fmt.Sprintf("Copying %s: %s", d.Name, rel), tracker.update(i, done, entries))
	}))

	out, err := r.Replicate(logger.WithContext(ctx), replicate.Request{Source: d.Path, Destination: dst})
	if err != nil {
		logger.Error().Err(err).Msg("failed to copy plugin")
		return Result{Plugin: d, Destination: dst, Err: err}
	}

	logger.Info().
		Int("copied", out.Copied).
		Int("failed", len(out.Failures)).
		Bool("cancelled", out.Cancelled).
		Msg("copied plugin")
	return Result{Plugin: d, Destination: dst, Outcome: out}
}

// groupByDestination returns plugin indices grouped by destination, groups in
// order of first appearance.
func (s *Sharer) groupByDestination(plugins []plugin.Descriptor) [][]int {
	var groups [][]int
	index := map[string]int{}
	for i, d := range plugins {
		dst := s.Destination(d)
		g, ok := index[dst]
		if !ok {
			g = len(groups)
			index[dst] = g
			groups = append(groups, nil)
		}
		groups[g] = append(groups[g], i)
	}
	return groups
}

// countEntries is the number of entries below root, or 1 for a file. It is
// only an estimate for progress; links and ignores can change the real count.
func countEntries(root string) int {
	n := 0
	_ = filepath.WalkDir(root, func(p string, _ fs.DirEntry, err error) error {
		if err == nil && p != root {
			n++
		}
		return nil
	})
	return max(n, 1)
}

// progress turns finished plugins and the entries done in running ones into
// one fraction of the whole batch.
type progress struct {
	mu       sync.Mutex
	total    int
	finished int
	partial  map[int]float64
}

func newProgress(total int) *progress {
	return &progress{total: total, partial: map[int]float64{}}
}

func (p *progress) fractionLocked() float64 {
	sum := float64(p.finished)
	for _, f := range p.partial {
		sum += f
	}
	return sum / float64(p.total)
}

// update records done of estimated entries for plugin i. A plugin never
// counts as complete before finish.
func (p *progress) update(i, done, estimated int) float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.partial[i] = min(float64(done)/float64(estimated), 0.99)
	return p.fractionLocked()
}

func (p *progress) finish(i int) float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.partial, i)
	p.finished++
	return p.fractionLocked()
}
