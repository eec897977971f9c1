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
package commands

import (
	"context"

	"github.com/walteh/sharedplugins/cmd/sharedplugins/opts"
	"github.com/walteh/sharedplugins/pkg/plugin"
	"github.com/walteh/sharedplugins/pkg/replicate"
	"github.com/walteh/sharedplugins/pkg/share"
	"github.com/walteh/sharedplugins/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// newSharer wires the settings into a Sharer reporting to the terminal
func newSharer(ctx context.Context, o *opts.RootOpts, listFailures bool) (*share.Sharer, error) {
	cfg := o.Settings

	r := replicate.New(
		replicate.WithSymlinkPolicy(cfg.SymlinkPolicy()),
		replicate.WithIgnore(cfg.Ignore...),
	)

	s, err := share.New(share.Options{
		CentralRoot: cfg.CentralRoot(),
		Concurrency: cfg.Concurrency,
		SelfID:      cfg.SelfID,
		Replicator:  r,
		Reporter:    status.NewTerminalReporter(ctx, listFailures),
	})
	if err != nil {
		return nil, errors.Errorf("creating sharer: %w", err)
	}
	return s, nil
}

// errPluginsDirNotSet is returned by commands that scan without a plugins directory
var errPluginsDirNotSet = errors.Base("plugins directory not configured, set plugins_directory or pass --plugins")

// scanAll lists every plugin in the configured plugins directory
func scanAll(ctx context.Context, o *opts.RootOpts) ([]plugin.Descriptor, error) {
	if o.Settings.PluginsDirectory == "" {
		return nil, errPluginsDirNotSet
	}
	all, err := plugin.Scan(ctx, o.Settings.PluginsDirectory)
	if err != nil {
		return nil, errors.Errorf("scanning plugins: %w", err)
	}
	return all, nil
}

// candidates scans the plugins directory and keeps the shareable plugins
func candidates(ctx context.Context, o *opts.RootOpts) ([]plugin.Descriptor, error) {
	all, err := scanAll(ctx, o)
	if err != nil {
		return nil, err
	}

	out := make([]plugin.Descriptor, 0, len(all))
	for _, d := range plugin.ThirdParty(all) {
		if !plugin.IsSelf(d, o.Settings.SelfID) {
			out = append(out, d)
		}
	}
	return out, nil
}
