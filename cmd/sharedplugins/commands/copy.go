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
	"github.com/spf13/cobra"
	"github.com/walteh/sharedplugins/cmd/sharedplugins/opts"
	"github.com/walteh/sharedplugins/pkg/plugin"
	"gitlab.com/tozd/go/errors"
)

// NewCopyCmd creates the copy command
func NewCopyCmd(o *opts.RootOpts) *cobra.Command {
	var (
		all          bool
		listFailures bool
		concurrency  int
	)

	cmd := &cobra.Command{
		Use:   "copy [pattern...]",
		Short: "Copy plugins into the central directory",
		Long: `Copy scans the plugins directory and copies the selected plugins into the
central directory, one folder per plugin. It will:
1. Scan for enabled, non-bundled plugins
2. Select the ones matching the given patterns (or the configured include/exclude)
3. Copy each plugin, overwriting files already in the central directory
4. Report how many files were copied and which ones failed`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if concurrency > 0 {
				o.Settings.Concurrency = concurrency
			}

			found, err := candidates(ctx, o)
			if err != nil {
				return err
			}

			var selector plugin.Selector
			switch {
			case all:
				selector = plugin.All{}
			case len(args) > 0:
				selector = plugin.Patterns{Include: args, Exclude: o.Settings.Exclude}
			default:
				selector = plugin.Patterns{Include: o.Settings.Include, Exclude: o.Settings.Exclude}
			}

			selected, err := selector.Select(ctx, found)
			if err != nil {
				return errors.Errorf("selecting plugins: %w", err)
			}

			sharer, err := newSharer(ctx, o, listFailures)
			if err != nil {
				return err
			}

			report, err := sharer.ShareAll(ctx, selected)
			if err != nil {
				return errors.Errorf("copying plugins: %w", err)
			}
			if report.Cancelled() {
				return errors.New("copy cancelled")
			}
			if !report.OK() {
				return errors.Errorf("%d of %d plugins failed", report.Failed(), len(report.Results))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "copy every third-party plugin, ignoring include/exclude")
	cmd.Flags().BoolVar(&listFailures, "list-failures", true, "print every entry that failed to copy")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "plugins copied at once (default from config)")

	return cmd
}
