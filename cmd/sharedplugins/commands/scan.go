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
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/sharedplugins/cmd/sharedplugins/opts"
	"github.com/walteh/sharedplugins/pkg/plugin"
	"gitlab.com/tozd/go/errors"
)

// NewScanCmd creates the scan command
func NewScanCmd(o *opts.RootOpts) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "List installed third-party plugins",
		Long: `Scan lists the plugins found in the plugins directory.
By default only enabled, non-bundled plugins are shown, which are the ones
"copy" would consider.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var descs []plugin.Descriptor
			var err error
			if all {
				descs, err = scanAll(ctx, o)
			} else {
				descs, err = candidates(ctx, o)
			}
			if err != nil {
				return err
			}

			if len(descs) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "No third-party plugins found.")
				return err
			}

			data := pterm.TableData{{"ID", "Name", "Version", "Directory", "Bundled", "Enabled"}}
			for _, d := range descs {
				data = append(data, []string{
					d.ID, d.Name, d.Version, d.DirName(),
					strconv.FormatBool(d.Bundled), strconv.FormatBool(d.Enabled),
				})
			}
			table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
			if err != nil {
				return errors.Errorf("rendering table: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), table)
			return err
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include bundled and disabled plugins")

	return cmd
}
