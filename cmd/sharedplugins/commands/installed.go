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

	"github.com/spf13/cobra"
	"github.com/walteh/sharedplugins/cmd/sharedplugins/opts"
	"github.com/walteh/sharedplugins/pkg/plugin"
	"github.com/walteh/sharedplugins/pkg/share"
	"github.com/walteh/sharedplugins/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// NewInstalledCmd creates the installed command, the hook a plugin manager
// calls after it installs a plugin
func NewInstalledCmd(o *opts.RootOpts) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "installed <plugin-path>",
		Short: "Offer to share a freshly installed plugin",
		Long: `Installed is meant to be called right after a plugin was installed. Bundled
plugins and sharedplugins itself are ignored, as is everything while no central
directory is configured. Otherwise it asks whether to copy the plugin to the
central directory (or just does it with --yes).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			desc, err := plugin.ReadDescriptor(ctx, args[0])
			if err != nil {
				return errors.Errorf("reading plugin: %w", err)
			}

			sharer, err := newSharer(ctx, o, true)
			if err != nil {
				return err
			}

			var confirm share.Confirmer = status.PromptConfirmer{}
			if yes {
				confirm = share.AlwaysConfirm
			}

			res, err := sharer.OnPluginInstalled(ctx, desc, confirm)
			if err != nil {
				return err
			}
			if res == nil {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "Nothing copied.")
				return err
			}
			if !res.OK() {
				return errors.Errorf("copying %s did not complete", desc.Name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "copy without asking")

	return cmd
}
