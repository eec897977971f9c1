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
	"github.com/walteh/sharedplugins/pkg/config"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// NewConfigCmd creates the config command group
func NewConfigCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change settings",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective settings",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				data, err := yaml.Marshal(o.Settings)
				if err != nil {
					return errors.Errorf("encoding settings: %w", err)
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", o.Settings.Location(), data)
				return err
			},
		},
		&cobra.Command{
			Use:   "set-central <dir>",
			Short: "Set the central directory and save the config file",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()

				cfg, err := config.Update(ctx, o.ConfigFile, func(s *config.Settings) {
					s.CentralDirectory = args[0]
				})
				if err != nil {
					return errors.Errorf("saving config: %w", err)
				}

				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Plugins will be copied to %s\n", cfg.CentralRoot())
				return err
			},
		},
	)

	return cmd
}
