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
package main

import (
	"context"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/sharedplugins/cmd/sharedplugins/commands"
	"github.com/walteh/sharedplugins/cmd/sharedplugins/opts"
	"github.com/walteh/sharedplugins/pkg/config"
	"github.com/walteh/sharedplugins/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// newRootCmd builds the command tree
func newRootCmd() *cobra.Command {
	o := &opts.RootOpts{}

	rootCmd := &cobra.Command{
		Use:   "sharedplugins",
		Short: "Share locally installed plugins through a central directory",
		Long: `sharedplugins copies third-party plugins from your plugins directory into a
central (shared) directory, so the same plugin set can be installed on every
machine of a team.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := setupLogging(cmd, o.Debug)
			cmd.SetContext(ctx)
			return loadSettings(cmd, o)
		},
	}

	addRootFlags(rootCmd, o)

	rootCmd.AddCommand(
		commands.NewScanCmd(o),
		commands.NewCopyCmd(o),
		commands.NewInstalledCmd(o),
		commands.NewConfigCmd(o),
		newVersionCmd(),
	)

	return rootCmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.ConfigFile, "config", "c", ".sharedplugins.yaml", "config file path")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&o.PluginsDirectory, "plugins", "", "override the plugins directory")
	cmd.PersistentFlags().StringVar(&o.CentralDirectory, "central", "", "override the central directory")
}

// setupLogging raises the context logger to debug when asked
func setupLogging(cmd *cobra.Command, debug bool) context.Context {
	ctx := cmd.Context()
	if !debug {
		return ctx
	}
	pterm.EnableDebugMessages()
	return log.WithLevel(ctx, zerolog.DebugLevel)
}

func loadSettings(cmd *cobra.Command, o *opts.RootOpts) error {
	ctx := cmd.Context()

	cfg, err := config.LoadOrDefault(ctx, o.ConfigFile)
	if err != nil {
		return errors.Errorf("loading config: %w", err)
	}

	if o.PluginsDirectory != "" {
		cfg.PluginsDirectory = o.PluginsDirectory
	}
	if o.CentralDirectory != "" {
		cfg.CentralDirectory = o.CentralDirectory
	}
	if err := cfg.Validate(ctx); err != nil {
		return errors.Errorf("validating config: %w", err)
	}

	o.Settings = cfg
	return nil
}
