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
package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/sharedplugins/pkg/replicate"
	"gitlab.com/tozd/go/errors"
)

const (
	// DefaultSubdirectory is appended to the central directory.
	DefaultSubdirectory = "SharedPlugins"

	// DefaultConcurrency is how many plugins are copied at once.
	DefaultConcurrency = 4

	// DefaultSelfID is the plugin ID this tool is installed under.
	DefaultSelfID = "com.github.walteh.sharedplugins"
)

// 📚 Settings is the complete configuration.
type Settings struct {
	CentralDirectory string   `json:"central_directory" yaml:"central_directory" hcl:"central_directory,optional"`
	Subdirectory     string   `json:"subdirectory,omitempty" yaml:"subdirectory,omitempty" hcl:"subdirectory,optional"`
	PluginsDirectory string   `json:"plugins_directory,omitempty" yaml:"plugins_directory,omitempty" hcl:"plugins_directory,optional"`
	Include          []string `json:"include,omitempty" yaml:"include,omitempty" hcl:"include,optional"`  // plugin ID / dir patterns to share
	Exclude          []string `json:"exclude,omitempty" yaml:"exclude,omitempty" hcl:"exclude,optional"`  // plugin ID / dir patterns to never share
	Ignore           []string `json:"ignore,omitempty" yaml:"ignore,omitempty" hcl:"ignore,optional"`     // paths inside a plugin to skip
	Symlinks         string   `json:"symlinks,omitempty" yaml:"symlinks,omitempty" hcl:"symlinks,optional"` // skip, follow or copy
	Concurrency      int      `json:"concurrency,omitempty" yaml:"concurrency,omitempty" hcl:"concurrency,optional"`
	SelfID           string   `json:"self_id,omitempty" yaml:"self_id,omitempty" hcl:"self_id,optional"`

	location string
}

// 🏭 Default returns validated settings with nothing configured.
func Default() *Settings {
	cfg := &Settings{}
	cfg.setDefaults()
	return cfg
}

// Location is the file the settings were loaded from, if any.
func (cfg *Settings) Location() string {
	return cfg.location
}

// CentralRoot is the directory plugins are copied into, or "" when the
// central directory has not been set.
func (cfg *Settings) CentralRoot() string {
	if strings.TrimSpace(cfg.CentralDirectory) == "" {
		return ""
	}
	return filepath.Join(cfg.CentralDirectory, cfg.Subdirectory)
}

// SymlinkPolicy returns the parsed symlink policy. Validate has already
// rejected unknown values.
func (cfg *Settings) SymlinkPolicy() replicate.SymlinkPolicy {
	p, _ := replicate.ParseSymlinkPolicy(cfg.Symlinks)
	return p
}

// 🔍 Validate cleans paths, fills defaults and checks patterns.
func (cfg *Settings) Validate(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	var err error
	if cfg.CentralDirectory, err = cleanPath(cfg.CentralDirectory); err != nil {
		return errors.Errorf("central_directory: %w", err)
	}
	if cfg.PluginsDirectory, err = cleanPath(cfg.PluginsDirectory); err != nil {
		return errors.Errorf("plugins_directory: %w", err)
	}

	if strings.ContainsAny(cfg.Subdirectory, `/\`) || cfg.Subdirectory == ".." {
		return errors.Errorf("subdirectory must be a single path segment, got %q", cfg.Subdirectory)
	}

	if cfg.Concurrency < 0 {
		return errors.Errorf("concurrency must not be negative, got %d", cfg.Concurrency)
	}

	if _, err := replicate.ParseSymlinkPolicy(cfg.Symlinks); err != nil {
		return errors.Errorf("symlinks: %w", err)
	}

	for name, patterns := range map[string][]string{"include": cfg.Include, "exclude": cfg.Exclude, "ignore": cfg.Ignore} {
		for _, p := range patterns {
			if !doublestar.ValidatePattern(p) {
				return errors.Errorf("%s: invalid pattern %q", name, p)
			}
		}
	}

	cfg.setDefaults()

	if cfg.CentralDirectory == "" {
		logger.Debug().Msg("central directory is not configured")
	}

	return nil
}

func (cfg *Settings) setDefaults() {
	if cfg.Subdirectory == "" {
		cfg.Subdirectory = DefaultSubdirectory
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.Symlinks == "" {
		cfg.Symlinks = replicate.SymlinkSkip.String()
	}
	if cfg.SelfID == "" {
		cfg.SelfID = DefaultSelfID
	}
}

// cleanPath expands a leading "~" and cleans p. Empty stays empty.
func cleanPath(p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return "", nil
	}
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Errorf("expanding home directory: %w", err)
		}
		p = filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return filepath.Clean(p), nil
}
