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
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/sharedplugins/pkg/replicate"
)

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

// 🧪 TestLoad tests loading every supported format
func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		content     string
		wantErr     bool
		errContains string
		check       func(t *testing.T, cfg *Settings)
	}{
		{
			name: "yaml_full",
			file: "sharedplugins.yaml",
			content: `
central_directory: /srv/team
plugins_directory: /home/me/.plugins
include: ["com.example.*"]
exclude: ["*.internal"]
ignore: ["**/*.log"]
symlinks: follow
concurrency: 2
`,
			check: func(t *testing.T, cfg *Settings) {
				assert.Equal(t, "/srv/team", cfg.CentralDirectory, "central directory")
				assert.Equal(t, "/srv/team/SharedPlugins", cfg.CentralRoot(), "central root gets the subdirectory")
				assert.Equal(t, "/home/me/.plugins", cfg.PluginsDirectory, "plugins directory")
				assert.Equal(t, []string{"com.example.*"}, cfg.Include, "include")
				assert.Equal(t, []string{"*.internal"}, cfg.Exclude, "exclude")
				assert.Equal(t, []string{"**/*.log"}, cfg.Ignore, "ignore")
				assert.Equal(t, replicate.SymlinkFollow, cfg.SymlinkPolicy(), "symlink policy")
				assert.Equal(t, 2, cfg.Concurrency, "concurrency")
				assert.Equal(t, DefaultSelfID, cfg.SelfID, "self id default")
			},
		},
		{
			name:    "json_minimal",
			file:    "sharedplugins.json",
			content: `{"central_directory": "/srv/team/"}`,
			check: func(t *testing.T, cfg *Settings) {
				assert.Equal(t, "/srv/team", cfg.CentralDirectory, "path is cleaned")
				assert.Equal(t, DefaultConcurrency, cfg.Concurrency, "default concurrency")
				assert.Equal(t, replicate.SymlinkSkip, cfg.SymlinkPolicy(), "default symlink policy")
			},
		},
		{
			name: "hcl",
			file: "sharedplugins.hcl",
			content: `
central_directory = "/srv/team"
subdirectory      = "Plugins"
include           = ["a", "b"]
`,
			check: func(t *testing.T, cfg *Settings) {
				assert.Equal(t, "/srv/team/Plugins", cfg.CentralRoot(), "custom subdirectory")
				assert.Equal(t, []string{"a", "b"}, cfg.Include, "include")
			},
		},
		{
			name:    "hcl_home_variable",
			file:    "sharedplugins.hcl",
			content: `central_directory = "${home}/team"`,
			check: func(t *testing.T, cfg *Settings) {
				home, err := os.UserHomeDir()
				require.NoError(t, err, "home dir")
				assert.Equal(t, filepath.Join(home, "team"), cfg.CentralDirectory, "home is interpolated")
			},
		},
		{
			name:    "dotfile_as_hcl",
			file:    ".sharedplugins",
			content: `central_directory = "/srv/team"`,
			check: func(t *testing.T, cfg *Settings) {
				assert.Equal(t, "/srv/team", cfg.CentralDirectory, "falls back to HCL")
			},
		},
		{
			name:    "dotfile_as_yaml",
			file:    ".sharedplugins",
			content: "central_directory: /srv/team\n",
			check: func(t *testing.T, cfg *Settings) {
				assert.Equal(t, "/srv/team", cfg.CentralDirectory, "YAML first")
			},
		},
		{
			name:    "empty_yaml",
			file:    "sharedplugins.yaml",
			content: "",
			check: func(t *testing.T, cfg *Settings) {
				assert.Equal(t, "", cfg.CentralRoot(), "nothing configured")
			},
		},
		{
			name:        "unknown_yaml_field",
			file:        "sharedplugins.yaml",
			content:     "central_dir: /x\n",
			wantErr:     true,
			errContains: "parsing YAML",
		},
		{
			name:        "unknown_json_field",
			file:        "sharedplugins.json",
			content:     `{"nope": 1}`,
			wantErr:     true,
			errContains: "parsing JSON",
		},
		{
			name:        "bad_symlink_policy",
			file:        "sharedplugins.yaml",
			content:     "symlinks: sometimes\n",
			wantErr:     true,
			errContains: "symlinks",
		},
		{
			name:        "bad_pattern",
			file:        "sharedplugins.yaml",
			content:     "include: ['[']\n",
			wantErr:     true,
			errContains: "invalid pattern",
		},
		{
			name:        "negative_concurrency",
			file:        "sharedplugins.yaml",
			content:     "concurrency: -1\n",
			wantErr:     true,
			errContains: "concurrency",
		},
		{
			name:        "nested_subdirectory",
			file:        "sharedplugins.yaml",
			content:     "subdirectory: a/b\n",
			wantErr:     true,
			errContains: "single path segment",
		},
		{
			name:        "unsupported_extension",
			file:        "sharedplugins.toml",
			content:     "x = 1",
			wantErr:     true,
			errContains: "unsupported file extension",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644), "writing config")

			cfg, err := Load(testContext(t), path)
			if tt.wantErr {
				require.Error(t, err, "load should fail")
				assert.Contains(t, err.Error(), tt.errContains, "error message")
				return
			}
			require.NoError(t, err, "load should succeed")
			assert.Equal(t, path, cfg.Location(), "location recorded")
			tt.check(t, cfg)
		})
	}
}

func TestLoadOrDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")

	cfg, err := LoadOrDefault(testContext(t), path)
	require.NoError(t, err, "missing file is not an error")
	assert.Equal(t, "", cfg.CentralRoot(), "nothing configured")
	assert.Equal(t, DefaultSubdirectory, cfg.Subdirectory, "defaults applied")
	assert.Equal(t, path, cfg.Location(), "location remembered for saving")
}

func TestSaveRoundTrip(t *testing.T) {
	for _, file := range []string{"cfg.yaml", "cfg.json", "cfg.hcl", ".sharedplugins"} {
		t.Run(file, func(t *testing.T) {
			ctx := testContext(t)
			path := filepath.Join(t.TempDir(), "nested", file)

			cfg := Default()
			cfg.CentralDirectory = "/srv/team"
			cfg.Include = []string{"com.example.*"}
			cfg.Ignore = []string{"**/*.log"}
			cfg.Concurrency = 3

			require.NoError(t, cfg.Save(ctx, path), "save should succeed")

			got, err := Load(ctx, path)
			require.NoError(t, err, "load should succeed")
			assert.Equal(t, cfg.CentralDirectory, got.CentralDirectory, "central directory")
			assert.Equal(t, cfg.Include, got.Include, "include")
			assert.Equal(t, cfg.Ignore, got.Ignore, "ignore")
			assert.Equal(t, 3, got.Concurrency, "concurrency")
			assert.Equal(t, cfg.CentralRoot(), got.CentralRoot(), "central root")
		})
	}
}

func TestCentralRootUnset(t *testing.T) {
	cfg := Default()
	cfg.CentralDirectory = "   "
	assert.Equal(t, "", cfg.CentralRoot(), "blank central directory means unset")
}

func TestUpdate(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		central  string
		want     []string
		notWant  []string
		wantErr  bool
	}{
		{
			name:    "missing_file_gets_only_the_change",
			central: "/shared",
			want:    []string{"central_directory: /shared"},
			notWant: []string{"concurrency", "self_id", "subdirectory", "symlinks"},
		},
		{
			name:     "existing_fields_kept",
			existing: "concurrency: 2\nexclude:\n  - com.example.*\n",
			central:  "/shared",
			want:     []string{"central_directory: /shared", "concurrency: 2", "com.example.*"},
			notWant:  []string{"self_id", "subdirectory", "symlinks"},
		},
		{
			name:     "invalid_result_not_written",
			existing: "subdirectory: a/b\n",
			central:  "/shared",
			wantErr:  true,
			want:     []string{"subdirectory: a/b"},
			notWant:  []string{"central_directory"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(t)
			path := filepath.Join(t.TempDir(), "sharedplugins.yaml")
			if tt.existing != "" {
				require.NoError(t, os.WriteFile(path, []byte(tt.existing), 0o644), "writing config")
			}

			cfg, err := Update(ctx, path, func(s *Settings) { s.CentralDirectory = tt.central })
			if tt.wantErr {
				require.Error(t, err, "update should fail")
			} else {
				require.NoError(t, err, "update should succeed")
				assert.Equal(t, filepath.Join(tt.central, DefaultSubdirectory), cfg.CentralRoot(), "effective settings")
				assert.Equal(t, DefaultSelfID, cfg.SelfID, "defaults applied to the returned settings")
				assert.Equal(t, path, cfg.Location(), "location")
			}

			data, err := os.ReadFile(path)
			if tt.existing == "" && tt.wantErr {
				assert.ErrorIs(t, err, os.ErrNotExist, "nothing written")
				return
			}
			require.NoError(t, err, "reading config")
			for _, w := range tt.want {
				assert.Contains(t, string(data), w)
			}
			for _, w := range tt.notWant {
				assert.NotContains(t, string(data), w)
			}
		})
	}
}
