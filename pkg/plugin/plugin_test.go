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
package plugin_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/sharedplugins/pkg/plugin"
)

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755), "creating parent")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644), "writing %s", path)
}

// 🧪 newPluginsDir lays out a plugins directory with every kind of entry Scan handles
func newPluginsDir(t *testing.T) string {
	root := t.TempDir()

	write(t, filepath.Join(root, "rainbow", "plugin.yaml"), `
id: com.example.rainbow
name: Rainbow Brackets
version: 2.1.0
vendor: Example
`)
	write(t, filepath.Join(root, "rainbow", "lib", "rainbow.jar"), "jar")

	write(t, filepath.Join(root, "kotlin", "plugin.hcl"), `
id      = "org.jetbrains.kotlin"
name    = "Kotlin"
bundled = true
`)

	write(t, filepath.Join(root, "vim", "plugin.yaml"), "id: com.example.vim\nenabled: false\n")
	write(t, filepath.Join(root, "bare", "lib", "bare.jar"), "jar")
	write(t, filepath.Join(root, "single.jar"), "jar")
	write(t, filepath.Join(root, "notes.txt"), "not a plugin")
	write(t, filepath.Join(root, ".cache", "x"), "hidden")
	write(t, filepath.Join(root, "broken", "plugin.yaml"), "id: [unterminated")
	write(t, filepath.Join(root, "legacy", "plugin.yaml"), "id: com.example.legacy\n")
	write(t, filepath.Join(root, plugin.DisabledPluginsFile), "# disabled\ncom.example.legacy\n")

	return root
}

func TestScan(t *testing.T) {
	root := newPluginsDir(t)

	descs, err := plugin.Scan(testContext(t), root)
	require.NoError(t, err, "scan should succeed")

	ids := make([]string, 0, len(descs))
	byID := map[string]plugin.Descriptor{}
	for _, d := range descs {
		ids = append(ids, d.ID)
		byID[d.ID] = d
	}

	assert.Equal(t, []string{
		"bare",
		"com.example.legacy",
		"com.example.rainbow",
		"com.example.vim",
		"org.jetbrains.kotlin",
		"single",
	}, ids, "sorted by id, broken/hidden/non-plugins left out")

	rainbow := byID["com.example.rainbow"]
	assert.Equal(t, "Rainbow Brackets", rainbow.Name, "name from yaml")
	assert.Equal(t, "2.1.0", rainbow.Version, "version from yaml")
	assert.Equal(t, "Example", rainbow.Vendor, "vendor from yaml")
	assert.Equal(t, "rainbow", rainbow.DirName(), "dir name")
	assert.Equal(t, "Rainbow Brackets 2.1.0", rainbow.String(), "display string")
	assert.True(t, rainbow.Enabled, "enabled by default")

	assert.True(t, byID["org.jetbrains.kotlin"].Bundled, "bundled from hcl")
	assert.False(t, byID["com.example.vim"].Enabled, "disabled in descriptor")
	assert.False(t, byID["com.example.legacy"].Enabled, "disabled by list")
	assert.Equal(t, "bare", byID["bare"].Name, "name falls back to directory")
	assert.Equal(t, "single.jar", byID["single"].DirName(), "archive keeps its file name")
}

func TestScanErrors(t *testing.T) {
	_, err := plugin.Scan(testContext(t), "")
	assert.Error(t, err, "empty root should fail")

	_, err = plugin.Scan(testContext(t), filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err, "missing root should fail")
}

func TestThirdParty(t *testing.T) {
	descs, err := plugin.Scan(testContext(t), newPluginsDir(t))
	require.NoError(t, err, "scan should succeed")

	var ids []string
	for _, d := range plugin.ThirdParty(descs) {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []string{"bare", "com.example.rainbow", "single"}, ids, "bundled and disabled plugins dropped")
}

func TestIsSelf(t *testing.T) {
	assert.True(t, plugin.IsSelf(plugin.Descriptor{ID: "me"}, "me"), "same id")
	assert.False(t, plugin.IsSelf(plugin.Descriptor{ID: "me"}, "you"), "other id")
	assert.False(t, plugin.IsSelf(plugin.Descriptor{ID: ""}, ""), "empty self id matches nothing")
}

func TestPatternsSelect(t *testing.T) {
	candidates := []plugin.Descriptor{
		{ID: "com.example.rainbow", Path: "/p/rainbow"},
		{ID: "com.example.vim", Path: "/p/ideavim"},
		{ID: "org.other.tool", Path: "/p/tool"},
	}

	tests := []struct {
		name    string
		sel     plugin.Patterns
		want    []string
		wantErr bool
	}{
		{name: "no_patterns_selects_all", sel: plugin.Patterns{}, want: []string{"com.example.rainbow", "com.example.vim", "org.other.tool"}},
		{name: "include_by_id", sel: plugin.Patterns{Include: []string{"com.example.*"}}, want: []string{"com.example.rainbow", "com.example.vim"}},
		{name: "include_by_dir", sel: plugin.Patterns{Include: []string{"idea*"}}, want: []string{"com.example.vim"}},
		{name: "exclude_wins", sel: plugin.Patterns{Include: []string{"com.example.*"}, Exclude: []string{"*.vim"}}, want: []string{"com.example.rainbow"}},
		{name: "invalid_pattern", sel: plugin.Patterns{Exclude: []string{"["}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.sel.Select(context.Background(), candidates)
			if tt.wantErr {
				assert.Error(t, err, "select should fail")
				return
			}
			require.NoError(t, err, "select should succeed")
			ids := []string{}
			for _, d := range got {
				ids = append(ids, d.ID)
			}
			assert.Equal(t, tt.want, ids, "selected ids")
		})
	}
}

func TestAllAndSelectorFunc(t *testing.T) {
	candidates := []plugin.Descriptor{{ID: "a"}, {ID: "b"}}

	got, err := plugin.All{}.Select(context.Background(), candidates)
	require.NoError(t, err, "all should succeed")
	assert.Equal(t, candidates, got, "all returns everything")

	first := plugin.SelectorFunc(func(_ context.Context, c []plugin.Descriptor) ([]plugin.Descriptor, error) {
		return c[:1], nil
	})
	got, err = first.Select(context.Background(), candidates)
	require.NoError(t, err, "func selector should succeed")
	assert.Equal(t, []plugin.Descriptor{{ID: "a"}}, got, "func result passed through")
}
