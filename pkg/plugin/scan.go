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
package plugin

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DisabledPluginsFile lists plugin IDs, one per line, that are installed but
// switched off. It lives in the plugins directory.
const DisabledPluginsFile = "disabled_plugins.txt"

// 🔍 Scan returns a descriptor for every plugin installed under root, sorted by
// ID. Each subdirectory and each .jar/.zip file is one installation. Entries
// whose descriptor cannot be read are logged and left out.
func Scan(ctx context.Context, root string) ([]Descriptor, error) {
	logger := zerolog.Ctx(ctx).With().Str("plugins_directory", root).Logger()

	if root == "" {
		return nil, errors.New("plugins directory is not configured")
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, errors.Errorf("reading plugins directory: %w", err)
	}

	disabled, err := readDisabled(filepath.Join(root, DisabledPluginsFile))
	if err != nil {
		return nil, err
	}

	var out []Descriptor
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") || name == DisabledPluginsFile {
			continue
		}
		if !entry.IsDir() && entry.Type()&os.ModeSymlink == 0 {
			ext := strings.ToLower(filepath.Ext(name))
			if ext != ".jar" && ext != ".zip" {
				continue
			}
		}

		desc, err := ReadDescriptor(ctx, filepath.Join(root, name))
		if err != nil {
			logger.Warn().Err(err).Str("plugin", name).Msg("skipping plugin with unreadable descriptor")
			continue
		}
		if _, off := disabled[desc.ID]; off {
			desc.Enabled = false
		}
		out = append(out, desc)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	logger.Debug().Int("count", len(out)).Msg("scanned plugins")
	return out, nil
}

// ThirdParty keeps the plugins that were not bundled with the host and are
// enabled.
func ThirdParty(descs []Descriptor) []Descriptor {
	out := make([]Descriptor, 0, len(descs))
	for _, d := range descs {
		if !d.Bundled && d.Enabled {
			out = append(out, d)
		}
	}
	return out
}

// IsSelf reports whether d is this tool's own plugin.
func IsSelf(d Descriptor, selfID string) bool {
	return selfID != "" && d.ID == selfID
}

func readDisabled(path string) (map[string]struct{}, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]struct{}{}, nil
	} else if err != nil {
		return nil, errors.Errorf("opening %s: %w", DisabledPluginsFile, err)
	}
	defer f.Close()

	ids := map[string]struct{}{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if id := strings.TrimSpace(scanner.Text()); id != "" && !strings.HasPrefix(id, "#") {
			ids[id] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Errorf("reading %s: %w", DisabledPluginsFile, err)
	}
	return ids, nil
}
