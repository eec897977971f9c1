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
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/rs/zerolog"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// 💾 Save writes the settings to path, picking the format from the extension
// the same way Load does. Extensionless files are written as YAML.
func (cfg *Settings) Save(ctx context.Context, path string) error {
	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("saving settings")

	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = json.MarshalIndent(cfg, "", "  ")
		data = append(data, '\n')
	case ".hcl":
		data = encodeHCL(cfg)
	default:
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return errors.Errorf("encoding settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Errorf("creating config directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.Errorf("renaming temp file: %w", err)
	}

	cfg.location = path
	return nil
}

// 📝 Update applies change to the settings stored at path and writes them
// back. The file keeps only what it already held plus the change; defaults
// and command line overrides never end up in it. A missing file starts empty.
// The returned settings are the validated, effective ones.
func Update(ctx context.Context, path string, change func(*Settings)) (*Settings, error) {
	cfg, err := decode(ctx, path)
	if errors.Is(err, os.ErrNotExist) {
		cfg, err = &Settings{}, nil
	}
	if err != nil {
		return nil, err
	}

	change(cfg)

	effective := *cfg
	if err := effective.Validate(ctx); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	if err := cfg.Save(ctx, path); err != nil {
		return nil, err
	}
	effective.location = path
	return &effective, nil
}

// encodeHCL writes only the attributes that are set, so a saved file stays as
// small as one written by hand.
func encodeHCL(cfg *Settings) []byte {
	f := hclwrite.NewEmptyFile()
	body := f.Body()

	setString := func(name, value string) {
		if value != "" {
			body.SetAttributeValue(name, cty.StringVal(value))
		}
	}
	setList := func(name string, values []string) {
		if len(values) == 0 {
			return
		}
		vals := make([]cty.Value, 0, len(values))
		for _, v := range values {
			vals = append(vals, cty.StringVal(v))
		}
		body.SetAttributeValue(name, cty.ListVal(vals))
	}

	setString("central_directory", cfg.CentralDirectory)
	setString("subdirectory", cfg.Subdirectory)
	setString("plugins_directory", cfg.PluginsDirectory)
	setList("include", cfg.Include)
	setList("exclude", cfg.Exclude)
	setList("ignore", cfg.Ignore)
	setString("symlinks", cfg.Symlinks)
	if cfg.Concurrency != 0 {
		body.SetAttributeValue("concurrency", cty.NumberIntVal(int64(cfg.Concurrency)))
	}
	setString("self_id", cfg.SelfID)

	return f.Bytes()
}
