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
// Package plugin discovers installed plugins and selects which ones to share.
package plugin

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// Descriptor file names looked up inside a plugin directory, in order.
const (
	DescriptorYAML = "plugin.yaml"
	DescriptorHCL  = "plugin.hcl"
)

// 📦 Descriptor describes one installed plugin.
type Descriptor struct {
	ID      string
	Name    string
	Version string
	Vendor  string
	Path    string // installation directory or archive
	Bundled bool   // shipped with the host, never shared
	Enabled bool
}

// DirName is the last path segment of the installation, which is also the
// name it gets under the central directory.
func (d Descriptor) DirName() string {
	return filepath.Base(d.Path)
}

func (d Descriptor) String() string {
	if d.Version == "" {
		return d.Name
	}
	return fmt.Sprintf("%s %s", d.Name, d.Version)
}

// descriptorFile is the on-disk shape shared by the YAML and HCL formats.
type descriptorFile struct {
	ID      string `yaml:"id" hcl:"id,optional"`
	Name    string `yaml:"name" hcl:"name,optional"`
	Version string `yaml:"version" hcl:"version,optional"`
	Vendor  string `yaml:"vendor" hcl:"vendor,optional"`
	Bundled bool   `yaml:"bundled" hcl:"bundled,optional"`
	Enabled *bool  `yaml:"enabled" hcl:"enabled,optional"`
}

// 🔍 ReadDescriptor builds a Descriptor for the installation at path. A
// directory may carry a plugin.yaml or plugin.hcl; anything missing falls back
// to the directory (or archive) name.
func ReadDescriptor(ctx context.Context, path string) (Descriptor, error) {
	name := filepath.Base(path)
	if ext := filepath.Ext(name); ext == ".jar" || ext == ".zip" {
		name = strings.TrimSuffix(name, ext)
	}

	desc := Descriptor{
		ID:      name,
		Name:    name,
		Path:    path,
		Enabled: true,
	}

	info, err := os.Stat(path)
	if err != nil {
		return desc, errors.Errorf("stat plugin: %w", err)
	}
	if !info.IsDir() {
		return desc, nil
	}

	file, err := readDescriptorFile(path)
	if err != nil {
		return desc, err
	}
	if file == nil {
		return desc, nil
	}

	if file.ID != "" {
		desc.ID = file.ID
	}
	if file.Name != "" {
		desc.Name = file.Name
	}
	desc.Version = file.Version
	desc.Vendor = file.Vendor
	desc.Bundled = file.Bundled
	if file.Enabled != nil {
		desc.Enabled = *file.Enabled
	}
	return desc, nil
}

func readDescriptorFile(dir string) (*descriptorFile, error) {
	if data, err := os.ReadFile(filepath.Join(dir, DescriptorYAML)); err == nil {
		var f descriptorFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, errors.Errorf("parsing %s: %w", DescriptorYAML, err)
		}
		return &f, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, errors.Errorf("reading %s: %w", DescriptorYAML, err)
	}

	hclPath := filepath.Join(dir, DescriptorHCL)
	data, err := os.ReadFile(hclPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, errors.Errorf("reading %s: %w", DescriptorHCL, err)
	}

	hclFile, diags := hclparse.NewParser().ParseHCL(data, hclPath)
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing %s: %s", DescriptorHCL, diags.Error())
	}
	var f descriptorFile
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &f); diags.HasErrors() {
		return nil, errors.Errorf("decoding %s: %s", DescriptorHCL, diags.Error())
	}
	return &f, nil
}
