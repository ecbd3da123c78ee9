// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/nodecap/pkg/collector"
	"github.com/NVIDIA/nodecap/pkg/defaults"
	"github.com/NVIDIA/nodecap/pkg/errors"
	"github.com/NVIDIA/nodecap/pkg/layout"
	"github.com/NVIDIA/nodecap/pkg/snapshotter"
)

// Config is the optional configuration file. Zero values fall back to the
// built-in defaults.
type Config struct {
	// Layout overrides directory locations relative to the root.
	Layout layout.Layout `yaml:"layout"`

	// CompanionSuffix names the client-side companion of a node.
	CompanionSuffix string `yaml:"companionSuffix"`

	// Probes replaces the default environment probes when non-empty.
	Probes []ProbeConfig `yaml:"probes"`

	// ExtraSources are collected after the built-in sources.
	ExtraSources []SourceConfig `yaml:"extraSources"`
}

// ProbeConfig declares a probe. Exactly one of Command and Unit is set.
type ProbeConfig struct {
	Name    string   `yaml:"name"`
	Command []string `yaml:"command"`
	Unit    string   `yaml:"unit"`
}

// SourceConfig declares an additional directory to capture.
type SourceConfig struct {
	Name           string `yaml:"name"`
	Dir            string `yaml:"dir"`
	ArchiveBase    string `yaml:"archiveBase"`
	Recursive      bool   `yaml:"recursive"`
	WholeDirectory bool   `yaml:"wholeDirectory"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Layout:          layout.Default(),
		CompanionSuffix: defaults.CompanionSuffix,
	}
}

// Load reads and validates the configuration file at p. An empty path
// returns the defaults.
func Load(p string) (*Config, error) {
	if p == "" {
		return Default(), nil
	}

	f, err := os.Open(p)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeInvalidRequest, "failed to open config file", err,
			map[string]any{"path": p})
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeInvalidRequest, "invalid config file", err,
			map[string]any{"path": p})
	}
	return cfg, nil
}

// Parse decodes a configuration document. Unknown fields are rejected.
func Parse(r io.Reader) (*Config, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.Layout = cfg.Layout.WithDefaults()
	if cfg.CompanionSuffix == "" {
		cfg.CompanionSuffix = defaults.CompanionSuffix
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks names and paths. Probe and source names must be unique
// plain file names; directories are relative to the root.
func (c *Config) Validate() error {
	for _, d := range []string{c.Layout.Log, c.Layout.App, c.Layout.Config, c.Layout.Plugins} {
		if err := validateRelative(d); err != nil {
			return fmt.Errorf("invalid layout: %w", err)
		}
	}
	if strings.ContainsRune(c.CompanionSuffix, '/') {
		return fmt.Errorf("invalid companionSuffix %q", c.CompanionSuffix)
	}

	seen := make(map[string]bool)
	for i, p := range c.Probes {
		if err := validateName(p.Name); err != nil {
			return fmt.Errorf("probes[%d]: %w", i, err)
		}
		if seen[p.Name] {
			return fmt.Errorf("probes[%d]: duplicate name %q", i, p.Name)
		}
		seen[p.Name] = true

		hasCommand := len(p.Command) > 0
		hasUnit := p.Unit != ""
		if hasCommand == hasUnit {
			return fmt.Errorf("probes[%d] %s: exactly one of command or unit is required", i, p.Name)
		}
	}

	reserved := map[string]bool{
		collector.SourceCapture:  true,
		collector.SourceLog:      true,
		collector.SourceConfig:   true,
		collector.SourceData:     true,
		collector.SourcePlugins:  true,
		collector.SourceManifest: true,
	}
	for i, s := range c.ExtraSources {
		if err := validateName(s.Name); err != nil {
			return fmt.Errorf("extraSources[%d]: %w", i, err)
		}
		if reserved[s.Name] {
			return fmt.Errorf("extraSources[%d]: name %q is reserved", i, s.Name)
		}
		reserved[s.Name] = true

		if s.Dir == "" {
			return fmt.Errorf("extraSources[%d] %s: dir is required", i, s.Name)
		}
		if err := validateRelative(s.Dir); err != nil {
			return fmt.Errorf("extraSources[%d] %s: %w", i, s.Name, err)
		}
		if !strings.HasPrefix(s.ArchiveBase, "/") {
			return fmt.Errorf("extraSources[%d] %s: archiveBase %q must be absolute", i, s.Name, s.ArchiveBase)
		}
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("name %q must be a plain file name", name)
	}
	return nil
}

func validateRelative(p string) error {
	if p == "" {
		return nil
	}
	clean := path.Clean(strings.TrimLeft(p, "/"))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("path %q escapes the root", p)
	}
	return nil
}

// BuildProbes returns the configured probes, or the defaults when none
// are configured.
func (c *Config) BuildProbes() []snapshotter.Probe {
	if len(c.Probes) == 0 {
		return snapshotter.DefaultProbes()
	}

	probes := make([]snapshotter.Probe, 0, len(c.Probes))
	for _, p := range c.Probes {
		if p.Unit != "" {
			probes = append(probes, &snapshotter.UnitProbe{Label: p.Name, Unit: p.Unit})
			continue
		}
		probes = append(probes, &snapshotter.CommandProbe{Label: p.Name, Command: p.Command})
	}
	return probes
}

// BuildSpecs returns the built-in sources followed by the extra sources.
func (c *Config) BuildSpecs() []collector.Spec {
	specs := collector.DefaultSpecs()
	for _, s := range c.ExtraSources {
		specs = append(specs, collector.Spec{
			Name:           s.Name,
			Dir:            collector.RootedDir(filepath.ToSlash(strings.TrimLeft(s.Dir, "/"))),
			ArchiveBase:    s.ArchiveBase,
			Recursive:      s.Recursive,
			WholeDirectory: s.WholeDirectory,
		})
	}
	return specs
}
