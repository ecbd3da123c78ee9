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

package layout

import (
	"path/filepath"
	"strings"

	"github.com/NVIDIA/nodecap/pkg/defaults"
	"github.com/NVIDIA/nodecap/pkg/errors"
)

// Dir names a logical directory of a node host.
type Dir string

const (
	// DirLog holds one log directory per pool.
	DirLog Dir = "log"
	// DirApp holds one data directory per pool plus plugins.
	DirApp Dir = "app"
	// DirConfig holds node configuration.
	DirConfig Dir = "config"
	// DirPlugins holds installed plugins.
	DirPlugins Dir = "plugins"
)

// SupportedDirs returns the logical directory names in a stable order.
func SupportedDirs() []string {
	return []string{string(DirLog), string(DirApp), string(DirConfig), string(DirPlugins)}
}

// Layout maps logical directories to paths relative to a root filesystem.
type Layout struct {
	Log     string `json:"log,omitempty" yaml:"log,omitempty"`
	App     string `json:"app,omitempty" yaml:"app,omitempty"`
	Config  string `json:"config,omitempty" yaml:"config,omitempty"`
	Plugins string `json:"plugins,omitempty" yaml:"plugins,omitempty"`
}

// Default returns the fixed node host profile.
func Default() Layout {
	return Layout{
		Log:     defaults.LogDir,
		App:     defaults.AppDir,
		Config:  defaults.ConfigDir,
		Plugins: defaults.PluginsDir,
	}
}

// WithDefaults returns a copy of l with empty fields taken from Default.
func (l Layout) WithDefaults() Layout {
	d := Default()
	if l.Log == "" {
		l.Log = d.Log
	}
	if l.App == "" {
		l.App = d.App
	}
	if l.Config == "" {
		l.Config = d.Config
	}
	if l.Plugins == "" {
		l.Plugins = d.Plugins
	}
	return l
}

func (l Layout) relative(dir Dir) (string, bool) {
	switch dir {
	case DirLog:
		return l.Log, true
	case DirApp:
		return l.App, true
	case DirConfig:
		return l.Config, true
	case DirPlugins:
		return l.Plugins, true
	default:
		return "", false
	}
}

// Resolve returns the concrete path of dir under root.
func (l Layout) Resolve(root string, dir Dir) (string, error) {
	rel, ok := l.relative(dir)
	if !ok {
		return "", errors.NewWithContext(errors.ErrCodeInvalidRequest, "unknown directory",
			map[string]any{"dir": string(dir), "supported": SupportedDirs()})
	}
	if rel == "" {
		return "", errors.NewWithContext(errors.ErrCodeInvalidRequest, "directory not configured",
			map[string]any{"dir": string(dir)})
	}
	if root == "" {
		root = defaults.RootDir
	}
	return filepath.Join(root, strings.TrimPrefix(filepath.FromSlash(rel), string(filepath.Separator))), nil
}

// MustResolve is Resolve for the built-in directory names, which cannot fail
// on a layout that went through WithDefaults.
func (l Layout) MustResolve(root string, dir Dir) string {
	p, err := l.WithDefaults().Resolve(root, dir)
	if err != nil {
		panic(err)
	}
	return p
}

// PoolLogDir returns the log directory of pool.
func (l Layout) PoolLogDir(root, pool string) string {
	return filepath.Join(l.MustResolve(root, DirLog), pool)
}

// PoolDir returns the application directory of pool.
func (l Layout) PoolDir(root, pool string) string {
	return filepath.Join(l.MustResolve(root, DirApp), pool)
}

// PoolDataDir returns the directory holding one entry per node of pool.
func (l Layout) PoolDataDir(root, pool string) string {
	return filepath.Join(l.PoolDir(root, pool), defaults.DataEntry)
}
