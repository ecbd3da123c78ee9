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

package collector

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/NVIDIA/nodecap/pkg/defaults"
	"github.com/NVIDIA/nodecap/pkg/identity"
	"github.com/NVIDIA/nodecap/pkg/layout"
)

// Target carries everything a source needs to locate and filter its files.
type Target struct {
	Root             string
	Layout           layout.Layout
	Node             identity.Node
	CompanionSuffix  string
	ExcludeRecording bool
}

func (t Target) suffix() string {
	if t.CompanionSuffix == "" {
		return defaults.CompanionSuffix
	}
	return t.CompanionSuffix
}

// Spec describes one collection source.
type Spec struct {
	// Name identifies the source in logs, metrics and the manifest.
	Name string

	// Dir resolves the source directory for a target.
	Dir func(Target) string

	// ArchiveBase is where the source lands inside the archive.
	ArchiveBase string

	// Predicate builds the inclusion rule for a target. Nil accepts all.
	Predicate func(Target) Predicate

	// Recursive descends into subdirectories.
	Recursive bool

	// WholeDirectory captures the directory as a unit without walking it.
	WholeDirectory bool
}

// Source names of the built-in specs.
const (
	SourceCapture  = "capture"
	SourceLog      = "log"
	SourceConfig   = "config"
	SourceData     = "data"
	SourcePlugins  = "plugins"
	SourceManifest = "manifest"
)

// DefaultSpecs returns the built-in node sources in archive order. The
// environment capture is produced by the snapshotter and precedes them.
func DefaultSpecs() []Spec {
	return []Spec{
		{
			Name: SourceLog,
			Dir: func(t Target) string {
				return t.Layout.PoolLogDir(t.Root, t.Node.Pool)
			},
			ArchiveBase: defaults.LogBase,
			Predicate: func(t Target) Predicate {
				return LogPredicate(t.Node.Name)
			},
		},
		{
			Name: SourceConfig,
			Dir: func(t Target) string {
				return t.Layout.MustResolve(t.Root, layout.DirConfig)
			},
			ArchiveBase: defaults.ConfigBase,
		},
		{
			Name: SourceData,
			Dir: func(t Target) string {
				return t.Layout.PoolDir(t.Root, t.Node.Pool)
			},
			ArchiveBase: defaults.DataBase,
			Predicate: func(t Target) Predicate {
				return DataPredicate(t.Node.Name, t.suffix(), t.ExcludeRecording)
			},
			Recursive: true,
		},
		{
			Name: SourcePlugins,
			Dir: func(t Target) string {
				return t.Layout.MustResolve(t.Root, layout.DirPlugins)
			},
			ArchiveBase: defaults.PluginsBase,
			Recursive:   true,
		},
	}
}

// RootedDir returns a Dir func for a path relative to the target root.
func RootedDir(rel string) func(Target) string {
	return func(t Target) string {
		return filepath.Join(t.Root, filepath.FromSlash(rel))
	}
}

// CollectSpec collects a single source. It returns a nil record when the
// source directory is absent.
func CollectSpec(ctx context.Context, t Target, s Spec) (*Record, error) {
	dir := s.Dir(t)

	if s.WholeDirectory {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			if err != nil && !stderrors.Is(err, fs.ErrNotExist) {
				slog.Warn("source directory not accessible, skipping", "source", s.Name, "dir", dir, "error", err)
			} else {
				slog.Warn("source directory does not exist, skipping", "source", s.Name, "dir", dir)
			}
			return nil, nil
		}
		return &Record{Name: s.Name, SourceRoot: filepath.Clean(dir), ArchiveBase: s.ArchiveBase}, nil
	}

	var pred Predicate
	if s.Predicate != nil {
		pred = s.Predicate(t)
	}

	rec, err := Collect(ctx, dir, s.ArchiveBase, pred, s.Recursive)
	if err != nil {
		return nil, fmt.Errorf("failed to collect %s: %w", s.Name, err)
	}
	if rec == nil {
		return nil, nil
	}
	rec.Name = s.Name
	return rec, nil
}

// CollectAll collects every spec in order and returns the records that
// hold files. Absent sources, and walked sources where nothing matched,
// are omitted; only whole-directory sources may yield an empty record.
func CollectAll(ctx context.Context, t Target, specs []Spec) ([]*Record, error) {
	records := make([]*Record, 0, len(specs))
	for _, s := range specs {
		rec, err := CollectSpec(ctx, t, s)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			continue
		}
		if !s.WholeDirectory && len(rec.Entries) == 0 {
			slog.Warn("no files matched, skipping source", "source", s.Name, "dir", rec.SourceRoot)
			continue
		}
		slog.Info("collected source",
			"source", rec.Name,
			"dir", rec.SourceRoot,
			"archiveBase", rec.ArchiveBase,
			"files", len(rec.Entries))
		records = append(records, rec)
	}
	return records, nil
}
