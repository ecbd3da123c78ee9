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

package manifest

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/nodecap/pkg/collector"
	"github.com/NVIDIA/nodecap/pkg/collector/file"
	"github.com/NVIDIA/nodecap/pkg/defaults"
	"github.com/NVIDIA/nodecap/pkg/identity"
	"github.com/NVIDIA/nodecap/pkg/layout"
)

// Source summarizes one captured record.
type Source struct {
	Name           string `json:"name" yaml:"name"`
	SourceRoot     string `json:"sourceRoot" yaml:"sourceRoot"`
	ArchiveBase    string `json:"archiveBase" yaml:"archiveBase"`
	Files          int    `json:"files" yaml:"files"`
	WholeDirectory bool   `json:"wholeDirectory,omitempty" yaml:"wholeDirectory,omitempty"`
}

// Manifest describes a capture. It is stored at the archive root.
type Manifest struct {
	CaptureID        string    `json:"captureId" yaml:"captureId"`
	Version          string    `json:"version" yaml:"version"`
	CreatedAt        time.Time `json:"createdAt" yaml:"createdAt"`
	Hostname         string    `json:"hostname,omitempty" yaml:"hostname,omitempty"`
	Root             string    `json:"root" yaml:"root"`
	Node             string    `json:"node" yaml:"node"`
	Pool             string    `json:"pool" yaml:"pool"`
	Network          string    `json:"network,omitempty" yaml:"network,omitempty"`
	TestMode         bool      `json:"testMode,omitempty" yaml:"testMode,omitempty"`
	ExcludeRecording bool      `json:"excludeRecording,omitempty" yaml:"excludeRecording,omitempty"`
	Sources          []Source  `json:"sources" yaml:"sources"`
}

// New returns a manifest for node with a fresh capture ID.
func New(node identity.Node, root, version string, now time.Time) *Manifest {
	host, err := os.Hostname()
	if err != nil {
		slog.Debug("hostname unavailable", "error", err)
	}
	return &Manifest{
		CaptureID: uuid.NewString(),
		Version:   version,
		CreatedAt: now.UTC(),
		Hostname:  host,
		Root:      root,
		Node:      node.Name,
		Pool:      node.Pool,
		Sources:   make([]Source, 0),
	}
}

// AddRecords appends a summary of every record.
func (m *Manifest) AddRecords(records []*collector.Record) {
	for _, r := range records {
		if r == nil {
			continue
		}
		m.Sources = append(m.Sources, Source{
			Name:           r.Name,
			SourceRoot:     r.SourceRoot,
			ArchiveBase:    r.ArchiveBase,
			Files:          len(r.Entries),
			WholeDirectory: r.IsWholeDirectory(),
		})
	}
}

// Write stores the manifest as YAML in dir and returns the file path.
func (m *Manifest) Write(dir string) (string, error) {
	b, err := yaml.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("failed to marshal manifest: %w", err)
	}
	p := filepath.Join(dir, defaults.ManifestFileName)
	if err := os.WriteFile(p, b, 0o600); err != nil {
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}
	return p, nil
}

// NetworkName returns the network configured in the node configuration
// file, or an empty string when the file or key is missing.
func NetworkName(root string, l layout.Layout) string {
	dir, err := l.WithDefaults().Resolve(root, layout.DirConfig)
	if err != nil {
		return ""
	}
	p := filepath.Join(dir, defaults.ConfigFileName)

	v, ok, err := file.NewParser().GetValue(p, defaults.NetworkNameKey)
	if err != nil {
		slog.Debug("node configuration not readable", "path", p, "error", err)
		return ""
	}
	if !ok {
		return ""
	}
	return v
}
