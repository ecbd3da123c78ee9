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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/nodecap/pkg/collector"
	"github.com/NVIDIA/nodecap/pkg/errors"
	"github.com/NVIDIA/nodecap/pkg/layout"
	"github.com/NVIDIA/nodecap/pkg/snapshotter"
)

func TestLoad_Empty(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nodecap.yaml")
	require.NoError(t, os.WriteFile(p, []byte(`
layout:
  log: opt/indy/log
companionSuffix: X
probes:
  - name: uname
    command: [uname, -a]
  - name: systemd-indy-node
    unit: indy-node.service
extraSources:
  - name: journal
    dir: /var/log/journal
    archiveBase: /journal
    wholeDirectory: true
`), 0o600))

	cfg, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, "opt/indy/log", cfg.Layout.Log)
	assert.Equal(t, layout.Default().App, cfg.Layout.App, "unset layout falls back to default")
	assert.Equal(t, "X", cfg.CompanionSuffix)
	require.Len(t, cfg.Probes, 2)
	require.Len(t, cfg.ExtraSources, 1)
	assert.True(t, cfg.ExtraSources[0].WholeDirectory)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "unknown field", doc: "companionSufix: C\n"},
		{name: "malformed", doc: "probes: [\n"},
		{name: "probe without name", doc: "probes:\n  - command: [ls]\n"},
		{name: "probe name with slash", doc: "probes:\n  - name: a/b\n    command: [ls]\n"},
		{name: "probe with command and unit", doc: "probes:\n  - name: a\n    command: [ls]\n    unit: x.service\n"},
		{name: "probe with neither", doc: "probes:\n  - name: a\n"},
		{name: "duplicate probe", doc: "probes:\n  - {name: a, command: [ls]}\n  - {name: a, command: [ls]}\n"},
		{name: "reserved source name", doc: "extraSources:\n  - {name: log, dir: x, archiveBase: /x}\n"},
		{name: "source without dir", doc: "extraSources:\n  - {name: j, archiveBase: /j}\n"},
		{name: "source escaping root", doc: "extraSources:\n  - {name: j, dir: ../etc, archiveBase: /j}\n"},
		{name: "relative archive base", doc: "extraSources:\n  - {name: j, dir: x, archiveBase: j}\n"},
		{name: "layout escaping root", doc: "layout:\n  config: ../../etc\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoad_InvalidRequest(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRequest))

	p := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(p, []byte("bogus: true\n"), 0o600))
	_, err = Load(p)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRequest))
}

func TestBuildProbes(t *testing.T) {
	assert.Len(t, Default().BuildProbes(), len(snapshotter.DefaultProbes()))

	cfg := &Config{Probes: []ProbeConfig{
		{Name: "uname", Command: []string{"uname", "-a"}},
		{Name: "unit", Unit: "indy-node.service"},
	}}
	probes := cfg.BuildProbes()
	require.Len(t, probes, 2)

	cmd, ok := probes[0].(*snapshotter.CommandProbe)
	require.True(t, ok)
	assert.Equal(t, []string{"uname", "-a"}, cmd.Command)

	unit, ok := probes[1].(*snapshotter.UnitProbe)
	require.True(t, ok)
	assert.Equal(t, "indy-node.service", unit.Unit)
}

func TestBuildSpecs(t *testing.T) {
	cfg := &Config{ExtraSources: []SourceConfig{
		{Name: "journal", Dir: "/var/log/journal", ArchiveBase: "/journal", WholeDirectory: true},
	}}
	specs := cfg.BuildSpecs()

	names := make([]string, 0, len(specs))
	for _, s := range specs {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{
		collector.SourceLog, collector.SourceConfig, collector.SourceData, collector.SourcePlugins, "journal",
	}, names)

	extra := specs[len(specs)-1]
	assert.True(t, extra.WholeDirectory)
	assert.Equal(t, filepath.Join("/rootfs", "var", "log", "journal"), extra.Dir(collector.Target{Root: "/rootfs"}))
}
