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

// Package snapshotter captures environment diagnostics of a node host.
//
// # Overview
//
// EnvSnapshotter runs a fixed, ordered list of probes, each writing its
// output to <name>.txt in a scratch directory. The files that were produced
// form the "capture" record, re-rooted under /capture in the archive.
//
// # Probes
//
// CommandProbe runs an external command with stdout and stderr merged:
//
//	&snapshotter.CommandProbe{Label: "python-version", Command: []string{"python3", "--version"}}
//
// UnitProbe dumps the properties of a systemd unit over D-Bus:
//
//	&snapshotter.UnitProbe{Label: "systemd-indy-node", Unit: "indy-node.service"}
//
// ReleaseProbe writes the sorted KEY=value pairs of the first os-release file
// found, without spawning a process.
//
// DefaultProbes returns the runtime version, installed Python packages,
// installed OS packages, validator info, the node service unit and the
// OS release.
//
// # Failure Handling
//
// A probe that cannot start, exits non-zero, times out, or writes nothing
// is logged at WARN and its file is removed. Missing tools never fail a
// capture.
//
// # Usage
//
//	reg := scratch.New("")
//	defer reg.Close()
//
//	s := &snapshotter.EnvSnapshotter{Scratch: reg}
//	rec, err := s.Snapshot(ctx)
//
// # Observability
//
// Probe outcomes and durations are exported through Prometheus:
//
//   - nodecap_probe_total{probe,status}
//   - nodecap_probe_duration_seconds{probe}
package snapshotter
