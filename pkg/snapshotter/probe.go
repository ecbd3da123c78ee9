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

package snapshotter

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"sort"
	"strings"

	"github.com/coreos/go-systemd/v22/dbus"

	"github.com/NVIDIA/nodecap/pkg/defaults"
)

// Probe produces one diagnostic capture file.
type Probe interface {
	// Name labels the probe; output lands in <Name>.txt.
	Name() string
	// Run writes the probe output to w.
	Run(ctx context.Context, w io.Writer) error
}

// CommandProbe runs an external command with stdout and stderr merged.
type CommandProbe struct {
	Label   string
	Command []string
}

// Name implements Probe.
func (p *CommandProbe) Name() string { return p.Label }

// Run implements Probe. A command that cannot start or exits non-zero
// returns an error.
func (p *CommandProbe) Run(ctx context.Context, w io.Writer) error {
	if len(p.Command) == 0 {
		return fmt.Errorf("probe %s has no command", p.Label)
	}

	cmd := exec.CommandContext(ctx, p.Command[0], p.Command[1:]...)
	cmd.Stdout = w
	cmd.Stderr = w
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to run %s: %w", strings.Join(p.Command, " "), err)
	}
	return nil
}

// unitPropertyReader is the subset of *dbus.Conn used by UnitProbe.
type unitPropertyReader interface {
	GetAllPropertiesContext(ctx context.Context, unit string) (map[string]any, error)
	Close()
}

func connectSystemd(ctx context.Context) (unitPropertyReader, error) {
	conn, err := dbus.NewSystemdConnectionContext(ctx)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// filterOutUnitKeys are unit properties left out of the capture.
var filterOutUnitKeys = []string{
	"Credential",
	"Environment",
	"InvocationID",
}

// UnitProbe dumps the properties of a systemd unit over D-Bus.
type UnitProbe struct {
	Label string
	Unit  string

	connect func(ctx context.Context) (unitPropertyReader, error)
}

// Name implements Probe.
func (p *UnitProbe) Name() string { return p.Label }

// Run implements Probe. Properties are written as sorted key=value lines.
func (p *UnitProbe) Run(ctx context.Context, w io.Writer) error {
	connect := p.connect
	if connect == nil {
		connect = connectSystemd
	}

	ctx, cancel := context.WithTimeout(ctx, defaults.SystemdProbeTimeout)
	defer cancel()

	conn, err := connect(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to systemd: %w", err)
	}
	defer conn.Close()

	props, err := conn.GetAllPropertiesContext(ctx, p.Unit)
	if err != nil {
		return fmt.Errorf("failed to get properties of %s: %w", p.Unit, err)
	}

	keys := make([]string, 0, len(props))
	for k := range props {
		if filteredUnitKey(k) {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if _, err := fmt.Fprintf(w, "%s=%v\n", k, props[k]); err != nil {
			return fmt.Errorf("failed to write unit properties: %w", err)
		}
	}
	return nil
}

func filteredUnitKey(k string) bool {
	for _, f := range filterOutUnitKeys {
		if strings.Contains(k, f) {
			return true
		}
	}
	return false
}

// DefaultProbes returns the built-in probe list in capture order.
func DefaultProbes() []Probe {
	return []Probe{
		&CommandProbe{Label: "python-version", Command: []string{"python3", "--version"}},
		&CommandProbe{Label: "pip-packages", Command: []string{"python3", "-m", "pip", "list"}},
		&CommandProbe{Label: "os-packages", Command: []string{"dpkg", "-l"}},
		&CommandProbe{Label: "validator-info", Command: []string{"validator-info", "-v"}},
		&UnitProbe{Label: "systemd-indy-node", Unit: defaults.SystemdUnit},
		&ReleaseProbe{Label: "os-release"},
	}
}
