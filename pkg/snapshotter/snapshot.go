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
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/NVIDIA/nodecap/pkg/collector"
	"github.com/NVIDIA/nodecap/pkg/defaults"
	"github.com/NVIDIA/nodecap/pkg/scratch"
)

// EnvSnapshotter runs diagnostic probes into a scratch directory and
// returns the produced files as the capture record.
type EnvSnapshotter struct {
	// Probes run in order. Nil uses DefaultProbes.
	Probes []Probe

	// Scratch owns the output directory.
	Scratch *scratch.Registry

	// Timeout bounds each probe. Zero uses defaults.ProbeTimeout.
	Timeout time.Duration
}

// Snapshot runs every probe sequentially. Record entries follow probe
// order. A probe that fails or produces no output is logged and left out;
// only cancellation of ctx or failure to create the scratch directory is an
// error.
func (s *EnvSnapshotter) Snapshot(ctx context.Context) (*collector.Record, error) {
	if s.Scratch == nil {
		return nil, fmt.Errorf("snapshotter requires a scratch registry")
	}

	probes := s.Probes
	if probes == nil {
		probes = DefaultProbes()
	}
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = defaults.ProbeTimeout
	}

	dir, err := s.Scratch.MkdirTemp("nodecap-capture-")
	if err != nil {
		return nil, err
	}

	slog.Debug("running environment probes", "count", len(probes), "dir", dir)

	rec := &collector.Record{
		Name:        collector.SourceCapture,
		SourceRoot:  dir,
		ArchiveBase: defaults.CaptureBase,
		Entries:     make([]string, 0, len(probes)),
	}
	for _, p := range probes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if s.runProbe(ctx, p, dir, timeout) {
			rec.Entries = append(rec.Entries, p.Name()+".txt")
		}
	}

	return rec, nil
}

// runProbe writes the output of p to <dir>/<name>.txt and reports whether
// the file was kept.
func (s *EnvSnapshotter) runProbe(ctx context.Context, p Probe, dir string, timeout time.Duration) bool {
	start := time.Now()
	defer func() {
		probeDuration.WithLabelValues(p.Name()).Observe(time.Since(start).Seconds())
	}()

	path := filepath.Join(dir, p.Name()+".txt")
	f, err := os.Create(path)
	if err != nil {
		slog.Warn("failed to create probe output", "probe", p.Name(), "error", err)
		probeTotal.WithLabelValues(p.Name(), statusError).Inc()
		return false
	}

	pctx, cancel := context.WithTimeout(ctx, timeout)
	runErr := p.Run(pctx, f)
	cancel()

	closeErr := f.Close()
	if runErr == nil {
		runErr = closeErr
	}

	if runErr != nil {
		slog.Warn("probe failed, omitting output", "probe", p.Name(), "error", runErr)
		probeTotal.WithLabelValues(p.Name(), statusError).Inc()
		removeQuietly(path)
		return false
	}

	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		slog.Warn("probe produced no output, omitting", "probe", p.Name())
		probeTotal.WithLabelValues(p.Name(), statusEmpty).Inc()
		removeQuietly(path)
		return false
	}

	probeTotal.WithLabelValues(p.Name(), statusSuccess).Inc()
	slog.Debug("probe captured", "probe", p.Name(), "bytes", info.Size())
	return true
}

func removeQuietly(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		slog.Debug("failed to remove probe output", "path", path, "error", err)
	}
}
