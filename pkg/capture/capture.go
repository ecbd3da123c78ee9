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

package capture

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/NVIDIA/nodecap/pkg/archive"
	"github.com/NVIDIA/nodecap/pkg/collector"
	"github.com/NVIDIA/nodecap/pkg/defaults"
	"github.com/NVIDIA/nodecap/pkg/errors"
	"github.com/NVIDIA/nodecap/pkg/identity"
	"github.com/NVIDIA/nodecap/pkg/layout"
	"github.com/NVIDIA/nodecap/pkg/manifest"
	"github.com/NVIDIA/nodecap/pkg/scratch"
	"github.com/NVIDIA/nodecap/pkg/serializer"
	"github.com/NVIDIA/nodecap/pkg/snapshotter"
)

// Options select what a capture run collects and how it finishes.
type Options struct {
	// Root is the root filesystem captured from. Empty means "/".
	Root string

	// OutputDir receives the archive. Empty means the working directory.
	OutputDir string

	// Node and Pool narrow identity resolution.
	Node string
	Pool string

	Layout           layout.Layout
	CompanionSuffix  string
	ExcludeRecording bool

	// TestMode skips the privilege check and the environment probes.
	TestMode bool

	// DryRun reports the composed command instead of running it.
	DryRun bool

	// Verbose makes the archive tool list every member.
	Verbose bool

	// Checksums adds checksums.txt next to the manifest.
	Checksums bool

	// Probes and Specs default to the built-in lists when nil.
	Probes []snapshotter.Probe
	Specs  []collector.Spec

	// Version is recorded in the manifest.
	Version string
}

// Result describes a finished or aborted run.
type Result struct {
	CaptureID string              `json:"captureId" yaml:"captureId"`
	State     State               `json:"state" yaml:"state"`
	Node      identity.Node       `json:"node" yaml:"node"`
	Archive   string              `json:"archive,omitempty" yaml:"archive,omitempty"`
	Command   []string            `json:"command,omitempty" yaml:"command,omitempty"`
	Records   []*collector.Record `json:"records,omitempty" yaml:"records,omitempty"`
	DryRun    bool                `json:"dryRun" yaml:"dryRun"`
}

// Capturer runs one capture. Scratch directories are created through
// Scratch; the caller owns and closes it.
type Capturer struct {
	Options

	Scratch *scratch.Registry

	// Executor runs the archive command. Nil uses archive.Runner.
	Executor archive.Executor

	// Report receives the dry-run result. Nil writes YAML to stdout.
	Report serializer.Serializer

	// Now and Euid are replaced in tests.
	Now  func() time.Time
	Euid func() int
}

// Run executes Init → IdentityResolved → Collected → ArchiveComposed and
// then either reports (dry-run) or runs the archive tool. The returned
// Result carries the last state reached, also on error.
func (c *Capturer) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	res := &Result{State: StateInit, DryRun: c.DryRun}

	err := c.run(ctx, res)

	status := "success"
	if err != nil {
		status = "error"
	}
	captureTotal.WithLabelValues(res.State.String(), status).Inc()
	captureDuration.Observe(time.Since(start).Seconds())

	return res, err
}

func (c *Capturer) run(ctx context.Context, res *Result) error {
	if c.Scratch == nil {
		return errors.New(errors.ErrCodeInternal, "capture requires a scratch registry")
	}

	root, err := absRoot(c.Root)
	if err != nil {
		return err
	}
	l := c.Layout.WithDefaults()
	now := c.now()

	// Init → IdentityResolved
	resolver := &identity.Resolver{Layout: l, CompanionSuffix: c.CompanionSuffix, Pool: c.Pool}
	node, err := resolver.Resolve(root, c.Node)
	if err != nil {
		return err
	}
	res.Node = node
	res.State = StateIdentityResolved

	log := slog.With("node", node.Name, "pool", node.Pool)
	log.Info("node identity resolved", "root", root)

	// IdentityResolved → Collected
	records, err := c.collect(ctx, root, l, node)
	if err != nil {
		return err
	}

	m := manifest.New(node, root, c.Version, now)
	m.Network = manifest.NetworkName(root, l)
	m.TestMode = c.TestMode
	m.ExcludeRecording = c.ExcludeRecording
	res.CaptureID = m.CaptureID
	log = log.With("captureId", m.CaptureID)

	dir, err := c.Scratch.MkdirTemp("nodecap-manifest-")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to create manifest directory", err)
	}
	mrec, err := m.Record(ctx, dir, records, c.Checksums)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to write manifest", err)
	}
	records = append(records, mrec)

	res.Records = records
	res.State = StateCollected
	for _, r := range records {
		sourceFiles.WithLabelValues(r.Name).Set(float64(len(r.Entries)))
	}
	log.Info("collection complete", "sources", len(records))

	// Collected → ArchiveComposed
	name, err := archive.Name(node, now)
	if err != nil {
		return err
	}
	outDir, err := outputDir(c.OutputDir)
	if err != nil {
		return err
	}
	res.Archive = filepath.Join(outDir, name)
	res.Command = archive.BuildCommand(res.Archive, records, c.Verbose)
	res.State = StateArchiveComposed

	if c.DryRun {
		for _, r := range records {
			log.Info("dry run record",
				"source", r.Name,
				"sourceRoot", r.SourceRoot,
				"archiveBase", r.ArchiveBase,
				"files", len(r.Entries))
		}
		if err := c.report().Serialize(ctx, res); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, "failed to write dry-run report", err)
		}
		res.State = StateDryRunReported
		return nil
	}

	if err := c.checkPrivilege(root); err != nil {
		return err
	}

	log.Info("creating archive", "archive", res.Archive)
	if err := c.executor().Run(ctx, res.Command); err != nil {
		return err
	}
	res.State = StateExecuted
	log.Info("capture complete", "archive", res.Archive)
	return nil
}

// collect returns the environment capture followed by the registry
// sources, in archive order.
func (c *Capturer) collect(ctx context.Context, root string, l layout.Layout, node identity.Node) ([]*collector.Record, error) {
	var records []*collector.Record

	if c.TestMode {
		slog.Info("test mode, skipping environment probes")
	} else {
		snap := &snapshotter.EnvSnapshotter{Probes: c.Probes, Scratch: c.Scratch}
		rec, err := snap.Snapshot(ctx)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, "environment snapshot failed", err)
		}
		if len(rec.Entries) > 0 {
			records = append(records, rec)
		} else {
			slog.Warn("no environment probe produced output")
		}
	}

	specs := c.Specs
	if specs == nil {
		specs = collector.DefaultSpecs()
	}
	target := collector.Target{
		Root:             root,
		Layout:           l,
		Node:             node,
		CompanionSuffix:  c.CompanionSuffix,
		ExcludeRecording: c.ExcludeRecording,
	}
	collected, err := collector.CollectAll(ctx, target, specs)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, "collection failed", err)
	}
	return append(records, collected...), nil
}

// checkPrivilege rejects a full-filesystem capture by a non-root user.
func (c *Capturer) checkPrivilege(root string) error {
	if c.TestMode {
		return nil
	}
	if filepath.Clean(root) != defaults.RootDir {
		return nil
	}
	euid := os.Geteuid()
	if c.Euid != nil {
		euid = c.Euid()
	}
	if euid != 0 {
		return errors.NewWithContext(errors.ErrCodeUnauthorized,
			"capturing the root filesystem requires root privileges",
			map[string]any{"euid": euid, "root": root})
	}
	return nil
}

// absRoot resolves root against the working directory. Records and the
// archive command need absolute source paths since tar runs with -C /.
func absRoot(root string) (string, error) {
	if root == "" {
		root = defaults.RootDir
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", errors.WrapWithContext(errors.ErrCodeInvalidRequest, "invalid root", err,
			map[string]any{"root": root})
	}
	return abs, nil
}

func outputDir(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidRequest, "invalid output directory", err)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		if err == nil {
			err = fmt.Errorf("%s is not a directory", abs)
		}
		return "", errors.WrapWithContext(errors.ErrCodeInvalidRequest, "output directory not usable", err,
			map[string]any{"path": abs})
	}
	return abs, nil
}

func (c *Capturer) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Capturer) executor() archive.Executor {
	if c.Executor != nil {
		return c.Executor
	}
	return &archive.Runner{}
}

func (c *Capturer) report() serializer.Serializer {
	if c.Report != nil {
		return c.Report
	}
	return serializer.NewWriter(serializer.FormatYAML, os.Stdout)
}
