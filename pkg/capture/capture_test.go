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
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/NVIDIA/nodecap/pkg/archive"
	"github.com/NVIDIA/nodecap/pkg/collector"
	"github.com/NVIDIA/nodecap/pkg/errors"
	"github.com/NVIDIA/nodecap/pkg/layout"
	"github.com/NVIDIA/nodecap/pkg/scratch"
	"github.com/NVIDIA/nodecap/pkg/serializer"
	"github.com/NVIDIA/nodecap/pkg/snapshotter"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingExecutor struct {
	calls [][]string
	err   error
}

func (e *recordingExecutor) Run(_ context.Context, argv []string) error {
	e.calls = append(e.calls, argv)
	return e.err
}

type staticProbe struct{ name, out string }

func (p *staticProbe) Name() string { return p.name }

func (p *staticProbe) Run(_ context.Context, w io.Writer) error {
	_, err := io.WriteString(w, p.out)
	return err
}

func writeFile(t *testing.T, p, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
}

// newFixture lays out a single-node host under a temp root.
func newFixture(t *testing.T, nodes ...string) string {
	t.Helper()
	root := t.TempDir()
	if len(nodes) == 0 {
		nodes = []string{"n1"}
	}
	for _, n := range nodes {
		writeFile(t, filepath.Join(root, "var/lib/indy/sandbox/data", n, "ledger.db"), "ledger")
		writeFile(t, filepath.Join(root, "var/log/indy/sandbox", n+".log"), "log")
	}
	writeFile(t, filepath.Join(root, "var/lib/indy/sandbox/data/n1C/client.db"), "client")
	writeFile(t, filepath.Join(root, "var/lib/indy/sandbox/pool_transactions_genesis"), "genesis")
	writeFile(t, filepath.Join(root, "var/lib/indy/plugins/p.whl"), "plugin")
	writeFile(t, filepath.Join(root, "etc/indy/indy_config.py"), "NETWORK_NAME = 'sandbox'\n")
	return root
}

// rootedLayout points the layout of the real "/" into fixture so that
// runs against the default root stay inside the test directory.
func rootedLayout(fixture string) layout.Layout {
	rel := strings.TrimPrefix(fixture, "/")
	return layout.Layout{
		Log:     filepath.Join(rel, "var/log/indy"),
		App:     filepath.Join(rel, "var/lib/indy"),
		Config:  filepath.Join(rel, "etc/indy"),
		Plugins: filepath.Join(rel, "var/lib/indy/plugins"),
	}
}

func newCapturer(t *testing.T, opts Options) (*Capturer, *recordingExecutor, *bytes.Buffer) {
	t.Helper()
	reg := scratch.New(t.TempDir())
	t.Cleanup(func() { _ = reg.Close() })

	if opts.OutputDir == "" {
		opts.OutputDir = t.TempDir()
	}
	if opts.Probes == nil {
		opts.Probes = []snapshotter.Probe{&staticProbe{name: "python-version", out: "Python 3.8.10\n"}}
	}

	exec := &recordingExecutor{}
	var report bytes.Buffer
	c := &Capturer{
		Options:  opts,
		Scratch:  reg,
		Executor: exec,
		Report:   serializer.NewWriter(serializer.FormatJSON, &report),
		Now:      func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local) },
		Euid:     func() int { return 1000 },
	}
	return c, exec, &report
}

func recordNames(records []*collector.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Name)
	}
	return out
}

func TestRun_DryRunAgainstDefaultRoot(t *testing.T) {
	fixture := newFixture(t)
	c, exec, report := newCapturer(t, Options{Root: "/", Layout: rootedLayout(fixture), DryRun: true})

	res, err := c.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateDryRunReported, res.State)
	assert.Empty(t, exec.calls, "dry run must not invoke the archive tool")
	assert.Equal(t, "n1", res.Node.Name)
	assert.Equal(t, "sandbox", res.Node.Pool)
	assert.Equal(t, filepath.Join(c.OutputDir, "n1.sandbox.20240102030405.tar.gz"), res.Archive)

	var got map[string]any
	require.NoError(t, json.Unmarshal(report.Bytes(), &got))
	assert.Equal(t, "ArchiveComposed", got["state"])
	assert.Equal(t, res.CaptureID, got["captureId"])
}

func TestRun_PrivilegeRequiredForDefaultRoot(t *testing.T) {
	fixture := newFixture(t)
	c, exec, _ := newCapturer(t, Options{Root: "/", Layout: rootedLayout(fixture)})

	res, err := c.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeUnauthorized, errors.CodeOf(err))
	assert.Equal(t, errors.ExitPrivilege, errors.ExitCode(err))
	assert.Equal(t, StateArchiveComposed, res.State)
	assert.Empty(t, exec.calls)

	c.Euid = func() int { return 0 }
	res, err = c.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateExecuted, res.State)
	require.Len(t, exec.calls, 1)
	assert.Equal(t, res.Command, exec.calls[0])
}

func TestRun_TestModeSkipsPrivilegeAndProbes(t *testing.T) {
	fixture := newFixture(t)
	c, exec, _ := newCapturer(t, Options{Root: "/", Layout: rootedLayout(fixture), TestMode: true})

	res, err := c.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateExecuted, res.State)
	assert.Len(t, exec.calls, 1)
	assert.NotContains(t, recordNames(res.Records), collector.SourceCapture)
}

func TestRun_NonDefaultRootNeedsNoPrivilege(t *testing.T) {
	root := newFixture(t)
	c, exec, _ := newCapturer(t, Options{Root: root})

	res, err := c.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateExecuted, res.State)
	assert.Len(t, exec.calls, 1)
}

func TestRun_RecordOrder(t *testing.T) {
	root := newFixture(t)
	specs := append(collector.DefaultSpecs(), collector.Spec{
		Name:           "genesis",
		Dir:            collector.RootedDir("var/lib/indy/sandbox"),
		ArchiveBase:    "/genesis",
		WholeDirectory: true,
	})
	c, _, _ := newCapturer(t, Options{Root: root, DryRun: true, Specs: specs, Checksums: true})

	res, err := c.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		collector.SourceCapture,
		collector.SourceLog,
		collector.SourceConfig,
		collector.SourceData,
		collector.SourcePlugins,
		"genesis",
		collector.SourceManifest,
	}, recordNames(res.Records))

	byName := make(map[string]*collector.Record)
	for _, r := range res.Records {
		byName[r.Name] = r
	}
	assert.Equal(t, []string{"python-version.txt"}, byName[collector.SourceCapture].Entries)
	assert.Equal(t, []string{"n1.log"}, byName[collector.SourceLog].Entries)
	assert.Equal(t, []string{"data/n1/ledger.db", "data/n1C/client.db", "pool_transactions_genesis"},
		byName[collector.SourceData].Entries)
	assert.Equal(t, []string{"checksums.txt", "manifest.yaml"}, byName[collector.SourceManifest].Entries)
	assert.Empty(t, byName["genesis"].Entries)

	// manifest record last, rewritten to the archive root
	last := res.Command[len(res.Command)-2:]
	assert.True(t, strings.HasSuffix(last[0], "/checksums.txt"), last[0])
	assert.True(t, strings.HasSuffix(last[1], "/manifest.yaml"), last[1])
}

func TestRun_IdentityFailures(t *testing.T) {
	tests := []struct {
		name     string
		root     func(t *testing.T) string
		node     string
		code     errors.ErrorCode
		exitCode int
	}{
		{
			name:     "ambiguous",
			root:     func(t *testing.T) string { return newFixture(t, "n1", "n2") },
			code:     errors.ErrCodeAmbiguous,
			exitCode: errors.ExitIdentity,
		},
		{
			name:     "requested node missing",
			root:     func(t *testing.T) string { return newFixture(t) },
			node:     "n9",
			code:     errors.ErrCodeNotFound,
			exitCode: errors.ExitIdentity,
		},
		{
			name:     "application root missing",
			root:     func(t *testing.T) string { return t.TempDir() },
			code:     errors.ErrCodeRootNotFound,
			exitCode: errors.ExitFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, exec, report := newCapturer(t, Options{Root: tt.root(t), Node: tt.node, DryRun: true})

			res, err := c.Run(context.Background())
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.CodeOf(err))
			assert.Equal(t, tt.exitCode, errors.ExitCode(err))
			assert.Equal(t, StateInit, res.State)
			assert.Empty(t, c.Scratch.Dirs(), "nothing collected before identity is known")
			assert.Empty(t, exec.calls)
			assert.Zero(t, report.Len())
		})
	}
}

func TestRun_ArchiveFailurePropagates(t *testing.T) {
	root := newFixture(t)
	c, exec, _ := newCapturer(t, Options{Root: root})
	exec.err = errors.New(errors.ErrCodeArchiveFailed, "archive tool exited with status 2")

	res, err := c.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeArchiveFailed, errors.CodeOf(err))
	assert.Equal(t, StateArchiveComposed, res.State)
}

func TestRun_InvalidOutputDir(t *testing.T) {
	root := newFixture(t)
	c, exec, _ := newCapturer(t, Options{Root: root, OutputDir: filepath.Join(t.TempDir(), "missing")})

	res, err := c.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidRequest, errors.CodeOf(err))
	assert.Equal(t, StateCollected, res.State)
	assert.Empty(t, exec.calls)
}

func TestRun_RelativeRoot(t *testing.T) {
	root := newFixture(t)
	t.Chdir(filepath.Dir(root))

	c, _, _ := newCapturer(t, Options{Root: filepath.Base(root), DryRun: true})

	res, err := c.Run(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, res.Records)
	for _, r := range res.Records {
		assert.True(t, filepath.IsAbs(r.SourceRoot), "record %s source root %q", r.Name, r.SourceRoot)
	}

	for _, arg := range res.Command {
		assert.False(t, strings.HasPrefix(arg, filepath.Base(root)+"/"), "argument %q relative to working directory", arg)
	}
}

func requireGNUTar(t *testing.T) {
	t.Helper()
	out, err := exec.Command("tar", "--version").Output()
	if err != nil || !strings.Contains(string(out), "GNU tar") {
		t.Skip("GNU tar not available")
	}
}

func members(t *testing.T, archivePath string) []string {
	t.Helper()
	f, err := os.Open(archivePath)
	require.NoError(t, err)
	defer f.Close()

	zr, err := gzip.NewReader(f)
	require.NoError(t, err)
	defer zr.Close()

	var names []string
	tr := tar.NewReader(zr)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		names = append(names, hdr.Name)
	}
	sort.Strings(names)
	return names
}

func TestRun_RelativeRootArchive(t *testing.T) {
	requireGNUTar(t)

	root := newFixture(t)
	t.Chdir(filepath.Dir(root))

	c, _, _ := newCapturer(t, Options{Root: filepath.Base(root), TestMode: true})
	c.Executor = &archive.Runner{Stdout: io.Discard, Stderr: io.Discard}

	res, err := c.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateExecuted, res.State)

	assert.Equal(t, []string{
		"config/indy_config.py",
		"data/n1/ledger.db",
		"data/n1C/client.db",
		"log/n1.log",
		"manifest.yaml",
		"plugins/p.whl",
		"pool_transactions_genesis",
	}, members(t, res.Archive))
}

func TestRun_Canceled(t *testing.T) {
	root := newFixture(t)
	c, exec, _ := newCapturer(t, Options{Root: root})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, exec.calls)
}

func TestRun_RequiresScratch(t *testing.T) {
	_, err := (&Capturer{}).Run(context.Background())
	assert.Error(t, err)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "Executed", StateExecuted.String())
	assert.Equal(t, "Unknown", State(42).String())

	b, err := StateCollected.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "Collected", string(b))
}
