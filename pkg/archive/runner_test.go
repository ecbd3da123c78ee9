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

package archive

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
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

	"github.com/NVIDIA/nodecap/pkg/collector"
	"github.com/NVIDIA/nodecap/pkg/errors"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestRunner_Errors(t *testing.T) {
	requireShell(t)

	tests := []struct {
		name string
		argv []string
		code errors.ErrorCode
	}{
		{name: "empty", argv: nil, code: errors.ErrCodeInvalidRequest},
		{name: "missing tool", argv: []string{"nodecap-no-such-tool"}, code: errors.ErrCodeUnavailable},
		{name: "non-zero exit", argv: []string{"sh", "-c", "exit 2"}, code: errors.ErrCodeArchiveFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Runner{Stdout: io.Discard, Stderr: io.Discard}
			err := r.Run(context.Background(), tt.argv)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.CodeOf(err))
		})
	}
}

func TestRunner_Success(t *testing.T) {
	requireShell(t)

	var out bytes.Buffer
	r := &Runner{Stdout: &out, Stderr: io.Discard}
	require.NoError(t, r.Run(context.Background(), []string{"sh", "-c", "echo packed"}))
	assert.Equal(t, "packed\n", out.String())
}

func TestRunner_Timeout(t *testing.T) {
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}

	r := &Runner{Stdout: io.Discard, Stderr: io.Discard, Timeout: 50 * time.Millisecond}
	err := r.Run(context.Background(), []string{"sleep", "5"})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeTimeout, errors.CodeOf(err))
}

func TestRunner_Canceled(t *testing.T) {
	requireShell(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &Runner{Stdout: io.Discard, Stderr: io.Discard}
	err := r.Run(ctx, []string{"sh", "-c", "true"})
	assert.ErrorIs(t, err, context.Canceled)
}

func requireGNUTar(t *testing.T) {
	t.Helper()
	out, err := exec.Command("tar", "--version").Output()
	if err != nil || !strings.Contains(string(out), "GNU tar") {
		t.Skip("GNU tar not available")
	}
}

func writeFile(t *testing.T, p, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
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

func TestRunner_ArchiveLayout(t *testing.T) {
	requireGNUTar(t)

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "log", "n1.log"), "log")
	writeFile(t, filepath.Join(root, "app", "data", "n1", "ledger.db"), "db")
	writeFile(t, filepath.Join(root, "journal", "system.journal"), "j")

	records := []*collector.Record{
		{SourceRoot: filepath.Join(root, "log"), ArchiveBase: "/log", Entries: []string{"n1.log"}},
		{SourceRoot: filepath.Join(root, "app"), ArchiveBase: "/", Entries: []string{"data/n1/ledger.db"}},
		{SourceRoot: filepath.Join(root, "journal"), ArchiveBase: "/journal"},
	}

	out := filepath.Join(t.TempDir(), "bundle.tar.gz")
	r := &Runner{Stdout: io.Discard, Stderr: io.Discard}
	require.NoError(t, r.Run(context.Background(), BuildCommand(out, records, false)))

	assert.Equal(t, []string{
		"data/n1/ledger.db",
		"journal/",
		"journal/system.journal",
		"log/n1.log",
	}, members(t, out))
}

func TestRunner_BracketedSourceRoot(t *testing.T) {
	requireGNUTar(t)

	root := t.TempDir()
	logDir := filepath.Join(root, "v1.2[x]", "log")
	writeFile(t, filepath.Join(logDir, "n1.log"), "log")

	records := []*collector.Record{
		{SourceRoot: logDir, ArchiveBase: "/log", Entries: []string{"n1.log"}},
	}

	out := filepath.Join(t.TempDir(), "bundle.tar.gz")
	r := &Runner{Stdout: io.Discard, Stderr: io.Discard}
	require.NoError(t, r.Run(context.Background(), BuildCommand(out, records, false)))

	assert.Equal(t, []string{"log/n1.log"}, members(t, out))
}
