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
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/NVIDIA/nodecap/pkg/defaults"
	"github.com/NVIDIA/nodecap/pkg/errors"
)

// Executor runs a composed archive command.
type Executor interface {
	Run(ctx context.Context, argv []string) error
}

// Runner executes the archive tool as a subprocess.
type Runner struct {
	// Stdout and Stderr receive the tool output. Nil uses os.Stderr for
	// both, keeping stdout free for reports.
	Stdout io.Writer
	Stderr io.Writer

	// Timeout bounds the whole invocation. Zero uses defaults.ArchiveTimeout.
	Timeout time.Duration
}

// Run executes argv. A tool that is missing yields SERVICE_UNAVAILABLE, one
// that exceeds the timeout yields TIMEOUT and a non-zero exit yields
// ARCHIVE_FAILED carrying the exit status.
func (r *Runner) Run(ctx context.Context, argv []string) error {
	if len(argv) == 0 {
		return errors.New(errors.ErrCodeInvalidRequest, "empty archive command")
	}

	bin, err := exec.LookPath(argv[0])
	if err != nil {
		return errors.WrapWithContext(errors.ErrCodeUnavailable, "archive tool not found", err,
			map[string]any{"tool": argv[0]})
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = defaults.ArchiveTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, bin, argv[1:]...)
	cmd.Stdout = writerOr(r.Stdout, os.Stderr)
	cmd.Stderr = writerOr(r.Stderr, os.Stderr)

	slog.Debug("running archive tool", "tool", bin, "args", len(argv)-1)

	start := time.Now()
	err = cmd.Run()
	if err == nil {
		slog.Debug("archive tool finished", "duration", time.Since(start))
		return nil
	}

	if stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errors.WrapWithContext(errors.ErrCodeTimeout, "archive tool timed out", err,
			map[string]any{"timeout": timeout.String()})
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		return errors.WrapWithContext(errors.ErrCodeArchiveFailed,
			fmt.Sprintf("archive tool exited with status %d", exitErr.ExitCode()), err,
			map[string]any{"exitCode": exitErr.ExitCode()})
	}
	return errors.Wrap(errors.ErrCodeArchiveFailed, "failed to run archive tool", err)
}

func writerOr(w, fallback io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return fallback
}
