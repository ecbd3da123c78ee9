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

package scratch

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
)

// Registry owns the temporary directories of a run and removes them on
// Close. It is safe for concurrent use; Close is idempotent.
type Registry struct {
	mu     sync.Mutex
	base   string
	dirs   []string
	closed bool
}

// New returns a Registry creating directories under base, or under the
// system temporary directory when base is empty.
func New(base string) *Registry {
	return &Registry{base: base}
}

// MkdirTemp creates and registers a new directory named after pattern.
func (r *Registry) MkdirTemp(pattern string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return "", fmt.Errorf("scratch registry is closed")
	}

	dir, err := os.MkdirTemp(r.base, pattern)
	if err != nil {
		return "", fmt.Errorf("failed to create scratch directory: %w", err)
	}
	r.dirs = append(r.dirs, dir)
	slog.Debug("created scratch directory", "dir", dir)
	return dir, nil
}

// Dirs returns the registered directories in creation order.
func (r *Registry) Dirs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.dirs...)
}

// Close removes every registered directory. Removal errors are joined;
// later calls are no-ops.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	var errs []error
	for _, dir := range r.dirs {
		if err := os.RemoveAll(dir); err != nil {
			errs = append(errs, fmt.Errorf("failed to remove %s: %w", dir, err))
			continue
		}
		slog.Debug("removed scratch directory", "dir", dir)
	}
	r.dirs = nil
	return stderrors.Join(errs...)
}
