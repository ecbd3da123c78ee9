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

package collector

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// Predicate decides whether a file, given as a slash-separated path
// relative to the collected directory, is captured.
type Predicate func(rel string) bool

// Collect walks sourceDir and returns the files accepted by pred. A nil
// pred accepts everything. When recursive is false only files directly in
// sourceDir are considered.
//
// A missing sourceDir is not an error: Collect logs a warning and returns
// a nil record. Errors below sourceDir are logged and the affected subtree
// is skipped; entries gathered so far are kept. Directory symlinks are not
// followed, so every entry is unique.
func Collect(ctx context.Context, sourceDir, archiveBase string, pred Predicate, recursive bool) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(sourceDir)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			slog.Warn("source directory does not exist, skipping", "dir", sourceDir)
			return nil, nil
		}
		slog.Warn("source directory not accessible, skipping", "dir", sourceDir, "error", err)
		return nil, nil
	}
	if !info.IsDir() {
		slog.Warn("source is not a directory, skipping", "path", sourceDir)
		return nil, nil
	}

	root := filepath.Clean(sourceDir)
	if li, lerr := os.Lstat(root); lerr == nil && li.Mode()&fs.ModeSymlink != 0 {
		// WalkDir does not descend into a symlinked root.
		resolved, rerr := filepath.EvalSymlinks(root)
		if rerr != nil {
			slog.Warn("source directory symlink not resolvable, skipping", "dir", root, "error", rerr)
			return nil, nil
		}
		root = resolved
	}

	rec := &Record{
		SourceRoot:  root,
		ArchiveBase: archiveBase,
		Entries:     make([]string, 0),
	}

	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err != nil {
			slog.Warn("walk error, skipping", "path", p, "error", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if p != root && !recursive {
				return filepath.SkipDir
			}
			return nil
		}

		if !isRegularFile(p, d) {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return fmt.Errorf("failed to relativize %s: %w", p, err)
		}
		rel = filepath.ToSlash(rel)

		if pred == nil || pred(rel) {
			rec.Entries = append(rec.Entries, rel)
		}
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	slog.Debug("collected directory",
		"dir", root,
		"archiveBase", archiveBase,
		"recursive", recursive,
		"entries", len(rec.Entries))

	return rec, nil
}

// isRegularFile reports whether p is a regular file, following a file
// symlink. Symlinks to directories, dangling symlinks and special files
// are excluded.
func isRegularFile(p string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(p)
	if err != nil {
		slog.Debug("skipping dangling symlink", "path", p)
		return false
	}
	return info.Mode().IsRegular()
}
