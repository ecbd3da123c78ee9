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

package manifest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/NVIDIA/nodecap/pkg/collector"
	"github.com/NVIDIA/nodecap/pkg/defaults"
)

// WriteChecksums writes checksums.txt to dir with the SHA256 digest of
// every record entry, keyed by its path inside the archive. Whole-directory
// records are not listed.
func WriteChecksums(ctx context.Context, dir string, records []*collector.Record) (string, error) {
	lines := make([]string, 0)

	for _, r := range records {
		if r == nil {
			continue
		}
		if r.IsWholeDirectory() {
			slog.Debug("whole directory not checksummed", "source", r.Name, "dir", r.SourceRoot)
			continue
		}

		paths := r.Paths()
		names := r.ArchivePaths()
		for i, p := range paths {
			if err := ctx.Err(); err != nil {
				return "", fmt.Errorf("context cancelled: %w", err)
			}
			sum, err := fileDigest(p)
			if err != nil {
				return "", err
			}
			lines = append(lines, fmt.Sprintf("%s  %s", sum, strings.TrimLeft(names[i], "/")))
		}
	}

	p := filepath.Join(dir, defaults.ChecksumFileName)
	content := strings.Join(lines, "\n")
	if len(lines) > 0 {
		content += "\n"
	}
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		return "", fmt.Errorf("failed to write checksums: %w", err)
	}

	slog.Debug("checksums generated", "file_count", len(lines), "path", p)
	return p, nil
}

func fileDigest(p string) (string, error) {
	f, err := os.Open(p)
	if err != nil {
		return "", fmt.Errorf("failed to read %s for checksum: %w", p, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", p, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
