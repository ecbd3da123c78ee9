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
	"fmt"

	"github.com/NVIDIA/nodecap/pkg/collector"
	"github.com/NVIDIA/nodecap/pkg/defaults"
)

// Record writes the manifest, and checksums.txt when checksums is set,
// into dir and returns them as the manifest record at the archive root.
// Checksums cover the given records, not the manifest itself.
func (m *Manifest) Record(ctx context.Context, dir string, records []*collector.Record, checksums bool) (*collector.Record, error) {
	m.AddRecords(records)

	if _, err := m.Write(dir); err != nil {
		return nil, err
	}
	if checksums {
		if _, err := WriteChecksums(ctx, dir, records); err != nil {
			return nil, err
		}
	}

	rec, err := collector.Collect(ctx, dir, defaults.ManifestBase, nil, false)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("manifest directory %s vanished", dir)
	}
	rec.Name = collector.SourceManifest
	return rec, nil
}
