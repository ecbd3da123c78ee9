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
	"os"
	"sort"

	"github.com/NVIDIA/nodecap/pkg/collector/file"
)

// Release file locations per freedesktop.org, in lookup order.
var releasePaths = []string{"/etc/os-release", "/usr/lib/os-release"}

// ReleaseProbe records the operating system identification without
// spawning a process.
//
//	NAME=Ubuntu
//	VERSION_ID=20.04
type ReleaseProbe struct {
	Label string

	// Paths overrides releasePaths.
	Paths []string
}

// Name implements Probe.
func (p *ReleaseProbe) Name() string { return p.Label }

// Run implements Probe. Keys are written sorted with quotes removed.
func (p *ReleaseProbe) Run(ctx context.Context, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	paths := p.Paths
	if len(paths) == 0 {
		paths = releasePaths
	}

	src := ""
	for _, candidate := range paths {
		if _, err := os.Stat(candidate); err == nil {
			src = candidate
			break
		}
	}
	if src == "" {
		return fmt.Errorf("no os-release file found in %v", paths)
	}

	params, err := file.NewParser(file.WithVTrimChars(`"'`)).GetMap(src)
	if err != nil {
		return fmt.Errorf("failed to read os release from %s: %w", src, err)
	}

	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if _, err := fmt.Fprintf(w, "%s=%s\n", k, params[k]); err != nil {
			return fmt.Errorf("failed to write os release: %w", err)
		}
	}
	return nil
}
