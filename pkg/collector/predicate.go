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
	"strings"

	"github.com/NVIDIA/nodecap/pkg/defaults"
)

// AcceptAll captures every file.
func AcceptAll(string) bool { return true }

// LogPredicate accepts files whose name starts with node. Matching is by
// prefix, so a companion log named <node>C... is captured too.
func LogPredicate(node string) Predicate {
	return func(rel string) bool {
		return strings.HasPrefix(rel, node)
	}
}

// DataPredicate selects files of a pool directory. Anything outside the
// top-level data/ directory is accepted. Under data/ only the node's own
// tree and its companion tree are accepted, and recorder output in them
// only when excludeRecording is false.
func DataPredicate(node, companionSuffix string, excludeRecording bool) Predicate {
	companion := node + companionSuffix
	return func(rel string) bool {
		segs := strings.Split(rel, "/")
		if segs[0] != defaults.DataEntry {
			return true
		}
		if len(segs) < 3 {
			// files directly in data/, or data itself
			return false
		}
		if segs[1] != node && segs[1] != companion {
			return false
		}
		if excludeRecording && hasSegment(segs[2:], defaults.RecorderSegment) {
			return false
		}
		return true
	}
}

func hasSegment(segs []string, want string) bool {
	for _, s := range segs {
		if s == want {
			return true
		}
	}
	return false
}
