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
	"path"
	"path/filepath"
)

// Record binds a source directory to its location inside the archive and
// lists the files selected from it.
type Record struct {
	// Name identifies the source (log, config, data, ...).
	Name string `json:"name" yaml:"name"`

	// SourceRoot is the absolute directory the entries are relative to.
	SourceRoot string `json:"sourceRoot" yaml:"sourceRoot"`

	// ArchiveBase is the POSIX prefix the entries are re-rooted under in
	// the archive. It has no filesystem meaning.
	ArchiveBase string `json:"archiveBase" yaml:"archiveBase"`

	// Entries are slash-separated paths relative to SourceRoot, in walk
	// order. An empty list means the whole directory is captured.
	Entries []string `json:"entries,omitempty" yaml:"entries,omitempty"`
}

// IsWholeDirectory reports whether the record captures SourceRoot as a unit.
func (r *Record) IsWholeDirectory() bool {
	return len(r.Entries) == 0
}

// Paths returns the absolute, cleaned path of every entry.
func (r *Record) Paths() []string {
	out := make([]string, 0, len(r.Entries))
	for _, e := range r.Entries {
		out = append(out, filepath.Join(r.SourceRoot, filepath.FromSlash(e)))
	}
	return out
}

// ArchivePaths returns where every entry lands inside the archive.
func (r *Record) ArchivePaths() []string {
	out := make([]string, 0, len(r.Entries))
	for _, e := range r.Entries {
		out = append(out, path.Join(r.ArchiveBase, e))
	}
	return out
}
