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
	"path"
	"strings"

	"github.com/NVIDIA/nodecap/pkg/collector"
	"github.com/NVIDIA/nodecap/pkg/defaults"
)

// Rule rewrites a stored path prefix. Match is anchored at the start of the
// member name and replaced once.
type Rule struct {
	Match   string
	Replace string
}

// Characters with meaning in the pattern and replacement of a sed
// substitution delimited by ','. A ']' outside a bracket expression is
// already literal.
const (
	patternSpecial     = `\,^$.*[`
	replacementSpecial = `\,&`
)

// Expression renders the rule as a tar --transform argument.
func (r Rule) Expression() string {
	return "s,^" + escape(r.Match, patternSpecial) + "," + escape(r.Replace, replacementSpecial) + ","
}

func escape(s, special string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, c := range s {
		if strings.ContainsRune(special, c) {
			b.WriteByte('\\')
		}
		b.WriteRune(c)
	}
	return b.String()
}

// Group is the rewrite rule for one record plus the paths it applies to.
type Group struct {
	Rule  Rule
	Paths []string
}

// GroupFor derives the rule and tool-relative paths of a record. The tool
// runs with -C /, so every path is relative to the filesystem root.
func GroupFor(r *collector.Record) Group {
	src := strings.Trim(r.SourceRoot, "/")
	dst := strings.TrimLeft(r.ArchiveBase, "/")
	if dst != "" {
		dst += "/"
	}

	if len(r.Entries) == 0 {
		replace := strings.TrimSuffix(dst, "/")
		if replace == "" {
			replace = "."
		}
		return Group{
			Rule:  Rule{Match: src, Replace: replace},
			Paths: []string{src + "/"},
		}
	}

	g := Group{
		Rule:  Rule{Match: src + "/", Replace: dst},
		Paths: make([]string, 0, len(r.Entries)),
	}
	for _, e := range r.Entries {
		g.Paths = append(g.Paths, strings.TrimLeft(path.Clean(r.SourceRoot+"/"+e), "/"))
	}
	return g
}

// BuildCommand composes the archive tool invocation that stores every
// record under its archive base. Records are emitted in the order given.
func BuildCommand(outputFile string, records []*collector.Record, verbose bool) []string {
	mode := "czf"
	if verbose {
		mode = "czfv"
	}

	argv := []string{defaults.ArchiveTool, mode, outputFile, "--show-transformed-names", "-C", "/"}
	for _, r := range records {
		if r == nil {
			continue
		}
		g := GroupFor(r)
		argv = append(argv, "--transform", g.Rule.Expression())
		argv = append(argv, g.Paths...)
	}
	return argv
}
