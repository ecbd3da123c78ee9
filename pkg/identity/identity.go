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

package identity

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/NVIDIA/nodecap/pkg/defaults"
	"github.com/NVIDIA/nodecap/pkg/errors"
	"github.com/NVIDIA/nodecap/pkg/layout"
)

// Node identifies the node being captured and the pool it belongs to.
type Node struct {
	Name string `json:"name" yaml:"name"`
	Pool string `json:"pool" yaml:"pool"`
}

// String returns "name@pool".
func (n Node) String() string {
	return n.Name + "@" + n.Pool
}

// Resolver discovers node candidates under a root filesystem.
type Resolver struct {
	// Layout locates the application directory. Empty fields use defaults.
	Layout layout.Layout

	// CompanionSuffix marks client-side companion directories. Defaults
	// to defaults.CompanionSuffix.
	CompanionSuffix string

	// Pool, when set, restricts candidates to a single pool.
	Pool string
}

func (r *Resolver) suffix() string {
	if r.CompanionSuffix == "" {
		return defaults.CompanionSuffix
	}
	return r.CompanionSuffix
}

// Candidates lists (node, pool) pairs found under root, pools in lexical
// order and nodes in lexical order within a pool. A node name appears at
// most once; when it repeats across pools the first pool wins.
func (r *Resolver) Candidates(root string) ([]Node, error) {
	appDir := r.Layout.MustResolve(root, layout.DirApp)

	entries, err := os.ReadDir(appDir)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.WrapWithContext(errors.ErrCodeRootNotFound,
				"application root not found", err, map[string]any{"path": appDir})
		}
		return nil, errors.WrapWithContext(errors.ErrCodeInternal,
			"failed to list application root", err, map[string]any{"path": appDir})
	}

	seen := make(map[string]string)
	var nodes []Node
	for _, e := range entries {
		if !e.IsDir() || e.Name() == defaults.PluginsEntry {
			continue
		}
		pool := e.Name()
		if r.Pool != "" && pool != r.Pool {
			continue
		}

		tokens, err := r.listTokens(r.Layout.PoolDataDir(root, pool))
		if err != nil {
			slog.Warn("skipping pool", "pool", pool, "error", err)
			continue
		}

		for _, name := range pairCompanions(tokens, r.suffix()) {
			if first, dup := seen[name]; dup {
				slog.Warn("node name repeats across pools, keeping first",
					"node", name, "pool", first, "ignored", pool)
				continue
			}
			seen[name] = pool
			nodes = append(nodes, Node{Name: name, Pool: pool})
		}
	}

	return nodes, nil
}

func (r *Resolver) listTokens(dataDir string) ([]string, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list %s: %w", dataDir, err)
	}
	tokens := make([]string, 0, len(entries))
	for _, e := range entries {
		tokens = append(tokens, e.Name())
	}
	return tokens, nil
}

// pairCompanions collapses X and X+suffix into X. A token that only exists
// as X+suffix, without X, remains its own candidate.
func pairCompanions(tokens []string, suffix string) []string {
	present := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		present[t] = true
	}

	names := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if base, ok := strings.CutSuffix(t, suffix); ok && base != "" && present[base] {
			continue
		}
		names = append(names, t)
	}
	sort.Strings(names)
	return names
}

// Resolve selects exactly one node under root. When requested is set the
// candidate with that exact name is chosen; otherwise the sole candidate
// is. Zero candidates or an unmatched name yield ErrCodeNotFound, several
// candidates without a request yield ErrCodeAmbiguous, and a missing
// application root yields ErrCodeRootNotFound.
func (r *Resolver) Resolve(root, requested string) (Node, error) {
	nodes, err := r.Candidates(root)
	if err != nil {
		return Node{}, err
	}

	if requested != "" {
		for _, n := range nodes {
			if n.Name == requested {
				slog.Debug("node resolved by name", "node", n.Name, "pool", n.Pool)
				return n, nil
			}
		}
		return Node{}, errors.NewWithContext(errors.ErrCodeNotFound,
			fmt.Sprintf("node %q not found", requested),
			map[string]any{"candidates": names(nodes)})
	}

	switch len(nodes) {
	case 0:
		return Node{}, errors.NewWithContext(errors.ErrCodeNotFound, "no nodes found",
			map[string]any{"root": root})
	case 1:
		slog.Debug("single node found", "node", nodes[0].Name, "pool", nodes[0].Pool)
		return nodes[0], nil
	default:
		return Node{}, errors.NewWithContext(errors.ErrCodeAmbiguous,
			fmt.Sprintf("found %d nodes, select one with --node: %s", len(nodes), strings.Join(names(nodes), ", ")),
			map[string]any{"candidates": names(nodes)})
	}
}

func names(nodes []Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.String())
	}
	return out
}
