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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/nodecap/pkg/errors"
)

// mkNodes creates var/lib/indy/<pool>/data/<token> directories under root.
func mkNodes(t *testing.T, root, pool string, tokens ...string) {
	t.Helper()
	dataDir := filepath.Join(root, "var", "lib", "indy", pool, "data")
	require.NoError(t, os.MkdirAll(dataDir, 0o755))
	for _, tok := range tokens {
		require.NoError(t, os.MkdirAll(filepath.Join(dataDir, tok), 0o755))
	}
}

func TestResolve_SingleNode(t *testing.T) {
	root := t.TempDir()
	mkNodes(t, root, "sandbox", "Node1")

	r := &Resolver{}
	n, err := r.Resolve(root, "")
	require.NoError(t, err)
	assert.Equal(t, Node{Name: "Node1", Pool: "sandbox"}, n)
}

func TestResolve_CompanionCollapses(t *testing.T) {
	root := t.TempDir()
	mkNodes(t, root, "sandbox", "Node1", "Node1C")

	r := &Resolver{}
	nodes, err := r.Candidates(root)
	require.NoError(t, err)
	assert.Equal(t, []Node{{Name: "Node1", Pool: "sandbox"}}, nodes)

	n, err := r.Resolve(root, "")
	require.NoError(t, err)
	assert.Equal(t, "Node1", n.Name)
}

func TestResolve_LoneCompanionIsCandidate(t *testing.T) {
	root := t.TempDir()
	mkNodes(t, root, "sandbox", "Node2C")

	nodes, err := (&Resolver{}).Candidates(root)
	require.NoError(t, err)
	assert.Equal(t, []Node{{Name: "Node2C", Pool: "sandbox"}}, nodes)
}

func TestResolve_CustomSuffix(t *testing.T) {
	root := t.TempDir()
	mkNodes(t, root, "live", "Alpha", "Alpha-client")

	nodes, err := (&Resolver{CompanionSuffix: "-client"}).Candidates(root)
	require.NoError(t, err)
	assert.Equal(t, []Node{{Name: "Alpha", Pool: "live"}}, nodes)
}

func TestResolve_Ambiguous(t *testing.T) {
	root := t.TempDir()
	mkNodes(t, root, "sandbox", "Node1", "Node1C", "Node2")

	_, err := (&Resolver{}).Resolve(root, "")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeAmbiguous))
	assert.Contains(t, err.Error(), "Node1@sandbox")
	assert.Contains(t, err.Error(), "Node2@sandbox")
}

func TestResolve_AmbiguousAcrossPools(t *testing.T) {
	root := t.TempDir()
	mkNodes(t, root, "sandbox", "Node1")
	mkNodes(t, root, "live", "Node7")

	_, err := (&Resolver{}).Resolve(root, "")
	assert.True(t, errors.IsCode(err, errors.ErrCodeAmbiguous))

	n, err := (&Resolver{Pool: "live"}).Resolve(root, "")
	require.NoError(t, err)
	assert.Equal(t, Node{Name: "Node7", Pool: "live"}, n)
}

func TestResolve_NoCandidates(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "var", "lib", "indy", "sandbox"), 0o755))

	_, err := (&Resolver{}).Resolve(root, "")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
}

func TestResolve_PluginsIgnored(t *testing.T) {
	root := t.TempDir()
	mkNodes(t, root, "plugins", "not-a-node")
	mkNodes(t, root, "sandbox", "Node1")
	require.NoError(t, os.WriteFile(filepath.Join(root, "var", "lib", "indy", "stray.txt"), []byte("x"), 0o644))

	nodes, err := (&Resolver{}).Candidates(root)
	require.NoError(t, err)
	assert.Equal(t, []Node{{Name: "Node1", Pool: "sandbox"}}, nodes)
}

func TestResolve_Requested(t *testing.T) {
	root := t.TempDir()
	mkNodes(t, root, "sandbox", "Node1", "Node1C", "Node2", "Node2C")

	tests := []struct {
		name      string
		requested string
		want      Node
		wantCode  errors.ErrorCode
	}{
		{name: "exact match", requested: "Node2", want: Node{Name: "Node2", Pool: "sandbox"}},
		{name: "companion is not a node", requested: "Node2C", wantCode: errors.ErrCodeNotFound},
		{name: "unknown", requested: "Node9", wantCode: errors.ErrCodeNotFound},
		{name: "prefix is not a match", requested: "Node", wantCode: errors.ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := (&Resolver{}).Resolve(root, tt.requested)
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, tt.wantCode), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestResolve_RootNotFound(t *testing.T) {
	root := t.TempDir()

	_, err := (&Resolver{}).Resolve(root, "")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeRootNotFound))

	_, err = (&Resolver{}).Resolve(root, "Node1")
	assert.True(t, errors.IsCode(err, errors.ErrCodeRootNotFound), "missing root propagates during matching")
}

func TestResolve_DuplicateAcrossPoolsFirstWins(t *testing.T) {
	root := t.TempDir()
	mkNodes(t, root, "alpha", "Node1")
	mkNodes(t, root, "beta", "Node1")

	nodes, err := (&Resolver{}).Candidates(root)
	require.NoError(t, err)
	assert.Equal(t, []Node{{Name: "Node1", Pool: "alpha"}}, nodes)

	n, err := (&Resolver{}).Resolve(root, "Node1")
	require.NoError(t, err)
	assert.Equal(t, "alpha", n.Pool)
}

func TestPairCompanions(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   []string
	}{
		{"empty", nil, []string{}},
		{"pair", []string{"N1C", "N1"}, []string{"N1"}},
		{"bare suffix kept", []string{"C"}, []string{"C"}},
		{"two pairs", []string{"B", "BC", "A", "AC"}, []string{"A", "B"}},
		{"suffix of suffix", []string{"N", "NC", "NCC"}, []string{"N"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pairCompanions(tt.tokens, "C"))
		})
	}
}
