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
	"fmt"
	"strings"
	"time"

	"github.com/NVIDIA/nodecap/pkg/defaults"
	"github.com/NVIDIA/nodecap/pkg/errors"
	"github.com/NVIDIA/nodecap/pkg/identity"
)

// Name returns the archive file name {node}.{pool}.{timestamp}.tar.gz.
// The timestamp uses local time at second precision.
func Name(node identity.Node, now time.Time) (string, error) {
	if node.Name == "" || node.Pool == "" {
		return "", errors.NewWithContext(errors.ErrCodeInvalidRequest,
			"archive name requires node and pool", map[string]any{
				"node": node.Name,
				"pool": node.Pool,
			})
	}
	if strings.ContainsRune(node.Name, '/') || strings.ContainsRune(node.Pool, '/') {
		return "", errors.New(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid node identity %s", node))
	}
	return fmt.Sprintf("%s.%s.%s%s", node.Name, node.Pool,
		now.Format(defaults.ArchiveTimestampLayout), defaults.ArchiveExtension), nil
}
