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

// Package defaults provides centralized configuration constants for nodecap.
//
// This package defines the fixed directory profile of a ledger node host,
// archive layout prefixes, and timeouts for probes and the archiving tool.
// Centralizing these values keeps the layout, collector and archive
// packages in agreement.
//
// # Directory Profile
//
// All directories are relative to the captured root filesystem:
//
//   - var/log/indy/<pool>: node logs
//   - var/lib/indy/<pool>/data/<node>: node data
//   - etc/indy: configuration
//   - var/lib/indy/plugins: plugins
//
// # Usage
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.ProbeTimeout)
//	defer cancel()
package defaults
