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

// Package manifest describes a capture inside its own archive.
//
// The manifest carries a capture ID, the node identity, the configured
// network name and a summary of every collected source. It is written as
// manifest.yaml at the archive root, optionally next to checksums.txt
// listing the SHA256 digest of every captured file:
//
//	3b5d...e1  log/n1.log
//	9f86...08  data/n1/ledger.db
//
// Checksum lines use the sha256sum format, so an extracted archive can be
// verified with `sha256sum -c checksums.txt`.
package manifest
