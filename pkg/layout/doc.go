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

// Package layout resolves the logical directories of a node host (logs,
// application data, configuration, plugins) against a root filesystem.
//
// Resolution is a pure function of the root and the Layout profile:
//
//	l := layout.Default()
//	logs := l.PoolLogDir("/", "sandbox")   // /var/log/indy/sandbox
//	data := l.PoolDataDir("/", "sandbox")  // /var/lib/indy/sandbox/data
package layout
