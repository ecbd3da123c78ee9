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

// Package scratch owns the temporary directories created during a capture.
//
// The orchestrator's caller creates one Registry per run and defers Close,
// so probe output and manifests are removed on every exit path, including
// runs cancelled by SIGINT or SIGTERM.
//
//	reg := scratch.New("")
//	defer reg.Close()
//	dir, err := reg.MkdirTemp("nodecap-env-")
package scratch
