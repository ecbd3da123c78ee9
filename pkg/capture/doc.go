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

// Package capture orchestrates a node diagnostic capture.
//
// A run moves through a fixed sequence of states:
//
//	Init → IdentityResolved → Collected → ArchiveComposed → DryRunReported
//	                                                      → Executed
//
// Identity resolution failures abort the run before anything is collected.
// Missing sources and failing probes only shrink the capture. Composition
// failures abort before the archive tool runs, and a failing archive tool
// fails the run.
//
// Records are archived in a fixed order: environment capture, logs,
// configuration, data, plugins, extra sources, manifest.
//
// A dry run performs identity resolution, collection and composition, then
// serializes the Result instead of invoking the archive tool. It never
// requires elevated privileges. Executing against the default root "/"
// requires root unless test mode is enabled.
//
// Usage:
//
//	reg := scratch.New("")
//	defer reg.Close()
//
//	c := &capture.Capturer{
//		Options: capture.Options{Root: "/", OutputDir: "/tmp"},
//		Scratch: reg,
//	}
//	res, err := c.Run(ctx)
package capture
