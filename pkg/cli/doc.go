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

// Package cli implements the nodecap command-line interface.
//
// # Commands
//
// The root command captures one node:
//
//	nodecap [--root DIR] [--node NAME] [--pool POOL] [-o DIR] [--dry-run]
//
// nodes lists the candidates a capture could select:
//
//	nodecap nodes [--root DIR] [--format yaml|json|table]
//
// # Flags
//
//	--root               root filesystem (default /)
//	--node, -n           node name, required when several nodes exist
//	--pool               restrict discovery to one pool
//	--output-dir, -o     archive directory (default .)
//	--test               skip the privilege check and environment probes
//	--exclude-recording  leave recorder output out
//	--dry-run            report the composed archive command only
//	--format, -t         report format: yaml, json, table (default yaml)
//	--checksums          add checksums.txt to the archive
//	--config             YAML configuration file
//	--metrics-file       write Prometheus text metrics after the run
//	--log-level          debug, info, warn, error (env LOG_LEVEL)
//
// # Exit Codes
//
//	0  success
//	1  general failure
//	2  node ambiguous or not found
//	3  elevated privileges required
//
// Version information is injected at build time:
//
//	go build -ldflags="-X 'github.com/NVIDIA/nodecap/pkg/cli.version=1.0.0'"
package cli
