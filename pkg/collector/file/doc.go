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

// Package file reads simple KEY = VALUE configuration files.
//
// The node configuration is Python source; nodecap never evaluates it but
// extracts plain assignments such as NETWORK_NAME for the capture manifest.
//
// # Usage
//
//	p := file.NewParser()
//	network, ok, err := p.GetValue("/etc/indy/indy_config.py", "NETWORK_NAME")
//
// # Error Handling
//
// Errors are wrapped with descriptive context:
//
//	_, err := p.GetLines("/nonexistent")
//	// Error: failed to read file "/nonexistent": no such file or directory
//
// Files larger than the configured maximum (1MB by default) or not valid
// UTF-8 are rejected.
package file
