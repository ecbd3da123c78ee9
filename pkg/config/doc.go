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

// Package config loads the optional nodecap configuration file.
//
// The file is YAML and every field is optional:
//
//	layout:
//	  log: var/log/indy
//	  app: var/lib/indy
//	  config: etc/indy
//	  plugins: var/lib/indy/plugins
//	companionSuffix: C
//	probes:
//	  - name: python-version
//	    command: [python3, --version]
//	  - name: systemd-indy-node
//	    unit: indy-node.service
//	extraSources:
//	  - name: journal
//	    dir: var/log/journal
//	    archiveBase: /journal
//	    wholeDirectory: true
//
// Unknown fields are rejected so that typos surface instead of silently
// falling back to defaults. Directories are relative to the capture root.
package config
