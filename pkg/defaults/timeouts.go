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

package defaults

import "time"

// Probe timeouts for environment diagnostics.
const (
	// ProbeTimeout bounds a single diagnostic probe command.
	ProbeTimeout = 2 * time.Minute

	// SystemdProbeTimeout bounds the D-Bus round trip for unit properties.
	SystemdProbeTimeout = 10 * time.Second
)

// Archive timeouts.
const (
	// ArchiveTimeout bounds the archiving tool over the whole ledger data.
	ArchiveTimeout = 2 * time.Hour
)
