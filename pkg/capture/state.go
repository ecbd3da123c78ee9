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

package capture

// State is a stage of a capture run. Runs move forward only.
type State int

const (
	StateInit State = iota
	StateIdentityResolved
	StateCollected
	StateArchiveComposed
	StateDryRunReported
	StateExecuted
)

var stateNames = map[State]string{
	StateInit:             "Init",
	StateIdentityResolved: "IdentityResolved",
	StateCollected:        "Collected",
	StateArchiveComposed:  "ArchiveComposed",
	StateDryRunReported:   "DryRunReported",
	StateExecuted:         "Executed",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "Unknown"
}

// MarshalText renders the state by name in reports.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
