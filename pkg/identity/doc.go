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

// Package identity resolves which node of which pool a capture is for.
//
// Every directory of the application root except "plugins" is a pool;
// every entry of <pool>/data is a node token. A token X and its companion
// X+"C" collapse into one candidate X.
//
//	r := &identity.Resolver{}
//	node, err := r.Resolve("/", "")   // sole candidate, or an error
//
// Errors carry pkg/errors codes: ROOT_NOT_FOUND when the application root
// is missing, NOT_FOUND for zero candidates or an unknown requested name,
// AMBIGUOUS for several candidates without a requested name.
package identity
