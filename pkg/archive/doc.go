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

// Package archive composes and runs the command that packs capture records
// into a gzip-compressed tarball.
//
// Every record becomes one rewrite rule followed by the paths it applies
// to. The tool runs from the filesystem root, so paths are stored without
// their leading slash and the rule re-roots them under the record's
// archive base:
//
//	tar czf out.tar.gz --show-transformed-names -C / \
//	    --transform 's,^var/log/indy/sandbox/,log/,' var/log/indy/sandbox/n1.log
//
// A record without entries captures its whole directory. Its rule matches
// the directory itself so the rewrite also applies to the directory member.
//
// The tool applies every rule, in order, to every member name. Rules are
// anchored on source prefixes, so a rewritten name is only matched again if
// it starts with the source directory of a later record.
//
// Rules are kept structured until rendering; Rule.Expression escapes sed
// metacharacters and the ',' delimiter, so paths containing them are
// rewritten literally.
//
// Name builds the archive file name from the node identity and the
// capture time. Runner executes a composed command with a timeout.
package archive
