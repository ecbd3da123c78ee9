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

// Root filesystem and directory layout.
const (
	// RootDir is the default root filesystem captured from.
	RootDir = "/"

	// LogDir is the node log root, relative to the root filesystem.
	LogDir = "var/log/indy"

	// AppDir is the application data root holding one directory per pool.
	AppDir = "var/lib/indy"

	// ConfigDir is the configuration root.
	ConfigDir = "etc/indy"

	// PluginsDir is the plugin directory. It lives under AppDir and is
	// never treated as a pool.
	PluginsDir = "var/lib/indy/plugins"

	// PluginsEntry is the reserved AppDir entry that is not a pool.
	PluginsEntry = "plugins"

	// DataEntry is the per-pool directory holding one entry per node.
	DataEntry = "data"

	// RecorderSegment marks recorder output inside a node data tree.
	RecorderSegment = "recorder"

	// ConfigFileName is the main node configuration file.
	ConfigFileName = "indy_config.py"

	// NetworkNameKey is the configuration key naming the active pool.
	NetworkNameKey = "NETWORK_NAME"
)

// Node naming.
const (
	// CompanionSuffix is appended to a node name to form its client-side
	// companion data directory.
	CompanionSuffix = "C"
)

// Archive layout.
const (
	// ArchiveTool is the external archiving utility.
	ArchiveTool = "tar"

	// ArchiveExtension is the output archive file extension.
	ArchiveExtension = ".tar.gz"

	// ArchiveTimestampLayout formats the archive name timestamp (YYYYMMDDHHMMSS).
	ArchiveTimestampLayout = "20060102150405"

	// CaptureBase is where environment probe output lands in the archive.
	CaptureBase = "/capture"

	// LogBase is where node logs land in the archive.
	LogBase = "/log"

	// ConfigBase is where configuration files land in the archive.
	ConfigBase = "/config"

	// DataBase merges pool data at the archive root.
	DataBase = "/"

	// PluginsBase is where plugins land in the archive.
	PluginsBase = "/plugins"

	// ManifestBase is where the capture manifest lands in the archive.
	ManifestBase = "/"

	// ManifestFileName is the capture manifest file.
	ManifestFileName = "manifest.yaml"

	// ChecksumFileName lists SHA256 digests of the archived files.
	ChecksumFileName = "checksums.txt"
)

// SystemdUnit is the node service whose properties are captured.
const SystemdUnit = "indy-node.service"
