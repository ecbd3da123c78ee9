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

// Package collector gathers the files of a node capture into Records.
//
// # Overview
//
// A Record binds a source directory to a prefix inside the output archive
// and lists the files selected from it. Collect walks one directory under an
// inclusion Predicate; the ordered Spec registry describes every source of a
// capture so the archive composition order is configuration, not call order.
//
// # Sources
//
// DefaultSpecs returns, in order:
//
//   - log: <log>/<pool>, flat, files starting with the node name -> /log
//   - config: <config>, flat, everything -> /config
//   - data: <app>/<pool>, recursive, DataPredicate -> /
//   - plugins: <app>/plugins, recursive, everything -> /plugins
//
// The environment capture (/capture) is produced by pkg/snapshotter and
// precedes these; extra sources from the configuration file follow them.
//
// # Usage
//
//	t := collector.Target{Root: "/", Layout: layout.Default(), Node: node}
//	records, err := collector.CollectAll(ctx, t, collector.DefaultSpecs())
//
// # Missing Sources
//
// A missing source directory is logged at WARN and yields a nil record;
// the capture proceeds without it.
package collector
