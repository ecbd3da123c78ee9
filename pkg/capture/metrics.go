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

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	captureTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nodecap_capture_total",
			Help: "Total number of capture runs by final state",
		},
		[]string{"state", "status"}, // status: success or error
	)

	captureDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nodecap_capture_duration_seconds",
			Help:    "Time taken by a capture run",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 14),
		},
	)

	sourceFiles = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "nodecap_source_files",
			Help: "Number of files captured per source in the last run",
		},
		[]string{"source"},
	)
)
