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

package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/nodecap/pkg/capture"
	"github.com/NVIDIA/nodecap/pkg/config"
	"github.com/NVIDIA/nodecap/pkg/logging"
	"github.com/NVIDIA/nodecap/pkg/scratch"
)

func captureFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "output-dir",
			Aliases: []string{"o"},
			Usage:   "directory receiving the archive",
			Value:   ".",
		},
		&cli.StringFlag{
			Name:    "node",
			Aliases: []string{"n"},
			Usage:   "node to capture, required when several nodes are found",
		},
		&cli.BoolFlag{
			Name:  "test",
			Usage: "test mode: skip the privilege check and environment probes",
		},
		&cli.BoolFlag{
			Name:  "exclude-recording",
			Usage: "leave recorder output out of the node data",
		},
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "report what would be archived without running the archive tool",
		},
		&cli.BoolFlag{
			Name:  "checksums",
			Usage: "add checksums.txt with SHA256 digests of the captured files",
		},
		&cli.StringFlag{
			Name:      "metrics-file",
			Usage:     "write run metrics in Prometheus text format to this file",
			TakesFile: true,
		},
	}
}

func captureAction(ctx context.Context, cmd *cli.Command) error {
	format, err := parseOutputFormat(cmd)
	if err != nil {
		return err
	}

	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}

	reg := scratch.New("")
	defer func() {
		slog.Debug("removing scratch directories", "dirs", reg.Dirs())
		if cerr := reg.Close(); cerr != nil {
			slog.Warn("failed to remove scratch directories", "error", cerr)
		}
	}()

	c := &capture.Capturer{
		Options: capture.Options{
			Root:             cmd.String("root"),
			OutputDir:        cmd.String("output-dir"),
			Node:             cmd.String("node"),
			Pool:             cmd.String("pool"),
			Layout:           cfg.Layout,
			CompanionSuffix:  cfg.CompanionSuffix,
			ExcludeRecording: cmd.Bool("exclude-recording"),
			TestMode:         cmd.Bool("test"),
			DryRun:           cmd.Bool("dry-run"),
			Verbose:          logging.ParseLogLevel(cmd.String("log-level")) <= slog.LevelDebug,
			Checksums:        cmd.Bool("checksums"),
			Probes:           cfg.BuildProbes(),
			Specs:            cfg.BuildSpecs(),
			Version:          version,
		},
		Scratch: reg,
	}

	if c.DryRun {
		report, err := reportWriter(cmd, format)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := report.Close(); cerr != nil {
				slog.Warn("failed to close report", "error", cerr)
			}
		}()
		c.Report = report
	}

	res, err := c.Run(ctx)
	writeMetrics(cmd.String("metrics-file"))
	if err != nil {
		return err
	}

	if !res.DryRun {
		fmt.Fprintln(cmd.Root().Writer, res.Archive)
	}
	return nil
}
