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
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/nodecap/pkg/defaults"
	"github.com/NVIDIA/nodecap/pkg/errors"
	"github.com/NVIDIA/nodecap/pkg/logging"
	"github.com/NVIDIA/nodecap/pkg/serializer"
)

const (
	name           = "nodecap"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Execute runs the CLI with the process arguments and returns the exit
// status. SIGINT and SIGTERM cancel the run so that scratch directories
// are still removed.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd().Run(ctx, os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return errors.ExitCode(err)
}

// globalFlags are shared with subcommands.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "log level (debug, info, warn, error)",
			Value:   "info",
			Sources: cli.EnvVars(logging.EnvLogLevel),
		},
		&cli.StringFlag{
			Name:  "root",
			Usage: "root filesystem to capture from",
			Value: defaults.RootDir,
		},
		&cli.StringFlag{
			Name:  "pool",
			Usage: "restrict node discovery to a single pool",
		},
		&cli.StringFlag{
			Name:      "config",
			Usage:     "YAML configuration file overriding layout, probes and extra sources",
			TakesFile: true,
			Sources:   cli.EnvVars("NODECAP_CONFIG"),
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"t"},
			Usage:   fmt.Sprintf("report format (%v)", serializer.SupportedFormats()),
			Value:   string(serializer.FormatYAML),
		},
		&cli.StringFlag{
			Name:      "report",
			Usage:     "write the dry-run report or node listing to this file instead of stdout",
			TakesFile: true,
		},
	}
}

func newRootCmd() *cli.Command {
	return &cli.Command{
		Name:    name,
		Usage:   "Capture a diagnostic bundle of a ledger pool node",
		Version: fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		Description: `Locates the logs, configuration, application data and plugins of one
node under the root filesystem, gathers environment diagnostics, and packs
everything into {node}.{pool}.{timestamp}.tar.gz with a normalized layout:

  /capture   environment probe output
  /log       node logs
  /config    configuration files
  /data      node and companion data (recorder output optional)
  /plugins   installed plugins
  /manifest.yaml

# Examples

Capture the only node on this host:
  sudo nodecap -o /tmp

Preview a capture of node n1 without privileges:
  nodecap --node n1 --dry-run --format table

Capture from a mounted host image:
  nodecap --root /mnt/host --test`,
		EnableShellCompletion: true,
		Flags:                 append(globalFlags(), captureFlags()...),
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.SetDefaultStructuredLoggerWithLevel(name, version, cmd.String("log-level"))
			slog.Debug("starting", "version", version, "commit", commit)
			return ctx, nil
		},
		Action: captureAction,
		Commands: []*cli.Command{
			nodesCmd(),
		},
	}
}

func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	return serializer.ParseFormat(cmd.String("format"))
}

// reportWriter returns the destination of structured output: the --report
// file when set, the command writer otherwise. Callers must Close it.
func reportWriter(cmd *cli.Command, format serializer.Format) (*serializer.Writer, error) {
	path := cmd.String("report")
	if path == "" {
		return serializer.NewWriter(format, cmd.Root().Writer), nil
	}
	w, err := serializer.NewFileWriterOrStdout(format, path)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeInvalidRequest, "report file not writable", err,
			map[string]any{"path": path})
	}
	return w, nil
}

// absRoot returns the --root flag resolved against the working directory.
func absRoot(cmd *cli.Command) (string, error) {
	root, err := filepath.Abs(cmd.String("root"))
	if err != nil {
		return "", errors.WrapWithContext(errors.ErrCodeInvalidRequest, "invalid root", err,
			map[string]any{"root": cmd.String("root")})
	}
	return root, nil
}

// writeMetrics dumps the default registry in the node exporter textfile
// format.
func writeMetrics(path string) {
	if path == "" {
		return
	}
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		slog.Warn("failed to write metrics file", "path", path, "error", err)
		return
	}
	slog.Debug("metrics written", "path", path)
}
