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

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/nodecap/pkg/config"
	"github.com/NVIDIA/nodecap/pkg/identity"
)

func nodesCmd() *cli.Command {
	return &cli.Command{
		Name:  "nodes",
		Usage: "List the nodes found under the root filesystem",
		Description: `Lists every (node, pool) candidate a capture could select. Companion
directories ({node}C) are folded into their node.

  nodecap nodes --root /mnt/host --format table`,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			cfg, err := config.Load(cmd.String("config"))
			if err != nil {
				return err
			}

			root, err := absRoot(cmd)
			if err != nil {
				return err
			}

			r := &identity.Resolver{
				Layout:          cfg.Layout,
				CompanionSuffix: cfg.CompanionSuffix,
				Pool:            cmd.String("pool"),
			}
			nodes, err := r.Candidates(root)
			if err != nil {
				return err
			}
			if nodes == nil {
				nodes = []identity.Node{}
			}

			w, err := reportWriter(cmd, format)
			if err != nil {
				return err
			}
			if err := w.Serialize(ctx, nodes); err != nil {
				_ = w.Close()
				return err
			}
			return w.Close()
		},
	}
}
