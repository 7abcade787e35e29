// Copyright 2026 Blink Labs Software
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

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	infocontract "github.com/blinklabs-io/infocontract"
)

var setCmd = &cobra.Command{
	Use:   "set NAME AGE",
	Short: "Store a new name and age, then print the stored record",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		age, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid age %q: must be a non-negative integer", args[1])
		}
		s, err := setup(cmd)
		if err != nil {
			return err
		}
		defer s.cancel()
		client, err := newClient(s.cfg, s.logger, infocontract.WithRenderer(textRenderer()))
		if err != nil {
			return err
		}
		defer client.Close()
		if err := client.Initialize(s.ctx); err != nil {
			return err
		}
		checkNetwork(s.ctx, s.cfg, client, s.logger)
		if err := client.LoadArtifact(s.ctx, s.cfg.Artifact.URL); err != nil {
			return err
		}
		return client.SubmitInfo(s.ctx, args[0], age)
	},
}
