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
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	infocontract "github.com/blinklabs-io/infocontract"
	"github.com/blinklabs-io/infocontract/artifact"
)

var networksCmd = &cobra.Command{
	Use:   "networks",
	Short: "List well-known networks and the artifact's deployments",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tNETWORK ID\tCHAIN ID\tENDPOINT")
		for _, network := range infocontract.Networks() {
			chainID := "-"
			if network.ChainId != 0 {
				chainID = strconv.FormatUint(network.ChainId, 10)
			}
			endpoint := network.Endpoint
			if endpoint == "" {
				endpoint = "-"
			}
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", network.Name, network.Id, chainID, endpoint)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		ctx, cancel := withTimeout(cmd.Context(), cfg.Provider.Timeout)
		defer cancel()
		a, err := artifact.Load(ctx, nil, cfg.Artifact.URL)
		if err != nil {
			// The artifact is optional here
			return nil
		}
		fmt.Printf("\nDeployments of %s (%s):\n", a.Name(), cfg.Artifact.URL)
		w = tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NETWORK ID\tNAME\tADDRESS")
		for _, deployment := range a.Deployments() {
			name := "-"
			if id, err := strconv.ParseUint(deployment.NetworkID, 10, 64); err == nil {
				if network := infocontract.NetworkById(id); network != infocontract.NetworkInvalid {
					name = network.Name
				}
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", deployment.NetworkID, name, deployment.Address)
		}
		return w.Flush()
	},
}
