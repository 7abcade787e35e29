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
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blinklabs-io/infocontract/artifact"
	"github.com/blinklabs-io/infocontract/utils"
)

var dumpMetadata bool

func init() {
	verifyCmd.Flags().BoolVar(&dumpMetadata, "dump-metadata", false, "print the decoded metadata trailer of the on-chain code")
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Compare the deployed contract code with the artifact",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := setup(cmd)
		if err != nil {
			return err
		}
		defer s.cancel()
		client, err := newClient(s.cfg, s.logger)
		if err != nil {
			return err
		}
		defer client.Close()
		if err := client.Initialize(s.ctx); err != nil {
			return err
		}
		if err := client.LoadArtifact(s.ctx, s.cfg.Artifact.URL); err != nil {
			return err
		}
		p := client.Provider()
		a := client.Contract().Artifact()
		networkID, err := p.NetworkID(s.ctx)
		if err != nil {
			return err
		}
		address, err := a.DeploymentAddress(networkID)
		if err != nil {
			return err
		}
		onchain, err := p.CodeAt(s.ctx, address, nil)
		if err != nil {
			return err
		}
		fmt.Printf("Contract:      %s\n", a.Name())
		fmt.Printf("Provider:      %s (%s)\n", p.Endpoint(), p.Source())
		fmt.Printf("Network ID:    %s\n", networkID)
		fmt.Printf("Address:       %s\n", address.Hex())
		fmt.Printf("Code size:     %d bytes\n", len(onchain))
		fmt.Printf("Code hash:     %s\n", artifact.CodeHash(onchain).Hex())
		if meta, err := artifact.ParseMetadata(onchain); err == nil {
			fmt.Printf("Compiler:      solc %s\n", meta.SolcVersion())
		}
		if dumpMetadata {
			decoded, err := artifact.DecodeRawMetadata(onchain)
			if err != nil {
				return fmt.Errorf("decode metadata: %w", err)
			}
			fmt.Print("Metadata:\n", utils.DumpCborStructure(decoded, ""))
		}
		if err := a.VerifyCode(onchain); err != nil {
			if errors.Is(err, artifact.ErrCodeMismatch) {
				fmt.Println("Result:        MISMATCH")
			}
			return err
		}
		fmt.Println("Result:        OK")
		return nil
	},
}
