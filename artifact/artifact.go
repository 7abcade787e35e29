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

// Package artifact implements support for Truffle compiled contract artifacts.
//
// An artifact carries a contract's ABI, its creation and runtime bytecode, and
// the address the contract was deployed to on each network it was migrated to.
package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"slices"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

var (
	// ErrNotDeployed is returned when an artifact has no deployment on the current network
	ErrNotDeployed = errors.New("contract has not been deployed to detected network")
	// ErrNoABI is returned when an artifact has no ABI
	ErrNoABI = errors.New("artifact has no ABI")
	// ErrUnlinkedBytecode is returned when bytecode still contains library placeholders
	ErrUnlinkedBytecode = errors.New("bytecode contains unlinked library references")
)

// Artifact represents a Truffle contract artifact (build/contracts/<Name>.json)
type Artifact struct {
	ContractName     string                `json:"contractName"`
	ABI              json.RawMessage       `json:"abi"`
	Bytecode         string                `json:"bytecode"`
	DeployedBytecode string                `json:"deployedBytecode"`
	Networks         map[string]Deployment `json:"networks"`
	Compiler         Compiler              `json:"compiler"`
	SchemaVersion    string                `json:"schemaVersion"`
	UpdatedAt        string                `json:"updatedAt"`
}

// Deployment is the per-network deployment record of an artifact
type Deployment struct {
	Address         string            `json:"address"`
	TransactionHash string            `json:"transactionHash"`
	Links           map[string]string `json:"links,omitempty"`
}

// Compiler identifies the compiler that produced an artifact
type Compiler struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// NetworkDeployment pairs a network ID with its deployment record
type NetworkDeployment struct {
	NetworkID string
	Deployment
}

func (a *Artifact) validate() error {
	trimmed := strings.TrimSpace(string(a.ABI))
	if trimmed == "" || trimmed == "null" {
		return ErrNoABI
	}
	for networkID, deployment := range a.Networks {
		if !common.IsHexAddress(deployment.Address) {
			return fmt.Errorf("invalid address %q for network %s", deployment.Address, networkID)
		}
	}
	return nil
}

// Name returns the contract name, or "contract" if the artifact does not specify one
func (a *Artifact) Name() string {
	if a.ContractName == "" {
		return "contract"
	}
	return a.ContractName
}

// Deployment returns the deployment record for the given network ID
func (a *Artifact) Deployment(networkID *big.Int) (Deployment, error) {
	if networkID == nil {
		return Deployment{}, fmt.Errorf("%s: %w (no network ID)", a.Name(), ErrNotDeployed)
	}
	deployment, ok := a.Networks[networkID.String()]
	if !ok {
		return Deployment{}, fmt.Errorf("%s: %w (network ID %s)", a.Name(), ErrNotDeployed, networkID)
	}
	return deployment, nil
}

// DeploymentAddress returns the deployed address for the given network ID
func (a *Artifact) DeploymentAddress(networkID *big.Int) (common.Address, error) {
	deployment, err := a.Deployment(networkID)
	if err != nil {
		return common.Address{}, err
	}
	return common.HexToAddress(deployment.Address), nil
}

// Deployments returns all deployment records ordered by network ID
func (a *Artifact) Deployments() []NetworkDeployment {
	ret := make([]NetworkDeployment, 0, len(a.Networks))
	for networkID, deployment := range a.Networks {
		ret = append(ret, NetworkDeployment{NetworkID: networkID, Deployment: deployment})
	}
	slices.SortFunc(ret, func(x, y NetworkDeployment) int {
		xi, xok := new(big.Int).SetString(x.NetworkID, 10)
		yi, yok := new(big.Int).SetString(y.NetworkID, 10)
		if xok && yok {
			return xi.Cmp(yi)
		}
		return strings.Compare(x.NetworkID, y.NetworkID)
	})
	return ret
}

// RuntimeCode decodes the artifact's deployedBytecode
func (a *Artifact) RuntimeCode() ([]byte, error) {
	return decodeBytecode(a.DeployedBytecode)
}

// CreationCode decodes the artifact's bytecode
func (a *Artifact) CreationCode() ([]byte, error) {
	return decodeBytecode(a.Bytecode)
}

func decodeBytecode(code string) ([]byte, error) {
	code = strings.TrimSpace(code)
	if code == "" || code == "0x" {
		return nil, nil
	}
	if strings.Contains(code, "__") {
		return nil, ErrUnlinkedBytecode
	}
	if !strings.HasPrefix(code, "0x") {
		code = "0x" + code
	}
	ret, err := hexutil.Decode(code)
	if err != nil {
		return nil, fmt.Errorf("decode bytecode: %w", err)
	}
	return ret, nil
}
