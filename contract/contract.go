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

// Package contract binds compiled contract artifacts to a provider and exposes
// the resulting deployed instances, including a typed binding for InfoContract.
package contract

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/blinklabs-io/infocontract/artifact"
	"github.com/blinklabs-io/infocontract/provider"
)

// ErrNoProvider is returned when a contract is used without a provider
var ErrNoProvider = errors.New("no provider set")

// Contract is a contract abstraction: an artifact bound to a provider, from which deployed
// instances can be resolved
type Contract struct {
	artifact   *artifact.Artifact
	abi        abi.ABI
	provider   provider.Provider
	verifyCode bool
}

// ContractOptionFunc is a type that represents functions that modify the Contract config
type ContractOptionFunc func(*Contract)

// WithVerifyCode specifies whether Deployed compares on-chain code against the artifact's
// deployedBytecode. By default only the presence of code is checked
func WithVerifyCode(verifyCode bool) ContractOptionFunc {
	return func(c *Contract) {
		c.verifyCode = verifyCode
	}
}

// New parses the artifact ABI and binds the artifact to the provider
func New(a *artifact.Artifact, p provider.Provider, options ...ContractOptionFunc) (*Contract, error) {
	if a == nil {
		return nil, errors.New("nil artifact")
	}
	if p == nil {
		return nil, ErrNoProvider
	}
	parsed, err := abi.JSON(bytes.NewReader(a.ABI))
	if err != nil {
		return nil, fmt.Errorf("%s: invalid ABI: %w", a.Name(), err)
	}
	c := &Contract{
		artifact: a,
		abi:      parsed,
		provider: p,
	}
	// Apply provided options functions
	for _, option := range options {
		option(c)
	}
	return c, nil
}

// Artifact returns the bound artifact
func (c *Contract) Artifact() *artifact.Artifact {
	return c.artifact
}

// ABI returns the parsed contract ABI
func (c *Contract) ABI() abi.ABI {
	return c.abi
}

// Provider returns the bound provider
func (c *Contract) Provider() provider.Provider {
	return c.provider
}

// Deployed resolves the instance deployed on the provider's current network
func (c *Contract) Deployed(ctx context.Context) (*Instance, error) {
	networkID, err := c.provider.NetworkID(ctx)
	if err != nil {
		return nil, fmt.Errorf("net_version: %w", err)
	}
	address, err := c.artifact.DeploymentAddress(networkID)
	if err != nil {
		return nil, err
	}
	return c.At(ctx, address)
}

// At returns the instance at the given address, after checking that code exists there
func (c *Contract) At(ctx context.Context, address common.Address) (*Instance, error) {
	code, err := c.provider.CodeAt(ctx, address, nil)
	if err != nil {
		return nil, fmt.Errorf("eth_getCode: %w", err)
	}
	if len(code) == 0 {
		return nil, fmt.Errorf(
			"cannot create instance of %s: %w %s: %w",
			c.artifact.Name(),
			artifact.ErrNoCode,
			address.Hex(),
			artifact.ErrNotDeployed,
		)
	}
	if c.verifyCode {
		if err := c.artifact.VerifyCode(code); err != nil {
			return nil, fmt.Errorf("%s at %s: %w", c.artifact.Name(), address.Hex(), err)
		}
	}
	return &Instance{
		name:     c.artifact.Name(),
		address:  address,
		abi:      c.abi,
		provider: c.provider,
	}, nil
}
