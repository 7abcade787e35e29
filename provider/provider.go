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

// Package provider implements connections to Ethereum JSON-RPC nodes.
//
// A provider is either injected by the host environment or constructed as a
// fallback HTTP connection to a fixed local endpoint. Both are exposed through
// the Provider interface, which covers the small set of node operations needed
// to call and transact with a deployed contract.
package provider

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// DefaultEndpoint is the JSON-RPC endpoint of a local Ganache node
const DefaultEndpoint = "http://127.0.0.1:7545"

// Source identifies where a provider came from
type Source uint8

const (
	SourceUnknown Source = iota
	SourceInjected
	SourceFallback
)

func (s Source) String() string {
	tmp := map[Source]string{
		SourceInjected: "injected",
		SourceFallback: "fallback",
	}
	ret, ok := tmp[s]
	if !ok {
		return "unknown"
	}
	return ret
}

// TxRequest describes a state-changing contract call. A zero From lets the
// provider pick the sending account
type TxRequest struct {
	From  common.Address
	To    common.Address
	Data  []byte
	Gas   uint64
	Value *big.Int
}

// Provider is a handle to a blockchain node
type Provider interface {
	// Endpoint returns the address the provider talks to
	Endpoint() string
	// Source returns whether the provider was injected or constructed as a fallback
	Source() Source
	// NetworkID returns the network ID reported by the node (net_version)
	NetworkID(ctx context.Context) (*big.Int, error)
	// CodeAt returns the runtime code at the given address. A nil block number means latest
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
	// CallContract executes a read-only call
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	// SendTransaction submits a transaction and returns its hash without waiting for it to be mined
	SendTransaction(ctx context.Context, req TxRequest) (common.Hash, error)
	// WaitMined blocks until the transaction has a receipt or the context ends
	WaitMined(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	// Close releases the underlying connection
	Close()
}

// InjectorFunc returns a provider injected by the environment, or nil if there is none
type InjectorFunc func(ctx context.Context) (Provider, error)

// NoInjector never finds an injected provider
func NoInjector(ctx context.Context) (Provider, error) {
	return nil, nil
}

// StaticInjector always returns the given provider
func StaticInjector(p Provider) InjectorFunc {
	return func(ctx context.Context) (Provider, error) {
		return p, nil
	}
}
