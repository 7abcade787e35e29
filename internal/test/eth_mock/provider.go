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

package eth_mock

import (
	"context"
	"errors"
	"math/big"
	"sync/atomic"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/blinklabs-io/infocontract/provider"
)

// Compile-time check that Provider implements provider.Provider
var _ provider.Provider = (*Provider)(nil)

// MockEndpoint is the endpoint reported by Provider
const MockEndpoint = "mock://infocontract"

// Provider is an in-memory provider backed by a Chain. Tests configure the exported fields to
// control behavior
type Provider struct {
	Chain       *Chain
	EndpointVal string
	SourceVal   provider.Source
	// Error fields, if set, are returned by the matching method
	NetworkIDErr error
	CodeAtErr    error
	CallErr      error
	SendErr      error
	// Hold, if set, makes WaitMined block until a value is received from it or it is closed
	Hold chan struct{}
	// Sent receives every transaction hash as it is sent, if set
	Sent   chan common.Hash
	closed atomic.Bool
}

// NewProvider returns an injected Provider for the chain
func NewProvider(chain *Chain) *Provider {
	return &Provider{
		Chain:       chain,
		EndpointVal: MockEndpoint,
		SourceVal:   provider.SourceInjected,
	}
}

func (p *Provider) Endpoint() string {
	return p.EndpointVal
}

func (p *Provider) Source() provider.Source {
	return p.SourceVal
}

func (p *Provider) NetworkID(ctx context.Context) (*big.Int, error) {
	if p.NetworkIDErr != nil {
		return nil, p.NetworkIDErr
	}
	return new(big.Int).SetUint64(p.Chain.NetworkId), nil
}

func (p *Provider) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	if p.CodeAtErr != nil {
		return nil, p.CodeAtErr
	}
	return p.Chain.Code(account), nil
}

func (p *Provider) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	if p.CallErr != nil {
		return nil, p.CallErr
	}
	if msg.To == nil {
		return nil, errors.New("missing call target")
	}
	return p.Chain.Call(*msg.To, msg.Data)
}

func (p *Provider) SendTransaction(ctx context.Context, req provider.TxRequest) (common.Hash, error) {
	if p.SendErr != nil {
		return common.Hash{}, p.SendErr
	}
	from := req.From
	if from == (common.Address{}) {
		from = MockAccount
	}
	hash, err := p.Chain.Submit(from, req.To, req.Gas, req.Data)
	if err != nil {
		return common.Hash{}, err
	}
	if p.Sent != nil {
		select {
		case p.Sent <- hash:
		case <-ctx.Done():
			return common.Hash{}, ctx.Err()
		}
	}
	return hash, nil
}

func (p *Provider) WaitMined(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	if p.Hold != nil {
		select {
		case <-p.Hold:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	receipt := p.Chain.Receipt(txHash)
	if receipt == nil {
		return nil, ethereum.NotFound
	}
	return receipt, nil
}

func (p *Provider) Close() {
	p.closed.Store(true)
}

// Closed returns whether Close has been called
func (p *Provider) Closed() bool {
	return p.closed.Load()
}
