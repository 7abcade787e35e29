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

package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// DefaultPollInterval is the default receipt polling interval used by WaitMined
const DefaultPollInterval = 500 * time.Millisecond

// ErrNoAccounts is returned when a node-managed send is attempted against a node with no accounts
var ErrNoAccounts = errors.New("node has no accounts available for sending transactions")

// RPCProvider is a Provider backed by a go-ethereum JSON-RPC client
type RPCProvider struct {
	endpoint       string
	source         Source
	httpClient     *http.Client
	logger         *slog.Logger
	pollInterval   time.Duration
	defaultAccount common.Address
	signer         *localSigner
	rpcClient      *rpc.Client
	ethClient      *ethclient.Client
	onceClose      sync.Once
}

// Dial returns a new RPCProvider for the given endpoint. For HTTP endpoints no request is made
// until the provider is used, so an error here means the endpoint could not be parsed or dialed
func Dial(ctx context.Context, endpoint string, options ...ProviderOptionFunc) (*RPCProvider, error) {
	p := &RPCProvider{
		endpoint:     endpoint,
		source:       SourceFallback,
		pollInterval: DefaultPollInterval,
	}
	// Apply provided options functions
	for _, option := range options {
		option(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	if p.pollInterval <= 0 {
		p.pollInterval = DefaultPollInterval
	}
	var dialOpts []rpc.ClientOption
	if p.httpClient != nil {
		dialOpts = append(dialOpts, rpc.WithHTTPClient(p.httpClient))
	}
	rpcClient, err := rpc.DialOptions(ctx, endpoint, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", endpoint, err)
	}
	p.rpcClient = rpcClient
	p.ethClient = ethclient.NewClient(rpcClient)
	p.logger.Debug(
		"provider constructed",
		"component", "provider",
		"endpoint", endpoint,
		"source", p.source.String(),
	)
	return p, nil
}

// Endpoint returns the JSON-RPC endpoint
func (p *RPCProvider) Endpoint() string {
	return p.endpoint
}

// Source returns the provider source
func (p *RPCProvider) Source() Source {
	return p.source
}

// Client returns the underlying go-ethereum client
func (p *RPCProvider) Client() *ethclient.Client {
	return p.ethClient
}

func (p *RPCProvider) NetworkID(ctx context.Context) (*big.Int, error) {
	return p.ethClient.NetworkID(ctx)
}

func (p *RPCProvider) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	return p.ethClient.CodeAt(ctx, account, blockNumber)
}

func (p *RPCProvider) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	return p.ethClient.CallContract(ctx, msg, blockNumber)
}

// Accounts returns the accounts managed by the node (eth_accounts)
func (p *RPCProvider) Accounts(ctx context.Context) ([]common.Address, error) {
	var accounts []common.Address
	if err := p.rpcClient.CallContext(ctx, &accounts, "eth_accounts"); err != nil {
		return nil, err
	}
	return accounts, nil
}

// SendTransaction signs locally when a private key was configured, and otherwise asks the node
// to sign with one of its own accounts
func (p *RPCProvider) SendTransaction(ctx context.Context, req TxRequest) (common.Hash, error) {
	if p.signer != nil {
		return p.sendSigned(ctx, req)
	}
	return p.sendManaged(ctx, req)
}

type sendTxArgs struct {
	From  common.Address `json:"from"`
	To    common.Address `json:"to"`
	Gas   hexutil.Uint64 `json:"gas"`
	Value *hexutil.Big   `json:"value,omitempty"`
	Data  hexutil.Bytes  `json:"data"`
}

func (p *RPCProvider) sendManaged(ctx context.Context, req TxRequest) (common.Hash, error) {
	from := req.From
	if from == (common.Address{}) {
		from = p.defaultAccount
	}
	if from == (common.Address{}) {
		accounts, err := p.Accounts(ctx)
		if err != nil {
			return common.Hash{}, fmt.Errorf("eth_accounts: %w", err)
		}
		if len(accounts) == 0 {
			return common.Hash{}, ErrNoAccounts
		}
		from = accounts[0]
	}
	args := sendTxArgs{
		From: from,
		To:   req.To,
		Gas:  hexutil.Uint64(req.Gas),
		Data: req.Data,
	}
	if req.Value != nil {
		args.Value = (*hexutil.Big)(req.Value)
	}
	var txHash common.Hash
	if err := p.rpcClient.CallContext(ctx, &txHash, "eth_sendTransaction", args); err != nil {
		return common.Hash{}, err
	}
	p.logger.Debug(
		"transaction sent",
		"component", "provider",
		"from", from.Hex(),
		"to", req.To.Hex(),
		"gas", req.Gas,
		"tx", txHash.Hex(),
	)
	return txHash, nil
}

func (p *RPCProvider) sendSigned(ctx context.Context, req TxRequest) (common.Hash, error) {
	from := p.signer.address
	if req.From != (common.Address{}) && req.From != from {
		return common.Hash{}, fmt.Errorf("sender %s does not match signing key %s", req.From.Hex(), from.Hex())
	}
	chainID, err := p.ethClient.ChainID(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("eth_chainId: %w", err)
	}
	nonce, err := p.ethClient.PendingNonceAt(ctx, from)
	if err != nil {
		return common.Hash{}, fmt.Errorf("eth_getTransactionCount: %w", err)
	}
	gasPrice, err := p.ethClient.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("eth_gasPrice: %w", err)
	}
	tx, err := p.signer.sign(chainID, nonce, gasPrice, req)
	if err != nil {
		return common.Hash{}, err
	}
	if err := p.ethClient.SendTransaction(ctx, tx); err != nil {
		return common.Hash{}, err
	}
	p.logger.Debug(
		"signed transaction sent",
		"component", "provider",
		"from", from.Hex(),
		"to", req.To.Hex(),
		"nonce", nonce,
		"gas", req.Gas,
		"tx", tx.Hash().Hex(),
	)
	return tx.Hash(), nil
}

// WaitMined polls for the transaction receipt until it is available or the context ends
func (p *RPCProvider) WaitMined(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()
	for {
		receipt, err := p.ethClient.TransactionReceipt(ctx, txHash)
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			return nil, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Close shuts down the JSON-RPC client
func (p *RPCProvider) Close() {
	p.onceClose.Do(func() {
		if p.rpcClient != nil {
			p.rpcClient.Close()
		}
	})
}
