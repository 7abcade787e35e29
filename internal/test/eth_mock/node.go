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
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"
)

// MockGasPrice is the gas price reported by Node
const MockGasPrice = 20_000_000_000

// Node serves a Chain over JSON-RPC on a local HTTP server
type Node struct {
	Chain     *Chain
	rpcServer *rpc.Server
	server    *httptest.Server
}

// NewNode starts a JSON-RPC node for the chain. Accounts reports MockAccount as the only
// unlocked account
func NewNode(chain *Chain) (*Node, error) {
	n := &Node{
		Chain:     chain,
		rpcServer: rpc.NewServer(),
	}
	if err := n.rpcServer.RegisterName("eth", &ethService{chain: chain}); err != nil {
		return nil, fmt.Errorf("register eth service: %w", err)
	}
	if err := n.rpcServer.RegisterName("net", &netService{chain: chain}); err != nil {
		return nil, fmt.Errorf("register net service: %w", err)
	}
	n.server = httptest.NewServer(n.rpcServer)
	return n, nil
}

// URL returns the node endpoint
func (n *Node) URL() string {
	return n.server.URL
}

// HTTPClient returns an HTTP client for the node
func (n *Node) HTTPClient() *http.Client {
	return n.server.Client()
}

// Close stops the node
func (n *Node) Close() {
	n.server.Close()
	n.rpcServer.Stop()
}

type netService struct {
	chain *Chain
}

// Version implements net_version
func (s *netService) Version() string {
	return strconv.FormatUint(s.chain.NetworkId, 10)
}

type ethService struct {
	chain *Chain
}

type callArgs struct {
	From  *common.Address `json:"from"`
	To    *common.Address `json:"to"`
	Gas   *hexutil.Uint64 `json:"gas"`
	Value *hexutil.Big    `json:"value"`
	Data  *hexutil.Bytes  `json:"data"`
	Input *hexutil.Bytes  `json:"input"`
}

func (a callArgs) data() []byte {
	if a.Input != nil {
		return *a.Input
	}
	if a.Data != nil {
		return *a.Data
	}
	return nil
}

// ChainId implements eth_chainId
func (s *ethService) ChainId() *hexutil.Big {
	return (*hexutil.Big)(new(big.Int).SetUint64(s.chain.ChainId))
}

// Accounts implements eth_accounts
func (s *ethService) Accounts() []common.Address {
	return []common.Address{MockAccount}
}

// GasPrice implements eth_gasPrice
func (s *ethService) GasPrice() *hexutil.Big {
	return (*hexutil.Big)(big.NewInt(MockGasPrice))
}

// GetCode implements eth_getCode
func (s *ethService) GetCode(address common.Address, block string) hexutil.Bytes {
	return s.chain.Code(address)
}

// GetTransactionCount implements eth_getTransactionCount
func (s *ethService) GetTransactionCount(address common.Address, block string) hexutil.Uint64 {
	return hexutil.Uint64(s.chain.Nonce(address))
}

// Call implements eth_call
func (s *ethService) Call(args callArgs, block string) (hexutil.Bytes, error) {
	if args.To == nil {
		return nil, errors.New("missing call target")
	}
	return s.chain.Call(*args.To, args.data())
}

// SendTransaction implements eth_sendTransaction for unlocked accounts
func (s *ethService) SendTransaction(args callArgs) (common.Hash, error) {
	if args.From == nil || *args.From != MockAccount {
		return common.Hash{}, errors.New("sender account not recognized")
	}
	if args.To == nil {
		return common.Hash{}, errors.New("contract creation is not supported")
	}
	var gas uint64
	if args.Gas != nil {
		gas = uint64(*args.Gas)
	}
	return s.chain.Submit(*args.From, *args.To, gas, args.data())
}

// SendRawTransaction implements eth_sendRawTransaction
func (s *ethService) SendRawTransaction(raw hexutil.Bytes) (common.Hash, error) {
	tx := new(types.Transaction)
	if err := tx.UnmarshalBinary(raw); err != nil {
		return common.Hash{}, fmt.Errorf("decode transaction: %w", err)
	}
	return s.chain.SubmitSigned(tx)
}

// GetTransactionReceipt implements eth_getTransactionReceipt
func (s *ethService) GetTransactionReceipt(hash common.Hash) *types.Receipt {
	return s.chain.Receipt(hash)
}
