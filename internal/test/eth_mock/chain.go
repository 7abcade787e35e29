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

// Package eth_mock provides an in-memory InfoContract chain, a Provider backed by it, and a
// JSON-RPC node serving it over HTTP, for use in tests
package eth_mock

import (
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// DefaultGasRequired is the gas a setInfo transaction consumes. Transactions with a lower gas
// limit run out of gas and are mined with a failed status
const DefaultGasRequired = 60000

// ErrUnknownMethod is returned for calls and transactions that InfoContract does not implement
var ErrUnknownMethod = errors.New("execution reverted: unknown method")

// Tx is a transaction accepted by the chain
type Tx struct {
	Hash  common.Hash
	From  common.Address
	To    common.Address
	Gas   uint64
	Nonce uint64
	Data  []byte
}

// Chain is an instamining chain with a single InfoContract deployment
type Chain struct {
	NetworkId   uint64
	ChainId     uint64
	GasRequired uint64
	mu          sync.Mutex
	code        map[common.Address][]byte
	name        string
	age         *big.Int
	calls       int
	txs         []Tx
	receipts    map[common.Hash]*types.Receipt
	nonces      map[common.Address]uint64
}

// NewChain returns a chain with InfoContract deployed at MockContractAddress and an empty record
func NewChain() *Chain {
	return &Chain{
		NetworkId:   MockNetworkId,
		ChainId:     MockChainId,
		GasRequired: DefaultGasRequired,
		code: map[common.Address][]byte{
			MockContractAddress: DeployedCode(),
		},
		age:      new(big.Int),
		receipts: make(map[common.Hash]*types.Receipt),
		nonces:   make(map[common.Address]uint64),
	}
}

// SetCode replaces the code at an address. Nil code removes the contract
func (c *Chain) SetCode(address common.Address, code []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if code == nil {
		delete(c.code, address)
		return
	}
	c.code[address] = code
}

// Code returns the code at an address
func (c *Chain) Code(address common.Address) []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.code[address]
}

// SetInfo writes the stored record directly
func (c *Chain) SetInfo(name string, age uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.name = name
	c.age = new(big.Int).SetUint64(age)
}

// Info returns the stored record
func (c *Chain) Info() (string, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.name, c.age.Uint64()
}

// CallCount returns the number of calls executed against a contract
func (c *Chain) CallCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// Transactions returns the accepted transactions in order
func (c *Chain) Transactions() []Tx {
	c.mu.Lock()
	defer c.mu.Unlock()
	ret := make([]Tx, len(c.txs))
	copy(ret, c.txs)
	return ret
}

// Nonce returns the next nonce for an account
func (c *Chain) Nonce(address common.Address) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nonces[address]
}

// Receipt returns the receipt for a transaction, or nil if it is unknown
func (c *Chain) Receipt(hash common.Hash) *types.Receipt {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.receipts[hash]
}

// Call executes a read-only call. Calls to an address without code return no data
func (c *Chain) Call(to common.Address, data []byte) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.code[to]) == 0 {
		return nil, nil
	}
	c.calls++
	if len(data) < 4 {
		return nil, ErrUnknownMethod
	}
	contractABI := InfoABI()
	method, err := contractABI.MethodById(data[:4])
	if err != nil || method.Name != "getInfo" {
		return nil, ErrUnknownMethod
	}
	return method.Outputs.Pack(c.name, new(big.Int).Set(c.age))
}

// Submit accepts and mines an unsigned transaction from an unlocked account
func (c *Chain) Submit(from common.Address, to common.Address, gas uint64, data []byte) (common.Hash, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	nonce := c.nonces[from]
	hash := crypto.Keccak256Hash(from.Bytes(), new(big.Int).SetUint64(nonce).Bytes(), data)
	return c.mine(Tx{Hash: hash, From: from, To: to, Gas: gas, Nonce: nonce, Data: data})
}

// SubmitSigned accepts and mines a signed transaction
func (c *Chain) SubmitSigned(tx *types.Transaction) (common.Hash, error) {
	signer := types.LatestSignerForChainID(new(big.Int).SetUint64(c.ChainId))
	from, err := types.Sender(signer, tx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("invalid sender: %w", err)
	}
	if tx.To() == nil {
		return common.Hash{}, errors.New("contract creation is not supported")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if expected := c.nonces[from]; tx.Nonce() != expected {
		return common.Hash{}, fmt.Errorf("nonce too low: expected %d, got %d", expected, tx.Nonce())
	}
	return c.mine(Tx{Hash: tx.Hash(), From: from, To: *tx.To(), Gas: tx.Gas(), Nonce: tx.Nonce(), Data: tx.Data()})
}

func (c *Chain) mine(tx Tx) (common.Hash, error) {
	if len(c.code[tx.To]) == 0 {
		return common.Hash{}, fmt.Errorf("no contract at %s", tx.To.Hex())
	}
	status := types.ReceiptStatusSuccessful
	gasUsed := c.GasRequired
	if tx.Gas < c.GasRequired {
		status = types.ReceiptStatusFailed
		gasUsed = tx.Gas
	} else {
		if len(tx.Data) < 4 {
			return common.Hash{}, ErrUnknownMethod
		}
		contractABI := InfoABI()
		method, err := contractABI.MethodById(tx.Data[:4])
		if err != nil || method.Name != "setInfo" {
			return common.Hash{}, ErrUnknownMethod
		}
		args, err := method.Inputs.Unpack(tx.Data[4:])
		if err != nil {
			return common.Hash{}, fmt.Errorf("decode setInfo: %w", err)
		}
		c.name = args[0].(string)
		c.age = new(big.Int).Set(args[1].(*big.Int))
	}
	c.nonces[tx.From]++
	c.txs = append(c.txs, tx)
	blockNumber := big.NewInt(int64(len(c.txs)))
	c.receipts[tx.Hash] = &types.Receipt{
		Type:              types.LegacyTxType,
		Status:            status,
		CumulativeGasUsed: gasUsed,
		Logs:              []*types.Log{},
		TxHash:            tx.Hash,
		GasUsed:           gasUsed,
		BlockHash:         common.BigToHash(blockNumber),
		BlockNumber:       blockNumber,
	}
	return tx.Hash, nil
}
