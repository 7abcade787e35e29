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

package contract

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/blinklabs-io/infocontract/provider"
)

// ErrReverted is returned when a transaction was mined with a failed status
var ErrReverted = errors.New("transaction reverted")

// TransactOpts holds the parameters of a state-changing call
type TransactOpts struct {
	// From is the sending account. A zero address lets the provider choose
	From common.Address
	// Gas is the gas limit
	Gas uint64
	// Value is the amount of wei sent along with the call
	Value *big.Int
}

// Instance is a contract deployed at a specific address. It holds no state of its own
type Instance struct {
	name     string
	address  common.Address
	abi      abi.ABI
	provider provider.Provider
}

// Address returns the instance address
func (i *Instance) Address() common.Address {
	return i.address
}

// Name returns the contract name
func (i *Instance) Name() string {
	return i.name
}

// ABI returns the parsed contract ABI
func (i *Instance) ABI() abi.ABI {
	return i.abi
}

// Call invokes a read-only method and returns its unpacked outputs
func (i *Instance) Call(ctx context.Context, method string, args ...any) ([]any, error) {
	input, err := i.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: pack: %w", i.name, method, err)
	}
	to := i.address
	output, err := i.provider.CallContract(
		ctx,
		ethereum.CallMsg{To: &to, Data: input},
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: call: %w", i.name, method, err)
	}
	if len(output) == 0 {
		return nil, fmt.Errorf("%s.%s: empty call result", i.name, method)
	}
	ret, err := i.abi.Unpack(method, output)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: unpack: %w", i.name, method, err)
	}
	return ret, nil
}

// Send submits a state-changing method call and returns the transaction hash without waiting
// for it to be mined
func (i *Instance) Send(ctx context.Context, opts TransactOpts, method string, args ...any) (common.Hash, error) {
	input, err := i.abi.Pack(method, args...)
	if err != nil {
		return common.Hash{}, fmt.Errorf("%s.%s: pack: %w", i.name, method, err)
	}
	txHash, err := i.provider.SendTransaction(ctx, provider.TxRequest{
		From:  opts.From,
		To:    i.address,
		Data:  input,
		Gas:   opts.Gas,
		Value: opts.Value,
	})
	if err != nil {
		return common.Hash{}, fmt.Errorf("%s.%s: send: %w", i.name, method, err)
	}
	return txHash, nil
}

// Transact submits a state-changing method call and waits for its receipt. A receipt with a
// failed status is returned along with ErrReverted
func (i *Instance) Transact(ctx context.Context, opts TransactOpts, method string, args ...any) (*types.Receipt, error) {
	txHash, err := i.Send(ctx, opts, method, args...)
	if err != nil {
		return nil, err
	}
	receipt, err := i.provider.WaitMined(ctx, txHash)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: wait for %s: %w", i.name, method, txHash.Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("%s.%s: %w (tx %s)", i.name, method, ErrReverted, txHash.Hex())
	}
	return receipt, nil
}
