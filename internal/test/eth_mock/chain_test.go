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

package eth_mock_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blinklabs-io/infocontract/internal/test/eth_mock"
)

func TestChainCallGetInfo(t *testing.T) {
	chain := eth_mock.NewChain()
	chain.SetInfo("Alice", 30)
	contractABI := eth_mock.InfoABI()
	input, err := contractABI.Pack("getInfo")
	require.NoError(t, err)
	output, err := chain.Call(eth_mock.MockContractAddress, input)
	require.NoError(t, err)
	out, err := contractABI.Unpack("getInfo", output)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Alice", out[0])
	assert.Equal(t, big.NewInt(30), out[1])
	assert.Equal(t, 1, chain.CallCount())
}

func TestChainCallUnknownMethod(t *testing.T) {
	chain := eth_mock.NewChain()
	_, err := chain.Call(eth_mock.MockContractAddress, []byte{0xde, 0xad, 0xbe, 0xef})
	assert.ErrorIs(t, err, eth_mock.ErrUnknownMethod)
	_, err = chain.Call(eth_mock.MockContractAddress, []byte{0x01})
	assert.ErrorIs(t, err, eth_mock.ErrUnknownMethod)
}

func TestChainCallNoCode(t *testing.T) {
	chain := eth_mock.NewChain()
	output, err := chain.Call(common.HexToAddress("0x01"), []byte{0x01, 0x02, 0x03, 0x04})
	require.NoError(t, err)
	assert.Empty(t, output)
	assert.Equal(t, 0, chain.CallCount())
}

func TestChainSubmitSetInfo(t *testing.T) {
	chain := eth_mock.NewChain()
	contractABI := eth_mock.InfoABI()
	data, err := contractABI.Pack("setInfo", "Bob", big.NewInt(42))
	require.NoError(t, err)
	hash, err := chain.Submit(eth_mock.MockAccount, eth_mock.MockContractAddress, 500000, data)
	require.NoError(t, err)
	name, age := chain.Info()
	assert.Equal(t, "Bob", name)
	assert.Equal(t, uint64(42), age)
	receipt := chain.Receipt(hash)
	require.NotNil(t, receipt)
	assert.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)
	assert.Equal(t, uint64(eth_mock.DefaultGasRequired), receipt.GasUsed)
	assert.Equal(t, uint64(1), chain.Nonce(eth_mock.MockAccount))
	assert.Len(t, chain.Transactions(), 1)
}

func TestChainSubmitOutOfGas(t *testing.T) {
	chain := eth_mock.NewChain()
	chain.SetInfo("Alice", 30)
	contractABI := eth_mock.InfoABI()
	data, err := contractABI.Pack("setInfo", "Bob", big.NewInt(42))
	require.NoError(t, err)
	hash, err := chain.Submit(eth_mock.MockAccount, eth_mock.MockContractAddress, 21000, data)
	require.NoError(t, err)
	receipt := chain.Receipt(hash)
	require.NotNil(t, receipt)
	assert.Equal(t, types.ReceiptStatusFailed, receipt.Status)
	name, age := chain.Info()
	assert.Equal(t, "Alice", name)
	assert.Equal(t, uint64(30), age)
}

func TestChainSubmitUnknownMethod(t *testing.T) {
	chain := eth_mock.NewChain()
	contractABI := eth_mock.InfoABI()
	data, err := contractABI.Pack("getInfo")
	require.NoError(t, err)
	_, err = chain.Submit(eth_mock.MockAccount, eth_mock.MockContractAddress, 500000, data)
	assert.ErrorIs(t, err, eth_mock.ErrUnknownMethod)
	assert.Empty(t, chain.Transactions())
}
