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

package provider_test

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/blinklabs-io/infocontract/internal/test/eth_mock"
	"github.com/blinklabs-io/infocontract/provider"
)

// Well-known development key, funded on Ganache and Hardhat
const testPrivateKey = "0x4f3edf983ac636a65a842ce7c78d9aa706d3b113bce9c46f30d7d21715b23b1d"

func newTestNode(t *testing.T) *eth_mock.Node {
	t.Helper()
	node, err := eth_mock.NewNode(eth_mock.NewChain())
	require.NoError(t, err)
	return node
}

func dialNode(t *testing.T, node *eth_mock.Node, options ...provider.ProviderOptionFunc) *provider.RPCProvider {
	t.Helper()
	opts := []provider.ProviderOptionFunc{
		provider.WithHTTPClient(node.HTTPClient()),
		provider.WithPollInterval(10 * time.Millisecond),
	}
	p, err := provider.Dial(context.Background(), node.URL(), append(opts, options...)...)
	require.NoError(t, err)
	return p
}

func TestSourceString(t *testing.T) {
	assert.Equal(t, "injected", provider.SourceInjected.String())
	assert.Equal(t, "fallback", provider.SourceFallback.String())
	assert.Equal(t, "unknown", provider.SourceUnknown.String())
}

func TestDialDefaults(t *testing.T) {
	defer goleak.VerifyNone(t)
	node := newTestNode(t)
	defer node.Close()
	p := dialNode(t, node)
	defer p.Close()
	assert.Equal(t, node.URL(), p.Endpoint())
	assert.Equal(t, provider.SourceFallback, p.Source())
	assert.NotNil(t, p.Client())
}

func TestDialInvalidEndpoint(t *testing.T) {
	_, err := provider.Dial(context.Background(), "ftp://127.0.0.1:7545")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ftp://127.0.0.1:7545")
}

func TestNetworkIDAndCode(t *testing.T) {
	defer goleak.VerifyNone(t)
	node := newTestNode(t)
	defer node.Close()
	p := dialNode(t, node)
	defer p.Close()
	ctx := context.Background()
	networkID, err := p.NetworkID(ctx)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(eth_mock.MockNetworkId), networkID)
	code, err := p.CodeAt(ctx, eth_mock.MockContractAddress, nil)
	require.NoError(t, err)
	assert.Equal(t, eth_mock.DeployedCode(), code)
	code, err = p.CodeAt(ctx, common.HexToAddress("0x01"), nil)
	require.NoError(t, err)
	assert.Empty(t, code)
}

func TestCallContract(t *testing.T) {
	defer goleak.VerifyNone(t)
	node := newTestNode(t)
	defer node.Close()
	node.Chain.SetInfo("Alice", 30)
	p := dialNode(t, node)
	defer p.Close()
	input, err := eth_mock.InfoABI().Pack("getInfo")
	require.NoError(t, err)
	to := eth_mock.MockContractAddress
	output, err := p.CallContract(context.Background(), ethereum.CallMsg{To: &to, Data: input}, nil)
	require.NoError(t, err)
	out, err := eth_mock.InfoABI().Unpack("getInfo", output)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Alice", out[0])
	assert.Equal(t, big.NewInt(30), out[1])
}

func TestSendTransactionManaged(t *testing.T) {
	defer goleak.VerifyNone(t)
	node := newTestNode(t)
	defer node.Close()
	p := dialNode(t, node)
	defer p.Close()
	ctx := context.Background()
	accounts, err := p.Accounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []common.Address{eth_mock.MockAccount}, accounts)
	data, err := eth_mock.InfoABI().Pack("setInfo", "Bob", big.NewInt(42))
	require.NoError(t, err)
	txHash, err := p.SendTransaction(ctx, provider.TxRequest{
		To:   eth_mock.MockContractAddress,
		Data: data,
		Gas:  500000,
	})
	require.NoError(t, err)
	receipt, err := p.WaitMined(ctx, txHash)
	require.NoError(t, err)
	assert.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)
	assert.Equal(t, txHash, receipt.TxHash)
	txs := node.Chain.Transactions()
	require.Len(t, txs, 1)
	assert.Equal(t, eth_mock.MockAccount, txs[0].From)
	assert.Equal(t, uint64(500000), txs[0].Gas)
	name, age := node.Chain.Info()
	assert.Equal(t, "Bob", name)
	assert.Equal(t, uint64(42), age)
}

func TestSendTransactionUnknownAccount(t *testing.T) {
	defer goleak.VerifyNone(t)
	node := newTestNode(t)
	defer node.Close()
	p := dialNode(t, node, provider.WithDefaultAccount(common.HexToAddress("0x02")))
	defer p.Close()
	data, err := eth_mock.InfoABI().Pack("setInfo", "Bob", big.NewInt(42))
	require.NoError(t, err)
	_, err = p.SendTransaction(context.Background(), provider.TxRequest{
		To:   eth_mock.MockContractAddress,
		Data: data,
		Gas:  500000,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sender account not recognized")
	assert.Empty(t, node.Chain.Transactions())
}

func TestSendTransactionSigned(t *testing.T) {
	defer goleak.VerifyNone(t)
	node := newTestNode(t)
	defer node.Close()
	key, err := provider.ParsePrivateKey(testPrivateKey)
	require.NoError(t, err)
	p := dialNode(t, node, provider.WithPrivateKey(key))
	defer p.Close()
	ctx := context.Background()
	data, err := eth_mock.InfoABI().Pack("setInfo", "Carol", big.NewInt(25))
	require.NoError(t, err)
	for i := range 2 {
		txHash, err := p.SendTransaction(ctx, provider.TxRequest{
			To:   eth_mock.MockContractAddress,
			Data: data,
			Gas:  500000,
		})
		require.NoError(t, err)
		receipt, err := p.WaitMined(ctx, txHash)
		require.NoError(t, err)
		assert.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)
		txs := node.Chain.Transactions()
		require.Len(t, txs, i+1)
		assert.Equal(t, provider.AddressOf(key), txs[i].From)
		assert.Equal(t, uint64(i), txs[i].Nonce)
	}
	// A mismatched sender is rejected before anything is sent
	_, err = p.SendTransaction(ctx, provider.TxRequest{
		From: common.HexToAddress("0x02"),
		To:   eth_mock.MockContractAddress,
		Data: data,
		Gas:  500000,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match signing key")
	assert.Len(t, node.Chain.Transactions(), 2)
}

func TestWaitMinedTimeout(t *testing.T) {
	defer goleak.VerifyNone(t)
	node := newTestNode(t)
	defer node.Close()
	p := dialNode(t, node)
	defer p.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err := p.WaitMined(ctx, common.HexToHash("0x1234"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestParsePrivateKey(t *testing.T) {
	key, err := provider.ParsePrivateKey(testPrivateKey)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x90F8bf6A479f320ead074411a4B0e7944Ea8c9C1"), provider.AddressOf(key))
	unprefixed, err := provider.ParsePrivateKey(testPrivateKey[2:])
	require.NoError(t, err)
	assert.Equal(t, crypto.FromECDSA(key), crypto.FromECDSA(unprefixed))
	_, err = provider.ParsePrivateKey("0x1234")
	assert.Error(t, err)
}

func TestFromEnvironment(t *testing.T) {
	defer goleak.VerifyNone(t)
	node := newTestNode(t)
	defer node.Close()
	injector := provider.FromEnvironment(provider.WithHTTPClient(node.HTTPClient()))
	t.Setenv(provider.InjectedProviderEnv, "")
	p, err := injector(context.Background())
	require.NoError(t, err)
	assert.Nil(t, p)
	t.Setenv(provider.InjectedProviderEnv, node.URL())
	p, err = injector(context.Background())
	require.NoError(t, err)
	require.NotNil(t, p)
	defer p.Close()
	assert.Equal(t, provider.SourceInjected, p.Source())
	assert.Equal(t, node.URL(), p.Endpoint())
	t.Setenv(provider.InjectedProviderEnv, "ftp://127.0.0.1:1")
	_, err = injector(context.Background())
	assert.Error(t, err)
}

func TestInjectors(t *testing.T) {
	p, err := provider.NoInjector(context.Background())
	require.NoError(t, err)
	assert.Nil(t, p)
	mock := eth_mock.NewProvider(eth_mock.NewChain())
	p, err = provider.StaticInjector(mock)(context.Background())
	require.NoError(t, err)
	assert.Same(t, mock, p)
}

func TestWaitMinedPropagatesErrors(t *testing.T) {
	defer goleak.VerifyNone(t)
	node := newTestNode(t)
	p := dialNode(t, node)
	defer p.Close()
	node.Close()
	_, err := p.WaitMined(context.Background(), common.HexToHash("0x1234"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ethereum.NotFound))
}
