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

package infocontract_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	infocontract "github.com/blinklabs-io/infocontract"
	"github.com/blinklabs-io/infocontract/artifact"
	"github.com/blinklabs-io/infocontract/contract"
	"github.com/blinklabs-io/infocontract/internal/test/eth_mock"
	"github.com/blinklabs-io/infocontract/provider"
	"github.com/blinklabs-io/infocontract/ui"
)

type testClient struct {
	client   *infocontract.Client
	page     *ui.Page
	chain    *eth_mock.Chain
	provider *eth_mock.Provider
	logs     *bytes.Buffer
}

func writeArtifact(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "InfoContract.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func newTestClient(t *testing.T, artifactJSON []byte, options ...infocontract.ClientOptionFunc) *testClient {
	t.Helper()
	tc := &testClient{
		page:  ui.NewPage(),
		chain: eth_mock.NewChain(),
		logs:  &bytes.Buffer{},
	}
	tc.provider = eth_mock.NewProvider(tc.chain)
	opts := []infocontract.ClientOptionFunc{
		infocontract.WithProvider(tc.provider),
		infocontract.WithArtifactURL(writeArtifact(t, artifactJSON)),
		infocontract.WithRenderer(tc.page),
		infocontract.WithLogger(slog.New(slog.NewTextHandler(tc.logs, nil))),
	}
	tc.client = infocontract.NewClient(append(opts, options...)...)
	return tc
}

func TestClientInjectedProvider(t *testing.T) {
	defer goleak.VerifyNone(t)
	tc := newTestClient(
		t,
		eth_mock.DefaultArtifactJSON(),
		infocontract.WithDialFunc(func(ctx context.Context, endpoint string) (provider.Provider, error) {
			t.Fatalf("fallback provider constructed for %s", endpoint)
			return nil, nil
		}),
	)
	assert.Equal(t, infocontract.StateUninitialized, tc.client.State())
	require.NoError(t, tc.client.Initialize(context.Background()))
	assert.Equal(t, infocontract.StateProviderReady, tc.client.State())
	assert.Same(t, tc.provider, tc.client.Provider())
	assert.Equal(t, provider.SourceInjected, tc.client.Provider().Source())
	// A second call keeps the existing provider
	require.NoError(t, tc.client.Initialize(context.Background()))
	assert.Same(t, tc.provider, tc.client.Provider())
}

func TestClientFallbackProvider(t *testing.T) {
	defer goleak.VerifyNone(t)
	chain := eth_mock.NewChain()
	fallback := eth_mock.NewProvider(chain)
	fallback.SourceVal = provider.SourceFallback
	var dialed []string
	client := infocontract.NewClient(
		infocontract.WithInjector(provider.NoInjector),
		infocontract.WithDialFunc(func(ctx context.Context, endpoint string) (provider.Provider, error) {
			dialed = append(dialed, endpoint)
			return fallback, nil
		}),
	)
	require.NoError(t, client.Initialize(context.Background()))
	assert.Equal(t, []string{"http://127.0.0.1:7545"}, dialed)
	assert.Equal(t, provider.SourceFallback, client.Provider().Source())
	assert.Equal(t, infocontract.StateProviderReady, client.State())
}

func TestClientProviderFromEnvironment(t *testing.T) {
	defer goleak.VerifyNone(t)
	chain := eth_mock.NewChain()
	chain.SetInfo("Alice", 30)
	node, err := eth_mock.NewNode(chain)
	require.NoError(t, err)
	defer node.Close()
	t.Setenv(provider.InjectedProviderEnv, node.URL())
	page := ui.NewPage()
	client := infocontract.NewClient(
		infocontract.WithProviderOptions(provider.WithHTTPClient(node.HTTPClient())),
		infocontract.WithArtifactURL(writeArtifact(t, eth_mock.DefaultArtifactJSON())),
		infocontract.WithRenderer(page),
		infocontract.WithDialFunc(func(ctx context.Context, endpoint string) (provider.Provider, error) {
			return nil, errors.New("fallback provider should not be constructed")
		}),
	)
	defer client.Close()
	require.NoError(t, client.Start(context.Background()))
	assert.Equal(t, provider.SourceInjected, client.Provider().Source())
	assert.Equal(t, node.URL(), client.Provider().Endpoint())
	assert.Equal(t, "Alice (30 years old)", page.State().Info)
}

func TestClientProviderFromEnvironmentUnset(t *testing.T) {
	defer goleak.VerifyNone(t)
	t.Setenv(provider.InjectedProviderEnv, "")
	fallback := eth_mock.NewProvider(eth_mock.NewChain())
	fallback.SourceVal = provider.SourceFallback
	var dialed string
	client := infocontract.NewClient(
		infocontract.WithEndpoint("http://127.0.0.1:8545"),
		infocontract.WithDialFunc(func(ctx context.Context, endpoint string) (provider.Provider, error) {
			dialed = endpoint
			return fallback, nil
		}),
	)
	require.NoError(t, client.Initialize(context.Background()))
	assert.Equal(t, "http://127.0.0.1:8545", dialed)
	assert.Equal(t, provider.SourceFallback, client.Provider().Source())
}

func TestClientInitializeFailure(t *testing.T) {
	defer goleak.VerifyNone(t)
	page := ui.NewPage()
	logs := &bytes.Buffer{}
	dialErr := errors.New("connection refused")
	client := infocontract.NewClient(
		infocontract.WithInjector(provider.NoInjector),
		infocontract.WithDialFunc(func(ctx context.Context, endpoint string) (provider.Provider, error) {
			return nil, dialErr
		}),
		infocontract.WithRenderer(page),
		infocontract.WithLogger(slog.New(slog.NewTextHandler(logs, nil))),
	)
	err := client.Initialize(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, dialErr)
	assert.Equal(t, infocontract.StageProvider, infocontract.StageOf(err))
	assert.Equal(t, infocontract.StateUninitialized, client.State())
	assert.Nil(t, client.Provider())
	assert.True(t, page.State().LoaderVisible)
	assert.Contains(t, page.State().Error, "connection refused")
	assert.Contains(t, logs.String(), "level=ERROR")
	// Later operations fail without a provider
	_, err = client.FetchInfo(context.Background())
	assert.ErrorIs(t, err, infocontract.ErrNotInitialized)
	err = client.LoadArtifact(context.Background(), "InfoContract.json")
	assert.ErrorIs(t, err, infocontract.ErrNotInitialized)
	assert.Equal(t, infocontract.StageArtifact, infocontract.StageOf(err))
}

func TestClientStartRendersInfo(t *testing.T) {
	defer goleak.VerifyNone(t)
	tc := newTestClient(t, eth_mock.DefaultArtifactJSON())
	tc.chain.SetInfo("Alice", 30)
	assert.True(t, tc.page.State().LoaderVisible)
	require.NoError(t, tc.client.Start(context.Background()))
	state := tc.page.State()
	assert.Equal(t, "Alice (30 years old)", state.Info)
	assert.False(t, state.LoaderVisible)
	assert.Empty(t, state.Error)
	assert.Equal(t, infocontract.StateInfoDisplayed, tc.client.State())
	assert.Equal(t, 1, tc.chain.CallCount())
	assert.Empty(t, tc.chain.Transactions())
}

func TestClientFetchInfoReturnsRecord(t *testing.T) {
	defer goleak.VerifyNone(t)
	tc := newTestClient(t, eth_mock.DefaultArtifactJSON())
	tc.chain.SetInfo("", 0)
	ctx := context.Background()
	require.NoError(t, tc.client.Initialize(ctx))
	path := writeArtifact(t, eth_mock.DefaultArtifactJSON())
	require.NoError(t, tc.client.LoadArtifact(ctx, path))
	assert.Equal(t, infocontract.StateContractReady, tc.client.State())
	info, err := tc.client.FetchInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, contract.Info{Name: "", Age: 0}, info)
	assert.Equal(t, " (0 years old)", tc.page.State().Info)
}

func TestClientFetchInfoNotDeployed(t *testing.T) {
	defer goleak.VerifyNone(t)
	// Deployed on mainnet only, while the provider reports 5777
	tc := newTestClient(t, eth_mock.ArtifactJSON(map[uint64]common.Address{
		1: eth_mock.MockContractAddress,
	}))
	err := tc.client.Start(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, artifact.ErrNotDeployed)
	assert.Equal(t, infocontract.StageResolve, infocontract.StageOf(err))
	assert.Equal(t, infocontract.StateContractReady, tc.client.State())
	state := tc.page.State()
	assert.True(t, state.LoaderVisible)
	assert.Empty(t, state.Info)
	assert.Contains(t, state.Error, "contract has not been deployed to detected network")
	assert.Contains(t, tc.logs.String(), "level=ERROR")
	assert.Equal(t, 0, tc.chain.CallCount())
}

func TestClientFetchInfoNoCode(t *testing.T) {
	defer goleak.VerifyNone(t)
	tc := newTestClient(t, eth_mock.DefaultArtifactJSON())
	tc.chain.SetCode(eth_mock.MockContractAddress, nil)
	_, err := tc.client.FetchInfo(context.Background())
	assert.ErrorIs(t, err, infocontract.ErrNotInitialized)
	err = tc.client.Start(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, artifact.ErrNoCode)
	assert.ErrorIs(t, err, artifact.ErrNotDeployed)
	assert.Equal(t, infocontract.StageResolve, infocontract.StageOf(err))
	assert.True(t, tc.page.State().LoaderVisible)
}

func TestClientFetchInfoCallFailure(t *testing.T) {
	defer goleak.VerifyNone(t)
	tc := newTestClient(t, eth_mock.DefaultArtifactJSON())
	tc.provider.CallErr = errors.New("execution reverted")
	err := tc.client.Start(context.Background())
	require.Error(t, err)
	assert.Equal(t, infocontract.StageCall, infocontract.StageOf(err))
	assert.Contains(t, tc.page.State().Error, "execution reverted")
	assert.True(t, tc.page.State().LoaderVisible)
}

func TestClientLoadArtifactFailure(t *testing.T) {
	defer goleak.VerifyNone(t)
	testDefs := []struct {
		name     string
		location func(t *testing.T) string
	}{
		{
			name: "Missing",
			location: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "missing.json")
			},
		},
		{
			name: "Malformed",
			location: func(t *testing.T) string {
				return writeArtifact(t, []byte(`{"contractName": "InfoContract", "abi": [`))
			},
		},
		{
			name: "WrongABI",
			location: func(t *testing.T) string {
				return writeArtifact(t, []byte(`{"contractName": "Other", "abi": [], "networks": {}}`))
			},
		},
		{
			name: "NarrowAge",
			location: func(t *testing.T) string {
				narrow := strings.ReplaceAll(string(eth_mock.DefaultArtifactJSON()), `"uint256"`, `"uint8"`)
				return writeArtifact(t, []byte(narrow))
			},
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			tc := newTestClient(t, eth_mock.DefaultArtifactJSON())
			ctx := context.Background()
			require.NoError(t, tc.client.Initialize(ctx))
			err := tc.client.LoadArtifact(ctx, testDef.location(t))
			require.Error(t, err)
			assert.Equal(t, infocontract.StageArtifact, infocontract.StageOf(err))
			assert.Equal(t, infocontract.StateProviderReady, tc.client.State())
			assert.Nil(t, tc.client.Contract())
			assert.NotEmpty(t, tc.page.State().Error)
			assert.Contains(t, tc.logs.String(), "level=ERROR")
			_, err = tc.client.FetchInfo(ctx)
			assert.ErrorIs(t, err, infocontract.ErrContractNotLoaded)
		})
	}
}

func TestClientSubmitInfo(t *testing.T) {
	defer goleak.VerifyNone(t)
	tc := newTestClient(t, eth_mock.DefaultArtifactJSON())
	tc.chain.SetInfo("Alice", 30)
	ctx := context.Background()
	require.NoError(t, tc.client.Start(ctx))
	callsBefore := tc.chain.CallCount()
	require.NoError(t, tc.client.SubmitInfo(ctx, "Bob", 42))
	txs := tc.chain.Transactions()
	require.Len(t, txs, 1)
	assert.Equal(t, uint64(500000), txs[0].Gas)
	assert.Equal(t, eth_mock.MockContractAddress, txs[0].To)
	assert.Equal(t, eth_mock.MockAccount, txs[0].From)
	// Exactly one read follows the confirmed transaction
	assert.Equal(t, callsBefore+1, tc.chain.CallCount())
	name, age := tc.chain.Info()
	assert.Equal(t, "Bob", name)
	assert.Equal(t, uint64(42), age)
	assert.Equal(t, "Bob (42 years old)", tc.page.State().Info)
	assert.False(t, tc.page.State().LoaderVisible)
}

func TestClientSubmitInfoFrom(t *testing.T) {
	defer goleak.VerifyNone(t)
	from := common.HexToAddress("0xFFcf8FDEE72ac11b5c542428B35EEF5769C409f0")
	tc := newTestClient(
		t,
		eth_mock.DefaultArtifactJSON(),
		infocontract.WithFrom(from),
		infocontract.WithGasLimit(100000),
	)
	ctx := context.Background()
	require.NoError(t, tc.client.Start(ctx))
	require.NoError(t, tc.client.SubmitInfo(ctx, "Carol", 25))
	txs := tc.chain.Transactions()
	require.Len(t, txs, 1)
	assert.Equal(t, from, txs[0].From)
	assert.Equal(t, uint64(100000), txs[0].Gas)
}

func TestClientSubmitInfoReverted(t *testing.T) {
	defer goleak.VerifyNone(t)
	tc := newTestClient(
		t,
		eth_mock.DefaultArtifactJSON(),
		infocontract.WithGasLimit(30000),
	)
	tc.chain.SetInfo("Alice", 30)
	ctx := context.Background()
	require.NoError(t, tc.client.Start(ctx))
	callsBefore := tc.chain.CallCount()
	err := tc.client.SubmitInfo(ctx, "Bob", 42)
	require.Error(t, err)
	assert.ErrorIs(t, err, contract.ErrReverted)
	assert.Equal(t, infocontract.StageTransaction, infocontract.StageOf(err))
	assert.Equal(t, callsBefore, tc.chain.CallCount())
	name, age := tc.chain.Info()
	assert.Equal(t, "Alice", name)
	assert.Equal(t, uint64(30), age)
	assert.Contains(t, tc.page.State().Error, "transaction reverted")
	assert.True(t, tc.page.State().LoaderVisible)
}

func TestClientSubmitInfoSendFailure(t *testing.T) {
	defer goleak.VerifyNone(t)
	tc := newTestClient(t, eth_mock.DefaultArtifactJSON())
	ctx := context.Background()
	require.NoError(t, tc.client.Start(ctx))
	tc.provider.SendErr = errors.New("user rejected transaction")
	err := tc.client.SubmitInfo(ctx, "Bob", 42)
	require.Error(t, err)
	assert.Equal(t, infocontract.StageTransaction, infocontract.StageOf(err))
	assert.Empty(t, tc.chain.Transactions())
	assert.Contains(t, tc.logs.String(), "user rejected transaction")
}

func TestClientSubmitInfoConcurrent(t *testing.T) {
	defer goleak.VerifyNone(t)
	tc := newTestClient(t, eth_mock.DefaultArtifactJSON())
	ctx := context.Background()
	require.NoError(t, tc.client.Start(ctx))
	tc.provider.Hold = make(chan struct{})
	tc.provider.Sent = make(chan common.Hash, 2)
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = tc.client.SubmitInfo(ctx, "Bob", uint64(40+i))
		}()
	}
	// Both transactions are sent while neither has been confirmed
	for range 2 {
		select {
		case <-tc.provider.Sent:
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for transaction to be sent")
		}
	}
	close(tc.provider.Hold)
	wg.Wait()
	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Len(t, tc.chain.Transactions(), 2)
}

func TestClientSubmitGuard(t *testing.T) {
	defer goleak.VerifyNone(t)
	tc := newTestClient(
		t,
		eth_mock.DefaultArtifactJSON(),
		infocontract.WithSubmitGuard(true),
	)
	ctx := context.Background()
	require.NoError(t, tc.client.Start(ctx))
	tc.provider.Hold = make(chan struct{})
	tc.provider.Sent = make(chan common.Hash, 1)
	firstErr := make(chan error, 1)
	go func() {
		firstErr <- tc.client.SubmitInfo(ctx, "Bob", 42)
	}()
	select {
	case <-tc.provider.Sent:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for transaction to be sent")
	}
	err := tc.client.SubmitInfo(ctx, "Carol", 25)
	assert.ErrorIs(t, err, infocontract.ErrSubmitInFlight)
	close(tc.provider.Hold)
	require.NoError(t, <-firstErr)
	assert.Len(t, tc.chain.Transactions(), 1)
	// The guard is released once the first submission finishes
	tc.provider.Sent = nil
	require.NoError(t, tc.client.SubmitInfo(ctx, "Carol", 25))
	assert.Len(t, tc.chain.Transactions(), 2)
}

func TestClientSubmitInfoContextCanceled(t *testing.T) {
	defer goleak.VerifyNone(t)
	tc := newTestClient(t, eth_mock.DefaultArtifactJSON())
	require.NoError(t, tc.client.Start(context.Background()))
	tc.provider.Hold = make(chan struct{})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := tc.client.SubmitInfo(ctx, "Bob", 42)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, infocontract.StageTransaction, infocontract.StageOf(err))
}

func TestClientClose(t *testing.T) {
	defer goleak.VerifyNone(t)
	tc := newTestClient(t, eth_mock.DefaultArtifactJSON())
	require.NoError(t, tc.client.Close())
	assert.False(t, tc.provider.Closed())
	require.NoError(t, tc.client.Initialize(context.Background()))
	require.NoError(t, tc.client.Close())
	assert.True(t, tc.provider.Closed())
}

func TestStateString(t *testing.T) {
	testDefs := []struct {
		state    infocontract.State
		expected string
	}{
		{infocontract.StateUninitialized, "Uninitialized"},
		{infocontract.StateProviderReady, "ProviderReady"},
		{infocontract.StateContractReady, "ContractReady"},
		{infocontract.StateInfoDisplayed, "InfoDisplayed"},
		{infocontract.State(99), "Unknown"},
	}
	for _, testDef := range testDefs {
		assert.Equal(t, testDef.expected, testDef.state.String())
	}
}

func TestStageError(t *testing.T) {
	cause := errors.New("boom")
	err := &infocontract.StageError{Stage: infocontract.StageCall, Err: cause}
	assert.Equal(t, "call: boom", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, infocontract.StageCall, infocontract.StageOf(err))
	assert.Equal(t, infocontract.StageNone, infocontract.StageOf(cause))
	assert.Equal(t, "unknown", infocontract.StageNone.String())
	assert.Equal(t, "transaction", infocontract.StageTransaction.String())
}
