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

// Package infocontract implements a client for InfoContract, a contract that
// stores a single name and age on an Ethereum network.
//
// The client acquires a provider (an injected one if available, otherwise a
// fallback HTTP provider for a local Ganache node), loads the contract's Truffle
// artifact, resolves the deployed instance for the provider's network, and
// reads or writes the stored record, rendering results to a ui.Renderer.
//
// This package is the main entry point. The provider, artifact, and contract
// packages can be used on their own.
package infocontract

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/blinklabs-io/infocontract/artifact"
	"github.com/blinklabs-io/infocontract/contract"
	"github.com/blinklabs-io/infocontract/internal/metrics"
	"github.com/blinklabs-io/infocontract/provider"
	"github.com/blinklabs-io/infocontract/ui"
)

// DefaultGasLimit is the gas limit used for setInfo transactions
const DefaultGasLimit = 500000

// DialFunc constructs a provider for an endpoint
type DialFunc func(ctx context.Context, endpoint string) (provider.Provider, error)

// Client mediates all interaction between a UI surface and the deployed InfoContract.
// It is safe for concurrent use
type Client struct {
	mu              sync.Mutex
	state           State
	provider        provider.Provider
	contract        *contract.Contract
	injector        provider.InjectorFunc
	dialFunc        DialFunc
	providerOptions []provider.ProviderOptionFunc
	endpoint        string
	artifactURL     string
	httpClient      *http.Client
	renderer        ui.Renderer
	logger          *slog.Logger
	metrics         *metrics.Metrics
	gasLimit        uint64
	from            common.Address
	verifyCode      bool
	submitGuard     bool
	submitting      atomic.Bool
}

// NewClient returns a new Client with the specified options. No network activity happens
// until Initialize is called
func NewClient(options ...ClientOptionFunc) *Client {
	c := &Client{
		endpoint: provider.DefaultEndpoint,
		gasLimit: DefaultGasLimit,
	}
	// Apply provided options functions
	for _, option := range options {
		option(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.renderer == nil {
		c.renderer = ui.NopRenderer{}
	}
	if c.injector == nil {
		c.injector = provider.FromEnvironment(c.providerOptions...)
	}
	if c.dialFunc == nil {
		c.dialFunc = func(ctx context.Context, endpoint string) (provider.Provider, error) {
			p, err := provider.Dial(ctx, endpoint, c.providerOptions...)
			if err != nil {
				return nil, err
			}
			return p, nil
		}
	}
	return c
}

// State returns the current lifecycle state
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Provider returns the provider, or nil before Initialize
func (c *Client) Provider() provider.Provider {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.provider
}

// Contract returns the contract abstraction, or nil before LoadArtifact
func (c *Client) Contract() *contract.Contract {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.contract
}

func (c *Client) advance(state State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if state > c.state {
		c.state = state
	}
}

// fail logs err, records it, and renders it. The loader is left as it is
func (c *Client) fail(stage Stage, msg string, err error) error {
	stageErr := &StageError{Stage: stage, Err: err}
	c.logger.Error(
		msg,
		"component", "client",
		"stage", stage.String(),
		"error", err,
	)
	c.metrics.RecordStageError(stage.String())
	c.renderer.RenderError(stageErr)
	return stageErr
}

// Start runs the startup flow: Initialize, LoadArtifact with the configured artifact URL, and FetchInfo
func (c *Client) Start(ctx context.Context) error {
	if err := c.Initialize(ctx); err != nil {
		return err
	}
	if err := c.LoadArtifact(ctx, c.artifactURL); err != nil {
		return err
	}
	_, err := c.FetchInfo(ctx)
	return err
}

// Initialize acquires the provider. An injected provider is used if one is present, and
// otherwise a fallback provider for the configured endpoint is constructed. There is no retry
func (c *Client) Initialize(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.provider != nil {
		return nil
	}
	injected, err := c.injector(ctx)
	if err != nil {
		return c.fail(StageProvider, "failed to construct injected provider", err)
	}
	if injected != nil {
		c.provider = injected
	} else {
		fallback, err := c.dialFunc(ctx, c.endpoint)
		if err != nil {
			return c.fail(StageProvider, "failed to construct fallback provider", err)
		}
		c.provider = fallback
	}
	c.state = StateProviderReady
	c.logger.Info(
		"provider ready",
		"component", "client",
		"endpoint", c.provider.Endpoint(),
		"source", c.provider.Source().String(),
	)
	return nil
}

// LoadArtifact fetches the contract artifact and binds it to the provider
func (c *Client) LoadArtifact(ctx context.Context, location string) error {
	p := c.Provider()
	if p == nil {
		return c.fail(StageArtifact, "cannot load artifact", ErrNotInitialized)
	}
	a, err := artifact.Load(ctx, c.httpClient, location)
	if err != nil {
		return c.fail(StageArtifact, "failed to load artifact", err)
	}
	con, err := contract.New(a, p, contract.WithVerifyCode(c.verifyCode))
	if err != nil {
		return c.fail(StageArtifact, "failed to bind artifact", err)
	}
	if err := contract.CheckInfoABI(con.ABI()); err != nil {
		return c.fail(StageArtifact, "failed to bind artifact", err)
	}
	c.mu.Lock()
	c.contract = con
	c.mu.Unlock()
	c.advance(StateContractReady)
	c.logger.Info(
		"contract artifact loaded",
		"component", "client",
		"contract", a.Name(),
		"location", location,
		"networks", len(a.Networks),
	)
	return nil
}

func (c *Client) deployed(ctx context.Context) (*contract.InfoContract, error) {
	c.mu.Lock()
	con := c.contract
	p := c.provider
	c.mu.Unlock()
	if p == nil {
		return nil, ErrNotInitialized
	}
	if con == nil {
		return nil, ErrContractNotLoaded
	}
	instance, err := con.Deployed(ctx)
	if err != nil {
		return nil, err
	}
	return contract.NewInfoContract(instance)
}

// FetchInfo resolves the deployed instance and reads the stored record. On success the record
// is rendered and the loader hidden. On failure the error is logged and rendered, and the loader
// stays visible
func (c *Client) FetchInfo(ctx context.Context) (contract.Info, error) {
	defer c.metrics.ObserveDuration("fetch_info", time.Now())
	info, err := c.deployed(ctx)
	if err != nil {
		return contract.Info{}, c.fail(StageResolve, "failed to resolve deployed contract", err)
	}
	record, err := info.GetInfo(ctx)
	c.metrics.RecordCall(contract.MethodGetInfo, err)
	if err != nil {
		return contract.Info{}, c.fail(StageCall, "getInfo call failed", err)
	}
	c.renderer.RenderInfo(record.String())
	c.renderer.HideLoader()
	c.advance(StateInfoDisplayed)
	c.logger.Debug(
		"info fetched",
		"component", "client",
		"address", info.Instance().Address().Hex(),
		"name", record.Name,
		"age", record.Age,
	)
	return record, nil
}

// SubmitInfo sends a setInfo transaction with the configured gas limit, waits for it to be
// mined, and then calls FetchInfo once. Unless the submit guard is enabled, every call sends
// its own transaction, even while an earlier one is still pending
func (c *Client) SubmitInfo(ctx context.Context, name string, age uint64) error {
	if c.submitGuard {
		if !c.submitting.CompareAndSwap(false, true) {
			return c.fail(StageTransaction, "submission rejected", ErrSubmitInFlight)
		}
		defer c.submitting.Store(false)
	}
	c.metrics.SubmitStarted()
	defer c.metrics.SubmitFinished()
	defer c.metrics.ObserveDuration("submit_info", time.Now())
	c.renderer.ShowLoader()
	info, err := c.deployed(ctx)
	if err != nil {
		return c.fail(StageResolve, "failed to resolve deployed contract", err)
	}
	receipt, err := info.SetInfo(
		ctx,
		contract.TransactOpts{
			From: c.from,
			Gas:  c.gasLimit,
		},
		name,
		age,
	)
	c.metrics.RecordTransaction(contract.MethodSetInfo, err)
	if err != nil {
		return c.fail(StageTransaction, "setInfo transaction failed", err)
	}
	c.logger.Info(
		"info submitted",
		"component", "client",
		"tx", receipt.TxHash.Hex(),
		"gas_used", receipt.GasUsed,
	)
	_, err = c.FetchInfo(ctx)
	return err
}

// Close releases the provider
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.provider != nil {
		c.provider.Close()
	}
	return nil
}
