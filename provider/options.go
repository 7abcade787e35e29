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
	"crypto/ecdsa"
	"log/slog"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// ProviderOptionFunc is a type that represents functions that modify the RPCProvider config
type ProviderOptionFunc func(*RPCProvider)

// WithSource specifies the provider source reported by Source()
func WithSource(source Source) ProviderOptionFunc {
	return func(p *RPCProvider) {
		p.source = source
	}
}

// WithHTTPClient specifies the HTTP client used for JSON-RPC requests
func WithHTTPClient(httpClient *http.Client) ProviderOptionFunc {
	return func(p *RPCProvider) {
		p.httpClient = httpClient
	}
}

// WithLogger specifies the logger to use
func WithLogger(logger *slog.Logger) ProviderOptionFunc {
	return func(p *RPCProvider) {
		p.logger = logger
	}
}

// WithPollInterval specifies how often WaitMined checks for a receipt
func WithPollInterval(interval time.Duration) ProviderOptionFunc {
	return func(p *RPCProvider) {
		p.pollInterval = interval
	}
}

// WithDefaultAccount specifies the node-managed account used when a TxRequest has no sender.
// If none is provided, the node's first account is used
func WithDefaultAccount(account common.Address) ProviderOptionFunc {
	return func(p *RPCProvider) {
		p.defaultAccount = account
	}
}

// WithPrivateKey enables local transaction signing with the given key. Transactions are then
// sent with eth_sendRawTransaction instead of relying on node-managed accounts
func WithPrivateKey(key *ecdsa.PrivateKey) ProviderOptionFunc {
	return func(p *RPCProvider) {
		p.signer = newLocalSigner(key)
	}
}
