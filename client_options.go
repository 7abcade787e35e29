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

package infocontract

import (
	"log/slog"
	"net/http"

	"github.com/ethereum/go-ethereum/common"

	"github.com/blinklabs-io/infocontract/internal/metrics"
	"github.com/blinklabs-io/infocontract/provider"
	"github.com/blinklabs-io/infocontract/ui"
)

// ClientOptionFunc is a type that represents functions that modify the Client config
type ClientOptionFunc func(*Client)

// WithProvider specifies an already constructed provider. It is treated as injected, and
// Initialize will not construct a fallback
func WithProvider(p provider.Provider) ClientOptionFunc {
	return func(c *Client) {
		c.injector = provider.StaticInjector(p)
	}
}

// WithInjector specifies how an environment-injected provider is detected. The default
// checks the WEB3_PROVIDER_URI environment variable
func WithInjector(injector provider.InjectorFunc) ClientOptionFunc {
	return func(c *Client) {
		c.injector = injector
	}
}

// WithEndpoint specifies the fallback endpoint used when no provider is injected
func WithEndpoint(endpoint string) ClientOptionFunc {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// WithDialFunc specifies how the fallback provider is constructed
func WithDialFunc(dialFunc DialFunc) ClientOptionFunc {
	return func(c *Client) {
		c.dialFunc = dialFunc
	}
}

// WithProviderOptions specifies options passed to providers constructed by the client
func WithProviderOptions(options ...provider.ProviderOptionFunc) ClientOptionFunc {
	return func(c *Client) {
		c.providerOptions = append(c.providerOptions, options...)
	}
}

// WithArtifactURL specifies the artifact location used by Start
func WithArtifactURL(artifactURL string) ClientOptionFunc {
	return func(c *Client) {
		c.artifactURL = artifactURL
	}
}

// WithHTTPClient specifies the HTTP client used to fetch the artifact
func WithHTTPClient(httpClient *http.Client) ClientOptionFunc {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithRenderer specifies the surface that info, errors, and loader changes are rendered to
func WithRenderer(renderer ui.Renderer) ClientOptionFunc {
	return func(c *Client) {
		c.renderer = renderer
	}
}

// WithLogger specifies the logger to use
func WithLogger(logger *slog.Logger) ClientOptionFunc {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics specifies the metrics to record to
func WithMetrics(m *metrics.Metrics) ClientOptionFunc {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithGasLimit specifies the gas limit for setInfo transactions. The default is 500000
func WithGasLimit(gasLimit uint64) ClientOptionFunc {
	return func(c *Client) {
		c.gasLimit = gasLimit
	}
}

// WithFrom specifies the sending account for transactions. If none is provided, the provider
// picks one
func WithFrom(from common.Address) ClientOptionFunc {
	return func(c *Client) {
		c.from = from
	}
}

// WithVerifyCode specifies whether resolving the deployed instance also compares on-chain code
// with the artifact
func WithVerifyCode(verifyCode bool) ClientOptionFunc {
	return func(c *Client) {
		c.verifyCode = verifyCode
	}
}

// WithSubmitGuard specifies whether SubmitInfo rejects a submission while another one is in
// flight. This is disabled by default, so repeated submissions each send a transaction
func WithSubmitGuard(submitGuard bool) ClientOptionFunc {
	return func(c *Client) {
		c.submitGuard = submitGuard
	}
}
