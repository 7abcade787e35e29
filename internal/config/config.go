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

// Package config loads the command line configuration from defaults, an
// optional YAML file, environment variables, and flag overrides, in that order.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jinzhu/copier"
	"gopkg.in/yaml.v3"

	"github.com/blinklabs-io/infocontract/provider"
)

const (
	DefaultArtifactURL   = "build/contracts/InfoContract.json"
	DefaultGasLimit      = 500000
	DefaultListenAddress = "127.0.0.1:8080"
	DefaultTimeout       = 30 * time.Second
)

// EnvPrefix is the prefix of environment variable overrides
const EnvPrefix = "INFOCONTRACT_"

type Config struct {
	Network     string            `yaml:"network"`
	Provider    ProviderConfig    `yaml:"provider"`
	Artifact    ArtifactConfig    `yaml:"artifact"`
	Transaction TransactionConfig `yaml:"transaction"`
	Server      ServerConfig      `yaml:"server"`
	Logging     LoggingConfig     `yaml:"logging"`
}

type ProviderConfig struct {
	// Endpoint is the fallback endpoint used when no provider is injected
	Endpoint     string        `yaml:"endpoint"`
	PollInterval time.Duration `yaml:"pollInterval"`
	Timeout      time.Duration `yaml:"timeout"`
	// DisableInjected ignores WEB3_PROVIDER_URI
	DisableInjected bool `yaml:"disableInjected"`
}

type ArtifactConfig struct {
	URL        string `yaml:"url"`
	VerifyCode bool   `yaml:"verifyCode"`
}

type TransactionConfig struct {
	GasLimit    uint64 `yaml:"gasLimit"`
	From        string `yaml:"from"`
	PrivateKey  string `yaml:"privateKey"`
	SubmitGuard bool   `yaml:"submitGuard"`
}

type ServerConfig struct {
	ListenAddress string  `yaml:"listenAddress"`
	SubmitRate    float64 `yaml:"submitRate"`
	SubmitBurst   int     `yaml:"submitBurst"`
	Metrics       bool    `yaml:"metrics"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the default configuration
func Default() Config {
	return Config{
		Network: "ganache",
		Provider: ProviderConfig{
			Endpoint:     provider.DefaultEndpoint,
			PollInterval: provider.DefaultPollInterval,
			Timeout:      DefaultTimeout,
		},
		Artifact: ArtifactConfig{
			URL: DefaultArtifactURL,
		},
		Transaction: TransactionConfig{
			GasLimit: DefaultGasLimit,
		},
		Server: ServerConfig{
			ListenAddress: DefaultListenAddress,
			SubmitRate:    1,
			SubmitBurst:   3,
			Metrics:       true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load returns the default configuration overlaid with the YAML file at path (if any) and then
// with environment variables
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open config: %w", err)
		}
		defer f.Close()
		if err := cfg.decode(f); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// NewFromReader decodes YAML over the defaults
func NewFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	if err := cfg.decode(r); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) decode(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Merge copies every non-zero field of overrides over c. Boolean fields can only be switched on
func (c *Config) Merge(overrides Config) error {
	opt := copier.Option{IgnoreEmpty: true}
	if overrides.Network != "" {
		c.Network = overrides.Network
	}
	if err := copier.CopyWithOption(&c.Provider, &overrides.Provider, opt); err != nil {
		return err
	}
	if err := copier.CopyWithOption(&c.Artifact, &overrides.Artifact, opt); err != nil {
		return err
	}
	if err := copier.CopyWithOption(&c.Transaction, &overrides.Transaction, opt); err != nil {
		return err
	}
	if err := copier.CopyWithOption(&c.Server, &overrides.Server, opt); err != nil {
		return err
	}
	if err := copier.CopyWithOption(&c.Logging, &overrides.Logging, opt); err != nil {
		return err
	}
	return nil
}

type lookupFunc func(string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	str := func(name string, dest *string) {
		if v, ok := lookup(EnvPrefix + name); ok && strings.TrimSpace(v) != "" {
			*dest = strings.TrimSpace(v)
		}
	}
	str("NETWORK", &c.Network)
	str("ENDPOINT", &c.Provider.Endpoint)
	str("ARTIFACT_URL", &c.Artifact.URL)
	str("FROM", &c.Transaction.From)
	str("PRIVATE_KEY", &c.Transaction.PrivateKey)
	str("LISTEN_ADDRESS", &c.Server.ListenAddress)
	str("LOG_LEVEL", &c.Logging.Level)
	str("LOG_FORMAT", &c.Logging.Format)
	if v, ok := lookup(EnvPrefix + "GAS_LIMIT"); ok && v != "" {
		gas, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("%sGAS_LIMIT: %w", EnvPrefix, err)
		}
		c.Transaction.GasLimit = gas
	}
	if v, ok := lookup(EnvPrefix + "SUBMIT_GUARD"); ok && v != "" {
		guard, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%sSUBMIT_GUARD: %w", EnvPrefix, err)
		}
		c.Transaction.SubmitGuard = guard
	}
	return nil
}

// Validate checks the configuration for values that cannot work
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Provider.Endpoint) == "" {
		errs = append(errs, errors.New("provider.endpoint must not be empty"))
	}
	if strings.TrimSpace(c.Artifact.URL) == "" {
		errs = append(errs, errors.New("artifact.url must not be empty"))
	}
	if c.Transaction.GasLimit == 0 {
		errs = append(errs, errors.New("transaction.gasLimit must be positive"))
	}
	if c.Transaction.From != "" && !common.IsHexAddress(c.Transaction.From) {
		errs = append(errs, fmt.Errorf("transaction.from %q is not an address", c.Transaction.From))
	}
	if c.Provider.PollInterval < 0 {
		errs = append(errs, errors.New("provider.pollInterval must not be negative"))
	}
	if c.Provider.Timeout < 0 {
		errs = append(errs, errors.New("provider.timeout must not be negative"))
	}
	if c.Server.SubmitRate < 0 || c.Server.SubmitBurst < 0 {
		errs = append(errs, errors.New("server.submitRate and server.submitBurst must not be negative"))
	}
	return errors.Join(errs...)
}
