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

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	infocontract "github.com/blinklabs-io/infocontract"
	"github.com/blinklabs-io/infocontract/internal/config"
	"github.com/blinklabs-io/infocontract/internal/logging"
	"github.com/blinklabs-io/infocontract/provider"
	"github.com/blinklabs-io/infocontract/ui"
)

type globalFlags struct {
	configFile string
	endpoint   string
	artifact   string
	network    string
	logLevel   string
	logFormat  string
	verifyCode bool
}

var flags globalFlags

var rootCmd = &cobra.Command{
	Use:           "infocontract",
	Short:         "Read and update the record stored by InfoContract",
	SilenceErrors: true,
	SilenceUsage:  true,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.configFile, "config", "c", "", "path to YAML config file")
	pf.StringVarP(&flags.endpoint, "endpoint", "e", "", "fallback JSON-RPC endpoint used when no provider is injected (default "+provider.DefaultEndpoint+")")
	pf.StringVarP(&flags.artifact, "artifact", "a", "", "location of the InfoContract artifact (URL or path)")
	pf.StringVarP(&flags.network, "network", "n", "", "well-known network whose default endpoint is used (see 'networks')")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, or error")
	pf.StringVar(&flags.logFormat, "log-format", "", "log format: text or json")
	pf.BoolVar(&flags.verifyCode, "verify-code", false, "compare on-chain code with the artifact before using it")
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(networksCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		os.Exit(1)
	}
}

// loadConfig builds the configuration from defaults, the config file, the environment, and
// command line flags, in increasing order of precedence
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flags.configFile)
	if err != nil {
		return nil, err
	}
	overrides := config.Config{
		Network: flags.network,
		Provider: config.ProviderConfig{
			Endpoint: flags.endpoint,
		},
		Artifact: config.ArtifactConfig{
			URL:        flags.artifact,
			VerifyCode: flags.verifyCode,
		},
		Logging: config.LoggingConfig{
			Level:  flags.logLevel,
			Format: flags.logFormat,
		},
	}
	if err := cfg.Merge(overrides); err != nil {
		return nil, fmt.Errorf("apply flags: %w", err)
	}
	network := infocontract.NetworkByName(cfg.Network)
	if network == infocontract.NetworkInvalid {
		return nil, fmt.Errorf("unknown network %q", cfg.Network)
	}
	// A network chosen on the command line brings its endpoint along unless one was given too
	if flags.network != "" && flags.endpoint == "" && network.Endpoint != "" {
		cfg.Provider.Endpoint = network.Endpoint
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*slog.Logger, error) {
	logger, err := logging.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return logger, nil
}

func newClient(cfg *config.Config, logger *slog.Logger, options ...infocontract.ClientOptionFunc) (*infocontract.Client, error) {
	providerOpts := []provider.ProviderOptionFunc{
		provider.WithLogger(logger),
		provider.WithPollInterval(cfg.Provider.PollInterval),
	}
	clientOpts := []infocontract.ClientOptionFunc{
		infocontract.WithEndpoint(cfg.Provider.Endpoint),
		infocontract.WithArtifactURL(cfg.Artifact.URL),
		infocontract.WithGasLimit(cfg.Transaction.GasLimit),
		infocontract.WithVerifyCode(cfg.Artifact.VerifyCode),
		infocontract.WithSubmitGuard(cfg.Transaction.SubmitGuard),
		infocontract.WithLogger(logger),
	}
	if cfg.Transaction.From != "" {
		from := common.HexToAddress(cfg.Transaction.From)
		providerOpts = append(providerOpts, provider.WithDefaultAccount(from))
		clientOpts = append(clientOpts, infocontract.WithFrom(from))
	}
	if cfg.Transaction.PrivateKey != "" {
		key, err := provider.ParsePrivateKey(cfg.Transaction.PrivateKey)
		if err != nil {
			return nil, err
		}
		if cfg.Transaction.From != "" && provider.AddressOf(key) != common.HexToAddress(cfg.Transaction.From) {
			return nil, errors.New("transaction.from does not match transaction.privateKey")
		}
		providerOpts = append(providerOpts, provider.WithPrivateKey(key))
	}
	if cfg.Provider.DisableInjected {
		clientOpts = append(clientOpts, infocontract.WithInjector(provider.NoInjector))
	}
	clientOpts = append(clientOpts, infocontract.WithProviderOptions(providerOpts...))
	clientOpts = append(clientOpts, options...)
	return infocontract.NewClient(clientOpts...), nil
}

// checkNetwork warns when the connected node is not on the configured network
func checkNetwork(ctx context.Context, cfg *config.Config, client *infocontract.Client, logger *slog.Logger) {
	expected := infocontract.NetworkByName(cfg.Network)
	networkID, err := client.Provider().NetworkID(ctx)
	if err != nil || !networkID.IsUint64() {
		return
	}
	if networkID.Uint64() != expected.Id {
		actual := infocontract.NetworkById(networkID.Uint64())
		logger.Warn(
			"connected node is not on the configured network",
			"component", "cli",
			"configured", expected.String(),
			"network_id", networkID.Uint64(),
			"detected", actual.String(),
		)
	}
}

type setupResult struct {
	cfg    *config.Config
	logger *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

// setup loads the configuration and logger and derives a context bounded by the configured timeout
func setup(cmd *cobra.Command) (*setupResult, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	ctx, cancel := withTimeout(cmd.Context(), cfg.Provider.Timeout)
	return &setupResult{
		cfg:    cfg,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// withTimeout bounds ctx by d. A zero d means no timeout
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func textRenderer() ui.Renderer {
	return ui.NewTextRenderer(os.Stdout)
}
