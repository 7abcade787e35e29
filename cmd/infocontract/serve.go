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
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	infocontract "github.com/blinklabs-io/infocontract"
	"github.com/blinklabs-io/infocontract/internal/metrics"
	"github.com/blinklabs-io/infocontract/internal/ratelimiter"
	"github.com/blinklabs-io/infocontract/ui"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the InfoContract page over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		reg := prometheus.NewRegistry()
		var m *metrics.Metrics
		if cfg.Server.Metrics {
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			m, err = metrics.New(reg)
			if err != nil {
				return err
			}
		}
		page := ui.NewPage(
			ui.WithPageLogger(logger),
			ui.WithSubmitTimeout(cfg.Provider.Timeout),
			ui.WithRateLimiter(
				ratelimiter.New(cfg.Server.SubmitRate, cfg.Server.SubmitBurst, ratelimiter.DefaultIdleTTL),
			),
		)
		client, err := newClient(
			cfg,
			logger,
			infocontract.WithRenderer(page),
			infocontract.WithMetrics(m),
		)
		if err != nil {
			return err
		}
		defer client.Close()
		page.SetSubmitter(client)

		// The page is served even if startup fails, showing the error with the loader still visible
		startCtx, cancel := withTimeout(ctx, cfg.Provider.Timeout)
		if err := client.Start(startCtx); err == nil {
			checkNetwork(startCtx, cfg, client, logger)
		}
		cancel()

		mux := http.NewServeMux()
		mux.Handle("/", page.Handler())
		if cfg.Server.Metrics {
			mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		}
		server := &http.Server{
			Addr:              cfg.Server.ListenAddress,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		}
		errChan := make(chan error, 1)
		go func() {
			logger.Info(
				"serving page",
				"component", "cli",
				"address", cfg.Server.ListenAddress,
				"state", client.State().String(),
			)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- err
			}
			close(errChan)
		}()
		select {
		case err, ok := <-errChan:
			if ok {
				return err
			}
			return nil
		case <-ctx.Done():
		}
		logger.Info("shutting down", "component", "cli")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	},
}
