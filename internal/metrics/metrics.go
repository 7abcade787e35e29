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

// Package metrics holds the prometheus collectors for the contract client
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "infocontract"

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Metrics tracks contract calls, transactions, and failures by stage.
// A nil *Metrics records nothing
type Metrics struct {
	calls         *prometheus.CounterVec
	callDuration  *prometheus.HistogramVec
	transactions  *prometheus.CounterVec
	stageErrors   *prometheus.CounterVec
	submitsActive prometheus.Gauge
}

// New creates the collectors and registers them with reg. A nil reg skips registration
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "calls_total",
				Help:      "Read-only contract calls by method and outcome.",
			},
			[]string{"method", "outcome"},
		),
		callDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "operation_duration_seconds",
				Help:      "Duration of client operations.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		transactions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transactions_total",
				Help:      "Contract transactions by method and outcome.",
			},
			[]string{"method", "outcome"},
		),
		stageErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stage_errors_total",
				Help:      "Client failures by stage.",
			},
			[]string{"stage"},
		),
		submitsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "submissions_in_flight",
				Help:      "Submissions currently waiting for confirmation.",
			},
		),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{
			m.calls,
			m.callDuration,
			m.transactions,
			m.stageErrors,
			m.submitsActive,
		} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeSuccess
}

// RecordCall records a read-only call result
func (m *Metrics) RecordCall(method string, err error) {
	if m == nil {
		return
	}
	m.calls.WithLabelValues(method, outcome(err)).Inc()
}

// RecordTransaction records a transaction result
func (m *Metrics) RecordTransaction(method string, err error) {
	if m == nil {
		return
	}
	m.transactions.WithLabelValues(method, outcome(err)).Inc()
}

// RecordStageError records a failure in the named stage
func (m *Metrics) RecordStageError(stage string) {
	if m == nil {
		return
	}
	m.stageErrors.WithLabelValues(stage).Inc()
}

// ObserveDuration records how long an operation took since start
func (m *Metrics) ObserveDuration(operation string, start time.Time) {
	if m == nil {
		return
	}
	m.callDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// SubmitStarted increments the in-flight submission gauge
func (m *Metrics) SubmitStarted() {
	if m == nil {
		return
	}
	m.submitsActive.Inc()
}

// SubmitFinished decrements the in-flight submission gauge
func (m *Metrics) SubmitFinished() {
	if m == nil {
		return
	}
	m.submitsActive.Dec()
}
