// Copyright 2025 Blink Labs Software
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

package query

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess = "success"
	outcomeError   = "error"
	outcomeTimeout = "timeout"
)

var (
	submissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ledgerquery",
			Subsystem: "query",
			Name:      "submissions_total",
			Help:      "Total number of queries submitted to nodes, by precheck status",
		},
		[]string{"method", "status"},
	)

	busyRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ledgerquery",
			Subsystem: "query",
			Name:      "retries_total",
			Help:      "Total number of resubmissions after a retryable status",
		},
		[]string{"method"},
	)

	costEstimatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ledgerquery",
			Subsystem: "query",
			Name:      "cost_estimates_total",
			Help:      "Total number of cost lookups",
		},
		[]string{"method", "outcome"},
	)

	executeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ledgerquery",
			Subsystem: "query",
			Name:      "execute_duration_seconds",
			Help:      "Query execution latency in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 120},
		},
		[]string{"method", "outcome"},
	)
)

func outcomeOf(err error) string {
	switch err.(type) {
	case nil:
		return outcomeSuccess
	case TimeoutError:
		return outcomeTimeout
	default:
		return outcomeError
	}
}
