// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package metrics exposes Prometheus instrumentation for the
// swapped-argument checker's hosting layers (CLI, HTTP).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// Prometheus Metrics for Swap Checking
// =============================================================================

var (
	// ChecksTotal counts call sites checked by the scan command and the
	// HTTP handlers, by mode; a site answered from the result cache is
	// counted too.
	// Labels: mode (cover, stats, all)
	ChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "swapcheck",
		Subsystem: "engine",
		Name:      "checks_total",
		Help:      "Total call sites checked by mode, including result-cache hits",
	}, []string{"mode"})

	// ResultsTotal counts reported swaps by score card kind.
	// Labels: kind (parameter_name_based, usage_statistics_based)
	ResultsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "swapcheck",
		Subsystem: "engine",
		Name:      "results_total",
		Help:      "Total reported swaps by score card kind",
	}, []string{"kind"})

	// CheckLatencySeconds measures CheckSite wall-clock latency.
	CheckLatencySeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "swapcheck",
		Subsystem: "engine",
		Name:      "check_latency_seconds",
		Help:      "CheckSite latency in seconds",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
	})

	// StoreOpenTotal counts statistics store open attempts by outcome.
	// Labels: outcome (valid, disabled, error)
	StoreOpenTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "swapcheck",
		Subsystem: "stats",
		Name:      "store_open_total",
		Help:      "Statistics store open attempts by outcome",
	}, []string{"outcome"})

	// CacheLookupsTotal counts result-cache lookups by outcome.
	// Labels: outcome (hit, miss)
	CacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "swapcheck",
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Result cache lookups by outcome",
	}, []string{"outcome"})
)
