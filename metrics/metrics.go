// Copyright 2017 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package metrics instruments the pool and source layers with
// Prometheus collectors, registered against GlobalMetricsRegistry,
// styled after storage/disk/metrics.go's histogram wiring.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// PoolSpawnDuration measures how long ProcessPool.Spawn takes from
	// dispatch to response, labelled by the registered work function.
	PoolSpawnDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name: "amadeus_pool_spawn_duration_seconds",
		Help: "Time spent waiting for a process pool worker to complete a task.",
	}, []string{"func"})

	// PoolWorkerPanics counts work closures that unwound with a panic.
	PoolWorkerPanics = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "amadeus_pool_worker_panics_total",
		Help: "Number of pool worker tasks that panicked.",
	}, []string{"func"})

	// SourceReadRetries counts retried page reads, labelled by whether
	// the retry eventually succeeded.
	SourceReadRetries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "amadeus_source_read_retries_total",
		Help: "Number of page read attempts beyond the first, per outcome.",
	}, []string{"outcome"})

	// SourceBytesRead sums bytes returned by Page.Read across every
	// source implementation.
	SourceBytesRead = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "amadeus_source_bytes_read_total",
		Help: "Total bytes returned by Page.Read.",
	})
)

func init() {
	GlobalMetricsRegistry.MustRegister(
		PoolSpawnDuration,
		PoolWorkerPanics,
		SourceReadRetries,
		SourceBytesRead,
	)
}
