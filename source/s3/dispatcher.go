// Copyright 2016 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package s3

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// dispatcher is the process-wide HTTP client S3Directory/S3Page share,
// per spec.md §9's design note: "process-wide state S initialised
// lazily on first use"; amortising connection pooling across every
// client in the process the way RUSOTO_DISPATCHER does in the source
// crate.
var (
	dispatcherOnce sync.Once
	dispatcher     *http.Client
	limiterOnce    sync.Once
	limiter        *rate.Limiter
)

func sharedDispatcher() *http.Client {
	dispatcherOnce.Do(func() {
		dispatcher = &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	})
	return dispatcher
}

// sharedLimiter bounds the request rate issued against S3 across every
// directory/page in the process, independent of how many pool workers
// are concurrently reading.
func sharedLimiter() *rate.Limiter {
	limiterOnce.Do(func() {
		limiter = rate.NewLimiter(rate.Limit(defaultRequestsPerSecond), defaultBurst)
	})
	return limiter
}

const (
	defaultRequestsPerSecond = 200
	defaultBurst             = 50
)
