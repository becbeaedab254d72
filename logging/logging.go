// Copyright 2019 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package logging gives every package in this module a shared
// structured logger (github.com/sirupsen/logrus) plus the two bits of
// domain behaviour they actually need on top of it: a worker-panic
// record carrying the submission/func correlation pool.Spawn wants at
// its panic site, and a rate-limited logger for the retry storms
// source/s3 produces when S3 is having a bad day. Callers needing
// plain structured logging chain straight off Global(); there is no
// separate wrapper interface duplicating logrus's own method set.
package logging

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

var (
	rootOnce sync.Once
	root     *logrus.Logger
)

// Global returns the module-wide logger entry.
func Global() *logrus.Entry {
	rootOnce.Do(func() { root = logrus.New() })
	return logrus.NewEntry(root)
}

// WorkerPanic logs a worker's panic with the fields needed to
// correlate it back to the dispatch that triggered it: the
// submission ID pool.Spawn generated for this call, the function that
// panicked, and the recovered panic value.
func WorkerPanic(submissionID, funcName string, panicValue any) {
	Global().
		WithField("submission_id", submissionID).
		WithField("func", funcName).
		WithField("panic_value", fmt.Sprintf("%v", panicValue)).
		Error("worker panicked")
}

// RetryLogger warns about a retried operation at most once per
// interval, independent of how many callers are retrying
// concurrently, so a transient S3 outage logs one line instead of one
// warning per in-flight request.
type RetryLogger struct {
	limiter *rate.Limiter
}

// NewRetryLogger returns a RetryLogger that logs at most one retry
// warning per interval.
func NewRetryLogger(interval time.Duration) *RetryLogger {
	return &RetryLogger{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// Retrying logs that key is being retried after err, subject to this
// RetryLogger's rate limit. attempt is the 1-based attempt number
// that just failed.
func (r *RetryLogger) Retrying(key string, attempt int, err error) {
	if !r.limiter.Allow() {
		return
	}
	Global().
		WithField("key", key).
		WithField("attempt", attempt).
		WithError(err).
		Warn("retrying after transient error")
}
