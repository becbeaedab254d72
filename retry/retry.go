// Copyright 2016 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package retry wraps transport calls with the bounded retry policy
// described in spec.md §4.3: transient dispatch/5xx failures are
// retried up to a fixed attempt budget; everything else propagates
// immediately. Styled after download.go's polling-retry loop, backed
// by cenkalti/backoff/v4 for the optional local backoff refinement.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/nixar0x0/amadeus/errs"
)

// MaxAttempts bounds the number of attempts before the last error is
// surfaced, per spec.md §4.3.
const MaxAttempts = 10

// Do calls fn until it succeeds, returns a non-transient error, or
// MaxAttempts is exhausted. The contract layer itself adds no
// inter-attempt delay; backoffPolicy, if non-nil, is consulted for an
// optional capped exponential wait between attempts (a local
// refinement that does not change the retry contract).
func Do(ctx context.Context, backoffPolicy backoff.BackOff, fn func(attempt int) error) error {
	if backoffPolicy != nil {
		backoffPolicy.Reset()
	}
	var lastErr error
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		lastErr = fn(attempt)
		if lastErr == nil {
			return nil
		}
		if !errs.IsTransient(lastErr) {
			return lastErr
		}
		if attempt == MaxAttempts {
			break
		}
		if backoffPolicy != nil {
			if err := waitBackoff(ctx, backoffPolicy); err != nil {
				return err
			}
		}
	}
	return lastErr
}

func waitBackoff(ctx context.Context, b backoff.BackOff) error {
	d := b.NextBackOff()
	if d == backoff.Stop {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return errs.Wrap(ctx.Err())
	case <-t.C:
		return nil
	}
}

// DefaultBackoff returns a capped exponential backoff policy, styled
// after download.go's minRetryDelay/DefaultBackoff pairing but
// delegating the curve itself to cenkalti/backoff/v4.
func DefaultBackoff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = 0 // bounded by MaxAttempts, not elapsed time
	return b
}
