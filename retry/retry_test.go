// Copyright 2016 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package retry

import (
	"context"
	"testing"

	"github.com/nixar0x0/amadeus/errs"
)

func TestDoSucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), nil, func(attempt int) error {
		attempts = attempt
		if attempt < 4 {
			return errs.New(errs.TransportTransient, "503")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do returned error: %v", err)
	}
	if attempts != 4 {
		t.Fatalf("expected 4 attempts, got %d", attempts)
	}
}

func TestDoPropagatesFatalImmediately(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), nil, func(attempt int) error {
		attempts++
		return errs.New(errs.TransportFatal, "403")
	})
	if err == nil {
		t.Fatalf("expected a fatal error to propagate")
	}
	if attempts != 1 {
		t.Fatalf("fatal errors must not be retried, got %d attempts", attempts)
	}
}

func TestDoExhaustsMaxAttempts(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), nil, func(attempt int) error {
		attempts++
		return errs.New(errs.TransportTransient, "503")
	})
	if err == nil {
		t.Fatalf("expected the last transient error to surface after exhausting attempts")
	}
	if attempts != MaxAttempts {
		t.Fatalf("expected exactly %d attempts, got %d", MaxAttempts, attempts)
	}
}
