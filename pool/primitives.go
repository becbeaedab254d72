// Copyright 2016 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package pool implements the two-tier execution substrate described
// in spec.md §4.4-§4.6: a local cooperative ThreadPool and the
// process-pool dispatch/FIFO-await machinery built on top of it,
// ported from src/pool/process.rs and its util::{RoundRobin,
// Synchronize, OnDrop} helpers.
package pool

import (
	"context"
	"sync/atomic"
)

// RoundRobin is an atomic counter returning (base + n) % modulus on
// its n'th call, per spec.md §4.6.
type RoundRobin struct {
	base    uint64
	modulus uint64
	ctr     uint64
}

// NewRoundRobin constructs a RoundRobin cycling over [0, modulus).
func NewRoundRobin(base, modulus int) *RoundRobin {
	return &RoundRobin{base: uint64(base), modulus: uint64(modulus)}
}

// Next returns the next index, advancing the counter exactly once per
// call; total across concurrent callers (spec.md §5).
func (r *RoundRobin) Next() int {
	n := atomic.AddUint64(&r.ctr, 1) - 1
	return int((r.base + n) % r.modulus)
}

// Synchronize is a cooperative single-holder token: one caller runs
// its critical section at a time, and Go's channel runtime serves
// blocked receivers in FIFO order, matching spec.md §4.6's "waiters
// are woken FIFO" requirement without a bespoke wait queue.
type Synchronize struct {
	token chan struct{}
}

// NewSynchronize returns a ready-to-use Synchronize.
func NewSynchronize() *Synchronize {
	s := &Synchronize{token: make(chan struct{}, 1)}
	s.token <- struct{}{}
	return s
}

// Do runs f while holding the token, waiting FIFO for a turn. It
// returns ctx.Err() without running f if ctx is cancelled first.
func (s *Synchronize) Do(ctx context.Context, f func()) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.token:
	}
	defer func() { s.token <- struct{}{} }()
	f()
	return nil
}

// OnDrop runs fn once, on Run, unless Cancel was called first. It is
// Go's stand-in for the source's scope-exit guard: callers `defer
// od.Run()` immediately after construction and call Cancel() once the
// guarded operation completes through its normal path.
type OnDrop struct {
	fn        func()
	cancelled bool
}

// NewOnDrop constructs a guard around fn.
func NewOnDrop(fn func()) *OnDrop {
	return &OnDrop{fn: fn}
}

// Cancel suppresses the guard; Run becomes a no-op.
func (o *OnDrop) Cancel() {
	o.cancelled = true
}

// Run invokes fn unless the guard was cancelled. Safe to defer
// unconditionally.
func (o *OnDrop) Run() {
	if !o.cancelled && o.fn != nil {
		o.fn()
	}
}
