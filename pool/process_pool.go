// Copyright 2016 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package pool

import (
	"context"
	"encoding/gob"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nixar0x0/amadeus/errs"
	"github.com/nixar0x0/amadeus/logging"
	"github.com/nixar0x0/amadeus/metrics"
)

// slotState is one of Awaiting/Got/Taken, per spec.md §4.5.
type slotState int

const (
	slotAwaiting slotState = iota
	slotGot
	slotTaken
)

type slot struct {
	state slotState
	resp  response
}

// process is the parent's view of one worker: its connection, and the
// per-worker FIFO bookkeeping (queue/tail/received) guarded by mu, plus
// the Synchronize token serialising "who reads the channel next".
type process struct {
	conn Conn
	enc  *gob.Encoder
	dec  *gob.Decoder

	mu       sync.Mutex
	sendMu   sync.Mutex
	queue    []slot
	tail     int
	received int

	sync_ *Synchronize
}

// ProcessPool is N worker processes dispatched over round-robin, each
// running RunWorker. ProcessPool is a handle: cloning it (via the
// struct itself, since Go has no Rc) simply copies a pointer to the
// same *processPoolInner, matching spec.md §4.5's "Lifecycle".
type ProcessPool struct {
	inner *processPoolInner
}

type processPoolInner struct {
	processes []*process
	rr        *RoundRobin

	closeOnce sync.Once
}

// NewProcessPool spawns n workers via spawner, each running RunWorker
// (the worker's tasksPerCore is whatever the spawner passes it, e.g.
// in ExecSpawner.Args). If any worker fails to start,
// already-started workers are sent the sentinel and joined before the
// error is returned, per spec.md §7's SpawnFailure contract.
func NewProcessPool(ctx context.Context, n int, spawner Spawner) (*ProcessPool, error) {
	if n < 1 {
		n = 1
	}
	procs := make([]*process, 0, n)
	for i := 0; i < n; i++ {
		conn, err := spawner.Spawn()
		if err != nil {
			shutdown(procs)
			return nil, errs.New(errs.SpawnFailure, "pool: starting worker %d: %v", i, err)
		}
		procs = append(procs, &process{
			conn:  conn,
			enc:   gob.NewEncoder(conn),
			dec:   gob.NewDecoder(conn),
			sync_: NewSynchronize(),
		})
	}
	return &ProcessPool{inner: &processPoolInner{
		processes: procs,
		rr:        NewRoundRobin(0, len(procs)),
	}}, nil
}

func shutdown(procs []*process) {
	for _, p := range procs {
		_ = p.enc.Encode(&request{Sentinel: true})
		_ = p.conn.Close()
	}
}

// Processes reports the worker count.
func (pp *ProcessPool) Processes() int { return len(pp.inner.processes) }

// Clone returns a new handle sharing the same worker processes.
func (pp *ProcessPool) Clone() *ProcessPool { return &ProcessPool{inner: pp.inner} }

// Close sends the sentinel to every worker and waits for them to exit.
// Safe to call multiple times; only the first call has effect.
func (pp *ProcessPool) Close() {
	pp.inner.closeOnce.Do(func() {
		shutdown(pp.inner.processes)
	})
}

// Spawn dispatches funcName(arg) to the next worker in round-robin
// order and awaits its response, per spec.md §4.5's "Dispatch" and
// "Awaiting a specific slot". The work's result is decoded into a
// value of type T; a worker-side panic surfaces as *Panicked.
func Spawn[T any](ctx context.Context, pp *ProcessPool, funcName string, arg any) (T, error) {
	var zero T
	start := time.Now()
	defer func() {
		metrics.PoolSpawnDuration.WithLabelValues(funcName).Observe(time.Since(start).Seconds())
	}()

	submissionID := uuid.NewString()

	inner := pp.inner
	p := inner.processes[inner.rr.Next()]

	// The slot is appended while sendMu is still held, so slot order on
	// this worker always matches the order requests went out on the wire.
	var index int
	p.sendMu.Lock()
	err := p.enc.Encode(&request{FuncName: funcName, Arg: arg, SubmissionID: submissionID})
	if err == nil {
		p.mu.Lock()
		p.queue = append(p.queue, slot{state: slotAwaiting})
		index = p.tail + len(p.queue) - 1
		p.mu.Unlock()
	}
	p.sendMu.Unlock()
	if err != nil {
		return zero, errs.Wrap(err)
	}

	onDrop := NewOnDrop(func() {
		p.mu.Lock()
		offset := index - p.tail
		if offset >= 0 && offset < len(p.queue) {
			p.queue[offset].state = slotTaken
		}
		compact(p)
		p.mu.Unlock()
	})
	defer onDrop.Run()

	for {
		p.mu.Lock()
		done := p.received > index
		p.mu.Unlock()
		if done {
			break
		}
		if err := p.sync_.Do(ctx, func() { receiveOne(p, index) }); err != nil {
			return zero, errs.Wrap(err)
		}
	}

	onDrop.Cancel()
	p.mu.Lock()
	offset := index - p.tail
	resp := p.queue[offset].resp
	p.queue[offset].state = slotTaken
	compact(p)
	p.mu.Unlock()

	if resp.Panicked {
		metrics.PoolWorkerPanics.WithLabelValues(funcName).Inc()
		logging.WorkerPanic(submissionID, funcName, resp.PanicValue)
		return zero, NewPanicked(resp.PanicValue)
	}
	if resp.ErrMessage != "" {
		return zero, fmt.Errorf("pool: %s", resp.ErrMessage)
	}
	result, ok := resp.Result.(T)
	if !ok {
		return zero, fmt.Errorf("pool: worker result has wrong type, want %T got %T", zero, resp.Result)
	}
	return result, nil
}

// receiveOne re-checks index's own condition before reading the
// channel, since another holder may have advanced received while this
// caller waited for the Synchronize token; only then does it read
// exactly one response and place it into whichever slot it resolves.
func receiveOne(p *process, index int) {
	p.mu.Lock()
	if p.received > index {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	var resp response
	if err := p.dec.Decode(&resp); err != nil {
		// The connection is gone: unblock every remaining awaiter on
		// this worker with an error response rather than hanging them
		// forever behind a channel that will never produce again.
		resp = response{ErrMessage: fmt.Sprintf("pool: worker connection lost: %v", err)}
		p.mu.Lock()
		for i := range p.queue {
			if p.queue[i].state == slotAwaiting {
				p.queue[i].state = slotGot
				p.queue[i].resp = resp
			}
		}
		p.received = p.tail + len(p.queue)
		p.mu.Unlock()
		return
	}

	p.mu.Lock()
	offset := p.received - p.tail
	if offset >= 0 && offset < len(p.queue) && p.queue[offset].state == slotAwaiting {
		p.queue[offset].state = slotGot
		p.queue[offset].resp = resp
	}
	p.received++
	p.mu.Unlock()
}

// compact advances tail past contiguous Taken slots at the queue
// head, per spec.md §4.5's "Drop safety".
func compact(p *process) {
	for len(p.queue) > 0 && p.queue[0].state == slotTaken {
		p.queue = p.queue[1:]
		p.tail++
	}
}
