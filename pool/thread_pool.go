// Copyright 2016 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package pool

import (
	"runtime"
	"sync"

	"go.uber.org/automaxprocs/maxprocs"
)

// Outcome is the result of one ThreadPool submission: either Value is
// set, or Panicked is true and PanicValue holds whatever was passed to
// panic(), per spec.md §4.4/§7.
type Outcome struct {
	Value      any
	Panicked   bool
	PanicValue any
}

// ThreadPool is the local, single-process cooperative scheduler of
// spec.md §4.4: a fixed set of worker goroutines draining a single
// FIFO submission channel, sized by tasksPerCore * GOMAXPROCS. A
// submission that panics is captured and reported as a distinct
// Outcome; the pool itself is never brought down by it.
type ThreadPool struct {
	tasks chan func()
	wg    sync.WaitGroup
}

var maxprocsOnce sync.Once

// defaultTasksPerCore is used when the caller passes 0.
const defaultTasksPerCore = 4

// NewThreadPool starts a ThreadPool sized to the host's visible core
// count (adjusted for cgroup quotas via automaxprocs, the way a
// containerised worker process must) times tasksPerCore.
func NewThreadPool(tasksPerCore int) *ThreadPool {
	maxprocsOnce.Do(func() {
		_, _ = maxprocs.Set()
	})
	if tasksPerCore <= 0 {
		tasksPerCore = defaultTasksPerCore
	}
	n := runtime.GOMAXPROCS(0) * tasksPerCore
	if n < 1 {
		n = 1
	}
	tp := &ThreadPool{tasks: make(chan func())}
	tp.wg.Add(n)
	for i := 0; i < n; i++ {
		go tp.worker()
	}
	return tp
}

func (tp *ThreadPool) worker() {
	defer tp.wg.Done()
	for fn := range tp.tasks {
		fn()
	}
}

// Spawn submits fn, FIFO at submission, and returns a channel that
// receives exactly one Outcome once fn returns or panics. No
// cancellation is exposed: abandoning the returned channel detaches
// without stopping fn, per spec.md §4.4.
func (tp *ThreadPool) Spawn(fn func() any) <-chan Outcome {
	out := make(chan Outcome, 1)
	tp.tasks <- func() {
		defer func() {
			if r := recover(); r != nil {
				out <- Outcome{Panicked: true, PanicValue: r}
			}
		}()
		out <- Outcome{Value: fn()}
	}
	return out
}

// Close stops accepting new work and waits for in-flight tasks to
// drain. It does not cancel running tasks.
func (tp *ThreadPool) Close() {
	close(tp.tasks)
	tp.wg.Wait()
}

// Panicked reports a captured worker panic, surfaced to callers as a
// distinct error value per spec.md §7's WorkerPanic kind; the payload
// passed to panic() is deliberately not exposed through Error().
type Panicked struct {
	value any
}

func (p *Panicked) Error() string {
	return "worker panicked"
}

// NewPanicked wraps a recovered panic value.
func NewPanicked(value any) *Panicked {
	return &Panicked{value: value}
}
