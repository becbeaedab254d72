// Copyright 2016 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package pool

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
)

// pipeConn adapts a pair of io.Pipe halves into a Conn, so tests can
// exercise the full parent/worker gob protocol without exec'ing a
// real OS process.
type pipeConn struct {
	r *io.PipeReader
	w *io.PipeWriter
}

func (c *pipeConn) Read(p []byte) (int, error)  { return c.r.Read(p) }
func (c *pipeConn) Write(p []byte) (int, error) { return c.w.Write(p) }
func (c *pipeConn) Close() error {
	_ = c.r.Close()
	return c.w.Close()
}

// inProcessSpawner runs RunWorker in a goroutine instead of a child
// process, connected to the parent-side Conn via two io.Pipes.
type inProcessSpawner struct {
	wg *sync.WaitGroup
}

func (s inProcessSpawner) Spawn() (Conn, error) {
	parentR, workerW := io.Pipe()
	workerR, parentW := io.Pipe()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		_ = RunWorker(&pipeConn{r: workerR, w: workerW}, 1)
	}()

	return &pipeConn{r: parentR, w: parentW}, nil
}

func init() {
	Register("echo", func(tp *ThreadPool, arg any) (any, error) {
		return arg, nil
	})
	Register("double", func(tp *ThreadPool, arg any) (any, error) {
		return arg.(int) * 2, nil
	})
	Register("boom", func(tp *ThreadPool, arg any) (any, error) {
		panic("deliberate failure")
	})
	Register("fail", func(tp *ThreadPool, arg any) (any, error) {
		return nil, errors.New("deliberate error")
	})
}

func newTestPool(t *testing.T, n int) (*ProcessPool, *sync.WaitGroup) {
	t.Helper()
	var wg sync.WaitGroup
	pp, err := NewProcessPool(context.Background(), n, inProcessSpawner{wg: &wg})
	if err != nil {
		t.Fatalf("NewProcessPool: %v", err)
	}
	return pp, &wg
}

func TestProcessPoolRoundRobinAndFIFO(t *testing.T) {
	pp, wg := newTestPool(t, 4)
	defer func() { pp.Close(); wg.Wait() }()

	const n = 8
	results := make(chan int, n)
	var wgSubmit sync.WaitGroup
	for i := 0; i < n; i++ {
		i := i
		wgSubmit.Add(1)
		go func() {
			defer wgSubmit.Done()
			v, err := Spawn[int](context.Background(), pp, "double", i)
			if err != nil {
				t.Errorf("Spawn: %v", err)
				return
			}
			if v != i*2 {
				t.Errorf("Spawn(%d) = %d, want %d", i, v, i*2)
			}
			results <- v
		}()
	}
	wgSubmit.Wait()
	close(results)

	for w, p := range pp.inner.processes {
		p.mu.Lock()
		served := p.tail
		p.mu.Unlock()
		if served != n/len(pp.inner.processes) {
			t.Fatalf("worker %d served %d submissions, want %d", w, served, n/len(pp.inner.processes))
		}
	}

	seen := map[int]bool{}
	for v := range results {
		seen[v] = true
	}
	for i := 0; i < n; i++ {
		if !seen[i*2] {
			t.Fatalf("missing result for input %d", i)
		}
	}
}

func TestProcessPoolWorkerPanicIsIsolated(t *testing.T) {
	pp, wg := newTestPool(t, 1)
	defer func() { pp.Close(); wg.Wait() }()

	ctx := context.Background()
	if _, err := Spawn[string](ctx, pp, "echo", "before"); err != nil {
		t.Fatalf("before: %v", err)
	}

	_, err := Spawn[string](ctx, pp, "boom", "x")
	if err == nil {
		t.Fatalf("expected the panicking submission to report an error")
	}
	var panicked *Panicked
	if !errors.As(err, &panicked) {
		t.Fatalf("expected *Panicked, got %T: %v", err, err)
	}

	got, err := Spawn[string](ctx, pp, "echo", "after")
	if err != nil || got != "after" {
		t.Fatalf("submission after a panic on the same worker must still complete: %v, %v", got, err)
	}
}

func TestProcessPoolWorkFuncError(t *testing.T) {
	pp, wg := newTestPool(t, 1)
	defer func() { pp.Close(); wg.Wait() }()

	_, err := Spawn[string](context.Background(), pp, "fail", nil)
	if err == nil {
		t.Fatalf("expected an error from the fail work function")
	}
}

func TestProcessPoolDropSafety(t *testing.T) {
	pp, wg := newTestPool(t, 1)
	defer func() { pp.Close(); wg.Wait() }()

	ctx := context.Background()
	var wgSubmit sync.WaitGroup
	for i := 0; i < 20; i++ {
		i := i
		wgSubmit.Add(1)
		go func() {
			defer wgSubmit.Done()
			if i >= 5 && i < 15 {
				// Submit and discard the result. Spawn still waits for
				// the response, so OnDrop's cancel path is not reached
				// here; the check is that discarded results interleaved
				// with concurrent callers do not disturb the others.
				_, _ = Spawn[int](ctx, pp, "double", i)
				return
			}
			v, err := Spawn[int](ctx, pp, "double", i)
			if err != nil || v != i*2 {
				t.Errorf("Spawn(%d): %v, %v", i, v, err)
			}
		}()
	}
	wgSubmit.Wait()
}
