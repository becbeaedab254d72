// Copyright 2016 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package pool

import (
	"fmt"
	"sync"
)

// WorkFunc is a registered unit of cross-process work: it runs on the
// worker's ThreadPool and returns a gob-encodable result.
type WorkFunc func(tp *ThreadPool, arg any) (any, error)

// registry realises spec.md §9's "serialisable closure" design note: a
// sum type can't express an open, user-extensible closure set, so work
// is instead named (FuncName) and looked up in a process-wide table
// populated by Register, the same tagged-payload/registered-
// constructor-table idiom the design notes call for.
var registry = struct {
	mu sync.RWMutex
	m  map[string]WorkFunc
}{m: make(map[string]WorkFunc)}

// Register associates name with fn. Both the parent (for encoding) and
// every worker process (for dispatch) must call Register for the same
// set of names before the pool starts issuing work; it is typically
// called from package init functions.
func Register(name string, fn WorkFunc) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if _, exists := registry.m[name]; exists {
		panic(fmt.Sprintf("pool: work %q already registered", name))
	}
	registry.m[name] = fn
}

func lookup(name string) (WorkFunc, bool) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	fn, ok := registry.m[name]
	return fn, ok
}
