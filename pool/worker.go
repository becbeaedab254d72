// Copyright 2016 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package pool

import (
	"encoding/gob"
	"io"
)

// RunWorker is the worker-process event loop described in spec.md
// §4.5's "Shape": receive a request over conn, execute it against a
// local ThreadPool created once at startup, send back a response,
// repeat until the sentinel is received or the connection closes.
// cmd's hidden worker subcommand calls this with its stdin/stdout
// wired as conn.
func RunWorker(conn Conn, tasksPerCore int) error {
	dec := gob.NewDecoder(conn)
	enc := gob.NewEncoder(conn)
	tp := NewThreadPool(tasksPerCore)
	defer tp.Close()

	for {
		var req request
		if err := dec.Decode(&req); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if req.Sentinel {
			return nil
		}
		resp := execute(tp, req)
		if err := enc.Encode(&resp); err != nil {
			return err
		}
	}
}

// execute runs one request's work, converting any panic — from the
// work function itself or a downstream ThreadPool panic — into a
// response (an unregistered FuncName is reported as ErrMessage) rather than letting it cross the process
// boundary as an unwind (spec.md §7: "Panics inside the pool are
// never allowed to cross process boundaries as unwinds").
func execute(tp *ThreadPool, req request) (resp response) {
	defer func() {
		if r := recover(); r != nil {
			resp = response{Panicked: true, PanicValue: r}
		}
	}()

	fn, ok := lookup(req.FuncName)
	if !ok {
		return response{ErrMessage: "pool: no work registered as " + req.FuncName}
	}

	outcome := <-tp.Spawn(func() any {
		result, err := fn(tp, req.Arg)
		if err != nil {
			return workError{err.Error()}
		}
		return result
	})
	if outcome.Panicked {
		return response{Panicked: true, PanicValue: outcome.PanicValue}
	}
	if werr, ok := outcome.Value.(workError); ok {
		return response{ErrMessage: werr.Message}
	}
	return response{Result: outcome.Value}
}

// workError carries a WorkFunc's error through the ThreadPool's `any`
// result channel without losing it to a second, separate path.
type workError struct {
	Message string
}
