// Copyright 2016 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package cmd

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nixar0x0/amadeus/pool"
)

func TestPageLengthReturnsObjectLength(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "42")
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(ts.Close)

	tp := pool.NewThreadPool(1)
	t.Cleanup(tp.Close)

	got, err := pageLength(tp, pageLengthArg{Region: "us-east-1", Bucket: "bucket", Key: "key", Endpoint: ts.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.(uint64) != 42 {
		t.Fatalf("expected length 42, got %v", got)
	}
}

func TestPageLengthRejectsWrongArgType(t *testing.T) {
	tp := pool.NewThreadPool(1)
	t.Cleanup(tp.Close)

	if _, err := pageLength(tp, "not-the-right-type"); err == nil {
		t.Fatalf("expected an error for a non-pageLengthArg argument")
	}
}
