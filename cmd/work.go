// Copyright 2016 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package cmd

import (
	"context"
	"encoding/gob"
	"fmt"

	"github.com/nixar0x0/amadeus/pool"
	"github.com/nixar0x0/amadeus/source/s3"
)

// pageLengthArg names one S3 object the demo pipeline dispatches to a
// worker: the unit of work a process-pool task operates on.
type pageLengthArg struct {
	Region, Bucket, Key, Endpoint string
}

func init() {
	gob.Register(pageLengthArg{})
	gob.Register(uint64(0))
	pool.Register("pageLength", pageLength)
}

// pageLength opens arg as an S3 page and returns its length, forcing a
// HEAD round trip inside the worker's own ThreadPool. It is the one
// WorkFunc the "run" subcommand's demo pipeline exercises.
func pageLength(tp *pool.ThreadPool, arg any) (any, error) {
	a, ok := arg.(pageLengthArg)
	if !ok {
		return nil, fmt.Errorf("cmd: pageLength: unexpected arg type %T", arg)
	}
	page := s3.Page{Region: a.Region, Bucket: a.Bucket, Key: a.Key, Endpoint: a.Endpoint}
	return page.Len(context.Background())
}
