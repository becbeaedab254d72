// Copyright 2016 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/nixar0x0/amadeus/cmd"
)

func main() {
	if err := cmd.Command(nil).Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
