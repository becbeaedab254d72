// Copyright 2016 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package cmd wires the cobra CLI: a root "amadeus" command, a "run"
// subcommand that drives the demo pipeline, and a hidden "worker"
// subcommand that pool.ExecSpawner re-execs the binary into.
package cmd

import (
	"github.com/spf13/cobra"
)

// Command returns the root command, following the teacher's
// Command(rootCommand, brand) factory shape but with this module's own
// subcommand set.
func Command(rootCommand *cobra.Command) *cobra.Command {
	if rootCommand == nil {
		rootCommand = &cobra.Command{
			Use:   "amadeus",
			Short: "amadeus runs the distributed execution substrate",
			Long:  "amadeus dispatches work across a process/thread pool reading partitioned object-store sources.",
		}
	}

	initRun(rootCommand)
	initWorker(rootCommand)
	return rootCommand
}
