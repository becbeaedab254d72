// Copyright 2016 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/nixar0x0/amadeus/cmd/internal/env"
	"github.com/nixar0x0/amadeus/logging"
	"github.com/nixar0x0/amadeus/pool"
)

// initWorker registers the hidden "worker" subcommand pool.ExecSpawner
// re-execs the binary into: it runs pool.RunWorker over stdin/stdout
// until the parent closes the connection or sends the sentinel.
func initWorker(rootCommand *cobra.Command) {
	var tasksPerCore int

	workerCommand := &cobra.Command{
		Use:    "worker",
		Hidden: true,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return env.Bind(cmd, "tasks-per-core")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := maxprocs.Set(); err != nil {
				logging.Global().WithError(err).Warn("failed to set GOMAXPROCS from cgroup quota")
			}
			return pool.RunWorker(stdioConn{}, tasksPerCore)
		},
	}

	workerCommand.Flags().IntVar(&tasksPerCore, "tasks-per-core", 0, "threads per core for this worker's ThreadPool")

	rootCommand.AddCommand(workerCommand)
}

// stdioConn adapts os.Stdin/os.Stdout to pool.Conn for the re-exec'd
// worker process.
type stdioConn struct{}

func (stdioConn) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdioConn) Write(p []byte) (int, error) { return os.Stdout.Write(p) }
func (stdioConn) Close() error {
	_ = os.Stdin.Close()
	return os.Stdout.Close()
}
