// Copyright 2018 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package env

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func mockRunCmd(writer io.Writer) *cobra.Command {
	var args struct {
		ConfigFile  string
		MetricsAddr string
	}
	cmd := cobra.Command{
		Use:   "run",
		Short: "test run command",
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return Bind(cmd, "config-file", "metrics-addr")
		},
		Run: func(cmd *cobra.Command, args_ []string) {
			fmt.Fprintf(writer, "%v; %v", args.ConfigFile, args.MetricsAddr)
		},
	}
	cmd.Flags().StringVarP(&args.ConfigFile, "config-file", "c", "", "set path of configuration file")
	cmd.Flags().StringVar(&args.MetricsAddr, "metrics-addr", ":9090", "set metrics listen address")
	return &cmd
}

func mockWorkerCmd(writer io.Writer) *cobra.Command {
	var tasksPerCore int
	cmd := cobra.Command{
		Use:   "worker",
		Short: "test worker command",
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return Bind(cmd, "tasks-per-core")
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(writer, "%v", tasksPerCore)
		},
	}
	cmd.Flags().IntVar(&tasksPerCore, "tasks-per-core", 0, "threads per core")
	return &cmd
}

func TestBindNoEnvVars(t *testing.T) {
	writer := bytes.NewBuffer([]byte{})
	cmd := mockRunCmd(writer)
	if err := cmd.PreRunE(cmd, []string{}); err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}
	cmd.Run(cmd, []string{})
	want := "; :9090"
	if got := writer.String(); got != want {
		t.Fatalf("expected default flag values %q, got %q", want, got)
	}
}

func TestBindOneEnvVar(t *testing.T) {
	writer := bytes.NewBuffer([]byte{})
	cmd := mockRunCmd(writer)
	t.Setenv("AMADEUS_RUN_CONFIG_FILE", "/etc/amadeus.yaml")
	if err := cmd.PreRunE(cmd, []string{}); err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}
	cmd.Run(cmd, []string{})
	want := "/etc/amadeus.yaml; :9090"
	if got := writer.String(); got != want {
		t.Fatalf("expected flag values %q, got %q", want, got)
	}
}

func TestBindAllEnvVars(t *testing.T) {
	writer := bytes.NewBuffer([]byte{})
	cmd := mockRunCmd(writer)
	t.Setenv("AMADEUS_RUN_CONFIG_FILE", "/etc/amadeus.yaml")
	t.Setenv("AMADEUS_RUN_METRICS_ADDR", ":9999")
	if err := cmd.PreRunE(cmd, []string{}); err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}
	cmd.Run(cmd, []string{})
	want := "/etc/amadeus.yaml; :9999"
	if got := writer.String(); got != want {
		t.Fatalf("expected flag values %q, got %q", want, got)
	}
}

func TestBindScopedToNamedFlagsOnly(t *testing.T) {
	// Bind is only ever told about "tasks-per-core" here, so an env var
	// for a flag the worker command doesn't have (and an unrelated
	// AMADEUS_RUN_* var meant for a different command) must not affect
	// it.
	writer := bytes.NewBuffer([]byte{})
	cmd := mockWorkerCmd(writer)
	t.Setenv("AMADEUS_RUN_CONFIG_FILE", "/etc/amadeus.yaml")
	t.Setenv("AMADEUS_WORKER_TASKS_PER_CORE", "4")
	if err := cmd.PreRunE(cmd, []string{}); err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}
	cmd.Run(cmd, []string{})
	want := "4"
	if got := writer.String(); got != want {
		t.Fatalf("expected flag value %q, got %q", want, got)
	}
}

func TestBindDoesNotOverrideExplicitFlag(t *testing.T) {
	writer := bytes.NewBuffer([]byte{})
	cmd := mockRunCmd(writer)
	t.Setenv("AMADEUS_RUN_CONFIG_FILE", "/etc/amadeus.yaml")
	cmd.SetArgs([]string{"-c", "/tmp/override.yaml"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}
	want := "/tmp/override.yaml; :9090"
	if got := writer.String(); got != want {
		t.Fatalf("expected flag values %q, got %q", want, got)
	}
}

func TestBindInvalidEnvValueReturnsError(t *testing.T) {
	writer := bytes.NewBuffer([]byte{})
	cmd := mockWorkerCmd(writer)
	t.Setenv("AMADEUS_WORKER_TASKS_PER_CORE", "not-an-int")
	err := cmd.PreRunE(cmd, []string{})
	if err == nil {
		t.Fatalf("expected error, found none")
	}
	if !strings.Contains(err.Error(), "not-an-int") {
		t.Fatalf("expected error to mention the invalid value, got %q", err.Error())
	}
}
