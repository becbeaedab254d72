// Copyright 2016 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/nixar0x0/amadeus/cmd/internal/env"
	"github.com/nixar0x0/amadeus/config"
	"github.com/nixar0x0/amadeus/logging"
	"github.com/nixar0x0/amadeus/metrics"
	"github.com/nixar0x0/amadeus/pool"
	"github.com/nixar0x0/amadeus/source/s3"
)

const defaultMetricsAddr = ":9090"

// runParams holds the "run" subcommand's flags.
type runParams struct {
	configFile  string
	metricsAddr string
}

func initRun(rootCommand *cobra.Command) {
	var params runParams

	runCommand := &cobra.Command{
		Use:   "run",
		Short: "Load a configuration and dispatch its S3 source across a process pool",
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return env.Bind(cmd, "config-file", "metrics-addr")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMain(cmd.Context(), params)
		},
	}

	runCommand.Flags().StringVarP(&params.configFile, "config-file", "c", "", "set path of configuration file")
	runCommand.Flags().StringVar(&params.metricsAddr, "metrics-addr", defaultMetricsAddr, "set listen address for the /metrics debug endpoint")

	rootCommand.AddCommand(runCommand)
}

func runMain(ctx context.Context, params runParams) error {
	if _, err := maxprocs.Set(); err != nil {
		logging.Global().WithError(err).Warn("failed to set GOMAXPROCS from cgroup quota")
	}

	raw, err := os.ReadFile(params.configFile)
	if err != nil {
		return fmt.Errorf("cmd: reading config file: %w", err)
	}
	cfg, err := config.ParseConfig(raw, "amadeus-run")
	if err != nil {
		return fmt.Errorf("cmd: parsing config file: %w", err)
	}

	go serveMetrics(params.metricsAddr)

	pp, err := pool.NewProcessPool(ctx, cfg.Pool.Processes, pool.ExecSpawner{
		Args: []string{"worker", "--tasks-per-core", fmt.Sprint(cfg.Pool.TasksPerCore)},
	})
	if err != nil {
		return fmt.Errorf("cmd: starting process pool: %w", err)
	}
	defer pp.Close()

	dir := s3.NewDirectoryWith(cfg.S3.Region, cfg.S3.Bucket, cfg.S3.Prefix, credentialsOrEmpty())
	dir.Endpoint = cfg.S3.Endpoint

	partitions, err := dir.Partitions(ctx)
	if err != nil {
		return fmt.Errorf("cmd: listing partitions: %w", err)
	}

	log := logging.Global().WithField("bucket", cfg.S3.Bucket).WithField("prefix", cfg.S3.Prefix)
	log.Infof("listed %d partitions", len(partitions))

	for _, part := range partitions {
		sp, ok := part.(s3.Partition)
		if !ok {
			continue
		}
		length, err := pool.Spawn[uint64](ctx, pp, "pageLength", pageLengthArg{
			Region:   sp.Region,
			Bucket:   sp.Bucket,
			Key:      sp.Key,
			Endpoint: sp.Endpoint,
		})
		if err != nil {
			log.WithError(err).WithField("key", sp.Key).Error("pageLength dispatch failed")
			continue
		}
		log.WithField("key", sp.Key).WithField("length", length).Info("dispatched page")
	}
	return nil
}

func credentialsOrEmpty() s3.Credentials {
	creds, err := s3.CredentialsFromEnvironment()
	if err != nil {
		logging.Global().WithError(err).Warn("no AWS credentials in environment, requests will be unsigned")
		return s3.Credentials{}
	}
	return creds
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GlobalMetricsRegistry, promhttp.HandlerOpts{}))
	logging.Global().WithField("addr", addr).Info("serving /metrics")
	if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
		logging.Global().WithError(err).Error("metrics listener exited")
	}
}
