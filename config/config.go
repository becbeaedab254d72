// Copyright 2018 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package config implements configuration file parsing and validation
// for the pool and source layers, styled after config/config.go's
// ParseConfig/validateAndInjectDefaults shape.
package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the configuration file this module can be started with.
type Config struct {
	Pool   PoolConfig        `yaml:"pool"`
	S3     S3Config          `yaml:"s3"`
	Retry  RetryConfig       `yaml:"retry"`
	Labels map[string]string `yaml:"labels"`
}

// PoolConfig sizes the two-level process/thread pool.
type PoolConfig struct {
	Processes    int `yaml:"processes"`
	TasksPerCore int `yaml:"tasks_per_core"`
}

// S3Config names the bucket/prefix/region an S3 source reads.
type S3Config struct {
	Region   string `yaml:"region"`
	Bucket   string `yaml:"bucket"`
	Prefix   string `yaml:"prefix"`
	Endpoint string `yaml:"endpoint"`
}

// RetryConfig holds the configured retry attempt bound. ParseConfig
// fills in its default, but nothing else in this module reads it: the
// retry package always uses its fixed retry.MaxAttempts.
type RetryConfig struct {
	MaxAttempts int `yaml:"max_attempts"`
}

const (
	defaultProcesses    = 4
	defaultTasksPerCore = 4
	defaultMaxAttempts  = 10
)

// ParseConfig returns a valid Config with defaults injected. The id
// parameter is recorded in the labels map, mirroring config.ParseConfig's
// id-into-labels convention.
func ParseConfig(raw []byte, id string) (*Config, error) {
	var result Config
	if err := yaml.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	result.validateAndInjectDefaults(id)
	return &result, nil
}

func (c *Config) validateAndInjectDefaults(id string) {
	if c.Pool.Processes <= 0 {
		c.Pool.Processes = defaultProcesses
	}
	if c.Pool.TasksPerCore <= 0 {
		c.Pool.TasksPerCore = defaultTasksPerCore
	}
	if c.Retry.MaxAttempts <= 0 {
		c.Retry.MaxAttempts = defaultMaxAttempts
	}
	c.S3.Prefix = strings.TrimPrefix(c.S3.Prefix, "/")

	if c.Labels == nil {
		c.Labels = map[string]string{}
	}
	c.Labels["id"] = id
}
