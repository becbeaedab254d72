// Copyright 2016 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package s3 implements the object-store listing and page contracts
// of spec.md §4.2 against AWS S3: request signing, retrying reads and
// a directory walk, grounded on amadeus-aws/src/file.rs and, for
// SigV4 signing, plugins/rest/aws.go's signV4.
package s3

import (
	"errors"
	"os"
)

// Credentials are an S3 access key pair plus an optional session
// token, cloned per partition/page rather than shared, per spec.md
// §5 ("Credentials and region config are cloned per partition/page to
// avoid shared mutable state").
type Credentials struct {
	AccessKey     string
	SecretKey     string
	SessionToken  string
}

const (
	accessKeyEnvVar = "AWS_ACCESS_KEY_ID"
	secretKeyEnvVar = "AWS_SECRET_ACCESS_KEY"
	sessionTokenEnvVar = "AWS_SESSION_TOKEN"
)

// CredentialsFromEnvironment reads the standard AWS CLI environment
// variables, the same set plugins/rest/aws.go's
// awsEnvironmentCredentialService reads.
func CredentialsFromEnvironment() (Credentials, error) {
	ak := os.Getenv(accessKeyEnvVar)
	sk := os.Getenv(secretKeyEnvVar)
	if ak == "" {
		return Credentials{}, errors.New("s3: no " + accessKeyEnvVar + " set in environment")
	}
	if sk == "" {
		return Credentials{}, errors.New("s3: no " + secretKeyEnvVar + " set in environment")
	}
	return Credentials{AccessKey: ak, SecretKey: sk, SessionToken: os.Getenv(sessionTokenEnvVar)}, nil
}

// Clone returns an independent copy; Credentials holds only value
// fields, so this is a plain copy, but it keeps call sites explicit
// about the per-partition cloning contract.
func (c Credentials) Clone() Credentials { return c }
