// Copyright 2016 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package s3

import "testing"

func TestCredentialsFromEnvironmentRequiresAccessKey(t *testing.T) {
	t.Setenv(accessKeyEnvVar, "")
	t.Setenv(secretKeyEnvVar, "secret")
	if _, err := CredentialsFromEnvironment(); err == nil {
		t.Fatalf("expected an error with no access key set")
	}
}

func TestCredentialsFromEnvironmentRequiresSecretKey(t *testing.T) {
	t.Setenv(accessKeyEnvVar, "AKIDEXAMPLE")
	t.Setenv(secretKeyEnvVar, "")
	if _, err := CredentialsFromEnvironment(); err == nil {
		t.Fatalf("expected an error with no secret key set")
	}
}

func TestCredentialsFromEnvironmentReadsAllThreeVars(t *testing.T) {
	t.Setenv(accessKeyEnvVar, "AKIDEXAMPLE")
	t.Setenv(secretKeyEnvVar, "secret")
	t.Setenv(sessionTokenEnvVar, "token")

	creds, err := CredentialsFromEnvironment()
	if err != nil {
		t.Fatalf("CredentialsFromEnvironment: %v", err)
	}
	if creds.AccessKey != "AKIDEXAMPLE" || creds.SecretKey != "secret" || creds.SessionToken != "token" {
		t.Fatalf("unexpected credentials: %+v", creds)
	}
}
