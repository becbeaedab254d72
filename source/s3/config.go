// Copyright 2016 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package s3

// NewDirectory builds a Directory over bucket/prefix in region, reading
// credentials from the environment, mirroring amadeus-aws's
// S3Directory::new.
func NewDirectory(region, bucket, prefix string) (Directory, error) {
	creds, err := CredentialsFromEnvironment()
	if err != nil {
		return Directory{}, err
	}
	return NewDirectoryWith(region, bucket, prefix, creds), nil
}

// NewDirectoryWith builds a Directory with explicit credentials,
// mirroring amadeus-aws's S3Directory::new_with.
func NewDirectoryWith(region, bucket, prefix string, creds Credentials) Directory {
	return Directory{Region: region, Bucket: bucket, Prefix: prefix, Credentials: creds}
}

// NewPartition builds a single-object Partition, reading credentials
// from the environment, mirroring amadeus-aws's S3File::new used as a
// single-partition File.
func NewPartition(region, bucket, key string) (Partition, error) {
	creds, err := CredentialsFromEnvironment()
	if err != nil {
		return Partition{}, err
	}
	return NewPartitionWith(region, bucket, key, creds), nil
}

// NewPartitionWith builds a single-object Partition with explicit
// credentials. Len is left at zero; Page.Len probes it lazily via HEAD.
func NewPartitionWith(region, bucket, key string, creds Credentials) Partition {
	return Partition{Region: region, Bucket: bucket, Key: key, Credentials: creds}
}
