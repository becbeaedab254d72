// Copyright 2016 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package source

import "context"

// Page is an addressable byte blob with an immutable length,
// established once on open (e.g. via a HEAD-equivalent probe).
type Page interface {
	// Len returns the page's fixed byte length.
	Len(ctx context.Context) (uint64, error)
	// Read returns exactly min(len, Len()-offset) bytes, retrying
	// short transport reads internally until the buffer is filled or
	// a fatal error occurs.
	Read(ctx context.Context, offset uint64, len int) ([]byte, error)
	// Write is deferred; it always returns errs.Unsupported until a
	// write contract is specified (spec.md §9 "Write path").
	Write(ctx context.Context, offset uint64, buf []byte) error
}

// Partition exposes one or more Pages: a single page for whole-object
// sources, many for format-split sources.
type Partition interface {
	Pages(ctx context.Context) ([]Page, error)
}

// File exposes one or more Partitions.
type File interface {
	Partitions(ctx context.Context) ([]Partition, error)
}

// FilterFunc is called once per ancestor directory path (without a
// file name) and once per leaf path (with a file name), in listing
// order; returning false rejects that path and, for an ancestor,
// every path beneath it.
type FilterFunc func(p *PathBuf) bool

// Directory enumerates the Partitions beneath a prefix, optionally
// filtered by an evolving-path predicate.
type Directory interface {
	File
	PartitionsFilter(ctx context.Context, f FilterFunc) ([]Partition, error)
}

// ListedObject is one row of an object-store listing: a key under the
// directory's prefix (already stripped of the prefix) with a
// non-negative size, per spec.md §6's object-store listing contract.
type ListedObject struct {
	Key  string
	Size uint64
}
