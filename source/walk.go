// Copyright 2016 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package source

import (
	"strings"

	"github.com/nixar0x0/amadeus/errs"
)

// Walk runs the partitions_filter cursor-walk described in spec.md
// §4.2 over objects already stripped to prefix-relative keys, in the
// order the underlying listing returned them. make is called once per
// surviving leaf key to build the caller's Partition type.
//
// Ported from amadeus-aws/src/file.rs's Directory::partitions_filter:
// objects must arrive in strict UTF-8 lexicographic order by key, or
// the walk fails with errs.ListingContractViolation.
func Walk[P any](objects []ListedObject, f FilterFunc, make_ func(ListedObject) P) ([]P, error) {
	var (
		cursor  PathBuf
		skip    bool
		lastKey string
		haveKey bool
		out     []P
	)

	for _, obj := range objects {
		if haveKey && !(lastKey < obj.Key) {
			return nil, errs.New(errs.ListingContractViolation,
				"object store did not return keys in strict UTF-8 lexicographic order: %q then %q", lastKey, obj.Key)
		}
		lastKey = obj.Key
		haveKey = true

		parts := strings.Split(obj.Key, "/")
		fileName := parts[len(parts)-1]
		dirParts := parts[:len(parts)-1]

		skip = skip && len(dirParts) >= cursor.Depth() && cursor.HasPrefix(dirParts[:cursor.Depth()])
		if skip {
			continue
		}

		for cursor.Depth() > len(dirParts) || (cursor.Depth() > 0 && cursor.Last() != dirParts[cursor.Depth()-1]) {
			cursor.Pop()
		}

		rejected := false
		for len(dirParts) > cursor.Depth() {
			cursor.Push(dirParts[cursor.Depth()])
			if !f(&cursor) {
				skip = true
				rejected = true
				break
			}
		}
		if rejected {
			continue
		}

		cursor.SetFileName(fileName, true)
		keep := f(&cursor)
		cursor.SetFileName("", false)

		if keep {
			out = append(out, make_(obj))
		}
	}
	return out, nil
}
