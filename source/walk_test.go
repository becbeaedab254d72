// Copyright 2016 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package source

import (
	"reflect"
	"testing"
)

func TestWalkBasicListing(t *testing.T) {
	// a/b/c, a/d — predicate rejects the ancestor directory a/b;
	// expect only a/d to survive, a/b/c must never be visited.
	objects := []ListedObject{
		{Key: "a/b/c", Size: 1},
		{Key: "a/d", Size: 1},
	}

	var seen []string
	f := func(p *PathBuf) bool {
		seen = append(seen, p.String())
		return p.String() != "a/b"
	}

	got, err := Walk(objects, f, func(o ListedObject) string { return o.Key })
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	want := []string{"a/d"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Walk = %v, want %v", got, want)
	}
	for _, k := range seen {
		if k == "a/b/c" {
			t.Fatalf("predicate must not see a/b/c once its ancestor a/b was rejected; saw %v", seen)
		}
	}
}

func TestWalkVisitsAncestorsOncePerSubtree(t *testing.T) {
	objects := []ListedObject{
		{Key: "a/b/c", Size: 1},
		{Key: "a/b/d", Size: 1},
	}
	counts := map[string]int{}
	f := func(p *PathBuf) bool {
		counts[p.String()]++
		return true
	}
	got, err := Walk(objects, f, func(o ListedObject) string { return o.Key })
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected both leaves kept, got %v", got)
	}
	if counts["a"] != 1 || counts["a/b"] != 1 {
		t.Fatalf("ancestor a and a/b must each be visited exactly once, got %v", counts)
	}
	if counts["a/b/c"] != 1 || counts["a/b/d"] != 1 {
		t.Fatalf("each leaf must be visited exactly once, got %v", counts)
	}
}

func TestWalkRejectsOutOfOrderKeys(t *testing.T) {
	objects := []ListedObject{
		{Key: "b", Size: 1},
		{Key: "a", Size: 1},
	}
	_, err := Walk(objects, func(*PathBuf) bool { return true }, func(o ListedObject) string { return o.Key })
	if err == nil {
		t.Fatalf("expected a ListingContractViolation for out-of-order keys")
	}
}

func TestWalkRejectsDuplicateKeys(t *testing.T) {
	objects := []ListedObject{
		{Key: "a", Size: 1},
		{Key: "a", Size: 1},
	}
	_, err := Walk(objects, func(*PathBuf) bool { return true }, func(o ListedObject) string { return o.Key })
	if err == nil {
		t.Fatalf("strict ordering requires distinct keys; duplicates must fail")
	}
}
