// Copyright 2016 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package value

import "testing"

func TestFieldLookup(t *testing.T) {
	g := GroupValue(Group{
		Fields: []string{"id", "name"},
		Values: []Value{I64(7), String("bob")},
	})

	v, ok := g.Field("name")
	if !ok || !v.Equal(String("bob")) {
		t.Fatalf("Field(name) = %v, %v", v, ok)
	}

	if _, ok := g.Field("missing"); ok {
		t.Fatalf("Field(missing) should not be found")
	}

	if _, ok := I64(1).Field("id"); ok {
		t.Fatalf("Field on a non-Group value should fail")
	}
}

func TestOptionRoundTrip(t *testing.T) {
	// Option(ToOption(v)).map(ToValue) == v for every v that isn't
	// Option(None).
	cases := []Value{
		I64(42),
		String("hi"),
		Bool(true),
		ListValue(List{I64(1), I64(2)}),
		Some(ReqI64(9)),
	}
	for _, v := range cases {
		req, ok := v.ToOption()
		if !ok {
			t.Fatalf("ToOption(%v) unexpectedly reported no value", v)
		}
		if got := FromOption(req); !got.Equal(v) {
			t.Errorf("round trip of %v produced %v", v, got)
		}
	}
}

func TestOptionNoneIsTheOnlyFailure(t *testing.T) {
	if _, ok := None().ToOption(); ok {
		t.Fatalf("ToOption(None()) should report false")
	}
	if _, ok := Some(ReqBool(true)).ToOption(); !ok {
		t.Fatalf("ToOption(Some(...)) should report true")
	}
}

func TestIsNoneIsSome(t *testing.T) {
	if !None().IsNone() {
		t.Fatalf("None().IsNone() should be true")
	}
	if None().IsSome() {
		t.Fatalf("None().IsSome() should be false")
	}
	some := Some(ReqI64(1))
	if some.IsNone() {
		t.Fatalf("Some(...).IsNone() should be false")
	}
	if !some.IsSome() {
		t.Fatalf("Some(...).IsSome() should be true")
	}
}
