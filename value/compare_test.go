// Copyright 2016 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package value

import "testing"

func TestEqualCrossArmIsFalse(t *testing.T) {
	if I64(1).Equal(U64(1)) {
		t.Fatalf("values of different kinds must never be equal")
	}
}

func TestEqualSameArm(t *testing.T) {
	if !String("abc").Equal(String("abc")) {
		t.Fatalf("identical strings must be equal")
	}
	if String("abc").Equal(String("abd")) {
		t.Fatalf("distinct strings must not be equal")
	}
}

func TestEqualNaN(t *testing.T) {
	nan := F64(nan64())
	if nan.Equal(nan) {
		t.Fatalf("default Equal must follow IEEE 754 semantics: NaN != NaN")
	}
	if !EqualNaNCollapsed(nan, nan) {
		t.Fatalf("EqualNaNCollapsed must treat NaN as equal to itself")
	}
}

func nan64() float64 {
	var zero float64
	return zero / zero
}

func TestCompareTotalWithinArm(t *testing.T) {
	one, two, three := I64(1), I64(2), I64(3)

	if ord, ok := three.Compare(one); !ok || ord != Greater {
		t.Fatalf("I64(3).Compare(I64(1)) = %v, %v; want Greater, true", ord, ok)
	}
	if ord, ok := one.Compare(three); !ok || ord != Less {
		t.Fatalf("I64(1).Compare(I64(3)) = %v, %v; want Less, true", ord, ok)
	}
	if ord, ok := two.Compare(two); !ok || ord != Equal {
		t.Fatalf("I64(2).Compare(I64(2)) = %v, %v; want Equal, true", ord, ok)
	}
}

func TestCompareCrossArmHasNoOrder(t *testing.T) {
	if _, ok := I64(1).Compare(U64(1)); ok {
		t.Fatalf("cross-arm comparisons must report no order")
	}
}

func TestCompareMapHasNoOrder(t *testing.T) {
	m := MapValue(Map{{Key: String("a"), Val: I64(1)}})
	if _, ok := m.Compare(m); ok {
		t.Fatalf("Map comparisons must report no order, even against itself")
	}
}

func TestCompareListLexicographic(t *testing.T) {
	short := ListValue(List{I64(1)})
	long := ListValue(List{I64(1), I64(2)})
	ord, ok := short.Compare(long)
	if !ok || ord != Less {
		t.Fatalf("a prefix list must order Less than its extension, got %v, %v", ord, ok)
	}
}

func TestDecimalEqualityDoesNotPanic(t *testing.T) {
	// Decimal's payload contains a slice, so the naive interface '=='
	// used by the fallback default case would panic; KindDecimal must
	// be special-cased.
	a := DecimalValue(Decimal{Unscaled: []byte{1, 2, 3}, Scale: 2})
	b := DecimalValue(Decimal{Unscaled: []byte{1, 2, 3}, Scale: 2})
	if !a.Equal(b) {
		t.Fatalf("equal decimals should compare equal")
	}
	c := DecimalValue(Decimal{Unscaled: []byte{1, 2, 4}, Scale: 2})
	if a.Equal(c) {
		t.Fatalf("distinct decimals should not compare equal")
	}
}
