// Copyright 2016 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package value

import "fmt"

// Value is the uniform, schema-aware element type that flows through
// pipelines: a closed sum over primitive scalars, temporal types,
// Decimal, ByteArray, String, Json, Bson, Enum, Url, Webpage, IpAddr,
// List<Value>, Map<Value,Value>, Group, and Option<Required>.
//
// Value is deliberately a flat (kind, payload) pair rather than one
// Go type per arm: it keeps construction, hashing, equality and
// ordering centralised in one switch per concern instead of scattered
// across N types, which is what the recursive List/Map/Group arms
// need anyway (they hold Value, not some arm-specific type).
type Value struct {
	kind    Kind
	payload any
}

// Kind reports the arm of v.
func (v Value) Kind() Kind { return v.kind }

// List is an ordered sequence of Values; Value owns its elements.
type List []Value

// MapEntry is one key/value pair of a Map, in insertion order. Value
// cannot serve as a Go map key (it may embed slices), so Map is
// represented as an ordered association list rather than a native map.
type MapEntry struct {
	Key Value
	Val Value
}

// Map is an ordered sequence of key/value pairs.
type Map []MapEntry

// Group is a named-field record, the Value-level analogue of a decoded
// row: field names and values are parallel, owned slices.
type Group struct {
	Fields []string
	Values []Value
}

func (g Group) field(name string) (Value, bool) {
	for i, f := range g.Fields {
		if f == name {
			return g.Values[i], true
		}
	}
	return Value{}, false
}

// Field looks up a named field of a Group value; ok is false if v is
// not a Group or has no such field.
func (v Value) Field(name string) (Value, bool) {
	if v.kind != KindGroup {
		return Value{}, false
	}
	return v.payload.(Group).field(name)
}

// Constructors, one per arm.

func Bool(b bool) Value                             { return Value{KindBool, b} }
func U8(x uint8) Value                               { return Value{KindU8, x} }
func I8(x int8) Value                                { return Value{KindI8, x} }
func U16(x uint16) Value                             { return Value{KindU16, x} }
func I16(x int16) Value                              { return Value{KindI16, x} }
func U32(x uint32) Value                             { return Value{KindU32, x} }
func I32(x int32) Value                              { return Value{KindI32, x} }
func U64(x uint64) Value                             { return Value{KindU64, x} }
func I64(x int64) Value                              { return Value{KindI64, x} }
func F32(x float32) Value                            { return Value{KindF32, x} }
func F64(x float64) Value                            { return Value{KindF64, x} }
func DateValue(d Date) Value                         { return Value{KindDate, d} }
func DateWithoutTz(d DateWithoutTimezone) Value       { return Value{KindDateWithoutTimezone, d} }
func TimeValue(t Time) Value                          { return Value{KindTime, t} }
func TimeWithoutTz(t TimeWithoutTimezone) Value        { return Value{KindTimeWithoutTimezone, t} }
func DateTimeValue(d DateTime) Value                  { return Value{KindDateTime, d} }
func DateTimeWithoutTz(d DateTimeWithoutTimezone) Value { return Value{KindDateTimeWithoutTimezone, d} }
func TimezoneValue(t Timezone) Value                  { return Value{KindTimezone, t} }
func DecimalValue(d Decimal) Value                    { return Value{KindDecimal, d} }
func ByteArray(b []byte) Value                        { return Value{KindByteArray, append([]byte(nil), b...)} }
func BsonValue(b Bson) Value                           { return Value{KindBson, append(Bson(nil), b...)} }
func String(s string) Value                            { return Value{KindString, s} }
func JSONValue(j JSON) Value                           { return Value{KindJSON, j} }
func EnumValue(e Enum) Value                           { return Value{KindEnum, e} }
func URLValue(u URL) Value                             { return Value{KindURL, u} }
func WebpageValue(w Webpage) Value                     { return Value{KindWebpage, w} }
func IPAddrValue(ip IPAddr) Value                      { return Value{KindIPAddr, ip} }
func ListValue(l List) Value                           { return Value{KindList, l} }
func MapValue(m Map) Value                             { return Value{KindMap, m} }
func GroupValue(g Group) Value                         { return Value{KindGroup, g} }

// None is the empty Option arm.
func None() Value { return Value{KindOption, (*Required)(nil)} }

// Some wraps a Required value as Option(Some(r)).
func Some(r Required) Value {
	rr := r
	return Value{KindOption, &rr}
}

// IsNone reports whether v is Option(None).
func (v Value) IsNone() bool {
	return v.kind == KindOption && v.payload.(*Required) == nil
}

// IsSome reports whether v is Option(Some(_)).
func (v Value) IsSome() bool {
	return v.kind == KindOption && v.payload.(*Required) != nil
}

func (v Value) String() string {
	return fmt.Sprintf("%s(%v)", v.kind, v.payload)
}
