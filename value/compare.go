// Copyright 2016 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package value

import (
	"bytes"
	"net/url"
)

type urlType = url.URL

// Ordering is the result of a same-arm comparison.
type Ordering int

const (
	Less Ordering = iota - 1
	Equal
	Greater
)

// Equal is structural equality on all arms, comparing floats by
// default IEEE semantics (so NaN != NaN), per spec.md §4.1. Use
// EqualNaNCollapsed when the caller wants to treat all NaNs as equal.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindOption:
		av := v.payload.(*Required)
		bv := other.payload.(*Required)
		if av == nil || bv == nil {
			return av == nil && bv == nil
		}
		return av.Equal(*bv)
	default:
		r1 := Required{kind: v.kind, payload: v.payload}
		r2 := Required{kind: other.kind, payload: other.payload}
		return r1.Equal(r2)
	}
}

// Equal is structural equality on a Required's payload.
func (r Required) Equal(other Required) bool {
	if r.kind != other.kind {
		return false
	}
	switch r.kind {
	case KindDecimal:
		d1, d2 := r.payload.(Decimal), other.payload.(Decimal)
		return d1.Scale == d2.Scale && bytes.Equal(d1.Unscaled, d2.Unscaled)
	case KindByteArray:
		return bytes.Equal(r.payload.([]byte), other.payload.([]byte))
	case KindBson:
		return bytes.Equal(r.payload.(Bson), other.payload.(Bson))
	case KindURL:
		u1, u2 := r.payload.(URL), other.payload.(URL)
		return urlString(u1) == urlString(u2)
	case KindIPAddr:
		return r.payload.(IPAddr).IP.Equal(other.payload.(IPAddr).IP)
	case KindWebpage:
		w1, w2 := r.payload.(Webpage), other.payload.(Webpage)
		return w1.IP.Equal(w2.IP) && urlPtrStr(w1.URL) == urlPtrStr(w2.URL) && bytes.Equal(w1.Contents, w2.Contents)
	case KindList:
		l1, l2 := r.payload.(List), other.payload.(List)
		if len(l1) != len(l2) {
			return false
		}
		for i := range l1 {
			if !l1[i].Equal(l2[i]) {
				return false
			}
		}
		return true
	case KindMap:
		m1, m2 := r.payload.(Map), other.payload.(Map)
		if len(m1) != len(m2) {
			return false
		}
		for i := range m1 {
			if !m1[i].Key.Equal(m2[i].Key) || !m1[i].Val.Equal(m2[i].Val) {
				return false
			}
		}
		return true
	case KindGroup:
		g1, g2 := r.payload.(Group), other.payload.(Group)
		if len(g1.Fields) != len(g2.Fields) {
			return false
		}
		for i := range g1.Fields {
			if g1.Fields[i] != g2.Fields[i] || !g1.Values[i].Equal(g2.Values[i]) {
				return false
			}
		}
		return true
	default:
		return r.payload == other.payload
	}
}

func urlString(u URL) string {
	if u.URL == nil {
		return ""
	}
	return u.URL.String()
}

func urlPtrStr(u *urlType) string {
	if u == nil {
		return ""
	}
	return u.String()
}

// Compare returns the partial order between two values of the same
// arm; ok is false for cross-arm comparisons and for Map, both of
// which are "no order" per spec.md §4.1. Only Bool, the integer and
// float arms, String, ByteArray, the Date/Time/DateTime arms and List
// are ordered; ok is also false for Timezone, Decimal, Bson, Json,
// Enum, Url, Webpage, IpAddr, Group and Option, and for a List whose
// compared elements have no order.
func (v Value) Compare(other Value) (Ordering, bool) {
	if v.kind != other.kind {
		return Equal, false
	}
	r1 := Required{kind: v.kind, payload: v.payload}
	r2 := Required{kind: other.kind, payload: other.payload}
	return r1.Compare(r2)
}

// Compare is the Required-level analogue of Value.Compare.
func (r Required) Compare(other Required) (Ordering, bool) {
	if r.kind != other.kind {
		return Equal, false
	}
	switch r.kind {
	case KindBool:
		return cmpBool(r.payload.(bool), other.payload.(bool)), true
	case KindU8:
		return cmpOrdered(r.payload.(uint8), other.payload.(uint8)), true
	case KindI8:
		return cmpOrdered(r.payload.(int8), other.payload.(int8)), true
	case KindU16:
		return cmpOrdered(r.payload.(uint16), other.payload.(uint16)), true
	case KindI16:
		return cmpOrdered(r.payload.(int16), other.payload.(int16)), true
	case KindU32:
		return cmpOrdered(r.payload.(uint32), other.payload.(uint32)), true
	case KindI32:
		return cmpOrdered(r.payload.(int32), other.payload.(int32)), true
	case KindU64:
		return cmpOrdered(r.payload.(uint64), other.payload.(uint64)), true
	case KindI64:
		return cmpOrdered(r.payload.(int64), other.payload.(int64)), true
	case KindF32:
		return cmpOrdered(r.payload.(float32), other.payload.(float32)), true
	case KindF64:
		return cmpOrdered(r.payload.(float64), other.payload.(float64)), true
	case KindString:
		return cmpOrdered(r.payload.(string), other.payload.(string)), true
	case KindByteArray:
		return Ordering(bytes.Compare(r.payload.([]byte), other.payload.([]byte))), true
	case KindDate:
		return cmpOrdered(r.payload.(Date).Days, other.payload.(Date).Days), true
	case KindDateWithoutTimezone:
		return cmpOrdered(r.payload.(DateWithoutTimezone).Days, other.payload.(DateWithoutTimezone).Days), true
	case KindTime:
		return cmpOrdered(r.payload.(Time).Micros, other.payload.(Time).Micros), true
	case KindTimeWithoutTimezone:
		return cmpOrdered(r.payload.(TimeWithoutTimezone).Micros, other.payload.(TimeWithoutTimezone).Micros), true
	case KindDateTime:
		return cmpOrdered(r.payload.(DateTime).Millis, other.payload.(DateTime).Millis), true
	case KindDateTimeWithoutTimezone:
		return cmpOrdered(r.payload.(DateTimeWithoutTimezone).Millis, other.payload.(DateTimeWithoutTimezone).Millis), true
	case KindList:
		l1, l2 := r.payload.(List), other.payload.(List)
		n := len(l1)
		if len(l2) < n {
			n = len(l2)
		}
		for i := 0; i < n; i++ {
			ord, ok := l1[i].Compare(l2[i])
			if !ok {
				return Equal, false
			}
			if ord != Equal {
				return ord, true
			}
		}
		return cmpOrdered(len(l1), len(l2)), true
	case KindMap:
		// Map comparisons are undefined, per spec.md §4.1.
		return Equal, false
	default:
		return Equal, false
	}
}

func cmpBool(a, b bool) Ordering {
	if a == b {
		return Equal
	}
	if !a && b {
		return Less
	}
	return Greater
}

type ordered interface {
	~uint8 | ~int8 | ~uint16 | ~int16 | ~uint32 | ~int32 | ~uint64 | ~int64 | ~float32 | ~float64 | ~string | ~int
}

func cmpOrdered[T ordered](a, b T) Ordering {
	switch {
	case a < b:
		return Less
	case a > b:
		return Greater
	default:
		return Equal
	}
}
