// Copyright 2016 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package value

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Hash returns a content hash consistent with Equal: arms are tagged
// with their discriminator byte before hashing their payload (ported
// from ValueRequired's manual Hash impl in value_required.rs).
//
// Floating-point arms hash their discriminator only, so that callers
// who canonicalise NaN before calling Equal still see hash(a)==hash(b)
// whenever a==b post-canonicalisation: the payload bits are never
// mixed in, so two distinct float payloads under the same discriminator
// always collide (that's by design, see spec.md §4.1/§8). Map and Group
// likewise hash only their discriminator — content-order-insensitive
// hashing of their elements is left to higher layers.
func (v Value) Hash() uint64 {
	d := xxhash.New()
	_ = d.WriteByte(v.kind.discriminator())
	if v.kind == KindOption {
		opt := v.payload.(*Required)
		if opt == nil {
			_ = d.WriteByte(0)
		} else {
			_ = d.WriteByte(1)
			hashPayload(d, opt.kind, opt.payload)
		}
		return d.Sum64()
	}
	hashPayload(d, v.kind, v.payload)
	return d.Sum64()
}

// Hash hashes a Required the same way Value.Hash hashes its payload,
// via the shared discriminator table (Required never carries Option).
func (r Required) Hash() uint64 {
	d := xxhash.New()
	_ = d.WriteByte(r.kind.discriminator())
	hashPayload(d, r.kind, r.payload)
	return d.Sum64()
}

// hashPayload mixes a kind's payload into d. Floating-point, Map and
// Group arms contribute nothing beyond the discriminator already
// written by the caller: floats so NaN-canonicalising callers keep
// hash/eq consistent (see Hash doc comment), Map/Group because their
// content-order-insensitive hashing is deferred to higher layers.
func hashPayload(d *xxhash.Digest, k Kind, payload any) {
	var buf [8]byte
	switch k {
	case KindF32, KindF64, KindMap, KindGroup:
		return
	case KindBool:
		b := payload.(bool)
		if b {
			_, _ = d.Write([]byte{1})
		} else {
			_, _ = d.Write([]byte{0})
		}
	case KindU8:
		_, _ = d.Write([]byte{payload.(uint8)})
	case KindI8:
		_, _ = d.Write([]byte{byte(payload.(int8))})
	case KindU16:
		binary.LittleEndian.PutUint16(buf[:2], payload.(uint16))
		_, _ = d.Write(buf[:2])
	case KindI16:
		binary.LittleEndian.PutUint16(buf[:2], uint16(payload.(int16)))
		_, _ = d.Write(buf[:2])
	case KindU32:
		binary.LittleEndian.PutUint32(buf[:4], payload.(uint32))
		_, _ = d.Write(buf[:4])
	case KindI32:
		binary.LittleEndian.PutUint32(buf[:4], uint32(payload.(int32)))
		_, _ = d.Write(buf[:4])
	case KindU64:
		binary.LittleEndian.PutUint64(buf[:8], payload.(uint64))
		_, _ = d.Write(buf[:8])
	case KindI64:
		binary.LittleEndian.PutUint64(buf[:8], uint64(payload.(int64)))
		_, _ = d.Write(buf[:8])
	case KindDate:
		v := payload.(Date)
		binary.LittleEndian.PutUint32(buf[:4], uint32(v.Days))
		_, _ = d.Write(buf[:4])
	case KindDateWithoutTimezone:
		v := payload.(DateWithoutTimezone)
		binary.LittleEndian.PutUint32(buf[:4], uint32(v.Days))
		_, _ = d.Write(buf[:4])
	case KindTime:
		v := payload.(Time)
		binary.LittleEndian.PutUint64(buf[:8], uint64(v.Micros))
		_, _ = d.Write(buf[:8])
		_, _ = d.WriteString(v.Tz)
	case KindTimeWithoutTimezone:
		v := payload.(TimeWithoutTimezone)
		binary.LittleEndian.PutUint64(buf[:8], uint64(v.Micros))
		_, _ = d.Write(buf[:8])
	case KindDateTime:
		v := payload.(DateTime)
		binary.LittleEndian.PutUint64(buf[:8], uint64(v.Millis))
		_, _ = d.Write(buf[:8])
		_, _ = d.WriteString(v.Tz)
	case KindDateTimeWithoutTimezone:
		v := payload.(DateTimeWithoutTimezone)
		binary.LittleEndian.PutUint64(buf[:8], uint64(v.Millis))
		_, _ = d.Write(buf[:8])
	case KindTimezone:
		v := payload.(Timezone)
		_, _ = d.WriteString(v.Name)
	case KindDecimal:
		dec := payload.(Decimal)
		_, _ = d.Write(dec.Unscaled)
		binary.LittleEndian.PutUint32(buf[:4], uint32(dec.Scale))
		_, _ = d.Write(buf[:4])
	case KindByteArray:
		_, _ = d.Write(payload.([]byte))
	case KindBson:
		_, _ = d.Write(payload.(Bson))
	case KindString:
		_, _ = d.WriteString(payload.(string))
	case KindJSON:
		_, _ = d.WriteString(string(payload.(JSON)))
	case KindEnum:
		_, _ = d.WriteString(string(payload.(Enum)))
	case KindURL:
		u := payload.(URL)
		if u.URL != nil {
			_, _ = d.WriteString(u.URL.String())
		}
	case KindWebpage:
		w := payload.(Webpage)
		_, _ = d.Write(w.Contents)
	case KindIPAddr:
		ip := payload.(IPAddr)
		_, _ = d.Write(ip.IP)
	case KindList:
		for _, elem := range payload.(List) {
			binary.LittleEndian.PutUint64(buf[:8], elem.Hash())
			_, _ = d.Write(buf[:8])
		}
	}
}

// EqualNaNCollapsed compares two F32/F64 payloads treating all NaN bit
// patterns as equal to each other, for callers who opt into NaN
// collapsing per spec.md §4.1 ("at the caller's discretion").
func EqualNaNCollapsed(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindF32:
		af, bf := a.payload.(float32), b.payload.(float32)
		if math.IsNaN(float64(af)) && math.IsNaN(float64(bf)) {
			return true
		}
		return af == bf
	case KindF64:
		af, bf := a.payload.(float64), b.payload.(float64)
		if math.IsNaN(af) && math.IsNaN(bf) {
			return true
		}
		return af == bf
	default:
		return a.Equal(b)
	}
}
