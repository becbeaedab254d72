// Copyright 2016 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package value

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"net"
	"net/url"
)

// wireValue is the self-describing on-the-wire shape every Value
// round-trips through: one tagged struct with a field per arm,
// gob-encoded. gob already self-describes field types, so this
// wrapper only needs to pick which fields are meaningful for a given
// Kind; unused fields are left zero and cost nothing on the wire.
type wireValue struct {
	Kind Kind

	Bool bool
	U8   uint8
	I8   int8
	U16  uint16
	I16  int16
	U32  uint32
	I32  int32
	U64  uint64
	I64  int64
	F32  float32
	F64  float64

	Date              Date
	DateWithoutTz     DateWithoutTimezone
	Time              Time
	TimeWithoutTz     TimeWithoutTimezone
	DateTime          DateTime
	DateTimeWithoutTz DateTimeWithoutTimezone
	Timezone          Timezone

	DecimalUnscaled []byte
	DecimalScale    int32

	ByteArray []byte
	Bson      []byte
	Str       string
	JSON      string
	Enum      string

	URL string

	WebpageIP       []byte
	WebpageURL      string
	WebpageContents []byte

	IPAddr []byte

	List []wireValue

	MapKeys []wireValue
	MapVals []wireValue

	GroupFields []string
	GroupValues []wireValue

	OptionSome  bool
	OptionInner *wireValue
}

func init() {
	gob.Register(wireValue{})
}

// MarshalBinary implements encoding.BinaryMarshaler: every Value
// round-trips through this self-describing codec, per spec.md §4.1.
func (v Value) MarshalBinary() ([]byte, error) {
	w := toWire(v)
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&w); err != nil {
		return nil, fmt.Errorf("value: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (v *Value) UnmarshalBinary(data []byte) error {
	var w wireValue
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&w); err != nil {
		return fmt.Errorf("value: decode: %w", err)
	}
	*v = fromWire(w)
	return nil
}

// MarshalBinary serialises a Required as its lifted Value, per
// spec.md §4.1 ("Required is serialised as its lifted Value").
func (r Required) MarshalBinary() ([]byte, error) {
	return r.ToValue().MarshalBinary()
}

// UnmarshalBinary is the inverse of MarshalBinary. A Some(_) payload
// unwraps transparently (a Required can never itself carry Option);
// only a bare Option(None) has no Required to decode into.
func (r *Required) UnmarshalBinary(data []byte) error {
	var v Value
	if err := v.UnmarshalBinary(data); err != nil {
		return err
	}
	req, ok := v.ToOption()
	if !ok {
		return fmt.Errorf("value: decoded Option(None), which has no Required to decode into")
	}
	*r = req
	return nil
}

func toWire(v Value) wireValue {
	w := wireValue{Kind: v.kind}
	if v.kind == KindOption {
		opt := v.payload.(*Required)
		if opt != nil {
			w.OptionSome = true
			inner := toWire(opt.ToValue())
			w.OptionInner = &inner
		}
		return w
	}
	fillWirePayload(&w, v.kind, v.payload)
	return w
}

func fillWirePayload(w *wireValue, k Kind, payload any) {
	switch k {
	case KindBool:
		w.Bool = payload.(bool)
	case KindU8:
		w.U8 = payload.(uint8)
	case KindI8:
		w.I8 = payload.(int8)
	case KindU16:
		w.U16 = payload.(uint16)
	case KindI16:
		w.I16 = payload.(int16)
	case KindU32:
		w.U32 = payload.(uint32)
	case KindI32:
		w.I32 = payload.(int32)
	case KindU64:
		w.U64 = payload.(uint64)
	case KindI64:
		w.I64 = payload.(int64)
	case KindF32:
		w.F32 = payload.(float32)
	case KindF64:
		w.F64 = payload.(float64)
	case KindDate:
		w.Date = payload.(Date)
	case KindDateWithoutTimezone:
		w.DateWithoutTz = payload.(DateWithoutTimezone)
	case KindTime:
		w.Time = payload.(Time)
	case KindTimeWithoutTimezone:
		w.TimeWithoutTz = payload.(TimeWithoutTimezone)
	case KindDateTime:
		w.DateTime = payload.(DateTime)
	case KindDateTimeWithoutTimezone:
		w.DateTimeWithoutTz = payload.(DateTimeWithoutTimezone)
	case KindTimezone:
		w.Timezone = payload.(Timezone)
	case KindDecimal:
		d := payload.(Decimal)
		w.DecimalUnscaled = d.Unscaled
		w.DecimalScale = d.Scale
	case KindByteArray:
		w.ByteArray = payload.([]byte)
	case KindBson:
		w.Bson = payload.(Bson)
	case KindString:
		w.Str = payload.(string)
	case KindJSON:
		w.JSON = string(payload.(JSON))
	case KindEnum:
		w.Enum = string(payload.(Enum))
	case KindURL:
		u := payload.(URL)
		if u.URL != nil {
			w.URL = u.URL.String()
		}
	case KindWebpage:
		wp := payload.(Webpage)
		w.WebpageIP = wp.IP
		if wp.URL != nil {
			w.WebpageURL = wp.URL.String()
		}
		w.WebpageContents = wp.Contents
	case KindIPAddr:
		w.IPAddr = payload.(IPAddr).IP
	case KindList:
		l := payload.(List)
		w.List = make([]wireValue, len(l))
		for i, elem := range l {
			w.List[i] = toWire(elem)
		}
	case KindMap:
		m := payload.(Map)
		w.MapKeys = make([]wireValue, len(m))
		w.MapVals = make([]wireValue, len(m))
		for i, e := range m {
			w.MapKeys[i] = toWire(e.Key)
			w.MapVals[i] = toWire(e.Val)
		}
	case KindGroup:
		g := payload.(Group)
		w.GroupFields = g.Fields
		w.GroupValues = make([]wireValue, len(g.Values))
		for i, elem := range g.Values {
			w.GroupValues[i] = toWire(elem)
		}
	}
}

func fromWire(w wireValue) Value {
	if w.Kind == KindOption {
		if !w.OptionSome || w.OptionInner == nil {
			return None()
		}
		inner := fromWire(*w.OptionInner)
		req, _ := inner.ToOption()
		return Some(req)
	}
	return Required{kind: w.Kind, payload: wirePayload(w)}.ToValue()
}

func wirePayload(w wireValue) any {
	switch w.Kind {
	case KindBool:
		return w.Bool
	case KindU8:
		return w.U8
	case KindI8:
		return w.I8
	case KindU16:
		return w.U16
	case KindI16:
		return w.I16
	case KindU32:
		return w.U32
	case KindI32:
		return w.I32
	case KindU64:
		return w.U64
	case KindI64:
		return w.I64
	case KindF32:
		return w.F32
	case KindF64:
		return w.F64
	case KindDate:
		return w.Date
	case KindDateWithoutTimezone:
		return w.DateWithoutTz
	case KindTime:
		return w.Time
	case KindTimeWithoutTimezone:
		return w.TimeWithoutTz
	case KindDateTime:
		return w.DateTime
	case KindDateTimeWithoutTimezone:
		return w.DateTimeWithoutTz
	case KindTimezone:
		return w.Timezone
	case KindDecimal:
		return Decimal{Unscaled: w.DecimalUnscaled, Scale: w.DecimalScale}
	case KindByteArray:
		return w.ByteArray
	case KindBson:
		return Bson(w.Bson)
	case KindString:
		return w.Str
	case KindJSON:
		return JSON(w.JSON)
	case KindEnum:
		return Enum(w.Enum)
	case KindURL:
		u, _ := url.Parse(w.URL)
		return URL{u}
	case KindWebpage:
		u, _ := url.Parse(w.WebpageURL)
		return Webpage{IP: net.IP(w.WebpageIP), URL: u, Contents: w.WebpageContents}
	case KindIPAddr:
		return IPAddr{net.IP(w.IPAddr)}
	case KindList:
		l := make(List, len(w.List))
		for i, elem := range w.List {
			l[i] = fromWire(elem)
		}
		return l
	case KindMap:
		m := make(Map, len(w.MapKeys))
		for i := range w.MapKeys {
			m[i] = MapEntry{Key: fromWire(w.MapKeys[i]), Val: fromWire(w.MapVals[i])}
		}
		return m
	case KindGroup:
		vals := make([]Value, len(w.GroupValues))
		for i, elem := range w.GroupValues {
			vals[i] = fromWire(elem)
		}
		return Group{Fields: w.GroupFields, Values: vals}
	default:
		return nil
	}
}
