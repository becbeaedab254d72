// Copyright 2016 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package value implements the dynamic, schema-aware record value that
// flows between pipeline stages: a closed but wide sum type over
// primitive scalars, temporal types, and the recursive List/Map/Group/
// Option shapes, plus the non-recursive Required variant used to break
// the Value/Option cycle.
package value

// Kind tags the arm of a Value or Required.
type Kind uint8

const (
	KindBool Kind = iota
	KindU8
	KindI8
	KindU16
	KindI16
	KindU32
	KindI32
	KindU64
	KindI64
	KindF32
	KindF64
	KindDate
	KindDateWithoutTimezone
	KindTime
	KindTimeWithoutTimezone
	KindDateTime
	KindDateTimeWithoutTimezone
	KindTimezone
	KindDecimal
	KindByteArray
	KindBson
	KindString
	KindJSON
	KindEnum
	KindURL
	KindWebpage
	KindIPAddr
	KindList
	KindMap
	KindGroup
	// KindOption only ever appears at the Value level; Required never
	// carries it. See value.go / required.go.
	KindOption
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "Bool"
	case KindU8:
		return "U8"
	case KindI8:
		return "I8"
	case KindU16:
		return "U16"
	case KindI16:
		return "I16"
	case KindU32:
		return "U32"
	case KindI32:
		return "I32"
	case KindU64:
		return "U64"
	case KindI64:
		return "I64"
	case KindF32:
		return "F32"
	case KindF64:
		return "F64"
	case KindDate:
		return "Date"
	case KindDateWithoutTimezone:
		return "DateWithoutTimezone"
	case KindTime:
		return "Time"
	case KindTimeWithoutTimezone:
		return "TimeWithoutTimezone"
	case KindDateTime:
		return "DateTime"
	case KindDateTimeWithoutTimezone:
		return "DateTimeWithoutTimezone"
	case KindTimezone:
		return "Timezone"
	case KindDecimal:
		return "Decimal"
	case KindByteArray:
		return "ByteArray"
	case KindBson:
		return "Bson"
	case KindString:
		return "String"
	case KindJSON:
		return "Json"
	case KindEnum:
		return "Enum"
	case KindURL:
		return "Url"
	case KindWebpage:
		return "Webpage"
	case KindIPAddr:
		return "IpAddr"
	case KindList:
		return "List"
	case KindMap:
		return "Map"
	case KindGroup:
		return "Group"
	case KindOption:
		return "Option"
	default:
		return "Unknown"
	}
}

// discriminator returns the hash/eq-family tag for a Kind. Several
// logically distinct arms intentionally share a discriminator byte,
// mirroring the source crate this substrate is ported from: the Date/
// DateWithoutTimezone pair, the Time/TimeWithoutTimezone pair, the
// DateTime/DateTimeWithoutTimezone/Timezone triple, and the
// Enum/Url/Webpage/IpAddr quartet. Tests must not assume discriminator
// uniqueness across those arms.
func (k Kind) discriminator() byte {
	switch k {
	case KindBool:
		return 0
	case KindU8:
		return 1
	case KindI8:
		return 2
	case KindU16:
		return 3
	case KindI16:
		return 4
	case KindU32:
		return 5
	case KindI32:
		return 6
	case KindU64:
		return 7
	case KindI64:
		return 8
	case KindF32:
		return 9
	case KindF64:
		return 10
	case KindDate, KindDateWithoutTimezone:
		return 11
	case KindTime, KindTimeWithoutTimezone:
		return 12
	case KindDateTime, KindDateTimeWithoutTimezone, KindTimezone:
		return 13
	case KindDecimal:
		return 14
	case KindByteArray:
		return 15
	case KindBson:
		return 16
	case KindString:
		return 17
	case KindJSON:
		return 18
	case KindEnum, KindURL, KindWebpage, KindIPAddr:
		return 19
	case KindList:
		return 20
	case KindMap:
		return 21
	case KindGroup:
		return 22
	case KindOption:
		return 23
	default:
		return 255
	}
}
