// Copyright 2016 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package value

import (
	"fmt"
	"net"
	"net/url"
)

// Date is the number of days since the Unix epoch (1 January 1970),
// per rust/parquet/src/record/types.rs. It carries no timezone field.
type Date struct {
	Days int32
}

// DateWithoutTimezone is Date without an associated timezone.
type DateWithoutTimezone struct {
	Days int32
}

// Time is the number of microseconds since midnight, with a timezone.
type Time struct {
	Micros int64
	Tz     string
}

// TimeWithoutTimezone is Time without an associated timezone.
type TimeWithoutTimezone struct {
	Micros int64
}

// DateTime is milliseconds since the Unix epoch, with a timezone.
type DateTime struct {
	Millis int64
	Tz     string
}

// DateTimeWithoutTimezone is DateTime without an associated timezone.
type DateTimeWithoutTimezone struct {
	Millis int64
}

// Timezone is a standalone IANA timezone name/offset pair.
type Timezone struct {
	Name       string
	OffsetSecs int32
}

// Decimal stores an unscaled big-endian two's-complement integer plus a
// base-10 scale, matching rust/parquet/src/record/types.rs's
// representation instead of a floating approximation.
type Decimal struct {
	Unscaled []byte
	Scale    int32
}

func (d Decimal) String() string {
	return fmt.Sprintf("Decimal(unscaled=%x, scale=%d)", d.Unscaled, d.Scale)
}

// Bson is an opaque BSON-encoded document.
type Bson []byte

// JSON is an opaque JSON-encoded document, kept as text rather than
// parsed, mirroring the source's Json(String) arm.
type JSON string

// Enum is an enum value's symbolic name.
type Enum string

// IPAddr is a parsed IPv4 or IPv6 address.
type IPAddr struct {
	net.IP
}

// URL is a parsed URL.
type URL struct {
	*url.URL
}

// Webpage is the triple (ip address, URL, opaque byte contents)
// described in spec.md §3, ported from amadeus-types/src/http.rs'
// Webpage<'a>. Go has no borrow-vs-owned distinction, so Contents is
// always owned; Clone exists for the borrow/to-owned pair the source
// crate exposes as Webpage::to_owned.
type Webpage struct {
	IP       net.IP
	URL      *url.URL
	Contents []byte
}

// Clone returns a deep copy of the webpage, the Go analogue of the
// source crate's Webpage::to_owned lift from a borrowed Cow<[u8]>.
func (w Webpage) Clone() Webpage {
	out := Webpage{IP: append(net.IP(nil), w.IP...)}
	if w.URL != nil {
		u := *w.URL
		out.URL = &u
	}
	if w.Contents != nil {
		out.Contents = append([]byte(nil), w.Contents...)
	}
	return out
}
