// Copyright 2016 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package value

import (
	"net"
	"net/url"
	"testing"
)

func roundTrip(t *testing.T, v Value) Value {
	t.Helper()
	data, err := v.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	var out Value
	if err := out.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	return out
}

func TestCodecScalarRoundTrip(t *testing.T) {
	cases := []Value{
		Bool(true),
		I64(-42),
		U32(7),
		F64(3.25),
		String("hello"),
		ByteArray([]byte{1, 2, 3}),
		EnumValue(Enum("RED")),
		JSONValue(JSON(`{"a":1}`)),
	}
	for _, v := range cases {
		got := roundTrip(t, v)
		if !got.Equal(v) {
			t.Errorf("round trip of %v produced %v", v, got)
		}
	}
}

func TestCodecCompositeRoundTrip(t *testing.T) {
	list := ListValue(List{I64(1), String("x"), None()})
	if got := roundTrip(t, list); !got.Equal(list) {
		t.Errorf("list round trip: got %v, want %v", got, list)
	}

	m := MapValue(Map{{Key: String("k"), Val: I64(9)}})
	if got := roundTrip(t, m); !got.Equal(m) {
		t.Errorf("map round trip: got %v, want %v", got, m)
	}

	g := GroupValue(Group{Fields: []string{"id", "tag"}, Values: []Value{I64(1), String("a")}})
	if got := roundTrip(t, g); !got.Equal(g) {
		t.Errorf("group round trip: got %v, want %v", got, g)
	}
}

func TestCodecOptionRoundTrip(t *testing.T) {
	if got := roundTrip(t, None()); !got.IsNone() {
		t.Errorf("None round trip produced %v", got)
	}
	some := Some(ReqI64(5))
	if got := roundTrip(t, some); !got.Equal(some) {
		t.Errorf("Some round trip: got %v, want %v", got, some)
	}
}

func TestCodecURLAndWebpageRoundTrip(t *testing.T) {
	u, _ := url.Parse("https://example.com/path")
	v := URLValue(URL{u})
	got := roundTrip(t, v)
	if !got.Equal(v) {
		t.Errorf("url round trip: got %v, want %v", got, v)
	}

	wp := WebpageValue(Webpage{
		IP:       net.ParseIP("192.0.2.1"),
		URL:      u,
		Contents: []byte("<html></html>"),
	})
	gotWp := roundTrip(t, wp)
	if !gotWp.Equal(wp) {
		t.Errorf("webpage round trip: got %v, want %v", gotWp, wp)
	}
}

func TestCodecRequiredRejectsNone(t *testing.T) {
	data, err := None().MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	var r Required
	if err := r.UnmarshalBinary(data); err == nil {
		t.Fatalf("decoding Option(None) into a Required should fail")
	}
}

func TestCodecRequiredRoundTrip(t *testing.T) {
	req := ReqGroup(Group{Fields: []string{"n"}, Values: []Value{I64(3)}})
	data, err := req.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	var out Required
	if err := out.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	if !out.Equal(req) {
		t.Fatalf("required round trip: got %v, want %v", out, req)
	}
}
