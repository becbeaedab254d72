// Copyright 2016 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package value

// Schema describes the required shape of a Value: a parallel structure
// mirroring Kind, with Nullable tracking whether the Value-level field
// is wrapped in Option. Every Value carries an implicit schema
// (ImpliedSchema); downcasting a schema to a concrete record shape
// (AsGroup) is fallible, per spec.md §3.
type Schema struct {
	Kind     Kind
	Nullable bool
	// Elem is the element schema for KindList.
	Elem *Schema
	// Key/Val are the key/value schemas for KindMap.
	Key *Schema
	Val *Schema
	// Fields is the field list for KindGroup.
	Fields []FieldSchema
}

// FieldSchema names one field of a Group schema.
type FieldSchema struct {
	Name   string
	Schema Schema
}

// AsGroup downcasts s to its field list; ok is false if s does not
// describe a Group (directly, or via one level of nullability).
func (s Schema) AsGroup() ([]FieldSchema, bool) {
	if s.Kind != KindGroup {
		return nil, false
	}
	return s.Fields, true
}

// AsList downcasts s to its element schema.
func (s Schema) AsList() (Schema, bool) {
	if s.Kind != KindList || s.Elem == nil {
		return Schema{}, false
	}
	return *s.Elem, true
}

// AsMap downcasts s to its key/value schemas.
func (s Schema) AsMap() (key, val Schema, ok bool) {
	if s.Kind != KindMap || s.Key == nil || s.Val == nil {
		return Schema{}, Schema{}, false
	}
	return *s.Key, *s.Val, true
}

// ImpliedSchema computes the schema a Value carries implicitly: its
// Kind (or the wrapped Required's Kind, with Nullable set, for
// Option), recursing into List/Map/Group.
func (v Value) ImpliedSchema() Schema {
	if v.kind == KindOption {
		opt := v.payload.(*Required)
		if opt == nil {
			return Schema{Kind: KindString, Nullable: true} // unknown element kind for a bare None
		}
		s := opt.ImpliedSchema()
		s.Nullable = true
		return s
	}
	return Required{kind: v.kind, payload: v.payload}.ImpliedSchema()
}

// ImpliedSchema computes the schema a Required carries implicitly.
func (r Required) ImpliedSchema() Schema {
	switch r.kind {
	case KindList:
		l := r.payload.(List)
		elem := Schema{Kind: KindString}
		if len(l) > 0 {
			elem = l[0].ImpliedSchema()
		}
		return Schema{Kind: KindList, Elem: &elem}
	case KindMap:
		m := r.payload.(Map)
		key, val := Schema{Kind: KindString}, Schema{Kind: KindString}
		if len(m) > 0 {
			key = m[0].Key.ImpliedSchema()
			val = m[0].Val.ImpliedSchema()
		}
		return Schema{Kind: KindMap, Key: &key, Val: &val}
	case KindGroup:
		g := r.payload.(Group)
		fields := make([]FieldSchema, len(g.Fields))
		for i, name := range g.Fields {
			fields[i] = FieldSchema{Name: name, Schema: g.Values[i].ImpliedSchema()}
		}
		return Schema{Kind: KindGroup, Fields: fields}
	default:
		return Schema{Kind: r.kind}
	}
}
