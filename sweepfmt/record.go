// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sweepfmt

import (
	"math"
	"strconv"
)

// A Value is a single typed field value.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
}

// IntValue returns an Int Value.
func IntValue(x int64) Value { return Value{kind: Int, i: x} }

// FloatValue returns a Float Value.
func FloatValue(x float64) Value { return Value{kind: Float, f: x} }

// StringValue returns a String Value.
func StringValue(x string) Value { return Value{kind: String, s: x} }

// Kind returns the type of v.
func (v Value) Kind() Kind { return v.kind }

// Int returns the value of an Int Value, or 0.
func (v Value) Int() int64 { return v.i }

// Float returns the value of a Float Value, or 0.
func (v Value) Float() float64 { return v.f }

// Str returns the value of a String Value, or "".
func (v Value) Str() string { return v.s }

// Equal reports whether v and o have the same kind and value. Two NaN
// floats are equal so that a record always equals itself.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case Int:
		return v.i == o.i
	case String:
		return v.s == o.s
	}
	return v.f == o.f || math.IsNaN(v.f) && math.IsNaN(o.f)
}

// appendText appends the unquoted text of v.
func (v Value) appendText(buf []byte) []byte {
	switch v.kind {
	case Int:
		return strconv.AppendInt(buf, v.i, 10)
	case String:
		return append(buf, v.s...)
	}
	return strconv.AppendFloat(buf, v.f, 'f', -1, 64)
}

// A Record is one parsed record. Every Record of a Schema carries every
// field of that Schema.
//
// Records are immutable. A Reader allocates a fresh Record for every
// record it reads, so callers may retain them.
type Record struct {
	schema *Schema
	vals   []Value // indexed like schema.fields

	// fileName and line record where this Record was read from.
	fileName string
	line     int
}

// NewRecord constructs a Record of schema s from vals, which must hold
// one Value of the right kind per schema field, in schema order.
func NewRecord(s *Schema, vals ...Value) (*Record, error) {
	if len(vals) != len(s.fields) {
		return nil, &ParseError{Msg: "want " + strconv.Itoa(len(s.fields)) + " fields, have " + strconv.Itoa(len(vals))}
	}
	for i, f := range s.fields {
		if vals[i].kind != f.Kind {
			return nil, &ParseError{Field: f.Name, Msg: "want " + f.Kind.String() + " value, have " + vals[i].kind.String()}
		}
	}
	return &Record{schema: s, vals: append([]Value(nil), vals...)}, nil
}

// Schema returns the schema r was parsed with.
func (r *Record) Schema() *Schema {
	return r.schema
}

// Pos returns the file name and 1-based line number r was read from.
// For Records that were not read by a Reader, it returns "", 0.
func (r *Record) Pos() (fileName string, line int) {
	return r.fileName, r.line
}

// Value returns the value of the named field.
func (r *Record) Value(name string) (Value, bool) {
	i, _, ok := r.schema.Lookup(name)
	if !ok {
		return Value{}, false
	}
	return r.vals[i], true
}

// Int returns the value of the named Int field.
func (r *Record) Int(name string) (int64, bool) {
	v, ok := r.Value(name)
	if !ok || v.kind != Int {
		return 0, false
	}
	return v.i, true
}

// Float returns the value of the named Float field.
func (r *Record) Float(name string) (float64, bool) {
	v, ok := r.Value(name)
	if !ok || v.kind != Float {
		return 0, false
	}
	return v.f, true
}

// Str returns the value of the named String field, without quotes.
func (r *Record) Str(name string) (string, bool) {
	v, ok := r.Value(name)
	if !ok || v.kind != String {
		return "", false
	}
	return v.s, true
}

// Number returns the value of the named Int or Float field as a
// float64.
func (r *Record) Number(name string) (float64, bool) {
	v, ok := r.Value(name)
	if !ok {
		return 0, false
	}
	switch v.kind {
	case Int:
		return float64(v.i), true
	case Float:
		return v.f, true
	}
	return 0, false
}

// Text returns the named field formatted as it would appear in a
// record, except that strings are not quoted.
func (r *Record) Text(name string) (string, bool) {
	v, ok := r.Value(name)
	if !ok {
		return "", false
	}
	return string(v.appendText(nil)), true
}

// Equal reports whether r and o have the same schema and field values.
// Positions are not compared.
func (r *Record) Equal(o *Record) bool {
	if r == nil || o == nil {
		return r == o
	}
	if r.schema != o.schema || len(r.vals) != len(o.vals) {
		return false
	}
	for i := range r.vals {
		if !r.vals[i].Equal(o.vals[i]) {
			return false
		}
	}
	return true
}

// String returns r in the record syntax accepted by ParseLine.
func (r *Record) String() string {
	return string(r.appendTo(nil))
}

func (r *Record) appendTo(buf []byte) []byte {
	buf = append(buf, r.schema.marker()...)
	for i, f := range r.schema.fields {
		if i > 0 {
			buf = append(buf, fieldSep...)
		}
		buf = append(buf, f.Name...)
		buf = append(buf, keySep...)
		if f.Kind == String {
			buf = append(buf, '"')
			buf = r.vals[i].appendText(buf)
			buf = append(buf, '"')
		} else {
			buf = r.vals[i].appendText(buf)
		}
	}
	return append(buf, " }"...)
}
