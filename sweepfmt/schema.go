// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sweepfmt reads and writes the parameter-sweep record format
// printed by the heatshrink roundtrip tests.
//
// A record is a single line of the form
//
//	RoundtripConfig { window_sz2: 6, lookahead_sz2: 4, ..., file_name: "text.txt", ... }
//
// embedded anywhere in a log. The text between the marker delimiters is
// a ", "-separated list of "key: value" fields whose types are given by
// a fixed Schema rather than inferred from the text. Values must not
// contain ", " themselves; the format has no escaping.
//
// Lines that do not contain a record marker are ignored by the Reader.
package sweepfmt

import "fmt"

// A Kind is the type of a record field.
type Kind int

const (
	// Float fields are parsed with strconv.ParseFloat.
	Float Kind = iota
	// Int fields are base-10 signed integers.
	Int
	// String fields are wrapped in a single pair of double quotes.
	String
)

func (k Kind) String() string {
	switch k {
	case Float:
		return "float"
	case Int:
		return "int"
	case String:
		return "string"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// A FieldSpec names one field of a Schema and gives its type.
type FieldSpec struct {
	Name string
	Kind Kind
}

// A Schema describes one record type: the marker that introduces it
// and the complete, ordered set of fields every record of that type
// carries.
//
// Schemas are immutable once constructed.
type Schema struct {
	// Name is the marker name, e.g. "RoundtripConfig". A record
	// opens with Name followed by " { ".
	Name string

	fields []FieldSpec
	index  map[string]int
}

// NewSchema returns a Schema for records introduced by name. It panics
// if a field name is repeated, since that is a programming error.
func NewSchema(name string, fields ...FieldSpec) *Schema {
	s := &Schema{
		Name:   name,
		fields: append([]FieldSpec(nil), fields...),
		index:  make(map[string]int, len(fields)),
	}
	for i, f := range fields {
		if _, ok := s.index[f.Name]; ok {
			panic("duplicate schema field " + f.Name)
		}
		s.index[f.Name] = i
	}
	return s
}

// Fields returns the fields of s in declaration order. The caller must
// not modify the returned slice.
func (s *Schema) Fields() []FieldSpec {
	return s.fields
}

// Lookup returns the index and spec of the named field.
func (s *Schema) Lookup(name string) (int, FieldSpec, bool) {
	i, ok := s.index[name]
	if !ok {
		return -1, FieldSpec{}, false
	}
	return i, s.fields[i], true
}

// marker returns the opening delimiter of records of this schema.
func (s *Schema) marker() string {
	return s.Name + " { "
}

// RoundtripSchema is the schema of the RoundtripConfig records emitted
// by the heatshrink end-to-end parameter sweep.
var RoundtripSchema = NewSchema("RoundtripConfig",
	FieldSpec{"window_sz2", Int},
	FieldSpec{"lookahead_sz2", Int},
	FieldSpec{"in_read_sz", Int},
	FieldSpec{"out_read_sz", Int},
	FieldSpec{"out_buffer_sz", Int},
	FieldSpec{"file_name", String},
	FieldSpec{"compressed_size", Float},
	FieldSpec{"compression_ratio", Float},
	FieldSpec{"compression_time_us", Float},
)
