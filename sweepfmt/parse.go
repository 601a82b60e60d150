// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sweepfmt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	fieldSep = ", "
	keySep   = ": "
)

// A ParseError reports a malformed record. A line that contains a
// record marker but violates the record syntax or the schema always
// yields a ParseError; lines without a marker never do.
type ParseError struct {
	FileName string
	Line     int
	Field    string // offending field, if known
	Msg      string
}

// Pos returns the position of the malformed record.
func (e *ParseError) Pos() (fileName string, line int) {
	return e.FileName, e.Line
}

func (e *ParseError) Error() string {
	msg := e.Msg
	if e.Field != "" {
		msg = "field " + e.Field + ": " + msg
	}
	if e.FileName == "" && e.Line == 0 {
		return msg
	}
	return fmt.Sprintf("%s:%d: %s", e.FileName, e.Line, msg)
}

// ParseLine parses the record of schema s contained in line. If line
// has no record marker, ParseLine returns nil, nil. Otherwise it
// returns either a Record carrying every schema field or a
// *ParseError.
func ParseLine(s *Schema, line string) (*Record, error) {
	rec, err := parse(s, line)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// parse is ParseLine with a concrete error type.
func parse(s *Schema, line string) (*Record, *ParseError) {
	body, ok := recordBody(s, line)
	if !ok {
		return nil, nil
	}

	rec := &Record{schema: s, vals: make([]Value, len(s.fields))}
	seen := make([]bool, len(s.fields))
	if body != "" {
		for _, tok := range strings.Split(body, fieldSep) {
			key, raw, ok := strings.Cut(tok, keySep)
			if !ok {
				return nil, &ParseError{Msg: fmt.Sprintf("malformed field %q", tok)}
			}
			i, spec, ok := s.Lookup(key)
			if !ok {
				return nil, &ParseError{Field: key, Msg: "not in " + s.Name + " schema"}
			}
			if seen[i] {
				return nil, &ParseError{Field: key, Msg: "repeated"}
			}
			seen[i] = true
			v, err := parseValue(spec.Kind, raw)
			if err != nil {
				return nil, &ParseError{Field: key, Msg: err.Error()}
			}
			rec.vals[i] = v
		}
	}
	for i, ok := range seen {
		if !ok {
			return nil, &ParseError{Field: s.fields[i].Name, Msg: "missing"}
		}
	}
	return rec, nil
}

// recordBody returns the text strictly between the record delimiters
// in line, and whether line holds a record at all.
func recordBody(s *Schema, line string) (string, bool) {
	marker := s.marker()
	i := strings.Index(line, marker)
	if i < 0 {
		return "", false
	}
	body := line[i+len(marker):]
	if j := strings.Index(body, " }"); j >= 0 {
		return body[:j], true
	}
	// An empty record prints as "Name { }", which leaves only the
	// closing brace after the marker.
	if j := strings.IndexByte(body, '}'); j >= 0 {
		return body[:j], true
	}
	return "", false
}

var errUnquoted = errors.New("string value must be double-quoted")

func parseValue(kind Kind, raw string) (Value, error) {
	switch kind {
	case Int:
		x, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Value{}, numError(raw, err)
		}
		return IntValue(x), nil
	case String:
		if len(raw) < 2 || raw[0] != '"' || raw[len(raw)-1] != '"' {
			return Value{}, fmt.Errorf("%w: %s", errUnquoted, raw)
		}
		return StringValue(raw[1 : len(raw)-1]), nil
	}
	x, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return Value{}, numError(raw, err)
	}
	return FloatValue(x), nil
}

func numError(raw string, err error) error {
	var ne *strconv.NumError
	if errors.As(err, &ne) {
		return fmt.Errorf("parsing %q: %v", raw, ne.Err)
	}
	return err
}
