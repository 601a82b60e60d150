// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sweepfmt

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const tszLine = `RoundtripConfig { window_sz2: 7, lookahead_sz2: 4, in_read_sz: 8, out_read_sz: 1, out_buffer_sz: 1, file_name: "tsz-compressed-data.bin", compressed_size: 1361374, compression_ratio: 1.427546, compression_time_us: 92271 }`

func roundtrip(t *testing.T, window, lookahead int64, file string, ratio, us float64) *Record {
	t.Helper()
	rec, err := NewRecord(RoundtripSchema,
		IntValue(window), IntValue(lookahead),
		IntValue(8), IntValue(1), IntValue(1),
		StringValue(file),
		FloatValue(1361374), FloatValue(ratio), FloatValue(us))
	if err != nil {
		t.Fatal(err)
	}
	return rec
}

func TestParseLine(t *testing.T) {
	rec, err := ParseLine(RoundtripSchema, tszLine)
	if err != nil {
		t.Fatal(err)
	}
	want := roundtrip(t, 7, 4, "tsz-compressed-data.bin", 1.427546, 92271)
	if diff := cmp.Diff(want, rec); diff != "" {
		t.Errorf("ParseLine mismatch (-want +got):\n%s", diff)
	}

	if v, ok := rec.Int("window_sz2"); !ok || v != 7 {
		t.Errorf("Int(window_sz2) = %d, %v; want 7, true", v, ok)
	}
	if v, ok := rec.Str("file_name"); !ok || v != "tsz-compressed-data.bin" {
		t.Errorf("Str(file_name) = %q, %v", v, ok)
	}
	if v, ok := rec.Float("compression_ratio"); !ok || v != 1.427546 {
		t.Errorf("Float(compression_ratio) = %v, %v", v, ok)
	}
	if _, ok := rec.Float("window_sz2"); ok {
		t.Errorf("Float(window_sz2) succeeded on an int field")
	}
	if v, ok := rec.Number("lookahead_sz2"); !ok || v != 4 {
		t.Errorf("Number(lookahead_sz2) = %v, %v", v, ok)
	}
	if _, ok := rec.Value("no_such_field"); ok {
		t.Errorf("Value(no_such_field) succeeded")
	}
}

func TestParseLineEmbedded(t *testing.T) {
	// Test harnesses prefix records with their own output.
	line := "test end2end ... " + tszLine + " trailing"
	rec, err := ParseLine(RoundtripSchema, line)
	if err != nil || rec == nil {
		t.Fatalf("ParseLine = %v, %v", rec, err)
	}
	if v, _ := rec.Float("compression_time_us"); v != 92271 {
		t.Errorf("compression_time_us = %v, want 92271", v)
	}
}

func TestParseLineNoRecord(t *testing.T) {
	for _, line := range []string{
		"",
		"# comment",
		"running 1 test",
		"RoundtripConfig {window_sz2: 7}",
		"RoundtripConfig { window_sz2: 7",
		"Bottom 3 compression ratios:",
	} {
		rec, err := ParseLine(RoundtripSchema, line)
		if rec != nil || err != nil {
			t.Errorf("ParseLine(%q) = %v, %v; want nil, nil", line, rec, err)
		}
	}
}

func TestParseLineErrors(t *testing.T) {
	replace := func(old, new string) string {
		if !strings.Contains(tszLine, old) {
			t.Fatalf("test line does not contain %q", old)
		}
		return strings.Replace(tszLine, old, new, 1)
	}
	for _, test := range []struct {
		name, line, field, msg string
	}{
		{"unquoted", replace(`"tsz-compressed-data.bin"`, `tsz-compressed-data.bin`), "file_name", "double-quoted"},
		{"short string", replace(`"tsz-compressed-data.bin"`, `"`), "file_name", "double-quoted"},
		{"int", replace("window_sz2: 7", "window_sz2: seven"), "window_sz2", "invalid syntax"},
		{"int float", replace("window_sz2: 7", "window_sz2: 7.5"), "window_sz2", "invalid syntax"},
		{"float", replace("compression_ratio: 1.427546", "compression_ratio: fast"), "compression_ratio", "invalid syntax"},
		{"missing", replace("in_read_sz: 8, ", ""), "in_read_sz", "missing"},
		{"repeated", replace("in_read_sz: 8", "in_read_sz: 8, in_read_sz: 8"), "in_read_sz", "repeated"},
		{"unknown", replace("in_read_sz: 8", "in_read_sz: 8, level: 3"), "level", "not in RoundtripConfig schema"},
		{"no colon", replace("in_read_sz: 8", "in_read_sz 8"), "", "malformed field"},
		{"empty", "RoundtripConfig { }", "window_sz2", "missing"},
	} {
		t.Run(test.name, func(t *testing.T) {
			rec, err := ParseLine(RoundtripSchema, test.line)
			if rec != nil {
				t.Errorf("got record %v, want error", rec)
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("got error %v (%T), want *ParseError", err, err)
			}
			if pe.Field != test.field {
				t.Errorf("got field %q, want %q", pe.Field, test.field)
			}
			if !strings.Contains(pe.Msg, test.msg) {
				t.Errorf("got message %q, want it to contain %q", pe.Msg, test.msg)
			}
		})
	}
}

func TestParseLineIdempotent(t *testing.T) {
	for _, line := range []string{
		tszLine,
		`RoundtripConfig { window_sz2: 6, lookahead_sz2: 4, in_read_sz: 4096, out_read_sz: 8, out_buffer_sz: 512, file_name: "heatshrink_encoder.rs", compressed_size: 14829, compression_ratio: 1.7059141, compression_time_us: 1100 }`,
		`RoundtripConfig { window_sz2: -1, lookahead_sz2: 0, in_read_sz: 1, out_read_sz: 1, out_buffer_sz: 1, file_name: "", compressed_size: 0.5, compression_ratio: NaN, compression_time_us: 1e21 }`,
	} {
		rec1, err := ParseLine(RoundtripSchema, line)
		if err != nil {
			t.Fatal(err)
		}
		rec2, err := ParseLine(RoundtripSchema, rec1.String())
		if err != nil {
			t.Fatalf("reparsing %q: %v", rec1.String(), err)
		}
		if !rec1.Equal(rec2) {
			t.Errorf("reparse of %q:\n got %v\nwant %v", line, rec2, rec1)
		}
		if rec1.String() != rec2.String() {
			t.Errorf("rendering not stable:\n%s\n%s", rec1, rec2)
		}
	}

	rec, _ := ParseLine(RoundtripSchema, tszLine)
	if got := rec.String(); got != tszLine {
		t.Errorf("String() =\n%s\nwant\n%s", got, tszLine)
	}
}

func TestNewRecord(t *testing.T) {
	if _, err := NewRecord(RoundtripSchema, IntValue(1)); err == nil {
		t.Errorf("NewRecord with too few values succeeded")
	}
	vals := []Value{
		IntValue(7), IntValue(4), IntValue(8), IntValue(1), IntValue(1),
		FloatValue(1), // file_name must be a string
		FloatValue(1), FloatValue(1), FloatValue(1),
	}
	_, err := NewRecord(RoundtripSchema, vals...)
	var pe *ParseError
	if !errors.As(err, &pe) || pe.Field != "file_name" {
		t.Errorf("NewRecord with wrong kind: got %v, want file_name error", err)
	}
}

func TestValueEqual(t *testing.T) {
	if !FloatValue(math.NaN()).Equal(FloatValue(math.NaN())) {
		t.Errorf("NaN values should be equal")
	}
	if IntValue(1).Equal(FloatValue(1)) {
		t.Errorf("values of different kinds should differ")
	}
}
