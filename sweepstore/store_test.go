// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sweepstore

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/heatshrink/sweep/sweepfmt"
)

func parse(t *testing.T, file string, ratio float64) *sweepfmt.Record {
	t.Helper()
	line := fmt.Sprintf(`RoundtripConfig { window_sz2: 7, lookahead_sz2: 4, in_read_sz: 8, out_read_sz: 1, out_buffer_sz: 1, file_name: %q, compressed_size: 1, compression_ratio: %v, compression_time_us: 1 }`, file, ratio)
	rec, err := sweepfmt.ParseLine(sweepfmt.RoundtripSchema, line)
	if err != nil || rec == nil {
		t.Fatalf("parsing %s: %v", line, err)
	}
	return rec
}

func TestStore(t *testing.T) {
	s := New("file_name")
	a1 := parse(t, "a.bin", 1)
	b1 := parse(t, "b.bin", 2)
	a2 := parse(t, "a.bin", 3)
	dup := parse(t, "a.bin", 3)
	for _, rec := range []*sweepfmt.Record{a1, b1, a2, dup} {
		if err := s.Ingest(rec); err != nil {
			t.Fatal(err)
		}
	}

	if got := s.RecordsFor("a.bin"); len(got) != 3 || got[0] != a1 || got[1] != a2 || got[2] != dup {
		t.Errorf("RecordsFor(a.bin) = %v, want [a1 a2 dup] in arrival order", got)
	}
	if got := s.RecordsFor("b.bin"); len(got) != 1 || got[0] != b1 {
		t.Errorf("RecordsFor(b.bin) = %v", got)
	}
	if got := s.RecordsFor("missing.bin"); len(got) != 0 {
		t.Errorf("RecordsFor(missing.bin) = %v, want empty", got)
	}
	if diff := cmp.Diff([]string{"a.bin", "b.bin"}, s.Discriminants()); diff != "" {
		t.Errorf("Discriminants mismatch (-want +got):\n%s", diff)
	}
	if s.Len() != 4 {
		t.Errorf("Len() = %d, want 4", s.Len())
	}
}

func TestStoreBadField(t *testing.T) {
	for _, field := range []string{"window_sz2", "nonexistent"} {
		s := New(field)
		if err := s.Ingest(parse(t, "a.bin", 1)); err == nil {
			t.Errorf("Ingest with discriminant %q succeeded", field)
		}
		if s.Len() != 0 {
			t.Errorf("failed Ingest changed Len to %d", s.Len())
		}
	}
}
