// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sweepfmt

import (
	"strings"
	"testing"
)

func TestWriter(t *testing.T) {
	r := NewReader(strings.NewReader(sweepLog), "sweep.txt", RoundtripSchema)
	var out strings.Builder
	w := NewWriter(&out)
	for r.Scan() {
		if err := w.Write(r.Result()); err != nil {
			t.Fatal(err)
		}
	}

	// Noise and malformed records are dropped; records are
	// reproduced verbatim.
	var want strings.Builder
	for _, line := range strings.Split(sweepLog, "\n") {
		if strings.HasPrefix(line, "RoundtripConfig") && !strings.Contains(line, "random-data.bin") {
			want.WriteString(line + "\n")
		}
	}
	if out.String() != want.String() {
		t.Errorf("got:\n%s\nwant:\n%s", out.String(), want.String())
	}

	// The written log reads back to the same records.
	r2 := NewReader(strings.NewReader(out.String()), "out", RoundtripSchema)
	n := 0
	for r2.Scan() {
		if _, ok := r2.Result().(*Record); !ok {
			t.Fatalf("unexpected %v", r2.Result())
		}
		n++
	}
	if n != 2 {
		t.Errorf("read back %d records, want 2", n)
	}
}
