// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sink

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestParseGCS(t *testing.T) {
	for _, test := range []struct {
		target         string
		bucket, prefix string
		ok, err        bool
	}{
		{"out", "", "", false, false},
		{"", "", "", false, false},
		{"gs://sweeps", "sweeps", "", true, false},
		{"gs://sweeps/", "sweeps", "", true, false},
		{"gs://sweeps/2023/run1/", "sweeps", "2023/run1", true, false},
		{"gs:///charts", "", "", false, true},
	} {
		bucket, prefix, ok, err := parseGCS(test.target)
		if bucket != test.bucket || prefix != test.prefix || ok != test.ok || (err != nil) != test.err {
			t.Errorf("parseGCS(%q) = %q, %q, %v, %v", test.target, bucket, prefix, ok, err)
		}
	}
}

func TestGCSObject(t *testing.T) {
	g := &GCS{bucket: "sweeps", prefix: "2023/run1"}
	if got := g.object("charts.png"); got != "2023/run1/charts.png" {
		t.Errorf("object = %q", got)
	}
	g.prefix = ""
	if got := g.object("charts.png"); got != "charts.png" {
		t.Errorf("object with no prefix = %q", got)
	}
}

func TestDir(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "out")
	s, err := Open(ctx, dir)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	w, err := s.Create(ctx, "report/means.csv")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := io.WriteString(w, "a,b\n"); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "report", "means.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "a,b\n" {
		t.Errorf("wrote %q", data)
	}

	for _, name := range []string{"", "../escape.png", "/abs.png", "a/../../b.png"} {
		if _, err := s.Create(ctx, name); err == nil {
			t.Errorf("Create(%q) succeeded", name)
		}
	}
}
