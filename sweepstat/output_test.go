// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sweepstat

import (
	"strings"
	"testing"
)

func testAggregation(t *testing.T) *Aggregation {
	recs := load(t, []trial{
		{8, 4, tsz, 1.5, 200},
		{7, 4, tsz, 2, 100},
		{7, 4, tsz, 1, 300},
	}).RecordsFor(tsz)
	agg, err := Aggregate(recs, DefaultOptions)
	if err != nil {
		t.Fatal(err)
	}
	return agg
}

func TestWriteCSV(t *testing.T) {
	var buf strings.Builder
	if err := WriteCSV(&buf, testAggregation(t)); err != nil {
		t.Fatal(err)
	}
	want := `window_sz2,lookahead_sz2,count,mean compression_ratio,mean compression_time_us
7,4,2,1.5,200
8,4,1,1.5,200
`
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWriteText(t *testing.T) {
	var buf strings.Builder
	if err := WriteText(&buf, testAggregation(t)); err != nil {
		t.Fatal(err)
	}
	want := `window_sz2  lookahead_sz2  count  mean compression_ratio  mean compression_time_us
         7              4      2                     1.5                       200
         8              4      1                     1.5                       200
`
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}
