// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sweepchart_test

import (
	"fmt"
	"log"
	"strings"

	"github.com/heatshrink/sweep/sweepchart"
	"github.com/heatshrink/sweep/sweepfmt"
	"github.com/heatshrink/sweep/sweepstat"
	"github.com/heatshrink/sweep/sweepstore"
)

const exampleLog = `running 4 tests
RoundtripConfig { window_sz2: 4, lookahead_sz2: 3, in_read_sz: 1, out_read_sz: 1, out_buffer_sz: 1, file_name: "a.bin", compressed_size: 10, compression_ratio: 1.5, compression_time_us: 100 }
RoundtripConfig { window_sz2: 5, lookahead_sz2: 3, in_read_sz: 1, out_read_sz: 1, out_buffer_sz: 1, file_name: "a.bin", compressed_size: 10, compression_ratio: 3, compression_time_us: 10 }
RoundtripConfig { window_sz2: 6, lookahead_sz2: 5, in_read_sz: 1, out_read_sz: 1, out_buffer_sz: 1, file_name: "b.bin", compressed_size: 10, compression_ratio: 9, compression_time_us: 1 }
RoundtripConfig { window_sz2: 4, lookahead_sz2: 4, in_read_sz: 1, out_read_sz: 1, out_buffer_sz: 1, file_name: "a.bin", compressed_size: 10, compression_ratio: 1.25, compression_time_us: 50 }
RoundtripConfig { window_sz2: 4, lookahead_sz2: 3, in_read_sz: 8, out_read_sz: 1, out_buffer_sz: 1, file_name: "a.bin", compressed_size: 10, compression_ratio: 2.5, compression_time_us: 300 }
test result: ok
`

// Example reads a sweep log, keeps the records of one input file,
// averages them by window and lookahead size, and lays out a ratio
// and a time chart over one shared domain.
func Example() {
	store := sweepstore.New("file_name")
	r := sweepfmt.NewReader(strings.NewReader(exampleLog), "example", sweepfmt.RoundtripSchema)
	for r.Scan() {
		switch res := r.Result().(type) {
		case *sweepfmt.ParseError:
			log.Fatal(res)
		case *sweepfmt.Record:
			if err := store.Ingest(res); err != nil {
				log.Fatal(err)
			}
		}
	}
	if err := r.Err(); err != nil {
		log.Fatal(err)
	}

	recs, err := sweepstat.Select(store, "a.bin")
	if err != nil {
		log.Fatal(err)
	}
	agg, err := sweepstat.Aggregate(recs, sweepstat.DefaultOptions)
	if err != nil {
		log.Fatal(err)
	}
	charts, dom, err := sweepchart.BuildAll(agg, []sweepchart.Spec{
		{Field: "compression_ratio", Title: "ratio"},
		{Field: "compression_time_us", Title: "time"},
	}, 0.25)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("primaries", dom.Primaries, "secondaries", dom.Secondaries)
	for _, c := range charts {
		fmt.Println(c.Title, c.Legend)
		for _, b := range c.Bars {
			fmt.Printf("  %v x=%g value=%g color=%d\n", b.Key, b.X, b.Value, b.Color)
		}
	}
	// Output:
	// primaries [4 5] secondaries [3 4]
	// ratio [lookahead_sz2=3 lookahead_sz2=4]
	//   (4, 3) x=0 value=2 color=0
	//   (4, 4) x=0.25 value=1.25 color=1
	//   (5, 3) x=1 value=3 color=0
	// time [lookahead_sz2=3 lookahead_sz2=4]
	//   (4, 3) x=0 value=200 color=0
	//   (4, 4) x=0.25 value=50 color=1
	//   (5, 3) x=1 value=10 color=0
}
