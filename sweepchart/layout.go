// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sweepchart lays out aggregated sweep results as clustered
// bar charts and renders them with gonum/plot.
//
// Each distinct primary key value (e.g. window size) is a cluster at
// an integer slot on the X axis. Within a cluster, each distinct
// secondary key value (e.g. lookahead size) has a fixed offset and a
// fixed color. Slots, offsets and colors are all taken from a Domain
// that is computed once and shared by every chart built from it, so a
// given secondary value has the same color in every chart.
package sweepchart

import (
	"fmt"
	"sort"

	"github.com/heatshrink/sweep/sweepstat"
)

// A Domain is the set of key values shown on a group of charts.
type Domain struct {
	// Primaries and Secondaries are the distinct key values, in
	// increasing order.
	Primaries, Secondaries []int

	slot, color map[int]int
}

// NewDomain returns the union of the keys of aggs.
func NewDomain(aggs ...*sweepstat.Aggregation) *Domain {
	ps, ss := make(map[int]bool), make(map[int]bool)
	for _, agg := range aggs {
		for _, k := range agg.Keys() {
			ps[k.Primary] = true
			ss[k.Secondary] = true
		}
	}
	d := &Domain{
		Primaries:   sortedKeys(ps),
		Secondaries: sortedKeys(ss),
		slot:        make(map[int]int, len(ps)),
		color:       make(map[int]int, len(ss)),
	}
	for i, p := range d.Primaries {
		d.slot[p] = i
	}
	for j, s := range d.Secondaries {
		d.color[s] = j
	}
	return d
}

func sortedKeys(m map[int]bool) []int {
	xs := make([]int, 0, len(m))
	for x := range m {
		xs = append(xs, x)
	}
	sort.Ints(xs)
	return xs
}

// Slot returns the cluster index of a primary value.
func (d *Domain) Slot(primary int) (int, bool) {
	i, ok := d.slot[primary]
	return i, ok
}

// Color returns the rank of a secondary value, which is both its offset
// index within a cluster and its color index.
func (d *Domain) Color(secondary int) (int, bool) {
	j, ok := d.color[secondary]
	return j, ok
}

// A BarPlacement is one bar of a clustered bar chart.
type BarPlacement struct {
	// X is the center of the bar in axis units. Cluster i starts at
	// X = i.
	X float64
	// Value is the height of the bar.
	Value float64
	// Color indexes the chart palette.
	Color int
	// Key is the aggregation key this bar shows.
	Key sweepstat.Key
}

// checkWidth reports whether n bars of width w fit in one cluster slot
// without touching the next cluster.
func checkWidth(w float64, n int) error {
	if !(w > 0) {
		return fmt.Errorf("bar width %v must be positive", w)
	}
	if float64(n)*w >= 1 {
		return fmt.Errorf("%d bars of width %v overflow a cluster slot", n, w)
	}
	return nil
}

// Layout places one bar for every key of agg, showing the mean of
// field. The bar for key (p, s) is at Slot(p) + Color(s)*barWidth and
// has color Color(s). Pairs that agg did not observe get no bar. Bars
// are returned in increasing X order. A NaN or infinite mean, as a
// sweep over empty input reports, is an error.
func Layout(agg *sweepstat.Aggregation, field string, dom *Domain, barWidth float64) ([]BarPlacement, error) {
	if err := checkWidth(barWidth, len(dom.Secondaries)); err != nil {
		return nil, err
	}
	bars := make([]BarPlacement, 0, len(agg.Keys()))
	for _, k := range agg.Keys() {
		i, ok1 := dom.Slot(k.Primary)
		j, ok2 := dom.Color(k.Secondary)
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("key %v is outside the chart domain", k)
		}
		v, ok := agg.Mean(k, field)
		if !ok {
			return nil, fmt.Errorf("field %q was not aggregated", field)
		}
		if !finite(v) {
			return nil, fmt.Errorf("mean %s of %v is %v", field, k, v)
		}
		bars = append(bars, BarPlacement{
			X:     float64(i) + float64(j)*barWidth,
			Value: v,
			Color: j,
			Key:   k,
		})
	}
	return bars, nil
}
