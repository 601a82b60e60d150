// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sweepstat

import (
	"fmt"
	"sort"

	"github.com/heatshrink/sweep/sweepfmt"
	"github.com/heatshrink/sweep/sweepstore"
)

// Select returns the records of store whose discriminant is name. It
// returns an *EmptyInputError if there are none.
func Select(store *sweepstore.Store, name string) ([]*sweepfmt.Record, error) {
	recs := store.RecordsFor(name)
	if len(recs) == 0 {
		return nil, &EmptyInputError{Field: store.Field(), Value: name}
	}
	return recs, nil
}

// Extremes returns up to n records with the lowest and the highest
// value of field. bottom is in ascending order and top in descending
// order. Records with equal values keep their relative order.
func Extremes(recs []*sweepfmt.Record, field string, n int) (bottom, top []*sweepfmt.Record, err error) {
	type entry struct {
		rec *sweepfmt.Record
		x   float64
	}
	es := make([]entry, len(recs))
	for i, rec := range recs {
		x, ok := rec.Number(field)
		if !ok {
			return nil, nil, fmt.Errorf("record has no numeric field %q", field)
		}
		es[i] = entry{rec, x}
	}
	if n > len(es) {
		n = len(es)
	}
	if n <= 0 {
		return nil, nil, nil
	}

	pick := func() []*sweepfmt.Record {
		out := make([]*sweepfmt.Record, n)
		for i := range out {
			out[i] = es[i].rec
		}
		return out
	}
	sort.SliceStable(es, func(i, j int) bool { return es[i].x < es[j].x })
	bottom = pick()
	// Re-sorting would disturb tie order, so restore arrival order
	// first.
	for i, rec := range recs {
		x, _ := rec.Number(field)
		es[i] = entry{rec, x}
	}
	sort.SliceStable(es, func(i, j int) bool { return es[i].x > es[j].x })
	top = pick()
	return bottom, top, nil
}
