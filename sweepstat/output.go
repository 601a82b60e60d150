// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sweepstat

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/aclements/go-gg/table"
)

func (a *Aggregation) header() []string {
	h := []string{a.Primary, a.Secondary, countCol}
	for _, v := range a.values {
		h = append(h, meanPrefix+v)
	}
	return h
}

// WriteCSV writes a as CSV: a header row, then one row per key in key
// order.
func WriteCSV(w io.Writer, a *Aggregation) error {
	cw := csv.NewWriter(w)
	cw.Write(a.header())
	for _, k := range a.keys {
		st := a.stats[k]
		row := []string{strconv.Itoa(k.Primary), strconv.Itoa(k.Secondary), strconv.Itoa(st.Count)}
		for _, v := range a.values {
			row = append(row, strconv.FormatFloat(st.Means[v], 'g', -1, 64))
		}
		cw.Write(row)
	}
	cw.Flush()
	return cw.Error()
}

// WriteText writes a as an aligned text table in key order.
func WriteText(w io.Writer, a *Aggregation) error {
	n := len(a.keys)
	ps, ss, counts := make([]int, n), make([]int, n), make([]int, n)
	means := make([][]float64, len(a.values))
	for j := range means {
		means[j] = make([]float64, n)
	}
	for i, k := range a.keys {
		st := a.stats[k]
		ps[i], ss[i], counts[i] = k.Primary, k.Secondary, st.Count
		for j, v := range a.values {
			means[j][i] = st.Means[v]
		}
	}

	h := a.header()
	var b table.Builder
	b.Add(h[0], ps).Add(h[1], ss).Add(h[2], counts)
	formats := []string{"%d", "%d", "%d"}
	for j := range a.values {
		b.Add(h[3+j], means[j])
		formats = append(formats, "%.6g")
	}
	return table.Fprint(w, b.Done(), formats...)
}
