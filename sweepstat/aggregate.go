// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sweepstat reduces sweep records to per-configuration means.
//
// Records are grouped by a pair of integer key fields (by default
// window_sz2 and lookahead_sz2). Every requested value field is
// averaged over the same grouping, so the means reported for one key
// always describe the same set of records.
package sweepstat

import (
	"fmt"
	"sort"

	"github.com/aclements/go-gg/ggstat"
	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/vec"
	"github.com/heatshrink/sweep/sweepfmt"
)

// A Key identifies one group: a (primary, secondary) pair of key field
// values.
type Key struct {
	Primary, Secondary int
}

// Less orders Keys lexicographically.
func (k Key) Less(o Key) bool {
	if k.Primary != o.Primary {
		return k.Primary < o.Primary
	}
	return k.Secondary < o.Secondary
}

func (k Key) String() string {
	return fmt.Sprintf("(%d, %d)", k.Primary, k.Secondary)
}

// A Stat is the summary of one group.
type Stat struct {
	Key Key
	// Count is the number of records in the group. It is always at
	// least 1.
	Count int
	// Means maps each value field to its arithmetic mean over the
	// group.
	Means map[string]float64
}

// An Aggregation is the result of Aggregate.
type Aggregation struct {
	// Primary and Secondary are the key field names.
	Primary, Secondary string

	values []string
	keys   []Key
	stats  map[Key]*Stat
}

// Keys returns the keys of a in Key.Less order. Exactly the key pairs
// observed in the input are present.
func (a *Aggregation) Keys() []Key {
	return a.keys
}

// Values returns the value fields that were averaged.
func (a *Aggregation) Values() []string {
	return a.values
}

// Stat returns the summary of key k.
func (a *Aggregation) Stat(k Key) (*Stat, bool) {
	s, ok := a.stats[k]
	return s, ok
}

// Mean returns the mean of field over the group k. It reports false if
// k was not observed or field was not aggregated.
func (a *Aggregation) Mean(k Key, field string) (float64, bool) {
	s, ok := a.stats[k]
	if !ok {
		return 0, false
	}
	m, ok := s.Means[field]
	return m, ok
}

// Options configures Aggregate.
type Options struct {
	// Primary and Secondary name the integer key fields.
	Primary, Secondary string
	// Values names the numeric fields to average.
	Values []string
}

// DefaultOptions groups by window and lookahead size and averages the
// compression ratio and time.
var DefaultOptions = Options{
	Primary:   "window_sz2",
	Secondary: "lookahead_sz2",
	Values:    []string{"compression_ratio", "compression_time_us"},
}

func (o Options) validate() error {
	if o.Primary == "" || o.Secondary == "" {
		return fmt.Errorf("key fields must be named")
	}
	if o.Primary == o.Secondary {
		return fmt.Errorf("primary and secondary key are both %q", o.Primary)
	}
	if len(o.Values) == 0 {
		return fmt.Errorf("no value fields to aggregate")
	}
	seen := make(map[string]bool)
	for _, v := range o.Values {
		if v == o.Primary || v == o.Secondary {
			return fmt.Errorf("value field %q is also a key field", v)
		}
		if seen[v] {
			return fmt.Errorf("value field %q listed twice", v)
		}
		seen[v] = true
	}
	return nil
}

// Aggregate groups recs by the key fields of opts and computes the
// count and the mean of every value field per group.
//
// All value fields are reduced over a single grouping pass. Permuting
// recs does not change the result.
func Aggregate(recs []*sweepfmt.Record, opts Options) (agg *Aggregation, err error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, &EmptyInputError{}
	}

	prim := make([]int, len(recs))
	sec := make([]int, len(recs))
	vals := make([][]float64, len(opts.Values))
	for i := range vals {
		vals[i] = make([]float64, len(recs))
	}
	for i, rec := range recs {
		var ok bool
		if prim[i], ok = intField(rec, opts.Primary); !ok {
			return nil, fieldError(rec, opts.Primary, "integer")
		}
		if sec[i], ok = intField(rec, opts.Secondary); !ok {
			return nil, fieldError(rec, opts.Secondary, "integer")
		}
		for j, field := range opts.Values {
			if vals[j][i], ok = rec.Number(field); !ok {
				return nil, fieldError(rec, field, "numeric")
			}
		}
	}

	var b table.Builder
	b.Add(opts.Primary, prim).Add(opts.Secondary, sec)
	for j, field := range opts.Values {
		b.Add(field, vals[j])
	}

	// aggMean reports empty groups by panicking.
	defer func() {
		if e := recover(); e != nil {
			eg, ok := e.(*EmptyGroupError)
			if !ok {
				panic(e)
			}
			agg, err = nil, eg
		}
	}()
	out := table.Flatten(ggstat.Agg(opts.Primary, opts.Secondary)(
		ggstat.AggCount(countCol),
		aggMean(opts.Values...),
	).F(b.Done()))

	agg = &Aggregation{
		Primary:   opts.Primary,
		Secondary: opts.Secondary,
		values:    append([]string(nil), opts.Values...),
		stats:     make(map[Key]*Stat, out.Len()),
	}
	ps := out.MustColumn(opts.Primary).([]int)
	ss := out.MustColumn(opts.Secondary).([]int)
	counts := out.MustColumn(countCol).([]int)
	means := make([][]float64, len(opts.Values))
	for j, field := range opts.Values {
		means[j] = out.MustColumn(meanPrefix + field).([]float64)
	}
	for i := range ps {
		k := Key{ps[i], ss[i]}
		st := &Stat{Key: k, Count: counts[i], Means: make(map[string]float64, len(opts.Values))}
		for j, field := range opts.Values {
			st.Means[field] = means[j][i]
		}
		agg.keys = append(agg.keys, k)
		agg.stats[k] = st
	}
	// GroupBy yields groups in order of first appearance.
	sort.Slice(agg.keys, func(i, j int) bool { return agg.keys[i].Less(agg.keys[j]) })
	return agg, nil
}

const (
	countCol   = "count"
	meanPrefix = "mean "
)

// aggMean is like ggstat.AggMean, but computes each mean as the plain
// sum divided by the count.
func aggMean(cols ...string) ggstat.Aggregator {
	return func(input table.Grouping, b *table.Builder) {
		for _, col := range cols {
			means := make([]float64, 0, len(input.Tables()))
			for _, gid := range input.Tables() {
				xs := input.Table(gid).MustColumn(col).([]float64)
				if len(xs) == 0 {
					panic(&EmptyGroupError{Key: groupKey(gid)})
				}
				// Sum in sorted order so the mean does not depend
				// on record order.
				xs = append([]float64(nil), xs...)
				sort.Float64s(xs)
				means = append(means, vec.Sum(xs)/float64(len(xs)))
			}
			b.Add(meanPrefix+col, means)
		}
	}
}

// groupKey recovers the Key of a two-level GroupBy group.
func groupKey(gid table.GroupID) Key {
	s, _ := gid.Label().(int)
	p, _ := gid.Parent().Label().(int)
	return Key{p, s}
}

func intField(rec *sweepfmt.Record, name string) (int, bool) {
	x, ok := rec.Int(name)
	return int(x), ok
}

func fieldError(rec *sweepfmt.Record, field, want string) error {
	file, line := rec.Pos()
	if file == "" {
		return fmt.Errorf("record has no %s field %q", want, field)
	}
	return fmt.Errorf("%s:%d: record has no %s field %q", file, line, want, field)
}
