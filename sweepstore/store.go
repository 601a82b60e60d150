// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sweepstore collects parsed sweep records, bucketed by a
// string discriminant field such as the source file name.
package sweepstore

import (
	"fmt"
	"sort"

	"github.com/heatshrink/sweep/sweepfmt"
)

// A Store holds records partitioned by the value of one string field.
// Within a bucket, records are kept in the order they were ingested.
// Identical records are not merged.
//
// A Store is not safe for concurrent writers.
type Store struct {
	field   string
	buckets map[string][]*sweepfmt.Record
	n       int
}

// New returns an empty Store that buckets records by field.
func New(field string) *Store {
	return &Store{field: field, buckets: make(map[string][]*sweepfmt.Record)}
}

// Field returns the discriminant field of s.
func (s *Store) Field() string {
	return s.field
}

// Ingest appends rec to the bucket named by its discriminant. It fails
// only if rec has no string field of that name.
func (s *Store) Ingest(rec *sweepfmt.Record) error {
	name, ok := rec.Str(s.field)
	if !ok {
		return fmt.Errorf("record has no string field %q", s.field)
	}
	s.buckets[name] = append(s.buckets[name], rec)
	s.n++
	return nil
}

// RecordsFor returns the records of the named bucket in arrival order.
// It returns nil for a name that was never ingested. The caller must
// not modify the returned slice.
func (s *Store) RecordsFor(name string) []*sweepfmt.Record {
	return s.buckets[name]
}

// Discriminants returns the bucket names in sorted order.
func (s *Store) Discriminants() []string {
	names := make([]string, 0, len(s.buckets))
	for name := range s.buckets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the total number of records ingested.
func (s *Store) Len() int {
	return s.n
}
