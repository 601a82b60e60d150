// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sweepfmt

import (
	"io"
	"os"
	"strings"
)

// Files reads records from a sequence of sweep logs, one after
// another.
//
// Results are positioned by the path they were read from, or, for an
// entry of the form label=path when AllowLabels is set, by the label.
type Files struct {
	// Paths lists the logs to read.
	Paths []string

	// Schema is the record schema to parse. If nil, RoundtripSchema
	// is used.
	Schema *Schema

	// AllowStdin makes "-" name stdin, and an empty Paths read stdin
	// alone. Command-line tools usually want this.
	AllowStdin bool

	// AllowLabels allows label=path entries in Paths.
	AllowLabels bool

	started bool
	pending []string      // entries of Paths not opened yet
	cur     io.ReadCloser // log being read, or nil between logs
	reader  *Reader
	err     error
}

func (f *Files) start() {
	f.started = true
	f.pending = f.Paths
	if f.AllowStdin && len(f.pending) == 0 {
		f.pending = []string{"-"}
	}
	s := f.Schema
	if s == nil {
		s = RoundtripSchema
	}
	f.reader = &Reader{schema: s}
}

// open opens the next pending log. It reports false when there is none
// or it cannot be opened.
func (f *Files) open() bool {
	if len(f.pending) == 0 {
		return false
	}
	entry := f.pending[0]
	f.pending = f.pending[1:]

	label, path := entry, entry
	if l, p, ok := strings.Cut(entry, "="); ok && f.AllowLabels {
		label, path = l, p
	}
	if f.AllowStdin && path == "-" {
		f.cur = io.NopCloser(os.Stdin)
	} else {
		file, err := os.Open(path)
		if err != nil {
			f.err = err
			return false
		}
		f.cur = file
	}
	f.reader.Reset(f.cur, label)
	return true
}

// Scan advances to the next result across all logs and reports whether
// there is one. It returns false once every log has been read, after an
// I/O error, or after Close; Err tells these apart.
func (f *Files) Scan() bool {
	if f.err != nil {
		return false
	}
	if !f.started {
		f.start()
	}
	for {
		if f.cur == nil && !f.open() {
			return false
		}
		if f.reader.Scan() {
			return true
		}
		if err := f.reader.Err(); err != nil {
			f.err = err
			f.Close()
			return false
		}
		f.cur.Close()
		f.cur = nil
	}
}

// Result returns the result just read by Scan. See Reader.Result.
func (f *Files) Result() Result {
	if f.reader == nil {
		return noResult
	}
	return f.reader.Result()
}

// Err returns the I/O error that stopped Scan, or nil if Scan stopped
// at the end of the last log or has not stopped yet.
func (f *Files) Err() error {
	return f.err
}

// Close closes the log being read, if any, and skips the logs not yet
// opened. Callers that stop before Scan returns false should call it.
// Stdin is never closed.
func (f *Files) Close() error {
	f.started = true
	f.pending = nil
	if f.cur == nil {
		return nil
	}
	err := f.cur.Close()
	f.cur = nil
	return err
}
