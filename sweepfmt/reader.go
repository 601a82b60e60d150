// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sweepfmt

import (
	"bufio"
	"fmt"
	"io"
)

// A Reader reads records of one Schema from a log.
//
// Its API is modeled on bufio.Scanner. Records are immutable and
// freshly allocated, so a caller may retain everything Result returns.
type Reader struct {
	s      *bufio.Scanner
	schema *Schema
	err    error // current I/O error

	fileName string
	line     int

	res Result
}

// A Result is a single item read from a log. It is either a *Record or
// a *ParseError.
type Result interface {
	// Pos returns the position of this result as a file name and a
	// 1-based line number within that file. If this result was not
	// read from a file, it returns "", 0.
	Pos() (fileName string, line int)
}

var _ Result = (*Record)(nil)
var _ Result = (*ParseError)(nil)

var noResult = &ParseError{Msg: "Reader.Scan has not been called"}

// maxLine is the longest line the Reader accepts. Sweep logs are
// interleaved with arbitrary test output, so be generous.
const maxLine = 1 << 20

// NewReader constructs a reader that parses records of schema s from r.
// fileName is used in positions and error messages; it is purely
// diagnostic.
func NewReader(r io.Reader, fileName string, s *Schema) *Reader {
	reader := &Reader{schema: s}
	reader.Reset(r, fileName)
	return reader
}

// Reset resets the reader to begin reading from a new input.
func (r *Reader) Reset(ior io.Reader, fileName string) {
	r.s = bufio.NewScanner(ior)
	r.s.Buffer(nil, maxLine)
	if fileName == "" {
		fileName = "<unknown>"
	}
	r.fileName = fileName
	r.line = 0
	r.err = nil
	r.res = nil
}

// Scan advances the reader to the next record or malformed record and
// reports whether one was read. Lines without a record marker are
// skipped. If Scan reaches EOF or an I/O error occurs, it returns
// false, in which case the caller should use the Err method to check
// for errors.
func (r *Reader) Scan() bool {
	if r.err != nil {
		return false
	}
	for r.s.Scan() {
		r.line++
		rec, err := parse(r.schema, r.s.Text())
		if err != nil {
			err.FileName, err.Line = r.fileName, r.line
			r.res = err
			return true
		}
		if rec != nil {
			rec.fileName, rec.line = r.fileName, r.line
			r.res = rec
			return true
		}
		// Not a record. Ignore the line.
	}
	r.res = nil
	if err := r.s.Err(); err != nil {
		r.err = fmt.Errorf("%s:%d: %w", r.fileName, r.line, err)
	}
	return false
}

// Result returns the item that was just read by Scan. This is either a
// *Record or a *ParseError describing a malformed record.
//
// Parse errors are non-fatal, so the caller can continue to call Scan.
// Whether a malformed record aborts processing is up to the caller.
func (r *Reader) Result() Result {
	if r.res == nil {
		return noResult
	}
	return r.res
}

// Err returns the first non-EOF I/O error that was encountered by the
// Reader.
func (r *Reader) Err() error {
	return r.err
}
