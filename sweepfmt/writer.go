// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sweepfmt

import (
	"fmt"
	"io"
)

// A Writer writes records in the same syntax they are read in, one per
// line.
type Writer struct {
	w   io.Writer
	buf []byte
}

// NewWriter returns a writer that writes records to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write writes Result res to w. Parse errors are ignored, so a Writer
// can be fed straight from a Reader.
func (w *Writer) Write(res Result) error {
	switch res := res.(type) {
	case *Record:
		w.buf = res.appendTo(w.buf[:0])
		w.buf = append(w.buf, '\n')
	case *ParseError:
		return nil
	default:
		return fmt.Errorf("unknown Result type %T", res)
	}
	_, err := w.w.Write(w.buf)
	return err
}
