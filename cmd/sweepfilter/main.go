// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// sweepfilter reads heatshrink sweep records from input files, filters
// them, and writes the matching records to stdout. If no inputs are
// provided, it reads from stdin.
//
// A record matches if every -where key=value condition holds, where
// value is compared with the field's text as it appears in the record,
// without quotes. -file name is shorthand for -where file_name=name.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/heatshrink/sweep/sweepfmt"
)

func usage(fs *flag.FlagSet) func() {
	return func() {
		fmt.Fprintf(fs.Output(), `Usage: sweepfilter [-file name] [-where key=value]... [inputs...]

sweepfilter reads heatshrink sweep records from input files, filters
them, and writes matching records to stdout. Malformed records are
reported on stderr and dropped. If no inputs are provided, it reads
from stdin.

`)
		fs.PrintDefaults()
	}
}

func main() {
	log.SetPrefix("")
	log.SetFlags(0)

	if err := sweepfilter(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		if err == errUsage {
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

var errUsage = fmt.Errorf("usage error")

// conds is a repeatable key=value flag.
type conds []cond

type cond struct {
	key, value string
}

func (c *conds) String() string {
	var parts []string
	for _, x := range *c {
		parts = append(parts, x.key+"="+x.value)
	}
	return strings.Join(parts, ",")
}

func (c *conds) Set(s string) error {
	key, value, ok := strings.Cut(s, "=")
	if !ok || key == "" {
		return fmt.Errorf("want key=value")
	}
	if _, _, ok := sweepfmt.RoundtripSchema.Lookup(key); !ok {
		return fmt.Errorf("unknown field %q", key)
	}
	*c = append(*c, cond{key, value})
	return nil
}

func (c conds) match(rec *sweepfmt.Record) bool {
	for _, x := range c {
		if v, ok := rec.Text(x.key); !ok || v != x.value {
			return false
		}
	}
	return true
}

func sweepfilter(w, wE io.Writer, args []string) error {
	var where conds
	fs := flag.NewFlagSet("sweepfilter", flag.ContinueOnError)
	fs.SetOutput(wE)
	fs.Usage = usage(fs)
	file := fs.String("file", "", "keep records of source file `name`")
	fs.Var(&where, "where", "keep records whose field `key=value`; may be repeated")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *file != "" {
		where = append(where, cond{"file_name", *file})
	}

	writer := sweepfmt.NewWriter(w)
	files := sweepfmt.Files{Paths: fs.Args(), AllowStdin: true, AllowLabels: true}
	defer files.Close()
	for files.Scan() {
		res := files.Result()
		switch res := res.(type) {
		case *sweepfmt.ParseError:
			// Non-fatal result parse error. Warn
			// but keep going.
			fmt.Fprintln(wE, res)
			continue
		case *sweepfmt.Record:
			if !where.match(res) {
				continue
			}
		}

		if err := writer.Write(res); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	}
	return files.Err()
}
