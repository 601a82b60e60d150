// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Sweepplot charts the results of a heatshrink parameter sweep.
//
// Usage:
//
//	sweepplot [flags] [inputs...]
//
// Each input is a log containing RoundtripConfig records, typically
// the output of the heatshrink end-to-end parameter sweep test. Other
// lines are ignored. If no inputs are given, sweepplot reads stdin. An
// input may be given as label=path to report it under a different
// name.
//
// Sweepplot keeps the records of one source file (-file), averages
// the compression ratio and compression time of every (window_sz2,
// lookahead_sz2) pair, and prints the averages as a table. It then
// draws one clustered bar chart per metric: each window size is a
// cluster and each lookahead size has its own bar and color, the same
// color in every chart.
//
// By default the charts are written to sweep.png in the current
// directory. The -out flag selects another directory or a Cloud
// Storage location of the form gs://bucket/prefix.
//
// A YAML file given with -config can set the charted file, the key
// fields, the charts and their labels, and the image geometry. Flags
// given explicitly on the command line override the file.
//
// Records can be archived to a SQL database with -db driver:dsn, where
// driver is sqlite3 or mysql. With -from-db, sweepplot charts the
// archived records instead of reading inputs.
//
// A malformed record stops sweepplot with an error naming its file and
// line. With -keep-going, malformed records are reported and skipped.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"gonum.org/v1/plot/vg"

	"github.com/heatshrink/sweep/internal/config"
	"github.com/heatshrink/sweep/internal/sink"
	"github.com/heatshrink/sweep/sweepchart"
	"github.com/heatshrink/sweep/sweepdb"
	_ "github.com/heatshrink/sweep/sweepdb/sqlite3"
	"github.com/heatshrink/sweep/sweepfmt"
	"github.com/heatshrink/sweep/sweepstat"
	"github.com/heatshrink/sweep/sweepstore"
)

func usage(fs *flag.FlagSet) func() {
	return func() {
		fmt.Fprintf(fs.Output(), `Usage: sweepplot [flags] [inputs...]

sweepplot reads heatshrink RoundtripConfig records from the input logs
(or stdin), averages them per (window_sz2, lookahead_sz2) pair for one
source file, and draws clustered bar charts of the averages.

`)
		fs.PrintDefaults()
	}
}

func main() {
	log.SetPrefix("sweepplot: ")
	log.SetFlags(0)

	err := sweepplot(os.Stdout, os.Stderr, os.Args[1:])
	switch {
	case err == errUsage:
		os.Exit(2)
	case isEmptyInput(err):
		log.Fatalf("%v (use -list to see the source files)", err)
	case err != nil:
		log.Fatal(err)
	}
}

// errUsage reports a command line error that the flag package has
// already printed.
var errUsage = errors.New("usage error")

type flags struct {
	config    string
	file      string
	barWidth  float64
	png, svg  string
	out       string
	csv       bool
	html      string
	extremes  int
	list      bool
	db        string
	fromDB    bool
	keepGoing bool
}

func sweepplot(w, wE io.Writer, args []string) error {
	var f flags
	fs := flag.NewFlagSet("sweepplot", flag.ContinueOnError)
	fs.SetOutput(wE)
	fs.Usage = usage(fs)
	fs.StringVar(&f.config, "config", "", "read chart configuration from YAML `file`")
	fs.StringVar(&f.file, "file", "tsz-compressed-data.bin", "chart the records of source file `name`")
	fs.Float64Var(&f.barWidth, "bar-width", 0.075, "`width` of each bar, as a fraction of a cluster slot")
	fs.StringVar(&f.png, "png", "sweep.png", "write the charts as PNG to output `name`")
	fs.StringVar(&f.svg, "svg", "", "write the charts as SVG to output `name`")
	fs.StringVar(&f.out, "out", ".", "write outputs to `dir` or gs://bucket/prefix")
	fs.BoolVar(&f.csv, "csv", false, "print the averages as CSV")
	fs.StringVar(&f.html, "html", "", "write an HTML report to output `name`")
	fs.IntVar(&f.extremes, "extremes", 3, "print the `n` records with the lowest and highest value of the first charted field")
	fs.BoolVar(&f.list, "list", false, "list the source files in the inputs and exit")
	fs.StringVar(&f.db, "db", "", "archive records to the database `driver:dsn`")
	fs.BoolVar(&f.fromDB, "from-db", false, "read records from the -db archive instead of inputs")
	fs.BoolVar(&f.keepGoing, "keep-going", false, "skip malformed records instead of stopping")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	cfg, err := loadConfig(fs, &f)
	if err != nil {
		return err
	}
	if f.fromDB && f.db == "" {
		return fmt.Errorf("-from-db requires -db")
	}

	ctx := context.Background()
	var db *sweepdb.DB
	if f.db != "" {
		driver, dsn, ok := strings.Cut(f.db, ":")
		if !ok {
			return fmt.Errorf("-db %q: want driver:dsn", f.db)
		}
		db, err = sweepdb.OpenSQL(driver, dsn)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()
	}

	store := sweepstore.New(cfg.Discriminant)
	if f.fromDB {
		recs, err := db.Records(ctx, sweepfmt.RoundtripSchema, "")
		if err != nil {
			return err
		}
		for _, rec := range recs {
			if err := store.Ingest(rec); err != nil {
				return err
			}
		}
	} else {
		files := &sweepfmt.Files{Paths: fs.Args(), AllowStdin: true, AllowLabels: true}
		warn := func(format string, args ...interface{}) {
			fmt.Fprintf(wE, format+"\n", args...)
		}
		if err := load(ctx, files, store, db, f.keepGoing, warn); err != nil {
			return err
		}
	}

	if f.list {
		for _, name := range store.Discriminants() {
			fmt.Fprintf(w, "%6d %s\n", len(store.RecordsFor(name)), name)
		}
		return nil
	}

	recs, err := sweepstat.Select(store, cfg.File)
	if err != nil {
		return err
	}
	agg, err := sweepstat.Aggregate(recs, cfg.Options())
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s %s: %d records\n\n", cfg.Discriminant, cfg.File, len(recs))
	if f.csv {
		err = sweepstat.WriteCSV(w, agg)
	} else {
		err = sweepstat.WriteText(w, agg)
	}
	if err != nil {
		return err
	}

	if f.extremes > 0 {
		field := cfg.Charts[0].Field
		bottom, top, err := sweepstat.Extremes(recs, field, f.extremes)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "\nBottom %d %s:\n", len(bottom), field)
		for _, rec := range bottom {
			fmt.Fprintln(w, rec)
		}
		fmt.Fprintf(w, "\nTop %d %s:\n", len(top), field)
		for _, rec := range top {
			fmt.Fprintln(w, rec)
		}
	}

	charts, dom, err := sweepchart.BuildAll(agg, cfg.Specs(), cfg.BarWidth)
	if err != nil {
		return err
	}
	if f.png == "" && f.svg == "" && f.html == "" {
		return nil
	}
	colors, err := sweepchart.Palette(cfg.Palette, len(dom.Secondaries))
	if err != nil {
		return err
	}
	r := &sweepchart.Renderer{
		Colors: colors,
		Width:  vg.Length(cfg.WidthCm) * vg.Centimeter,
		Height: vg.Length(cfg.HeightCm) * vg.Centimeter,
		DPI:    cfg.DPI,
	}

	out, err := sink.Open(ctx, f.out)
	if err != nil {
		return err
	}
	defer out.Close()
	for _, img := range []struct{ name, format string }{{f.png, "png"}, {f.svg, "svg"}} {
		if img.name == "" {
			continue
		}
		err := writeOutput(ctx, out, img.name, func(w io.Writer) error {
			return r.Render(w, img.format, charts...)
		})
		if err != nil {
			return err
		}
	}
	if f.html != "" {
		rep := newReport(cfg, len(recs), dom, charts)
		if err := writeOutput(ctx, out, f.html, rep.write); err != nil {
			return err
		}
	}
	return nil
}

// loadConfig reads the -config file, if any, and applies the flags that
// were set explicitly.
func loadConfig(fs *flag.FlagSet, f *flags) (*config.Config, error) {
	cfg := config.Default()
	if f.config != "" {
		var err error
		if cfg, err = config.LoadFile(f.config); err != nil {
			return nil, err
		}
	}
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "file":
			cfg.File = f.file
		case "bar-width":
			cfg.BarWidth = f.barWidth
		}
	})
	return cfg, cfg.Validate()
}

// load reads every record from files into store, archiving them to db
// if it is non-nil.
func load(ctx context.Context, files *sweepfmt.Files, store *sweepstore.Store, db *sweepdb.DB, keepGoing bool, warn func(format string, args ...interface{})) error {
	defer files.Close()
	var upload *sweepdb.Upload
	for files.Scan() {
		switch res := files.Result().(type) {
		case *sweepfmt.ParseError:
			if !keepGoing {
				return res
			}
			// Non-fatal result parse error. Warn
			// but keep going.
			warn("%v", res)
		case *sweepfmt.Record:
			if err := store.Ingest(res); err != nil {
				return err
			}
			if db == nil {
				continue
			}
			if upload == nil {
				var err error
				if upload, err = db.NewUpload(ctx); err != nil {
					return fmt.Errorf("archiving records: %w", err)
				}
			}
			bucket, _ := res.Str(store.Field())
			if err := upload.InsertRecord(ctx, bucket, res); err != nil {
				return fmt.Errorf("archiving records: %w", err)
			}
		}
	}
	return files.Err()
}

// writeOutput creates name in out and fills it with write.
func writeOutput(ctx context.Context, out sink.Sink, name string, write func(io.Writer) error) error {
	wc, err := out.Create(ctx, name)
	if err != nil {
		return err
	}
	if err := write(wc); err != nil {
		wc.Close()
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

// isEmptyInput reports whether err means there was nothing to chart.
func isEmptyInput(err error) bool {
	var e *sweepstat.EmptyInputError
	return errors.As(err, &e)
}
