// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"io"
	"strconv"

	"github.com/google/safehtml/template"

	"github.com/heatshrink/sweep/internal/config"
	"github.com/heatshrink/sweep/sweepchart"
	"github.com/heatshrink/sweep/sweepstat"
)

var reportTemplate = template.Must(template.New("report").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>Sweep results</title>
<style>
.sweep { border-collapse: collapse; margin-bottom: 2em; }
.sweep th, .sweep td { padding: 0em 1em; }
.sweep td { text-align: right; }
.sweep tr:first-child th { border-bottom: 1px solid #666; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p>{{.Records}} records.</p>
{{range .Charts -}}
<h2>{{.Title}}</h2>
<table class='sweep'>
<tr><th>{{.Corner}}{{range .Columns}}<th>{{.}}{{end}}
{{range .Rows -}}
<tr><th>{{.Label}}{{range .Cells}}<td>{{.}}{{end}}
{{end -}}
</table>
{{end -}}
</body>
</html>
`))

type report struct {
	Title   string
	Records int
	Charts  []reportChart
}

// reportChart is a chart as a table: one row per cluster and one
// column per color. Pairs that were not observed have empty cells.
type reportChart struct {
	Title   string
	Corner  string
	Columns []string
	Rows    []reportRow
}

type reportRow struct {
	Label string
	Cells []string
}

func newReport(cfg *config.Config, records int, dom *sweepchart.Domain, charts []*sweepchart.Chart) *report {
	rep := &report{
		Title:   "Sweep results for " + cfg.File,
		Records: records,
	}
	for _, c := range charts {
		cells := make(map[sweepstat.Key]string, len(c.Bars))
		for _, b := range c.Bars {
			cells[b.Key] = strconv.FormatFloat(b.Value, 'g', 6, 64)
		}
		rc := reportChart{
			Title:   c.Title,
			Corner:  cfg.Primary + ` \ ` + cfg.Secondary,
			Columns: c.Legend,
		}
		for i, p := range dom.Primaries {
			row := reportRow{Label: c.Ticks[i].Label}
			for _, s := range dom.Secondaries {
				row.Cells = append(row.Cells, cells[sweepstat.Key{Primary: p, Secondary: s}])
			}
			rc.Rows = append(rc.Rows, row)
		}
		rep.Charts = append(rep.Charts, rc)
	}
	return rep
}

func (r *report) write(w io.Writer) error {
	return reportTemplate.Execute(w, r)
}
