// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sweepchart

import (
	"fmt"
	"strconv"

	"github.com/heatshrink/sweep/sweepstat"
)

// A Spec describes one chart: the aggregated field it shows and its
// labels.
type Spec struct {
	Field  string
	Title  string
	XLabel string
	YLabel string
}

// DefaultSpecs are the compression ratio and compression time charts.
var DefaultSpecs = []Spec{
	{
		Field:  "compression_ratio",
		Title:  "Average Compression Ratio for Different Window Sizes and Lookahead Sizes",
		XLabel: "Window Size (2^x)",
		YLabel: "Average Compression Ratio",
	},
	{
		Field:  "compression_time_us",
		Title:  "Average Compression Time for Different Window Sizes and Lookahead Sizes",
		XLabel: "Window Size (2^x)",
		YLabel: "Average Compression Time (us)",
	},
}

// A Tick is a labeled position on the X axis.
type Tick struct {
	Value float64
	Label string
}

// A Chart is a fully laid out clustered bar chart. Renderers draw it as
// is: they must not move, reorder or recolor bars.
type Chart struct {
	Spec

	// Ticks label each cluster with its primary value, in slot order.
	Ticks []Tick
	// Legend labels each color index with its secondary value.
	Legend []string
	// Bars are the placed bars, in increasing X order.
	Bars []BarPlacement
	// BarWidth is the width of each bar in axis units.
	BarWidth float64
}

// Build lays out a single chart of agg over dom.
func Build(agg *sweepstat.Aggregation, dom *Domain, spec Spec, barWidth float64) (*Chart, error) {
	bars, err := Layout(agg, spec.Field, dom, barWidth)
	if err != nil {
		return nil, fmt.Errorf("chart %q: %w", spec.Title, err)
	}
	c := &Chart{Spec: spec, Bars: bars, BarWidth: barWidth}
	for i, p := range dom.Primaries {
		c.Ticks = append(c.Ticks, Tick{Value: float64(i), Label: strconv.Itoa(p)})
	}
	for _, s := range dom.Secondaries {
		c.Legend = append(c.Legend, fmt.Sprintf("%s=%d", agg.Secondary, s))
	}
	return c, nil
}

// BuildAll lays out one chart per spec. All charts share one Domain,
// which is also returned.
func BuildAll(agg *sweepstat.Aggregation, specs []Spec, barWidth float64) ([]*Chart, *Domain, error) {
	dom := NewDomain(agg)
	charts := make([]*Chart, 0, len(specs))
	for _, spec := range specs {
		c, err := Build(agg, dom, spec, barWidth)
		if err != nil {
			return nil, nil, err
		}
		charts = append(charts, c)
	}
	return charts, dom, nil
}
