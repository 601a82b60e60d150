// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sweepchart

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgsvg"
)

// Palette returns n distinct colors. Up to the size of the named
// qualitative ColorBrewer palette, they are its first n colors. Brewer
// palettes hold at most a dozen colors, so larger n get n evenly spaced
// hues instead.
func Palette(name string, n int) ([]color.Color, error) {
	if n <= 0 {
		return nil, fmt.Errorf("palette of %d colors", n)
	}
	// Brewer palettes start at 3 colors.
	k := n
	if k < 3 {
		k = 3
	}
	p, err := brewer.GetPalette(brewer.TypeQualitative, name, k)
	if err == nil {
		return p.Colors()[:n], nil
	}
	if _, err3 := brewer.GetPalette(brewer.TypeQualitative, name, 3); err3 != nil {
		return nil, err
	}
	last := palette.Hue(float64(n-1) / float64(n))
	return palette.Rainbow(n, palette.Red, last, 0.75, 0.9, 1).Colors(), nil
}

// A Renderer draws Charts.
type Renderer struct {
	// Colors maps a bar's color index to a color, usually from
	// Palette. It must be non-empty; indexes past the end wrap around.
	Colors []color.Color

	// Width is the image width. Height is the height of each
	// chart; charts are stacked vertically.
	Width, Height vg.Length

	// DPI is the resolution of raster output.
	DPI int
}

const (
	defaultWidth  = 25 * vg.Centimeter
	defaultHeight = 12 * vg.Centimeter
	defaultDPI    = 150
)

func (r *Renderer) color(i int) color.Color {
	return r.Colors[i%len(r.Colors)]
}

// Plot returns a plot of chart c.
func (r *Renderer) Plot(c *Chart) (*plot.Plot, error) {
	if len(r.Colors) == 0 {
		return nil, fmt.Errorf("renderer has no colors")
	}

	p := plot.New()
	p.Title.Text = c.Title
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	p.Add(grid)

	p.Add(&bars{chart: c, r: r})

	ticks := make([]plot.Tick, len(c.Ticks))
	for i, t := range c.Ticks {
		ticks[i] = plot.Tick{Value: t.Value, Label: t.Label}
	}
	p.X.Tick.Marker = plot.ConstantTicks(ticks)

	p.Legend.Top = true
	p.Legend.Padding = vg.Millimeter
	for i, label := range c.Legend {
		p.Legend.Add(label, swatch{r.color(i)})
	}
	return p, nil
}

// Render draws charts one above another and writes the image to w in
// format "png" or "svg".
func (r *Renderer) Render(w io.Writer, format string, charts ...*Chart) error {
	if len(charts) == 0 {
		return fmt.Errorf("no charts to render")
	}
	plots := make([][]*plot.Plot, len(charts))
	for i, c := range charts {
		p, err := r.Plot(c)
		if err != nil {
			return err
		}
		plots[i] = []*plot.Plot{p}
	}

	width, height, dpi := r.Width, r.Height, r.DPI
	if width == 0 {
		width = defaultWidth
	}
	if height == 0 {
		height = defaultHeight
	}
	if dpi == 0 {
		dpi = defaultDPI
	}
	height *= vg.Length(len(charts))

	var can vg.CanvasWriterTo
	switch format {
	case "png":
		can = vgimg.PngCanvas{Canvas: vgimg.NewWith(vgimg.UseWH(width, height),
			vgimg.UseDPI(dpi), vgimg.UseBackgroundColor(color.White))}
	case "svg":
		can = vgsvg.New(width, height)
	default:
		return fmt.Errorf("unknown image format %q", format)
	}

	tiles := draw.Tiles{
		Rows:      len(charts),
		Cols:      1,
		PadX:      vg.Millimeter,
		PadY:      5 * vg.Millimeter,
		PadTop:    2 * vg.Millimeter,
		PadBottom: 2 * vg.Millimeter,
		PadLeft:   2 * vg.Millimeter,
		PadRight:  2 * vg.Millimeter,
	}
	canvases := plot.Align(plots, tiles, draw.New(can))
	for i := range plots {
		plots[i][0].Draw(canvases[i][0])
	}
	_, err := can.WriteTo(w)
	return err
}

// bars plots the bars of a Chart as rectangles in data coordinates.
type bars struct {
	chart *Chart
	r     *Renderer
}

func (b *bars) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	half := b.chart.BarWidth / 2
	for _, bar := range b.chart.Bars {
		if !finite(bar.Value) {
			continue
		}
		x0, x1 := trX(bar.X-half), trX(bar.X+half)
		y0, y1 := trY(0), trY(bar.Value)
		pts := []vg.Point{{X: x0, Y: y0}, {X: x0, Y: y1}, {X: x1, Y: y1}, {X: x1, Y: y0}}
		c.FillPolygon(b.r.color(bar.Color), c.ClipPolygonXY(pts))
	}
}

// DataRange covers every drawn bar and every tick, and always includes
// 0 on the Y axis. Bars with a NaN or infinite value are not drawn.
func (b *bars) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin, xmax = math.Inf(1), math.Inf(-1)
	for _, t := range b.chart.Ticks {
		xmin, xmax = math.Min(xmin, t.Value), math.Max(xmax, t.Value)
	}
	for _, bar := range b.chart.Bars {
		if !finite(bar.Value) {
			continue
		}
		xmin, xmax = math.Min(xmin, bar.X), math.Max(xmax, bar.X)
		ymin, ymax = math.Min(ymin, bar.Value), math.Max(ymax, bar.Value)
	}
	if math.IsInf(xmin, 0) {
		return 0, 1, 0, 1
	}
	pad := b.chart.BarWidth
	return xmin - pad, xmax + pad, ymin, ymax
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// swatch is a legend entry for one color.
type swatch struct {
	color.Color
}

func (s swatch) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(s.Color, c.ClipPolygonY(pts))
}
