// Package chart renders recordings with their detected pulses, as static
// PNG plots (gonum/plot) or interactive HTML pages (go-echarts).
package chart

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/pulse.report/internal/pulse"
)

var (
	rawColor       = color.RGBA{R: 0xb0, G: 0xb0, B: 0xb0, A: 0xff}
	smoothedColor  = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	onsetColor     = color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff}
	piggybackColor = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
)

const (
	pngWidth  = 14 * vg.Inch
	pngHeight = 6 * vg.Inch
)

// WritePNG plots the raw and smoothed traces of one recording and marks the
// surviving onsets and removed piggybacks on the smoothed trace.
func WritePNG(w io.Writer, name string, raw []int, res pulse.Result) error {
	p := plot.New()
	p.Title.Text = name
	p.X.Label.Text = "Sample"
	p.Y.Label.Text = "Value (inverted)"

	if err := addLine(p, "raw", series(raw), rawColor); err != nil {
		return err
	}
	if err := addLine(p, "smoothed", series(res.Smoothed), smoothedColor); err != nil {
		return err
	}
	if err := addMarkers(p, "onset", markers(res.Smoothed, res.Resolved), onsetColor, draw.CircleGlyph{}); err != nil {
		return err
	}
	if err := addMarkers(p, "piggyback", markers(res.Smoothed, res.Piggybacks), piggybackColor, draw.CrossGlyph{}); err != nil {
		return err
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	wt, err := p.WriterTo(pngWidth, pngHeight, "png")
	if err != nil {
		return fmt.Errorf("failed to create png canvas: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write png: %w", err)
	}
	return nil
}

func addLine(p *plot.Plot, label string, pts plotter.XYs, c color.Color) error {
	if len(pts) == 0 {
		return nil
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("%s line: %w", label, err)
	}
	line.Color = c
	line.Width = vg.Points(1)
	p.Add(line)
	p.Legend.Add(label, line)
	return nil
}

func addMarkers(p *plot.Plot, label string, pts plotter.XYs, c color.Color, shape draw.GlyphDrawer) error {
	if len(pts) == 0 {
		return nil
	}
	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("%s markers: %w", label, err)
	}
	sc.GlyphStyle.Color = c
	sc.GlyphStyle.Shape = shape
	sc.GlyphStyle.Radius = vg.Points(4)
	p.Add(sc)
	p.Legend.Add(label, sc)
	return nil
}

// series converts samples to plot points indexed by sample number.
func series(samples []int) plotter.XYs {
	pts := make(plotter.XYs, len(samples))
	for i, v := range samples {
		pts[i] = plotter.XY{X: float64(i), Y: float64(v)}
	}
	return pts
}

// markers places a point on trace at each index; out-of-range indices are dropped.
func markers(trace, indices []int) plotter.XYs {
	pts := make(plotter.XYs, 0, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(trace) {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(i), Y: float64(trace[i])})
	}
	return pts
}
