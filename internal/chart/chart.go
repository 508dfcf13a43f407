// Package chart draws the per-country box-and-whisker plot of a metric.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/KaramelBytes/solardash/internal/analysis"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var (
	ErrNoData            = errors.New("no data to plot")
	ErrUnsupportedFormat = errors.New("unsupported chart format")
)

// palette follows the qualitative Set2 scheme.
var palette = []color.RGBA{
	{R: 0x66, G: 0xc2, B: 0xa5, A: 0xff},
	{R: 0xfc, G: 0x8d, B: 0x62, A: 0xff},
	{R: 0x8d, G: 0xa0, B: 0xcb, A: 0xff},
	{R: 0xe7, G: 0x8a, B: 0xc3, A: 0xff},
	{R: 0xa6, G: 0xd8, B: 0x54, A: 0xff},
	{R: 0xff, G: 0xd9, B: 0x2f, A: 0xff},
	{R: 0xe5, G: 0xc4, B: 0x94, A: 0xff},
	{R: 0xb3, G: 0xb3, B: 0xb3, A: 0xff},
}

// Options sets the output size and encoding.
type Options struct {
	Width  vg.Length
	Height vg.Length
	// Format is "png" or "svg".
	Format string
}

// DefaultOptions renders a 10x6 inch PNG.
func DefaultOptions() Options {
	return Options{Width: 10 * vg.Inch, Height: 6 * vg.Inch, Format: "png"}
}

// ParseFormat normalizes a format name or file extension.
func ParseFormat(s string) (string, error) {
	f := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".")
	switch f {
	case "png", "svg":
		return f, nil
	case "":
		return "png", nil
	}
	return "", fmt.Errorf("%w: %q (use png or svg)", ErrUnsupportedFormat, s)
}

// ContentType is the MIME type for a parsed format.
func ContentType(format string) string {
	if format == "svg" {
		return "image/svg+xml"
	}
	return "image/png"
}

// BoxPlot builds one box per group, placed left to right in group order.
// Groups without values keep their axis label but draw no box.
func BoxPlot(samples *analysis.Samples, metric string) (*plot.Plot, error) {
	if samples == nil || len(samples.Keys) == 0 {
		return nil, ErrNoData
	}
	p := plot.New()
	p.Title.Text = metric + " Comparison"
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "Country"
	p.Y.Label.Text = metric + " (W/m^2)"
	p.Add(plotter.NewGrid())

	drawn := 0
	width := vg.Points(40)
	for i, vals := range samples.Values {
		if len(vals) == 0 {
			continue
		}
		box, err := plotter.NewBoxPlot(width, float64(i), plotter.Values(vals))
		if err != nil {
			return nil, fmt.Errorf("box for %s: %w", samples.Keys[i], err)
		}
		box.FillColor = palette[i%len(palette)]
		box.GlyphStyle.Shape = draw.CircleGlyph{}
		box.GlyphStyle.Radius = vg.Points(1.5)
		p.Add(box)
		drawn++
	}
	if drawn == 0 {
		return nil, ErrNoData
	}
	p.NominalX(samples.Keys...)
	return p, nil
}

// Render encodes p to w.
func Render(w io.Writer, p *plot.Plot, opt Options) error {
	format, err := ParseFormat(opt.Format)
	if err != nil {
		return err
	}
	if opt.Width <= 0 || opt.Height <= 0 {
		def := DefaultOptions()
		opt.Width, opt.Height = def.Width, def.Height
	}
	wt, err := p.WriterTo(opt.Width, opt.Height, format)
	if err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write %s: %w", format, err)
	}
	return nil
}
