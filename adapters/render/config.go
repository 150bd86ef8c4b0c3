// Package render draws the household views as PNG or SVG charts. Static charts use
// gonum/plot, the pie and the dashboard charts use go-chart.
package render

import (
	"errors"
	"fmt"
	"strings"

	domain "gohousehold/domain/household"

	"gonum.org/v1/plot/vg"
)

// Format is an output image format
type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

// ParseFormat accepts "png" or "svg", case-insensitively
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case PNG, SVG:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported image format %q", s)
	}
}

// ContentType returns the MIME type served for the format
func (f Format) ContentType() string {
	if f == SVG {
		return "image/svg+xml"
	}
	return "image/png"
}

// ChartConfig holds the canvas size shared by every chart
type ChartConfig struct {
	Width  vg.Length
	Height vg.Length
	DPI    float64
}

// DefaultChartConfig matches a 12x6 inch figure
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:  12 * vg.Inch,
		Height: 6 * vg.Inch,
		DPI:    96,
	}
}

// Pixels converts the canvas size to pixels at the configured DPI
func (c ChartConfig) Pixels() (int, int) {
	dpi := c.DPI
	if dpi <= 0 {
		dpi = 96
	}
	return int(c.Width.Dots(dpi)), int(c.Height.Dots(dpi))
}

// Bar is one labelled value of a bar or pie chart
type Bar struct {
	Label string
	Value float64
}

// BarsOf labels each record's value with one of its columns
func BarsOf(records []domain.Record, labelColumn string) []Bar {
	bars := make([]Bar, len(records))
	for i, r := range records {
		bars[i] = Bar{Label: r.Cell(labelColumn), Value: float64(r.Value)}
	}
	return bars
}

// ErrNoData is returned when a chart has nothing to draw
var ErrNoData = errors.New("no data to chart")
