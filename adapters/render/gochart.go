package render

import (
	"fmt"
	"io"
	"math"

	domain "gohousehold/domain/household"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

func provider(format Format) chart.RendererProvider {
	if format == SVG {
		return chart.SVG
	}
	return chart.PNG
}

// Pie draws the share of each entry. Zero entries are left out.
func Pie(w io.Writer, format Format, cfg ChartConfig, title string, slices []Bar) error {
	values := make([]chart.Value, 0, len(slices))
	for _, s := range slices {
		if s.Value <= 0 {
			continue
		}
		values = append(values, chart.Value{Label: s.Label, Value: s.Value})
	}
	if len(values) == 0 {
		return ErrNoData
	}

	_, height := cfg.Pixels()
	pie := chart.PieChart{
		Title:  title,
		Width:  height,
		Height: height,
		Values: values,
	}
	if err := pie.Render(provider(format), w); err != nil {
		return fmt.Errorf("failed to render pie chart: %w", err)
	}
	return nil
}

// Bars draws a go-chart bar chart sized to fit every bar
func Bars(w io.Writer, format Format, cfg ChartConfig, title string, bars []Bar) error {
	values := make([]chart.Value, 0, len(bars))
	top := 0.0
	for _, b := range bars {
		values = append(values, chart.Value{Label: b.Label, Value: b.Value})
		top = math.Max(top, b.Value)
	}
	if top <= 0 {
		return ErrNoData
	}

	width, height := cfg.Pixels()
	const spacing = 10
	barWidth := (width-120)/len(values) - spacing
	if barWidth < 8 {
		barWidth = 8
		width = len(values)*(barWidth+spacing) + 120
	}
	if barWidth > 60 {
		barWidth = 60
	}

	graph := chart.BarChart{
		Title:      title,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		Width:      width,
		Height:     height,
		BarWidth:   barWidth,
		BarSpacing: spacing,
		YAxis:      chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: top * 1.1}},
		Bars:       values,
	}
	if err := graph.Render(provider(format), w); err != nil {
		return fmt.Errorf("failed to render bar chart: %w", err)
	}
	return nil
}

// ScatterTrend draws the total vs foreign points with an optional fitted line
func ScatterTrend(w io.Writer, format Format, cfg ChartConfig, title string, points []domain.ScatterPoint, trend *domain.Trend) error {
	if len(points) == 0 {
		return ErrNoData
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	annotations := make([]chart.Value2, len(points))
	for i, p := range points {
		xs[i] = float64(p.Total)
		ys[i] = float64(p.Foreign)
		annotations[i] = chart.Value2{XValue: xs[i], YValue: ys[i], Label: p.District}
	}
	xr := paddedRange(xs)
	yr := paddedRange(ys)

	series := []chart.Series{
		chart.ContinuousSeries{
			Name: "구별 가구",
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    5,
				DotColor:    drawing.ColorFromHex("8b0000"),
			},
			XValues: xs,
			YValues: ys,
		},
		chart.AnnotationSeries{Annotations: annotations},
	}
	if trend != nil {
		series = append(series, chart.ContinuousSeries{
			Name:    fmt.Sprintf("y = %.4fx + %.2f", trend.Slope, trend.Intercept),
			Style:   chart.Style{StrokeColor: chart.ColorRed, StrokeWidth: 2},
			XValues: []float64{xr.Min, xr.Max},
			YValues: []float64{trend.Predict(xr.Min), trend.Predict(xr.Max)},
		})
	}

	width, height := cfg.Pixels()
	graph := chart.Chart{
		Title:      title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16}},
		XAxis:      chart.XAxis{Name: "총 가구 수", Range: xr},
		YAxis:      chart.YAxis{Name: "외국인 가구 수", Range: yr},
		Series:     series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(provider(format), w); err != nil {
		return fmt.Errorf("failed to render scatter: %w", err)
	}
	return nil
}

// paddedRange widens [min, max] by 5% so no point sits on the axis. A degenerate range
// is widened by one unit either side.
func paddedRange(values []float64) *chart.ContinuousRange {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		return &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	}
	pad := (hi - lo) * 0.05
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}
