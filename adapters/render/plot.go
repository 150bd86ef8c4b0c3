package render

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"

	domain "gohousehold/domain/household"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var (
	barColor   = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	pointColor = color.RGBA{R: 139, G: 0, B: 0, A: 255}
	trendColor = color.RGBA{R: 220, G: 20, B: 60, A: 255}
)

// BarChart draws one bar per entry, in the given order
func BarChart(w io.Writer, format Format, cfg ChartConfig, title, yLabel string, bars []Bar) error {
	if len(bars) == 0 {
		return ErrNoData
	}

	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.Y.Label.Text = yLabel

	values := make(plotter.Values, len(bars))
	labels := make([]string, len(bars))
	for i, b := range bars {
		values[i] = b.Value
		labels[i] = b.Label
	}

	chart, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return fmt.Errorf("failed to build bar chart: %w", err)
	}
	chart.Color = barColor
	chart.LineStyle.Width = vg.Length(0)
	p.Add(chart)

	p.NominalX(labels...)
	rotateTicks(p)
	p.Y.Min = 0

	return save(p, w, format, cfg)
}

// Heatmap draws a cross-tab as colored cells annotated with their values. Missing cells
// are left white.
func Heatmap(w io.Writer, format Format, cfg ChartConfig, title string, ct domain.CrossTab) error {
	lo, hi, ok := ct.Range()
	if !ok {
		return ErrNoData
	}

	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(16)

	hm := plotter.NewHeatMap(crossGrid{ct: ct}, palette.Heat(16, 1))
	hm.NaN = color.White
	hm.Min = float64(lo)
	hm.Max = float64(hi)
	if hm.Max == hm.Min {
		hm.Max = hm.Min + 1
	}
	p.Add(hm)

	var xys plotter.XYs
	var annotations []string
	for r, row := range ct.Cells {
		for c, cell := range row {
			if !cell.Present {
				continue
			}
			xys = append(xys, plotter.XY{X: float64(c), Y: float64(r)})
			annotations = append(annotations, strconv.FormatInt(cell.Value, 10))
		}
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: annotations})
	if err != nil {
		return fmt.Errorf("failed to annotate heatmap: %w", err)
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = draw.XCenter
		labels.TextStyle[i].YAlign = draw.YCenter
	}
	p.Add(labels)

	p.NominalX(ct.Columns...)
	p.NominalY(ct.Index...)
	rotateTicks(p)

	return save(p, w, format, cfg)
}

// crossGrid adapts a CrossTab to plotter.GridXYZ. Columns run along X, index rows along Y.
type crossGrid struct {
	ct domain.CrossTab
}

func (g crossGrid) Dims() (c, r int) { return len(g.ct.Columns), len(g.ct.Index) }
func (g crossGrid) X(c int) float64  { return float64(c) }
func (g crossGrid) Y(r int) float64  { return float64(r) }

func (g crossGrid) Z(c, r int) float64 {
	cell := g.ct.Cells[r][c]
	if !cell.Present {
		return math.NaN()
	}
	return float64(cell.Value)
}

// Scatter plots total against foreign households per district, labelled with the
// district name. A non-nil trend is drawn across the observed total range.
func Scatter(w io.Writer, format Format, cfg ChartConfig, title string, points []domain.ScatterPoint, trend *domain.Trend) error {
	if len(points) == 0 {
		return ErrNoData
	}

	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = "총 가구 수"
	p.Y.Label.Text = "외국인 가구 수"

	xys := make(plotter.XYs, len(points))
	names := make([]string, len(points))
	minX, maxX := math.Inf(1), math.Inf(-1)
	for i, pt := range points {
		xys[i] = plotter.XY{X: float64(pt.Total), Y: float64(pt.Foreign)}
		names[i] = pt.District
		minX = math.Min(minX, xys[i].X)
		maxX = math.Max(maxX, xys[i].X)
	}

	scatter, err := plotter.NewScatter(xys)
	if err != nil {
		return fmt.Errorf("failed to build scatter: %w", err)
	}
	scatter.GlyphStyle.Color = pointColor
	scatter.GlyphStyle.Radius = vg.Points(4)
	p.Add(scatter, plotter.NewGrid())

	if trend != nil {
		line, err := plotter.NewLine(plotter.XYs{
			{X: minX, Y: trend.Predict(minX)},
			{X: maxX, Y: trend.Predict(maxX)},
		})
		if err != nil {
			return fmt.Errorf("failed to build trend line: %w", err)
		}
		line.Color = trendColor
		line.Width = vg.Points(2)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("y = %.4fx + %.2f", trend.Slope, trend.Intercept), line)
	}

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: names})
	if err != nil {
		return fmt.Errorf("failed to label scatter: %w", err)
	}
	p.Add(labels)

	return save(p, w, format, cfg)
}

// BoxPlot draws one box per district
func BoxPlot(w io.Writer, format Format, cfg ChartConfig, title string, groups []domain.DistrictValues) error {
	names := make([]string, 0, len(groups))
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(16)

	for _, g := range groups {
		if len(g.Values) == 0 {
			continue
		}
		box, err := plotter.NewBoxPlot(vg.Points(20), float64(len(names)), plotter.Values(g.Values))
		if err != nil {
			return fmt.Errorf("failed to build box for %s: %w", g.District, err)
		}
		box.FillColor = barColor
		p.Add(box)
		names = append(names, g.District)
	}
	if len(names) == 0 {
		return ErrNoData
	}

	p.NominalX(names...)
	rotateTicks(p)

	return save(p, w, format, cfg)
}

func rotateTicks(p *plot.Plot) {
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
}

func save(p *plot.Plot, w io.Writer, format Format, cfg ChartConfig) error {
	wt, err := p.WriterTo(cfg.Width, cfg.Height, string(format))
	if err != nil {
		return fmt.Errorf("failed to create %s canvas: %w", format, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write %s: %w", format, err)
	}
	return nil
}
