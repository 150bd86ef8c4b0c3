// Package report writes the batch outputs: five chart images, a Markdown report with an
// HTML rendering, and an XLSX workbook of the views.
package report

import (
	stderrors "errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"gohousehold/adapters/render"
	domain "gohousehold/domain/household"
	"gohousehold/internal/errors"
	"gohousehold/internal/household"
)

// Image is one static chart of the report
type Image struct {
	File string
	Alt  string
	draw func(s *household.Shaper, w io.Writer, cfg render.ChartConfig) error
}

// Images lists the report charts in the order they are linked
var Images = []Image{
	{File: "1_total_households_by_gu.png", Alt: "구별 총 가구 수", draw: drawTotals},
	{File: "2_household_types_pie.png", Alt: "가구 유형별 비중", draw: drawTypes},
	{File: "3_single_households_by_gu.png", Alt: "구별 1인가구 수", draw: drawSingles},
	{File: "4_household_heatmap.png", Alt: "가구 유형 히트맵", draw: drawHeatmap},
	{File: "5_total_vs_foreign_scatter.png", Alt: "총가구 vs 외국인가구", draw: drawScatter},
}

// LookupImage finds a report chart by file name
func LookupImage(file string) (Image, bool) {
	for _, img := range Images {
		if img.File == file {
			return img, true
		}
	}
	return Image{}, false
}

// Render draws the chart as PNG
func (img Image) Render(s *household.Shaper, w io.Writer, cfg render.ChartConfig) error {
	return img.draw(s, w, cfg)
}

// RenderImages writes every report chart into dir, creating it when needed, and returns
// the written paths in link order.
func RenderImages(s *household.Shaper, dir string, cfg render.ChartConfig) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create plots directory %s", dir)
	}

	paths := make([]string, 0, len(Images))
	for _, img := range Images {
		path := filepath.Join(dir, img.File)
		if err := writeImage(s, img, path, cfg); err != nil {
			return nil, err
		}
		log.Printf("[Report] Saved %s", path)
		paths = append(paths, path)
	}
	log.Printf("[Report] Saved %d charts to %s", len(paths), dir)
	return paths, nil
}

func writeImage(s *household.Shaper, img Image, path string, cfg render.ChartConfig) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	defer f.Close()

	if err := img.Render(s, f, cfg); err != nil {
		if stderrors.Is(err, render.ErrNoData) {
			return errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("%s: %w", img.File, err))
		}
		return errors.Wrapf(err, "failed to draw %s", img.File)
	}
	return f.Close()
}

func drawTotals(s *household.Shaper, w io.Writer, cfg render.ChartConfig) error {
	schema := s.Schema()
	rows := s.DistrictTotals(s.DistrictSubtotals())
	title := fmt.Sprintf("서울시 구별 총 가구 수 (%s)", schema.ValueColumn)
	return render.BarChart(w, render.PNG, cfg, title, "가구 수", render.BarsOf(rows, schema.DistrictColumn))
}

func drawTypes(s *household.Shaper, w io.Writer, cfg render.ChartConfig) error {
	schema := s.Schema()
	title := fmt.Sprintf("서울시 가구 유형별 비중 (%s)", schema.ValueColumn)
	return render.Pie(w, render.PNG, cfg, title, render.BarsOf(s.GeneralTypeMix(), schema.TypeColumn))
}

func drawSingles(s *household.Shaper, w io.Writer, cfg render.ChartConfig) error {
	schema := s.Schema()
	rows := s.SingleByDistrict(s.DistrictSubtotals())
	title := fmt.Sprintf("서울시 구별 1인가구 수 (%s)", schema.ValueColumn)
	return render.BarChart(w, render.PNG, cfg, title, "가구 수", render.BarsOf(rows, schema.DistrictColumn))
}

func drawHeatmap(s *household.Shaper, w io.Writer, cfg render.ChartConfig) error {
	return render.Heatmap(w, render.PNG, cfg, "서울시 구별 가구 유형 분포 히트맵", s.CrossTab(s.DistrictSubtotals()))
}

func drawScatter(s *household.Shaper, w io.Writer, cfg render.ChartConfig) error {
	points := s.TotalVsForeign(s.DistrictSubtotals())
	var trend *domain.Trend
	if t, err := household.FitTrend(points); err == nil {
		trend = &t
	} else {
		log.Printf("[Report] No trend line: %v", err)
	}
	return render.Scatter(w, render.PNG, cfg, "총 가구 수 대비 외국인 가구 수 상관관계", points, trend)
}
