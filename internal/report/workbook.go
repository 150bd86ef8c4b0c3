package report

import (
	"io"
	"log"
	"math"

	domain "gohousehold/domain/household"
	"gohousehold/internal/errors"
	"gohousehold/internal/household"

	"github.com/xuri/excelize/v2"
)

// Workbook sheet names
const (
	SheetSummary   = "요약"
	SheetDescribe  = "구별 통계"
	SheetCrossTab  = "교차표"
	SheetTopSingle = "1인가구 상위"
	SheetForeign   = "외국인가구 상위"
	SheetCity      = "서울시 요약"
	SheetReconcile = "정합성"
)

type sheetWriter struct {
	f    *excelize.File
	bold int
	errs []error
}

func (w *sheetWriter) row(sheet string, n int, values ...interface{}) {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		w.errs = append(w.errs, err)
		return
	}
	if err := w.f.SetSheetRow(sheet, cell, &values); err != nil {
		w.errs = append(w.errs, err)
	}
}

func (w *sheetWriter) header(sheet string, values ...interface{}) {
	w.row(sheet, 1, values...)
	if err := w.f.SetRowStyle(sheet, 1, 1, w.bold); err != nil {
		w.errs = append(w.errs, err)
	}
}

func (w *sheetWriter) records(sheet string, records []domain.Record, columns []string) {
	head := make([]interface{}, len(columns))
	for i, c := range columns {
		head[i] = c
	}
	w.header(sheet, head...)
	for i, r := range records {
		values := make([]interface{}, len(columns))
		for j, c := range columns {
			values[j] = r.Cell(c)
		}
		values[len(columns)-1] = r.Value
		w.row(sheet, i+2, values...)
	}
}

// number leaves NaN cells empty; spreadsheets have no NaN
func number(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

// Workbook builds one sheet per view
func Workbook(s *household.Shaper) (*excelize.File, error) {
	f := excelize.NewFile()
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, errors.Wrap(err, "failed to create header style")
	}
	w := &sheetWriter{f: f, bold: bold}

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		f.Close()
		return nil, errors.Wrap(err, "failed to name summary sheet")
	}
	for _, name := range []string{SheetDescribe, SheetCrossTab, SheetTopSingle, SheetForeign, SheetCity, SheetReconcile} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, errors.Wrapf(err, "failed to create sheet %s", name)
		}
	}

	schema := s.Schema()
	summary := s.ValueSummary()
	w.header(SheetSummary, "항목", "값")
	metrics := [][]interface{}{
		{"데이터 총 행수", summary.Rows},
		{"평균", number(summary.Mean)},
		{"중앙값", number(summary.Median)},
		{"왜도", number(summary.Skew)},
		{"표준편차", number(summary.Std)},
		{"최솟값", number(summary.Min)},
		{"최댓값", number(summary.Max)},
	}
	if total, err := s.CityTotal(); err == nil {
		metrics = append(metrics, []interface{}{"서울시 총 가구", total})
	}
	if single, err := s.CitySingle(); err == nil {
		metrics = append(metrics, []interface{}{"서울시 1인가구", single})
	}
	if share, err := s.SingleShare(); err == nil {
		metrics = append(metrics, []interface{}{"1인가구 비율(%)", share})
	}
	for i, m := range metrics {
		w.row(SheetSummary, i+2, m...)
	}

	w.header(SheetDescribe, schema.DistrictColumn, "count", "mean", "std", "min", "25%", "50%", "75%", "max")
	for i, d := range s.DescribeByDistrict(s.DistrictSubtotals()) {
		w.row(SheetDescribe, i+2, d.District, d.Count, number(d.Mean), number(d.Std), number(d.Min),
			number(d.Q25), number(d.Median), number(d.Q75), number(d.Max))
	}

	ct := s.CrossTab(s.DistrictSubtotals())
	head := []interface{}{schema.DistrictColumn}
	for _, c := range ct.Columns {
		head = append(head, c)
	}
	w.header(SheetCrossTab, head...)
	for i, name := range ct.Index {
		values := []interface{}{name}
		for _, cell := range ct.Cells[i] {
			if cell.Present {
				values = append(values, cell.Value)
			} else {
				values = append(values, nil)
			}
		}
		w.row(SheetCrossTab, i+2, values...)
	}

	ranked := []string{schema.DistrictColumn, schema.CategoryColumn, schema.TypeColumn, schema.ValueColumn}
	w.records(SheetTopSingle, s.TopSingle(), ranked)
	w.records(SheetForeign, s.TopForeign(), ranked)
	w.records(SheetCity, s.CitySummary(), []string{schema.CategoryColumn, schema.TypeColumn, schema.ValueColumn})

	w.header(SheetReconcile, schema.CategoryColumn, schema.TypeColumn, "서울시", "구별 합계", "일치")
	for i, r := range s.Reconcile() {
		w.row(SheetReconcile, i+2, r.Category, r.Type, r.CityValue, r.DistrictSum, r.Consistent())
	}

	if len(w.errs) > 0 {
		f.Close()
		return nil, errors.Wrapf(w.errs[0], "failed to fill workbook (%d errors)", len(w.errs))
	}
	f.SetActiveSheet(0)
	return f, nil
}

// WriteWorkbook streams the views workbook as XLSX
func WriteWorkbook(s *household.Shaper, out io.Writer) error {
	f, err := Workbook(s)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(out); err != nil {
		return errors.Wrap(err, "failed to write workbook")
	}
	return nil
}

// SaveWorkbook writes the views workbook to path
func SaveWorkbook(s *household.Shaper, path string) error {
	f, err := Workbook(s)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return errors.Wrapf(err, "failed to save workbook %s", path)
	}
	log.Printf("[Report] Saved workbook %s", path)
	return nil
}
