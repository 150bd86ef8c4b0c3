// Package household turns the raw statistics file into a normalized Table and derives
// the fixed set of views both presenters render.
package household

import (
	stderrors "errors"
	"log"
	"math"
	"os"
	"strconv"
	"strings"

	"gohousehold/adapters/excel"
	domain "gohousehold/domain/household"
	"gohousehold/internal/errors"
)

// Load reads a CSV or XLSX file, replaces placeholder cells with "0" and coerces the
// schema's value column to non-negative integers.
func Load(path string, schema domain.Schema) (*domain.Table, error) {
	table, report, err := LoadWithReport(path, schema)
	if err != nil {
		return nil, err
	}
	log.Printf("[Loader] Loaded %s: %d rows, %d placeholders replaced, %d values coerced",
		path, report.Rows, report.PlaceholdersReplaced, report.ValuesCoerced)
	return table, nil
}

// LoadWithReport is Load that also returns what normalization changed
func LoadWithReport(path string, schema domain.Schema) (*domain.Table, domain.LoadReport, error) {
	data, err := excel.NewDataReader(path).ReadData()
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, domain.LoadReport{}, errors.FileNotFound(path)
		}
		return nil, domain.LoadReport{}, errors.ParseError("failed to read "+path, err)
	}
	table, report, err := Normalize(data, schema)
	if err != nil {
		return nil, report, err
	}
	table.Source = path
	return table, report, nil
}

// Normalize builds a Table from raw rows. Every cell equal to a placeholder becomes "0"
// and the value column is coerced with CoerceValue.
func Normalize(data *excel.ExcelData, schema domain.Schema) (*domain.Table, domain.LoadReport, error) {
	report := domain.LoadReport{Rows: len(data.Rows)}

	valueIdx := -1
	for i, h := range data.Headers {
		if h == schema.ValueColumn {
			valueIdx = i
			break
		}
	}
	if valueIdx < 0 {
		return nil, report, errors.SchemaMismatch("value column " + strconv.Quote(schema.ValueColumn) + " not in header")
	}
	for _, col := range schema.Columns() {
		if data.Ambiguous(col) {
			return nil, report, errors.SchemaMismatch("column " + strconv.Quote(col) + " appears more than once in header")
		}
	}

	records := make([]domain.Record, len(data.Rows))
	for i := range data.Rows {
		cells := make(map[string]string, len(data.Headers))
		for j, h := range data.Headers {
			cell := data.Cell(i, j)
			if schema.IsPlaceholder(cell) {
				cell = "0"
				report.PlaceholdersReplaced++
			}
			cells[h] = cell
		}

		value, ok := CoerceValue(cells[schema.ValueColumn])
		if !ok {
			report.ValuesCoerced++
		}
		cells[schema.ValueColumn] = strconv.FormatInt(value, 10)

		records[i] = domain.Record{Index: i, Cells: cells, Value: value}
	}

	columns := make([]string, len(data.Headers))
	copy(columns, data.Headers)

	return &domain.Table{
		Columns:     columns,
		ValueColumn: schema.ValueColumn,
		Records:     records,
		Info: inferColumns(columns, schema.ValueColumn, len(data.Rows), func(i, j int) string {
			return data.Cell(i, j)
		}),
	}, report, nil
}

// CoerceValue parses a count cell. Decimals are truncated toward zero; text that does not
// parse, empty cells, non-finite and negative numbers become 0 with ok false.
func CoerceValue(cell string) (value int64, ok bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0, false
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		if v < 0 {
			return 0, false
		}
		return v, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// DescribeColumns reports the inferred type and empty-cell count of every column.
// Types follow the usual dataframe names: int64, float64 or object. A loaded table keeps
// the types of its cells as read, so a column that held placeholders stays object.
func DescribeColumns(table *domain.Table) []domain.ColumnInfo {
	if len(table.Info) == len(table.Columns) {
		infos := make([]domain.ColumnInfo, len(table.Info))
		copy(infos, table.Info)
		return infos
	}
	return inferColumns(table.Columns, table.ValueColumn, len(table.Records), func(i, j int) string {
		return table.Records[i].Cell(table.Columns[j])
	})
}

// inferColumns types each column from its cells. The value column is always int64
// since loading coerces it.
func inferColumns(columns []string, valueColumn string, rows int, cell func(i, j int) string) []domain.ColumnInfo {
	infos := make([]domain.ColumnInfo, len(columns))
	for j, col := range columns {
		info := domain.ColumnInfo{Name: col, DataType: "int64"}
		if col == valueColumn {
			infos[j] = info
			continue
		}

		allInt, allFloat, nonEmpty := true, true, 0
		for i := 0; i < rows; i++ {
			v := cell(i, j)
			if v == "" {
				info.NullCount++
				continue
			}
			nonEmpty++
			if _, err := strconv.ParseInt(v, 10, 64); err != nil {
				allInt = false
				if _, err := strconv.ParseFloat(v, 64); err != nil {
					allFloat = false
				}
			}
		}

		switch {
		case nonEmpty == 0:
			info.DataType = "float64"
		case allInt && info.NullCount == 0:
			info.DataType = "int64"
		case allFloat:
			info.DataType = "float64"
		default:
			info.DataType = "object"
		}
		infos[j] = info
	}
	return infos
}
