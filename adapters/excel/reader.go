package excel

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DataReader handles reading Excel and CSV files
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	config   ReaderConfig
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(filePath string) *DataReader {
	return NewDataReaderWithConfig(filePath, DefaultReaderConfig())
}

// NewDataReaderWithConfig creates a data reader with custom parsing options
func NewDataReaderWithConfig(filePath string, config ReaderConfig) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	if config.Comma == 0 {
		config.Comma = ','
	}
	return &DataReader{filePath: filePath, fileType: fileType, config: config}
}

// FileType returns "csv" or "xlsx"
func (r *DataReader) FileType() string {
	return r.fileType
}

// ReadData reads data from Excel or CSV files into structured format.
// A missing file is reported with os.ErrNotExist in the chain.
func (r *DataReader) ReadData() (*ExcelData, error) {
	log.Printf("[DataReader] Starting to read %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); err != nil {
		return nil, fmt.Errorf("%s file not found: %s: %w", strings.ToUpper(r.fileType), r.filePath, err)
	}

	switch r.fileType {
	case "csv":
		return r.readCSVData()
	case "xlsx":
		return r.readExcelData()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
}

// readExcelData reads the configured (or first) sheet of a workbook
func (r *DataReader) readExcelData() (*ExcelData, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := r.config.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("Excel file has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	log.Printf("[DataReader] Sheet %s read in %.2fms (%d rows)", sheet, float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	if len(rows) < 2 {
		return nil, fmt.Errorf("Excel file must have at least a header row and one data row")
	}

	return r.processRows(rows)
}

// readCSVData reads CSV data into structured format
func (r *DataReader) readCSVData() (*ExcelData, error) {
	raw, err := os.ReadFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}

	readStart := time.Now()
	rows, err := r.ParseCSV(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	log.Printf("[DataReader] CSV file read in %.2fms (%d rows)", float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	if len(rows) < 2 {
		return nil, fmt.Errorf("CSV file must have at least a header row and one data row")
	}

	return r.processRows(rows)
}

// ParseCSV decodes CSV bytes into raw rows. A UTF-8 byte order mark is dropped and,
// when enabled, bytes that are not valid UTF-8 are decoded as EUC-KR.
func (r *DataReader) ParseCSV(src io.Reader) ([][]string, error) {
	raw, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)

	var body io.Reader = bytes.NewReader(raw)
	if !utf8.Valid(raw) && r.config.DecodeEUCKR {
		log.Printf("[DataReader] %s is not UTF-8, decoding as EUC-KR", r.filePath)
		body = transform.NewReader(bytes.NewReader(raw), korean.EUCKR.NewDecoder())
	}

	reader := csv.NewReader(body)
	reader.Comma = r.config.Comma
	reader.LazyQuotes = r.config.LazyQuotes
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return rows, nil
}

// processRows converts raw string rows into ExcelData format
func (r *DataReader) processRows(rows [][]string) (*ExcelData, error) {
	headers, renamed := dedupeHeaders(rows[0])
	if len(renamed) > 0 {
		log.Printf("[DataReader] Renamed %d blank or repeated headers: %v", len(renamed), renamed)
	}

	dataRows := make([][]string, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		if isBlankRow(rows[i]) {
			continue
		}
		row := make([]string, len(rows[i]))
		for j, cell := range rows[i] {
			row[j] = strings.TrimSpace(cell)
		}
		dataRows = append(dataRows, row)
	}

	log.Printf("[DataReader] %s file processed (%d columns, %d rows)",
		strings.ToUpper(r.fileType), len(headers), len(dataRows))

	return &ExcelData{
		Headers: headers,
		Rows:    dataRows,
		Renamed: renamed,
	}, nil
}

// dedupeHeaders names blank headers "Unnamed: <i>" and suffixes repeats with ".1", ".2"
// and so on, skipping names used elsewhere in the header. renamed maps each generated
// name to the header text it replaced.
func dedupeHeaders(headerRow []string) (headers []string, renamed map[string]string) {
	renamed = make(map[string]string)
	headers = make([]string, len(headerRow))
	taken := make(map[string]bool, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(header)
		if headers[i] == "" {
			headers[i] = fmt.Sprintf("Unnamed: %d", i)
			renamed[headers[i]] = ""
		}
		taken[headers[i]] = true
	}

	seen := make(map[string]bool, len(headers))
	suffix := make(map[string]int)
	for i, name := range headers {
		if !seen[name] {
			seen[name] = true
			continue
		}
		candidate := name
		for taken[candidate] {
			suffix[name]++
			candidate = fmt.Sprintf("%s.%d", name, suffix[name])
		}
		taken[candidate] = true
		seen[candidate] = true
		headers[i] = candidate
		renamed[candidate] = name
	}
	return headers, renamed
}

// isBlankRow matches trailing empty lines that spreadsheets tend to export
func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
