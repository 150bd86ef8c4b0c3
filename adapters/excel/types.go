package excel

// ExcelData represents a raw tabular file: trimmed headers and rows in file order.
// Rows are not padded; a row may be shorter or longer than the header.
type ExcelData struct {
	Headers []string   // Column headers
	Rows    [][]string // Data rows

	// Renamed maps a generated header to the text it replaced: "" for blank headers,
	// the repeated name for duplicates.
	Renamed map[string]string
}

// Ambiguous reports whether a header name appeared more than once in the file
func (d *ExcelData) Ambiguous(name string) bool {
	for _, original := range d.Renamed {
		if original == name {
			return true
		}
	}
	return false
}

// Cell returns the cell of row i under column j, empty when the row is short
func (d *ExcelData) Cell(i, j int) string {
	if i < 0 || i >= len(d.Rows) || j < 0 || j >= len(d.Rows[i]) {
		return ""
	}
	return d.Rows[i][j]
}
