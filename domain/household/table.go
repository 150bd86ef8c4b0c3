package household

// Record is one source row. Index is its 0-based position below the header.
type Record struct {
	Index int               `json:"index"`
	Cells map[string]string `json:"cells"`
	Value int64             `json:"value"`
}

// Cell returns the normalized text of a column, empty when the row was short
func (r Record) Cell(column string) string {
	return r.Cells[column]
}

// Table is the loaded, normalized record set. It is never mutated after loading.
type Table struct {
	Source      string   `json:"source"`
	Columns     []string `json:"columns"`
	ValueColumn string   `json:"value_column"`
	Records     []Record `json:"records"`

	// Info describes the columns as read, before placeholder substitution
	Info []ColumnInfo `json:"info,omitempty"`
}

// Len returns the number of records
func (t *Table) Len() int {
	return len(t.Records)
}

// HasColumn reports whether the header contains a column
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Head returns up to n leading records
func (t *Table) Head(n int) []Record {
	if n < 0 {
		n = 0
	}
	if n > len(t.Records) {
		n = len(t.Records)
	}
	return t.Records[:n]
}

// Values returns the coerced value column in row order
func (t *Table) Values() []float64 {
	values := make([]float64, len(t.Records))
	for i, r := range t.Records {
		values[i] = float64(r.Value)
	}
	return values
}

// LoadReport summarizes what normalization changed
type LoadReport struct {
	Rows                 int `json:"rows"`
	PlaceholdersReplaced int `json:"placeholders_replaced"`
	ValuesCoerced        int `json:"values_coerced"`
}

// ColumnInfo describes one column for the dataset info table
type ColumnInfo struct {
	Name      string `json:"name"`
	DataType  string `json:"data_type"`
	NullCount int    `json:"null_count"`
}
