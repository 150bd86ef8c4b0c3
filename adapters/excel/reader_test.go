package excel

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/korean"
)

const sampleCSV = "동별(2),동별(3),구분별(2),2010\n종로구, 소계 ,일반가구,100\n중구,소계,외국인가구,-\n"

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestReadCSVStripsBOMAndTrims(t *testing.T) {
	path := writeFile(t, "households.csv", append([]byte{0xEF, 0xBB, 0xBF}, sampleCSV...))

	data, err := NewDataReader(path).ReadData()
	require.NoError(t, err)

	assert.Equal(t, []string{"동별(2)", "동별(3)", "구분별(2)", "2010"}, data.Headers)
	require.Len(t, data.Rows, 2)
	assert.Equal(t, "소계", data.Rows[0][1])
	assert.Equal(t, "-", data.Cell(1, 3))
	assert.Equal(t, "", data.Cell(1, 9))
}

func TestReadCSVDecodesEUCKR(t *testing.T) {
	encoded, err := korean.EUCKR.NewEncoder().Bytes([]byte(sampleCSV))
	require.NoError(t, err)
	path := writeFile(t, "legacy.csv", encoded)

	data, err := NewDataReader(path).ReadData()
	require.NoError(t, err)
	assert.Equal(t, "동별(2)", data.Headers[0])
	assert.Equal(t, "종로구", data.Rows[0][0])
}

func TestReadCSVSkipsBlankRowsAndAllowsRaggedRows(t *testing.T) {
	path := writeFile(t, "ragged.csv", []byte("a,b,c\n1,2\n,,\n4,5,6,7\n"))

	data, err := NewDataReader(path).ReadData()
	require.NoError(t, err)
	require.Len(t, data.Rows, 2)
	assert.Equal(t, []string{"1", "2"}, data.Rows[0])
	assert.Equal(t, []string{"4", "5", "6", "7"}, data.Rows[1])
}

func TestReadCSVNamesBlankAndRepeatedHeaders(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		headers []string
		renamed map[string]string
	}{
		{
			name:    "trailing commas",
			csv:     "동별(2),동별(3),구분별(2),구분별(3),2010,,\n소계,소계,소계,소계,10,,\n",
			headers: []string{"동별(2)", "동별(3)", "구분별(2)", "구분별(3)", "2010", "Unnamed: 5", "Unnamed: 6"},
			renamed: map[string]string{"Unnamed: 5": "", "Unnamed: 6": ""},
		},
		{
			name:    "repeated names",
			csv:     "x,x,y,x\n1,2,3,4\n",
			headers: []string{"x", "x.1", "y", "x.2"},
			renamed: map[string]string{"x.1": "x", "x.2": "x"},
		},
		{
			name:    "suffix already taken",
			csv:     "x,x,x.1\n1,2,3\n",
			headers: []string{"x", "x.2", "x.1"},
			renamed: map[string]string{"x.2": "x"},
		},
		{
			name:    "unique",
			csv:     "a,b\n1,2\n",
			headers: []string{"a", "b"},
			renamed: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := NewDataReader(writeFile(t, "h.csv", []byte(tt.csv))).ReadData()
			require.NoError(t, err)
			assert.Equal(t, tt.headers, data.Headers)
			assert.Equal(t, tt.renamed, data.Renamed)
		})
	}
}

func TestAmbiguous(t *testing.T) {
	data := &ExcelData{Renamed: map[string]string{"x.1": "x", "Unnamed: 3": ""}}
	assert.True(t, data.Ambiguous("x"))
	assert.False(t, data.Ambiguous("x.1"))
	assert.False(t, data.Ambiguous("y"))
}

func TestReadDataErrors(t *testing.T) {
	_, err := NewDataReader(filepath.Join(t.TempDir(), "missing.csv")).ReadData()
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	headerOnly := writeFile(t, "header.csv", []byte("a,b\n"))
	_, err = NewDataReader(headerOnly).ReadData()
	assert.ErrorContains(t, err, "at least a header row")

	broken := writeFile(t, "broken.csv", []byte("a,b\n1,\"2\"x\n"))
	r := NewDataReaderWithConfig(broken, ReaderConfig{Comma: ','})
	_, err = r.ReadData()
	assert.Error(t, err)
}

func TestReadExcelFirstSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", "가구"))
	require.NoError(t, f.SetSheetRow("가구", "A1", &[]interface{}{"동별(2)", "2010"}))
	require.NoError(t, f.SetSheetRow("가구", "A2", &[]interface{}{"종로구", 120}))

	path := filepath.Join(t.TempDir(), "households.xlsx")
	require.NoError(t, f.SaveAs(path))

	reader := NewDataReader(path)
	assert.Equal(t, "xlsx", reader.FileType())

	data, err := reader.ReadData()
	require.NoError(t, err)
	assert.Equal(t, []string{"동별(2)", "2010"}, data.Headers)
	assert.Equal(t, [][]string{{"종로구", "120"}}, data.Rows)
}
