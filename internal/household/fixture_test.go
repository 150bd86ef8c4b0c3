package household

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gohousehold/adapters/excel"
	domain "gohousehold/domain/household"

	"github.com/stretchr/testify/require"
)

var fixtureHeaders = []string{"기간", "동별(1)", "동별(2)", "동별(3)", "구분별(1)", "구분별(2)", "구분별(3)", "2010"}

// fixtureRows is a consistent miniature of the published file: a citywide block and two
// districts, each with a neighborhood row that the district views must skip.
var fixtureRows = [][]string{
	{"2010", "합계", "소계", "소계", "합계", "소계", "소계", "180"},
	{"2010", "합계", "소계", "소계", "합계", "일반가구", "소계", "160"},
	{"2010", "합계", "소계", "소계", "합계", "일반가구", "1인가구", "80"},
	{"2010", "합계", "소계", "소계", "합계", "일반가구", "2인가구", "80"},
	{"2010", "합계", "소계", "소계", "합계", "외국인가구", "소계", "20"},
	{"2010", "합계", "종로구", "소계", "합계", "소계", "소계", "100"},
	{"2010", "합계", "종로구", "소계", "합계", "일반가구", "소계", "90"},
	{"2010", "합계", "종로구", "소계", "합계", "일반가구", "1인가구", "40"},
	{"2010", "합계", "종로구", "소계", "합계", "일반가구", "2인가구", "50"},
	{"2010", "합계", "종로구", "소계", "합계", "외국인가구", "소계", "10"},
	{"2010", "합계", "종로구", "사직동", "합계", "소계", "소계", "-"},
	{"2010", "합계", "중구", "소계", "합계", "소계", "소계", "80"},
	{"2010", "합계", "중구", "소계", "합계", "일반가구", "소계", "70"},
	{"2010", "합계", "중구", "소계", "합계", "일반가구", "1인가구", "40"},
	{"2010", "합계", "중구", "소계", "합계", "일반가구", "2인가구", "30"},
	{"2010", "합계", "중구", "소계", "합계", "외국인가구", "소계", "10"},
	{"2010", "합계", "중구", "소공동", "합계", "소계", "소계", "999"},
}

func fixtureData() *excel.ExcelData {
	rows := make([][]string, len(fixtureRows))
	for i, r := range fixtureRows {
		rows[i] = append([]string(nil), r...)
	}
	return &excel.ExcelData{Headers: append([]string(nil), fixtureHeaders...), Rows: rows}
}

func fixtureTable(t *testing.T) *domain.Table {
	t.Helper()
	table, _, err := Normalize(fixtureData(), domain.DefaultSchema())
	require.NoError(t, err)
	return table
}

func fixtureShaper(t *testing.T) *Shaper {
	t.Helper()
	shaper, err := NewShaper(fixtureTable(t), domain.DefaultSchema())
	require.NoError(t, err)
	return shaper
}

func fixtureCSV(t *testing.T) string {
	t.Helper()
	var sb strings.Builder
	sb.WriteString(strings.Join(fixtureHeaders, ",") + "\n")
	for _, r := range fixtureRows {
		sb.WriteString(strings.Join(r, ",") + "\n")
	}
	path := filepath.Join(t.TempDir(), "seoul_household.csv")
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o644))
	return path
}
