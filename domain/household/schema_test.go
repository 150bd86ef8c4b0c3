package household

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSchemaIsValid(t *testing.T) {
	s := DefaultSchema()
	require.NoError(t, s.Validate())
	assert.Equal(t, []string{"동별(2)", "동별(3)", "구분별(2)", "구분별(3)", "2010"}, s.Columns())
	assert.True(t, s.IsPlaceholder("-"))
	assert.False(t, s.IsPlaceholder("0"))
}

func TestLoadSchemaOverridesFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yaml")
	content := "value_column: \"2015\"\ntop_n: 3\nplaceholders: [\"-\", \"X\"]\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s, err := LoadSchema(path)
	require.NoError(t, err)

	assert.Equal(t, "2015", s.ValueColumn)
	assert.Equal(t, 3, s.TopN)
	assert.Equal(t, []string{"-", "X"}, s.Placeholders)
	assert.Equal(t, "동별(2)", s.DistrictColumn, "unset fields keep defaults")
}

func TestLoadSchemaEmptyPath(t *testing.T) {
	s, err := LoadSchema("")
	require.NoError(t, err)
	assert.Equal(t, DefaultSchema(), s)
}

func TestLoadSchemaErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadSchema(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("top_n: [1, 2"), 0o644))
	_, err = LoadSchema(bad)
	assert.Error(t, err)

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("top_n: 0\n"), 0o644))
	_, err = LoadSchema(invalid)
	assert.ErrorContains(t, err, "top_n")
}

func TestValidateRejectsEmptyMarker(t *testing.T) {
	s := DefaultSchema()
	s.SubtotalMarker = ""
	assert.ErrorContains(t, s.Validate(), "subtotal_marker")
}

func TestCrossTabHeadAndRange(t *testing.T) {
	ct := CrossTab{
		Index:   []string{"a", "b", "c"},
		Columns: []string{"x"},
		Cells: [][]CrossCell{
			{{Value: 5, Present: true}},
			{{Present: false}},
			{{Value: 2, Present: true}},
		},
	}

	head := ct.Head(2)
	assert.Equal(t, []string{"a", "b"}, head.Index)
	assert.Len(t, head.Cells, 2)
	assert.Len(t, ct.Head(10).Index, 3)

	lo, hi, ok := ct.Range()
	assert.True(t, ok)
	assert.Equal(t, int64(2), lo)
	assert.Equal(t, int64(5), hi)

	_, _, ok = CrossTab{}.Range()
	assert.False(t, ok)
}
