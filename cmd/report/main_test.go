package main

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"gohousehold/internal/config"
	"gohousehold/internal/errors"
	"gohousehold/internal/report"
	"gohousehold/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(dir string) *config.Config {
	return &config.Config{
		Data:      config.DataConfig{File: filepath.Join(dir, "households.csv")},
		Server:    config.ServerConfig{Port: "8080", GinMode: "test"},
		Output:    config.OutputConfig{PlotsDir: filepath.Join(dir, "plots"), ReportPath: filepath.Join(dir, "report.md")},
		Dashboard: config.DashboardConfig{SampleRows: 50, DefaultSelection: 5},
	}
}

func run(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(cfg)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSampleThenCheck(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)

	out, err := run(t, cfg, "sample", "--out", cfg.Data.File, "--districts", "4", "--neighborhoods", "2")
	require.NoError(t, err)
	assert.Equal(t, cfg.Data.File+"\n", out)

	out, err = run(t, cfg, "check")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 3+len(testkit.HouseholdTypes))
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, "OK "), line)
	}
}

func TestCheckFailsOnMismatch(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)

	generator := testkit.DefaultHouseholdConfig()
	generator.DistrictCount = 3
	data := testkit.NewHouseholdDataGenerator(generator).Generate()

	// first district's total row sits right after the seven citywide rows
	row := data.Rows[7]
	require.Equal(t, "소계", row[3])
	require.Equal(t, "소계", row[5])
	v, err := strconv.Atoi(row[7])
	require.NoError(t, err)
	row[7] = strconv.Itoa(v + 1)

	f, err := os.Create(cfg.Data.File)
	require.NoError(t, err)
	w := csv.NewWriter(f)
	require.NoError(t, w.Write(data.Headers))
	require.NoError(t, w.WriteAll(data.Rows))
	require.NoError(t, f.Close())

	out, err := run(t, cfg, "check")
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
	assert.Contains(t, out, "MISMATCH 소계/소계")
}

func TestRenderAndExport(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	_, err := run(t, cfg, "sample", "--out", cfg.Data.File, "--districts", "6", "--neighborhoods", "1")
	require.NoError(t, err)

	out, err := run(t, cfg, "render")
	require.NoError(t, err)
	for _, img := range report.Images {
		assert.FileExists(t, filepath.Join(cfg.Output.PlotsDir, img.File))
	}
	assert.FileExists(t, cfg.Output.ReportPath)
	assert.FileExists(t, filepath.Join(dir, "report.html"))
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), len(report.Images)+2)

	workbook := filepath.Join(dir, "views.xlsx")
	_, err = run(t, cfg, "export", "--out", workbook)
	require.NoError(t, err)
	assert.FileExists(t, workbook)
}

func TestMissingDataFile(t *testing.T) {
	cfg := testConfig(t.TempDir())
	_, err := run(t, cfg, "check")
	require.Error(t, err)
	assert.Equal(t, errors.CodeFileNotFound, errors.GetCode(err))
}

func TestBadSchemaFile(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	schema := filepath.Join(dir, "schema.yaml")
	require.NoError(t, os.WriteFile(schema, []byte("district_column: [\n"), 0o644))

	_, err := run(t, cfg, "check", "--schema", schema)
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}
