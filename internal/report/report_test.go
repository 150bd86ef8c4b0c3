package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	domain "gohousehold/domain/household"
	"gohousehold/internal/errors"
	"gohousehold/internal/household"
	"gohousehold/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

func testShaper(t *testing.T, districts int) *household.Shaper {
	t.Helper()
	config := testkit.DefaultHouseholdConfig()
	config.DistrictCount = districts
	config.NeighborhoodsPerDistrict = 1

	table, _, err := household.Normalize(testkit.NewHouseholdDataGenerator(config).Generate(), domain.DefaultSchema())
	require.NoError(t, err)
	s, err := household.NewShaper(table, domain.DefaultSchema())
	require.NoError(t, err)
	return s
}

type mdOutline struct {
	headings []string
	images   []string
	tables   int
}

func outline(t *testing.T, md string) mdOutline {
	t.Helper()
	src := []byte(md)
	doc := goldmark.New(goldmark.WithExtensions(extension.GFM)).Parser().Parse(text.NewReader(src))

	var o mdOutline
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			o.headings = append(o.headings, string(node.Text(src)))
		case *ast.Image:
			o.images = append(o.images, string(node.Destination))
		}
		if n.Kind() == extast.KindTable {
			o.tables++
		}
		return ast.WalkContinue, nil
	})
	require.NoError(t, err)
	return o
}

func TestLinks(t *testing.T) {
	links := Links(filepath.Join("out", "plots"), filepath.Join("out", "report.md"))
	require.Len(t, links, len(Images))
	assert.Equal(t, "./plots/1_total_households_by_gu.png", links[0])
	assert.Equal(t, "./plots/5_total_vs_foreign_scatter.png", links[4])

	up := Links("plots", filepath.Join("docs", "report.md"))
	assert.Equal(t, "../plots/2_household_types_pie.png", up[1])
}

func TestMarkdownStructure(t *testing.T) {
	s := testShaper(t, 6)
	md := Markdown(s, Links("plots", "report.md"))

	o := outline(t, md)
	assert.Equal(t, []string{
		Title,
		"1. 기초 기술통계",
		"2. 주요 시각화 결과",
		"3. 구별 가구 유형 교차표 (일부)",
		"4. 최종 결론",
	}, o.headings)
	assert.Equal(t, []string{
		"./plots/1_total_households_by_gu.png",
		"./plots/2_household_types_pie.png",
		"./plots/3_single_households_by_gu.png",
		"./plots/4_household_heatmap.png",
		"./plots/5_total_vs_foreign_scatter.png",
	}, o.images)
	assert.Equal(t, 1, o.tables)

	summary := s.ValueSummary()
	assert.Contains(t, md, "- 데이터 총 행수: "+strconv.Itoa(summary.Rows)+"\n")
	assert.Contains(t, md, "- 2010년 가구 수 왜도: ")
}

func TestMarkdownCrossTabHasFiveDistricts(t *testing.T) {
	s := testShaper(t, 8)
	md := Markdown(s, nil)

	section := md[strings.Index(md, "## 3."):strings.Index(md, "## 4.")]
	var rows int
	for _, line := range strings.Split(section, "\n") {
		if strings.HasPrefix(line, "| ") {
			rows++
		}
	}
	assert.Equal(t, 6, rows, "header plus five districts")
	assert.Empty(t, outline(t, md).images)
}

func TestCrossTabMarkdown(t *testing.T) {
	ct := domain.CrossTab{
		Index:   []string{"종로구", "중구"},
		Columns: []string{"1인가구", "2인가구"},
		Cells: [][]domain.CrossCell{
			{{Value: 40, Present: true}, {Value: 50, Present: true}},
			{{Value: 40, Present: true}, {}},
		},
	}
	want := "| 동별(2) | 1인가구 | 2인가구 |\n" +
		"|:---|---:|---:|\n" +
		"| 종로구 | 40 | 50 |\n" +
		"| 중구 | 40 |  |\n"
	assert.Equal(t, want, CrossTabMarkdown(ct, "동별(2)"))
}

func TestConclusionsFollowData(t *testing.T) {
	s := testShaper(t, 4)
	lines := Conclusions(s)
	require.NotEmpty(t, lines)

	totals := s.DistrictTotals(s.DistrictSubtotals())
	district := s.Schema().DistrictColumn
	joined := strings.Join(lines, "\n")
	assert.Contains(t, joined, totals[0].Cell(district)+"(")
	assert.Contains(t, joined, totals[1].Cell(district)+"(")
	assert.Contains(t, joined, "1인가구는")
	assert.NotContains(t, joined, "다른 항목")
}

func TestHTMLRendering(t *testing.T) {
	s := testShaper(t, 3)
	page := string(HTML([]byte(Markdown(s, Links("plots", "report.md")))))

	assert.Contains(t, page, "<title>"+Title+"</title>")
	assert.Contains(t, page, "<table>")
	assert.Contains(t, page, `src="./plots/1_total_households_by_gu.png"`)
}

func TestGenerate(t *testing.T) {
	s := testShaper(t, 5)
	dir := t.TempDir()
	opts := DefaultOptions()
	opts.PlotsDir = filepath.Join(dir, "plots")
	opts.ReportPath = filepath.Join(dir, "report_seoul_household.md")
	opts.Chart.Width /= 3
	opts.Chart.Height /= 3

	result, err := Generate(s, opts)
	require.NoError(t, err)

	require.Len(t, result.Images, len(Images))
	for i, path := range result.Images {
		assert.Equal(t, Images[i].File, filepath.Base(path))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")), path)
	}

	md, err := os.ReadFile(result.ReportPath)
	require.NoError(t, err)
	assert.Equal(t, Markdown(s, Links(opts.PlotsDir, opts.ReportPath)), string(md))

	assert.Equal(t, filepath.Join(dir, "report_seoul_household.html"), result.HTMLPath)
	assert.FileExists(t, result.HTMLPath)
	assert.Len(t, result.CrossTabHead.Index, 5)
}

func TestGenerateErrors(t *testing.T) {
	s := testShaper(t, 2)
	_, err := Generate(s, Options{})
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	for _, name := range []string{"report.html", "REPORT.HTML"} {
		dir := t.TempDir()
		_, err = Generate(s, Options{PlotsDir: filepath.Join(dir, "plots"), ReportPath: filepath.Join(dir, name)})
		require.Error(t, err, name)
		assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
		assert.NoDirExists(t, filepath.Join(dir, "plots"))
		assert.NoFileExists(t, filepath.Join(dir, name))
	}

	schema := domain.DefaultSchema()
	schema.ForeignMarker = "없음"
	noForeign, err := household.NewShaper(s.Table(), schema)
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.PlotsDir = t.TempDir()
	opts.ReportPath = filepath.Join(t.TempDir(), "r.md")
	_, err = Generate(noForeign, opts)
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
	assert.Contains(t, err.Error(), "5_total_vs_foreign_scatter.png")
}

func TestLookupImage(t *testing.T) {
	img, ok := LookupImage("4_household_heatmap.png")
	require.True(t, ok)
	assert.Equal(t, "가구 유형 히트맵", img.Alt)

	_, ok = LookupImage("../etc/passwd")
	assert.False(t, ok)
}

func TestWorkbook(t *testing.T) {
	s := testShaper(t, 4)
	path := filepath.Join(t.TempDir(), "views.xlsx")
	require.NoError(t, SaveWorkbook(s, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetSummary, SheetDescribe, SheetCrossTab, SheetTopSingle, SheetForeign, SheetCity, SheetReconcile},
		f.GetSheetList())

	describe, err := f.GetRows(SheetDescribe)
	require.NoError(t, err)
	assert.Len(t, describe, 1+4)
	assert.Equal(t, "동별(2)", describe[0][0])

	reconcile, err := f.GetRows(SheetReconcile)
	require.NoError(t, err)
	require.Len(t, reconcile, 1+len(s.Reconcile()))
	for _, row := range reconcile[1:] {
		assert.Equal(t, "TRUE", row[4])
	}

	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(s, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("PK")))
}
