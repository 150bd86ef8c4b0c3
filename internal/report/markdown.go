package report

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	domain "gohousehold/domain/household"
	"gohousehold/internal/household"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

const (
	// Title heads both the Markdown report and its HTML page
	Title = "서울시 가구 데이터 종합 분석 보고서"

	crossTabRows = 5
)

// Links returns the report's image links for charts stored in plotsDir, relative to the
// directory of reportPath when possible.
func Links(plotsDir, reportPath string) []string {
	links := make([]string, len(Images))
	for i, img := range Images {
		target := filepath.Join(plotsDir, img.File)
		rel, err := filepath.Rel(filepath.Dir(reportPath), target)
		if err != nil {
			links[i] = filepath.ToSlash(target)
			continue
		}
		rel = filepath.ToSlash(rel)
		if !strings.HasPrefix(rel, "../") {
			rel = "./" + rel
		}
		links[i] = rel
	}
	return links
}

// Markdown builds the report. links[i] is the target of Images[i]; missing links leave
// the image out.
func Markdown(s *household.Shaper, links []string) string {
	schema := s.Schema()
	summary := s.ValueSummary()
	year := schema.ValueColumn

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", Title)

	b.WriteString("## 1. 기초 기술통계\n")
	fmt.Fprintf(&b, "- 데이터 총 행수: %d\n", summary.Rows)
	fmt.Fprintf(&b, "- %s년 가구 수 평균: %.2f\n", year, summary.Mean)
	fmt.Fprintf(&b, "- %s년 가구 수 중앙값: %.1f\n", year, summary.Median)
	fmt.Fprintf(&b, "- %s년 가구 수 왜도: %.4f\n\n", year, summary.Skew)

	b.WriteString("## 2. 주요 시각화 결과\n")
	for i, img := range Images {
		if i >= len(links) || links[i] == "" {
			continue
		}
		fmt.Fprintf(&b, "![%s](%s)\n", img.Alt, links[i])
	}
	b.WriteString("\n")

	b.WriteString("## 3. 구별 가구 유형 교차표 (일부)\n")
	b.WriteString(CrossTabMarkdown(s.CrossTab(s.DistrictSubtotals()).Head(crossTabRows), schema.DistrictColumn))
	b.WriteString("\n")

	b.WriteString("## 4. 최종 결론\n")
	for _, line := range Conclusions(s) {
		fmt.Fprintf(&b, "- %s\n", line)
	}
	return b.String()
}

// CrossTabMarkdown formats a cross-tab as a pipe table, index left-aligned and values
// right-aligned. Missing cells are blank.
func CrossTabMarkdown(ct domain.CrossTab, indexName string) string {
	var b strings.Builder

	b.WriteString("| " + escapeCell(indexName) + " |")
	for _, c := range ct.Columns {
		b.WriteString(" " + escapeCell(c) + " |")
	}
	b.WriteString("\n|:---|")
	for range ct.Columns {
		b.WriteString("---:|")
	}
	b.WriteString("\n")

	for i, name := range ct.Index {
		b.WriteString("| " + escapeCell(name) + " |")
		for _, cell := range ct.Cells[i] {
			if cell.Present {
				b.WriteString(" " + strconv.FormatInt(cell.Value, 10) + " |")
			} else {
				b.WriteString("  |")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// Conclusions derives the closing statements from the data
func Conclusions(s *household.Shaper) []string {
	var lines []string

	general, gerr := s.CityGeneral()
	single, serr := s.CitySingle()
	if gerr == nil && serr == nil && general > 0 {
		lines = append(lines, fmt.Sprintf("서울시 일반가구 %d가구 중 1인가구는 %d가구로 %.1f%%를 차지합니다.",
			general, single, float64(single)/float64(general)*100))
	}

	totals := s.DistrictTotals(s.DistrictSubtotals())
	district := s.Schema().DistrictColumn
	if len(totals) >= 2 {
		lines = append(lines, fmt.Sprintf("구별 가구 수의 차이가 크며, 총 가구 수는 %s(%d가구)와 %s(%d가구)가 가장 많습니다.",
			totals[0].Cell(district), totals[0].Value, totals[1].Cell(district), totals[1].Value))
	}
	if len(totals) > 2 {
		last := totals[len(totals)-1]
		lines = append(lines, fmt.Sprintf("총 가구 수가 가장 적은 구는 %s(%d가구)입니다.", last.Cell(district), last.Value))
	}

	if trend, err := household.FitTrend(s.TotalVsForeign(s.DistrictSubtotals())); err == nil && !math.IsNaN(trend.Correlation) {
		lines = append(lines, fmt.Sprintf("총 가구 수와 외국인 가구 수의 상관계수는 %.2f입니다.", trend.Correlation))
	}

	if mismatches := household.Mismatches(s.Reconcile()); len(mismatches) > 0 {
		lines = append(lines, fmt.Sprintf("구별 합계가 서울시 합계와 다른 항목이 %d개 있습니다.", len(mismatches)))
	}

	if len(lines) == 0 {
		lines = append(lines, "결론을 도출할 데이터가 부족합니다.")
	}
	return lines
}

// HTML renders Markdown as a complete HTML page
func HTML(md []byte) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse(md)

	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage,
		Title: Title,
	})
	return markdown.Render(doc, renderer)
}
