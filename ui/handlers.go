package ui

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"gohousehold/adapters/render"
	domain "gohousehold/domain/household"
	"gohousehold/internal/errors"
	"gohousehold/internal/household"
	"gohousehold/internal/report"

	"github.com/gin-gonic/gin"
)

const (
	pageTitle  = "서울시 가구 데이터 기초 EDA 대시보드"
	treeWidth  = 960
	treeHeight = 480
)

type tab struct {
	ID    string
	Label string
	Href  string
}

var tabs = []tab{
	{ID: "overview", Label: "개요"},
	{ID: "stats", Label: "통계 분석"},
	{ID: "charts", Label: "시각화"},
}

type cityMetrics struct {
	Total  int64
	Single int64
	Share  float64
}

type overviewData struct {
	Metrics    cityMetrics
	Columns    []string
	Rows       [][]string
	ColumnInfo []domain.ColumnInfo
	Mismatches []domain.Reconciliation
}

type statsData struct {
	Describe   []domain.DistrictStats
	CrossTab   domain.CrossTab
	TopSingle  []domain.Record
	TopForeign []domain.Record
	City       []domain.Record
}

type chartLink struct {
	Title string
	Src   string
}

type chartsData struct {
	Charts  []chartLink
	Treemap string
}

type pageData struct {
	Title     string
	Tab       string
	Tabs      []tab
	Query     string
	Districts []string
	Selected  []string
	Schema    domain.Schema
	Source    string
	Overview  *overviewData
	Stats     *statsData
	Charts    *chartsData
}

// selection reads the repeated gu parameter. Without one the first configured number
// of districts is used; unknown districts are dropped.
func (s *Server) selection(c *gin.Context, shaper *household.Shaper) []string {
	requested, ok := c.GetQueryArray("gu")
	if !ok {
		return shaper.DefaultSelection(s.config.Dashboard.DefaultSelection)
	}

	known := make(map[string]bool)
	for _, d := range shaper.Districts() {
		known[d] = true
	}
	selected := make([]string, 0, len(requested))
	for _, d := range requested {
		if known[d] {
			selected = append(selected, d)
			known[d] = false
		}
	}
	return selected
}

func selectionQuery(selected []string) string {
	q := url.Values{}
	for _, d := range selected {
		q.Add("gu", d)
	}
	return q.Encode()
}

func (s *Server) handleIndex(c *gin.Context) {
	shaper, err := s.cache.Shaper()
	if err != nil {
		s.renderError(c, err)
		return
	}

	current := c.DefaultQuery("tab", tabs[0].ID)
	valid := false
	for _, t := range tabs {
		valid = valid || t.ID == current
	}
	if !valid {
		s.renderError(c, errors.InvalidInput(fmt.Sprintf("unknown tab %q", current)))
		return
	}

	selected := s.selection(c, shaper)
	query := selectionQuery(selected)
	links := make([]tab, len(tabs))
	for i, t := range tabs {
		t.Href = "/?tab=" + t.ID
		if query != "" {
			t.Href += "&" + query
		}
		links[i] = t
	}

	data := pageData{
		Title:     pageTitle,
		Tab:       current,
		Tabs:      links,
		Query:     query,
		Districts: shaper.Districts(),
		Selected:  selected,
		Schema:    shaper.Schema(),
		Source:    s.cache.Path(),
	}

	switch current {
	case "overview":
		data.Overview, err = s.overview(shaper)
	case "stats":
		data.Stats = s.stats(shaper, selected)
	case "charts":
		data.Charts, err = s.charts(shaper, selected, data.Query)
	}
	if err != nil {
		s.renderError(c, err)
		return
	}

	s.renderTemplate(c, http.StatusOK, indexTemplate, data)
}

func (s *Server) overview(shaper *household.Shaper) (*overviewData, error) {
	total, err := shaper.CityTotal()
	if err != nil {
		return nil, err
	}
	single, err := shaper.CitySingle()
	if err != nil {
		return nil, err
	}
	share, err := shaper.SingleShare()
	if err != nil {
		return nil, err
	}

	table := shaper.Table()
	head := table.Head(s.config.Dashboard.SampleRows)
	rows := make([][]string, len(head))
	for i, r := range head {
		row := make([]string, len(table.Columns))
		for j, col := range table.Columns {
			row[j] = r.Cell(col)
		}
		rows[i] = row
	}

	return &overviewData{
		Metrics:    cityMetrics{Total: total, Single: single, Share: share},
		Columns:    table.Columns,
		Rows:       rows,
		ColumnInfo: household.DescribeColumns(table),
		Mismatches: household.Mismatches(shaper.Reconcile()),
	}, nil
}

func (s *Server) stats(shaper *household.Shaper, selected []string) *statsData {
	rows := shaper.SelectDistricts(selected)
	return &statsData{
		Describe:   shaper.DescribeByDistrict(rows),
		CrossTab:   shaper.CrossTab(rows),
		TopSingle:  shaper.TopSingle(),
		TopForeign: shaper.TopForeign(),
		City:       shaper.CitySummary(),
	}
}

func (s *Server) charts(shaper *household.Shaper, selected []string, query string) (*chartsData, error) {
	suffix := ""
	if query != "" {
		suffix = "?" + query
	}
	links := make([]chartLink, 0, len(dashboardCharts))
	for _, name := range dashboardChartOrder {
		links = append(links, chartLink{Title: dashboardCharts[name].title, Src: "/charts/" + name + ".svg" + suffix})
	}

	data := &chartsData{Charts: links}
	nodes := shaper.TypeTree(shaper.SelectDistricts(selected))
	if len(nodes) == 0 {
		return data, nil
	}
	var buf strings.Builder
	if err := render.TreemapSVG(&buf, nodes, treeWidth, treeHeight); err != nil {
		return nil, errors.Wrap(err, "failed to lay out treemap")
	}
	data.Treemap = buf.String()
	return data, nil
}

type dashboardChart struct {
	title string
	draw  func(shaper *household.Shaper, selected []string, w io.Writer, format render.Format, cfg render.ChartConfig) error
}

var dashboardChartOrder = []string{"totals", "types", "scatter", "spread"}

var dashboardCharts = map[string]dashboardChart{
	"totals": {title: "선택된 구별 총 가구 수", draw: func(shaper *household.Shaper, selected []string, w io.Writer, format render.Format, cfg render.ChartConfig) error {
		rows := shaper.DistrictTotals(shaper.SelectDistricts(selected))
		return render.Bars(w, format, cfg, "구별 총 가구 수 비교", render.BarsOf(rows, shaper.Schema().DistrictColumn))
	}},
	"types": {title: "가구 유형별 비중 (전체)", draw: func(shaper *household.Shaper, _ []string, w io.Writer, format render.Format, cfg render.ChartConfig) error {
		return render.Pie(w, format, cfg, "서울시 일반가구 세부 유형 비중", render.BarsOf(shaper.GeneralTypeMix(), shaper.Schema().TypeColumn))
	}},
	"scatter": {title: "총 가구 수 vs 외국인 가구 수 상관관계", draw: func(shaper *household.Shaper, _ []string, w io.Writer, format render.Format, cfg render.ChartConfig) error {
		points := shaper.TotalVsForeign(shaper.DistrictSubtotals())
		var trend *domain.Trend
		if t, err := household.FitTrend(points); err == nil {
			trend = &t
		}
		return render.ScatterTrend(w, format, cfg, "가구 수 규모와 외국인 가구 수의 관계", points, trend)
	}},
	"spread": {title: "구별 가구 수 분포 분석", draw: func(shaper *household.Shaper, selected []string, w io.Writer, format render.Format, cfg render.ChartConfig) error {
		return render.BoxPlot(w, format, cfg, "구별 가구 수 범위 및 분포", shaper.Spread(shaper.SelectDistricts(selected)))
	}},
}

// handleChart serves /charts/{name}.{svg|png} for the current selection
func (s *Server) handleChart(c *gin.Context) {
	file := c.Param("file")
	ext := path.Ext(file)
	chart, ok := dashboardCharts[strings.TrimSuffix(file, ext)]
	format, err := render.ParseFormat(strings.TrimPrefix(ext, "."))
	if !ok || err != nil {
		s.renderNotFound(c, "chart "+file)
		return
	}

	shaper, err := s.cache.Shaper()
	if err != nil {
		s.renderError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := chart.draw(shaper, s.selection(c, shaper), &buf, format, s.chart); err != nil {
		s.renderError(c, chartError(file, err))
		return
	}
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

// handlePlot serves a batch report chart by file name
func (s *Server) handlePlot(c *gin.Context) {
	file := c.Param("file")
	img, ok := report.LookupImage(file)
	if !ok {
		s.renderNotFound(c, "plot "+file)
		return
	}

	shaper, err := s.cache.Shaper()
	if err != nil {
		s.renderError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := img.Render(shaper, &buf, s.chart); err != nil {
		s.renderError(c, chartError(file, err))
		return
	}
	c.Data(http.StatusOK, render.PNG.ContentType(), buf.Bytes())
}

func chartError(file string, err error) error {
	if stderrors.Is(err, render.ErrNoData) {
		return errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("%s: %w", file, err))
	}
	return errors.Wrapf(err, "failed to draw %s", file)
}

// handleReport renders the batch Markdown report as HTML with charts served from /plots
func (s *Server) handleReport(c *gin.Context) {
	shaper, err := s.cache.Shaper()
	if err != nil {
		s.renderError(c, err)
		return
	}

	links := make([]string, len(report.Images))
	for i, img := range report.Images {
		links[i] = "/plots/" + img.File
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", report.HTML([]byte(report.Markdown(shaper, links))))
}

// handleExport downloads the views workbook
func (s *Server) handleExport(c *gin.Context) {
	shaper, err := s.cache.Shaper()
	if err != nil {
		s.renderError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteWorkbook(shaper, &buf); err != nil {
		s.renderError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="household_views.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (s *Server) handleHealth(c *gin.Context) {
	shaper, err := s.cache.Shaper()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"code":   errors.GetCode(err),
			"error":  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"rows":   shaper.Table().Len(),
		"loads":  s.cache.Loads(),
	})
}
