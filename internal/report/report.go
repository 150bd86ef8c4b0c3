package report

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"gohousehold/adapters/render"
	domain "gohousehold/domain/household"
	"gohousehold/internal/errors"
	"gohousehold/internal/household"
)

// Options are the batch output locations
type Options struct {
	PlotsDir   string
	ReportPath string
	Chart      render.ChartConfig
}

// DefaultOptions writes next to the working directory
func DefaultOptions() Options {
	return Options{
		PlotsDir:   "plots",
		ReportPath: "report_seoul_household.md",
		Chart:      render.DefaultChartConfig(),
	}
}

// Result lists what Generate wrote
type Result struct {
	Images       []string
	ReportPath   string
	HTMLPath     string
	CrossTabHead domain.CrossTab
}

// HTMLPath returns the HTML sibling of a Markdown report path
func HTMLPath(reportPath string) string {
	return strings.TrimSuffix(reportPath, filepath.Ext(reportPath)) + ".html"
}

// Generate renders the charts, logs the head of the cross-tab and writes the Markdown
// report with its HTML rendering.
func Generate(s *household.Shaper, opts Options) (*Result, error) {
	if opts.PlotsDir == "" || opts.ReportPath == "" {
		return nil, errors.InvalidInput("plots directory and report path are required")
	}
	if strings.EqualFold(filepath.Ext(opts.ReportPath), ".html") {
		return nil, errors.InvalidInput("report path must not end in .html: " + opts.ReportPath)
	}

	images, err := RenderImages(s, opts.PlotsDir, opts.Chart)
	if err != nil {
		return nil, err
	}

	head := s.CrossTab(s.DistrictSubtotals()).Head(crossTabRows)
	log.Printf("[Report] Household type cross-tab, first %d districts:", len(head.Index))
	for _, line := range strings.Split(strings.TrimSpace(CrossTabMarkdown(head, s.Schema().DistrictColumn)), "\n") {
		log.Printf("[Report] %s", line)
	}

	if dir := filepath.Dir(opts.ReportPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrapf(err, "failed to create report directory %s", dir)
		}
	}

	md := Markdown(s, Links(opts.PlotsDir, opts.ReportPath))
	if err := os.WriteFile(opts.ReportPath, []byte(md), 0o644); err != nil {
		return nil, errors.Wrapf(err, "failed to write report %s", opts.ReportPath)
	}
	log.Printf("[Report] Saved Markdown report %s", opts.ReportPath)

	htmlPath := HTMLPath(opts.ReportPath)
	if err := os.WriteFile(htmlPath, HTML([]byte(md)), 0o644); err != nil {
		return nil, errors.Wrapf(err, "failed to write report %s", htmlPath)
	}
	log.Printf("[Report] Saved HTML report %s", htmlPath)

	return &Result{
		Images:       images,
		ReportPath:   opts.ReportPath,
		HTMLPath:     htmlPath,
		CrossTabHead: head,
	}, nil
}
