package ui

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Template names
const (
	indexTemplate = "index.html"
	errorTemplate = "error.html"
)

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"comma": comma,
		"fixed": func(v float64, digits int) string {
			if math.IsNaN(v) {
				return "NaN"
			}
			return strconv.FormatFloat(v, 'f', digits, 64)
		},
		"add": func(a, b int) int { return a + b },
		"contains": func(list []string, s string) bool {
			for _, v := range list {
				if v == s {
					return true
				}
			}
			return false
		},
		"safeHTML": func(s string) template.HTML { return template.HTML(s) },
	}
}

var koreanPrinter = message.NewPrinter(language.Korean)

// comma formats a count with Korean digit grouping
func comma(v int64) string {
	return koreanPrinter.Sprint(number.Decimal(v))
}

// parseTemplates parses every page under templates/ by base name
func parseTemplates(assets fs.FS) (*template.Template, error) {
	templatesFS, err := fs.Sub(assets, "templates")
	if err != nil {
		return nil, fmt.Errorf("failed to create templates filesystem: %w", err)
	}

	files, err := fs.Glob(templatesFS, "*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to glob templates: %w", err)
	}
	log.Printf("[TemplateInit] Found %d template files: %v", len(files), files)

	templates := template.New("").Funcs(templateFuncs())
	for _, file := range files {
		content, err := fs.ReadFile(templatesFS, file)
		if err != nil {
			return nil, fmt.Errorf("failed to read template %s: %w", file, err)
		}
		if _, err := templates.New(file).Parse(string(content)); err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", file, err)
		}
	}

	for _, required := range []string{indexTemplate, errorTemplate} {
		if templates.Lookup(required) == nil {
			return nil, fmt.Errorf("missing template %s", required)
		}
	}
	return templates, nil
}

// renderTemplate executes a template with the given data
func (s *Server) renderTemplate(c *gin.Context, status int, templateName string, data interface{}) {
	// First render to a buffer to catch any errors before writing to response
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		log.Printf("[Template] Error rendering %s: %v", templateName, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Template rendering failed", "details": err.Error()})
		return
	}

	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}
