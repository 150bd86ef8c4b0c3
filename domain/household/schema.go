// Package household defines the data contract for the Seoul household statistics table:
// the literal column names and marker values the filters key on, the loaded table, and the
// shapes of the derived views.
package household

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Schema is the externally supplied contract between the source file and the shaping
// pipeline. None of these values are inferred from the data.
type Schema struct {
	DistrictColumn     string   `yaml:"district_column" json:"district_column"`
	NeighborhoodColumn string   `yaml:"neighborhood_column" json:"neighborhood_column"`
	CategoryColumn     string   `yaml:"category_column" json:"category_column"`
	TypeColumn         string   `yaml:"type_column" json:"type_column"`
	ValueColumn        string   `yaml:"value_column" json:"value_column"`
	SubtotalMarker     string   `yaml:"subtotal_marker" json:"subtotal_marker"`
	GeneralMarker      string   `yaml:"general_marker" json:"general_marker"`
	ForeignMarker      string   `yaml:"foreign_marker" json:"foreign_marker"`
	SingleMarker       string   `yaml:"single_marker" json:"single_marker"`
	Placeholders       []string `yaml:"placeholders" json:"placeholders"`
	TopN               int      `yaml:"top_n" json:"top_n"`
}

// DefaultSchema returns the contract of the published 2010 household CSV
func DefaultSchema() Schema {
	return Schema{
		DistrictColumn:     "동별(2)",
		NeighborhoodColumn: "동별(3)",
		CategoryColumn:     "구분별(2)",
		TypeColumn:         "구분별(3)",
		ValueColumn:        "2010",
		SubtotalMarker:     "소계",
		GeneralMarker:      "일반가구",
		ForeignMarker:      "외국인가구",
		SingleMarker:       "1인가구",
		Placeholders:       []string{"-"},
		TopN:               10,
	}
}

// LoadSchema reads a YAML schema file. Fields absent from the file keep their defaults.
// An empty path returns DefaultSchema.
func LoadSchema(path string) (Schema, error) {
	schema := DefaultSchema()
	if path == "" {
		return schema, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return schema, fmt.Errorf("failed to read schema file: %w", err)
	}
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return schema, fmt.Errorf("failed to parse schema file %s: %w", path, err)
	}
	if err := schema.Validate(); err != nil {
		return schema, fmt.Errorf("invalid schema file %s: %w", path, err)
	}
	return schema, nil
}

// Columns lists the columns the shaping pipeline indexes, value column last
func (s Schema) Columns() []string {
	return []string{s.DistrictColumn, s.NeighborhoodColumn, s.CategoryColumn, s.TypeColumn, s.ValueColumn}
}

// Validate rejects empty keys and a non-positive ranking length
func (s Schema) Validate() error {
	fields := map[string]string{
		"district_column":     s.DistrictColumn,
		"neighborhood_column": s.NeighborhoodColumn,
		"category_column":     s.CategoryColumn,
		"type_column":         s.TypeColumn,
		"value_column":        s.ValueColumn,
		"subtotal_marker":     s.SubtotalMarker,
		"general_marker":      s.GeneralMarker,
		"foreign_marker":      s.ForeignMarker,
		"single_marker":       s.SingleMarker,
	}
	for _, name := range []string{
		"district_column", "neighborhood_column", "category_column", "type_column", "value_column",
		"subtotal_marker", "general_marker", "foreign_marker", "single_marker",
	} {
		if fields[name] == "" {
			return fmt.Errorf("%s must not be empty", name)
		}
	}
	if s.TopN < 1 {
		return fmt.Errorf("top_n must be at least 1, got %d", s.TopN)
	}
	return nil
}

// IsPlaceholder reports whether a raw cell is one of the schema's missing-value markers
func (s Schema) IsPlaceholder(cell string) bool {
	for _, p := range s.Placeholders {
		if cell == p {
			return true
		}
	}
	return false
}
