package testkit

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"strconv"

	"gohousehold/adapters/excel"
)

// SeoulDistricts are the 25 gu of Seoul in the order the statistics office lists them
var SeoulDistricts = []string{
	"종로구", "중구", "용산구", "성동구", "광진구", "동대문구", "중랑구", "성북구", "강북구", "도봉구",
	"노원구", "은평구", "서대문구", "마포구", "양천구", "강서구", "구로구", "금천구", "영등포구", "동작구",
	"관악구", "서초구", "강남구", "송파구", "강동구",
}

// HouseholdTypes are the general-household types below the subtotal
var HouseholdTypes = []string{"1인가구", "2인가구", "3인가구", "4인이상가구"}

// HouseholdHeaders is the column layout of the published file for one year
func HouseholdHeaders(year int) []string {
	return []string{"기간", "동별(1)", "동별(2)", "동별(3)", "구분별(1)", "구분별(2)", "구분별(3)", strconv.Itoa(year)}
}

// HouseholdGeneratorConfig configures the household data generator
type HouseholdGeneratorConfig struct {
	DistrictCount            int     `json:"district_count"`
	NeighborhoodsPerDistrict int     `json:"neighborhoods_per_district"`
	Year                     int     `json:"year"`
	PlaceholderRate          float64 `json:"placeholder_rate"`
	Seed                     int64   `json:"seed"`
}

// DefaultHouseholdConfig returns the full city with a few neighborhoods per district
func DefaultHouseholdConfig() HouseholdGeneratorConfig {
	return HouseholdGeneratorConfig{
		DistrictCount:            len(SeoulDistricts),
		NeighborhoodsPerDistrict: 3,
		Year:                     2010,
		PlaceholderRate:          0.1,
		Seed:                     42,
	}
}

// HouseholdDataGenerator generates household tables whose district subtotals add up to
// the citywide subtotals. Neighborhood rows carry random values and placeholders.
type HouseholdDataGenerator struct {
	config HouseholdGeneratorConfig
	rng    *rand.Rand
}

// NewHouseholdDataGenerator creates a new household data generator
func NewHouseholdDataGenerator(config HouseholdGeneratorConfig) *HouseholdDataGenerator {
	if config.DistrictCount <= 0 || config.DistrictCount > len(SeoulDistricts) {
		config.DistrictCount = len(SeoulDistricts)
	}
	if config.Year == 0 {
		config.Year = 2010
	}
	return &HouseholdDataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

type areaCounts struct {
	types   []int64
	foreign int64
}

func (a areaCounts) general() int64 {
	var sum int64
	for _, v := range a.types {
		sum += v
	}
	return sum
}

// Generate builds the raw table: the citywide block first, then each district block
// followed by its neighborhoods.
func (g *HouseholdDataGenerator) Generate() *excel.ExcelData {
	districts := SeoulDistricts[:g.config.DistrictCount]
	period := strconv.Itoa(g.config.Year)

	city := areaCounts{types: make([]int64, len(HouseholdTypes))}
	blocks := make([][][]string, 0, len(districts))
	for _, d := range districts {
		counts := g.districtCounts()
		for i, v := range counts.types {
			city.types[i] += v
		}
		city.foreign += counts.foreign

		block := areaRows(period, d, "소계", counts, func(v int64) string { return strconv.FormatInt(v, 10) })
		for n := 1; n <= g.config.NeighborhoodsPerDistrict; n++ {
			block = append(block, areaRows(period, d, fmt.Sprintf("%s제%d동", d[:len(d)-len("구")], n), g.neighborhoodCounts(), g.cell)...)
		}
		blocks = append(blocks, block)
	}

	rows := areaRows(period, "소계", "소계", city, func(v int64) string { return strconv.FormatInt(v, 10) })
	for _, b := range blocks {
		rows = append(rows, b...)
	}
	return &excel.ExcelData{Headers: HouseholdHeaders(g.config.Year), Rows: rows}
}

func areaRows(period, district, neighborhood string, c areaCounts, format func(int64) string) [][]string {
	row := func(category, typ string, v int64) []string {
		return []string{period, "합계", district, neighborhood, "합계", category, typ, format(v)}
	}
	general := c.general()
	rows := [][]string{
		row("소계", "소계", general+c.foreign),
		row("일반가구", "소계", general),
	}
	for i, t := range HouseholdTypes {
		rows = append(rows, row("일반가구", t, c.types[i]))
	}
	return append(rows, row("외국인가구", "소계", c.foreign))
}

func (g *HouseholdDataGenerator) districtCounts() areaCounts {
	c := areaCounts{types: make([]int64, len(HouseholdTypes))}
	base := 40000 + g.rng.Int63n(120000)
	shares := []float64{0.22, 0.24, 0.22, 0.32}
	for i, s := range shares {
		jitter := 0.8 + g.rng.Float64()*0.4
		c.types[i] = int64(float64(base) * s * jitter)
	}
	c.foreign = int64(float64(base) * (0.005 + g.rng.Float64()*0.04))
	return c
}

func (g *HouseholdDataGenerator) neighborhoodCounts() areaCounts {
	c := areaCounts{types: make([]int64, len(HouseholdTypes))}
	for i := range c.types {
		c.types[i] = g.rng.Int63n(3000)
	}
	c.foreign = g.rng.Int63n(200)
	return c
}

func (g *HouseholdDataGenerator) cell(v int64) string {
	if g.rng.Float64() < g.config.PlaceholderRate {
		return "-"
	}
	return strconv.FormatInt(v, 10)
}

// WriteCSV generates a table and writes it as UTF-8 CSV
func (g *HouseholdDataGenerator) WriteCSV(path string) error {
	data := g.Generate()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(data.Headers); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := w.WriteAll(data.Rows); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	return f.Close()
}
