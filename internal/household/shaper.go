package household

import (
	"sort"

	domain "gohousehold/domain/household"
	"gohousehold/internal/errors"
)

// Predicate selects records
type Predicate func(domain.Record) bool

// Where returns the records matching every predicate, in table order.
// The result shares Record values with the input; nothing is copied or mutated.
func Where(records []domain.Record, preds ...Predicate) []domain.Record {
	out := make([]domain.Record, 0, len(records))
	for _, r := range records {
		pass := true
		for _, p := range preds {
			if !p(r) {
				pass = false
				break
			}
		}
		if pass {
			out = append(out, r)
		}
	}
	return out
}

// Eq matches a column equal to a literal
func Eq(column, value string) Predicate {
	return func(r domain.Record) bool { return r.Cell(column) == value }
}

// Ne matches a column different from a literal
func Ne(column, value string) Predicate {
	return func(r domain.Record) bool { return r.Cell(column) != value }
}

// In matches a column whose value is one of the literals
func In(column string, values ...string) Predicate {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return func(r domain.Record) bool { return set[r.Cell(column)] }
}

// SortByValueDesc orders records by value, largest first. Ties keep their row order.
func SortByValueDesc(records []domain.Record) []domain.Record {
	out := make([]domain.Record, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	return out
}

// TopN returns the n largest records by value, ties broken by row order
func TopN(records []domain.Record, n int) []domain.Record {
	sorted := SortByValueDesc(records)
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// Shaper derives the named views from one loaded table and one schema
type Shaper struct {
	table  *domain.Table
	schema domain.Schema
}

// NewShaper checks that the table carries every column the schema names
func NewShaper(table *domain.Table, schema domain.Schema) (*Shaper, error) {
	if table == nil {
		return nil, errors.InvalidInput("table is nil")
	}
	for _, col := range schema.Columns() {
		if !table.HasColumn(col) {
			return nil, errors.KeyNotFound(col)
		}
	}
	return &Shaper{table: table, schema: schema}, nil
}

// Table returns the table the shaper reads
func (s *Shaper) Table() *domain.Table {
	return s.table
}

// Schema returns the keys the shaper filters on
func (s *Shaper) Schema() domain.Schema {
	return s.schema
}

// Districts lists the distinct district names in sorted order, without the subtotal row
func (s *Shaper) Districts() []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range s.table.Records {
		d := r.Cell(s.schema.DistrictColumn)
		if d == s.schema.SubtotalMarker || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// DefaultSelection returns the first n districts
func (s *Shaper) DefaultSelection(n int) []string {
	all := s.Districts()
	if n >= 0 && n < len(all) {
		all = all[:n]
	}
	return all
}

// DistrictSubtotals keeps the per-district aggregate rows: the neighborhood is the
// subtotal marker and the district is not.
func (s *Shaper) DistrictSubtotals() []domain.Record {
	return Where(s.table.Records,
		Eq(s.schema.NeighborhoodColumn, s.schema.SubtotalMarker),
		Ne(s.schema.DistrictColumn, s.schema.SubtotalMarker),
	)
}

// SelectDistricts restricts the district subtotals to the named districts
func (s *Shaper) SelectDistricts(districts []string) []domain.Record {
	return Where(s.DistrictSubtotals(), In(s.schema.DistrictColumn, districts...))
}

// CityTotal is the citywide all-households value
func (s *Shaper) CityTotal() (int64, error) {
	return s.firstValue("city total",
		Eq(s.schema.DistrictColumn, s.schema.SubtotalMarker),
		Eq(s.schema.CategoryColumn, s.schema.SubtotalMarker),
	)
}

// CitySingle is the citywide single-person household value
func (s *Shaper) CitySingle() (int64, error) {
	return s.firstValue("city single households",
		Eq(s.schema.DistrictColumn, s.schema.SubtotalMarker),
		Eq(s.schema.TypeColumn, s.schema.SingleMarker),
	)
}

// CityGeneral is the citywide general-household subtotal
func (s *Shaper) CityGeneral() (int64, error) {
	return s.firstValue("city general households",
		Eq(s.schema.DistrictColumn, s.schema.SubtotalMarker),
		Eq(s.schema.CategoryColumn, s.schema.GeneralMarker),
		Eq(s.schema.TypeColumn, s.schema.SubtotalMarker),
	)
}

// SingleShare is the percentage of single-person households among all households
func (s *Shaper) SingleShare() (float64, error) {
	total, err := s.CityTotal()
	if err != nil {
		return 0, err
	}
	single, err := s.CitySingle()
	if err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, errors.InvalidInput("city total is zero")
	}
	return float64(single) / float64(total) * 100, nil
}

func (s *Shaper) firstValue(what string, preds ...Predicate) (int64, error) {
	rows := Where(s.table.Records, preds...)
	if len(rows) == 0 {
		return 0, errors.Wrap(errors.KeyNotFound(s.schema.SubtotalMarker), what)
	}
	return rows[0].Value, nil
}

// TopSingle ranks districts by single-person households
func (s *Shaper) TopSingle() []domain.Record {
	rows := Where(s.DistrictSubtotals(), Eq(s.schema.TypeColumn, s.schema.SingleMarker))
	return TopN(rows, s.schema.TopN)
}

// TopForeign ranks districts by foreign households
func (s *Shaper) TopForeign() []domain.Record {
	rows := Where(s.DistrictSubtotals(), Eq(s.schema.CategoryColumn, s.schema.ForeignMarker))
	return TopN(rows, s.schema.TopN)
}

// CitySummary lists the citywide value of every category/type pair below the subtotal
func (s *Shaper) CitySummary() []domain.Record {
	return Where(s.table.Records,
		Eq(s.schema.DistrictColumn, s.schema.SubtotalMarker),
		Ne(s.schema.TypeColumn, s.schema.SubtotalMarker),
	)
}

// DistrictTotals keeps the all-households rows of the given subtotal rows, largest first
func (s *Shaper) DistrictTotals(rows []domain.Record) []domain.Record {
	return SortByValueDesc(Where(rows, Eq(s.schema.CategoryColumn, s.schema.SubtotalMarker)))
}

// SingleByDistrict keeps the single-person rows of the given subtotal rows, largest first
func (s *Shaper) SingleByDistrict(rows []domain.Record) []domain.Record {
	return SortByValueDesc(Where(rows, Eq(s.schema.TypeColumn, s.schema.SingleMarker)))
}

// GeneralTypeMix is the citywide breakdown of general households by type
func (s *Shaper) GeneralTypeMix() []domain.Record {
	return Where(s.table.Records,
		Eq(s.schema.DistrictColumn, s.schema.SubtotalMarker),
		Eq(s.schema.CategoryColumn, s.schema.GeneralMarker),
		Ne(s.schema.TypeColumn, s.schema.SubtotalMarker),
	)
}

// TypeTree nests the general-household rows of the given subtotal rows as
// district -> household type. The type subtotal row is left out so a parent's value is
// the sum of its children. Districts and types keep first-seen order.
func (s *Shaper) TypeTree(rows []domain.Record) []domain.TreeNode {
	general := Where(rows,
		Eq(s.schema.CategoryColumn, s.schema.GeneralMarker),
		Ne(s.schema.TypeColumn, s.schema.SubtotalMarker),
	)

	var tree []domain.TreeNode
	pos := make(map[string]int)
	for _, r := range general {
		d := r.Cell(s.schema.DistrictColumn)
		i, ok := pos[d]
		if !ok {
			i = len(tree)
			pos[d] = i
			tree = append(tree, domain.TreeNode{Name: d})
		}
		tree[i].Value += r.Value
		tree[i].Children = append(tree[i].Children, domain.TreeNode{
			Name:  r.Cell(s.schema.TypeColumn),
			Value: r.Value,
		})
	}
	return tree
}

// TotalVsForeign pivots the given subtotal rows into one (total, foreign) point per
// district. Districts missing either side are dropped.
func (s *Shaper) TotalVsForeign(rows []domain.Record) []domain.ScatterPoint {
	type sides struct {
		total, foreign       int64
		hasTotal, hasForeign bool
	}
	byDistrict := make(map[string]*sides)
	for _, r := range Where(rows, In(s.schema.CategoryColumn, s.schema.SubtotalMarker, s.schema.ForeignMarker)) {
		d := r.Cell(s.schema.DistrictColumn)
		sd, ok := byDistrict[d]
		if !ok {
			sd = &sides{}
			byDistrict[d] = sd
		}
		if r.Cell(s.schema.CategoryColumn) == s.schema.SubtotalMarker {
			sd.total += r.Value
			sd.hasTotal = true
		} else {
			sd.foreign += r.Value
			sd.hasForeign = true
		}
	}

	names := make([]string, 0, len(byDistrict))
	for d := range byDistrict {
		names = append(names, d)
	}
	sort.Strings(names)

	points := make([]domain.ScatterPoint, 0, len(names))
	for _, d := range names {
		sd := byDistrict[d]
		if !sd.hasTotal || !sd.hasForeign {
			continue
		}
		points = append(points, domain.ScatterPoint{District: d, Total: sd.total, Foreign: sd.foreign})
	}
	return points
}

// Spread groups the values of the given rows by district, districts sorted
func (s *Shaper) Spread(rows []domain.Record) []domain.DistrictValues {
	byDistrict := make(map[string][]float64)
	for _, r := range rows {
		d := r.Cell(s.schema.DistrictColumn)
		byDistrict[d] = append(byDistrict[d], float64(r.Value))
	}
	names := make([]string, 0, len(byDistrict))
	for d := range byDistrict {
		names = append(names, d)
	}
	sort.Strings(names)

	out := make([]domain.DistrictValues, len(names))
	for i, d := range names {
		out[i] = domain.DistrictValues{District: d, Values: byDistrict[d]}
	}
	return out
}
