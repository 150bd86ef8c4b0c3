package household

import (
	"sort"

	domain "gohousehold/domain/household"
)

// CrossTab pivots the general-household rows of rows into district x type sums.
// Index and columns are sorted; a cell no row contributed to is not Present.
func (s *Shaper) CrossTab(rows []domain.Record) domain.CrossTab {
	general := Where(rows, Eq(s.schema.CategoryColumn, s.schema.GeneralMarker))
	return Pivot(general, s.schema.DistrictColumn, s.schema.TypeColumn)
}

// Pivot sums record values by (index column, columns column)
func Pivot(rows []domain.Record, indexColumn, columnsColumn string) domain.CrossTab {
	type key struct{ row, col string }
	sums := make(map[key]int64)
	rowSet := make(map[string]bool)
	colSet := make(map[string]bool)

	for _, r := range rows {
		k := key{r.Cell(indexColumn), r.Cell(columnsColumn)}
		sums[k] += r.Value
		rowSet[k.row] = true
		colSet[k.col] = true
	}

	ct := domain.CrossTab{
		Index:   sortedKeys(rowSet),
		Columns: sortedKeys(colSet),
	}
	ct.Cells = make([][]domain.CrossCell, len(ct.Index))
	for i, rk := range ct.Index {
		ct.Cells[i] = make([]domain.CrossCell, len(ct.Columns))
		for j, ck := range ct.Columns {
			if v, ok := sums[key{rk, ck}]; ok {
				ct.Cells[i][j] = domain.CrossCell{Value: v, Present: true}
			}
		}
	}
	return ct
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Reconcile compares every citywide category/type value with the sum of the matching
// district subtotals, in citywide row order.
func (s *Shaper) Reconcile() []domain.Reconciliation {
	type key struct{ category, typ string }

	districtSums := make(map[key]int64)
	for _, r := range s.DistrictSubtotals() {
		districtSums[key{r.Cell(s.schema.CategoryColumn), r.Cell(s.schema.TypeColumn)}] += r.Value
	}

	seen := make(map[key]bool)
	var out []domain.Reconciliation
	for _, r := range Where(s.table.Records, Eq(s.schema.DistrictColumn, s.schema.SubtotalMarker)) {
		k := key{r.Cell(s.schema.CategoryColumn), r.Cell(s.schema.TypeColumn)}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, domain.Reconciliation{
			Category:    k.category,
			Type:        k.typ,
			CityValue:   r.Value,
			DistrictSum: districtSums[k],
		})
	}
	return out
}

// Mismatches filters reconciliations down to the inconsistent ones
func Mismatches(results []domain.Reconciliation) []domain.Reconciliation {
	var out []domain.Reconciliation
	for _, r := range results {
		if !r.Consistent() {
			out = append(out, r)
		}
	}
	return out
}
