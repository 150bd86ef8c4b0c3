package household

// DistrictStats is one row of the per-district describe table
type DistrictStats struct {
	District string  `json:"district"`
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	Std      float64 `json:"std"` // NaN below two observations
	Min      float64 `json:"min"`
	Q25      float64 `json:"q25"`
	Median   float64 `json:"median"`
	Q75      float64 `json:"q75"`
	Max      float64 `json:"max"`
}

// CrossCell is a pivot cell; Present is false when no row fed it
type CrossCell struct {
	Value   int64 `json:"value"`
	Present bool  `json:"present"`
}

// CrossTab is a district x household-type pivot of summed values
type CrossTab struct {
	Index   []string      `json:"index"`
	Columns []string      `json:"columns"`
	Cells   [][]CrossCell `json:"cells"`
}

// Head returns a cross-tab limited to the first n index rows
func (c CrossTab) Head(n int) CrossTab {
	if n < 0 {
		n = 0
	}
	if n > len(c.Index) {
		n = len(c.Index)
	}
	return CrossTab{Index: c.Index[:n], Columns: c.Columns, Cells: c.Cells[:n]}
}

// Range returns the min and max of present cells; ok is false for an empty pivot
func (c CrossTab) Range() (lo, hi int64, ok bool) {
	for _, row := range c.Cells {
		for _, cell := range row {
			if !cell.Present {
				continue
			}
			if !ok || cell.Value < lo {
				lo = cell.Value
			}
			if !ok || cell.Value > hi {
				hi = cell.Value
			}
			ok = true
		}
	}
	return lo, hi, ok
}

// TreeNode is a district or household-type node of the structure tree
type TreeNode struct {
	Name     string     `json:"name"`
	Value    int64      `json:"value"`
	Children []TreeNode `json:"children,omitempty"`
}

// ScatterPoint pairs a district's total households with its foreign households
type ScatterPoint struct {
	District string `json:"district"`
	Total    int64  `json:"total"`
	Foreign  int64  `json:"foreign"`
}

// DistrictValues holds every selected value of one district, for box plots
type DistrictValues struct {
	District string    `json:"district"`
	Values   []float64 `json:"values"`
}

// ValueSummary describes the whole value column
type ValueSummary struct {
	Rows   int     `json:"rows"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Skew   float64 `json:"skew"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Reconciliation compares a citywide subtotal with the sum of its district subtotals
type Reconciliation struct {
	Category    string `json:"category"`
	Type        string `json:"type"`
	CityValue   int64  `json:"city_value"`
	DistrictSum int64  `json:"district_sum"`
}

// Consistent reports whether the district subtotals add up to the citywide value
func (r Reconciliation) Consistent() bool {
	return r.CityValue == r.DistrictSum
}

// Trend is a least-squares fit of foreign households on total households
type Trend struct {
	Intercept   float64 `json:"intercept"`
	Slope       float64 `json:"slope"`
	Correlation float64 `json:"correlation"`
}

// Predict evaluates the fitted line at x
func (t Trend) Predict(x float64) float64 {
	return t.Intercept + t.Slope*x
}
