package household

import (
	"math"
	"sort"

	domain "gohousehold/domain/household"
	"gohousehold/internal/errors"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// DescribeByDistrict computes count, mean, sample std, min, quartiles and max of the
// values of each district in rows. Districts are sorted by name.
func (s *Shaper) DescribeByDistrict(rows []domain.Record) []domain.DistrictStats {
	spread := s.Spread(rows)
	out := make([]domain.DistrictStats, 0, len(spread))
	for _, dv := range spread {
		out = append(out, Describe(dv.District, dv.Values))
	}
	return out
}

// Describe summarizes one group of values. Quartiles interpolate linearly between order
// statistics; std is NaN for fewer than two values.
func Describe(name string, values []float64) domain.DistrictStats {
	d := domain.DistrictStats{District: name, Count: len(values)}
	if len(values) == 0 {
		nan := math.NaN()
		d.Mean, d.Std, d.Min, d.Q25, d.Median, d.Q75, d.Max = nan, nan, nan, nan, nan, nan, nan
		return d
	}

	d.Mean, _ = stats.Mean(values)
	d.Min, _ = stats.Min(values)
	d.Max, _ = stats.Max(values)
	d.Std = math.NaN()
	if len(values) > 1 {
		d.Std, _ = stats.StandardDeviationSample(values)
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	d.Q25 = linearQuantile(sorted, 0.25)
	d.Median = linearQuantile(sorted, 0.5)
	d.Q75 = linearQuantile(sorted, 0.75)
	return d
}

// linearQuantile interpolates at (n-1)*p over sorted data
func linearQuantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	h := float64(n-1) * p
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}

// ValueSummary describes the whole value column of the table
func (s *Shaper) ValueSummary() domain.ValueSummary {
	values := s.table.Values()
	summary := domain.ValueSummary{Rows: len(values)}
	if len(values) == 0 {
		nan := math.NaN()
		summary.Mean, summary.Median, summary.Skew, summary.Std, summary.Min, summary.Max = nan, nan, nan, nan, nan, nan
		return summary
	}

	summary.Mean, _ = stats.Mean(values)
	summary.Median, _ = stats.Median(values)
	summary.Min, _ = stats.Min(values)
	summary.Max, _ = stats.Max(values)
	summary.Std = math.NaN()
	if len(values) > 1 {
		summary.Std, _ = stats.StandardDeviationSample(values)
	}
	summary.Skew = Skewness(values)
	return summary
}

// Skewness is the adjusted Fisher-Pearson coefficient. It is NaN below three values and
// 0 for a constant column.
func Skewness(data []float64) float64 {
	n := float64(len(data))
	if len(data) < 3 {
		return math.NaN()
	}
	mean, _ := stats.Mean(data)
	stdDev, _ := stats.StandardDeviationPopulation(data)
	if stdDev == 0 {
		return 0
	}

	sumCubedDeviations := 0.0
	for _, x := range data {
		deviation := (x - mean) / stdDev
		sumCubedDeviations += deviation * deviation * deviation
	}

	skewness := sumCubedDeviations / n
	return skewness * math.Sqrt(n*(n-1)) / (n - 2)
}

// FitTrend regresses foreign households on total households
func FitTrend(points []domain.ScatterPoint) (domain.Trend, error) {
	if len(points) < 2 {
		return domain.Trend{}, errors.InvalidInput("at least two districts are needed for a trend")
	}
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = float64(p.Total)
		ys[i] = float64(p.Foreign)
	}
	if variance := stat.Variance(xs, nil); variance == 0 {
		return domain.Trend{}, errors.InvalidInput("total households do not vary across districts")
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	return domain.Trend{
		Intercept:   alpha,
		Slope:       beta,
		Correlation: stat.Correlation(xs, ys, nil),
	}, nil
}
