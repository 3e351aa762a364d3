// Package trend fits per-parameter linear trends across a lake's reporting
// years. Statistics that are undefined for the available data (p-value with
// too few points, percent change from a zero baseline) are represented as
// nil, never as sentinel numbers.
package trend

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/Brown-1023/document-parsing-backend/internal/grouping"
)

// ErrInsufficientData rejects trend analysis for a lake group with fewer
// than three distinct reporting years.
var ErrInsufficientData = errors.New("trend: fewer than 3 distinct reporting years")

const minGroupYears = 3

// Direction labels for a fitted trend.
const (
	Increasing = "increasing"
	Decreasing = "decreasing"
	Stable     = "stable"
)

// Result is the fitted trend for one parameter. PValue is nil when the
// parameter has fewer than three observations; PercentChange is nil when
// the earliest value is zero.
type Result struct {
	Parameter     string   `json:"parameter"`
	Slope         float64  `json:"slope"`
	Intercept     float64  `json:"intercept"`
	PValue        *float64 `json:"p_value,omitempty"`
	PercentChange *float64 `json:"percent_change,omitempty"`
	Direction     string   `json:"direction"`
	FirstYear     int      `json:"first_year"`
	LastYear      int      `json:"last_year"`
	FirstValue    float64  `json:"first_value"`
	LastValue     float64  `json:"last_value"`
	Observations  int      `json:"observations"`
}

// Significant reports whether the fit's p-value is defined and below alpha.
func (r Result) Significant(alpha float64) bool {
	return r.PValue != nil && *r.PValue < alpha
}

// Analyze fits a least-squares line per parameter over the group's years.
// The group must span at least three distinct years; individual parameters
// are fitted when they appear in at least two of them. Values reported more
// than once for the same year are averaged. Results are sorted by parameter
// name so output is deterministic.
func Analyze(g grouping.Group) ([]Result, error) {
	if len(g.Years()) < minGroupYears {
		return nil, ErrInsufficientData
	}

	series := collectSeries(g)
	results := make([]Result, 0, len(series))
	for param, points := range series {
		if len(points) < 2 {
			continue
		}
		results = append(results, fit(param, points))
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Parameter < results[j].Parameter })
	return results, nil
}

type point struct {
	year  int
	value float64
}

// collectSeries gathers per-parameter yearly values, averaging duplicate
// years, and returns each series sorted by year.
func collectSeries(g grouping.Group) map[string][]point {
	type acc struct {
		sum float64
		n   int
	}
	raw := make(map[string]map[int]*acc)
	for _, e := range g.Entries {
		if e.Meta.Year == nil {
			continue
		}
		year := *e.Meta.Year
		for key, p := range e.Params {
			byYear, ok := raw[key]
			if !ok {
				byYear = make(map[int]*acc)
				raw[key] = byYear
			}
			a, ok := byYear[year]
			if !ok {
				a = &acc{}
				byYear[year] = a
			}
			a.sum += p.Value
			a.n++
		}
	}

	series := make(map[string][]point, len(raw))
	for key, byYear := range raw {
		points := make([]point, 0, len(byYear))
		for year, a := range byYear {
			points = append(points, point{year: year, value: a.sum / float64(a.n)})
		}
		sort.Slice(points, func(i, j int) bool { return points[i].year < points[j].year })
		series[key] = points
	}
	return series
}

func fit(param string, points []point) Result {
	n := len(points)
	xs := make([]float64, n)
	ys := make([]float64, n)
	var absSum float64
	for i, p := range points {
		xs[i] = float64(p.year)
		ys[i] = p.value
		absSum += math.Abs(p.value)
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)

	res := Result{
		Parameter:    param,
		Slope:        slope,
		Intercept:    intercept,
		FirstYear:    points[0].year,
		LastYear:     points[n-1].year,
		FirstValue:   points[0].value,
		LastValue:    points[n-1].value,
		Observations: n,
	}

	// Direction uses a tolerance scaled to the magnitude of the series, so
	// a flat series with float noise still reads as stable.
	epsilon := 0.01 * absSum / float64(n)
	switch {
	case slope > epsilon:
		res.Direction = Increasing
	case slope < -epsilon:
		res.Direction = Decreasing
	default:
		res.Direction = Stable
	}

	if res.FirstValue != 0 {
		pct := (res.LastValue - res.FirstValue) / math.Abs(res.FirstValue) * 100
		res.PercentChange = &pct
	}
	if n >= 3 {
		p := slopePValue(xs, ys, intercept, slope)
		res.PValue = &p
	}
	return res
}

// slopePValue runs a two-sided t-test of the null hypothesis slope == 0.
func slopePValue(xs, ys []float64, intercept, slope float64) float64 {
	n := float64(len(xs))
	xMean := stat.Mean(xs, nil)

	var rss, sxx float64
	for i := range xs {
		resid := ys[i] - (intercept + slope*xs[i])
		rss += resid * resid
		dx := xs[i] - xMean
		sxx += dx * dx
	}

	if rss == 0 {
		// Perfect fit: a nonzero slope is as significant as it gets.
		if slope == 0 {
			return 1
		}
		return 0
	}

	se := math.Sqrt(rss / (n - 2) / sxx)
	t := slope / se
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: n - 2}
	return 2 * dist.CDF(-math.Abs(t))
}
