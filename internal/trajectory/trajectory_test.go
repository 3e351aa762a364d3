package trajectory

import (
	"strings"
	"testing"

	"github.com/Brown-1023/document-parsing-backend/internal/rules"
	"github.com/Brown-1023/document-parsing-backend/internal/trend"
)

func floatPtr(f float64) *float64 { return &f }

func TestClassifySignificantDeclineIsDegradation(t *testing.T) {
	rs := rules.Default()
	// Minimum dissolved oxygen falling with a significant fit; higher is
	// better, so this is unfavorable and fully weighted.
	results := []trend.Result{{
		Parameter:     rules.ParamDissolvedOxygenMin,
		Slope:         -1,
		Direction:     trend.Decreasing,
		PValue:        floatPtr(0.001),
		PercentChange: floatPtr(-50),
	}}

	c := Classify(rs, results)
	if c.Composite != -1 {
		t.Fatalf("composite = %v, want -1", c.Composite)
	}
	if c.Trajectory != SignificantDegradation {
		t.Fatalf("trajectory = %q, want %q", c.Trajectory, SignificantDegradation)
	}
	if c.ScoredParameters != 1 {
		t.Fatalf("scored = %d, want 1", c.ScoredParameters)
	}
}

func TestClassifyBandEdges(t *testing.T) {
	rs := rules.Default()
	cases := []struct {
		composite float64
		want      string
	}{
		{0.7, SignificantImprovement},
		{0.6, SignificantImprovement},
		{0.5, GradualImprovement},
		{0.2, GradualImprovement},
		{0.1, Stable},
		{0, Stable},
		{-0.1, Stable},
		{-0.2, GradualDegradation},
		{-0.5, GradualDegradation},
		{-0.6, SignificantDegradation},
		{-1, SignificantDegradation},
	}
	for _, tc := range cases {
		if got := band(rs.Bands, tc.composite); got != tc.want {
			t.Errorf("band(%v) = %q, want %q", tc.composite, got, tc.want)
		}
	}
}

func TestClassifyMixedDirectionsAverage(t *testing.T) {
	rs := rules.Default()
	results := []trend.Result{
		{
			// Favorable and significant: +1.
			Parameter: rules.ParamSecchiDepth,
			Direction: trend.Increasing,
			PValue:    floatPtr(0.01),
		},
		{
			// Unfavorable, not significant: -0.5.
			Parameter: rules.ParamAmmonia,
			Direction: trend.Increasing,
			PValue:    floatPtr(0.4),
		},
		{
			// Stable: counts toward the denominator, adds nothing.
			Parameter: rules.ParamChlorophyllA,
			Direction: trend.Stable,
		},
	}

	c := Classify(rs, results)
	want := (1.0 - 0.5) / 3.0
	if c.Composite != want {
		t.Fatalf("composite = %v, want %v", c.Composite, want)
	}
	if c.Trajectory != Stable {
		t.Fatalf("trajectory = %q, want %q", c.Trajectory, Stable)
	}
}

func TestClassifyIgnoresPolarityUnknownParameters(t *testing.T) {
	rs := rules.Default()
	results := []trend.Result{{
		// Max depth has no configured polarity; it never moves the score.
		Parameter: rules.ParamMaxDepthM,
		Direction: trend.Increasing,
		PValue:    floatPtr(0.001),
	}}

	c := Classify(rs, results)
	if c.ScoredParameters != 0 {
		t.Fatalf("scored = %d, want 0", c.ScoredParameters)
	}
	if c.Composite != 0 || c.Trajectory != Stable {
		t.Fatalf("composite = %v trajectory = %q, want 0 / Stable", c.Composite, c.Trajectory)
	}
}

func TestKeyFindingsPhrasing(t *testing.T) {
	rs := rules.Default()
	results := []trend.Result{
		{
			Parameter:     rules.ParamCyanobacteriaPct,
			Direction:     trend.Increasing,
			PValue:        floatPtr(0.02),
			PercentChange: floatPtr(34.5),
		},
		{
			// Small and insignificant: no finding.
			Parameter:     rules.ParamSecchiDepth,
			Direction:     trend.Increasing,
			PValue:        floatPtr(0.6),
			PercentChange: floatPtr(2),
		},
	}

	c := Classify(rs, results)
	if len(c.KeyFindings) != 1 {
		t.Fatalf("got %d findings, want 1: %v", len(c.KeyFindings), c.KeyFindings)
	}
	want := "Cyanobacteria Pct has increased by 34.5% over the monitoring period"
	if c.KeyFindings[0] != want {
		t.Fatalf("finding = %q, want %q", c.KeyFindings[0], want)
	}
}

func TestRecommendationsDeduplicatedWithFallback(t *testing.T) {
	rs := rules.Default()
	// Both nutrient parameters rising map to the same advisory text.
	results := []trend.Result{
		{Parameter: rules.ParamOrthophosphate, Direction: trend.Increasing},
		{Parameter: rules.ParamAmmonia, Direction: trend.Increasing},
	}
	c := Classify(rs, results)
	if len(c.Recommendations) != 1 || !strings.Contains(c.Recommendations[0], "Nutrient levels are increasing") {
		t.Fatalf("recommendations = %v, want single nutrient advisory", c.Recommendations)
	}

	// Nothing matches the table: the standing-monitoring fallback applies.
	c = Classify(rs, []trend.Result{{Parameter: rules.ParamSecchiDepth, Direction: trend.Increasing}})
	if len(c.Recommendations) != 1 || c.Recommendations[0] != defaultRecommendation {
		t.Fatalf("recommendations = %v, want fallback", c.Recommendations)
	}
}
