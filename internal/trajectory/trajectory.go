// Package trajectory folds a lake's per-parameter trend results into one
// overall trajectory label with supporting findings and recommendations.
package trajectory

import (
	"fmt"
	"math"
	"strings"

	"github.com/Brown-1023/document-parsing-backend/internal/rules"
	"github.com/Brown-1023/document-parsing-backend/internal/trend"
)

// Trajectory labels, from best to worst.
const (
	SignificantImprovement = "Significant Improvement"
	GradualImprovement     = "Gradual Improvement"
	Stable                 = "Stable"
	GradualDegradation     = "Gradual Degradation"
	SignificantDegradation = "Significant Degradation"
)

const (
	maxFindings        = 5
	maxRecommendations = 4
)

// Classification is the aggregated verdict for one lake. Composite is the
// per-parameter improvement score normalized to [-1, 1] over the
// ScoredParameters that carry a known polarity.
type Classification struct {
	Trajectory       string   `json:"trajectory"`
	Composite        float64  `json:"composite"`
	ScoredParameters int      `json:"scored_parameters"`
	KeyFindings      []string `json:"key_findings"`
	Recommendations  []string `json:"recommendations"`
}

// Classify scores each trend result against the parameter's polarity and
// bands the normalized composite. Parameters without a configured polarity
// contribute findings but never move the composite. A lake with no scorable
// parameters classifies as Stable with a zero composite.
func Classify(rs *rules.Ruleset, results []trend.Result) Classification {
	alpha := rs.Bands.SignificanceAlpha

	var sum float64
	var scored int
	for _, r := range results {
		hib, ok := rs.Polarity(r.Parameter)
		if !ok || hib == nil {
			continue
		}
		scored++
		if r.Direction == trend.Stable {
			continue
		}
		favorable := (r.Direction == trend.Increasing) == *hib
		weight := 0.5
		if r.Significant(alpha) {
			weight = 1
		}
		if favorable {
			sum += weight
		} else {
			sum -= weight
		}
	}

	var composite float64
	if scored > 0 {
		composite = sum / float64(scored)
	}

	return Classification{
		Trajectory:       band(rs.Bands, composite),
		Composite:        composite,
		ScoredParameters: scored,
		KeyFindings:      keyFindings(rs, results),
		Recommendations:  recommendations(results),
	}
}

func band(b rules.TrajectoryBands, c float64) string {
	switch {
	case c >= b.SignificantImprovement:
		return SignificantImprovement
	case c >= b.GradualImprovement:
		return GradualImprovement
	case c <= b.SignificantDegradation:
		return SignificantDegradation
	case c <= b.GradualDegradation:
		return GradualDegradation
	default:
		return Stable
	}
}

// keyFindings reports parameters whose movement is large or statistically
// significant, in the sorted order the trend results arrive in.
func keyFindings(rs *rules.Ruleset, results []trend.Result) []string {
	var findings []string
	for _, r := range results {
		if len(findings) == maxFindings {
			break
		}
		bigChange := r.PercentChange != nil && math.Abs(*r.PercentChange) >= rs.Bands.FindingPercentCutoff
		if !bigChange && !r.Significant(rs.Bands.SignificanceAlpha) {
			continue
		}
		name := displayName(r.Parameter)
		switch r.Direction {
		case trend.Increasing:
			if r.PercentChange != nil {
				findings = append(findings, fmt.Sprintf("%s has increased by %.1f%% over the monitoring period", name, math.Abs(*r.PercentChange)))
			} else {
				findings = append(findings, fmt.Sprintf("%s shows an increasing trend", name))
			}
		case trend.Decreasing:
			if r.PercentChange != nil {
				findings = append(findings, fmt.Sprintf("%s has decreased by %.1f%% over the monitoring period", name, math.Abs(*r.PercentChange)))
			} else {
				findings = append(findings, fmt.Sprintf("%s shows a decreasing trend", name))
			}
		default:
			findings = append(findings, fmt.Sprintf("%s has remained relatively stable", name))
		}
	}
	return findings
}

// recommendationTable maps (parameter, direction) to advisory text. The
// texts are fixed so repeated runs over the same data produce identical
// reports.
var recommendationTable = map[[2]string]string{
	{rules.ParamHypoxicVolumeM3, trend.Increasing}:  "Hypoxic volume is increasing - implement aeration or nutrient reduction strategies immediately",
	{rules.ParamHypoxicVolumePct, trend.Increasing}: "Hypoxic volume is increasing - implement aeration or nutrient reduction strategies immediately",
	{rules.ParamHypoxicVolumeM3, trend.Decreasing}:  "Hypoxic volume is decreasing - continue current management practices",
	{rules.ParamHypoxicVolumePct, trend.Decreasing}: "Hypoxic volume is decreasing - continue current management practices",
	{rules.ParamDissolvedOxygenMin, trend.Decreasing}: "Dissolved oxygen is declining - investigate causes and consider intervention",
	{rules.ParamOrthophosphate, trend.Increasing}:     "Nutrient levels are increasing - review watershed management and implement source controls",
	{rules.ParamAmmonia, trend.Increasing}:            "Nutrient levels are increasing - review watershed management and implement source controls",
	{rules.ParamCyanobacteriaPct, trend.Increasing}:   "Cyanobacteria dominance is increasing - high HAB risk, implement mitigation measures",
	{rules.ParamSecchiDepth, trend.Decreasing}:        "Water clarity is declining - monitor algal growth and suspended sediment sources",
	{rules.ParamChlorophyllA, trend.Increasing}:       "Algal biomass is increasing - evaluate nutrient loading and bloom response planning",
}

const defaultRecommendation = "Continue regular monitoring and maintain current management practices"

func recommendations(results []trend.Result) []string {
	var recs []string
	seen := make(map[string]bool)
	for _, r := range results {
		if len(recs) == maxRecommendations {
			break
		}
		text, ok := recommendationTable[[2]string{r.Parameter, r.Direction}]
		if !ok || seen[text] {
			continue
		}
		seen[text] = true
		recs = append(recs, text)
	}
	if len(recs) == 0 {
		recs = append(recs, defaultRecommendation)
	}
	return recs
}

func displayName(param string) string {
	words := strings.Split(param, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
