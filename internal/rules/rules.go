// Package rules holds the externally supplied configuration the assessment
// engine consumes at startup: the canonical parameter vocabulary with synonym
// and polarity tables, the weighted compliance rubric, and the trajectory
// classification bands. A Ruleset is immutable once loaded; reloading is an
// explicit Load call, never implicit mutation.
package rules

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
)

// Canonical parameter keys. Raw metric names from the extraction step are
// mapped onto these via the synonym table; anything unmapped is discarded.
const (
	ParamDissolvedOxygenMin = "dissolved_oxygen_min"
	ParamOrthophosphate     = "orthophosphate"
	ParamAmmonia            = "ammonia"
	ParamChlorophyllA       = "chlorophyll_a"
	ParamSecchiDepth        = "secchi_depth"
	ParamCyanobacteriaPct   = "cyanobacteria_pct"
	ParamTotalPhosphorus    = "total_phosphorus"
	ParamTotalNitrogen      = "total_nitrogen"
	ParamOxyclineDepthM     = "oxycline_depth_m"
	ParamMaxDepthM          = "max_depth_m"
	ParamTotalVolumeM3      = "total_volume_m3"
	ParamSurfaceAreaM2      = "surface_area_m2"

	// Derived calculation keys. These can also arrive pre-computed from the
	// extraction step; params.AddDerived fills them in when the inputs exist.
	ParamHypoxicVolumeM3     = "hypoxic_volume_m3"
	ParamHypoxicVolumePct    = "hypoxic_volume_pct"
	ParamHypoxicAreaPct      = "hypoxic_area_pct"
	ParamBiomassPotentialKg  = "biomass_potential_kg"
	ParamAlgaecideTreatment  = "algaecide_treatment"
	ParamCopperSulfateDose   = "copper_sulfate_dose"
	ParamHerbicideTreatment  = "herbicide_treatment"
)

// ParameterSpec describes one canonical parameter: the raw names that map to
// it and whether a higher value is ecologically favorable. Polarity is nil
// for structural parameters (depth, volume, area) that have no ecological
// direction; those are excluded from trajectory aggregation but still
// retained for display.
type ParameterSpec struct {
	Key            string   `yaml:"key" json:"key"`
	Synonyms       []string `yaml:"synonyms" json:"synonyms"`
	HigherIsBetter *bool    `yaml:"higher_is_better" json:"higher_is_better"`
}

// CriticalRule awards +Weight when the parameter is present in a document's
// normalized set and -Weight when missing.
type CriticalRule struct {
	Key        string `yaml:"key" json:"key"`
	Weight     int    `yaml:"weight" json:"weight"`
	Importance string `yaml:"importance,omitempty" json:"importance,omitempty"`
}

// CalculationRule names a derived value. The calculation is "present" when
// all required input parameters are in the set and the derived key itself
// carries a value; it scores +Weight, otherwise -Weight.
type CalculationRule struct {
	Key         string   `yaml:"key" json:"key"`
	Weight      int      `yaml:"weight" json:"weight"`
	Requires    []string `yaml:"requires" json:"requires"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
}

// ProblematicRule deducts Weight whenever the flagged parameter appears.
type ProblematicRule struct {
	Key    string `yaml:"key" json:"key"`
	Weight int    `yaml:"weight" json:"weight"`
	Reason string `yaml:"reason,omitempty" json:"reason,omitempty"`
}

// TrajectoryBands holds the tunable thresholds of the trajectory classifier.
// The composite score is normalized to [-1, 1] before banding.
type TrajectoryBands struct {
	SignificantImprovement float64 `yaml:"significant_improvement" json:"significant_improvement"`
	GradualImprovement     float64 `yaml:"gradual_improvement" json:"gradual_improvement"`
	GradualDegradation     float64 `yaml:"gradual_degradation" json:"gradual_degradation"`
	SignificantDegradation float64 `yaml:"significant_degradation" json:"significant_degradation"`
	SignificanceAlpha      float64 `yaml:"significance_alpha" json:"significance_alpha"`
	FindingPercentCutoff   float64 `yaml:"finding_percent_cutoff" json:"finding_percent_cutoff"`
}

// Ruleset is the full engine configuration, loaded once and shared read-only
// across concurrent assessment runs.
type Ruleset struct {
	Parameters   []ParameterSpec   `yaml:"parameters" json:"parameters"`
	Critical     []CriticalRule    `yaml:"critical" json:"critical"`
	Calculations []CalculationRule `yaml:"calculations" json:"calculations"`
	Problematic  []ProblematicRule `yaml:"problematic" json:"problematic"`
	Bands        TrajectoryBands   `yaml:"bands" json:"bands"`

	synonyms map[string]string
	polarity map[string]*bool
}

// Load reads a YAML ruleset from path and validates it.
func Load(path string) (*Ruleset, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ruleset: %w", err)
	}
	var rs Ruleset
	if err := yaml.Unmarshal(blob, &rs); err != nil {
		return nil, fmt.Errorf("parse ruleset: %w", err)
	}
	if err := rs.finalize(); err != nil {
		return nil, err
	}
	return &rs, nil
}

func (rs *Ruleset) finalize() error {
	if len(rs.Parameters) == 0 {
		return fmt.Errorf("ruleset defines no parameters")
	}
	rs.synonyms = map[string]string{}
	rs.polarity = map[string]*bool{}
	for _, p := range rs.Parameters {
		if strings.TrimSpace(p.Key) == "" {
			return fmt.Errorf("parameter with empty key")
		}
		if _, dup := rs.polarity[p.Key]; dup {
			return fmt.Errorf("duplicate parameter key %q", p.Key)
		}
		rs.polarity[p.Key] = p.HigherIsBetter
		rs.synonyms[NormalizeRawKey(p.Key)] = p.Key
		for _, syn := range p.Synonyms {
			rs.synonyms[NormalizeRawKey(syn)] = p.Key
		}
	}
	for _, c := range rs.Critical {
		if _, ok := rs.polarity[c.Key]; !ok {
			return fmt.Errorf("critical rule references unknown parameter %q", c.Key)
		}
	}
	for _, c := range rs.Calculations {
		if _, ok := rs.polarity[c.Key]; !ok {
			return fmt.Errorf("calculation rule references unknown parameter %q", c.Key)
		}
		for _, req := range c.Requires {
			if _, ok := rs.polarity[req]; !ok {
				return fmt.Errorf("calculation %q requires unknown parameter %q", c.Key, req)
			}
		}
	}
	for _, p := range rs.Problematic {
		if _, ok := rs.polarity[p.Key]; !ok {
			return fmt.Errorf("problematic rule references unknown parameter %q", p.Key)
		}
	}
	if rs.Bands.SignificanceAlpha <= 0 || rs.Bands.SignificanceAlpha >= 1 {
		return fmt.Errorf("significance_alpha must be in (0, 1), got %v", rs.Bands.SignificanceAlpha)
	}
	if !(rs.Bands.SignificantDegradation < rs.Bands.GradualDegradation &&
		rs.Bands.GradualDegradation < rs.Bands.GradualImprovement &&
		rs.Bands.GradualImprovement < rs.Bands.SignificantImprovement) {
		return fmt.Errorf("trajectory bands must be strictly ordered")
	}
	return nil
}

// CanonicalKey maps a raw extracted metric name onto its canonical parameter
// key. The second return is false for names outside the vocabulary.
func (rs *Ruleset) CanonicalKey(raw string) (string, bool) {
	key, ok := rs.synonyms[NormalizeRawKey(raw)]
	return key, ok
}

// Polarity returns the higher-is-better flag for a canonical key, or nil when
// the parameter has no ecological direction. ok is false for unknown keys.
func (rs *Ruleset) Polarity(key string) (*bool, bool) {
	p, ok := rs.polarity[key]
	return p, ok
}

// ComplianceLevel maps a raw compliance score onto the descriptive band the
// surrounding service reports. Scores are unclamped, so the bands are open
// at both ends.
func (rs *Ruleset) ComplianceLevel(score int) string {
	switch {
	case score >= 80:
		return "excellent"
	case score >= 60:
		return "good"
	case score >= 40:
		return "fair"
	case score >= 20:
		return "poor"
	default:
		return "failing"
	}
}

// NormalizeRawKey lowercases a raw metric name and collapses separators so
// that "DO_min", "do min" and "DO Min" hit the same synonym entry.
func NormalizeRawKey(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.NewReplacer("-", " ", "_", " ", ".", " ", "/", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
