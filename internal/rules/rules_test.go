package rules

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultRulesetValidates(t *testing.T) {
	rs := Default()
	if len(rs.Critical) != 5 {
		t.Fatalf("expected 5 critical rules, got %d", len(rs.Critical))
	}
	if len(rs.Calculations) != 3 {
		t.Fatalf("expected 3 calculation rules, got %d", len(rs.Calculations))
	}
}

func TestCanonicalKeySynonyms(t *testing.T) {
	rs := Default()
	cases := []struct {
		raw  string
		want string
	}{
		{"DO_min", ParamDissolvedOxygenMin},
		{"dissolved oxygen minimum", ParamDissolvedOxygenMin},
		{"Dissolved-Oxygen_Minimum", ParamDissolvedOxygenMin},
		{"SRP", ParamOrthophosphate},
		{"chl-a", ParamChlorophyllA},
		{"NH4-N", ParamAmmonia},
		{"hypoxic_percentage", ParamHypoxicVolumePct},
	}
	for _, c := range cases {
		got, ok := rs.CanonicalKey(c.raw)
		if !ok {
			t.Fatalf("CanonicalKey(%q): not found", c.raw)
		}
		if got != c.want {
			t.Fatalf("CanonicalKey(%q) = %q, want %q", c.raw, got, c.want)
		}
	}
	if _, ok := rs.CanonicalKey("turbidity of the soul"); ok {
		t.Fatal("expected unknown raw key to miss")
	}
}

func TestPolarityTable(t *testing.T) {
	rs := Default()
	p, ok := rs.Polarity(ParamDissolvedOxygenMin)
	if !ok || p == nil || !*p {
		t.Fatal("dissolved_oxygen_min should be higher-is-better")
	}
	p, ok = rs.Polarity(ParamOrthophosphate)
	if !ok || p == nil || *p {
		t.Fatal("orthophosphate should be lower-is-better")
	}
	p, ok = rs.Polarity(ParamMaxDepthM)
	if !ok {
		t.Fatal("max_depth_m should be a known parameter")
	}
	if p != nil {
		t.Fatal("max_depth_m should have no polarity")
	}
}

func TestComplianceLevelBands(t *testing.T) {
	rs := Default()
	cases := []struct {
		score int
		want  string
	}{
		{95, "excellent"}, {80, "excellent"}, {79, "good"}, {60, "good"},
		{45, "fair"}, {25, "poor"}, {0, "failing"}, {-60, "failing"},
	}
	for _, c := range cases {
		if got := rs.ComplianceLevel(c.score); got != c.want {
			t.Fatalf("ComplianceLevel(%d) = %q, want %q", c.score, got, c.want)
		}
	}
}

func TestLoadYAML(t *testing.T) {
	blob := []byte(`
parameters:
  - key: dissolved_oxygen_min
    synonyms: ["DO_min"]
    higher_is_better: true
  - key: orthophosphate
    synonyms: ["SRP"]
    higher_is_better: false
critical:
  - key: dissolved_oxygen_min
    weight: 10
calculations: []
problematic: []
bands:
  significant_improvement: 0.6
  gradual_improvement: 0.2
  gradual_degradation: -0.2
  significant_degradation: -0.6
  significance_alpha: 0.05
  finding_percent_cutoff: 10
`)
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, blob, 0o644); err != nil {
		t.Fatal(err)
	}
	rs, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got, ok := rs.CanonicalKey("do min"); !ok || got != "dissolved_oxygen_min" {
		t.Fatalf("CanonicalKey after load = %q, %v", got, ok)
	}
}

func TestLoadRejectsUnknownReference(t *testing.T) {
	blob := []byte(`
parameters:
  - key: dissolved_oxygen_min
    higher_is_better: true
critical:
  - key: nonexistent
    weight: 10
bands:
  significant_improvement: 0.6
  gradual_improvement: 0.2
  gradual_degradation: -0.2
  significant_degradation: -0.6
  significance_alpha: 0.05
  finding_percent_cutoff: 10
`)
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, blob, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for unknown critical parameter")
	}
}
