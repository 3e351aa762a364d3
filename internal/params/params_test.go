package params

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/Brown-1023/document-parsing-backend/internal/rules"
)

func TestNormalizeSynonymsAndCoercion(t *testing.T) {
	rs := rules.Default()
	set := Normalize(rs, map[string]any{
		"DO_min":        2.1,
		"SRP":           "0.45",
		"NH3-N":         json.Number("1.2"),
		"chl-a":         int(38),
		"made_up_field": 9.9,
		"secchi":        "not a number",
	})

	want := map[string]float64{
		rules.ParamDissolvedOxygenMin: 2.1,
		rules.ParamOrthophosphate:     0.45,
		rules.ParamAmmonia:            1.2,
		rules.ParamChlorophyllA:       38,
	}
	if len(set) != len(want) {
		t.Fatalf("got %d parameters, want %d: %v", len(set), len(want), set.Keys())
	}
	for key, val := range want {
		got, ok := set.Value(key)
		if !ok {
			t.Fatalf("missing %s", key)
		}
		if got != val {
			t.Fatalf("%s = %v, want %v", key, got, val)
		}
	}
	if p := set[rules.ParamDissolvedOxygenMin]; p.HigherIsBetter == nil || !*p.HigherIsBetter {
		t.Fatalf("dissolved_oxygen_min polarity = %v, want higher-is-better", p.HigherIsBetter)
	}
}

func TestNormalizeStructuralParameterHasNoPolarity(t *testing.T) {
	set := Normalize(rules.Default(), map[string]any{"max depth": 14.0})
	p, ok := set[rules.ParamMaxDepthM]
	if !ok {
		t.Fatal("max_depth_m not normalized")
	}
	if p.HigherIsBetter != nil {
		t.Fatalf("max_depth_m polarity = %v, want nil", *p.HigherIsBetter)
	}
}

func TestAddDerivedHypoxicChain(t *testing.T) {
	rs := rules.Default()
	set := Normalize(rs, map[string]any{
		"oxycline depth": 6.0,
		"max depth":      12.0,
		"total volume":   1_000_000.0,
		"surface area":   250_000.0,
		"SRP":            0.5,
	})
	AddDerived(rs, set)

	// Depth fraction 0.5, squared gives a quarter of the lake volume.
	vol, ok := set.Value(rules.ParamHypoxicVolumeM3)
	if !ok || vol != 250_000 {
		t.Fatalf("hypoxic volume = %v (ok=%v), want 250000", vol, ok)
	}
	pct, _ := set.Value(rules.ParamHypoxicVolumePct)
	if pct != 25 {
		t.Fatalf("hypoxic volume pct = %v, want 25", pct)
	}
	areaPct, ok := set.Value(rules.ParamHypoxicAreaPct)
	if !ok || math.Abs(areaPct-50) > 1e-9 {
		t.Fatalf("hypoxic area pct = %v (ok=%v), want 50", areaPct, ok)
	}
	// 250000 m3 at 0.5 g/m3 is 125 kg of P, times the 100:1 biomass ratio.
	biomass, ok := set.Value(rules.ParamBiomassPotentialKg)
	if !ok || math.Abs(biomass-12_500) > 1e-6 {
		t.Fatalf("biomass potential = %v (ok=%v), want 12500", biomass, ok)
	}
	if !set[rules.ParamHypoxicVolumeM3].Derived {
		t.Fatal("hypoxic volume should be flagged derived")
	}
}

func TestAddDerivedNeverOverwritesMeasured(t *testing.T) {
	rs := rules.Default()
	set := Normalize(rs, map[string]any{
		"oxycline depth": 6.0,
		"max depth":      12.0,
		"total volume":   1_000_000.0,
		"hypoxic volume": 300_000.0,
	})
	AddDerived(rs, set)

	vol, _ := set.Value(rules.ParamHypoxicVolumeM3)
	if vol != 300_000 {
		t.Fatalf("measured hypoxic volume overwritten: got %v", vol)
	}
	if set[rules.ParamHypoxicVolumeM3].Derived {
		t.Fatal("measured value must not be marked derived")
	}
}

func TestAddDerivedSkipsIncompleteInputs(t *testing.T) {
	rs := rules.Default()
	set := Normalize(rs, map[string]any{
		"oxycline depth": 6.0,
		"max depth":      12.0,
		// no total volume
	})
	AddDerived(rs, set)
	if set.Has(rules.ParamHypoxicVolumeM3) || set.Has(rules.ParamHypoxicVolumePct) {
		t.Fatalf("derived values produced without required inputs: %v", set.Keys())
	}
}

func TestAddDerivedRejectsImplausibleGeometry(t *testing.T) {
	rs := rules.Default()
	set := Normalize(rs, map[string]any{
		"oxycline depth": 15.0, // below the lake bottom
		"max depth":      12.0,
		"total volume":   1_000_000.0,
	})
	AddDerived(rs, set)
	if set.Has(rules.ParamHypoxicVolumeM3) {
		t.Fatal("hypoxic volume derived from oxycline deeper than max depth")
	}
}
