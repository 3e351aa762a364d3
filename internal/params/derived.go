package params

import (
	"fmt"
	"math"

	"github.com/Brown-1023/document-parsing-backend/internal/rules"
)

// AddDerived computes the estimated hypoxia and biomass metrics from the
// measured parameters already in the set and inserts them under their
// canonical keys. Measured values are never overwritten, and a derived
// metric is only added when every input it needs is present. The set is
// mutated in place and returned for convenience.
func AddDerived(rs *rules.Ruleset, set Set) Set {
	deriveHypoxicVolume(rs, set)
	deriveHypoxicArea(rs, set)
	deriveBiomassPotential(rs, set)
	return set
}

// Hypoxic volume estimate: the depth fraction below the oxycline, squared to
// approximate the tapering of a lake basin, times total volume.
func deriveHypoxicVolume(rs *rules.Ruleset, set Set) {
	if set.Has(rules.ParamHypoxicVolumeM3) && set.Has(rules.ParamHypoxicVolumePct) {
		return
	}
	oxycline, ok1 := set.Value(rules.ParamOxyclineDepthM)
	maxDepth, ok2 := set.Value(rules.ParamMaxDepthM)
	totalVol, ok3 := set.Value(rules.ParamTotalVolumeM3)
	if !ok1 || !ok2 || !ok3 || maxDepth <= 0 || oxycline < 0 || oxycline > maxDepth {
		return
	}

	depthFraction := (maxDepth - oxycline) / maxDepth
	hypoxicFraction := depthFraction * depthFraction
	note := fmt.Sprintf("estimated from oxycline depth %gm of %gm max depth", oxycline, maxDepth)

	putDerived(rs, set, rules.ParamHypoxicVolumeM3, totalVol*hypoxicFraction, note)
	putDerived(rs, set, rules.ParamHypoxicVolumePct, hypoxicFraction*100, note)
}

// Hypoxic sediment area estimate: the square root of the volume fraction,
// since sediment contact area shrinks more slowly than volume with depth.
func deriveHypoxicArea(rs *rules.Ruleset, set Set) {
	if set.Has(rules.ParamHypoxicAreaPct) {
		return
	}
	volPct, ok1 := set.Value(rules.ParamHypoxicVolumePct)
	surfaceArea, ok2 := set.Value(rules.ParamSurfaceAreaM2)
	if !ok1 || !ok2 || volPct < 0 || surfaceArea <= 0 {
		return
	}

	areaFraction := math.Sqrt(volPct / 100)
	note := fmt.Sprintf("estimated sediment area %.0f m2 from hypoxic volume fraction", surfaceArea*areaFraction)
	putDerived(rs, set, rules.ParamHypoxicAreaPct, areaFraction*100, note)
}

// Biomass potential: available phosphorus in the hypoxic layer times the
// ~100:1 algal biomass-to-phosphorus mass ratio. SRP in mg/L equals g/m3,
// so kilograms of P come straight from volume times concentration over 1000.
func deriveBiomassPotential(rs *rules.Ruleset, set Set) {
	if set.Has(rules.ParamBiomassPotentialKg) {
		return
	}
	hypoxicVol, ok1 := set.Value(rules.ParamHypoxicVolumeM3)
	srp, ok2 := set.Value(rules.ParamOrthophosphate)
	if !ok1 || !ok2 || hypoxicVol <= 0 || srp <= 0 {
		return
	}

	totalPKg := hypoxicVol * srp / 1000
	note := fmt.Sprintf("from %.1f kg available P in hypoxic layer", totalPKg)
	putDerived(rs, set, rules.ParamBiomassPotentialKg, totalPKg*100, note)
}

func putDerived(rs *rules.Ruleset, set Set, key string, value float64, note string) {
	if set.Has(key) {
		return
	}
	hib, _ := rs.Polarity(key)
	set[key] = Parameter{Key: key, Value: value, HigherIsBetter: hib, Derived: true, Note: note}
}
