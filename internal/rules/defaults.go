package rules

func boolPtr(b bool) *bool { return &b }

// Default returns the compiled-in ruleset used when no external configuration
// is supplied. The vocabulary and weights mirror the monitoring rubric the
// surrounding service ships as its fallback configuration.
func Default() *Ruleset {
	rs := &Ruleset{
		Parameters: []ParameterSpec{
			{
				Key:            ParamDissolvedOxygenMin,
				Synonyms:       []string{"DO_min", "dissolved oxygen minimum", "minimum DO", "min dissolved oxygen", "DO minimum", "minimum dissolved oxygen"},
				HigherIsBetter: boolPtr(true),
			},
			{
				Key:            ParamOrthophosphate,
				Synonyms:       []string{"SRP", "soluble reactive phosphorus", "ortho-phosphate", "PO4", "orthophosphate_max", "srp_max"},
				HigherIsBetter: boolPtr(false),
			},
			{
				Key:            ParamAmmonia,
				Synonyms:       []string{"NH3", "NH4", "ammonium", "ammonia nitrogen", "NH3-N", "NH4-N", "ammonia_max"},
				HigherIsBetter: boolPtr(false),
			},
			{
				Key:            ParamChlorophyllA,
				Synonyms:       []string{"chlorophyll-a", "chlorophyll a", "chl-a", "chla", "chl a", "chlorophyll"},
				HigherIsBetter: boolPtr(false),
			},
			{
				Key:            ParamSecchiDepth,
				Synonyms:       []string{"secchi", "secchi disk depth", "water clarity", "clarity"},
				HigherIsBetter: boolPtr(true),
			},
			{
				Key:            ParamCyanobacteriaPct,
				Synonyms:       []string{"cyanobacteria percentage", "cyanobacteria %", "blue-green algae pct", "cyanobacteria_percentage"},
				HigherIsBetter: boolPtr(false),
			},
			{
				Key:            ParamTotalPhosphorus,
				Synonyms:       []string{"TP", "total P", "phosphorus"},
				HigherIsBetter: boolPtr(false),
			},
			{
				Key:            ParamTotalNitrogen,
				Synonyms:       []string{"TN", "total N", "nitrogen"},
				HigherIsBetter: boolPtr(false),
			},
			{
				Key:      ParamOxyclineDepthM,
				Synonyms: []string{"oxycline depth", "oxycline", "hypoxia depth"},
				// Deeper oxycline means more of the water column holds oxygen.
				HigherIsBetter: boolPtr(true),
			},
			{Key: ParamMaxDepthM, Synonyms: []string{"max depth", "maximum depth", "deepest point"}},
			{Key: ParamTotalVolumeM3, Synonyms: []string{"total volume", "lake volume", "volume"}},
			{Key: ParamSurfaceAreaM2, Synonyms: []string{"surface area", "lake area", "area"}},
			{
				Key:            ParamHypoxicVolumeM3,
				Synonyms:       []string{"hypoxic volume", "anoxic volume", "hypoxic water volume"},
				HigherIsBetter: boolPtr(false),
			},
			{
				Key:            ParamHypoxicVolumePct,
				Synonyms:       []string{"hypoxic percentage", "hypoxic volume percentage", "percent hypoxic", "hypoxic_percentage"},
				HigherIsBetter: boolPtr(false),
			},
			{
				Key:            ParamHypoxicAreaPct,
				Synonyms:       []string{"hypoxic area percentage", "hypoxic sediment area pct", "percent sediment hypoxic"},
				HigherIsBetter: boolPtr(false),
			},
			{
				Key:            ParamBiomassPotentialKg,
				Synonyms:       []string{"phytoplankton biomass potential", "biomass potential", "algal biomass potential"},
				HigherIsBetter: boolPtr(false),
			},
			{Key: ParamAlgaecideTreatment, Synonyms: []string{"algaecide", "algaecide application"}},
			{Key: ParamCopperSulfateDose, Synonyms: []string{"copper sulfate", "copper sulphate", "CuSO4"}},
			{Key: ParamHerbicideTreatment, Synonyms: []string{"herbicide", "herbicide application", "chemical treatment"}},
		},
		Critical: []CriticalRule{
			{Key: ParamDissolvedOxygenMin, Weight: 10, Importance: "hypoxia is the root cause of harmful algal blooms"},
			{Key: ParamOrthophosphate, Weight: 10, Importance: "hypolimnetic SRP drives bloom capacity"},
			{Key: ParamAmmonia, Weight: 10, Importance: "ammonia accumulates in the hypoxic zone"},
			{Key: ParamChlorophyllA, Weight: 10, Importance: "tracks realized algal biomass"},
			{Key: ParamSecchiDepth, Weight: 10, Importance: "clarity integrates trophic state"},
		},
		Calculations: []CalculationRule{
			{
				Key:         ParamHypoxicVolumePct,
				Weight:      15,
				Requires:    []string{ParamOxyclineDepthM, ParamMaxDepthM, ParamTotalVolumeM3},
				Description: "fraction of lake volume below the oxycline",
			},
			{
				Key:         ParamHypoxicAreaPct,
				Weight:      15,
				Requires:    []string{ParamHypoxicVolumePct, ParamSurfaceAreaM2},
				Description: "fraction of sediment area under hypoxic water",
			},
			{
				Key:         ParamBiomassPotentialKg,
				Weight:      15,
				Requires:    []string{ParamHypoxicVolumeM3, ParamOrthophosphate},
				Description: "potential algal biomass from hypolimnetic phosphorus",
			},
		},
		Problematic: []ProblematicRule{
			{Key: ParamAlgaecideTreatment, Weight: 5, Reason: "treats symptoms, not causes"},
			{Key: ParamCopperSulfateDose, Weight: 5, Reason: "chemical treatment, temporary relief"},
			{Key: ParamHerbicideTreatment, Weight: 5, Reason: "does not address underlying hypoxia"},
		},
		Bands: TrajectoryBands{
			SignificantImprovement: 0.6,
			GradualImprovement:     0.2,
			GradualDegradation:     -0.2,
			SignificantDegradation: -0.6,
			SignificanceAlpha:      0.05,
			FindingPercentCutoff:   10,
		},
	}
	if err := rs.finalize(); err != nil {
		// The compiled-in ruleset is validated by tests; a failure here is a
		// programming error, not a runtime condition.
		panic(err)
	}
	return rs
}
