// Package compliance scores one document's normalized parameter set against
// the configured rubric. Scoring is a pure fold over the rule lists: the
// same parameter set and ruleset always produce the same result, and the
// itemized present/missing sets explain every point of the score.
package compliance

import (
	"fmt"
	"sort"

	"github.com/Brown-1023/document-parsing-backend/internal/document"
	"github.com/Brown-1023/document-parsing-backend/internal/params"
	"github.com/Brown-1023/document-parsing-backend/internal/rules"
)

// Result is the scored rubric evaluation for one document. The score is
// unclamped; Level maps it into the descriptive compliance bands.
type Result struct {
	DocumentID          string        `json:"document_id"`
	DocType             document.Type `json:"doc_type,omitempty"`
	Score               int           `json:"score"`
	Level               string        `json:"level"`
	PresentCritical     []string      `json:"present_critical"`
	MissingCritical     []string      `json:"missing_critical"`
	PresentCalculations []string      `json:"present_calculations"`
	MissingCalculations []string      `json:"missing_calculations"`
	PresentProblematic  []string      `json:"present_problematic"`
	DataGaps            []string      `json:"data_gaps,omitempty"`
}

// Score evaluates the parameter set against the ruleset. Critical
// parameters add their weight when present and subtract it when missing.
// A calculation counts as present when every required input parameter and
// the derived value itself are in the set. Problematic parameters subtract
// their weight whenever present.
func Score(docID string, docType document.Type, set params.Set, rs *rules.Ruleset) Result {
	res := Result{
		DocumentID:          docID,
		DocType:             docType,
		PresentCritical:     []string{},
		MissingCritical:     []string{},
		PresentCalculations: []string{},
		MissingCalculations: []string{},
		PresentProblematic:  []string{},
	}

	for _, rule := range rs.Critical {
		if set.Has(rule.Key) {
			res.Score += rule.Weight
			res.PresentCritical = append(res.PresentCritical, rule.Key)
		} else {
			res.Score -= rule.Weight
			res.MissingCritical = append(res.MissingCritical, rule.Key)
			res.DataGaps = append(res.DataGaps, gapText(rule.Key, rule.Importance))
		}
	}

	for _, rule := range rs.Calculations {
		if calculationPresent(rule, set) {
			res.Score += rule.Weight
			res.PresentCalculations = append(res.PresentCalculations, rule.Key)
		} else {
			res.Score -= rule.Weight
			res.MissingCalculations = append(res.MissingCalculations, rule.Key)
			res.DataGaps = append(res.DataGaps, gapText(rule.Key, rule.Description))
		}
	}

	for _, rule := range rs.Problematic {
		if set.Has(rule.Key) {
			res.Score -= rule.Weight
			res.PresentProblematic = append(res.PresentProblematic, rule.Key)
		}
	}

	sort.Strings(res.PresentCritical)
	sort.Strings(res.MissingCritical)
	sort.Strings(res.PresentCalculations)
	sort.Strings(res.MissingCalculations)
	sort.Strings(res.PresentProblematic)

	res.Level = rs.ComplianceLevel(res.Score)
	return res
}

func calculationPresent(rule rules.CalculationRule, set params.Set) bool {
	if !set.Has(rule.Key) {
		return false
	}
	for _, req := range rule.Requires {
		if !set.Has(req) {
			return false
		}
	}
	return true
}

func gapText(key, detail string) string {
	if detail == "" {
		return fmt.Sprintf("missing %s", key)
	}
	return fmt.Sprintf("missing %s (%s)", key, detail)
}
