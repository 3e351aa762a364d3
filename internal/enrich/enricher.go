package enrich

import (
	"context"
	"fmt"
	"strings"

	"github.com/Brown-1023/document-parsing-backend/internal/assessment"
)

// Enricher asks the model for supplementary insights about one lake's
// computed assessment. It satisfies the engine's InsightProvider contract.
type Enricher struct {
	caller LLMCaller
}

func NewEnricher(caller LLMCaller) *Enricher {
	return &Enricher{caller: caller}
}

// NewEnricherFromEnv wires the Anthropic-backed enricher, failing when no
// API key is configured.
func NewEnricherFromEnv() (*Enricher, error) {
	caller, err := NewAnthropicCallerFromEnv()
	if err != nil {
		return nil, err
	}
	return NewEnricher(caller), nil
}

type insightResponse struct {
	Insights        []string `json:"insights"`
	Recommendations []string `json:"recommendations"`
}

// Enrich prompts the model with the lake's trend summary and returns extra
// narrative. Empty strings are dropped; the response is capped so a chatty
// model cannot drown the computed findings.
func (e *Enricher) Enrich(ctx context.Context, a assessment.Assessment) (assessment.Insights, error) {
	var resp insightResponse
	if err := generate(ctx, e.caller, buildPrompt(a), &resp); err != nil {
		return assessment.Insights{}, err
	}
	return assessment.Insights{
		KeyFindings:     cleanStrings(resp.Insights, 3),
		Recommendations: cleanStrings(resp.Recommendations, 3),
	}, nil
}

func buildPrompt(a assessment.Assessment) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Lake: %s\nYears analyzed: %v\nOverall trajectory: %s\n\nParameter trends:\n",
		a.LakeName, a.Years, a.OverallTrajectory)
	for _, r := range a.TrendResults {
		fmt.Fprintf(&sb, "- %s: %s (slope %.4g", r.Parameter, r.Direction, r.Slope)
		if r.PercentChange != nil {
			fmt.Fprintf(&sb, ", %.1f%% change", *r.PercentChange)
		}
		if r.PValue != nil {
			fmt.Fprintf(&sb, ", p=%.3g", *r.PValue)
		}
		sb.WriteString(")\n")
	}
	sb.WriteString(`
Return JSON: {"insights": [up to 3 short observations], "recommendations": [up to 3 short management actions]}.
Do not restate the numeric trends; contribute ecological interpretation only.`)
	return sb.String()
}

func cleanStrings(in []string, max int) []string {
	var out []string
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
		if len(out) == max {
			break
		}
	}
	return out
}
