package assessment

import (
	"time"

	"github.com/Brown-1023/document-parsing-backend/internal/compliance"
	"github.com/Brown-1023/document-parsing-backend/internal/trend"
)

// Assessment is the multi-year verdict for one lake: the fitted trends,
// the overall trajectory label, and the supporting narrative strings.
type Assessment struct {
	LakeName          string         `json:"lake_name"`
	CanonicalName     string         `json:"canonical_name"`
	Years             []int          `json:"years"`
	ReportsAnalyzed   int            `json:"reports_analyzed"`
	TrendResults      []trend.Result `json:"trend_results"`
	OverallTrajectory string         `json:"overall_trajectory"`
	Composite         float64        `json:"composite"`
	KeyFindings       []string       `json:"key_findings"`
	Recommendations   []string       `json:"recommendations"`
}

// RunResult is the complete output for one batch of documents: a compliance
// result per valid document, an assessment per qualifying lake, and every
// issue raised along the way.
type RunResult struct {
	RunID       string              `json:"run_id"`
	GeneratedAt time.Time           `json:"generated_at"`
	Compliance  []compliance.Result `json:"compliance"`
	Assessments []Assessment        `json:"assessments"`
	Issues      []Issue             `json:"issues,omitempty"`
}

// Insights carries optional free-text enrichment for one lake's assessment.
// Enrichment is additive-only: it appends narrative strings and never
// changes a score, direction, or trajectory label.
type Insights struct {
	KeyFindings     []string `json:"key_findings,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
}
