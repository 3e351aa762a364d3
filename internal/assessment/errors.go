package assessment

import "fmt"

// Issue codes. All are per-document or per-lake conditions reported
// alongside partial results; none aborts a run.
const (
	CodeInvalidDocument    = "invalid_document"
	CodeUnresolvedMetadata = "unresolved_metadata"
	CodeInsufficientData   = "insufficient_data"
	CodeAmbiguousGrouping  = "ambiguous_grouping"
	CodeUndefinedStatistic = "undefined_statistic"
)

// Issue is one recoverable condition raised during a run, tied to the
// document or lake it concerns.
type Issue struct {
	Code       string `json:"code"`
	DocumentID string `json:"document_id,omitempty"`
	LakeName   string `json:"lake_name,omitempty"`
	Message    string `json:"message"`
}

func (i Issue) Error() string {
	return fmt.Sprintf("%s: %s", i.Code, i.Message)
}
