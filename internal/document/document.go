// Package document defines the text-extracted monitoring document record the
// assessment engine consumes. Extraction (PDF/OCR/table parsing) happens
// upstream; records arriving here are immutable inputs.
package document

import "strings"

type Type string

const (
	TypeUnknown Type = ""
	TypeReport  Type = "report"
	TypePlan    Type = "management_plan"
)

// Record is one extracted document: identifier, source filename, raw text,
// and the raw metric mapping produced by the extraction step. Metric values
// may be numeric or textual; the parameter normalizer decides what survives.
type Record struct {
	ID       string         `json:"id"`
	Filename string         `json:"filename"`
	Text     string         `json:"text"`
	Metrics  map[string]any `json:"metrics"`
	DocType  Type           `json:"doc_type,omitempty"`
}

// Empty reports whether the record carries nothing the engine can work with:
// no metric mapping and no text at all. Such records are fatal for the
// single document and are reported upward, never silently scored.
func (r Record) Empty() bool {
	return len(r.Metrics) == 0 && strings.TrimSpace(r.Text) == ""
}
