// Package metadata resolves a canonical lake identity and a reporting year
// from one document's filename and text. Resolution is best-effort: missing
// fields stay explicitly unresolved (nil year, empty name) rather than
// defaulting to zero values.
package metadata

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Brown-1023/document-parsing-backend/internal/document"
)

// ErrUnresolved signals that neither the filename nor the text yielded a year
// or a lake name. The document is excluded from grouping but remains valid
// for compliance scoring.
var ErrUnresolved = errors.New("metadata: no lake name or year found")

const (
	minPlausibleYear = 1990
	nameSearchWindow = 500
)

// Resolved is the lake identity and reporting year extracted from one
// document. Year is nil when no plausible year was found; LakeNameRaw and
// LakeNameCanonical are empty when no name was found.
type Resolved struct {
	DocumentID        string `json:"document_id"`
	LakeNameRaw       string `json:"lake_name_raw,omitempty"`
	LakeNameCanonical string `json:"lake_name_canonical,omitempty"`
	Year              *int   `json:"year,omitempty"`
}

var (
	fourDigitRe    = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	sixDigitRe     = regexp.MustCompile(`\b(\d{2})(\d{2})(\d{2})\b`)
	labeledYearRe  = regexp.MustCompile(`(?i)\b(?:report\s+date|monitoring\s+year|year)\s*:\s*[^\n]{0,40}?\b((?:19|20)\d{2})\b`)
	nameBeforeRe   = regexp.MustCompile(`(?i)\b([A-Za-z][A-Za-z']*(?:\s+[A-Za-z][A-Za-z']*){0,2})\s+lake\b`)
	nameAfterRe    = regexp.MustCompile(`(?i)\blake\s+([A-Za-z][A-Za-z']*(?:\s+[A-Za-z][A-Za-z']*){0,2})\b`)
	parentheticals = regexp.MustCompile(`\([^)]*\)`)
)

// articles and descriptors that the name regex can swallow ahead of the
// actual lake name.
var leadingStopWords = map[string]bool{
	"the": true, "of": true, "at": true, "on": true, "for": true,
	"report": true, "annual": true, "monitoring": true,
}

// noiseTokens are stripped during canonicalization: revision markers, report
// boilerplate, and similar suffixes that vary between uploads of the same
// lake's reports.
var noiseTokens = map[string]bool{
	"report": true, "final": true, "draft": true, "rev": true,
	"revision": true, "copy": true, "updated": true, "annual": true,
	"survey": true, "monitoring": true,
}

// Resolve extracts the lake name and reporting year for one document.
// It returns ErrUnresolved when both are missing; a partial Resolved is
// still returned so the caller can group or score with what exists.
func Resolve(doc document.Record) (Resolved, error) {
	res := Resolved{DocumentID: doc.ID}

	res.Year = resolveYear(doc.Filename, doc.Text)

	if raw := resolveName(doc.Filename, doc.Text); raw != "" {
		res.LakeNameRaw = raw
		res.LakeNameCanonical = Canonicalize(raw)
	}

	if res.LakeNameRaw == "" && res.Year == nil {
		return res, ErrUnresolved
	}
	return res, nil
}

func resolveYear(filename, text string) *int {
	maxYear := time.Now().Year() + 1

	// Filename first: the first plausible 4-digit token wins.
	for _, m := range fourDigitRe.FindAllString(filenameSearchable(filename), -1) {
		if y, ok := plausibleYear(m, maxYear); ok {
			return &y
		}
	}
	// MMDDYY-style date stamps in filenames (e.g. 071620 for July 16 2020).
	for _, m := range sixDigitRe.FindAllStringSubmatch(filenameSearchable(filename), -1) {
		mm, _ := strconv.Atoi(m[1])
		dd, _ := strconv.Atoi(m[2])
		yy, _ := strconv.Atoi(m[3])
		if mm < 1 || mm > 12 || dd < 1 || dd > 31 {
			continue
		}
		y := 1900 + yy
		if yy <= 30 {
			y = 2000 + yy
		}
		if y >= minPlausibleYear && y <= maxYear {
			return &y
		}
	}
	// Labeled year patterns anywhere in the text.
	if m := labeledYearRe.FindStringSubmatch(text); m != nil {
		if y, ok := plausibleYear(m[1], maxYear); ok {
			return &y
		}
	}
	return nil
}

func plausibleYear(token string, maxYear int) (int, bool) {
	y, err := strconv.Atoi(token)
	if err != nil || y < minPlausibleYear || y > maxYear {
		return 0, false
	}
	return y, true
}

func resolveName(filename, text string) string {
	// Filenames are already lake-centric, so any word shape is accepted;
	// prose requires capitalized words to avoid grabbing verbs around "Lake".
	if name := findLakeName(filenameSearchable(filename), false); name != "" {
		return name
	}
	window := text
	if len(window) > nameSearchWindow {
		window = window[:nameSearchWindow]
	}
	return findLakeName(window, true)
}

// generic words that follow "Lake" in report boilerplate ("Lake Management
// Plan", "Lake Monitoring Report") and are never the lake's actual name.
var afterStopWords = map[string]bool{
	"management": true, "monitoring": true, "report": true, "plan": true,
	"assessment": true, "association": true, "district": true, "county": true,
	"water": true, "quality": true,
}

func findLakeName(s string, requireProper bool) string {
	for _, m := range nameBeforeRe.FindAllStringSubmatch(s, -1) {
		if name := nameSuffix(m[1], requireProper); name != "" {
			return name + " Lake"
		}
	}
	for _, m := range nameAfterRe.FindAllStringSubmatch(s, -1) {
		var words []string
		for _, w := range strings.Fields(m[1]) {
			if afterStopWords[strings.ToLower(w)] || (requireProper && !capitalized(w)) {
				break
			}
			words = append(words, w)
		}
		if len(words) > 0 {
			return "Lake " + strings.Join(words, " ")
		}
	}
	return ""
}

// nameSuffix keeps the longest run of name-like words ending the captured
// phrase, so "Annual Report Austin" yields "Austin" and "prepared for"
// yields nothing.
func nameSuffix(phrase string, requireProper bool) string {
	words := strings.Fields(phrase)
	start := len(words)
	for start > 0 {
		w := words[start-1]
		if leadingStopWords[strings.ToLower(w)] || (requireProper && !capitalized(w)) {
			break
		}
		start--
	}
	return strings.Join(words[start:], " ")
}

func capitalized(w string) bool {
	return w != "" && w[0] >= 'A' && w[0] <= 'Z'
}

func filenameSearchable(filename string) string {
	base := filename
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	return strings.NewReplacer("_", " ", "-", " ").Replace(base)
}

// Canonicalize derives the grouping identity from a raw lake name:
// case-folded, whitespace-normalized, stripped of noise tokens (years,
// revision markers, parenthetical suffixes), and word-order normalized so
// "Lake Austin" and "Austin Lake" share one canonical form.
func Canonicalize(raw string) string {
	s := strings.ToLower(parentheticals.ReplaceAllString(raw, " "))
	s = strings.NewReplacer("_", " ", "-", " ", ",", " ").Replace(s)

	var kept []string
	for _, tok := range strings.Fields(s) {
		if fourDigitRe.MatchString(tok) || noiseTokens[tok] {
			continue
		}
		if strings.HasPrefix(tok, "v") && len(tok) > 1 && isDigits(tok[1:]) {
			continue
		}
		if strings.HasPrefix(tok, "rev") && len(tok) > 3 && isDigits(tok[3:]) {
			continue
		}
		kept = append(kept, tok)
	}
	// Rotate a leading "lake" to the end: "lake austin" -> "austin lake".
	if len(kept) > 1 && kept[0] == "lake" {
		kept = append(kept[1:], "lake")
	}
	return strings.Join(kept, " ")
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
