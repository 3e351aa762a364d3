// Package params turns the raw metric map extracted from a document into a
// normalized parameter set keyed by canonical names, and computes the
// derived hypoxia and biomass metrics when their inputs are present.
package params

import (
	"encoding/json"
	"log"
	"strconv"
	"strings"

	"github.com/Brown-1023/document-parsing-backend/internal/rules"
)

// Parameter is one normalized measurement. HigherIsBetter is nil when the
// ruleset defines no polarity for the parameter. Derived parameters carry a
// Note describing how the value was estimated.
type Parameter struct {
	Key            string  `json:"key"`
	Value          float64 `json:"value"`
	HigherIsBetter *bool   `json:"higher_is_better,omitempty"`
	Derived        bool    `json:"derived,omitempty"`
	Note           string  `json:"note,omitempty"`
}

// Set is a normalized parameter set for one document, keyed by canonical
// parameter name.
type Set map[string]Parameter

// Has reports whether the set contains the canonical key.
func (s Set) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Value returns the value for key and whether it is present.
func (s Set) Value(key string) (float64, bool) {
	p, ok := s[key]
	return p.Value, ok
}

// Keys returns the canonical keys present in the set, unsorted.
func (s Set) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	return keys
}

// Normalize maps raw metric names to canonical parameter keys via the
// ruleset's synonym table and coerces values to float64. Unrecognized keys
// and non-numeric values are logged and discarded. When the same canonical
// key appears under several raw names, the first coerced value wins.
func Normalize(rs *rules.Ruleset, metrics map[string]any) Set {
	set := make(Set, len(metrics))
	for raw, v := range metrics {
		key, ok := rs.CanonicalKey(raw)
		if !ok {
			log.Printf("params: discarding unrecognized metric %q", raw)
			continue
		}
		val, ok := coerce(v)
		if !ok {
			log.Printf("params: discarding non-numeric value for %q (%T)", raw, v)
			continue
		}
		if _, dup := set[key]; dup {
			continue
		}
		hib, _ := rs.Polarity(key)
		set[key] = Parameter{Key: key, Value: val, HigherIsBetter: hib}
	}
	return set
}

func coerce(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}
