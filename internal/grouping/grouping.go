// Package grouping assembles per-document results into per-lake report
// series. Grouping keys on the canonical lake name; documents whose lake
// could not be resolved become singleton groups so they are never silently
// merged into the wrong lake.
package grouping

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Brown-1023/document-parsing-backend/internal/metadata"
	"github.com/Brown-1023/document-parsing-backend/internal/params"
)

// Entry is one document's resolved metadata and normalized parameters,
// ready to be placed in a lake's report series.
type Entry struct {
	Meta   metadata.Resolved `json:"meta"`
	Params params.Set        `json:"params"`
}

// Group is one lake's report series. Singleton groups hold a document whose
// lake name never resolved; their Key is the document id and LakeName is
// empty.
type Group struct {
	Key       string  `json:"key"`
	LakeName  string  `json:"lake_name,omitempty"`
	Entries   []Entry `json:"entries"`
	Singleton bool    `json:"singleton,omitempty"`
}

// Years returns the distinct reporting years present in the group, sorted
// ascending. Entries without a year are skipped.
func (g Group) Years() []int {
	seen := make(map[int]bool)
	var years []int
	for _, e := range g.Entries {
		if e.Meta.Year == nil || seen[*e.Meta.Year] {
			continue
		}
		seen[*e.Meta.Year] = true
		years = append(years, *e.Meta.Year)
	}
	sort.Ints(years)
	return years
}

// GroupReports partitions entries by canonical lake name. Output order is
// deterministic regardless of input order: groups sort by key, entries
// within a group by year then document id.
func GroupReports(entries []Entry) []Group {
	byKey := make(map[string]*Group)
	var order []string

	for _, e := range entries {
		key := e.Meta.LakeNameCanonical
		lake := e.Meta.LakeNameRaw
		singleton := false
		if key == "" {
			key = e.Meta.DocumentID
			lake = ""
			singleton = true
		}
		g, ok := byKey[key]
		if !ok {
			g = &Group{Key: key, LakeName: lake, Singleton: singleton}
			byKey[key] = g
			order = append(order, key)
		}
		g.Entries = append(g.Entries, e)
	}

	sort.Strings(order)
	groups := make([]Group, 0, len(order))
	for _, key := range order {
		g := byKey[key]
		sort.Slice(g.Entries, func(i, j int) bool {
			yi, yj := entryYear(g.Entries[i]), entryYear(g.Entries[j])
			if yi != yj {
				return yi < yj
			}
			return g.Entries[i].Meta.DocumentID < g.Entries[j].Meta.DocumentID
		})
		groups = append(groups, *g)
	}
	return groups
}

func entryYear(e Entry) int {
	if e.Meta.Year == nil {
		return 0
	}
	return *e.Meta.Year
}

// DetectAmbiguities flags pairs of groups whose canonical names overlap by
// token-set containment ("clear lake" vs "clear pond lake"). Such pairs may
// be the same lake under inconsistent naming; the caller surfaces them as
// warnings without merging.
func DetectAmbiguities(groups []Group) []string {
	var warnings []string
	for i := 0; i < len(groups); i++ {
		for j := i + 1; j < len(groups); j++ {
			a, b := groups[i], groups[j]
			if a.Singleton || b.Singleton {
				continue
			}
			if tokenSubset(a.Key, b.Key) || tokenSubset(b.Key, a.Key) {
				warnings = append(warnings, fmt.Sprintf(
					"lake names %q and %q may refer to the same lake; grouped separately", a.Key, b.Key))
			}
		}
	}
	return warnings
}

// tokenSubset reports whether every token of a appears in b.
func tokenSubset(a, b string) bool {
	bTokens := make(map[string]bool)
	for _, t := range strings.Fields(b) {
		bTokens[t] = true
	}
	for _, t := range strings.Fields(a) {
		if !bTokens[t] {
			return false
		}
	}
	return true
}
