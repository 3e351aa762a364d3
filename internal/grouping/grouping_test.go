package grouping

import (
	"reflect"
	"testing"

	"github.com/Brown-1023/document-parsing-backend/internal/metadata"
)

func intPtr(y int) *int { return &y }

func entry(docID, raw string, year *int) Entry {
	return Entry{Meta: metadata.Resolved{
		DocumentID:        docID,
		LakeNameRaw:       raw,
		LakeNameCanonical: metadata.Canonicalize(raw),
		Year:              year,
	}}
}

func TestGroupReportsNameVariantsShareOneGroup(t *testing.T) {
	entries := []Entry{
		entry("d1", "Austin Lake 2019", intPtr(2019)),
		entry("d2", "Lake Austin 2021", intPtr(2021)),
		entry("d3", "AUSTIN LAKE (2022)", intPtr(2022)),
	}

	groups := GroupReports(entries)
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	g := groups[0]
	if g.Key != "austin lake" {
		t.Fatalf("group key = %q, want %q", g.Key, "austin lake")
	}
	if got := g.Years(); !reflect.DeepEqual(got, []int{2019, 2021, 2022}) {
		t.Fatalf("years = %v, want [2019 2021 2022]", got)
	}
}

func TestGroupReportsOrderIndependence(t *testing.T) {
	forward := []Entry{
		entry("d1", "Clear Lake", intPtr(2020)),
		entry("d2", "Clear Lake", intPtr(2021)),
		entry("d3", "Mirror Lake", intPtr(2020)),
	}
	reversed := []Entry{forward[2], forward[1], forward[0]}

	a, b := GroupReports(forward), GroupReports(reversed)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("grouping depends on input order:\n%v\n%v", a, b)
	}
	if a[0].Key != "clear lake" || a[1].Key != "mirror lake" {
		t.Fatalf("groups not sorted by key: %v, %v", a[0].Key, a[1].Key)
	}
}

func TestGroupReportsUnresolvedNameBecomesSingleton(t *testing.T) {
	entries := []Entry{
		entry("doc-9", "", intPtr(2020)),
		entry("d1", "Clear Lake", intPtr(2020)),
	}

	groups := GroupReports(entries)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	var singleton *Group
	for i := range groups {
		if groups[i].Singleton {
			singleton = &groups[i]
		}
	}
	if singleton == nil {
		t.Fatal("no singleton group for unresolved document")
	}
	if singleton.Key != "doc-9" || singleton.LakeName != "" {
		t.Fatalf("singleton key=%q lake=%q, want doc id key and empty name", singleton.Key, singleton.LakeName)
	}
}

func TestGroupEntriesSortedByYearThenDocID(t *testing.T) {
	entries := []Entry{
		entry("z", "Clear Lake", intPtr(2021)),
		entry("a", "Clear Lake", intPtr(2021)),
		entry("m", "Clear Lake", intPtr(2019)),
	}
	g := GroupReports(entries)[0]
	got := []string{g.Entries[0].Meta.DocumentID, g.Entries[1].Meta.DocumentID, g.Entries[2].Meta.DocumentID}
	if !reflect.DeepEqual(got, []string{"m", "a", "z"}) {
		t.Fatalf("entry order = %v, want [m a z]", got)
	}
}

func TestDetectAmbiguities(t *testing.T) {
	groups := GroupReports([]Entry{
		entry("d1", "Clear Lake", intPtr(2020)),
		entry("d2", "Clear Pond Lake", intPtr(2020)),
		entry("d3", "Mirror Lake", intPtr(2020)),
	})

	warnings := DetectAmbiguities(groups)
	if len(warnings) != 1 {
		t.Fatalf("got %d warnings, want 1: %v", len(warnings), warnings)
	}

	// "mirror lake" and "clear lake" share the token "lake" but neither
	// contains the other, so only the clear/clear-pond pair is flagged.
	if got := DetectAmbiguities(GroupReports([]Entry{
		entry("d1", "Clear Lake", intPtr(2020)),
		entry("d3", "Mirror Lake", intPtr(2020)),
	})); len(got) != 0 {
		t.Fatalf("unexpected warnings: %v", got)
	}
}
