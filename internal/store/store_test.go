package store

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/Brown-1023/document-parsing-backend/internal/assessment"
	"github.com/Brown-1023/document-parsing-backend/internal/compliance"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRun() assessment.RunResult {
	return assessment.RunResult{
		RunID:       "run-1",
		GeneratedAt: time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
		Compliance: []compliance.Result{{
			DocumentID:          "d1",
			Score:               -60,
			Level:               "failing",
			PresentCritical:     []string{},
			MissingCritical:     []string{"dissolved_oxygen_min"},
			PresentCalculations: []string{},
			MissingCalculations: []string{},
			PresentProblematic:  []string{"algaecide_treatment"},
		}},
		Assessments: []assessment.Assessment{{
			LakeName:          "Clear Lake",
			CanonicalName:     "clear lake",
			Years:             []int{2021, 2022, 2023},
			ReportsAnalyzed:   3,
			OverallTrajectory: "Significant Degradation",
			Composite:         -1,
			KeyFindings:       []string{"Dissolved Oxygen Min has decreased by 50.0% over the monitoring period"},
			Recommendations:   []string{"Dissolved oxygen is declining - investigate causes and consider intervention"},
		}},
		Issues: []assessment.Issue{{
			Code:    assessment.CodeAmbiguousGrouping,
			Message: "lake names may refer to the same lake",
		}},
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	s := openTemp(t)
	want := sampleRun()

	if err := s.SaveRun(want); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	got, err := s.LoadRun("run-1")
	if err != nil {
		t.Fatalf("LoadRun: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch:\ngot:  %+v\nwant: %+v", got, want)
	}
}

func TestLoadRunMissing(t *testing.T) {
	s := openTemp(t)
	if _, err := s.LoadRun("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSaveRunIsIdempotent(t *testing.T) {
	s := openTemp(t)
	run := sampleRun()

	if err := s.SaveRun(run); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if err := s.SaveRun(run); err != nil {
		t.Fatalf("SaveRun again: %v", err)
	}

	runs, err := s.ListRuns()
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	s := openTemp(t)

	old := sampleRun()
	old.RunID = "run-old"
	old.GeneratedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := sampleRun()
	recent.RunID = "run-new"
	recent.GeneratedAt = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	for _, r := range []assessment.RunResult{old, recent} {
		if err := s.SaveRun(r); err != nil {
			t.Fatalf("SaveRun %s: %v", r.RunID, err)
		}
	}

	runs, err := s.ListRuns()
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 || runs[0].RunID != "run-new" || runs[1].RunID != "run-old" {
		t.Fatalf("runs = %+v, want run-new first", runs)
	}
	if runs[0].Documents != 1 || runs[0].Lakes != 1 {
		t.Fatalf("summary counts = %+v", runs[0])
	}
}
