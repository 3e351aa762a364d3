// Package store persists assessment runs to SQLite so past runs can be
// listed and re-read. Large nested structures (trend results, findings,
// issue lists) are stored as JSON columns; the queryable identity fields
// get real columns.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/Brown-1023/document-parsing-backend/internal/assessment"
	"github.com/Brown-1023/document-parsing-backend/internal/compliance"
)

// ErrNotFound reports a run id with no stored row.
var ErrNotFound = errors.New("store: run not found")

type Store struct {
	db *sqlx.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id       TEXT PRIMARY KEY,
	generated_at TEXT NOT NULL,
	documents    INTEGER NOT NULL DEFAULT 0,
	lakes        INTEGER NOT NULL DEFAULT 0,
	issues       TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS compliance_results (
	run_id      TEXT NOT NULL,
	document_id TEXT NOT NULL,
	score       INTEGER NOT NULL,
	level       TEXT NOT NULL DEFAULT '',
	detail      TEXT NOT NULL DEFAULT '{}',
	PRIMARY KEY (run_id, document_id)
);

CREATE TABLE IF NOT EXISTS assessments (
	run_id         TEXT NOT NULL,
	canonical_name TEXT NOT NULL,
	lake_name      TEXT NOT NULL DEFAULT '',
	trajectory     TEXT NOT NULL DEFAULT '',
	composite      REAL NOT NULL DEFAULT 0,
	detail         TEXT NOT NULL DEFAULT '{}',
	PRIMARY KEY (run_id, canonical_name)
);
`

// Open creates or opens the SQLite database at path, applying the schema.
func Open(path string) (*Store, error) {
	db, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun writes one run and its per-document and per-lake rows in a single
// transaction.
func (s *Store) SaveRun(res assessment.RunResult) error {
	issues, err := json.Marshal(res.Issues)
	if err != nil {
		return fmt.Errorf("marshal issues: %w", err)
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT OR REPLACE INTO runs (run_id, generated_at, documents, lakes, issues) VALUES (?, ?, ?, ?, ?)`,
		res.RunID, res.GeneratedAt.UTC().Format(time.RFC3339Nano),
		len(res.Compliance), len(res.Assessments), string(issues),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, c := range res.Compliance {
		detail, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("marshal compliance %s: %w", c.DocumentID, err)
		}
		_, err = tx.Exec(
			`INSERT OR REPLACE INTO compliance_results (run_id, document_id, score, level, detail) VALUES (?, ?, ?, ?, ?)`,
			res.RunID, c.DocumentID, c.Score, c.Level, string(detail),
		)
		if err != nil {
			return fmt.Errorf("insert compliance %s: %w", c.DocumentID, err)
		}
	}

	for _, a := range res.Assessments {
		detail, err := json.Marshal(a)
		if err != nil {
			return fmt.Errorf("marshal assessment %s: %w", a.CanonicalName, err)
		}
		_, err = tx.Exec(
			`INSERT OR REPLACE INTO assessments (run_id, canonical_name, lake_name, trajectory, composite, detail) VALUES (?, ?, ?, ?, ?, ?)`,
			res.RunID, a.CanonicalName, a.LakeName, a.OverallTrajectory, a.Composite, string(detail),
		)
		if err != nil {
			return fmt.Errorf("insert assessment %s: %w", a.CanonicalName, err)
		}
	}

	return tx.Commit()
}

// LoadRun reconstructs a stored run by id.
func (s *Store) LoadRun(runID string) (assessment.RunResult, error) {
	var row struct {
		RunID       string `db:"run_id"`
		GeneratedAt string `db:"generated_at"`
		Documents   int    `db:"documents"`
		Lakes       int    `db:"lakes"`
		Issues      string `db:"issues"`
	}
	err := s.db.Get(&row, `SELECT run_id, generated_at, documents, lakes, issues FROM runs WHERE run_id = ?`, runID)
	if errors.Is(err, sql.ErrNoRows) {
		return assessment.RunResult{}, ErrNotFound
	}
	if err != nil {
		return assessment.RunResult{}, fmt.Errorf("select run: %w", err)
	}

	res := assessment.RunResult{RunID: row.RunID}
	if res.GeneratedAt, err = time.Parse(time.RFC3339Nano, row.GeneratedAt); err != nil {
		return assessment.RunResult{}, fmt.Errorf("parse generated_at: %w", err)
	}
	if err := json.Unmarshal([]byte(row.Issues), &res.Issues); err != nil {
		return assessment.RunResult{}, fmt.Errorf("unmarshal issues: %w", err)
	}

	var complianceBlobs []string
	err = s.db.Select(&complianceBlobs,
		`SELECT detail FROM compliance_results WHERE run_id = ? ORDER BY document_id`, runID)
	if err != nil {
		return assessment.RunResult{}, fmt.Errorf("select compliance: %w", err)
	}
	for _, blob := range complianceBlobs {
		var c compliance.Result
		if err := json.Unmarshal([]byte(blob), &c); err != nil {
			return assessment.RunResult{}, fmt.Errorf("unmarshal compliance: %w", err)
		}
		res.Compliance = append(res.Compliance, c)
	}

	var assessmentBlobs []string
	err = s.db.Select(&assessmentBlobs,
		`SELECT detail FROM assessments WHERE run_id = ? ORDER BY canonical_name`, runID)
	if err != nil {
		return assessment.RunResult{}, fmt.Errorf("select assessments: %w", err)
	}
	for _, blob := range assessmentBlobs {
		var a assessment.Assessment
		if err := json.Unmarshal([]byte(blob), &a); err != nil {
			return assessment.RunResult{}, fmt.Errorf("unmarshal assessment: %w", err)
		}
		res.Assessments = append(res.Assessments, a)
	}

	return res, nil
}

// RunSummary is one row of ListRuns.
type RunSummary struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Documents   int       `json:"documents"`
	Lakes       int       `json:"lakes"`
}

// ListRuns returns stored runs, newest first.
func (s *Store) ListRuns() ([]RunSummary, error) {
	var rows []struct {
		RunID       string `db:"run_id"`
		GeneratedAt string `db:"generated_at"`
		Documents   int    `db:"documents"`
		Lakes       int    `db:"lakes"`
	}
	err := s.db.Select(&rows,
		`SELECT run_id, generated_at, documents, lakes FROM runs ORDER BY generated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("select runs: %w", err)
	}

	summaries := make([]RunSummary, 0, len(rows))
	for _, r := range rows {
		ts, err := time.Parse(time.RFC3339Nano, r.GeneratedAt)
		if err != nil {
			return nil, fmt.Errorf("parse generated_at: %w", err)
		}
		summaries = append(summaries, RunSummary{
			RunID:       r.RunID,
			GeneratedAt: ts,
			Documents:   r.Documents,
			Lakes:       r.Lakes,
		})
	}
	return summaries, nil
}
