package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// CurrentSchemaVersion is the latest schema version.
// Bump this when adding migrations.
const CurrentSchemaVersion = 1

// Init initializes the SQLite database at baseDir/fnlgen.db.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.fnlgen.
func Init(baseDir string) (*sql.DB, error) {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	// Explicit chmod (best-effort, may not work on all platforms)
	_ = os.Chmod(baseDir, 0700)

	dbPath := filepath.Join(baseDir, "fnlgen.db")
	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := verifyWALMode(db); err != nil {
		db.Close()
		return nil, err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	_ = os.Chmod(dbPath, 0600)

	return db, nil
}

// migrate applies schema migrations based on user_version.
func migrate(db *sql.DB) error {
	version, err := GetUserVersion(db)
	if err != nil {
		return err
	}

	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS runs (
		  id            TEXT PRIMARY KEY,
		  input_sha256  TEXT NOT NULL,
		  course_count  INTEGER NOT NULL,
		  status        TEXT NOT NULL,
		  matched_terms TEXT,
		  error_text    TEXT,
		  created_at    INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_runs_created_at
		ON runs(created_at DESC);

		CREATE TABLE IF NOT EXISTS findings (
		  run_id    TEXT NOT NULL REFERENCES runs(id),
		  course_no TEXT NOT NULL,
		  ok        INTEGER NOT NULL,
		  errors    TEXT NOT NULL,
		  warnings  TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_findings_run_id
		ON findings(run_id);
		`
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("migration 1 failed: %w", err)
		}
		if err := SetUserVersion(db, 1); err != nil {
			return err
		}
	}

	// Future migrations go here:
	// if version < 2 { ... }

	return nil
}

// verifyWALMode checks that WAL mode is active (set via connection string).
func verifyWALMode(db *sql.DB) error {
	var journalMode string
	if err := db.QueryRow("PRAGMA journal_mode;").Scan(&journalMode); err != nil {
		return fmt.Errorf("failed to verify journal mode: %w", err)
	}
	if journalMode != "wal" {
		return fmt.Errorf("expected WAL mode, got %s", journalMode)
	}
	return nil
}

// GetUserVersion returns the current schema version (user_version pragma).
func GetUserVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get user_version: %w", err)
	}
	return version, nil
}

// SetUserVersion sets the schema version (user_version pragma).
func SetUserVersion(db *sql.DB, version int) error {
	_, err := db.Exec(fmt.Sprintf("PRAGMA user_version=%d", version))
	if err != nil {
		return fmt.Errorf("failed to set user_version: %w", err)
	}
	return nil
}

// InsertRun records one pipeline invocation.
func InsertRun(ctx context.Context, db *sql.DB, run Run) error {
	var terms sql.NullString
	if len(run.MatchedTerms) > 0 {
		b, err := json.Marshal(run.MatchedTerms)
		if err != nil {
			return fmt.Errorf("failed to encode matched terms: %w", err)
		}
		terms = sql.NullString{String: string(b), Valid: true}
	}
	var errText sql.NullString
	if run.ErrorText != "" {
		errText = sql.NullString{String: run.ErrorText, Valid: true}
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO runs (id, input_sha256, course_count, status, matched_terms, error_text, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.InputSHA256, run.CourseCount, run.Status, terms, errText, run.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// InsertFindings records the review findings for a run in one
// transaction.
func InsertFindings(ctx context.Context, db *sql.DB, findings []Finding) error {
	if len(findings) == 0 {
		return nil
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, f := range findings {
		ok := 0
		if f.OK {
			ok = 1
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO findings (run_id, course_no, ok, errors, warnings)
			VALUES (?, ?, ?, ?, ?)`,
			f.RunID, f.CourseNo, ok, f.Errors, f.Warnings); err != nil {
			return fmt.Errorf("failed to insert finding: %w", err)
		}
	}
	return tx.Commit()
}

// RecentRuns lists the most recent runs, newest first.
func RecentRuns(ctx context.Context, db *sql.DB, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.QueryContext(ctx, `
		SELECT id, input_sha256, course_count, status, matched_terms, error_text, created_at
		FROM runs
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var terms, errText sql.NullString
		if err := rows.Scan(&r.ID, &r.InputSHA256, &r.CourseCount, &r.Status, &terms, &errText, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if terms.Valid && strings.TrimSpace(terms.String) != "" {
			if err := json.Unmarshal([]byte(terms.String), &r.MatchedTerms); err != nil {
				return nil, fmt.Errorf("failed to decode matched terms: %w", err)
			}
		}
		r.ErrorText = errText.String
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// FindingsForRun lists the findings recorded for one run.
func FindingsForRun(ctx context.Context, db *sql.DB, runID string) ([]Finding, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT run_id, course_no, ok, errors, warnings
		FROM findings
		WHERE run_id = ?`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query findings: %w", err)
	}
	defer rows.Close()

	var findings []Finding
	for rows.Next() {
		var f Finding
		var ok int
		if err := rows.Scan(&f.RunID, &f.CourseNo, &ok, &f.Errors, &f.Warnings); err != nil {
			return nil, fmt.Errorf("failed to scan finding: %w", err)
		}
		f.OK = ok == 1
		findings = append(findings, f)
	}
	return findings, rows.Err()
}
