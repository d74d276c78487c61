// Package audit records pipeline runs and their review findings in a
// local SQLite database. Recording is an operator convenience; callers
// treat failures here as non-fatal for the briefing itself.
package audit

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/oklog/ulid/v2"
)

// Run statuses.
const (
	StatusOK      = "ok"      // briefing produced
	StatusBlocked = "blocked" // forbidden terms in the rendered text
	StatusFailed  = "failed"  // a course defect aborted the run
)

// Run is one pipeline invocation.
type Run struct {
	ID           string   `json:"id"`
	InputSHA256  string   `json:"input_sha256"`
	CourseCount  int      `json:"course_count"`
	Status       string   `json:"status"`
	MatchedTerms []string `json:"matched_terms,omitempty"`
	ErrorText    string   `json:"error_text,omitempty"`
	CreatedAt    int64    `json:"created_at"`
}

// Finding is one course's advisory review outcome within a run.
type Finding struct {
	RunID    string `json:"run_id"`
	CourseNo string `json:"course_no"`
	OK       bool   `json:"ok"`
	Errors   string `json:"errors"`   // JSON array of review issues
	Warnings string `json:"warnings"` // JSON array of review issues
}

// NewRunID generates a new ULID run identifier.
func NewRunID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// InputDigest returns the hex SHA-256 of the raw input text.
func InputDigest(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
