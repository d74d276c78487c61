package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"fnlgen/internal/errors"
	"fnlgen/internal/pipeline"
)

// RecordOutcome writes one run row, plus finding rows when the run
// succeeded with reviews. Best-effort: callers treat a nil db as
// recording disabled, and the briefing itself never depends on the
// result.
func RecordOutcome(ctx context.Context, db *sql.DB, raw string, result *pipeline.Result, runErr error) error {
	if db == nil {
		return nil
	}

	run := Run{
		ID:          NewRunID(),
		InputSHA256: InputDigest(raw),
		CreatedAt:   time.Now().Unix(),
	}
	var findings []Finding

	switch {
	case runErr == nil:
		run.Status = StatusOK
		run.CourseCount = result.Courses
		findings = reviewFindings(run.ID, result.Reviews)
	default:
		run.Status = StatusFailed
		run.ErrorText = runErr.Error()
		if perr, ok := runErr.(*errors.PipelineError); ok && perr.Code == errors.ErrForbiddenTerm {
			run.Status = StatusBlocked
			if terms, ok := perr.Details["terms"].([]string); ok {
				run.MatchedTerms = terms
			}
		}
	}

	if err := InsertRun(ctx, db, run); err != nil {
		return err
	}
	return InsertFindings(ctx, db, findings)
}

// reviewFindings converts pipeline review results into finding rows.
func reviewFindings(runID string, reviews []pipeline.CourseReview) []Finding {
	findings := make([]Finding, 0, len(reviews))
	for _, rv := range reviews {
		errs, err := json.Marshal(rv.Result.Errors)
		if err != nil {
			errs = []byte("[]")
		}
		warns, err := json.Marshal(rv.Result.Warnings)
		if err != nil {
			warns = []byte("[]")
		}
		findings = append(findings, Finding{
			RunID:    runID,
			CourseNo: rv.CourseNo,
			OK:       rv.Result.OK,
			Errors:   string(errs),
			Warnings: string(warns),
		})
	}
	return findings
}
