// Package llm defines the external capability boundary of the
// pipeline: extraction of a candidate document from a course block,
// and semantic review of the extraction result. Both are black boxes
// behind small interfaces so tests can substitute scripted stand-ins.
package llm

import (
	"context"
	"encoding/json"

	"fnlgen/internal/roster"
)

// Extractor maps one course block to a candidate structured document.
// The result is never trusted structurally; the repair layer runs
// before validation. An error is fatal for the whole run.
type Extractor interface {
	Extract(ctx context.Context, block roster.CourseBlock) (map[string]any, error)
}

// Reviewer critiques a candidate document against content policy.
// Failure to obtain a result is fatal; a result with OK=false is
// advisory only.
type Reviewer interface {
	Review(ctx context.Context, block roster.CourseBlock, doc map[string]any) (ReviewResult, error)
}

// ReviewIssue is one finding from the semantic review.
type ReviewIssue struct {
	Code           string          `json:"code"`
	Message        string          `json:"message"`
	SuggestedPatch json.RawMessage `json:"suggestedPatch,omitempty"`
}

// ReviewResult is the advisory output of the review capability.
type ReviewResult struct {
	OK       bool          `json:"ok"`
	Errors   []ReviewIssue `json:"errors"`
	Warnings []ReviewIssue `json:"warnings"`
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(ctx context.Context, block roster.CourseBlock) (map[string]any, error)

func (f ExtractorFunc) Extract(ctx context.Context, block roster.CourseBlock) (map[string]any, error) {
	return f(ctx, block)
}

// ReviewerFunc adapts a function to the Reviewer interface.
type ReviewerFunc func(ctx context.Context, block roster.CourseBlock, doc map[string]any) (ReviewResult, error)

func (f ReviewerFunc) Review(ctx context.Context, block roster.CourseBlock, doc map[string]any) (ReviewResult, error) {
	return f(ctx, block, doc)
}
