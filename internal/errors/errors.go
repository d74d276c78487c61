package errors

import (
	"fmt"
	"strings"
)

// ErrorCode represents a pipeline error code.
type ErrorCode string

const (
	ErrInvalidRequest   ErrorCode = "INVALID_REQUEST"   // bad arguments or unusable input
	ErrExtractionFailed ErrorCode = "EXTRACTION_FAILED" // extraction capability call failed
	ErrSchemaInvalid    ErrorCode = "SCHEMA_INVALID"    // document fails validation after repair
	ErrReviewFailed     ErrorCode = "REVIEW_FAILED"     // semantic-review call failed
	ErrForbiddenTerm    ErrorCode = "FORBIDDEN_TERM"    // forbidden term in the final text
	ErrInternal         ErrorCode = "INTERNAL"          // unexpected internal failure
)

// PipelineError is a structured error with code, optional course
// attribution, and details for operator output.
type PipelineError struct {
	Code     ErrorCode
	Message  string
	CourseNo string
	Details  map[string]any
}

// Error implements the error interface.
func (e *PipelineError) Error() string {
	if e.CourseNo != "" {
		return fmt.Sprintf("%s: %s (course %s)", e.Code, e.Message, e.CourseNo)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates an error for invalid arguments or input.
func NewInvalidRequest(msg string) *PipelineError {
	return &PipelineError{
		Code:    ErrInvalidRequest,
		Message: msg,
	}
}

// NewExtractionFailed wraps an extraction capability failure for one
// course.
func NewExtractionFailed(courseNo string, err error) *PipelineError {
	return &PipelineError{
		Code:     ErrExtractionFailed,
		Message:  fmt.Sprintf("extraction failed: %v", err),
		CourseNo: courseNo,
	}
}

// NewSchemaInvalid wraps a post-repair validation failure for one
// course.
func NewSchemaInvalid(courseNo string, err error) *PipelineError {
	return &PipelineError{
		Code:     ErrSchemaInvalid,
		Message:  fmt.Sprintf("schema validation failed: %v", err),
		CourseNo: courseNo,
	}
}

// NewReviewFailed wraps a semantic-review call failure for one course.
// Distinct from a review that finds problems, which is advisory only.
func NewReviewFailed(courseNo string, err error) *PipelineError {
	return &PipelineError{
		Code:     ErrReviewFailed,
		Message:  fmt.Sprintf("semantic review call failed: %v", err),
		CourseNo: courseNo,
	}
}

// NewForbiddenTerm creates the fatal error for forbidden terms detected
// in the final text, listing every matched term.
func NewForbiddenTerm(terms []string) *PipelineError {
	return &PipelineError{
		Code:    ErrForbiddenTerm,
		Message: fmt.Sprintf("forbidden terms in output: %s", strings.Join(terms, ", ")),
		Details: map[string]any{"terms": terms},
	}
}

// NewInternal wraps an unexpected internal error.
func NewInternal(err error) *PipelineError {
	return &PipelineError{
		Code:    ErrInternal,
		Message: fmt.Sprintf("internal error: %v", err),
	}
}
