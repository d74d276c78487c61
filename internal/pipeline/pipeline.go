// Package pipeline sequences the FNL run: normalize, segment, then per
// course block extract, repair, validate, review; finally aggregate,
// render, and scan the result against the forbidden-term barrier. Any
// course defect aborts the whole run: the artifact is one combined
// briefing document, never a partial one.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"fnlgen/internal/errors"
	"fnlgen/internal/llm"
	"fnlgen/internal/logging"
	"fnlgen/internal/render"
	"fnlgen/internal/repair"
	"fnlgen/internal/roster"
	"fnlgen/internal/safety"
	"fnlgen/internal/schema"
)

// Options wires the pipeline's collaborators. Extractor is required;
// a nil Reviewer skips the review step, a nil Validator is permissive,
// a nil Filter means the built-in forbidden patterns, a nil Logger
// discards diagnostics.
type Options struct {
	Extractor llm.Extractor
	Reviewer  llm.Reviewer
	Validator *schema.Validator
	Filter    *safety.Filter
	Logger    *logging.Logger
}

// CourseReview pairs a course identifier with its advisory review
// result.
type CourseReview struct {
	CourseNo string           `json:"course_no"`
	Result   llm.ReviewResult `json:"result"`
}

// Result is a successful pipeline run.
type Result struct {
	Text    string         `json:"text"`
	Blocks  int            `json:"blocks"`
	Courses int            `json:"courses"`
	Reviews []CourseReview `json:"reviews,omitempty"`
}

// Pipeline executes runs with a fixed set of collaborators, loaded
// once at construction and immutable thereafter.
type Pipeline struct {
	extractor llm.Extractor
	reviewer  llm.Reviewer
	validator *schema.Validator
	filter    *safety.Filter
	logger    *logging.Logger
}

// New creates a Pipeline from opts.
func New(opts Options) (*Pipeline, error) {
	if opts.Extractor == nil {
		return nil, fmt.Errorf("pipeline: extractor is required")
	}
	if opts.Validator == nil {
		opts.Validator = &schema.Validator{}
	}
	if opts.Filter == nil {
		opts.Filter = safety.Default()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	return &Pipeline{
		extractor: opts.Extractor,
		reviewer:  opts.Reviewer,
		validator: opts.Validator,
		filter:    opts.Filter,
		logger:    opts.Logger,
	}, nil
}

// Run processes raw roster text into the final briefing. Empty or
// unsegmentable input is not an error: it yields zero blocks and an
// empty briefing. Any fatal condition returns a *errors.PipelineError
// and no partial text.
func (p *Pipeline) Run(ctx context.Context, raw string) (*Result, error) {
	lines := roster.NormalizeLines(raw)
	blocks := roster.FindCourseBlocks(lines)
	p.logger.Infow("segmented roster", "lines", len(lines), "blocks", len(blocks))

	var courses []roster.Course
	var reviews []CourseReview

	for _, block := range blocks {
		p.logger.Infow("processing course", "course_no", block.CourseNo,
			"period_start", block.Period.Start, "period_end", block.Period.End,
			"lines", len(block.Lines))

		doc, err := p.extractor.Extract(ctx, block)
		if err != nil {
			return nil, errors.NewExtractionFailed(block.CourseNo, err)
		}

		doc = repair.Apply(doc)

		if err := p.validator.Validate(doc); err != nil {
			return nil, errors.NewSchemaInvalid(block.CourseNo, err)
		}

		if p.reviewer != nil {
			review, err := p.reviewer.Review(ctx, block, doc)
			if err != nil {
				return nil, errors.NewReviewFailed(block.CourseNo, err)
			}
			reviews = append(reviews, CourseReview{CourseNo: block.CourseNo, Result: review})
			if !review.OK {
				p.logger.Warnw("semantic review flagged course",
					"course_no", block.CourseNo,
					"errors", review.Errors,
					"warnings", review.Warnings)
			}
		}

		cs, err := decodeCourses(doc)
		if err != nil {
			return nil, errors.NewSchemaInvalid(block.CourseNo, err)
		}
		courses = append(courses, cs...)
	}

	text := render.Text(roster.Document{Courses: courses})

	if p.filter.Contains(text) {
		hits := p.filter.FindAll(text)
		p.logger.Errorw("forbidden terms detected in rendered output", "terms", hits)
		return nil, errors.NewForbiddenTerm(hits)
	}

	return &Result{
		Text:    text,
		Blocks:  len(blocks),
		Courses: len(courses),
		Reviews: reviews,
	}, nil
}

// decodeCourses folds a repaired, validated document into typed
// courses for rendering.
func decodeCourses(doc map[string]any) ([]roster.Course, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var typed roster.Document
	if err := json.Unmarshal(raw, &typed); err != nil {
		return nil, fmt.Errorf("decode courses: %w", err)
	}
	return typed.Courses, nil
}
