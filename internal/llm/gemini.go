package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"fnlgen/internal/roster"
)

// GeminiOptions configures the Gemini-backed capability client.
type GeminiOptions struct {
	APIKey      string
	Model       string // extraction model, default gemini-2.0-flash
	ReviewModel string // review model, defaults to Model
	PromptPath  string // master prompt file, builtin fallback when empty
}

// Gemini implements Extractor and Reviewer over the Gemini API in
// JSON-output mode with temperature 0.
type Gemini struct {
	client      *genai.Client
	model       string
	reviewModel string
	master      string
}

// NewGemini creates a Gemini capability client.
func NewGemini(ctx context.Context, opts GeminiOptions) (*Gemini, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if opts.Model == "" {
		opts.Model = "gemini-2.0-flash"
	}
	if opts.ReviewModel == "" {
		opts.ReviewModel = opts.Model
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: opts.APIKey})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	return &Gemini{
		client:      client,
		model:       opts.Model,
		reviewModel: opts.ReviewModel,
		master:      LoadMasterPrompt(opts.PromptPath),
	}, nil
}

// Extract implements Extractor.
func (g *Gemini) Extract(ctx context.Context, block roster.CourseBlock) (map[string]any, error) {
	prompt := BuildExtractionPrompt(g.master, block)
	raw, err := g.generateJSON(ctx, g.model, extractionSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("gemini: extraction result is not a JSON object: %w", err)
	}
	return doc, nil
}

// Review implements Reviewer.
func (g *Gemini) Review(ctx context.Context, block roster.CourseBlock, doc map[string]any) (ReviewResult, error) {
	prompt, err := BuildReviewPrompt(block, doc)
	if err != nil {
		return ReviewResult{}, err
	}

	raw, err := g.generateJSON(ctx, g.reviewModel, reviewSystemPrompt, prompt)
	if err != nil {
		return ReviewResult{}, err
	}

	var result ReviewResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return ReviewResult{}, fmt.Errorf("gemini: review result is not valid JSON: %w", err)
	}
	return result, nil
}

// generateJSON runs one JSON-mode generation call.
func (g *Gemini) generateJSON(ctx context.Context, model, system, prompt string) ([]byte, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType:  "application/json",
		Temperature:       genai.Ptr[float32](0),
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini generate failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("gemini returned empty content")
	}
	return []byte(text), nil
}
