package mcp

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"fnlgen/internal/audit"
	"fnlgen/internal/config"
	"fnlgen/internal/errors"
	"fnlgen/internal/pipeline"
	"fnlgen/internal/roster"
	"fnlgen/internal/safety"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db     *sql.DB
	cfg    *config.Config
	pipe   *pipeline.Pipeline
	filter *safety.Filter
}

// NewHandlers creates a new Handlers instance. A nil filter falls back
// to the built-in forbidden patterns.
func NewHandlers(db *sql.DB, cfg *config.Config, pipe *pipeline.Pipeline, filter *safety.Filter) *Handlers {
	if filter == nil {
		filter = safety.Default()
	}
	return &Handlers{db: db, cfg: cfg, pipe: pipe, filter: filter}
}

// Request types for each tool

// GenerateRequest represents the arguments for briefing_generate.
type GenerateRequest struct {
	RawText string `json:"raw_text"`
}

// BlocksRequest represents the arguments for briefing_blocks.
type BlocksRequest struct {
	RawText string `json:"raw_text"`
}

// ScanRequest represents the arguments for briefing_scan.
type ScanRequest struct {
	Text string `json:"text"`
}

// Handler implementations

// HandleGenerate handles the briefing_generate tool call.
func (h *Handlers) HandleGenerate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GenerateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.RawText == "" {
		return errorResult(errors.NewInvalidRequest("raw_text is required")), nil
	}
	if h.pipe == nil {
		return errorResult(errors.NewInvalidRequest("no extraction backend configured; set the API key")), nil
	}

	result, err := h.pipe.Run(ctx, input.RawText)
	h.record(ctx, input.RawText, result, err)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleBlocks handles the briefing_blocks tool call.
func (h *Handlers) HandleBlocks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[BlocksRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.RawText == "" {
		return errorResult(errors.NewInvalidRequest("raw_text is required")), nil
	}

	lines := roster.NormalizeLines(input.RawText)
	blocks := roster.FindCourseBlocks(lines)
	return successResult(map[string]any{
		"blocks": blocks,
		"count":  len(blocks),
	})
}

// HandleScan handles the briefing_scan tool call.
func (h *Handlers) HandleScan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ScanRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	hits := h.filter.FindAll(input.Text)
	return successResult(map[string]any{
		"clean":   len(hits) == 0,
		"matches": hits,
	})
}

// record writes an audit row for a generate call. Best-effort: audit
// failures never affect the tool result.
func (h *Handlers) record(ctx context.Context, raw string, result *pipeline.Result, runErr error) {
	if h.db == nil || h.cfg == nil || h.cfg.AuditDisabled {
		return
	}
	_ = audit.RecordOutcome(ctx, h.db, raw, result, runErr)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if perr, ok := err.(*errors.PipelineError); ok {
		errorObj := map[string]any{
			"code":    perr.Code,
			"message": perr.Message,
		}
		if perr.CourseNo != "" {
			errorObj["course_no"] = perr.CourseNo
		}
		if perr.Code != errors.ErrInternal && perr.Details != nil {
			errorObj["details"] = perr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
