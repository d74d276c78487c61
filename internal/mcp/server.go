// Package mcp exposes the briefing pipeline as MCP tools over stdio so
// agent clients can generate and inspect briefings without the CLI.
package mcp

import (
	"database/sql"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"fnlgen/internal/config"
	"fnlgen/internal/pipeline"
	"fnlgen/internal/safety"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"briefing_generate": {
		def:     generateToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleGenerate },
	},
	"briefing_blocks": {
		def:     blocksToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleBlocks },
	},
	"briefing_scan": {
		def:     scanToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleScan },
	},
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// NewServer creates a new MCP server with briefing tools registered.
// db may be nil when audit recording is disabled; pipe may be nil when
// no extraction backend is configured, in which case briefing_generate
// reports an error and the inspection tools still work.
func NewServer(db *sql.DB, cfg *config.Config, pipe *pipeline.Pipeline, filter *safety.Filter, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"fnlgen",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(db, cfg, pipe, filter)
	for _, entry := range toolRegistry {
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(db *sql.DB, cfg *config.Config, pipe *pipeline.Pipeline, filter *safety.Filter, version string) error {
	s := NewServer(db, cfg, pipe, filter, version)
	return server.ServeStdio(s)
}
