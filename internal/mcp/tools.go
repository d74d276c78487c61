package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

var generateToolDef = mcp.NewTool("briefing_generate",
	mcp.WithDescription("Generate the final FNL briefing from raw roster text. "+
		"Runs the full pipeline: segmentation, extraction, repair, validation, "+
		"review, rendering, and the forbidden-term scan. Fails as a whole if "+
		"any course cannot be processed."),
	mcp.WithString("raw_text",
		mcp.Required(),
		mcp.Description("Raw multi-course roster text"),
	),
)

var blocksToolDef = mcp.NewTool("briefing_blocks",
	mcp.WithDescription("Normalize raw roster text and return the per-course "+
		"blocks that would be fed to extraction. No external calls are made."),
	mcp.WithString("raw_text",
		mcp.Required(),
		mcp.Description("Raw multi-course roster text"),
	),
)

var scanToolDef = mcp.NewTool("briefing_scan",
	mcp.WithDescription("Scan arbitrary text for forbidden terms and return "+
		"every match. Useful for checking externally edited briefings."),
	mcp.WithString("text",
		mcp.Required(),
		mcp.Description("Text to scan"),
	),
)
