package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"fnlgen/internal/audit"
	"fnlgen/internal/config"
	"fnlgen/internal/errors"
	"fnlgen/internal/export"
	"fnlgen/internal/llm"
	"fnlgen/internal/logging"
	"fnlgen/internal/mcp"
	"fnlgen/internal/pipeline"
	"fnlgen/internal/roster"
	"fnlgen/internal/safety"
	"fnlgen/internal/schema"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "fnlgen",
		Usage:   "FNL tour briefing generator",
		Version: Version,
		Commands: []*cli.Command{
			generateCmd(db, cfg),
			blocksCmd(),
			scanCmd(cfg),
			historyCmd(db),
			exportCmd(cfg),
			serveCmd(db, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// generateCmd creates the generate command.
func generateCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "generate",
		Usage:     "Generate the final briefing from a raw roster file (or stdin)",
		ArgsUsage: "[file]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "model", Aliases: []string{"m"}, Usage: "Extraction model override"},
			&cli.StringFlag{Name: "schema", Usage: "Schema file override"},
			&cli.StringFlag{Name: "prompt", Usage: "Master prompt file override"},
			&cli.BoolFlag{Name: "no-review", Usage: "Skip the semantic review step"},
			&cli.BoolFlag{Name: "no-audit", Usage: "Do not record this run"},
		},
		Action: func(c *cli.Context) error {
			raw, err := readInput(c)
			if err != nil {
				return outputError(err)
			}

			runCfg := *cfg
			if m := c.String("model"); m != "" {
				runCfg.Model = m
			}
			if s := c.String("schema"); s != "" {
				runCfg.SchemaPath = s
			}
			if p := c.String("prompt"); p != "" {
				runCfg.PromptPath = p
			}

			ctx := context.Background()
			pipe, logger, err := buildPipelineOpts(ctx, &runCfg, c.Bool("no-review"))
			if err != nil {
				return outputError(err)
			}
			defer logger.Sync()

			result, runErr := pipe.Run(ctx, raw)
			if !c.Bool("no-audit") {
				if recErr := audit.RecordOutcome(ctx, db, raw, result, runErr); recErr != nil {
					logger.Warnw("failed to record run", "error", recErr)
				}
			}
			if runErr != nil {
				return outputError(runErr)
			}

			fmt.Println(result.Text)
			for _, rv := range result.Reviews {
				if !rv.Result.OK {
					fmt.Fprintf(os.Stderr, "warning: review flagged course %s\n", rv.CourseNo)
				}
			}
			return nil
		},
	}
}

// blocksCmd creates the blocks command.
func blocksCmd() *cli.Command {
	return &cli.Command{
		Name:      "blocks",
		Usage:     "Show the per-course blocks extracted from a raw roster file (or stdin)",
		ArgsUsage: "[file]",
		Action: func(c *cli.Context) error {
			raw, err := readInput(c)
			if err != nil {
				return outputError(err)
			}

			lines := roster.NormalizeLines(raw)
			blocks := roster.FindCourseBlocks(lines)
			return outputJSON(map[string]any{
				"blocks": blocks,
				"count":  len(blocks),
			})
		},
	}
}

// scanCmd creates the scan command.
func scanCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "scan",
		Usage:     "Scan text for forbidden terms (exit 1 on any match)",
		ArgsUsage: "[file]",
		Action: func(c *cli.Context) error {
			text, err := readInput(c)
			if err != nil {
				return outputError(err)
			}

			filter, err := buildFilter(cfg)
			if err != nil {
				return outputError(err)
			}

			hits := filter.FindAll(text)
			if err := outputJSON(map[string]any{
				"clean":   len(hits) == 0,
				"matches": hits,
			}); err != nil {
				return err
			}
			if len(hits) > 0 {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}

// historyCmd creates the history command.
func historyCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List recent pipeline runs",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 20, Usage: "Maximum number of runs"},
		},
		Action: func(c *cli.Context) error {
			if db == nil {
				return outputError(errors.NewInvalidRequest("audit recording is disabled"))
			}
			runs, err := audit.RecentRuns(context.Background(), db, c.Int("limit"))
			if err != nil {
				return outputError(errors.NewInternal(err))
			}
			return outputJSON(map[string]any{"runs": runs, "count": len(runs)})
		},
	}
}

// exportCmd creates the export command.
func exportCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Convert a briefing text file (or stdin) into a standalone HTML page",
		ArgsUsage: "[file]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Output file (default stdout)"},
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Page title"},
		},
		Action: func(c *cli.Context) error {
			briefing, err := readInput(c)
			if err != nil {
				return outputError(err)
			}

			filter, err := buildFilter(cfg)
			if err != nil {
				return outputError(err)
			}
			if filter.Contains(briefing) {
				return outputError(errors.NewForbiddenTerm(filter.FindAll(briefing)))
			}

			page, err := export.HTML(c.String("title"), briefing)
			if err != nil {
				return outputError(errors.NewInternal(err))
			}

			if out := c.String("out"); out != "" {
				if err := os.WriteFile(out, []byte(page), 0600); err != nil {
					return outputError(errors.NewInternal(err))
				}
				return nil
			}
			fmt.Print(page)
			return nil
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the MCP server over stdio",
		Action: func(_ *cli.Context) error {
			return serveMCP(db, cfg)
		},
	}
}

// serveMCP wires the pipeline and starts the stdio MCP server. Without
// an API key the inspection tools still run; generate reports an error.
func serveMCP(db *sql.DB, cfg *config.Config) error {
	ctx := context.Background()

	filter, err := buildFilter(cfg)
	if err != nil {
		return err
	}

	var pipe *pipeline.Pipeline
	if os.Getenv(cfg.APIKeyEnv) != "" {
		pipe, _, err = buildPipeline(ctx, cfg)
		if err != nil {
			return err
		}
	}

	return mcp.Run(db, cfg, pipe, filter, Version)
}

// buildFilter creates the forbidden-term filter with configured extras.
func buildFilter(cfg *config.Config) (*safety.Filter, error) {
	if cfg == nil || len(cfg.ExtraForbiddenPatterns) == 0 {
		return safety.Default(), nil
	}
	filter, err := safety.New(cfg.ExtraForbiddenPatterns...)
	if err != nil {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("bad extra forbidden pattern: %v", err))
	}
	return filter, nil
}

// buildPipeline assembles the full pipeline from config and environment.
func buildPipeline(ctx context.Context, cfg *config.Config) (*pipeline.Pipeline, *logging.Logger, error) {
	return buildPipelineOpts(ctx, cfg, false)
}

func buildPipelineOpts(ctx context.Context, cfg *config.Config, noReview bool) (*pipeline.Pipeline, *logging.Logger, error) {
	apiKey := os.Getenv(cfg.APIKeyEnv)
	if apiKey == "" {
		return nil, nil, errors.NewInvalidRequest(fmt.Sprintf("environment variable %s is not set", cfg.APIKeyEnv))
	}

	gemini, err := llm.NewGemini(ctx, llm.GeminiOptions{
		APIKey:      apiKey,
		Model:       cfg.Model,
		ReviewModel: cfg.ReviewModel,
		PromptPath:  cfg.PromptPath,
	})
	if err != nil {
		return nil, nil, errors.NewInternal(err)
	}

	validator, err := schema.Load(cfg.SchemaPath)
	if err != nil {
		return nil, nil, errors.NewInvalidRequest(fmt.Sprintf("bad schema file: %v", err))
	}

	filter, err := buildFilter(cfg)
	if err != nil {
		return nil, nil, err
	}

	logger, err := logging.New(cfg.LogMode)
	if err != nil {
		return nil, nil, errors.NewInternal(err)
	}

	opts := pipeline.Options{
		Extractor: gemini,
		Reviewer:  gemini,
		Validator: validator,
		Filter:    filter,
		Logger:    logger,
	}
	if noReview {
		opts.Reviewer = nil
	}
	pipe, err := pipeline.New(opts)
	if err != nil {
		return nil, nil, errors.NewInternal(err)
	}
	return pipe, logger, nil
}

// Helper functions

// readInput reads from the positional file argument, or stdin when piped.
func readInput(c *cli.Context) (string, error) {
	if c.NArg() > 1 {
		return "", errors.NewInvalidRequest("expected at most one input file")
	}
	if c.NArg() == 1 {
		data, err := os.ReadFile(c.Args().First())
		if err != nil {
			return "", errors.NewInvalidRequest(fmt.Sprintf("cannot read input file: %v", err))
		}
		return string(data), nil
	}
	if !stdinHasData() {
		return "", errors.NewInvalidRequest("provide an input file or pipe text via stdin")
	}
	return readStdin()
}

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if perr, ok := err.(*errors.PipelineError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", perr.Code, perr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
