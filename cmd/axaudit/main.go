// CLAUDE:SUMMARY CLI entry point for axaudit — one-shot audits, HTTP run history, and MCP stdio mode.
// Command axaudit audits HTML documents for accessibility issues.
//
// Usage:
//
//	axaudit -html page.html                 # audit a local file
//	axaudit -url https://example.com        # render with a browser, then audit
//	axaudit -html page.html -dry-run        # record prompts without a model
//	axaudit -serve                          # serve the run history over HTTP
//	axaudit -mcp                            # serve the audit tools over stdio
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	_ "modernc.org/sqlite"

	"github.com/hazyhaar/axaudit/audit"
	"github.com/hazyhaar/axaudit/dbopen"
	"github.com/hazyhaar/axaudit/evaluate"
	"github.com/hazyhaar/axaudit/fetch"
	"github.com/hazyhaar/axaudit/store"
)

func main() {
	htmlFile := flag.String("html", "", "path to an HTML file to audit")
	pageURL := flag.String("url", "", "URL to render and audit")
	configPath := flag.String("config", "", "path to axaudit.yaml config file")
	outDir := flag.String("out", "", "output directory for the report and manifest")
	dbPath := flag.String("db", "", "path to the SQLite run database")
	provider := flag.String("provider", "", "evaluator provider: openai, gemini (default: none)")
	model := flag.String("model", "", "model name for the evaluator")
	dryRun := flag.Bool("dry-run", false, "record prompts without calling the model")
	includeSummaries := flag.Bool("include-summaries", false, "run per-checklist summary tasks")
	serve := flag.Bool("serve", false, "serve the run history over HTTP")
	mcpMode := flag.Bool("mcp", false, "serve the audit tools over MCP stdio")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := audit.LoadConfig(*configPath)
	if err != nil {
		logger.Error("axaudit: config", "error", err)
		os.Exit(1)
	}
	cfg.Logger = logger
	if *outDir != "" {
		cfg.OutputDir = *outDir
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *provider != "" {
		cfg.Evaluator.Provider = *provider
	}
	if *model != "" {
		cfg.Evaluator.Model = *model
	}
	cfg.Evaluator.Logger = logger
	cfg.Fetch.Logger = logger

	if err := run(ctx, logger, cfg, *htmlFile, *pageURL, *dryRun, *includeSummaries, *serve, *mcpMode); err != nil {
		logger.Error("axaudit: fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, cfg *audit.Config,
	htmlFile, pageURL string, dryRun, includeSummaries, serve, mcpMode bool) error {

	if serve {
		st, err := openStore(cfg, logger)
		if err != nil {
			return err
		}
		return runServe(ctx, logger, cfg, st)
	}

	ev, err := evaluate.New(cfg.Evaluator)
	if err != nil {
		return fmt.Errorf("evaluator: %w", err)
	}

	st, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	pipeline := audit.NewPipeline(cfg, ev, st)

	if mcpMode {
		srv := mcp.NewServer(&mcp.Implementation{
			Name:    "axaudit",
			Version: "1.0.0",
		}, nil)
		pipeline.RegisterMCP(srv)
		logger.Info("axaudit: MCP stdio serving")
		return srv.Run(ctx, &mcp.StdioTransport{})
	}

	if htmlFile == "" && pageURL == "" {
		fmt.Fprintln(os.Stderr, "usage: axaudit -html <file> | -url <url> | -serve | -mcp")
		os.Exit(1)
	}

	src, source, err := loadSource(ctx, cfg, htmlFile, pageURL)
	if err != nil {
		return err
	}

	rep, err := pipeline.Run(ctx, src, audit.Options{
		HTMLFile:         source,
		DryRun:           dryRun,
		IncludeSummaries: includeSummaries,
	})
	if err != nil {
		return err
	}

	reportPath, err := rep.WriteArtifacts(cfg.OutputDir)
	if err != nil {
		return err
	}
	logger.Info("axaudit: run complete",
		"run_id", rep.Manifest.RunID,
		"issues", rep.Manifest.IssueCount,
		"rows", rep.Manifest.RowCount,
		"report", reportPath)
	return nil
}

func openStore(cfg *audit.Config, logger *slog.Logger) (*store.Store, error) {
	db, err := dbopen.Open(cfg.DBPath,
		dbopen.WithSchema(store.Schema),
		dbopen.WithMkdirAll())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return store.New(db, store.WithLogger(logger)), nil
}

// loadSource reads the document to audit, rendering through a browser when
// a URL is given.
func loadSource(ctx context.Context, cfg *audit.Config, htmlFile, pageURL string) ([]byte, string, error) {
	if htmlFile != "" {
		src, err := os.ReadFile(htmlFile)
		if err != nil {
			return nil, "", fmt.Errorf("read html: %w", err)
		}
		return src, htmlFile, nil
	}

	f := fetch.New(cfg.Fetch)
	defer f.Close()
	rendered, err := f.Snapshot(ctx, pageURL)
	if err != nil {
		return nil, "", fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	return rendered, pageURL, nil
}

func runServe(ctx context.Context, logger *slog.Logger, cfg *audit.Config, st *store.Store) error {
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           audit.NewServer(st, logger).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("axaudit: server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("axaudit: server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("axaudit: shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
