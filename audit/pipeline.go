// CLAUDE:SUMMARY Audit orchestration: parse, rule engine, extraction, dispatch, report assembly, persistence, artifacts.
// Package audit orchestrates a full accessibility audit of one HTML
// document: deterministic rule checks, structural extraction, model
// evaluation of the extracted payloads, and assembly of the flat CSV
// report. It also exposes the run history over MCP and HTTP.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/hazyhaar/axaudit/checklist"
	"github.com/hazyhaar/axaudit/dom"
	"github.com/hazyhaar/axaudit/evaluate"
	"github.com/hazyhaar/axaudit/prompts"
	"github.com/hazyhaar/axaudit/report"
	"github.com/hazyhaar/axaudit/rules"
	"github.com/hazyhaar/axaudit/store"
)

// Options select per-run behaviour.
type Options struct {
	// HTMLFile is the source path or URL, recorded in the manifest and
	// used as the page title fallback.
	HTMLFile string

	// DryRun records every eligible prompt without calling the model.
	DryRun bool

	// IncludeSummaries runs the per-checklist summary tasks too.
	IncludeSummaries bool
}

// SkippedTask records why a task did not run.
type SkippedTask struct {
	Task   string `json:"task"`
	Reason string `json:"reason"`
}

// Manifest is the run-level summary persisted alongside the report.
type Manifest struct {
	RunID            string         `json:"run_id"`
	RunTimestamp     string         `json:"run_timestamp"`
	HTMLFile         string         `json:"html_file"`
	PageTitle        string         `json:"page_title"`
	Model            string         `json:"model"`
	DryRun           bool           `json:"dry_run"`
	IncludeSummaries bool           `json:"include_summaries"`
	IssueCount       int            `json:"issue_count"`
	RowCount         int            `json:"row_count"`
	TaskStatusCounts map[string]int `json:"task_status_counts"`
	Skipped          []SkippedTask  `json:"skipped,omitempty"`
	InputTokens      int            `json:"input_tokens"`
	OutputTokens     int            `json:"output_tokens"`
}

// RunReport is the complete output of one audit run.
type RunReport struct {
	Manifest Manifest              `json:"manifest"`
	Issues   []rules.Issue         `json:"issues"`
	Results  []evaluate.TaskResult `json:"results"`
	Rows     []report.Row          `json:"rows"`
}

// Pipeline wires the audit stages together. The store is optional; without
// one, runs are not persisted.
type Pipeline struct {
	cfg    *Config
	engine *rules.Engine
	ev     evaluate.Evaluator
	st     *store.Store
	log    *slog.Logger
}

// NewPipeline builds a Pipeline from config. st may be nil.
func NewPipeline(cfg *Config, ev evaluate.Evaluator, st *store.Store) *Pipeline {
	cfg.defaults()
	return &Pipeline{
		cfg:    cfg,
		engine: rules.New(cfg.Logger),
		ev:     ev,
		st:     st,
		log:    cfg.Logger,
	}
}

// Run audits one HTML document. The only fatal error before persistence is
// a failure to parse the input; everything downstream degrades per task.
func (p *Pipeline) Run(ctx context.Context, htmlSrc []byte, opts Options) (*RunReport, error) {
	doc, err := dom.ParseBytes(htmlSrc)
	if err != nil {
		return nil, fmt.Errorf("audit: parse html: %w", err)
	}

	start := time.Now()
	timestamp := start.UTC().Format(time.RFC3339)

	issues := p.engine.Run(doc)
	p.log.Info("rule checks complete", "issues", len(issues))

	payloads := prompts.Payloads{
		Semantic: checklist.ExtractSemantic(doc),
		Forms:    checklist.ExtractForms(doc),
		Nontext:  checklist.ExtractNontext(doc),
	}

	dispatcher := evaluate.NewDispatcher(p.ev, evaluate.DispatcherConfig{
		Workers:          p.cfg.Workers,
		TaskTimeout:      p.cfg.TaskTimeout,
		IncludeSummaries: opts.IncludeSummaries,
		DryRun:           opts.DryRun,
		Logger:           p.log,
	})
	results := dispatcher.Run(ctx, prompts.Registry(), payloads)

	usage := evaluate.TotalUsage(results)
	counts := evaluate.CountByStatus(results)
	p.log.Info("evaluation complete",
		"statuses", counts,
		"input_tokens", usage.InputTokens,
		"output_tokens", usage.OutputTokens,
		"duration", time.Since(start))

	meta := report.Meta{
		PageTitle: report.PageTitle(results, opts.HTMLFile),
		LogDate:   report.LogDate(timestamp),
		Model:     p.ev.Model(),
	}
	rows := report.Assemble(issues, results, meta, p.log)

	rep := &RunReport{
		Manifest: Manifest{
			RunTimestamp:     timestamp,
			HTMLFile:         opts.HTMLFile,
			PageTitle:        meta.PageTitle,
			Model:            p.ev.Model(),
			DryRun:           opts.DryRun,
			IncludeSummaries: opts.IncludeSummaries,
			IssueCount:       len(issues),
			RowCount:         len(rows),
			TaskStatusCounts: counts,
			Skipped:          skippedTasks(results),
			InputTokens:      usage.InputTokens,
			OutputTokens:     usage.OutputTokens,
		},
		Issues:  issues,
		Results: results,
		Rows:    rows,
	}

	if p.st != nil {
		run := &store.Run{
			Timestamp:        timestamp,
			HTMLFile:         opts.HTMLFile,
			PageTitle:        meta.PageTitle,
			Model:            p.ev.Model(),
			DryRun:           opts.DryRun,
			IncludeSummaries: opts.IncludeSummaries,
			InputTokens:      usage.InputTokens,
			OutputTokens:     usage.OutputTokens,
		}
		if err := p.st.SaveRun(ctx, run, issues, results, rows); err != nil {
			return nil, fmt.Errorf("audit: persist run: %w", err)
		}
		rep.Manifest.RunID = run.ID
		p.log.Info("run persisted", "run_id", run.ID)
	}

	return rep, nil
}

func skippedTasks(results []evaluate.TaskResult) []SkippedTask {
	var skipped []SkippedTask
	for _, res := range results {
		if res.Status == evaluate.StatusSkipped {
			skipped = append(skipped, SkippedTask{Task: res.Task, Reason: res.SkipReason})
		}
	}
	return skipped
}

// WriteArtifacts writes the CSV report and the manifest JSON into dir,
// creating it if needed. Returns the report path.
func (rep *RunReport) WriteArtifacts(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("audit: create output dir: %w", err)
	}

	reportPath := filepath.Join(dir, report.Filename(report.LogDate(rep.Manifest.RunTimestamp)))
	f, err := os.Create(reportPath)
	if err != nil {
		return "", fmt.Errorf("audit: create report: %w", err)
	}
	defer f.Close()
	if err := report.WriteCSV(f, rep.Rows); err != nil {
		return "", err
	}

	manifest, err := json.MarshalIndent(rep.Manifest, "", "  ")
	if err != nil {
		return "", fmt.Errorf("audit: marshal manifest: %w", err)
	}
	manifestPath := filepath.Join(dir, "manifest.json")
	if err := os.WriteFile(manifestPath, manifest, 0o644); err != nil {
		return "", fmt.Errorf("audit: write manifest: %w", err)
	}

	return reportPath, nil
}
