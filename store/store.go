// CLAUDE:SUMMARY SQLite persistence for audit runs: schema, atomic SaveRun, and read paths for the HTTP surface.
// Package store persists completed audit runs to SQLite. One run saves
// atomically: the run record, rule findings, per-task results, and the
// assembled report rows land in one transaction or not at all.
//
// Open the database with the audit schema applied:
//
//	db, err := dbopen.Open("audit.db", dbopen.WithSchema(store.Schema))
//	st := store.New(db)
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hazyhaar/axaudit/dbopen"
	"github.com/hazyhaar/axaudit/evaluate"
	"github.com/hazyhaar/axaudit/idgen"
	"github.com/hazyhaar/axaudit/report"
	"github.com/hazyhaar/axaudit/rules"
)

// ErrNotFound is returned when a run ID does not exist.
var ErrNotFound = errors.New("store: run not found")

// Schema creates the audit tables. Idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS audit_runs (
	id               TEXT PRIMARY KEY,
	run_timestamp    TEXT NOT NULL,
	html_file        TEXT NOT NULL DEFAULT '',
	page_title       TEXT NOT NULL DEFAULT '',
	model            TEXT NOT NULL DEFAULT '',
	dry_run          INTEGER NOT NULL DEFAULT 0,
	include_summaries INTEGER NOT NULL DEFAULT 0,
	input_tokens     INTEGER NOT NULL DEFAULT 0,
	output_tokens    INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS audit_issues (
	run_id         TEXT NOT NULL REFERENCES audit_runs(id) ON DELETE CASCADE,
	seq            INTEGER NOT NULL,
	rule_id        TEXT NOT NULL,
	rule_name      TEXT NOT NULL,
	description    TEXT NOT NULL,
	wcag_criterion TEXT NOT NULL,
	wcag_name      TEXT NOT NULL,
	location       TEXT,
	PRIMARY KEY (run_id, seq)
);

CREATE TABLE IF NOT EXISTS audit_task_results (
	run_id        TEXT NOT NULL REFERENCES audit_runs(id) ON DELETE CASCADE,
	seq           INTEGER NOT NULL,
	task          TEXT NOT NULL,
	status        TEXT NOT NULL,
	skip_reason   TEXT NOT NULL DEFAULT '',
	error         TEXT NOT NULL DEFAULT '',
	model         TEXT NOT NULL DEFAULT '',
	payload_slice TEXT NOT NULL DEFAULT '',
	response      TEXT NOT NULL DEFAULT '',
	wcag_criteria TEXT NOT NULL DEFAULT '[]',
	input_tokens  INTEGER NOT NULL DEFAULT 0,
	output_tokens INTEGER NOT NULL DEFAULT 0,
	duration_ms   INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (run_id, seq)
);

CREATE TABLE IF NOT EXISTS audit_report_rows (
	run_id              TEXT NOT NULL REFERENCES audit_runs(id) ON DELETE CASCADE,
	row_id              INTEGER NOT NULL,
	element_name        TEXT NOT NULL DEFAULT '',
	browser_combination TEXT NOT NULL DEFAULT 'N/A',
	page_title          TEXT NOT NULL DEFAULT '',
	issue_title         TEXT NOT NULL DEFAULT '',
	steps_to_reproduce  TEXT NOT NULL DEFAULT '',
	actual_result       TEXT NOT NULL DEFAULT '',
	expected_result     TEXT NOT NULL DEFAULT '',
	recommendation      TEXT NOT NULL DEFAULT '',
	wcag_sc             TEXT NOT NULL DEFAULT '',
	category            TEXT NOT NULL DEFAULT '',
	log_date            TEXT NOT NULL DEFAULT '',
	reported_by         TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (run_id, row_id)
);
`

// Run is the persisted record of one audit.
type Run struct {
	ID               string `json:"id"`
	Timestamp        string `json:"run_timestamp"`
	HTMLFile         string `json:"html_file"`
	PageTitle        string `json:"page_title"`
	Model            string `json:"model"`
	DryRun           bool   `json:"dry_run"`
	IncludeSummaries bool   `json:"include_summaries"`
	InputTokens      int    `json:"input_tokens"`
	OutputTokens     int    `json:"output_tokens"`

	// Derived counts, populated on reads.
	IssueCount int `json:"issue_count"`
	RowCount   int `json:"row_count"`
}

// Store reads and writes audit runs.
type Store struct {
	db  *sql.DB
	ids idgen.Generator
	log *slog.Logger
}

// Option customises a Store.
type Option func(*Store)

// WithIDGenerator overrides the run ID generator (default "run_" + UUIDv7).
func WithIDGenerator(gen idgen.Generator) Option {
	return func(s *Store) { s.ids = gen }
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// New creates a Store over an open database. The schema must already be
// applied (dbopen.WithSchema(Schema) or Init).
func New(db *sql.DB, opts ...Option) *Store {
	s := &Store{
		db:  db,
		ids: idgen.Runs(),
		log: slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Init applies the schema. Safe to call on an already-initialised database.
func (s *Store) Init() error {
	if _, err := s.db.Exec(Schema); err != nil {
		return fmt.Errorf("store: init schema: %w", err)
	}
	return nil
}

// SaveRun persists a completed run atomically. A missing ID or timestamp is
// filled in; the generated ID is written back to run.
func (s *Store) SaveRun(ctx context.Context, run *Run, issues []rules.Issue,
	results []evaluate.TaskResult, rows []report.Row) error {

	if run.ID == "" {
		run.ID = s.ids()
	}
	if run.Timestamp == "" {
		run.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	err := dbopen.RunTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO audit_runs
				(id, run_timestamp, html_file, page_title, model,
				 dry_run, include_summaries, input_tokens, output_tokens)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, run.Timestamp, run.HTMLFile, run.PageTitle, run.Model,
			boolInt(run.DryRun), boolInt(run.IncludeSummaries),
			run.InputTokens, run.OutputTokens,
		); err != nil {
			return fmt.Errorf("insert run: %w", err)
		}

		for i, iss := range issues {
			loc, err := json.Marshal(iss.Location)
			if err != nil {
				return fmt.Errorf("marshal issue location: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO audit_issues
					(run_id, seq, rule_id, rule_name, description,
					 wcag_criterion, wcag_name, location)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				run.ID, i, iss.RuleID, iss.RuleName, iss.Description,
				iss.Criterion, iss.CriterionName, string(loc),
			); err != nil {
				return fmt.Errorf("insert issue %d: %w", i, err)
			}
		}

		for i, res := range results {
			criteria, err := json.Marshal(res.Criteria)
			if err != nil {
				return fmt.Errorf("marshal task criteria: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO audit_task_results
					(run_id, seq, task, status, skip_reason, error, model,
					 payload_slice, response, wcag_criteria,
					 input_tokens, output_tokens, duration_ms)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				run.ID, i, res.Task, res.Status, res.SkipReason, res.Error,
				res.Model, res.Slice, res.Response, string(criteria),
				res.InputTokens, res.OutputTokens, res.Duration.Milliseconds(),
			); err != nil {
				return fmt.Errorf("insert task result %s: %w", res.Task, err)
			}
		}

		for _, row := range rows {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO audit_report_rows
					(run_id, row_id, element_name, browser_combination,
					 page_title, issue_title, steps_to_reproduce,
					 actual_result, expected_result, recommendation,
					 wcag_sc, category, log_date, reported_by)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				run.ID, row.ID, row.ElementName, orNA(row.BrowserCombination),
				row.PageTitle, row.IssueTitle, row.StepsToReproduce,
				row.ActualResult, row.ExpectedResult, row.Recommendation,
				row.WCAGSC, row.Category, row.LogDate, row.ReportedBy,
			); err != nil {
				return fmt.Errorf("insert report row %d: %w", row.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("store: save run %s: %w", run.ID, err)
	}

	s.log.Debug("run saved",
		"run_id", run.ID,
		"issues", len(issues),
		"tasks", len(results),
		"rows", len(rows))
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
