// CLAUDE:SUMMARY Read paths: run listings, single-run lookup, issues, task results, and report rows.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hazyhaar/axaudit/dom"
	"github.com/hazyhaar/axaudit/evaluate"
	"github.com/hazyhaar/axaudit/report"
	"github.com/hazyhaar/axaudit/rules"
)

const runColumns = `
	r.id, r.run_timestamp, r.html_file, r.page_title, r.model,
	r.dry_run, r.include_summaries, r.input_tokens, r.output_tokens,
	(SELECT COUNT(*) FROM audit_issues i WHERE i.run_id = r.id),
	(SELECT COUNT(*) FROM audit_report_rows w WHERE w.run_id = r.id)`

// ListRuns returns all runs, newest first. Run IDs are UUIDv7-based so the
// ID ordering is the creation ordering.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT`+runColumns+` FROM audit_runs r ORDER BY r.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("store: list runs: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	return runs, nil
}

// GetRun returns one run by ID, or ErrNotFound.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT`+runColumns+` FROM audit_runs r WHERE r.id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get run %s: %w", id, err)
	}
	return &run, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var r Run
	var dryRun, includeSummaries int
	err := sc.Scan(&r.ID, &r.Timestamp, &r.HTMLFile, &r.PageTitle, &r.Model,
		&dryRun, &includeSummaries, &r.InputTokens, &r.OutputTokens,
		&r.IssueCount, &r.RowCount)
	if err != nil {
		return Run{}, err
	}
	r.DryRun = dryRun != 0
	r.IncludeSummaries = includeSummaries != 0
	return r, nil
}

// GetIssues returns the rule findings of a run in engine order.
func (s *Store) GetIssues(ctx context.Context, runID string) ([]rules.Issue, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT rule_id, rule_name, description, wcag_criterion, wcag_name, location
		FROM audit_issues WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("store: get issues %s: %w", runID, err)
	}
	defer rows.Close()

	var issues []rules.Issue
	for rows.Next() {
		var iss rules.Issue
		var loc string
		if err := rows.Scan(&iss.RuleID, &iss.RuleName, &iss.Description,
			&iss.Criterion, &iss.CriterionName, &loc); err != nil {
			return nil, fmt.Errorf("store: get issues %s: %w", runID, err)
		}
		if loc != "" && loc != "null" {
			var desc dom.ElementDescriptor
			if err := json.Unmarshal([]byte(loc), &desc); err != nil {
				return nil, fmt.Errorf("store: issue location %s: %w", runID, err)
			}
			iss.Location = &desc
		}
		issues = append(issues, iss)
	}
	return issues, rows.Err()
}

// GetResults returns the task results of a run in dispatch order.
func (s *Store) GetResults(ctx context.Context, runID string) ([]evaluate.TaskResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT task, status, skip_reason, error, model, payload_slice,
		       response, wcag_criteria, input_tokens, output_tokens, duration_ms
		FROM audit_task_results WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("store: get results %s: %w", runID, err)
	}
	defer rows.Close()

	var results []evaluate.TaskResult
	for rows.Next() {
		var res evaluate.TaskResult
		var criteria string
		var durationMS int64
		if err := rows.Scan(&res.Task, &res.Status, &res.SkipReason, &res.Error,
			&res.Model, &res.Slice, &res.Response, &criteria,
			&res.InputTokens, &res.OutputTokens, &durationMS); err != nil {
			return nil, fmt.Errorf("store: get results %s: %w", runID, err)
		}
		if err := json.Unmarshal([]byte(criteria), &res.Criteria); err != nil {
			return nil, fmt.Errorf("store: task criteria %s: %w", runID, err)
		}
		res.Duration = time.Duration(durationMS) * time.Millisecond
		results = append(results, res)
	}
	return results, rows.Err()
}

// GetReportRows returns the assembled report of a run, in row ID order,
// ready for report.WriteCSV.
func (s *Store) GetReportRows(ctx context.Context, runID string) ([]report.Row, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT row_id, element_name, browser_combination, page_title,
		       issue_title, steps_to_reproduce, actual_result, expected_result,
		       recommendation, wcag_sc, category, log_date, reported_by
		FROM audit_report_rows WHERE run_id = ? ORDER BY row_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("store: get report rows %s: %w", runID, err)
	}
	defer rows.Close()

	var out []report.Row
	for rows.Next() {
		var r report.Row
		if err := rows.Scan(&r.ID, &r.ElementName, &r.BrowserCombination,
			&r.PageTitle, &r.IssueTitle, &r.StepsToReproduce, &r.ActualResult,
			&r.ExpectedResult, &r.Recommendation, &r.WCAGSC, &r.Category,
			&r.LogDate, &r.ReportedBy); err != nil {
			return nil, fmt.Errorf("store: get report rows %s: %w", runID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
