package report

import (
	"bytes"
	"encoding/csv"
	"io"
	"log/slog"
	"testing"

	"github.com/hazyhaar/axaudit/dom"
	"github.com/hazyhaar/axaudit/evaluate"
	"github.com/hazyhaar/axaudit/rules"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAssemble(t *testing.T) {
	issues := []rules.Issue{{
		RuleID: "PAGE_TITLE_001", RuleName: "Missing <title>",
		Location:      &dom.ElementDescriptor{Tag: "head", Path: "html > head"},
		Description:   "The page does not contain a <title> element.",
		Criterion:     "2.4.2",
		CriterionName: "Page Titled",
	}}

	results := []evaluate.TaskResult{
		{
			Task:     "page_title",
			Status:   evaluate.StatusSuccess,
			Criteria: []string{"2.4.2"},
			Response: "```json\n{\"issues\": [\"Title is generic\"], \"improved_example\": \"Acme - Home\"}\n```",
		},
		{
			// Succeeded but has no normalizer: contributes nothing.
			Task:     "table_semantics",
			Status:   evaluate.StatusSuccess,
			Response: `[{"anything": true}]`,
		},
		{
			Task:   "link_clarity",
			Status: evaluate.StatusSkipped,
		},
		{
			// Garbage response is dropped, not fatal.
			Task:     "landmark_structure",
			Status:   evaluate.StatusSuccess,
			Criteria: []string{"1.3.1", "2.4.1"},
			Response: "the model rambled instead of answering",
		},
	}

	meta := Meta{PageTitle: "Acme Store", LogDate: "2026-08-31", Model: "qwen2.5-32b-instruct"}
	rows := Assemble(issues, results, meta, discardLogger())

	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}

	// Rule rows come first and keep the programmatic reporter.
	if rows[0].ID != 1 || rows[1].ID != 2 {
		t.Errorf("ids = %d, %d", rows[0].ID, rows[1].ID)
	}
	if rows[0].IssueTitle != "PAGE_TITLE_001: Missing <title>" {
		t.Errorf("rule row title = %q", rows[0].IssueTitle)
	}
	if rows[0].ReportedBy != "Programmatic" {
		t.Errorf("rule row reporter = %q", rows[0].ReportedBy)
	}

	llm := rows[1]
	if llm.IssueTitle != "Page Title: Title is generic" {
		t.Errorf("llm row title = %q", llm.IssueTitle)
	}
	if llm.ReportedBy != "qwen2.5-32b-instruct" {
		t.Errorf("llm row reporter = %q", llm.ReportedBy)
	}
	if llm.PageTitle != "Acme Store" || llm.LogDate != "2026-08-31" {
		t.Errorf("llm run fields = %q / %q", llm.PageTitle, llm.LogDate)
	}
	if llm.WCAGSC != "2.4.2" {
		t.Errorf("llm wcag = %q", llm.WCAGSC)
	}
}

func TestAssembleMultiCriterionJoin(t *testing.T) {
	results := []evaluate.TaskResult{{
		Task:     "landmark_structure",
		Status:   evaluate.StatusSuccess,
		Criteria: []string{"1.3.1", "2.4.1"},
		Response: `{"issues": ["No main landmark"]}`,
	}}
	rows := Assemble(nil, results, Meta{}, discardLogger())
	if len(rows) != 1 {
		t.Fatalf("got %d rows", len(rows))
	}
	if rows[0].WCAGSC != "1.3.1, 2.4.1" {
		t.Errorf("wcag = %q", rows[0].WCAGSC)
	}
}

func TestPageTitleResolution(t *testing.T) {
	results := []evaluate.TaskResult{{
		Task:  "page_title",
		Slice: `{"title": "Acme Store", "h1": "Welcome"}`,
	}}
	if got := PageTitle(results, "test_files/home.html"); got != "Acme Store" {
		t.Errorf("title = %q", got)
	}

	blank := []evaluate.TaskResult{{
		Task:  "page_title",
		Slice: `{"title": "", "h1": ""}`,
	}}
	if got := PageTitle(blank, "test_files/home.html"); got != "home" {
		t.Errorf("fallback title = %q", got)
	}

	if got := PageTitle(nil, "checkout.html"); got != "checkout" {
		t.Errorf("no-results fallback = %q", got)
	}
}

func TestLogDateAndFilename(t *testing.T) {
	if got := LogDate("2026-08-31T14:03:22Z"); got != "2026-08-31" {
		t.Errorf("log date = %q", got)
	}
	if got := LogDate(""); got != "unknown" {
		t.Errorf("empty log date = %q", got)
	}
	if got := Filename("2026-08-31"); got != "report_2026-08-31.csv" {
		t.Errorf("filename = %q", got)
	}
}

func TestWriteCSV(t *testing.T) {
	rows := []Row{{
		ID:             1,
		ElementName:    `<a> "Click here"`,
		PageTitle:      "Acme, Inc.",
		IssueTitle:     `Unclear link: "Click here"`,
		ActualResult:   "No destination context",
		ExpectedResult: "Link text should clearly describe its destination when read alone",
		WCAGSC:         "2.4.4",
		Category:       "Semantic Structure / Links",
		LogDate:        "2026-08-31",
		ReportedBy:     "qwen2.5-32b-instruct",
	}}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows); err != nil {
		t.Fatal(err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("written csv does not read back: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records", len(records))
	}
	if len(records[0]) != 13 || records[0][0] != "ID" || records[0][12] != "reported_by" {
		t.Errorf("header = %v", records[0])
	}
	rec := records[1]
	if rec[0] != "1" || rec[1] != `<a> "Click here"` {
		t.Errorf("row start = %v", rec[:2])
	}
	if rec[2] != "N/A" {
		t.Errorf("browser column = %q", rec[2])
	}
	if rec[3] != "Acme, Inc." {
		t.Errorf("quoted comma field = %q", rec[3])
	}
}
