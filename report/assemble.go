// CLAUDE:SUMMARY Report assembly: rule rows first, then normalized task rows, with run fields stamped and IDs assigned.
package report

import (
	"encoding/json"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/hazyhaar/axaudit/evaluate"
	"github.com/hazyhaar/axaudit/rules"
)

// Meta carries the run-level fields stamped onto every row.
type Meta struct {
	// PageTitle of the audited document, resolved via PageTitle.
	PageTitle string
	// LogDate is the run date, YYYY-MM-DD.
	LogDate string
	// Model that produced the task responses. Rule rows always report as
	// "Programmatic" regardless.
	Model string
}

// Assemble flattens a finished run into report rows: rule findings first,
// then task findings in the order the tasks were given to the dispatcher.
// Tasks that did not succeed, have no normalizer, or whose response cannot
// be parsed contribute no rows; parse failures are logged so a silent model
// regression stays visible. IDs are sequential starting at 1.
func Assemble(issues []rules.Issue, results []evaluate.TaskResult, meta Meta, log *slog.Logger) []Row {
	if log == nil {
		log = slog.Default()
	}

	rows := ProgrammaticRows(issues, meta.PageTitle, meta.LogDate)

	for _, res := range results {
		if res.Status != evaluate.StatusSuccess {
			continue
		}
		normalize, ok := NormalizerFor(res.Task)
		if !ok {
			continue
		}

		parsed, err := SafeParse(res.Response)
		if err != nil {
			log.Warn("dropping task rows, response not parseable",
				"task", res.Task, "error", err)
			continue
		}

		taskRows := normalize(parsed, strings.Join(res.Criteria, ", "))
		for i := range taskRows {
			taskRows[i].PageTitle = meta.PageTitle
			taskRows[i].LogDate = meta.LogDate
			taskRows[i].ReportedBy = meta.Model
		}
		rows = append(rows, taskRows...)
	}

	for i := range rows {
		rows[i].ID = i + 1
	}
	return rows
}

// PageTitle resolves the audited page's title for the report: the "title"
// field of the page_title task's payload slice, else the HTML file name
// without its extension.
func PageTitle(results []evaluate.TaskResult, htmlFile string) string {
	for _, res := range results {
		if res.Task != "page_title" || res.Slice == "" {
			continue
		}
		var payload struct {
			Title string `json:"title"`
		}
		if err := json.Unmarshal([]byte(res.Slice), &payload); err == nil && payload.Title != "" {
			return payload.Title
		}
	}
	base := filepath.Base(htmlFile)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// LogDate derives the report date from an RFC 3339 run timestamp.
func LogDate(runTimestamp string) string {
	if len(runTimestamp) < 10 {
		return "unknown"
	}
	return runTimestamp[:10]
}

// Filename is the canonical report file name for a run date.
func Filename(logDate string) string {
	return "report_" + logDate + ".csv"
}
