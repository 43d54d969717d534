// CLAUDE:SUMMARY Flat 13-column report row schema shared by all normalizers and the CSV writer.
// Package report flattens a finished audit run into the 13-column CSV
// report. Rule findings and model task responses both normalize into the
// same Row shape; the assembler orders them, stamps run-level fields, and
// assigns sequential IDs.
package report

import "strconv"

// Row is one line of the final report. Field order matches the CSV column
// order exactly.
type Row struct {
	ID                 int
	ElementName        string
	BrowserCombination string
	PageTitle          string
	IssueTitle         string
	StepsToReproduce   string
	ActualResult       string
	ExpectedResult     string
	Recommendation     string
	WCAGSC             string
	Category           string
	LogDate            string
	ReportedBy         string
}

// Columns is the CSV header, in order.
var Columns = []string{
	"ID",
	"element_name",
	"browser_combination",
	"page_title",
	"issue_title",
	"steps_to_reproduce",
	"actual_result",
	"expected_result",
	"recommendation",
	"wcag_sc",
	"category",
	"log_date",
	"reported_by",
}

// browserNA is the fixed value for the browser column: findings come from
// static analysis, not a browser session.
const browserNA = "N/A"

func (r Row) record() []string {
	browser := r.BrowserCombination
	if browser == "" {
		browser = browserNA
	}
	return []string{
		strconv.Itoa(r.ID),
		r.ElementName,
		browser,
		r.PageTitle,
		r.IssueTitle,
		r.StepsToReproduce,
		r.ActualResult,
		r.ExpectedResult,
		r.Recommendation,
		r.WCAGSC,
		r.Category,
		r.LogDate,
		r.ReportedBy,
	}
}
