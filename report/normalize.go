// CLAUDE:SUMMARY Per-task normalizers projecting parsed model responses and rule findings into report rows.
package report

import (
	"fmt"
	"strings"

	"github.com/hazyhaar/axaudit/dom"
	"github.com/hazyhaar/axaudit/rules"
)

// Normalizer projects one task's parsed response into report rows. wcag is
// the task's criteria list joined with ", ". Run-level fields (page title,
// log date, reporter) are stamped later by the assembler.
type Normalizer func(data any, wcag string) []Row

// normalizers maps task names to their projections. Tasks without an entry
// produce no rows: summaries are narrative, and a few tasks exist to feed
// the model context rather than yield per-element findings.
var normalizers = map[string]Normalizer{
	"page_title":                normPageTitle,
	"heading_structure":         normHeadingStructure,
	"link_clarity":              normLinkClarity,
	"iframe_titles":             normIframeTitles,
	"landmark_structure":        normLandmarkStructure,
	"label_quality":             normLabelQuality,
	"required_field_indicators": normRequiredFieldIndicators,
	"informative_alt_quality":   normInformativeAltQuality,
	"decorative_verification":   normDecorativeVerification,
	"actionable_image_alt":      normActionableImageAlt,
	"svg_accessibility":         normSVGAccessibility,
	"icon_font_accessibility":   normIconFontAccessibility,
}

// NormalizerFor returns the projection for a task, if it has one.
func NormalizerFor(task string) (Normalizer, bool) {
	n, ok := normalizers[task]
	return n, ok
}

// ProgrammaticRows converts rule engine findings to report rows. These
// always come first in the assembled report.
func ProgrammaticRows(issues []rules.Issue, pageTitle, logDate string) []Row {
	rows := make([]Row, 0, len(issues))
	for _, iss := range issues {
		rows = append(rows, Row{
			ElementName:      elementName(iss.Location),
			PageTitle:        pageTitle,
			IssueTitle:       fmt.Sprintf("%s: %s", iss.RuleID, iss.RuleName),
			StepsToReproduce: "Inspect element: " + locationPath(iss.Location),
			ActualResult:     iss.Description,
			ExpectedResult: fmt.Sprintf("Element should meet WCAG %s (%s)",
				iss.Criterion, iss.CriterionName),
			Recommendation: iss.RuleName,
			WCAGSC:         iss.Criterion,
			Category:       "Programmatic / " + iss.CriterionName,
			LogDate:        logDate,
			ReportedBy:     "Programmatic",
		})
	}
	return rows
}

func elementName(loc *dom.ElementDescriptor) string {
	if loc == nil {
		return ""
	}
	if loc.ID != "" {
		return fmt.Sprintf("<%s id=%q>", loc.Tag, loc.ID)
	}
	if len(loc.Classes) > 0 {
		return fmt.Sprintf("<%s class=%q>", loc.Tag, strings.Join(loc.Classes, " "))
	}
	return "<" + loc.Tag + ">"
}

func locationPath(loc *dom.ElementDescriptor) string {
	if loc == nil {
		return ""
	}
	path := loc.Path
	if len(path) > 200 {
		path = path[:200]
	}
	return path
}

// Generic JSON accessors. Model output is best-effort typed; every reader
// tolerates a missing or mistyped field.

func asObject(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asList(v any) []any {
	l, _ := v.([]any)
	return l
}

func str(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// strOr mimics a falsy-or fallback: missing, non-string, or empty values
// yield the fallback.
func strOr(m map[string]any, key, fallback string) string {
	if s := str(m, key); s != "" {
		return s
	}
	return fallback
}

// boolOr reads a boolean, returning def when the key is missing or not a
// boolean.
func boolOr(m map[string]any, key string, def bool) bool {
	b, ok := m[key].(bool)
	if !ok {
		return def
	}
	return b
}

func strList(m map[string]any, key string) []string {
	var out []string
	for _, v := range asList(m[key]) {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func normPageTitle(data any, wcag string) []Row {
	obj := asObject(data)
	var rows []Row
	for _, issue := range strList(obj, "issues") {
		rows = append(rows, Row{
			ElementName:    "<title>",
			IssueTitle:     "Page Title: " + issue,
			ActualResult:   issue,
			ExpectedResult: "Page title should be descriptive and match H1 content",
			Recommendation: str(obj, "improved_example"),
			WCAGSC:         wcag,
			Category:       "Semantic Structure / Page Title",
		})
	}
	return rows
}

func normHeadingStructure(data any, wcag string) []Row {
	obj := asObject(data)
	var rows []Row
	for _, issue := range strList(obj, "issues") {
		rows = append(rows, Row{
			ElementName:    "<h1>-<h6>",
			IssueTitle:     "Heading Structure: " + issue,
			ActualResult:   issue,
			ExpectedResult: "Headings should form a logical content outline",
			Recommendation: issue,
			WCAGSC:         wcag,
			Category:       "Semantic Structure / Headings",
		})
	}
	for _, heading := range strList(obj, "vague_headings") {
		rows = append(rows, Row{
			ElementName:    "<h1>-<h6>",
			IssueTitle:     fmt.Sprintf("Vague heading: %q", heading),
			ActualResult:   fmt.Sprintf("Heading %q is vague or unclear", heading),
			ExpectedResult: "Headings should meaningfully describe their sections",
			Recommendation: fmt.Sprintf("Replace %q with a more descriptive heading", heading),
			WCAGSC:         wcag,
			Category:       "Semantic Structure / Headings",
		})
	}
	return rows
}

func normLinkClarity(data any, wcag string) []Row {
	var rows []Row
	for _, v := range asList(data) {
		item := asObject(v)
		if boolOr(item, "is_clear", true) {
			continue
		}
		text := strOr(item, "text", "(no text)")
		rows = append(rows, Row{
			ElementName:    fmt.Sprintf("<a> %q", text),
			IssueTitle:     fmt.Sprintf("Unclear link: %q", text),
			ActualResult:   str(item, "reason"),
			ExpectedResult: "Link text should clearly describe its destination when read alone",
			Recommendation: str(item, "suggested_improvement"),
			WCAGSC:         wcag,
			Category:       "Semantic Structure / Links",
		})
	}
	return rows
}

func normIframeTitles(data any, wcag string) []Row {
	var rows []Row
	for _, v := range asList(data) {
		item := asObject(v)
		if boolOr(item, "is_descriptive", true) {
			continue
		}
		title := strOr(item, "title", "(no title)")
		rows = append(rows, Row{
			ElementName:    fmt.Sprintf("<iframe> %q", title),
			IssueTitle:     fmt.Sprintf("Non-descriptive iframe title: %q", title),
			ActualResult:   str(item, "reason"),
			ExpectedResult: "Iframe title should clearly describe the iframe content",
			Recommendation: str(item, "suggested_improvement"),
			WCAGSC:         wcag,
			Category:       "Semantic Structure / Iframes",
		})
	}
	return rows
}

func normLandmarkStructure(data any, wcag string) []Row {
	obj := asObject(data)
	var rows []Row
	for _, issue := range strList(obj, "issues") {
		rows = append(rows, Row{
			ElementName:    "<main>/<nav>/<header>/<footer>",
			IssueTitle:     "Landmark issue: " + issue,
			ActualResult:   issue,
			ExpectedResult: "Landmark structure should be appropriate and balanced",
			Recommendation: issue,
			WCAGSC:         wcag,
			Category:       "Semantic Structure / Landmarks",
		})
	}
	return rows
}

func normLabelQuality(data any, wcag string) []Row {
	var rows []Row
	for _, v := range asList(data) {
		item := asObject(v)
		if boolOr(item, "is_descriptive", true) {
			continue
		}
		fieldID := strOr(item, "field_id", "unknown")
		fieldType := strOr(item, "field_type", "input")
		label := strOr(item, "effective_label", "(no label)")
		rows = append(rows, Row{
			ElementName:    fmt.Sprintf("<%s id=%q>", fieldType, fieldID),
			IssueTitle:     fmt.Sprintf("Poor label quality: %q", label),
			ActualResult:   strings.Join(strList(item, "issues"), "; "),
			ExpectedResult: "Form field labels should be descriptive and meaningful",
			Recommendation: str(item, "suggested_improvement"),
			WCAGSC:         wcag,
			Category:       "Forms / Label Quality",
		})
	}
	return rows
}

func normRequiredFieldIndicators(data any, wcag string) []Row {
	var rows []Row
	for _, v := range asList(data) {
		item := asObject(v)
		issues := strList(item, "issues")
		if len(issues) == 0 {
			continue
		}
		fieldID := strOr(item, "field_id", "unknown")
		label := strOr(item, "effective_label", "(no label)")
		rows = append(rows, Row{
			ElementName:    fmt.Sprintf("<input id=%q>", fieldID),
			IssueTitle:     fmt.Sprintf("Required field not clearly indicated: %q", label),
			ActualResult:   strings.Join(issues, "; "),
			ExpectedResult: "Required field status should be communicated visually and programmatically",
			Recommendation: str(item, "recommendation"),
			WCAGSC:         wcag,
			Category:       "Forms / Required Fields",
		})
	}
	return rows
}

func normInformativeAltQuality(data any, wcag string) []Row {
	var rows []Row
	for _, v := range asList(data) {
		item := asObject(v)
		issues := strList(item, "issues")
		if len(issues) == 0 {
			continue
		}
		rows = append(rows, Row{
			ElementName: fmt.Sprintf("<img src=%q>", str(item, "src")),
			IssueTitle: fmt.Sprintf("Poor alt text quality (%s): %q",
				strOr(item, "quality", "poor"), str(item, "alt")),
			ActualResult:   strings.Join(issues, "; "),
			ExpectedResult: "Alt text should accurately and concisely describe image content",
			Recommendation: str(item, "suggested_improvement"),
			WCAGSC:         wcag,
			Category:       "Non-text Content / Informative Images",
		})
	}
	return rows
}

func normDecorativeVerification(data any, wcag string) []Row {
	var rows []Row
	for _, v := range asList(data) {
		item := asObject(v)
		if boolOr(item, "likely_decorative", true) {
			continue
		}
		src := str(item, "src")
		rows = append(rows, Row{
			ElementName:    fmt.Sprintf("<img src=%q alt=\"\">", src),
			IssueTitle:     "Possibly mis-marked as decorative: " + src,
			ActualResult:   str(item, "reason"),
			ExpectedResult: `Image marked as decorative (alt="") should truly be decorative`,
			Recommendation: str(item, "recommendation"),
			WCAGSC:         wcag,
			Category:       "Non-text Content / Decorative Verification",
		})
	}
	return rows
}

func normActionableImageAlt(data any, wcag string) []Row {
	var rows []Row
	for _, v := range asList(data) {
		item := asObject(v)
		issues := strList(item, "issues")
		if len(issues) == 0 {
			continue
		}
		alt := strOr(item, "alt", "(empty)")
		rows = append(rows, Row{
			ElementName: fmt.Sprintf("<img src=%q> (%s)",
				str(item, "src"), strOr(item, "context", "in_link")),
			IssueTitle:     fmt.Sprintf("Actionable image alt issue: %q", alt),
			ActualResult:   strings.Join(issues, "; "),
			ExpectedResult: "Images in links/buttons should describe the action/destination, not appearance",
			Recommendation: str(item, "suggested_improvement"),
			WCAGSC:         wcag,
			Category:       "Non-text Content / Actionable Images",
		})
	}
	return rows
}

func normSVGAccessibility(data any, wcag string) []Row {
	var rows []Row
	for _, v := range asList(data) {
		item := asObject(v)
		issues := strList(item, "issues")
		if len(issues) == 0 {
			continue
		}
		label := str(item, "aria_label")
		if label == "" {
			label = strOr(item, "title", "(unlabeled)")
		}
		rows = append(rows, Row{
			ElementName:    fmt.Sprintf("<svg> %q", label),
			IssueTitle:     "SVG accessibility issue: " + label,
			ActualResult:   strings.Join(issues, "; "),
			ExpectedResult: `SVGs should have role="img" and an accessible name via title + aria-labelledby`,
			Recommendation: str(item, "recommendation"),
			WCAGSC:         wcag,
			Category:       "Non-text Content / SVGs",
		})
	}
	return rows
}

func normIconFontAccessibility(data any, wcag string) []Row {
	var rows []Row
	for _, v := range asList(data) {
		item := asObject(v)
		issues := strList(item, "issues")
		if len(issues) == 0 {
			continue
		}
		classes := str(item, "classes")
		rows = append(rows, Row{
			ElementName:    fmt.Sprintf("<i class=%q>", classes),
			IssueTitle:     fmt.Sprintf("Icon font issue (%s): %s", str(item, "pattern"), classes),
			ActualResult:   strings.Join(issues, "; "),
			ExpectedResult: "Icon fonts should be properly labeled or hidden from assistive technology",
			Recommendation: str(item, "recommendation"),
			WCAGSC:         wcag,
			Category:       "Non-text Content / Icon Fonts",
		})
	}
	return rows
}
