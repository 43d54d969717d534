// CLAUDE:SUMMARY Rule engine: ordered catalog of independent document checks with per-rule failure isolation.
package rules

import (
	"log/slog"

	"golang.org/x/net/html"

	"github.com/hazyhaar/axaudit/dom"
)

// Issue is one finding from one rule. Immutable once created. Location is
// nil for document-level findings with no single anchor element.
type Issue struct {
	RuleID        string                 `json:"rule_id"`
	RuleName      string                 `json:"rule_name"`
	Location      *dom.ElementDescriptor `json:"location"`
	Description   string                 `json:"description"`
	Criterion     string                 `json:"wcag_criterion"`
	CriterionName string                 `json:"wcag_name"`
}

// CheckFunc inspects the whole document and returns zero or more issues in
// document order. Checks never see each other's output.
type CheckFunc func(doc *html.Node) []Issue

// Rule is one catalog entry. Criterion and CriterionName are stamped onto
// every issue the check returns.
type Rule struct {
	ID            string
	Name          string
	Criterion     string
	CriterionName string
	Check         CheckFunc
}

// Engine runs the full catalog over a document. A panicking check is logged
// and contributes zero issues; it never stops the other checks.
type Engine struct {
	rules []Rule
	log   *slog.Logger
}

func New(log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{rules: Catalog(), log: log}
}

// Rules exposes the catalog entries, in evaluation order.
func (e *Engine) Rules() []Rule {
	return e.rules
}

// Run evaluates every rule against the document. Output order is catalog
// order, then document order within each rule.
func (e *Engine) Run(doc *html.Node) []Issue {
	out := []Issue{}
	for _, r := range e.rules {
		out = append(out, e.runRule(r, doc)...)
	}
	return out
}

func (e *Engine) runRule(r Rule, doc *html.Node) (issues []Issue) {
	defer func() {
		if rec := recover(); rec != nil {
			e.log.Warn("rule check panicked, skipping", "rule", r.ID, "panic", rec)
			issues = nil
		}
	}()

	issues = r.Check(doc)
	for i := range issues {
		if issues[i].RuleID == "" {
			issues[i].RuleID = r.ID
		}
		if issues[i].RuleName == "" {
			issues[i].RuleName = r.Name
		}
		issues[i].Criterion = r.Criterion
		issues[i].CriterionName = r.CriterionName
	}
	return issues
}

// found builds an Issue anchored at el. The engine fills in rule identity
// and criterion afterwards, so checks only state location and description.
func found(el *html.Node, description string) Issue {
	return Issue{Location: dom.Locate(el), Description: description}
}

// Catalog returns the full ordered rule catalog: page structure first, then
// forms, then non-text content.
func Catalog() []Rule {
	var rules []Rule
	rules = append(rules, semanticRules()...)
	rules = append(rules, formRules()...)
	rules = append(rules, nontextRules()...)
	return rules
}
