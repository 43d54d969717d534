// CLAUDE:SUMMARY Page-structure rules: titles, language tags, landmarks, headings, links, skip navigation, tabindex, tables, iframes, duplicate ids.
package rules

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/hazyhaar/axaudit/dom"
)

// languageTagRE is the shape check for BCP 47 style tags: a 2-3 letter
// primary subtag plus optional subtags. Shape only, no registry lookup.
var languageTagRE = regexp.MustCompile(`^[a-zA-Z]{2,3}(-[a-zA-Z0-9]{2,8})*$`)

// landmarkTags maps HTML5 sectioning elements to their implicit ARIA
// landmark role. Iterated in this fixed order when collecting landmarks.
var landmarkTags = []struct{ tag, role string }{
	{"header", "banner"},
	{"nav", "navigation"},
	{"main", "main"},
	{"footer", "contentinfo"},
	{"aside", "complementary"},
}

var landmarkRoles = map[string]bool{
	"banner":        true,
	"navigation":    true,
	"main":          true,
	"contentinfo":   true,
	"complementary": true,
	"search":        true,
	"form":          true,
	"region":        true,
}

func semanticRules() []Rule {
	return []Rule{
		{
			ID: "PAGE_TITLE_001", Name: "Missing <title>",
			Criterion: "2.4.2", CriterionName: "Page Titled",
			Check: func(doc *html.Node) []Issue {
				if len(dom.FindAll(doc, "title")) > 0 {
					return nil
				}
				return []Issue{found(dom.Find(doc, "head"),
					"The page does not contain a <title> element.")}
			},
		},
		{
			ID: "PAGE_TITLE_002", Name: "Multiple <title> elements",
			Criterion: "2.4.2", CriterionName: "Page Titled",
			Check: func(doc *html.Node) []Issue {
				titles := dom.FindAll(doc, "title")
				if len(titles) <= 1 {
					return nil
				}
				var out []Issue
				for _, t := range titles {
					out = append(out, found(t, "More than one <title> element found."))
				}
				return out
			},
		},
		{
			ID: "PAGE_TITLE_003", Name: "Empty <title>",
			Criterion: "2.4.2", CriterionName: "Page Titled",
			Check: func(doc *html.Node) []Issue {
				titles := dom.FindAll(doc, "title")
				if len(titles) == 0 || dom.Text(titles[0]) != "" {
					return nil
				}
				return []Issue{found(titles[0],
					"<title> element exists but contains no text.")}
			},
		},
		{
			ID: "LANG_001", Name: "Missing primary language",
			Criterion: "3.1.1", CriterionName: "Language of Page",
			Check: func(doc *html.Node) []Issue {
				htmlEl := dom.Find(doc, "html")
				if htmlEl == nil || dom.Attr(htmlEl, "lang") != "" {
					return nil
				}
				return []Issue{found(htmlEl, "<html> element missing lang attribute.")}
			},
		},
		{
			ID: "LANG_002", Name: "Invalid primary language code",
			Criterion: "3.1.1", CriterionName: "Language of Page",
			Check: func(doc *html.Node) []Issue {
				htmlEl := dom.Find(doc, "html")
				if htmlEl == nil {
					return nil
				}
				lang := dom.Attr(htmlEl, "lang")
				if lang == "" || languageTagRE.MatchString(lang) {
					return nil
				}
				return []Issue{found(htmlEl,
					fmt.Sprintf("Invalid language code '%s' on <html>.", lang))}
			},
		},
		{
			ID: "LANG_003", Name: "Invalid inline language code",
			Criterion: "3.1.2", CriterionName: "Language of Parts",
			Check: func(doc *html.Node) []Issue {
				var out []Issue
				for _, el := range dom.FindAllFunc(doc, func(n *html.Node) bool {
					return dom.HasAttr(n, "lang")
				}) {
					lang := dom.Attr(el, "lang")
					if !languageTagRE.MatchString(lang) {
						out = append(out, found(el,
							fmt.Sprintf("Invalid lang attribute '%s'.", lang)))
					}
				}
				return out
			},
		},
		{
			ID: "LAND_001", Name: "Missing main landmark",
			Criterion: "1.3.1", CriterionName: "Info and Relationships",
			Check: func(doc *html.Node) []Issue {
				_, byRole := collectLandmarks(doc)
				if len(byRole["main"]) > 0 {
					return nil
				}
				return []Issue{found(dom.Find(doc, "body"),
					"Page does not contain a <main> landmark.")}
			},
		},
		landmarkCardinalityRule("LAND_002", "main", "Multiple main landmarks",
			"More than one 'main' landmark found."),
		landmarkCardinalityRule("LAND_003", "banner", "Multiple banner landmarks",
			"More than one 'banner' landmark found."),
		landmarkCardinalityRule("LAND_004", "contentinfo", "Multiple contentinfo landmarks",
			"More than one 'contentinfo' landmark found."),
		{
			ID: "LAND_005", Name: "Multiple same-role landmarks without accessible labels",
			Criterion: "1.3.1", CriterionName: "Info and Relationships",
			Check: func(doc *html.Node) []Issue {
				roles, byRole := collectLandmarks(doc)
				var out []Issue
				for _, role := range roles {
					els := byRole[role]
					if len(els) <= 1 {
						continue
					}
					for _, el := range els {
						if dom.Attr(el, "aria-label") != "" || dom.Attr(el, "aria-labelledby") != "" {
							continue
						}
						iss := found(el, fmt.Sprintf(
							"Multiple '%s' landmarks should have distinguishing aria-label or aria-labelledby attributes.", role))
						iss.RuleName = fmt.Sprintf("Multiple '%s' landmarks without accessible labels", role)
						out = append(out, iss)
					}
				}
				return out
			},
		},
		{
			ID: "LAND_006", Name: "Content outside landmark regions",
			Criterion: "1.3.1", CriterionName: "Info and Relationships",
			Check: func(doc *html.Node) []Issue {
				body := dom.Find(doc, "body")
				if body == nil {
					return nil
				}
				inLandmark := map[*html.Node]bool{}
				_, byRole := collectLandmarks(doc)
				for _, els := range byRole {
					for _, el := range els {
						inLandmark[el] = true
					}
				}
				for child := body.FirstChild; child != nil; child = child.NextSibling {
					if child.Type != html.ElementNode || inLandmark[child] {
						continue
					}
					if child.Data == "script" || child.Data == "style" {
						continue
					}
					if dom.Text(child) == "" {
						continue
					}
					// First offender is enough to establish the finding.
					return []Issue{found(child,
						"Content found directly under <body> that is not contained within a landmark region.")}
				}
				return nil
			},
		},
		{
			ID: "HEAD_001", Name: "Skipped heading level",
			Criterion: "1.3.1", CriterionName: "Info and Relationships",
			Check: func(doc *html.Node) []Issue {
				var out []Issue
				prev := 0
				for _, h := range headings(doc) {
					level, _ := strconv.Atoi(h.Data[1:])
					if prev != 0 && level > prev+1 {
						out = append(out, found(h, "Heading level skipped (e.g., h2 to h4)."))
					}
					prev = level
				}
				return out
			},
		},
		{
			ID: "HEAD_003", Name: "Missing <h1> element",
			Criterion: "2.4.6", CriterionName: "Headings and Labels",
			Check: func(doc *html.Node) []Issue {
				if len(dom.FindAll(doc, "h1")) > 0 {
					return nil
				}
				return []Issue{found(dom.Find(doc, "body"),
					"The page does not contain an <h1> element.")}
			},
		},
		{
			ID: "HEAD_002", Name: "Multiple <h1> elements",
			Criterion: "2.4.6", CriterionName: "Headings and Labels",
			Check: func(doc *html.Node) []Issue {
				h1s := dom.FindAll(doc, "h1")
				if len(h1s) <= 1 {
					return nil
				}
				var out []Issue
				for _, h := range h1s {
					out = append(out, found(h, "More than one <h1> found."))
				}
				return out
			},
		},
		{
			ID: "HEAD_004", Name: "Empty heading",
			Criterion: "2.4.6", CriterionName: "Headings and Labels",
			Check: func(doc *html.Node) []Issue {
				var out []Issue
				for _, h := range headings(doc) {
					if dom.Text(h) == "" {
						out = append(out, found(h, "Heading element contains no text."))
					}
				}
				return out
			},
		},
		{
			ID: "LINK_001", Name: "Link without accessible name",
			Criterion: "2.4.4", CriterionName: "Link Purpose (In Context)",
			Check: func(doc *html.Node) []Issue {
				var out []Issue
				for _, a := range dom.FindAll(doc, "a") {
					if dom.Text(a) == "" && dom.Attr(a, "aria-label") == "" {
						out = append(out, found(a, "Link has no text or aria-label."))
					}
				}
				return out
			},
		},
		{
			ID: "LINK_002", Name: "Anchor without href",
			Criterion: "4.1.2", CriterionName: "Name, Role, Value",
			Check: func(doc *html.Node) []Issue {
				var out []Issue
				for _, a := range dom.FindAll(doc, "a") {
					if dom.Attr(a, "href") == "" {
						out = append(out, found(a,
							"Anchor element does not contain an href attribute."))
					}
				}
				return out
			},
		},
		{
			ID: "NAV_001", Name: "Skip link not present",
			Criterion: "2.4.1", CriterionName: "Bypass Blocks",
			Check: func(doc *html.Node) []Issue {
				if len(skipLinks(doc)) > 0 {
					return nil
				}
				return []Issue{found(dom.Find(doc, "body"),
					"Page does not contain a skip navigation link.")}
			},
		},
		{
			ID: "NAV_002", Name: "Skip link target does not exist",
			Criterion: "2.4.1", CriterionName: "Bypass Blocks",
			Check: func(doc *html.Node) []Issue {
				var out []Issue
				for _, skip := range skipLinks(doc) {
					targetID := strings.TrimPrefix(dom.Attr(skip, "href"), "#")
					if dom.FindByID(doc, targetID) == nil {
						out = append(out, found(skip, fmt.Sprintf(
							"Skip link points to '#%s' but no element with that ID exists.", targetID)))
					}
				}
				return out
			},
		},
		{
			ID: "NAV_003", Name: "Skip link is not first focusable element",
			Criterion: "2.4.1", CriterionName: "Bypass Blocks",
			Check: func(doc *html.Node) []Issue {
				skips := skipLinks(doc)
				if len(skips) == 0 {
					return nil
				}
				first := firstFocusable(doc)
				if first == nil {
					return nil
				}
				for _, s := range skips {
					if s == first {
						return nil
					}
				}
				return []Issue{found(first,
					"The first focusable element on the page is not a skip navigation link.")}
			},
		},
		{
			ID: "FOCUS_001", Name: "Positive tabindex used",
			Criterion: "2.4.3", CriterionName: "Focus Order",
			Check: func(doc *html.Node) []Issue {
				var out []Issue
				for _, el := range dom.FindAllFunc(doc, func(n *html.Node) bool {
					return dom.HasAttr(n, "tabindex")
				}) {
					if v, ok := tabindexValue(el); ok && v > 0 {
						out = append(out, found(el,
							"tabindex greater than 0 should not be used."))
					}
				}
				return out
			},
		},
		{
			ID: "TABLE_001", Name: "Missing table caption",
			Criterion: "1.3.1", CriterionName: "Info and Relationships",
			Check: func(doc *html.Node) []Issue {
				var out []Issue
				for _, table := range dom.FindAll(doc, "table") {
					if dom.Find(table, "caption") == nil {
						out = append(out, found(table,
							"Data table does not contain a <caption>."))
					}
				}
				return out
			},
		},
		{
			ID: "TABLE_002", Name: "Missing table headers",
			Criterion: "1.3.1", CriterionName: "Info and Relationships",
			Check: func(doc *html.Node) []Issue {
				var out []Issue
				for _, table := range dom.FindAll(doc, "table") {
					if dom.Find(table, "th") == nil {
						out = append(out, found(table,
							"Table does not contain <th> elements."))
					}
				}
				return out
			},
		},
		{
			ID: "IFRAME_001", Name: "Missing iframe title",
			Criterion: "4.1.2", CriterionName: "Name, Role, Value",
			Check: func(doc *html.Node) []Issue {
				var out []Issue
				for _, iframe := range dom.FindAll(doc, "iframe") {
					if dom.Attr(iframe, "title") == "" {
						out = append(out, found(iframe,
							"Iframe does not have a title attribute."))
					}
				}
				return out
			},
		},
		{
			ID: "IFRAME_002", Name: "Empty iframe title",
			Criterion: "4.1.2", CriterionName: "Name, Role, Value",
			Check: func(doc *html.Node) []Issue {
				var out []Issue
				for _, iframe := range dom.FindAll(doc, "iframe") {
					title := dom.Attr(iframe, "title")
					if title != "" && strings.TrimSpace(title) == "" {
						out = append(out, found(iframe,
							"Iframe title attribute is empty."))
					}
				}
				return out
			},
		},
		{
			ID: "PARSE_001", Name: "Duplicate ID",
			Criterion: "4.1.1", CriterionName: "Parsing",
			Check: func(doc *html.Node) []Issue {
				var out []Issue
				seen := map[string]bool{}
				for _, el := range dom.FindAllFunc(doc, func(n *html.Node) bool {
					return dom.HasAttr(n, "id")
				}) {
					id := dom.Attr(el, "id")
					if seen[id] {
						out = append(out, found(el,
							fmt.Sprintf("Duplicate id '%s' found.", id)))
					}
					seen[id] = true
				}
				return out
			},
		},
	}
}

func landmarkCardinalityRule(id, role, name, description string) Rule {
	return Rule{
		ID: id, Name: name,
		Criterion: "1.3.1", CriterionName: "Info and Relationships",
		Check: func(doc *html.Node) []Issue {
			_, byRole := collectLandmarks(doc)
			els := byRole[role]
			if len(els) <= 1 {
				return nil
			}
			var out []Issue
			for _, el := range els {
				out = append(out, found(el, description))
			}
			return out
		},
	}
}

// collectLandmarks gathers sectioning elements (grouped by tag) followed by
// explicit role attributes (document order), keyed by effective role. The
// returned role list preserves first-appearance order.
func collectLandmarks(doc *html.Node) ([]string, map[string][]*html.Node) {
	var roles []string
	byRole := map[string][]*html.Node{}
	add := func(role string, el *html.Node) {
		if _, ok := byRole[role]; !ok {
			roles = append(roles, role)
		}
		byRole[role] = append(byRole[role], el)
	}

	for _, lt := range landmarkTags {
		for _, el := range dom.FindAll(doc, lt.tag) {
			add(lt.role, el)
		}
	}
	for _, el := range dom.FindAllFunc(doc, func(n *html.Node) bool {
		return dom.HasAttr(n, "role")
	}) {
		if role := dom.Attr(el, "role"); landmarkRoles[role] {
			add(role, el)
		}
	}
	return roles, byRole
}

func headings(doc *html.Node) []*html.Node {
	return dom.FindAllFunc(doc, func(n *html.Node) bool {
		return len(n.Data) == 2 && n.Data[0] == 'h' && n.Data[1] >= '1' && n.Data[1] <= '6'
	})
}

// skipLinks finds in-page anchors whose text mentions skipping, the common
// skip-navigation idiom.
func skipLinks(doc *html.Node) []*html.Node {
	var out []*html.Node
	for _, a := range dom.FindAll(doc, "a") {
		href := dom.Attr(a, "href")
		text := strings.ToLower(dom.Text(a))
		if strings.HasPrefix(href, "#") && strings.Contains(text, "skip") {
			out = append(out, a)
		}
	}
	return out
}

// firstFocusable returns the first element in document order that can
// receive keyboard focus: a link with href, a native control, or anything
// with a non-negative numeric tabindex.
func firstFocusable(doc *html.Node) *html.Node {
	focusables := dom.FindAllFunc(doc, func(n *html.Node) bool {
		switch n.Data {
		case "a":
			return dom.Attr(n, "href") != ""
		case "button", "input", "select", "textarea":
			return true
		}
		v, ok := tabindexValue(n)
		return ok && v >= 0
	})
	if len(focusables) == 0 {
		return nil
	}
	return focusables[0]
}

// tabindexValue parses a tabindex attribute consisting solely of digits.
// Signed values do not qualify, matching the audited anti-pattern scope.
func tabindexValue(n *html.Node) (int, bool) {
	val := dom.Attr(n, "tabindex")
	if val == "" {
		return 0, false
	}
	for _, r := range val {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	v, err := strconv.Atoi(val)
	if err != nil {
		return 0, false
	}
	return v, true
}
