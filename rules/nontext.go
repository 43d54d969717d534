// CLAUDE:SUMMARY Non-text content rules: alt attributes on images, inputs, image maps, embedded SVGs, canvas and object fallbacks.
package rules

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/hazyhaar/axaudit/dom"
)

// blankAlt reports whether an element's alt attribute is absent or
// whitespace-only. Absent and empty are distinct cases elsewhere; here
// both fail the non-empty requirement.
func blankAlt(n *html.Node) bool {
	return strings.TrimSpace(dom.Attr(n, "alt")) == ""
}

func nontextRules() []Rule {
	return []Rule{
		{
			ID: "NON_TEXT_001", Name: "Image missing alt attribute",
			Criterion: "1.1.1", CriterionName: "Non-text Content",
			Check: func(doc *html.Node) []Issue {
				var out []Issue
				for _, img := range dom.FindAll(doc, "img") {
					if !dom.HasAttr(img, "alt") {
						out = append(out, found(img,
							"<img> element does not contain an alt attribute."))
					}
				}
				return out
			},
		},
		{
			ID: "NON_TEXT_002", Name: "Actionable image missing alt text",
			Criterion: "1.1.1", CriterionName: "Non-text Content",
			Check: func(doc *html.Node) []Issue {
				var out []Issue
				for _, a := range dom.FindAll(doc, "a") {
					img := dom.Find(a, "img")
					if img == nil {
						continue
					}
					if blankAlt(img) {
						out = append(out, found(img,
							"Image inside a link must have non-empty alt text."))
					}
				}
				return out
			},
		},
		{
			ID: "NON_TEXT_003", Name: "Image input missing alt text",
			Criterion: "1.1.1", CriterionName: "Non-text Content",
			Check: func(doc *html.Node) []Issue {
				var out []Issue
				for _, inp := range dom.FindAll(doc, "input") {
					if strings.ToLower(dom.Attr(inp, "type")) != "image" {
						continue
					}
					if blankAlt(inp) {
						out = append(out, found(inp,
							"Form input type='image' must have non-empty alt text."))
					}
				}
				return out
			},
		},
		{
			ID: "NON_TEXT_004", Name: "Image map area missing alt text",
			Criterion: "1.1.1", CriterionName: "Non-text Content",
			Check: func(doc *html.Node) []Issue {
				var out []Issue
				for _, area := range dom.FindAll(doc, "area") {
					if blankAlt(area) {
						out = append(out, found(area,
							"<area> element must have non-empty alt text."))
					}
				}
				return out
			},
		},
		{
			ID: "NON_TEXT_005", Name: "SVG embedded via object or iframe",
			Criterion: "1.1.1", CriterionName: "Non-text Content",
			Check: func(doc *html.Node) []Issue {
				var out []Issue
				for _, el := range dom.FindAll(doc, "object", "iframe") {
					src := dom.Attr(el, "data")
					if src == "" {
						src = dom.Attr(el, "src")
					}
					if src != "" && strings.HasSuffix(strings.ToLower(src), ".svg") {
						out = append(out, found(el,
							"SVG should not be embedded using <object> or <iframe>."))
					}
				}
				return out
			},
		},
		{
			ID: "NON_TEXT_006", Name: "Canvas missing fallback text",
			Criterion: "1.1.1", CriterionName: "Non-text Content",
			Check: func(doc *html.Node) []Issue {
				var out []Issue
				for _, canvas := range dom.FindAll(doc, "canvas") {
					if dom.Text(canvas) == "" {
						out = append(out, found(canvas,
							"<canvas> element must contain fallback text content."))
					}
				}
				return out
			},
		},
		{
			ID: "NON_TEXT_007", Name: "Object missing alternative text",
			Criterion: "1.1.1", CriterionName: "Non-text Content",
			Check: func(doc *html.Node) []Issue {
				var out []Issue
				for _, obj := range dom.FindAll(doc, "object") {
					if dom.Text(obj) == "" {
						out = append(out, found(obj,
							"<object> element must contain alternative text content."))
					}
				}
				return out
			},
		},
	}
}
