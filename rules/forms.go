// CLAUDE:SUMMARY Form rules: label association, placeholder misuse, fieldset legends, required markers, describedby references, custom controls.
package rules

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/hazyhaar/axaudit/dom"
)

// nonInteractiveInputTypes are input types excluded from label checks.
var nonInteractiveInputTypes = map[string]bool{
	"hidden": true,
	"submit": true,
	"reset":  true,
	"button": true,
	"image":  true,
}

// formControls returns the interactive controls of the document: inputs
// (minus non-interactive types), selects and textareas, in document order.
func formControls(doc *html.Node) []*html.Node {
	var out []*html.Node
	for _, c := range dom.FindAll(doc, "input", "select", "textarea") {
		if c.Data == "input" {
			typ := strings.ToLower(dom.Attr(c, "type"))
			if typ == "" {
				typ = "text"
			}
			if nonInteractiveInputTypes[typ] {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}

// hasProgrammaticLabel reports whether a control has any label association:
// label[for], wrapping label, aria-label or aria-labelledby.
func hasProgrammaticLabel(doc, control *html.Node) bool {
	if id := dom.Attr(control, "id"); id != "" && findLabelFor(doc, id) != nil {
		return true
	}
	if dom.FindParent(control, "label") != nil {
		return true
	}
	return dom.Attr(control, "aria-label") != "" || dom.Attr(control, "aria-labelledby") != ""
}

func findLabelFor(doc *html.Node, id string) *html.Node {
	for _, label := range dom.FindAll(doc, "label") {
		if dom.Attr(label, "for") == id {
			return label
		}
	}
	return nil
}

func formRules() []Rule {
	return []Rule{
		{
			ID: "FORM_LABEL_001", Name: "Form control missing programmatic label",
			Criterion: "1.3.1", CriterionName: "Info and Relationships",
			Check: func(doc *html.Node) []Issue {
				var out []Issue
				for _, c := range formControls(doc) {
					if !hasProgrammaticLabel(doc, c) {
						out = append(out, found(c,
							"Form control does not have an associated label."))
					}
				}
				return out
			},
		},
		{
			ID: "FORM_LABEL_003", Name: "Placeholder used as only label",
			Criterion: "3.3.2", CriterionName: "Labels or Instructions",
			Check: func(doc *html.Node) []Issue {
				var out []Issue
				for _, c := range formControls(doc) {
					if dom.Attr(c, "placeholder") != "" && !hasProgrammaticLabel(doc, c) {
						out = append(out, found(c,
							"Placeholder text is used without a programmatically associated label."))
					}
				}
				return out
			},
		},
		{
			ID: "FORM_GROUP_001", Name: "Fieldset missing legend",
			Criterion: "1.3.1", CriterionName: "Info and Relationships",
			Check: func(doc *html.Node) []Issue {
				var out []Issue
				for _, fs := range dom.FindAll(doc, "fieldset") {
					if dom.Find(fs, "legend") == nil {
						out = append(out, found(fs,
							"Fieldset does not contain a legend element."))
					}
				}
				return out
			},
		},
		{
			ID: "FORM_REQUIRED_001", Name: "Required field not programmatically designated",
			Criterion: "3.3.2", CriterionName: "Labels or Instructions",
			Check: func(doc *html.Node) []Issue {
				var out []Issue
				for _, c := range formControls(doc) {
					if dom.HasAttr(c, "required") {
						continue
					}
					id := dom.Attr(c, "id")
					if id == "" {
						continue
					}
					label := findLabelFor(doc, id)
					if label != nil && strings.Contains(dom.Text(label), "*") {
						out = append(out, found(c,
							"Field appears visually required but lacks 'required' attribute."))
					}
				}
				return out
			},
		},
		{
			ID: "FORM_INSTR_001", Name: "aria-describedby reference not found",
			Criterion: "3.3.2", CriterionName: "Labels or Instructions",
			Check: func(doc *html.Node) []Issue {
				var out []Issue
				for _, c := range formControls(doc) {
					for _, ref := range strings.Fields(dom.Attr(c, "aria-describedby")) {
						if dom.FindByID(doc, ref) == nil {
							out = append(out, found(c, fmt.Sprintf(
								"aria-describedby references missing ID '%s'.", ref)))
						}
					}
				}
				return out
			},
		},
		{
			ID: "FORM_ERROR_001", Name: "Error message not programmatically associated",
			Criterion: "3.3.1", CriterionName: "Error Identification",
			Check: func(doc *html.Node) []Issue {
				var out []Issue
				for _, c := range formControls(doc) {
					if dom.Attr(c, "aria-invalid") == "true" && dom.Attr(c, "aria-describedby") == "" {
						out = append(out, found(c,
							"Invalid form control lacks aria-describedby linking to error message."))
					}
				}
				return out
			},
		},
		{
			ID: "FORM_CUSTOM_001", Name: "Custom interactive element missing role",
			Criterion: "4.1.2", CriterionName: "Name, Role, Value",
			Check: func(doc *html.Node) []Issue {
				var out []Issue
				for _, el := range dom.FindAllFunc(doc, func(n *html.Node) bool {
					return dom.HasAttr(n, "onclick")
				}) {
					switch el.Data {
					case "button", "a", "input":
						continue
					}
					if dom.Attr(el, "role") == "" {
						out = append(out, found(el,
							"Element has click handler but no semantic role."))
					}
				}
				return out
			},
		},
	}
}
