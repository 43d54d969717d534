// CLAUDE:SUMMARY Forms extractor: per-form field projections with full label-source resolution and orphan labels.
package checklist

import (
	"golang.org/x/net/html"

	"github.com/hazyhaar/axaudit/dom"
)

// labelRule is one step of the label-source precedence chain. Rules are
// evaluated in order; the first present source wins.
type labelRule struct {
	source  string
	present func(c *fieldContext) bool
}

// fieldContext gathers every candidate label source for one control before
// precedence resolution.
type fieldContext struct {
	labelEl        *html.Node // <label for="id">
	wrappingEl     *html.Node // enclosing <label>
	labelText      string
	ariaLabel      string
	labelledbyText string
	title          string
	placeholder    string
}

// labelPrecedence is the ordered first-match-wins chain. Placeholder sits
// last before "none" because it disappears once the field has input: it is
// recorded as a source but never contributes to the effective label.
var labelPrecedence = []labelRule{
	{"label_for", func(c *fieldContext) bool { return c.labelEl != nil }},
	{"wrapping_label", func(c *fieldContext) bool { return c.wrappingEl != nil }},
	{"aria_labelledby", func(c *fieldContext) bool { return c.labelledbyText != "" }},
	{"aria_label", func(c *fieldContext) bool { return c.ariaLabel != "" }},
	{"title", func(c *fieldContext) bool { return c.title != "" }},
	{"placeholder_only", func(c *fieldContext) bool { return c.placeholder != "" }},
}

func (c *fieldContext) labelSource() string {
	for _, r := range labelPrecedence {
		if r.present(c) {
			return r.source
		}
	}
	return "none"
}

// effectiveLabel is what a screen reader would announce. Placeholder is
// deliberately excluded.
func (c *fieldContext) effectiveLabel() string {
	switch {
	case c.labelText != "":
		return c.labelText
	case c.labelledbyText != "":
		return c.labelledbyText
	case c.ariaLabel != "":
		return c.ariaLabel
	default:
		return c.title
	}
}

// ExtractForms walks the tree once and builds the forms payload.
func ExtractForms(doc *html.Node) *FormsPayload {
	p := &FormsPayload{Forms: []Form{}, OrphanLabels: []OrphanLabel{}}

	for _, form := range dom.FindAll(doc, "form") {
		f := Form{
			Action:             ns(dom.Attr(form, "action")),
			AriaLabel:          ns(dom.Clean(dom.Attr(form, "aria-label"))),
			AriaLabelledbyText: ns(dom.ResolveIDRefs(doc, dom.Attr(form, "aria-labelledby"))),
			Fields:             []Field{},
			Groups:             []Group{},
		}

		for _, inp := range dom.FindAll(form, "input", "select", "textarea") {
			typ := inputType(inp)
			if skipInputTypes[typ] {
				continue
			}
			f.Fields = append(f.Fields, extractField(doc, inp, typ))
		}

		for _, fieldset := range dom.FindAll(form, "fieldset") {
			g := Group{InputTypes: []string{}}
			if legend := dom.Find(fieldset, "legend"); legend != nil {
				g.Legend = ns(dom.Text(legend))
			}
			for _, inp := range dom.FindAll(fieldset, "input", "select", "textarea") {
				if t := inputType(inp); !skipInputTypes[t] {
					g.InputTypes = append(g.InputTypes, t)
				}
			}
			f.Groups = append(f.Groups, g)
		}

		if len(f.Fields) > 0 || len(f.Groups) > 0 {
			p.Forms = append(p.Forms, f)
		}
	}

	p.OrphanLabels = orphanLabels(doc)
	return p
}

func extractField(doc, inp *html.Node, typ string) Field {
	id := dom.Attr(inp, "id")

	c := &fieldContext{
		ariaLabel:      dom.Clean(dom.Attr(inp, "aria-label")),
		labelledbyText: dom.ResolveIDRefs(doc, dom.Attr(inp, "aria-labelledby")),
		title:          dom.Clean(dom.Attr(inp, "title")),
		placeholder:    dom.Clean(dom.Attr(inp, "placeholder")),
	}
	if id != "" {
		c.labelEl = labelFor(doc, id)
	}
	if c.labelEl == nil {
		c.wrappingEl = dom.FindParent(inp, "label")
	}
	if c.labelEl != nil {
		c.labelText = dom.Text(c.labelEl)
	} else if c.wrappingEl != nil {
		c.labelText = dom.Text(c.wrappingEl)
	}

	var groupLabel string
	if fieldset := dom.FindParent(inp, "fieldset"); fieldset != nil {
		if legend := dom.Find(fieldset, "legend"); legend != nil {
			groupLabel = dom.Text(legend)
		}
	}

	return Field{
		Type:               typ,
		ID:                 ns(id),
		Name:               ns(dom.Attr(inp, "name")),
		Label:              ns(c.labelText),
		AriaLabel:          ns(c.ariaLabel),
		AriaLabelledbyText: ns(c.labelledbyText),
		Title:              ns(c.title),
		EffectiveLabel:     ns(c.effectiveLabel()),
		LabelSource:        c.labelSource(),
		Placeholder:        ns(c.placeholder),
		Instructions:       ns(dom.ResolveIDRefs(doc, dom.Attr(inp, "aria-describedby"))),
		Required:           dom.HasAttr(inp, "required") || dom.Attr(inp, "aria-required") == "true",
		GroupLabel:         ns(groupLabel),
	}
}

// orphanLabels finds labels whose for-target is not a control inside any
// <form> element.
func orphanLabels(doc *html.Node) []OrphanLabel {
	formInputIDs := map[string]bool{}
	for _, form := range dom.FindAll(doc, "form") {
		for _, inp := range dom.FindAll(form, "input", "select", "textarea") {
			if id := dom.Attr(inp, "id"); id != "" {
				formInputIDs[id] = true
			}
		}
	}

	orphans := []OrphanLabel{}
	for _, label := range dom.FindAll(doc, "label") {
		forID := dom.Attr(label, "for")
		if forID == "" || formInputIDs[forID] {
			continue
		}
		o := OrphanLabel{LabelText: dom.Text(label), For: forID}
		if target := dom.FindByID(doc, forID); target != nil {
			o.TargetTag = ns(target.Data)
		}
		orphans = append(orphans, o)
	}
	return orphans
}
