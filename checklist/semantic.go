// CLAUDE:SUMMARY Semantic-structure extractor: language, titles, headings, alt triage, flagged links, landmarks, tables, iframes.
package checklist

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/hazyhaar/axaudit/dom"
)

// genericLinkTerms are accessible names that say nothing about the link
// destination when read out of context.
var genericLinkTerms = map[string]bool{
	"click here": true,
	"here":       true,
	"read more":  true,
	"more":       true,
	"learn more": true,
	"details":    true,
	"link":       true,
}

// ariaLandmarkRoles are the ARIA roles that define page regions.
var ariaLandmarkRoles = map[string]bool{
	"banner":        true,
	"navigation":    true,
	"main":          true,
	"complementary": true,
	"contentinfo":   true,
	"search":        true,
	"form":          true,
	"region":        true,
}

// skipInputTypes are input types that never need a visible label.
var skipInputTypes = map[string]bool{
	"hidden": true,
	"submit": true,
	"button": true,
	"reset":  true,
	"image":  true,
}

var headingRE = regexp.MustCompile(`^h[1-6]$`)

const maxTableHeaders = 20

// ExtractSemantic walks the tree once and builds the semantic-structure
// payload. Pure: repeated calls on the same tree yield identical output.
func ExtractSemantic(doc *html.Node) *SemanticPayload {
	p := &SemanticPayload{
		Headings:     []Heading{},
		FlaggedLinks: []FlaggedLink{},
		Forms:        []SemanticForm{},
		Buttons:      []Button{},
		Landmarks:    []Landmark{},
		Tables:       []Table{},
		Iframes:      []Iframe{},
		Images: ImageTriage{
			MissingAlt: []ImageRef{},
			EmptyAlt:   []ImageRef{},
			HasAlt:     []ImageRef{},
		},
	}

	if htmlEl := dom.Find(doc, "html"); htmlEl != nil {
		p.Language = dom.Attr(htmlEl, "lang")
	}

	if title := dom.Find(doc, "title"); title != nil {
		p.PageTitle.Title = dom.Text(title)
	}
	if h1 := dom.Find(doc, "h1"); h1 != nil {
		p.PageTitle.H1 = dom.Text(h1)
	}

	for _, h := range dom.FindAllFunc(doc, func(n *html.Node) bool {
		return headingRE.MatchString(n.Data)
	}) {
		level, _ := strconv.Atoi(h.Data[1:])
		p.Headings = append(p.Headings, Heading{Level: level, Text: dom.Text(h)})
	}

	for _, img := range dom.FindAll(doc, "img") {
		src := baseName(dom.Attr(img, "src"))
		switch {
		case !dom.HasAttr(img, "alt"):
			p.Images.MissingAlt = append(p.Images.MissingAlt, ImageRef{Src: src})
		case strings.TrimSpace(dom.Attr(img, "alt")) == "":
			p.Images.EmptyAlt = append(p.Images.EmptyAlt, ImageRef{Src: src})
		default:
			p.Images.HasAlt = append(p.Images.HasAlt, ImageRef{
				Src: src, Alt: ns(dom.Clean(dom.Attr(img, "alt"))),
			})
		}
	}

	p.FlaggedLinks = flaggedLinks(doc)
	p.Forms = semanticForms(doc)
	p.Buttons = buttons(doc)
	p.Landmarks = landmarks(doc)

	for _, table := range dom.FindAll(doc, "table") {
		t := Table{Headers: []string{}}
		if caption := dom.Find(table, "caption"); caption != nil {
			t.Caption = dom.Text(caption)
		}
		for _, th := range dom.FindAll(table, "th") {
			if len(t.Headers) >= maxTableHeaders {
				break
			}
			t.Headers = append(t.Headers, dom.Text(th))
		}
		p.Tables = append(p.Tables, t)
	}

	for _, iframe := range dom.FindAll(doc, "iframe") {
		src := dom.Attr(iframe, "src")
		if len(src) > 80 {
			src = src[:80]
		}
		p.Iframes = append(p.Iframes, Iframe{
			Title: ns(dom.Clean(dom.Attr(iframe, "title"))),
			Src:   src,
		})
	}

	return p
}

// flaggedLinks collects links whose accessible name (aria-label, else
// visible text) is empty, a generic phrase, or at most two words.
func flaggedLinks(doc *html.Node) []FlaggedLink {
	flagged := []FlaggedLink{}
	type key struct{ text, aria string }
	seen := map[key]bool{}

	for _, a := range dom.FindAll(doc, "a") {
		text := dom.Text(a)
		aria := dom.Clean(dom.Attr(a, "aria-label"))
		effective := aria
		if effective == "" {
			effective = text
		}

		isGeneric := genericLinkTerms[strings.ToLower(effective)]
		isShort := effective != "" && len(strings.Fields(effective)) <= 2

		if effective == "" || isGeneric || isShort {
			k := key{text, aria}
			if seen[k] {
				continue
			}
			seen[k] = true
			flagged = append(flagged, FlaggedLink{Text: ns(text), AriaLabel: ns(aria)})
		}
	}
	return flagged
}

func semanticForms(doc *html.Node) []SemanticForm {
	forms := []SemanticForm{}
	for _, form := range dom.FindAll(doc, "form") {
		fields := []SemanticField{}
		for _, inp := range dom.FindAll(form, "input", "select", "textarea") {
			typ := inputType(inp)
			if skipInputTypes[typ] {
				continue
			}
			id := dom.Attr(inp, "id")
			var labelText string
			if id != "" {
				if label := labelFor(doc, id); label != nil {
					labelText = dom.Text(label)
				}
			}
			aria := dom.Clean(dom.Attr(inp, "aria-label"))
			labelledby := dom.Attr(inp, "aria-labelledby")
			fields = append(fields, SemanticField{
				Type:              typ,
				ID:                ns(id),
				Label:             ns(labelText),
				AriaLabel:         ns(aria),
				Placeholder:       ns(dom.Clean(dom.Attr(inp, "placeholder"))),
				HasAccessibleName: labelText != "" || aria != "" || labelledby != "",
			})
		}
		if len(fields) > 0 {
			forms = append(forms, SemanticForm{Action: dom.Attr(form, "action"), Fields: fields})
		}
	}
	return forms
}

func buttons(doc *html.Node) []Button {
	out := []Button{}
	type key struct{ text, aria string }
	seen := map[key]bool{}

	btns := dom.FindAllFunc(doc, func(n *html.Node) bool {
		return n.Data == "button" || dom.Attr(n, "role") == "button"
	})
	for _, btn := range btns {
		text := dom.Text(btn)
		aria := dom.Clean(dom.Attr(btn, "aria-label"))
		k := key{text, aria}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, Button{
			Text:      ns(text),
			AriaLabel: ns(aria),
			HasLabel:  text != "" || aria != "",
		})
	}
	return out
}

func landmarks(doc *html.Node) []Landmark {
	out := []Landmark{}
	for _, el := range dom.FindAll(doc, "main", "nav", "header", "footer", "aside") {
		out = append(out, Landmark{
			Tag:       el.Data,
			AriaLabel: ns(dom.Clean(dom.Attr(el, "aria-label"))),
		})
	}
	for _, el := range dom.FindAllFunc(doc, func(n *html.Node) bool {
		return dom.HasAttr(n, "role")
	}) {
		role := strings.ToLower(dom.Attr(el, "role"))
		if ariaLandmarkRoles[role] {
			out = append(out, Landmark{
				Tag:       el.Data,
				Role:      role,
				AriaLabel: ns(dom.Clean(dom.Attr(el, "aria-label"))),
			})
		}
	}
	return out
}

// labelFor finds the <label for="id"> element for a control id.
func labelFor(doc *html.Node, id string) *html.Node {
	for _, label := range dom.FindAll(doc, "label") {
		if dom.Attr(label, "for") == id {
			return label
		}
	}
	return nil
}

// inputType returns the effective control type: the type attribute for
// inputs (default "text"), the tag name otherwise.
func inputType(n *html.Node) string {
	if n.Data != "input" {
		return n.Data
	}
	t := strings.ToLower(dom.Attr(n, "type"))
	if t == "" {
		return "text"
	}
	return t
}

// baseName trims a src URL to its final path segment, bounded to 60 bytes.
func baseName(src string) string {
	if i := strings.LastIndex(src, "/"); i >= 0 {
		src = src[i+1:]
	}
	if len(src) > 60 {
		src = src[:60]
	}
	return src
}
