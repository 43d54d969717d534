// CLAUDE:SUMMARY Payload types produced by the three structural extractors (semantic, forms, non-text).
// Package checklist projects a parsed HTML document into three typed
// payloads, one per audit checklist: semantic structure, forms, and
// non-text content. Extraction is pure and single-pass; categories that
// cover the same element kind are mutually exclusive and exhaustive over
// the elements they claim.
package checklist

// SemanticPayload covers checklist 01: document structure and navigation.
type SemanticPayload struct {
	Language     string         `json:"language"`
	PageTitle    PageTitle      `json:"page_title"`
	Headings     []Heading      `json:"headings"`
	Images       ImageTriage    `json:"images"`
	FlaggedLinks []FlaggedLink  `json:"flagged_links"`
	Forms        []SemanticForm `json:"forms"`
	Buttons      []Button       `json:"buttons"`
	Landmarks    []Landmark     `json:"landmarks"`
	Tables       []Table        `json:"tables"`
	Iframes      []Iframe       `json:"iframes"`
}

// PageTitle pairs the <title> text with the first <h1> so the evaluator can
// judge whether they agree.
type PageTitle struct {
	Title string `json:"title"`
	H1    string `json:"h1"`
}

type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// ImageTriage is the alt-status triage: every <img> falls into exactly one
// bucket depending on whether alt is absent, empty, or non-empty.
type ImageTriage struct {
	MissingAlt []ImageRef `json:"missing_alt"`
	EmptyAlt   []ImageRef `json:"empty_alt"`
	HasAlt     []ImageRef `json:"has_alt"`
}

type ImageRef struct {
	Src string  `json:"src"`
	Alt *string `json:"alt,omitempty"`
}

// FlaggedLink is a link whose accessible name is empty, generic, or very
// short. Deduplicated by (text, aria-label).
type FlaggedLink struct {
	Text      *string `json:"text"`
	AriaLabel *string `json:"aria_label"`
}

// SemanticForm is the lightweight per-form field listing used by checklist
// 01. The forms extractor produces the full projection.
type SemanticForm struct {
	Action string          `json:"action"`
	Fields []SemanticField `json:"fields"`
}

type SemanticField struct {
	Type              string  `json:"type"`
	ID                *string `json:"id"`
	Label             *string `json:"label"`
	AriaLabel         *string `json:"aria_label"`
	Placeholder       *string `json:"placeholder"`
	HasAccessibleName bool    `json:"has_accessible_name"`
}

type Button struct {
	Text      *string `json:"text"`
	AriaLabel *string `json:"aria_label"`
	HasLabel  bool    `json:"has_label"`
}

type Landmark struct {
	Tag       string  `json:"tag"`
	Role      string  `json:"role,omitempty"`
	AriaLabel *string `json:"aria_label"`
}

type Table struct {
	Caption string   `json:"caption"`
	Headers []string `json:"headers"`
}

type Iframe struct {
	Title *string `json:"title"`
	Src   string  `json:"src"`
}

// FormsPayload covers checklist 02: form labelling and instructions.
type FormsPayload struct {
	Forms        []Form        `json:"forms"`
	OrphanLabels []OrphanLabel `json:"orphan_labels"`
}

type Form struct {
	Action             *string `json:"action"`
	AriaLabel          *string `json:"aria_label"`
	AriaLabelledbyText *string `json:"aria_labelledby_text"`
	Fields             []Field `json:"fields"`
	Groups             []Group `json:"groups"`
}

// Field is one interactive form control with its full label resolution.
// LabelSource names the first matching rule of the label precedence chain;
// EffectiveLabel is what a screen reader would announce (placeholder never
// counts, since it disappears once the field has input).
type Field struct {
	Type               string  `json:"type"`
	ID                 *string `json:"id"`
	Name               *string `json:"name"`
	Label              *string `json:"label"`
	AriaLabel          *string `json:"aria_label"`
	AriaLabelledbyText *string `json:"aria_labelledby_text"`
	Title              *string `json:"title"`
	EffectiveLabel     *string `json:"effective_label"`
	LabelSource        string  `json:"label_source"`
	Placeholder        *string `json:"placeholder"`
	Instructions       *string `json:"instructions"`
	Required           bool    `json:"required"`
	GroupLabel         *string `json:"group_label"`
}

type Group struct {
	Legend     *string  `json:"legend"`
	InputTypes []string `json:"input_types"`
}

// OrphanLabel is a <label for="..."> whose target control sits outside any
// <form> element.
type OrphanLabel struct {
	LabelText string  `json:"label_text"`
	For       string  `json:"for"`
	TargetTag *string `json:"target_tag"`
}

// NontextPayload covers checklist 03: images, SVG, icon fonts, and media.
type NontextPayload struct {
	Images    ImagePartition `json:"images"`
	SVGs      []SVG          `json:"svgs"`
	IconFonts []IconFont     `json:"icon_fonts"`
	Media     []Media        `json:"media"`
}

// ImagePartition is the four-way split of images that carry an alt
// attribute. Precedence: actionable > complex > decorative > informative.
// Images with no alt attribute at all belong to none of the four; the
// missing-alt rule owns those.
type ImagePartition struct {
	Informative []Image `json:"informative"`
	Decorative  []Image `json:"decorative"`
	Actionable  []Image `json:"actionable"`
	Complex     []Image `json:"complex"`
}

// Image carries the shared fields plus category-specific context; unused
// context fields stay empty and are omitted from the serialized slice.
type Image struct {
	Src      string   `json:"src"`
	Alt      *string  `json:"alt"`
	AltFlags []string `json:"alt_flags"`

	// Actionable context.
	Context         string  `json:"context,omitempty"` // "in_link" or "in_button"
	LinkAriaLabel   *string `json:"link_aria_label,omitempty"`
	LinkText        *string `json:"link_text,omitempty"`
	LinkHref        *string `json:"link_href,omitempty"`
	ButtonText      *string `json:"button_text,omitempty"`
	ButtonAriaLabel *string `json:"button_aria_label,omitempty"`

	// Complex context.
	AriaDescribedbyText *string `json:"aria_describedby_text,omitempty"`
	Longdesc            *string `json:"longdesc,omitempty"`

	// Decorative context.
	SurroundingText *string `json:"surrounding_text,omitempty"`
}

// SVG describes an inline <svg> not hidden from assistive technology.
type SVG struct {
	Role           *string `json:"role"`
	AriaLabel      *string `json:"aria_label"`
	AriaLabelledby *string `json:"aria_labelledby"`
	Title          *string `json:"title"`
	Desc           *string `json:"desc"`
}

// IconFont is an <i>/<span> whose class list matches a known icon-font
// vocabulary. SoleContent is true when the icon is the only content of an
// enclosing link or button.
type IconFont struct {
	Classes     string  `json:"classes"`
	AriaHidden  bool    `json:"aria_hidden"`
	AriaLabel   *string `json:"aria_label"`
	VisibleText *string `json:"visible_text"`
	SiblingText *string `json:"sibling_text"`
	SoleContent bool    `json:"sole_content"`
}

type Media struct {
	Type        string  `json:"type"` // "video" or "audio"
	Src         *string `json:"src,omitempty"`
	HasControls bool    `json:"has_controls"`
	Autoplay    bool    `json:"autoplay"`
	Tracks      []Track `json:"tracks"`
	AriaLabel   *string `json:"aria_label"`
}

type Track struct {
	Kind    string `json:"kind"`
	Label   string `json:"label,omitempty"`
	Srclang string `json:"srclang,omitempty"`
}

// ns returns nil for an empty string, so optional fields serialize as null
// the way downstream slices expect.
func ns(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
