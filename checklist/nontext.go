// CLAUDE:SUMMARY Non-text extractor: image quad-partition, SVGs, icon fonts, and media with caption tracks.
package checklist

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/hazyhaar/axaudit/dom"
)

// iconClassRE covers Font Awesome v4-v6, Elementor, Dashicons, Glyphicons.
var iconClassRE = regexp.MustCompile(`(?i)\b(fa|fas|far|fab|fal|fad|fa-|eicon|dashicons|glyphicon)\b`)

// complexHintRE flags filenames or classes that suggest a content-complex
// image needing a long description.
var complexHintRE = regexp.MustCompile(`(?i)(chart|graph|diagram|infographic|figure|map|plot)`)

// Alt-text quality anti-patterns checkable without semantic understanding.
var (
	altFilenameRE  = regexp.MustCompile(`(?i)\.(jpe?g|png|gif|svg|webp|bmp|ico)$`)
	altRedundantRE = regexp.MustCompile(`(?i)^(image of|photo of|picture of|graphic of|icon of|screenshot of)`)
)

const altTooLong = 150

// AltFlags returns quick programmatic quality flags for a non-empty alt
// text: looks_like_filename, redundant_phrase, too_long.
func AltFlags(alt string) []string {
	flags := []string{}
	if alt == "" {
		return flags
	}
	if altFilenameRE.MatchString(alt) {
		flags = append(flags, "looks_like_filename")
	}
	if altRedundantRE.MatchString(alt) {
		flags = append(flags, "redundant_phrase")
	}
	if len(alt) > altTooLong {
		flags = append(flags, "too_long")
	}
	return flags
}

// ExtractNontext walks the tree once and builds the non-text payload.
func ExtractNontext(doc *html.Node) *NontextPayload {
	p := &NontextPayload{
		Images: ImagePartition{
			Informative: []Image{},
			Decorative:  []Image{},
			Actionable:  []Image{},
			Complex:     []Image{},
		},
		SVGs:      []SVG{},
		IconFonts: []IconFont{},
		Media:     []Media{},
	}

	for _, img := range dom.FindAll(doc, "img") {
		// Missing alt entirely: owned by the missing-alt rule, not the
		// partition. alt="" is a deliberate decorative marker and stays in.
		if !dom.HasAttr(img, "alt") {
			continue
		}
		partitionImage(doc, img, &p.Images)
	}

	p.SVGs = svgs(doc)
	p.IconFonts = iconFonts(doc)
	p.Media = media(doc)
	return p
}

// partitionImage assigns one image to exactly one of the four categories,
// in precedence order: actionable > complex > decorative > informative.
func partitionImage(doc, img *html.Node, part *ImagePartition) {
	rawAlt := dom.Attr(img, "alt")
	alt := dom.Clean(rawAlt)
	srcFull := dom.Attr(img, "src")
	classes := strings.Join(dom.Classes(img), " ")

	entry := Image{
		Src:      baseName(srcFull),
		Alt:      ns(alt),
		AltFlags: AltFlags(alt),
	}

	parentLink := dom.FindParent(img, "a")
	parentButton := dom.FindParent(img, "button")

	switch {
	case parentLink != nil || parentButton != nil:
		// The accessible name must describe the destination or action, not
		// the visual appearance; capture the surrounding control.
		if parentLink != nil {
			entry.Context = "in_link"
			entry.LinkAriaLabel = ns(dom.Clean(dom.Attr(parentLink, "aria-label")))
			entry.LinkText = ns(dom.Text(parentLink))
			href := dom.Attr(parentLink, "href")
			if len(href) > 80 {
				href = href[:80]
			}
			entry.LinkHref = ns(href)
		} else {
			entry.Context = "in_button"
			entry.ButtonText = ns(dom.Text(parentButton))
			entry.ButtonAriaLabel = ns(dom.Clean(dom.Attr(parentButton, "aria-label")))
		}
		part.Actionable = append(part.Actionable, entry)

	case complexHintRE.MatchString(srcFull) || complexHintRE.MatchString(classes):
		entry.AriaDescribedbyText = ns(dom.ResolveIDRefs(doc, dom.Attr(img, "aria-describedby")))
		entry.Longdesc = ns(dom.Attr(img, "longdesc"))
		part.Complex = append(part.Complex, entry)

	case strings.TrimSpace(rawAlt) == "":
		if parent := img.Parent; parent != nil {
			text := dom.Text(parent)
			if len([]rune(text)) > 100 {
				text = string([]rune(text)[:100])
			}
			entry.SurroundingText = ns(text)
		}
		part.Decorative = append(part.Decorative, entry)

	default:
		part.Informative = append(part.Informative, entry)
	}
}

// svgs lists inline SVGs, excluding those explicitly hidden from assistive
// technology.
func svgs(doc *html.Node) []SVG {
	out := []SVG{}
	for _, svg := range dom.FindAll(doc, "svg") {
		if dom.Attr(svg, "aria-hidden") == "true" {
			continue
		}
		s := SVG{
			Role:           ns(dom.Attr(svg, "role")),
			AriaLabel:      ns(dom.Clean(dom.Attr(svg, "aria-label"))),
			AriaLabelledby: ns(dom.Attr(svg, "aria-labelledby")),
		}
		if title := dom.Find(svg, "title"); title != nil {
			s.Title = ns(dom.Text(title))
		}
		if desc := dom.Find(svg, "desc"); desc != nil {
			s.Desc = ns(dom.Text(desc))
		}
		out = append(out, s)
	}
	return out
}

func iconFonts(doc *html.Node) []IconFont {
	out := []IconFont{}
	type key struct {
		classes string
		hidden  bool
		aria    string
	}
	seen := map[key]bool{}

	for _, el := range dom.FindAll(doc, "i", "span") {
		classes := strings.Join(dom.Classes(el), " ")
		if !iconClassRE.MatchString(classes) {
			continue
		}

		ariaHidden := dom.Attr(el, "aria-hidden") == "true"
		ariaLabel := dom.Clean(dom.Attr(el, "aria-label"))
		visibleText := dom.Text(el)

		trunc := classes
		if len(trunc) > 60 {
			trunc = trunc[:60]
		}
		k := key{trunc, ariaHidden, ariaLabel}
		if seen[k] {
			continue
		}
		seen[k] = true

		var siblingText string
		if el.Parent != nil {
			siblingText = dom.Text(el.Parent)
			if len([]rune(siblingText)) > 80 {
				siblingText = string([]rune(siblingText)[:80])
			}
		}

		if len(classes) > 80 {
			classes = classes[:80]
		}

		out = append(out, IconFont{
			Classes:     classes,
			AriaHidden:  ariaHidden,
			AriaLabel:   ns(ariaLabel),
			VisibleText: ns(visibleText),
			SiblingText: ns(siblingText),
			SoleContent: soleContent(el, visibleText),
		})
	}
	return out
}

// soleContent reports whether the icon is the only content of an enclosing
// link or button: stripping the icon's own text from the ancestor leaves
// nothing.
func soleContent(el *html.Node, visibleText string) bool {
	for _, tag := range []string{"a", "button"} {
		parent := dom.FindParent(el, tag)
		if parent == nil {
			continue
		}
		rest := dom.Text(parent)
		if visibleText != "" {
			rest = strings.Replace(rest, visibleText, "", 1)
		}
		if dom.Clean(rest) == "" {
			return true
		}
	}
	return false
}

func media(doc *html.Node) []Media {
	out := []Media{}

	for _, video := range dom.FindAll(doc, "video") {
		src := dom.Attr(video, "src")
		if src == "" {
			if source := dom.Find(video, "source"); source != nil {
				src = dom.Attr(source, "src")
			}
		}
		if len(src) > 80 {
			src = src[:80]
		}
		tracks := []Track{}
		for _, tr := range dom.FindAll(video, "track") {
			tracks = append(tracks, Track{
				Kind:    dom.Attr(tr, "kind"),
				Label:   dom.Attr(tr, "label"),
				Srclang: dom.Attr(tr, "srclang"),
			})
		}
		out = append(out, Media{
			Type:        "video",
			Src:         ns(src),
			HasControls: dom.HasAttr(video, "controls"),
			Autoplay:    dom.HasAttr(video, "autoplay"),
			Tracks:      tracks,
			AriaLabel:   ns(dom.Clean(dom.Attr(video, "aria-label"))),
		})
	}

	for _, audio := range dom.FindAll(doc, "audio") {
		tracks := []Track{}
		for _, tr := range dom.FindAll(audio, "track") {
			tracks = append(tracks, Track{
				Kind:  dom.Attr(tr, "kind"),
				Label: dom.Attr(tr, "label"),
			})
		}
		out = append(out, Media{
			Type:        "audio",
			HasControls: dom.HasAttr(audio, "controls"),
			Autoplay:    dom.HasAttr(audio, "autoplay"),
			Tracks:      tracks,
			AriaLabel:   ns(dom.Clean(dom.Attr(audio, "aria-label"))),
		})
	}

	return out
}
