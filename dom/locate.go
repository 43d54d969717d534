// CLAUDE:SUMMARY Location resolver: CSS-like structural paths and ElementDescriptor construction.
package dom

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// ElementDescriptor is a stable, human-readable structural address for one
// element in one document snapshot. The path is unique within the snapshot
// but not stable across edits.
type ElementDescriptor struct {
	Tag         string            `json:"tag"`
	ID          string            `json:"id,omitempty"`
	Classes     []string          `json:"class,omitempty"`
	Path        string            `json:"css_path"`
	Attrs       map[string]string `json:"attributes,omitempty"`
	TextPreview string            `json:"text_preview,omitempty"`
}

const previewLimit = 80

// Path computes the CSS-like structural path of an element: at each level
// the tag name, with ":nth-of-type(k)" appended when k preceding siblings
// share the tag. Segments are joined root-first with " > ".
func Path(n *html.Node) string {
	var segs []string
	for el := n; el != nil && el.Type == html.ElementNode; el = el.Parent {
		idx := 1
		for sib := el.PrevSibling; sib != nil; sib = sib.PrevSibling {
			if sib.Type == html.ElementNode && sib.Data == el.Data {
				idx++
			}
		}
		seg := el.Data
		if idx > 1 {
			seg += ":nth-of-type(" + strconv.Itoa(idx) + ")"
		}
		segs = append(segs, seg)
	}
	// Reverse to root-first order.
	for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
		segs[i], segs[j] = segs[j], segs[i]
	}
	return strings.Join(segs, " > ")
}

// Locate builds the structural address of an element. A nil element yields a
// nil descriptor, used for document-level issues with no single anchor.
func Locate(n *html.Node) *ElementDescriptor {
	if n == nil || n.Type != html.ElementNode {
		return nil
	}
	preview := Text(n)
	if r := []rune(preview); len(r) > previewLimit {
		preview = string(r[:previewLimit])
	}
	return &ElementDescriptor{
		Tag:         n.Data,
		ID:          Attr(n, "id"),
		Classes:     Classes(n),
		Path:        Path(n),
		Attrs:       Attrs(n),
		TextPreview: preview,
	}
}
