// CLAUDE:SUMMARY Capability layer over golang.org/x/net/html: typed find/attr/text access used by every extractor and rule.
// Package dom wraps the x/net/html node model behind the small set of
// operations the audit pipeline needs: find by tag, find by predicate,
// attribute lookup, whitespace-collapsed text, id resolution, and ancestor
// walks. All traversals are read-only and run in document order.
package dom

import (
	"bytes"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var spaceRE = regexp.MustCompile(`\s+`)

// Parse reads an HTML document. x/net/html is best-effort: malformed markup
// yields a usable tree rather than an error in almost all cases.
func Parse(r io.Reader) (*html.Node, error) {
	return html.Parse(r)
}

// ParseBytes parses an in-memory HTML document.
func ParseBytes(data []byte) (*html.Node, error) {
	return html.Parse(bytes.NewReader(data))
}

// Clean collapses runs of whitespace into single spaces and trims the ends.
func Clean(s string) string {
	return strings.TrimSpace(spaceRE.ReplaceAllString(s, " "))
}

// Walk visits every node under root (root included) in document order.
// Returning false from fn stops the walk.
func Walk(root *html.Node, fn func(*html.Node) bool) {
	var rec func(*html.Node) bool
	rec = func(n *html.Node) bool {
		if !fn(n) {
			return false
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if !rec(c) {
				return false
			}
		}
		return true
	}
	rec(root)
}

// FindAll returns every element under root whose tag matches one of tags,
// in document order.
func FindAll(root *html.Node, tags ...string) []*html.Node {
	set := make(map[string]bool, len(tags))
	for _, t := range tags {
		set[t] = true
	}
	return FindAllFunc(root, func(n *html.Node) bool {
		return set[n.Data]
	})
}

// FindAllFunc returns every element under root for which pred is true,
// in document order. pred only sees element nodes.
func FindAllFunc(root *html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	Walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && pred(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// Find returns the first element with the given tag, or nil.
func Find(root *html.Node, tag string) *html.Node {
	var found *html.Node
	Walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == tag {
			found = n
			return false
		}
		return true
	})
	return found
}

// FindByID returns the element with the given id attribute, or nil.
// The id is compared after trimming surrounding whitespace.
func FindByID(root *html.Node, id string) *html.Node {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}
	var found *html.Node
	Walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && Attr(n, "id") == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// Attr returns the value of the named attribute, or "" when absent.
func Attr(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// HasAttr reports whether the attribute is present, even with an empty value.
// The alt="" vs missing-alt distinction depends on this.
func HasAttr(n *html.Node, key string) bool {
	if n == nil {
		return false
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

// Attrs returns all attributes as a map. Multi-valued attributes keep the
// first occurrence, matching browser behaviour.
func Attrs(n *html.Node) map[string]string {
	if n == nil || len(n.Attr) == 0 {
		return nil
	}
	m := make(map[string]string, len(n.Attr))
	for _, a := range n.Attr {
		if _, ok := m[a.Key]; !ok {
			m[a.Key] = a.Val
		}
	}
	return m
}

// Classes returns the class attribute split on whitespace.
func Classes(n *html.Node) []string {
	return strings.Fields(Attr(n, "class"))
}

// Text returns the whitespace-collapsed text content of the subtree,
// skipping script and style bodies.
func Text(n *html.Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	var rec func(*html.Node)
	rec = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
			return
		}
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			rec(c)
		}
	}
	rec(n)
	return Clean(sb.String())
}

// FindParent returns the nearest ancestor element whose tag matches one of
// tags, or nil.
func FindParent(n *html.Node, tags ...string) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type != html.ElementNode {
			continue
		}
		for _, t := range tags {
			if p.Data == t {
				return p
			}
		}
	}
	return nil
}

// ResolveIDRefs resolves a whitespace-separated list of id references
// (aria-labelledby, aria-describedby) to the combined text of the targets,
// joined with single spaces. Returns "" when no id resolves.
func ResolveIDRefs(root *html.Node, refs string) string {
	var parts []string
	for _, id := range strings.Fields(refs) {
		if target := FindByID(root, id); target != nil {
			if t := Text(target); t != "" {
				parts = append(parts, t)
			}
		}
	}
	return strings.Join(parts, " ")
}
