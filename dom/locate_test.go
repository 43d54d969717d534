package dom

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func TestPathNthOfType(t *testing.T) {
	doc := parse(t, `<div><p>one</p><p>two</p><span>x</span><p>three</p></div>`)
	ps := FindAll(doc, "p")
	if len(ps) != 3 {
		t.Fatalf("expected 3 <p>, got %d", len(ps))
	}

	wants := []string{
		"html > body > div > p",
		"html > body > div > p:nth-of-type(2)",
		"html > body > div > p:nth-of-type(3)",
	}
	for i, want := range wants {
		if got := Path(ps[i]); got != want {
			t.Errorf("Path(p[%d]) = %q, want %q", i, got, want)
		}
	}

	// The span is the first (and only) span: no nth-of-type suffix even
	// though element siblings precede it.
	if got := Path(Find(doc, "span")); got != "html > body > div > span" {
		t.Errorf("Path(span) = %q", got)
	}
}

func TestPathUniqueAndStable(t *testing.T) {
	doc := parse(t, `
		<div><p>a</p><p>b</p></div>
		<div><p>c</p></div>
		<ul><li>1</li><li>2</li><li>3</li></ul>`)

	seen := map[string]bool{}
	for _, n := range FindAllFunc(doc, func(n *html.Node) bool { return true }) {
		p := Path(n)
		if seen[p] {
			t.Errorf("duplicate path %q for distinct elements", p)
		}
		seen[p] = true
		if again := Path(n); again != p {
			t.Errorf("path not stable: %q then %q", p, again)
		}
	}
}

func TestLocate(t *testing.T) {
	doc := parse(t, `<main id="content" class="wrap page">` +
		strings.Repeat("long text ", 20) + `</main>`)
	main := Find(doc, "main")

	d := Locate(main)
	if d == nil {
		t.Fatal("expected descriptor")
	}
	if d.Tag != "main" || d.ID != "content" {
		t.Errorf("tag/id = %q/%q", d.Tag, d.ID)
	}
	if len(d.Classes) != 2 || d.Classes[0] != "wrap" {
		t.Errorf("classes = %v", d.Classes)
	}
	if len([]rune(d.TextPreview)) > 80 {
		t.Errorf("preview not bounded: %d runes", len([]rune(d.TextPreview)))
	}
	if d.Path != "html > body > main" {
		t.Errorf("path = %q", d.Path)
	}
}

func TestLocateNil(t *testing.T) {
	if Locate(nil) != nil {
		t.Error("nil element must yield nil descriptor")
	}
}
