package dom

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func parse(t *testing.T, src string) *html.Node {
	t.Helper()
	root, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return root
}

func TestFindAll(t *testing.T) {
	doc := parse(t, `<ul><li>a</li><li>b</li></ul><p>c</p>`)

	lis := FindAll(doc, "li")
	if len(lis) != 2 {
		t.Fatalf("expected 2 <li>, got %d", len(lis))
	}
	if Text(lis[0]) != "a" || Text(lis[1]) != "b" {
		t.Errorf("document order broken: %q, %q", Text(lis[0]), Text(lis[1]))
	}

	mixed := FindAll(doc, "li", "p")
	if len(mixed) != 3 {
		t.Errorf("expected 3 matches for li+p, got %d", len(mixed))
	}
}

func TestAttrAndHasAttr(t *testing.T) {
	doc := parse(t, `<img src="x.png" alt=""><img src="y.png">`)
	imgs := FindAll(doc, "img")
	if len(imgs) != 2 {
		t.Fatalf("expected 2 imgs, got %d", len(imgs))
	}

	// alt="" is present-but-empty; the second img has no alt at all.
	if !HasAttr(imgs[0], "alt") {
		t.Error("empty alt should count as present")
	}
	if HasAttr(imgs[1], "alt") {
		t.Error("missing alt should not count as present")
	}
	if Attr(imgs[0], "alt") != "" || Attr(imgs[1], "alt") != "" {
		t.Error("Attr should return empty string in both cases")
	}
}

func TestText(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`<p>  hello   world </p>`, "hello world"},
		{`<div>a<span>b</span>c</div>`, "a b c"},
		{`<div>text<script>var x=1;</script></div>`, "text"},
		{`<div><style>.a{}</style>styled</div>`, "styled"},
		{`<p></p>`, ""},
	}
	for _, tt := range tests {
		doc := parse(t, tt.src)
		body := Find(doc, "body")
		if got := Text(body); got != tt.want {
			t.Errorf("Text(%q) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestFindByID(t *testing.T) {
	doc := parse(t, `<div id="main">content</div><span id="other">x</span>`)
	if n := FindByID(doc, "main"); n == nil || n.Data != "div" {
		t.Error("expected to find div#main")
	}
	if n := FindByID(doc, "missing"); n != nil {
		t.Error("expected nil for unknown id")
	}
	if n := FindByID(doc, ""); n != nil {
		t.Error("expected nil for empty id")
	}
}

func TestFindParent(t *testing.T) {
	doc := parse(t, `<a href="/"><span><img src="x.png"></span></a>`)
	img := Find(doc, "img")
	if p := FindParent(img, "a"); p == nil || p.Data != "a" {
		t.Error("expected <a> ancestor")
	}
	if p := FindParent(img, "button"); p != nil {
		t.Error("expected no <button> ancestor")
	}
}

func TestResolveIDRefs(t *testing.T) {
	doc := parse(t, `
		<span id="first">Billing</span>
		<span id="second">address</span>
		<input aria-labelledby="first second missing">`)

	tests := []struct {
		refs string
		want string
	}{
		{"first second", "Billing address"},
		{"first second missing", "Billing address"},
		{"missing", ""},
		{"", ""},
		{"  first  ", "Billing"},
	}
	for _, tt := range tests {
		if got := ResolveIDRefs(doc, tt.refs); got != tt.want {
			t.Errorf("ResolveIDRefs(%q) = %q, want %q", tt.refs, got, tt.want)
		}
	}
}

func TestClean(t *testing.T) {
	tests := []struct{ in, want string }{
		{"  a  b  ", "a b"},
		{"a\n\tb", "a b"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := Clean(tt.in); got != tt.want {
			t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
