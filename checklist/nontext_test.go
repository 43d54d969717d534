package checklist

import (
	"reflect"
	"testing"
)

func TestAltFlags(t *testing.T) {
	tests := []struct {
		alt  string
		want []string
	}{
		{"A red barn at sunset", []string{}},
		{"DSC_0042.jpg", []string{"looks_like_filename"}},
		{"Image of a cat", []string{"redundant_phrase"}},
		{"photo of hero-banner.png", []string{"looks_like_filename", "redundant_phrase"}},
		{"", []string{}},
	}
	for _, tt := range tests {
		if got := AltFlags(tt.alt); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("AltFlags(%q) = %v, want %v", tt.alt, got, tt.want)
		}
	}

	long := make([]byte, altTooLong+1)
	for i := range long {
		long[i] = 'a'
	}
	if got := AltFlags(string(long)); len(got) != 1 || got[0] != "too_long" {
		t.Errorf("AltFlags(long) = %v", got)
	}
}

func TestImagePartitionCategories(t *testing.T) {
	doc := parse(t, `
		<img src="/img/barn.png" alt="A red barn">
		<img src="/img/spacer.gif" alt="">
		<a href="/home"><img src="/img/logo.png" alt="Acme home"></a>
		<button aria-label="Search"><img src="/img/lens.png" alt=""></button>
		<img src="/img/sales-chart-q3.png" alt="Q3 sales" aria-describedby="chart-note">
		<p id="chart-note">Sales rose 12 percent.</p>`)

	p := ExtractNontext(doc)

	if len(p.Images.Informative) != 1 || p.Images.Informative[0].Src != "barn.png" {
		t.Errorf("informative = %+v", p.Images.Informative)
	}
	if len(p.Images.Decorative) != 1 || p.Images.Decorative[0].Src != "spacer.gif" {
		t.Errorf("decorative = %+v", p.Images.Decorative)
	}
	if len(p.Images.Actionable) != 2 {
		t.Fatalf("actionable = %+v", p.Images.Actionable)
	}
	link := p.Images.Actionable[0]
	if link.Context != "in_link" || link.LinkHref == nil || *link.LinkHref != "/home" {
		t.Errorf("linked image = %+v", link)
	}
	btn := p.Images.Actionable[1]
	if btn.Context != "in_button" || btn.ButtonAriaLabel == nil || *btn.ButtonAriaLabel != "Search" {
		t.Errorf("button image = %+v", btn)
	}
	if len(p.Images.Complex) != 1 {
		t.Fatalf("complex = %+v", p.Images.Complex)
	}
	cx := p.Images.Complex[0]
	if cx.AriaDescribedbyText == nil || *cx.AriaDescribedbyText != "Sales rose 12 percent." {
		t.Errorf("complex describedby = %+v", cx)
	}
}

// A linked image with no alt attribute belongs to the missing-alt rule and
// must not surface in any partition category.
func TestImageWithoutAltExcluded(t *testing.T) {
	doc := parse(t, `<a href="/"><img src="logo.png"></a>`)

	p := ExtractNontext(doc)

	total := len(p.Images.Informative) + len(p.Images.Decorative) +
		len(p.Images.Actionable) + len(p.Images.Complex)
	if total != 0 {
		t.Errorf("alt-less image leaked into the partition: %+v", p.Images)
	}
}

// Every image carrying an alt attribute lands in exactly one category.
func TestImagePartitionExhaustive(t *testing.T) {
	doc := parse(t, `
		<img src="a.png" alt="one">
		<img src="b.png" alt="">
		<a href="/x"><img src="c.png" alt=""></a>
		<img src="diagram-d.png" alt="">
		<img src="e.png">
		<img src="f.png" alt="six">`)

	p := ExtractNontext(doc)

	total := len(p.Images.Informative) + len(p.Images.Decorative) +
		len(p.Images.Actionable) + len(p.Images.Complex)
	if total != 5 {
		t.Errorf("partition total = %d, want 5 (one image has no alt attribute)", total)
	}

	seen := map[string]string{}
	record := func(category string, imgs []Image) {
		for _, img := range imgs {
			if prev, ok := seen[img.Src]; ok {
				t.Errorf("%s appears in both %s and %s", img.Src, prev, category)
			}
			seen[img.Src] = category
		}
	}
	record("informative", p.Images.Informative)
	record("decorative", p.Images.Decorative)
	record("actionable", p.Images.Actionable)
	record("complex", p.Images.Complex)
}

func TestSVGsSkipAriaHidden(t *testing.T) {
	doc := parse(t, `
		<svg aria-hidden="true"><title>Hidden</title></svg>
		<svg role="img" aria-label="Download"><title>Download icon</title><desc>An arrow.</desc></svg>`)

	p := ExtractNontext(doc)

	if len(p.SVGs) != 1 {
		t.Fatalf("svgs = %+v", p.SVGs)
	}
	s := p.SVGs[0]
	if s.Role == nil || *s.Role != "img" {
		t.Errorf("role = %v", s.Role)
	}
	if s.Title == nil || *s.Title != "Download icon" {
		t.Errorf("title = %v", s.Title)
	}
	if s.Desc == nil || *s.Desc != "An arrow." {
		t.Errorf("desc = %v", s.Desc)
	}
}

func TestIconFonts(t *testing.T) {
	doc := parse(t, `
		<a href="/cart"><i class="fa fa-shopping-cart" aria-hidden="true"></i></a>
		<span class="dashicons dashicons-menu"></span>
		<span class="fabulous">not an icon</span>
		<a href="/cart"><i class="fa fa-shopping-cart" aria-hidden="true"></i></a>
		<button><i class="fas fa-save"></i> Save</button>`)

	p := ExtractNontext(doc)

	if len(p.IconFonts) != 3 {
		t.Fatalf("icon_fonts = %+v", p.IconFonts)
	}
	cart := p.IconFonts[0]
	if !cart.AriaHidden || !cart.SoleContent {
		t.Errorf("cart icon = %+v", cart)
	}
	if p.IconFonts[1].Classes != "dashicons dashicons-menu" {
		t.Errorf("dashicons entry = %+v", p.IconFonts[1])
	}
	save := p.IconFonts[2]
	if save.SoleContent {
		t.Errorf("save icon has sibling text, sole_content should be false: %+v", save)
	}
	if save.SiblingText == nil || *save.SiblingText != "Save" {
		t.Errorf("save sibling_text = %v", save.SiblingText)
	}
}

func TestMedia(t *testing.T) {
	doc := parse(t, `
		<video controls>
			<source src="https://cdn.example.com/intro.mp4">
			<track kind="captions" label="English" srclang="en">
		</video>
		<video src="bare.mp4" autoplay></video>
		<audio controls aria-label="Episode 4"></audio>`)

	p := ExtractNontext(doc)

	if len(p.Media) != 3 {
		t.Fatalf("media = %+v", p.Media)
	}
	v := p.Media[0]
	if v.Type != "video" || !v.HasControls || v.Autoplay {
		t.Errorf("video[0] = %+v", v)
	}
	if v.Src == nil || *v.Src != "https://cdn.example.com/intro.mp4" {
		t.Errorf("video[0] src = %v", v.Src)
	}
	if len(v.Tracks) != 1 || v.Tracks[0].Kind != "captions" || v.Tracks[0].Srclang != "en" {
		t.Errorf("video[0] tracks = %+v", v.Tracks)
	}
	if p.Media[1].HasControls || !p.Media[1].Autoplay || len(p.Media[1].Tracks) != 0 {
		t.Errorf("video[1] = %+v", p.Media[1])
	}
	a := p.Media[2]
	if a.Type != "audio" || a.AriaLabel == nil || *a.AriaLabel != "Episode 4" {
		t.Errorf("audio = %+v", a)
	}
}

func TestExtractNontextIdempotent(t *testing.T) {
	doc := parse(t, `
		<a href="/"><img src="x.png" alt=""></a>
		<svg role="img"></svg>
		<i class="fa fa-star"></i>
		<audio controls></audio>`)

	first := ExtractNontext(doc)
	second := ExtractNontext(doc)
	if !reflect.DeepEqual(first, second) {
		t.Error("re-running the extractor on an unmodified tree changed the payload")
	}
}
