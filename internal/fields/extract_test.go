package fields

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExtract_Deterministic(t *testing.T) {
	src := `---
const title = "Home";
---
<main>
  <h1>Welcome</h1>
  <p>Intro with café 🎉 inside.</p>
  <img alt="A cat" src={dynamicUrl} />
</main>`
	first, err := Extract(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Extract(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("extraction not deterministic (-first +second):\n%s", diff)
	}
}

func TestExtract_ByteExactValues(t *testing.T) {
	src := `<main><p>café 🎉</p><img alt="naïve café" title="Déjà vu"></main>`
	fs, err := Extract(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fs) == 0 {
		t.Fatal("expected fields")
	}
	for _, f := range fs {
		if got := src[f.Offset : f.Offset+f.Length]; got != f.Value {
			t.Errorf("field %s: bytes at [%d,%d) = %q, value = %q",
				f.ID, f.Offset, f.Offset+f.Length, got, f.Value)
		}
	}
}

func TestExtract_WhitespaceSuppression(t *testing.T) {
	src := "<div>\n  <p>Hi</p>\n</div>"
	fs, err := Extract(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fs) != 1 {
		t.Fatalf("expected 1 field, got %d: %+v", len(fs), fs)
	}
	f := fs[0]
	if f.Value != "Hi" || f.Kind != KindText {
		t.Errorf("unexpected field: %+v", f)
	}
	if f.Label != "<p> text" {
		t.Errorf("expected label %q, got %q", "<p> text", f.Label)
	}
	if f.Offset != 11 || f.Length != 2 {
		t.Errorf("expected span [11,13), got [%d,%d)", f.Offset, f.Offset+f.Length)
	}
}

func TestExtract_WhitespaceSoleContentKept(t *testing.T) {
	// Whitespace as the only content of a content-bearing element is an
	// editable (still-blank) span; the same inside a div is indentation.
	fs, err := Extract(`<p>   </p>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fs) != 1 || fs[0].Value != "   " {
		t.Fatalf("expected the whitespace field, got %+v", fs)
	}

	fs, err = Extract(`<div>   </div>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fs) != 0 {
		t.Fatalf("expected no fields for div whitespace, got %+v", fs)
	}
}

func TestExtract_PhantomField(t *testing.T) {
	src := `<h2></h2>`
	fs, err := Extract(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fs) != 1 {
		t.Fatalf("expected exactly 1 field, got %d: %+v", len(fs), fs)
	}
	f := fs[0]
	if f.Kind != KindText || f.Value != "" || f.Length != 0 {
		t.Errorf("expected empty text field, got %+v", f)
	}
	if f.Offset != len("<h2>") {
		t.Errorf("expected offset %d (after the opening tag), got %d", len("<h2>"), f.Offset)
	}
	if f.Label != "<h2> text" {
		t.Errorf("expected label %q, got %q", "<h2> text", f.Label)
	}
}

func TestExtract_NoPhantomForNonContentOrFilledElements(t *testing.T) {
	fs, err := Extract(`<div></div><h2>Filled</h2><p>{expr}</p>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// div is not content-bearing, the h2 already has text, and the p has
	// an expression child: only the h2 text should be extracted.
	if len(fs) != 1 || fs[0].Value != "Filled" {
		t.Fatalf("expected only the h2 text, got %+v", fs)
	}
}

func TestExtract_AttributeFiltering(t *testing.T) {
	src := `<img alt="A cat" src={dynamicUrl} />`
	fs, err := Extract(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fs) != 1 {
		t.Fatalf("expected exactly 1 field, got %d: %+v", len(fs), fs)
	}
	f := fs[0]
	if f.Kind != KindAttribute || f.Value != "A cat" {
		t.Errorf("unexpected field: %+v", f)
	}
	if f.Label != "<img> alt" {
		t.Errorf("expected label %q, got %q", "<img> alt", f.Label)
	}
	if f.Offset != len(`<img alt="`) {
		t.Errorf("expected offset %d, got %d", len(`<img alt="`), f.Offset)
	}
	if src[f.Offset:f.Offset+f.Length] != "A cat" {
		t.Errorf("offset does not point at the value")
	}
}

func TestExtract_AttributeMinLength(t *testing.T) {
	fs, err := Extract(`<img alt="A"><img alt=" b "><img alt="ok">`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fs) != 1 || fs[0].Value != "ok" {
		t.Fatalf("expected only the two-character alt, got %+v", fs)
	}
}

func TestExtract_AriaAttributes(t *testing.T) {
	src := `<button aria-label="Close dialog" title="Close"></button>`
	fs, err := Extract(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// aria-label, title, and the phantom text field for the empty button.
	byLabel := map[string]Field{}
	for _, f := range fs {
		byLabel[f.Label] = f
	}
	aria, ok := byLabel["<button> aria-label"]
	if !ok || aria.Value != "Close dialog" {
		t.Fatalf("missing aria-label field: %+v", fs)
	}
	if src[aria.Offset:aria.Offset+aria.Length] != "Close dialog" {
		t.Errorf("aria-label offset wrong")
	}
	if title, ok := byLabel["<button> title"]; !ok || title.Value != "Close" {
		t.Errorf("missing title field: %+v", fs)
	}
	if _, ok := byLabel["<button> text"]; !ok {
		t.Errorf("expected phantom text field for empty button: %+v", fs)
	}
}

func TestExtract_ComponentProps(t *testing.T) {
	src := `<Hero title="Launch" tagline="soon" items={list}>Body</Hero>`
	fs, err := Extract(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fs) != 2 {
		t.Fatalf("expected 2 fields, got %d: %+v", len(fs), fs)
	}
	title := fs[0]
	if title.Kind != KindAttribute || title.Value != "Launch" || title.Label != "<Hero> title" {
		t.Errorf("unexpected prop field: %+v", title)
	}
	if title.Offset != len(`<Hero title="`) {
		t.Errorf("expected offset %d, got %d", len(`<Hero title="`), title.Offset)
	}
	body := fs[1]
	if body.Kind != KindText || body.Value != "Body" || body.Label != "<Hero> text" {
		t.Errorf("unexpected text field: %+v", body)
	}
}

func TestExtract_SkipRegions(t *testing.T) {
	src := `---
const hidden = "not editable";
---
<script>const a = "nope";</script>
<style>.x { color: red }</style>
<pre>verbatim</pre>
<code>snippet</code>
<p>{expr}</p>
<p>Real</p>`
	fs, err := Extract(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fs) != 1 {
		t.Fatalf("expected 1 field, got %d: %+v", len(fs), fs)
	}
	if fs[0].Value != "Real" {
		t.Errorf("expected %q, got %q", "Real", fs[0].Value)
	}
}

func TestExtract_Grouping(t *testing.T) {
	src := `<section><p>One</p></section><section><p>Two</p></section><p>Loose</p>`
	fs, err := Extract(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fs) != 3 {
		t.Fatalf("expected 3 fields, got %d: %+v", len(fs), fs)
	}
	if fs[0].Group != "section" {
		t.Errorf("first section group = %q, want %q", fs[0].Group, "section")
	}
	if fs[1].Group != "section:2" {
		t.Errorf("second section group = %q, want %q", fs[1].Group, "section:2")
	}
	if fs[2].Group != "" {
		t.Errorf("loose field group = %q, want empty", fs[2].Group)
	}
}

func TestExtract_NestedLandmarkOverrides(t *testing.T) {
	src := `<header><p>Brand</p><nav><a>Home</a></nav><p>Tag</p></header>`
	fs, err := Extract(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]string{"Brand": "header", "Home": "nav", "Tag": "header"}
	for _, f := range fs {
		if g, ok := want[f.Value]; ok && f.Group != g {
			t.Errorf("field %q: group %q, want %q", f.Value, f.Group, g)
		}
	}
}

func TestExtract_GroupCountersPerCall(t *testing.T) {
	src := `<section><p>One</p></section>`
	for i := 0; i < 3; i++ {
		fs, err := Extract(src)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if fs[0].Group != "section" {
			t.Fatalf("call %d: group %q leaked state across calls", i, fs[0].Group)
		}
	}
}

func TestExtract_TraversalOrder(t *testing.T) {
	src := `<h1>First</h1><p>Second</p><img alt="Third"><p>Fourth</p>`
	fs, err := Extract(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var values []string
	for _, f := range fs {
		values = append(values, f.Value)
	}
	want := []string{"First", "Second", "Third", "Fourth"}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Errorf("fields out of document order (-want +got):\n%s", diff)
	}
}

func TestExtract_Multiline(t *testing.T) {
	long := strings.Repeat("é", 81)
	src := "<p>" + long + "</p><p>short</p><p>a\nb</p>"
	fs, err := Extract(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fs) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(fs))
	}
	if !fs[0].Multiline {
		t.Error("81-rune value should be multiline")
	}
	if fs[1].Multiline {
		t.Error("short value should not be multiline")
	}
	if !fs[2].Multiline {
		t.Error("newline-bearing value should be multiline")
	}
}

func TestExtract_MalformedIsError(t *testing.T) {
	if _, err := Extract(`<div><p>never closed`); err == nil {
		t.Fatal("expected error for malformed document")
	}
}
