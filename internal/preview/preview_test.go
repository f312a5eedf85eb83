package preview

import (
	"strings"
	"testing"
)

func TestMarkup_TitleAndExcerpt(t *testing.T) {
	src := `---
const x = 1;
---
<h1>About Us</h1>
<p>We build small tools for editors.</p>
<script>var hidden = "never";</script>`
	p, err := Markup(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Title != "About Us" {
		t.Errorf("expected title %q, got %q", "About Us", p.Title)
	}
	if !strings.Contains(p.Excerpt, "We build small tools") {
		t.Errorf("excerpt missing body text: %q", p.Excerpt)
	}
	if strings.Contains(p.Excerpt, "hidden") {
		t.Errorf("excerpt leaks script content: %q", p.Excerpt)
	}
}

func TestMarkup_TitleTagWins(t *testing.T) {
	src := `<html><head><title>Doc Title</title></head><body><h1>Heading</h1></body></html>`
	p, err := Markup(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Title != "Doc Title" {
		t.Errorf("expected %q, got %q", "Doc Title", p.Title)
	}
	if strings.Contains(p.Excerpt, "Doc Title") {
		t.Errorf("excerpt should not include the title tag: %q", p.Excerpt)
	}
}

func TestMarkup_ExcerptClipped(t *testing.T) {
	src := "<p>" + strings.Repeat("word ", 100) + "</p>"
	p, err := Markup(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len([]rune(p.Excerpt)) > 201 {
		t.Errorf("excerpt too long: %d runes", len([]rune(p.Excerpt)))
	}
	if !strings.HasSuffix(p.Excerpt, "…") {
		t.Errorf("expected clipped excerpt, got %q", p.Excerpt)
	}
}

func TestMarkdown_FirstHeadingAndParagraph(t *testing.T) {
	src := "# Getting Started\n\nInstall the thing first.\n\n## Later\n\nMore.\n"
	p := Markdown(src)
	if p.Title != "Getting Started" {
		t.Errorf("expected title %q, got %q", "Getting Started", p.Title)
	}
	if p.Excerpt != "Install the thing first." {
		t.Errorf("expected excerpt %q, got %q", "Install the thing first.", p.Excerpt)
	}
}
