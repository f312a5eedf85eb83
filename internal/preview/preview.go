// Package preview derives a title and short excerpt for the page listing.
package preview

import (
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gtext "github.com/yuin/goldmark/text"
	"golang.org/x/net/html"
)

const excerptRunes = 200

// Page is what the listing shows for one document.
type Page struct {
	Title   string `json:"title,omitempty"`
	Excerpt string `json:"excerpt,omitempty"`
}

// Markup previews template markup. The frontmatter fence is stripped first
// so the HTML parser only sees the page body; expressions degrade into
// plain text, which is acceptable for an excerpt.
func Markup(source string) (Page, error) {
	doc, err := html.Parse(strings.NewReader(stripFrontmatter(source)))
	if err != nil {
		return Page{}, err
	}

	p := Page{}
	if t := findFirst(doc, "title"); t != nil {
		p.Title = textContent(t)
	}
	if p.Title == "" {
		if h := findFirst(doc, "h1"); h != nil {
			p.Title = textContent(h)
		}
	}

	body := findFirst(doc, "body")
	if body == nil {
		body = doc
	}
	p.Excerpt = clip(bodyText(body))
	return p, nil
}

// Markdown previews a markdown page: first heading as the title, first
// paragraph as the excerpt.
func Markdown(source string) Page {
	src := []byte(source)
	doc := goldmark.New().Parser().Parse(gtext.NewReader(src))

	p := Page{}
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			if p.Title == "" {
				p.Title = string(node.Text(src))
			}
		case *ast.Paragraph:
			if p.Excerpt == "" {
				p.Excerpt = clip(string(node.Text(src)))
			}
		}
		if p.Title != "" && p.Excerpt != "" {
			break
		}
	}
	return p
}

func stripFrontmatter(source string) string {
	if !strings.HasPrefix(source, "---") {
		return source
	}
	rest := source[3:]
	i := strings.Index(rest, "\n---")
	if i < 0 {
		return source
	}
	return rest[i+len("\n---"):]
}

// findFirst returns the first element with the given tag, depth first.
func findFirst(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// textContent collects the text beneath a node.
func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

// bodyText collects readable text, skipping non-content elements.
func bodyText(n *html.Node) string {
	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "head", "title":
				return
			}
		}
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
			buf.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return buf.String()
}

// clip collapses whitespace and bounds the excerpt length in runes.
func clip(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= excerptRunes {
		return s
	}
	runes := []rune(s)
	return string(runes[:excerptRunes]) + "…"
}
