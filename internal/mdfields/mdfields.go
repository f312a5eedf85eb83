// Package mdfields gives Markdown pages the same editable-field surface as
// template markup. Goldmark's AST records the byte segment of every text
// node, so extraction reuses the offset-based Field model directly and
// patching goes through the shared splice pipeline.
package mdfields

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gtext "github.com/yuin/goldmark/text"

	"github.com/smerrill5/pagedit/internal/fields"
	"github.com/smerrill5/pagedit/internal/textspan"
)

// Extract returns the editable text spans of markdown source in document
// order. Code blocks, code spans, and raw HTML are skip regions; headings
// act as section landmarks the way landmark elements do in markup.
func Extract(source string) ([]fields.Field, error) {
	src := []byte(source)
	doc := goldmark.New().Parser().Parse(gtext.NewReader(src))

	var out []fields.Field
	skip := 0
	group := ""
	headings := make(map[string]int) // per-call landmark counters

	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.CodeSpan, *ast.HTMLBlock, *ast.RawHTML:
			if entering {
				skip++
			} else {
				skip--
			}
		case *ast.Heading:
			if entering {
				key := fmt.Sprintf("h%d", node.Level)
				headings[key]++
				if c := headings[key]; c == 1 {
					group = key
				} else {
					group = fmt.Sprintf("%s:%d", key, c)
				}
			}
		case *ast.Text:
			if !entering || skip > 0 {
				break
			}
			seg := node.Segment
			value := string(src[seg.Start:seg.Stop])
			if strings.TrimSpace(value) == "" {
				break
			}
			out = append(out, fields.Field{
				ID:        fields.TextID(seg.Start),
				Label:     blockLabel(n),
				Value:     value,
				Kind:      fields.KindText,
				Offset:    seg.Start,
				Length:    seg.Stop - seg.Start,
				Multiline: fields.IsMultiline(value),
				Group:     group,
			})
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk markdown: %w", err)
	}
	return out, nil
}

// ApplyEdits rewrites markdown source with every resolvable edit applied,
// re-extracting fields from the source as given. Unresolvable edits drop
// silently, matching the markup applier.
func ApplyEdits(source string, edits []fields.Edit) (string, error) {
	fresh, err := Extract(source)
	if err != nil {
		return "", err
	}
	return textspan.Apply(source, fields.ResolveEdits(source, fresh, edits)), nil
}

// blockLabel names a text span by its closest interesting ancestor.
func blockLabel(n ast.Node) string {
	for a := n.Parent(); a != nil; a = a.Parent() {
		switch a.(type) {
		case *ast.Image:
			return "image alt"
		case *ast.Link:
			return "link text"
		case *ast.Heading:
			return "heading text"
		case *ast.TextBlock, *ast.Paragraph:
			// Tight list items and blockquotes wrap their text in a
			// paragraph or text block; name them by the outer container.
			switch a.Parent().(type) {
			case *ast.ListItem:
				return "list item text"
			case *ast.Blockquote:
				return "blockquote text"
			}
			return "paragraph text"
		}
	}
	return "text"
}
