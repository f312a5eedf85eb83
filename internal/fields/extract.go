package fields

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/smerrill5/pagedit/internal/markup"
	"github.com/smerrill5/pagedit/internal/textspan"
)

// tagScanWindow bounds the opening-tag scan; an element with an attribute
// list longer than this loses attribute and phantom fields rather than
// risking a bad offset.
const tagScanWindow = 2000

// skipElements and their descendants are never editable.
var skipElements = map[string]bool{
	"script": true, "style": true, "head": true, "code": true, "pre": true,
}

// contentTags are elements whose text content editors expect to edit
// directly; empty ones get a phantom insertion field.
var contentTags = map[string]bool{
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"p": true, "a": true, "button": true, "label": true, "span": true,
	"li": true, "td": true, "th": true, "caption": true, "blockquote": true,
	"dt": true, "dd": true,
}

// landmarkTags delimit page sections for grouping.
var landmarkTags = map[string]bool{
	"header": true, "section": true, "footer": true, "nav": true,
	"main": true, "article": true, "aside": true,
}

// elementAttrs is the attribute allow-list for plain elements.
var elementAttrs = map[string]bool{
	"alt": true, "title": true, "placeholder": true,
	"aria-label": true, "aria-description": true,
}

// componentProps is the prop-name allow-list for components.
var componentProps = map[string]bool{
	"title": true, "subtitle": true, "heading": true, "description": true,
	"label": true, "text": true, "cta": true, "alt": true, "placeholder": true,
}

// Extract parses source and returns its editable fields in document
// traversal order. The only error condition is an unparsable document;
// per-field anomalies are silently dropped.
func Extract(source string) ([]Field, error) {
	doc, err := markup.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("extract fields: %w", err)
	}
	return ExtractDoc(doc, source), nil
}

// ExtractDoc walks an already parsed document. The landmark occurrence
// counters live on the walker, so concurrent extractions never share
// state.
func ExtractDoc(doc *markup.Document, source string) []Field {
	w := &walker{src: source, landmarks: make(map[string]int)}
	w.children(doc.Children, scope{})
	return w.fields
}

// scope is the traversal state inherited from the enclosing element.
type scope struct {
	skip        bool
	group       string
	parentTag   string // enclosing element or component name, "" at top level
	parentOwned bool   // parent is a content-bearing element
}

type walker struct {
	src       string
	fields    []Field
	landmarks map[string]int // per-call landmark occurrence counters
}

// children visits a sibling list and returns how many text fields its
// direct Text children produced.
func (w *walker) children(nodes []markup.Node, sc scope) int {
	structural := false
	for _, n := range nodes {
		switch n.(type) {
		case *markup.Element, *markup.Component, *markup.Expression:
			structural = true
		}
	}

	textFields := 0
	for _, n := range nodes {
		switch node := n.(type) {
		case *markup.Text:
			if w.text(node, sc, structural) {
				textFields++
			}
		case *markup.Element:
			w.element(node, sc)
		case *markup.Component:
			w.component(node, sc)
		case *markup.Expression, *markup.Frontmatter:
			// Opaque, never editable.
		}
	}
	return textFields
}

func (w *walker) text(node *markup.Text, sc scope, hasStructuralSiblings bool) bool {
	if sc.skip {
		return false
	}
	if strings.TrimSpace(node.Value) == "" {
		// Whitespace is editable only when it is the sole content of a
		// content-bearing element; otherwise it is indentation.
		if hasStructuralSiblings || !sc.parentOwned {
			return false
		}
	}
	// Defend against stale position data: the bytes at the recorded
	// offset must decode to exactly the node's text.
	if !textspan.SliceEquals(w.src, node.Offset, node.Value) {
		return false
	}

	label := "text"
	if sc.parentTag != "" {
		label = fmt.Sprintf("<%s> text", sc.parentTag)
	}
	w.fields = append(w.fields, Field{
		ID:        TextID(node.Offset),
		Label:     label,
		Value:     node.Value,
		Kind:      KindText,
		Offset:    node.Offset,
		Length:    len(node.Value),
		Multiline: IsMultiline(node.Value),
		Group:     sc.group,
	})
	return true
}

func (w *walker) element(el *markup.Element, sc scope) {
	skip := sc.skip || skipElements[el.Name]
	group := sc.group
	if landmarkTags[el.Name] {
		w.landmarks[el.Name]++
		if n := w.landmarks[el.Name]; n == 1 {
			group = el.Name
		} else {
			group = fmt.Sprintf("%s:%d", el.Name, n)
		}
	}

	if !skip {
		w.attrs(el.Name, el.Attrs, el.Offset, elementAttrs, group)
	}

	childScope := scope{
		skip:        skip,
		group:       group,
		parentTag:   el.Name,
		parentOwned: contentTags[el.Name],
	}
	textFields := w.children(el.Children, childScope)

	// Phantom field: give editors an insertion point inside an empty
	// content element.
	if !skip && !el.SelfClosing && contentTags[el.Name] &&
		len(el.Children) == 0 && textFields == 0 {
		if end := tagEnd(w.src, el.Offset); end >= 0 {
			w.fields = append(w.fields, Field{
				ID:     TextID(end),
				Label:  fmt.Sprintf("<%s> text", el.Name),
				Kind:   KindText,
				Offset: end,
				Group:  group,
			})
		}
	}
}

func (w *walker) component(c *markup.Component, sc scope) {
	if !sc.skip {
		w.attrs(c.Name, c.Attrs, c.Offset, componentProps, sc.group)
	}
	w.children(c.Children, scope{
		skip:      sc.skip,
		group:     sc.group,
		parentTag: c.Name,
	})
}

// attrs extracts allow-listed, literally quoted attribute values. The AST
// position points at the attribute name, so the value offset is located by
// scanning the opening tag for the name="…" pattern and verified against
// the recorded value before the field is kept.
func (w *walker) attrs(tag string, attrs []markup.Attr, elOffset int, allow map[string]bool, group string) {
	end := tagEnd(w.src, elOffset)
	if end < 0 {
		return
	}
	for _, a := range attrs {
		if !allow[a.Name] || !a.Quoted {
			continue
		}
		if len(strings.TrimSpace(a.Value)) < 2 {
			continue
		}
		valOffset := findAttrValue(w.src, a.Name, a.NamePos, end)
		if valOffset < 0 {
			continue
		}
		if !textspan.SliceEquals(w.src, valOffset, a.Value) {
			continue
		}
		w.fields = append(w.fields, Field{
			ID:        AttrID(valOffset, a.Name),
			Label:     fmt.Sprintf("<%s> %s", tag, a.Name),
			Value:     a.Value,
			Kind:      KindAttribute,
			Offset:    valOffset,
			Length:    len(a.Value),
			Multiline: IsMultiline(a.Value),
			Group:     group,
		})
	}
}

// findAttrValue returns the byte offset just after the opening quote of
// name="…" or name='…', searching from the attribute name to the end of
// the opening tag. -1 when the pattern is absent.
func findAttrValue(source, name string, from, end int) int {
	if from < 0 || from > end || end > len(source) {
		return -1
	}
	window := source[from:end]
	for _, quote := range []string{`="`, `='`} {
		if i := strings.Index(window, name+quote); i >= 0 {
			return from + i + len(name) + len(quote)
		}
	}
	return -1
}

// tagEnd returns the byte offset immediately after the '>' that closes the
// opening tag starting at start, skipping quoted strings and balanced {…}
// regions. -1 when no closing '>' appears within the scan window.
func tagEnd(source string, start int) int {
	end := start + tagScanWindow
	if end > len(source) {
		end = len(source)
	}
	var quote byte
	depth := 0
	for i := start; i < end; i++ {
		c := source[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '{':
			depth++
		case c == '}':
			if depth > 0 {
				depth--
			}
		case c == '>' && depth == 0:
			return i + 1
		}
	}
	return -1
}

// IsMultiline is a rendering hint: long or newline-bearing values get a
// textarea instead of a single-line input.
func IsMultiline(value string) bool {
	return utf8.RuneCountInString(value) > 80 || strings.Contains(value, "\n")
}
