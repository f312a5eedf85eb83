package markup

import (
	"fmt"
	"strings"
)

// voidElements never have children or a closing tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// rawTextElements swallow their content verbatim until the matching close.
var rawTextElements = map[string]bool{
	"script": true, "style": true,
}

// Parse parses page source into a Document. Mismatched closing tags are
// recovered from by implicitly closing open elements; constructs left
// unterminated at end of input (tags, quotes, expressions, frontmatter)
// are parse errors.
func Parse(source string) (*Document, error) {
	p := &parser{src: source}

	doc := &Document{}
	if strings.HasPrefix(p.src, "---") {
		fm, err := p.frontmatter()
		if err != nil {
			return nil, err
		}
		doc.Frontmatter = fm
	}

	for p.pos < len(p.src) {
		children, _, err := p.nodes(nil)
		if err != nil {
			return nil, err
		}
		doc.Children = append(doc.Children, children...)
	}
	return doc, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) errf(off int, format string, args ...any) error {
	return fmt.Errorf("markup: %s at byte %d", fmt.Sprintf(format, args...), off)
}

// frontmatter consumes the opening --- fence block. The caller has already
// verified the source starts with ---.
func (p *parser) frontmatter() (*Frontmatter, error) {
	rest := p.src[3:]
	i := strings.Index(rest, "\n---")
	if i < 0 {
		return nil, p.errf(0, "unterminated frontmatter fence")
	}
	end := 3 + i + len("\n---")
	p.pos = end
	return &Frontmatter{Offset: 0, End: end}, nil
}

// nodes parses siblings until end of input or a closing tag. open is the
// stack of enclosing tag names; closed reports whether the closing tag for
// the innermost open element was consumed.
func (p *parser) nodes(open []string) (children []Node, closed bool, err error) {
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '<' && p.pos+1 < len(p.src) {
			next := p.src[p.pos+1]
			switch {
			case strings.HasPrefix(p.src[p.pos:], "<!--"):
				if err := p.comment(); err != nil {
					return nil, false, err
				}
				continue
			case next == '/':
				name := p.peekCloseName()
				if len(open) > 0 && name == open[len(open)-1] {
					if err := p.consumeClose(); err != nil {
						return nil, false, err
					}
					return children, true, nil
				}
				if containsName(open, name) {
					// A close for an ancestor: implicitly close this
					// element and let the ancestor consume it.
					return children, false, nil
				}
				// Stray closing tag, drop it.
				if err := p.consumeClose(); err != nil {
					return nil, false, err
				}
				continue
			case next == '!':
				// Doctype or other declaration.
				if err := p.declaration(); err != nil {
					return nil, false, err
				}
				continue
			case isNameStart(next):
				n, err := p.tag(open)
				if err != nil {
					return nil, false, err
				}
				children = append(children, n)
				continue
			}
		}
		if c == '{' {
			x, err := p.expression()
			if err != nil {
				return nil, false, err
			}
			children = append(children, x)
			continue
		}
		children = append(children, p.text())
	}
	return children, false, nil
}

// tag parses one element or component starting at '<'.
func (p *parser) tag(open []string) (Node, error) {
	start := p.pos
	p.pos++
	name := p.name()

	var attrs []Attr
	selfClosing := false
	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			return nil, p.errf(start, "unterminated tag <%s>", name)
		}
		c := p.src[p.pos]
		if c == '>' {
			p.pos++
			break
		}
		if c == '/' && p.pos+1 < len(p.src) && p.src[p.pos+1] == '>' {
			p.pos += 2
			selfClosing = true
			break
		}
		if c == '{' {
			// Spread or shorthand prop, opaque.
			if _, err := p.expression(); err != nil {
				return nil, err
			}
			continue
		}
		a, err := p.attr()
		if err != nil {
			return nil, err
		}
		if a.Name != "" {
			attrs = append(attrs, a)
		}
	}

	comp := isComponentName(name)
	if selfClosing || (!comp && voidElements[name]) {
		if comp {
			return &Component{Name: name, Attrs: attrs, Offset: start, SelfClosing: selfClosing}, nil
		}
		return &Element{Name: name, Attrs: attrs, Offset: start, SelfClosing: selfClosing}, nil
	}

	if !comp && rawTextElements[name] {
		return p.rawText(start, name, attrs)
	}

	children, closed, err := p.nodes(append(open, name))
	if err != nil {
		return nil, err
	}
	if !closed && p.pos >= len(p.src) {
		return nil, p.errf(start, "unclosed <%s>", name)
	}
	if comp {
		return &Component{Name: name, Attrs: attrs, Children: children, Offset: start}, nil
	}
	return &Element{Name: name, Attrs: attrs, Children: children, Offset: start}, nil
}

// rawText consumes script/style content verbatim up to the closing tag.
func (p *parser) rawText(start int, name string, attrs []Attr) (Node, error) {
	contentStart := p.pos
	i := strings.Index(p.src[p.pos:], "</"+name)
	if i < 0 {
		return nil, p.errf(start, "unclosed <%s>", name)
	}
	var children []Node
	if i > 0 {
		children = []Node{&Text{Value: p.src[contentStart : contentStart+i], Offset: contentStart}}
	}
	p.pos = contentStart + i
	if err := p.consumeClose(); err != nil {
		return nil, err
	}
	return &Element{Name: name, Attrs: attrs, Children: children, Offset: start}, nil
}

// attr parses one attribute. A zero-Name Attr means an unparseable byte was
// skipped and the caller should continue.
func (p *parser) attr() (Attr, error) {
	namePos := p.pos
	start := p.pos
	for p.pos < len(p.src) && !isAttrNameEnd(p.src[p.pos]) {
		p.pos++
	}
	name := p.src[start:p.pos]
	if name == "" {
		p.pos++
		return Attr{}, nil
	}

	p.skipSpace()
	if p.pos >= len(p.src) || p.src[p.pos] != '=' {
		// Boolean attribute.
		return Attr{Name: name, NamePos: namePos}, nil
	}
	p.pos++
	p.skipSpace()
	if p.pos >= len(p.src) {
		return Attr{}, p.errf(namePos, "unterminated attribute %s", name)
	}

	switch c := p.src[p.pos]; c {
	case '"', '\'':
		p.pos++
		vstart := p.pos
		for p.pos < len(p.src) && p.src[p.pos] != c {
			p.pos++
		}
		if p.pos >= len(p.src) {
			return Attr{}, p.errf(vstart, "unterminated quoted value for %s", name)
		}
		val := p.src[vstart:p.pos]
		p.pos++
		return Attr{Name: name, Value: val, NamePos: namePos, Quoted: true}, nil
	case '{':
		if _, err := p.expression(); err != nil {
			return Attr{}, err
		}
		return Attr{Name: name, NamePos: namePos, Dynamic: true}, nil
	case '`':
		// Template-literal prop, dynamic.
		if err := p.skipString(); err != nil {
			return Attr{}, err
		}
		return Attr{Name: name, NamePos: namePos, Dynamic: true}, nil
	default:
		vstart := p.pos
		for p.pos < len(p.src) && !isBareValueEnd(p.src[p.pos]) {
			p.pos++
		}
		return Attr{Name: name, Value: p.src[vstart:p.pos], NamePos: namePos}, nil
	}
}

// expression consumes a balanced {…} region, skipping string literals so
// braces inside them do not affect nesting.
func (p *parser) expression() (*Expression, error) {
	start := p.pos
	depth := 0
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case '{':
			depth++
			p.pos++
		case '}':
			depth--
			p.pos++
			if depth == 0 {
				return &Expression{Offset: start, End: p.pos}, nil
			}
		case '"', '\'', '`':
			if err := p.skipString(); err != nil {
				return nil, err
			}
		default:
			p.pos++
		}
	}
	return nil, p.errf(start, "unterminated expression")
}

// skipString consumes a quoted string starting at the current byte,
// honoring backslash escapes.
func (p *parser) skipString() error {
	quote := p.src[p.pos]
	start := p.pos
	p.pos++
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case '\\':
			p.pos += 2
		case quote:
			p.pos++
			return nil
		default:
			p.pos++
		}
	}
	return p.errf(start, "unterminated string")
}

// text consumes a literal run up to the next tag, expression, or EOF. A '<'
// not followed by tag syntax is part of the text.
func (p *parser) text() *Text {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '{' {
			break
		}
		if c == '<' && p.pos+1 < len(p.src) {
			next := p.src[p.pos+1]
			if next == '/' || next == '!' || isNameStart(next) {
				break
			}
		}
		p.pos++
	}
	return &Text{Value: p.src[start:p.pos], Offset: start}
}

func (p *parser) comment() error {
	start := p.pos
	i := strings.Index(p.src[p.pos:], "-->")
	if i < 0 {
		return p.errf(start, "unterminated comment")
	}
	p.pos += i + len("-->")
	return nil
}

func (p *parser) declaration() error {
	start := p.pos
	i := strings.IndexByte(p.src[p.pos:], '>')
	if i < 0 {
		return p.errf(start, "unterminated declaration")
	}
	p.pos += i + 1
	return nil
}

// peekCloseName reads the tag name of a "</…" without consuming anything.
func (p *parser) peekCloseName() string {
	i := p.pos + 2
	start := i
	for i < len(p.src) && isNameByte(p.src[i]) {
		i++
	}
	return p.src[start:i]
}

// consumeClose consumes "</name …>".
func (p *parser) consumeClose() error {
	start := p.pos
	i := strings.IndexByte(p.src[p.pos:], '>')
	if i < 0 {
		return p.errf(start, "unterminated closing tag")
	}
	p.pos += i + 1
	return nil
}

func (p *parser) name() string {
	start := p.pos
	for p.pos < len(p.src) && isNameByte(p.src[p.pos]) {
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && isSpaceByte(p.src[p.pos]) {
		p.pos++
	}
}

func isComponentName(name string) bool {
	if name == "" {
		return false
	}
	c := name[0]
	return (c >= 'A' && c <= 'Z') || strings.ContainsRune(name, '.')
}

func containsName(open []string, name string) bool {
	for _, n := range open {
		if n == name {
			return true
		}
	}
	return false
}

func isNameStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameByte(c byte) bool {
	return isNameStart(c) || (c >= '0' && c <= '9') || c == '-' || c == '_' || c == '.' || c == ':'
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isAttrNameEnd(c byte) bool {
	return isSpaceByte(c) || c == '=' || c == '>' || c == '/' || c == '{' || c == '"' || c == '\''
}

func isBareValueEnd(c byte) bool {
	return isSpaceByte(c) || c == '>' || c == '/'
}
