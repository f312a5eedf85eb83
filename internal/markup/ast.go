// Package markup parses component-template markup (HTML-style elements,
// capitalized components, {…} expressions, frontmatter fences) into an AST
// whose every node records its byte offset in the original source. Offsets
// are what downstream consumers patch against, so the parser never decodes
// entities or otherwise rewrites text: a Text node's Value is always the
// exact source substring at its offset.
package markup

// Node is the closed variant set of document nodes.
type Node interface {
	// Pos returns the node's byte offset into the original source.
	Pos() int
	node()
}

// Document is the root of a parsed page.
type Document struct {
	// Frontmatter is non-nil when the page opens with a --- code fence.
	Frontmatter *Frontmatter
	Children    []Node
}

// Element is a lowercase markup tag like <h2> or <img>.
type Element struct {
	Name        string
	Attrs       []Attr
	Children    []Node
	Offset      int // offset of the opening '<'
	SelfClosing bool
}

// Component is a capitalized (or dotted) template component like <Hero>.
type Component struct {
	Name        string
	Attrs       []Attr
	Children    []Node
	Offset      int
	SelfClosing bool
}

// Text is a run of literal character data. Value is the raw source
// substring: no entity decoding, no whitespace normalization.
type Text struct {
	Value  string
	Offset int
}

// Expression is an opaque {…} dynamic region. Its content is never editable.
type Expression struct {
	Offset int
	End    int // offset one past the closing brace
}

// Frontmatter is the opaque ---…--- code fence at the top of a page.
type Frontmatter struct {
	Offset int
	End    int // offset one past the closing fence
}

// Attr is one attribute (or component prop) of an opening tag.
type Attr struct {
	Name    string
	Value   string // raw value without quotes; empty for dynamic or bare attrs
	NamePos int    // byte offset of the attribute name
	Quoted  bool   // value was a quoted literal
	Dynamic bool   // value was a {…} expression
}

func (d *Document) Pos() int    { return 0 }
func (e *Element) Pos() int     { return e.Offset }
func (c *Component) Pos() int   { return c.Offset }
func (t *Text) Pos() int        { return t.Offset }
func (x *Expression) Pos() int  { return x.Offset }
func (f *Frontmatter) Pos() int { return f.Offset }

func (*Document) node()    {}
func (*Element) node()     {}
func (*Component) node()   {}
func (*Text) node()        {}
func (*Expression) node()  {}
func (*Frontmatter) node() {}
