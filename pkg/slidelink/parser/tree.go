package parser

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// NodeKind is the type of a tree node.
type NodeKind uint8

const (
	ElementNode NodeKind = iota
	TextNode
	CommentNode
	ProcInstNode
	DirectiveNode
)

// Name is an XML name with its raw prefix. Prefixes are kept as written so
// serialization reproduces the source namespaces exactly.
type Name struct {
	Space string
	Local string
}

// ParseName splits "p:sp" into prefix and local part.
func ParseName(qname string) Name {
	if prefix, local, ok := strings.Cut(qname, ":"); ok {
		return Name{Space: prefix, Local: local}
	}
	return Name{Local: qname}
}

func (n Name) String() string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

// Attr is one attribute.
type Attr struct {
	Name  Name
	Value string
}

// Node is one record in the document arena.
type Node struct {
	Kind  NodeKind
	Name  Name
	Attrs []Attr
	// Text holds character data, comment text, directive text or the
	// processing instruction body.
	Text string
	// Target is the processing instruction target.
	Target   string
	Parent   int
	Children []int
}

// Document is an immutable XML tree stored as a flat arena of nodes that
// reference each other by index. Edits produce a new Document via Apply.
type Document struct {
	nodes []Node
	roots []int
}

// ErrMalformed is returned when the markup is not well formed.
var ErrMalformed = errors.New("malformed xml")

// Parse builds a Document from raw markup.
func Parse(data []byte) (*Document, error) {
	d := &Document{}
	decoder := xml.NewDecoder(bytes.NewReader(data))
	var stack []int

	add := func(n Node) int {
		idx := len(d.nodes)
		if len(stack) > 0 {
			parent := stack[len(stack)-1]
			n.Parent = parent
			d.nodes = append(d.nodes, n)
			d.nodes[parent].Children = append(d.nodes[parent].Children, idx)
		} else {
			n.Parent = -1
			d.nodes = append(d.nodes, n)
			d.roots = append(d.roots, idx)
		}
		return idx
	}

	for {
		token, err := decoder.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			n := Node{Kind: ElementNode, Name: Name{Space: t.Name.Space, Local: t.Name.Local}}
			for _, a := range t.Attr {
				n.Attrs = append(n.Attrs, Attr{Name: Name{Space: a.Name.Space, Local: a.Name.Local}, Value: a.Value})
			}
			stack = append(stack, add(n))
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("%w: unexpected end element %s", ErrMalformed, t.Name.Local)
			}
			top := d.nodes[stack[len(stack)-1]]
			if top.Name.Space != t.Name.Space || top.Name.Local != t.Name.Local {
				return nil, fmt.Errorf("%w: element %s closed by %s", ErrMalformed, top.Name, Name{Space: t.Name.Space, Local: t.Name.Local})
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			add(Node{Kind: TextNode, Text: string(t)})
		case xml.Comment:
			add(Node{Kind: CommentNode, Text: string(t)})
		case xml.ProcInst:
			add(Node{Kind: ProcInstNode, Target: t.Target, Text: string(t.Inst)})
		case xml.Directive:
			add(Node{Kind: DirectiveNode, Text: string(t)})
		}
	}

	if len(stack) > 0 {
		return nil, fmt.Errorf("%w: unclosed element %s", ErrMalformed, d.nodes[stack[len(stack)-1]].Name)
	}
	if d.Root() < 0 {
		return nil, fmt.Errorf("%w: no root element", ErrMalformed)
	}
	return d, nil
}

// Len returns the number of nodes in the arena.
func (d *Document) Len() int {
	return len(d.nodes)
}

// Node returns the node at index i.
func (d *Document) Node(i int) Node {
	return d.nodes[i]
}

// Root returns the index of the document element, or -1.
func (d *Document) Root() int {
	for _, r := range d.roots {
		if d.nodes[r].Kind == ElementNode {
			return r
		}
	}
	return -1
}

// Parent returns the parent index of node i, or -1 for top-level nodes.
func (d *Document) Parent(i int) int {
	return d.nodes[i].Parent
}

// IsElement reports whether node i is an element named local (any prefix).
func (d *Document) IsElement(i int, local string) bool {
	n := d.nodes[i]
	return n.Kind == ElementNode && n.Name.Local == local
}

// Elements returns the element children of node i.
func (d *Document) Elements(i int) []int {
	var out []int
	for _, c := range d.nodes[i].Children {
		if d.nodes[c].Kind == ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// FirstChild returns the first element child of i with the given local name, or -1.
func (d *Document) FirstChild(i int, local string) int {
	if i < 0 {
		return -1
	}
	for _, c := range d.nodes[i].Children {
		if d.IsElement(c, local) {
			return c
		}
	}
	return -1
}

// Path descends from i through element children with the given local names.
// It returns -1 when any step is missing.
func (d *Document) Path(i int, locals ...string) int {
	for _, l := range locals {
		i = d.FirstChild(i, l)
		if i < 0 {
			return -1
		}
	}
	return i
}

// Find returns the first descendant of i (pre-order, excluding i) with the
// given local name, or -1.
func (d *Document) Find(i int, local string) int {
	if i < 0 {
		return -1
	}
	for _, c := range d.nodes[i].Children {
		if d.IsElement(c, local) {
			return c
		}
		if found := d.Find(c, local); found >= 0 {
			return found
		}
	}
	return -1
}

// FindAll returns every descendant of i with the given local name in pre-order.
func (d *Document) FindAll(i int, local string) []int {
	var out []int
	var walk func(int)
	walk = func(n int) {
		for _, c := range d.nodes[n].Children {
			if d.IsElement(c, local) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	if i >= 0 {
		walk(i)
	}
	return out
}

// Attr returns the value of the attribute with the given local name.
// Namespace declarations are never matched.
func (d *Document) Attr(i int, local string) (string, bool) {
	if i < 0 {
		return "", false
	}
	for _, a := range d.nodes[i].Attrs {
		if a.Name.Local == local && a.Name.Space != "xmlns" {
			return a.Value, true
		}
	}
	return "", false
}

// Text returns the concatenated character data below node i.
func (d *Document) Text(i int) string {
	var b strings.Builder
	var walk func(int)
	walk = func(n int) {
		node := d.nodes[n]
		if node.Kind == TextNode {
			b.WriteString(node.Text)
			return
		}
		for _, c := range node.Children {
			walk(c)
		}
	}
	walk(i)
	return b.String()
}

// PrefixFor returns the prefix bound to namespace uri on the document
// element. The second result is false when the namespace is not declared
// there; a default namespace declaration yields the empty prefix.
func (d *Document) PrefixFor(uri string) (string, bool) {
	root := d.Root()
	if root < 0 {
		return "", false
	}
	for _, a := range d.nodes[root].Attrs {
		if a.Value != uri {
			continue
		}
		if a.Name.Space == "xmlns" {
			return a.Name.Local, true
		}
		if a.Name.Space == "" && a.Name.Local == "xmlns" {
			return "", true
		}
	}
	return "", false
}

// Extract copies the subtree rooted at i into a detached Element.
func (d *Document) Extract(i int) *Element {
	n := d.nodes[i]
	e := &Element{Kind: n.Kind, Name: n.Name, Text: n.Text, Target: n.Target}
	if len(n.Attrs) > 0 {
		e.Attrs = append([]Attr(nil), n.Attrs...)
	}
	for _, c := range n.Children {
		e.Children = append(e.Children, d.Extract(c))
	}
	return e
}

// Serialize writes the whole document as markup.
func (d *Document) Serialize() []byte {
	var buf bytes.Buffer
	for _, r := range d.roots {
		d.writeNode(&buf, r)
	}
	return buf.Bytes()
}

func (d *Document) writeNode(buf *bytes.Buffer, i int) {
	n := d.nodes[i]
	switch n.Kind {
	case TextNode:
		escapeText(buf, n.Text)
	case CommentNode:
		buf.WriteString("<!--")
		buf.WriteString(n.Text)
		buf.WriteString("-->")
	case ProcInstNode:
		buf.WriteString("<?")
		buf.WriteString(n.Target)
		if n.Text != "" {
			buf.WriteByte(' ')
			buf.WriteString(n.Text)
		}
		buf.WriteString("?>")
	case DirectiveNode:
		buf.WriteString("<!")
		buf.WriteString(n.Text)
		buf.WriteByte('>')
	case ElementNode:
		writeStart(buf, n.Name, n.Attrs)
		if len(n.Children) == 0 {
			buf.WriteString("/>")
			return
		}
		buf.WriteByte('>')
		for _, c := range n.Children {
			d.writeNode(buf, c)
		}
		writeEnd(buf, n.Name)
	}
}

func writeStart(buf *bytes.Buffer, name Name, attrs []Attr) {
	buf.WriteByte('<')
	buf.WriteString(name.String())
	for _, a := range attrs {
		buf.WriteByte(' ')
		buf.WriteString(a.Name.String())
		buf.WriteString(`="`)
		escapeAttr(buf, a.Value)
		buf.WriteByte('"')
	}
}

func writeEnd(buf *bytes.Buffer, name Name) {
	buf.WriteString("</")
	buf.WriteString(name.String())
	buf.WriteByte('>')
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", "\r", "&#xD;")
	attrEscaper = strings.NewReplacer(
		"&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;",
		"\n", "&#xA;", "\r", "&#xD;", "\t", "&#x9;",
	)
)

func escapeText(buf *bytes.Buffer, s string) {
	textEscaper.WriteString(buf, s)
}

func escapeAttr(buf *bytes.Buffer, s string) {
	attrEscaper.WriteString(buf, s)
}
