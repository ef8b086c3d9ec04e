package parser

import (
	"sort"
	"strings"
)

// Element is a detached, mutable fragment used to build new markup or to
// restyle a copy of an existing subtree before it is spliced into a Document.
type Element struct {
	Kind     NodeKind
	Name     Name
	Attrs    []Attr
	Text     string
	Target   string
	Children []*Element
}

// E creates an element from a qualified name and alternating attribute
// name/value pairs.
func E(qname string, attrs ...string) *Element {
	e := &Element{Kind: ElementNode, Name: ParseName(qname)}
	for i := 0; i+1 < len(attrs); i += 2 {
		e.Attrs = append(e.Attrs, Attr{Name: ParseName(attrs[i]), Value: attrs[i+1]})
	}
	return e
}

// Add appends children and returns e. Nil children are ignored.
func (e *Element) Add(children ...*Element) *Element {
	for _, c := range children {
		if c != nil {
			e.Children = append(e.Children, c)
		}
	}
	return e
}

// Attr returns the attribute value with the given local name.
func (e *Element) Attr(local string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name.Local == local && a.Name.Space != "xmlns" {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets (or adds) an attribute by qualified name and returns e.
func (e *Element) SetAttr(qname, value string) *Element {
	name := ParseName(qname)
	for i, a := range e.Attrs {
		if a.Name.Local == name.Local && a.Name.Space == name.Space {
			e.Attrs[i].Value = value
			return e
		}
	}
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
	return e
}

// RemoveAttr deletes every attribute with the given local name.
func (e *Element) RemoveAttr(local string) *Element {
	kept := e.Attrs[:0]
	for _, a := range e.Attrs {
		if a.Name.Local != local || a.Name.Space == "xmlns" {
			kept = append(kept, a)
		}
	}
	e.Attrs = kept
	return e
}

// Child returns the first element child with the given local name, or nil.
func (e *Element) Child(local string) *Element {
	for _, c := range e.Children {
		if c.Kind == ElementNode && c.Name.Local == local {
			return c
		}
	}
	return nil
}

// RemoveChildren deletes element children whose local name is in locals.
func (e *Element) RemoveChildren(locals ...string) *Element {
	drop := make(map[string]bool, len(locals))
	for _, l := range locals {
		drop[l] = true
	}
	kept := e.Children[:0]
	for _, c := range e.Children {
		if c.Kind == ElementNode && drop[c.Name.Local] {
			continue
		}
		kept = append(kept, c)
	}
	e.Children = kept
	return e
}

// InsertBefore inserts child before the first element child whose local name
// is in locals, or appends it when none is present.
func (e *Element) InsertBefore(child *Element, locals ...string) *Element {
	match := make(map[string]bool, len(locals))
	for _, l := range locals {
		match[l] = true
	}
	for i, c := range e.Children {
		if c.Kind == ElementNode && match[c.Name.Local] {
			e.Children = append(e.Children[:i], append([]*Element{child}, e.Children[i:]...)...)
			return e
		}
	}
	e.Children = append(e.Children, child)
	return e
}

// TrimSpace removes whitespace-only text children recursively.
func (e *Element) TrimSpace() *Element {
	kept := e.Children[:0]
	for _, c := range e.Children {
		if c.Kind == TextNode && strings.TrimSpace(c.Text) == "" {
			continue
		}
		c.TrimSpace()
		kept = append(kept, c)
	}
	e.Children = kept
	return e
}

// Markup serializes the fragment on its own.
func (e *Element) Markup() []byte {
	d := &Document{}
	idx := d.appendFragment(e, -1)
	d.roots = append(d.roots, idx)
	return d.Serialize()
}

// Edits collects removals and insertions to apply to a Document in one pass.
// Indices refer to the source document.
type Edits struct {
	remove   map[int]bool
	before   map[int][]*Element
	appendTo map[int][]*Element
}

// NewEdits returns an empty edit set.
func NewEdits() *Edits {
	return &Edits{
		remove:   make(map[int]bool),
		before:   make(map[int][]*Element),
		appendTo: make(map[int][]*Element),
	}
}

// Remove drops node i and its subtree. Fragments inserted before i are kept.
func (e *Edits) Remove(i int) {
	e.remove[i] = true
}

// InsertBefore places el immediately before node anchor. Multiple fragments
// for the same anchor keep their insertion order.
func (e *Edits) InsertBefore(anchor int, el *Element) {
	e.before[anchor] = append(e.before[anchor], el)
}

// Append adds el as the last child of parent.
func (e *Edits) Append(parent int, el *Element) {
	e.appendTo[parent] = append(e.appendTo[parent], el)
}

// Empty reports whether the edit set changes nothing.
func (e *Edits) Empty() bool {
	return len(e.remove) == 0 && len(e.before) == 0 && len(e.appendTo) == 0
}

// Removed returns the removed source indices in ascending order.
func (e *Edits) Removed() []int {
	out := make([]int, 0, len(e.remove))
	for i := range e.remove {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// Apply returns a new Document with the edits applied. d is not modified.
func (d *Document) Apply(e *Edits) *Document {
	out := &Document{nodes: make([]Node, 0, len(d.nodes))}
	for _, r := range d.roots {
		out.roots = append(out.roots, out.copyNode(d, r, -1, e)...)
	}
	return out
}

// copyNode copies source node i under parent and returns the new top-level
// indices produced (inserted fragments plus the node itself).
func (d *Document) copyNode(src *Document, i, parent int, e *Edits) []int {
	var produced []int
	for _, frag := range e.before[i] {
		produced = append(produced, d.appendFragment(frag, parent))
	}
	if e.remove[i] {
		return produced
	}

	n := src.nodes[i]
	idx := len(d.nodes)
	d.nodes = append(d.nodes, Node{
		Kind:   n.Kind,
		Name:   n.Name,
		Attrs:  append([]Attr(nil), n.Attrs...),
		Text:   n.Text,
		Target: n.Target,
		Parent: parent,
	})

	var children []int
	for _, c := range n.Children {
		children = append(children, d.copyNode(src, c, idx, e)...)
	}
	for _, frag := range e.appendTo[i] {
		children = append(children, d.appendFragment(frag, idx))
	}
	d.nodes[idx].Children = children
	return append(produced, idx)
}

func (d *Document) appendFragment(el *Element, parent int) int {
	idx := len(d.nodes)
	d.nodes = append(d.nodes, Node{
		Kind:   el.Kind,
		Name:   el.Name,
		Attrs:  append([]Attr(nil), el.Attrs...),
		Text:   el.Text,
		Target: el.Target,
		Parent: parent,
	})
	var children []int
	for _, c := range el.Children {
		children = append(children, d.appendFragment(c, idx))
	}
	d.nodes[idx].Children = children
	return idx
}
