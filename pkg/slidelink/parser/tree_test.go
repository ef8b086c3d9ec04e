package parser

import (
	"errors"
	"testing"
)

func TestParseSerializeRoundTrip(t *testing.T) {
	tests := []string{
		`<p:sld xmlns:p="urn:p"><p:cSld name="x &amp; y"><p:spTree/></p:cSld></p:sld>`,
		`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n" + `<root><!-- note --><a>1 &lt; 2</a></root>`,
		`<ns0:root xmlns:ns0="urn:x"><ns0:child attr="&quot;q&quot;"/></ns0:root>`,
	}

	for _, src := range tests {
		doc := mustParse(t, src)
		got := string(doc.Serialize())
		if got != src {
			t.Errorf("round trip of %q = %q", src, got)
		}
	}
}

func TestParseMalformed(t *testing.T) {
	tests := []string{
		``,
		`<a><b></a>`,
		`<a>`,
		`text only`,
	}

	for _, src := range tests {
		if _, err := Parse([]byte(src)); !errors.Is(err, ErrMalformed) {
			t.Errorf("Parse(%q) error = %v, expected ErrMalformed", src, err)
		}
	}
}

func TestNavigation(t *testing.T) {
	doc := mustParse(t, testSlide)
	root := doc.Root()
	if !doc.IsElement(root, "sld") {
		t.Fatalf("root = %v", doc.Node(root).Name)
	}

	tree := doc.Path(root, "cSld", "spTree")
	if tree < 0 || tree != ShapeTree(doc) {
		t.Errorf("Path(cSld, spTree) = %d, ShapeTree = %d", tree, ShapeTree(doc))
	}
	if doc.Path(root, "cSld", "missing", "spTree") != -1 {
		t.Error("Path through missing element should be -1")
	}
	if doc.FirstChild(-1, "x") != -1 {
		t.Error("FirstChild(-1) should be -1")
	}
	if got := len(doc.FindAll(root, "cNvPr")); got != 6 {
		t.Errorf("FindAll(cNvPr) = %d, expected 6", got)
	}
	if _, ok := doc.Attr(root, "a"); ok {
		t.Error("Attr should not match namespace declarations")
	}
	if v, ok := doc.PrefixFor(NsR); !ok || v != "r" {
		t.Errorf("PrefixFor(r) = %q, %v", v, ok)
	}
}

func TestApplyEdits(t *testing.T) {
	doc := mustParse(t, `<root><a/><b/><c/></root>`)
	root := doc.Root()
	kids := doc.Elements(root)

	edits := NewEdits()
	edits.InsertBefore(kids[1], E("x", "k", "v"))
	edits.Remove(kids[1])
	edits.Append(root, E("z").Add(E("w")))
	edits.InsertBefore(kids[2], E("y"))
	edits.Remove(kids[2])

	out := doc.Apply(edits)
	if got := string(out.Serialize()); got != `<root><a/><x k="v"/><y/><z><w/></z></root>` {
		t.Errorf("Apply = %s", got)
	}
	// the source is untouched
	if got := string(doc.Serialize()); got != `<root><a/><b/><c/></root>` {
		t.Errorf("source after Apply = %s", got)
	}
	if got := edits.Removed(); len(got) != 2 || got[0] != kids[1] || got[1] != kids[2] {
		t.Errorf("Removed = %v", got)
	}
	if NewEdits().Empty() != true || edits.Empty() {
		t.Error("Empty reported incorrectly")
	}
}

func TestElementEditing(t *testing.T) {
	doc := mustParse(t, `<a:ln w="1"> <a:solidFill/> <a:prstDash val="dash"/> <a:tailEnd type="arrow"/> </a:ln>`)
	ln := doc.Extract(doc.Root()).TrimSpace()

	ln.SetAttr("w", "12700").RemoveChildren("prstDash", "tailEnd")
	ln.InsertBefore(E("a:headEnd", "type", "diamond"), "tailEnd", "extLst")
	ln.InsertBefore(E("a:prstDash", "val", "sysDot"), "headEnd")

	expected := `<a:ln w="12700"><a:solidFill/><a:prstDash val="sysDot"/><a:headEnd type="diamond"/></a:ln>`
	if got := string(ln.Markup()); got != expected {
		t.Errorf("Markup = %s, expected %s", got, expected)
	}
	if v, _ := ln.Child("headEnd").Attr("type"); v != "diamond" {
		t.Errorf("headEnd type = %q", v)
	}
	if ln.RemoveAttr("w"); len(ln.Attrs) != 0 {
		t.Errorf("Attrs after RemoveAttr = %v", ln.Attrs)
	}
}
