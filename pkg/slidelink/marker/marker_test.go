package marker

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseNode(t *testing.T) {
	tests := []struct {
		input    string
		expected *NodeMarker
	}{
		{"EA_NODE:n1", &NodeMarker{ID: "n1"}},
		{"  EA_NODE:  n-42  ", &NodeMarker{ID: "n-42"}},
		{"EA_NODE:", nil},
		{"EA_NODE:   ", nil},
		{"ea_node:n1", nil},
		{"Rectangle 3", nil},
		{"", nil},
	}

	for _, tt := range tests {
		got := ParseNode(tt.input)
		if diff := cmp.Diff(tt.expected, got); diff != "" {
			t.Errorf("ParseNode(%q) mismatch (-want +got):\n%s", tt.input, diff)
		}
	}
}

func TestParseEdge(t *testing.T) {
	tests := []struct {
		input    string
		expected *EdgeMarker
	}{
		{"EA_EDGE:a->b", &EdgeMarker{From: "a", To: "b"}},
		{"EA_EDGE: a -> b | Serving ", &EdgeMarker{From: "a", To: "b", RelationshipType: "Serving"}},
		{"EA_EDGE:a->", nil},
		{"EA_EDGE:->b", nil},
		{"EA_EDGE:a-b", nil},
		{"EA_EDGEID:e1|a->b", nil},
	}

	for _, tt := range tests {
		got := ParseEdge(tt.input)
		if diff := cmp.Diff(tt.expected, got); diff != "" {
			t.Errorf("ParseEdge(%q) mismatch (-want +got):\n%s", tt.input, diff)
		}
	}
}

func TestParseEdgeID(t *testing.T) {
	tests := []struct {
		input    string
		expected *EdgeIDMarker
	}{
		{"EA_EDGEID:e1", &EdgeIDMarker{EdgeID: "e1"}},
		{"EA_EDGEID:e1|a->b", &EdgeIDMarker{EdgeID: "e1", From: "a", To: "b"}},
		{
			"EA_EDGEID:e1|a->b|Composition|h=diamond|t=none|p=dashed",
			&EdgeIDMarker{
				EdgeID: "e1", From: "a", To: "b", RelationshipType: "Composition",
				Hints: Hints{Head: ArrowDiamond, Tail: ArrowNone, Pattern: PatternDashed},
			},
		},
		{
			"EA_EDGEID: e2 | x -> y | Flow | p = dotted ",
			&EdgeIDMarker{EdgeID: "e2", From: "x", To: "y", RelationshipType: "Flow", Hints: Hints{Pattern: PatternDotted}},
		},
		// Unknown style values are dropped, not errors.
		{
			"EA_EDGEID:e3|a->b|Flow|h=stealth|t=arrow|p=wavy",
			&EdgeIDMarker{EdgeID: "e3", From: "a", To: "b", RelationshipType: "Flow", Hints: Hints{Tail: ArrowArrow}},
		},
		// Malformed endpoints are dropped but the edge id survives.
		{"EA_EDGEID:e4|broken|Flow", &EdgeIDMarker{EdgeID: "e4", RelationshipType: "Flow"}},
		// Style directly after endpoints.
		{"EA_EDGEID:e5|a->b|h=arrow", &EdgeIDMarker{EdgeID: "e5", From: "a", To: "b", Hints: Hints{Head: ArrowArrow}}},
		{"EA_EDGEID:", nil},
		{"EA_EDGEID:  |a->b", nil},
		{"EA_EDGE:a->b", nil},
	}

	for _, tt := range tests {
		got := ParseEdgeID(tt.input)
		if diff := cmp.Diff(tt.expected, got); diff != "" {
			t.Errorf("ParseEdgeID(%q) mismatch (-want +got):\n%s", tt.input, diff)
		}
	}
}

func TestParseDispatch(t *testing.T) {
	tests := []struct {
		input    string
		expected Kind
	}{
		{"EA_NODE:n1", KindNode},
		{"EA_EDGE:a->b", KindEdge},
		{"EA_EDGEID:e1", KindEdgeID},
	}

	for _, tt := range tests {
		m := Parse(tt.input)
		if m == nil {
			t.Errorf("Parse(%q) = nil, expected kind %v", tt.input, tt.expected)
			continue
		}
		if m.Kind() != tt.expected {
			t.Errorf("Parse(%q).Kind() = %v, expected %v", tt.input, m.Kind(), tt.expected)
		}
	}

	if m := Parse("Connector 4"); m != nil {
		t.Errorf("Parse(non-marker) = %v, expected nil", m)
	}
}

func TestFromShapePrefersDescription(t *testing.T) {
	m := FromShape("EA_NODE:from-name", "EA_NODE:from-descr")
	node, ok := m.(*NodeMarker)
	if !ok || node.ID != "from-descr" {
		t.Errorf("FromShape = %#v, expected node from-descr", m)
	}

	m = FromShape("EA_NODE:from-name", "alt text")
	node, ok = m.(*NodeMarker)
	if !ok || node.ID != "from-name" {
		t.Errorf("FromShape = %#v, expected node from-name", m)
	}

	if m := FromShape("Rectangle 1", ""); m != nil {
		t.Errorf("FromShape without marker = %#v, expected nil", m)
	}
}

func TestEdgeIDRoundTrip(t *testing.T) {
	tests := []EdgeIDMarker{
		{EdgeID: "e1"},
		{EdgeID: "e1", From: "a", To: "b"},
		{EdgeID: "e1", From: "a", To: "b", RelationshipType: "Association"},
		{EdgeID: "e1", RelationshipType: "Association"},
		{EdgeID: "e1", Hints: Hints{Pattern: PatternDotted}},
		{EdgeID: "e1", From: "a", To: "b", Hints: Hints{Head: ArrowOval}},
		{
			EdgeID: "rel-7", From: "n-1", To: "n-2", RelationshipType: "Aggregation",
			Hints: Hints{Head: ArrowDiamond, Tail: ArrowTriangle, Pattern: PatternDashed},
		},
	}

	for _, want := range tests {
		token := FormatEdgeID(want)
		got := ParseEdgeID(token)
		if got == nil {
			t.Errorf("ParseEdgeID(%q) = nil", token)
			continue
		}
		if diff := cmp.Diff(want, *got); diff != "" {
			t.Errorf("round trip of %q mismatch (-want +got):\n%s", token, diff)
		}
	}
}

func TestEdgeAndNodeRoundTrip(t *testing.T) {
	e := ParseEdge(FormatEdge("a", "b", "Triggering"))
	if diff := cmp.Diff(&EdgeMarker{From: "a", To: "b", RelationshipType: "Triggering"}, e); diff != "" {
		t.Errorf("edge round trip mismatch (-want +got):\n%s", diff)
	}
	n := ParseNode(FormatNode("id-1"))
	if n == nil || n.ID != "id-1" {
		t.Errorf("node round trip = %#v", n)
	}
}

func TestParseArrowAndPattern(t *testing.T) {
	arrows := map[string]Arrow{
		"none": ArrowNone, "arrow": ArrowArrow, " triangle ": ArrowTriangle,
		"diamond": ArrowDiamond, "oval": ArrowOval, "stealth": "", "": "",
		"Arrow": "", "DIAMOND": "",
	}
	for in, want := range arrows {
		if got := ParseArrow(in); got != want {
			t.Errorf("ParseArrow(%q) = %q, expected %q", in, got, want)
		}
	}

	patterns := map[string]Pattern{
		"solid": PatternSolid, "dashed": PatternDashed, "dotted": PatternDotted, "dash": "",
		"DASHED": "", "Dotted": "",
	}
	for in, want := range patterns {
		if got := ParsePattern(in); got != want {
			t.Errorf("ParsePattern(%q) = %q, expected %q", in, got, want)
		}
	}
}
