// Package marker encodes and decodes the semantic tags carried in shape
// name and description attributes.
//
// Three token shapes exist:
//
//	EA_NODE:<id>
//	EA_EDGE:<from>-><to>[|<type>]
//	EA_EDGEID:<edgeId>[|<from>-><to>[|<type>[|h=<head>][|t=<tail>][|p=<pattern>]]]
//
// Parsing is total: malformed text yields nil, never an error. Unknown style
// values are dropped so newer producers can add vocabulary.
package marker

import (
	"strings"
)

const (
	PrefixNode   = "EA_NODE:"
	PrefixEdge   = "EA_EDGE:"
	PrefixEdgeID = "EA_EDGEID:"

	arrowSep = "->"
	fieldSep = "|"
)

// Kind identifies the marker variant.
type Kind int

const (
	KindNode Kind = iota + 1
	KindEdge
	KindEdgeID
)

func (k Kind) String() string {
	switch k {
	case KindNode:
		return "node"
	case KindEdge:
		return "edge"
	case KindEdgeID:
		return "edgeid"
	default:
		return "unknown"
	}
}

// Marker is a decoded marker. The concrete types are *NodeMarker,
// *EdgeMarker and *EdgeIDMarker.
type Marker interface {
	Kind() Kind
	String() string
	isMarker()
}

// NodeMarker tags a node-like shape with its semantic element id.
type NodeMarker struct {
	ID string
}

func (*NodeMarker) Kind() Kind { return KindNode }
func (*NodeMarker) isMarker()  {}

// String formats the marker back into its token form.
func (m *NodeMarker) String() string { return FormatNode(m.ID) }

// EdgeMarker is the legacy edge tag with endpoints and an optional type.
type EdgeMarker struct {
	From             string
	To               string
	RelationshipType string
}

func (*EdgeMarker) Kind() Kind { return KindEdge }
func (*EdgeMarker) isMarker()  {}

// String formats the marker back into its token form.
func (m *EdgeMarker) String() string { return FormatEdge(m.From, m.To, m.RelationshipType) }

// EdgeIDMarker carries an edge id plus optional endpoints, type and style hints.
type EdgeIDMarker struct {
	EdgeID           string
	From             string
	To               string
	RelationshipType string
	Hints            Hints
}

func (*EdgeIDMarker) Kind() Kind { return KindEdgeID }
func (*EdgeIDMarker) isMarker()  {}

// String formats the marker back into its token form.
func (m *EdgeIDMarker) String() string { return FormatEdgeID(*m) }

// HasEndpoints reports whether both endpoints were present.
func (m *EdgeIDMarker) HasEndpoints() bool {
	return m.From != "" && m.To != ""
}

// ParseNode parses an EA_NODE token.
func ParseNode(s string) *NodeMarker {
	body, ok := cutPrefix(s, PrefixNode)
	if !ok || body == "" {
		return nil
	}
	return &NodeMarker{ID: body}
}

// ParseEdge parses a legacy EA_EDGE token.
func ParseEdge(s string) *EdgeMarker {
	body, ok := cutPrefix(s, PrefixEdge)
	if !ok {
		return nil
	}
	fields := splitFields(body)
	from, to, ok := parseEndpoints(fields[0])
	if !ok {
		return nil
	}
	m := &EdgeMarker{From: from, To: to}
	if len(fields) > 1 {
		m.RelationshipType = fields[1]
	}
	return m
}

// ParseEdgeID parses an EA_EDGEID token.
func ParseEdgeID(s string) *EdgeIDMarker {
	body, ok := cutPrefix(s, PrefixEdgeID)
	if !ok {
		return nil
	}
	fields := splitFields(body)
	if fields[0] == "" {
		return nil
	}
	m := &EdgeIDMarker{EdgeID: fields[0]}
	if len(fields) > 1 {
		if from, to, ok := parseEndpoints(fields[1]); ok {
			m.From, m.To = from, to
		}
	}
	for i := 2; i < len(fields); i++ {
		f := fields[i]
		if key, val, ok := styleField(f); ok {
			switch key {
			case "h":
				m.Hints.Head = ParseArrow(val)
			case "t":
				m.Hints.Tail = ParseArrow(val)
			case "p":
				m.Hints.Pattern = ParsePattern(val)
			}
			continue
		}
		if i == 2 {
			m.RelationshipType = f
		}
	}
	return m
}

// Parse decodes any marker variant, or returns nil.
func Parse(s string) Marker {
	if m := ParseEdgeID(s); m != nil {
		return m
	}
	if m := ParseEdge(s); m != nil {
		return m
	}
	if m := ParseNode(s); m != nil {
		return m
	}
	return nil
}

// FromShape decodes the marker of a shape, trying the description first and
// then the name.
func FromShape(name, descr string) Marker {
	if m := Parse(descr); m != nil {
		return m
	}
	return Parse(name)
}

// FormatNode formats an EA_NODE token.
func FormatNode(id string) string {
	return PrefixNode + id
}

// FormatEdge formats a legacy EA_EDGE token.
func FormatEdge(from, to, relType string) string {
	s := PrefixEdge + from + arrowSep + to
	if relType != "" {
		s += fieldSep + relType
	}
	return s
}

// FormatEdgeID formats an EA_EDGEID token. Empty trailing fields are omitted;
// an empty endpoint or type segment is kept when later fields follow.
func FormatEdgeID(m EdgeIDMarker) string {
	var b strings.Builder
	b.WriteString(PrefixEdgeID)
	b.WriteString(m.EdgeID)

	var style []string
	if m.Hints.Head != "" {
		style = append(style, "h="+string(m.Hints.Head))
	}
	if m.Hints.Tail != "" {
		style = append(style, "t="+string(m.Hints.Tail))
	}
	if m.Hints.Pattern != "" {
		style = append(style, "p="+string(m.Hints.Pattern))
	}

	hasEnds := m.From != "" && m.To != ""
	if !hasEnds && m.RelationshipType == "" && len(style) == 0 {
		return b.String()
	}
	b.WriteString(fieldSep)
	if hasEnds {
		b.WriteString(m.From + arrowSep + m.To)
	}
	if m.RelationshipType == "" && len(style) == 0 {
		return b.String()
	}
	b.WriteString(fieldSep)
	b.WriteString(m.RelationshipType)
	for _, s := range style {
		b.WriteString(fieldSep)
		b.WriteString(s)
	}
	return b.String()
}

func cutPrefix(s, prefix string) (string, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, prefix) {
		return "", false
	}
	return strings.TrimSpace(s[len(prefix):]), true
}

// splitFields splits on '|' and trims each field. The result has at least one element.
func splitFields(body string) []string {
	fields := strings.Split(body, fieldSep)
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}

func parseEndpoints(s string) (from, to string, ok bool) {
	from, to, found := strings.Cut(s, arrowSep)
	if !found {
		return "", "", false
	}
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if from == "" || to == "" {
		return "", "", false
	}
	return from, to, true
}

func styleField(f string) (key, val string, ok bool) {
	key, val, found := strings.Cut(f, "=")
	if !found {
		return "", "", false
	}
	key = strings.TrimSpace(key)
	switch key {
	case "h", "t", "p":
		return key, strings.TrimSpace(val), true
	}
	return "", "", false
}
