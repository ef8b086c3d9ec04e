package marker

import "strings"

// Arrow is a line end type.
type Arrow string

const (
	ArrowNone     Arrow = "none"
	ArrowArrow    Arrow = "arrow"
	ArrowTriangle Arrow = "triangle"
	ArrowDiamond  Arrow = "diamond"
	ArrowOval     Arrow = "oval"
)

// Pattern is a line dash pattern.
type Pattern string

const (
	PatternSolid  Pattern = "solid"
	PatternDashed Pattern = "dashed"
	PatternDotted Pattern = "dotted"
)

// Hints are optional style values carried by an EA_EDGEID marker.
// An empty value means absent.
type Hints struct {
	Head    Arrow
	Tail    Arrow
	Pattern Pattern
}

// ParseArrow returns the arrow type for s, or "" when s is not in the
// vocabulary. Matching is case-sensitive.
func ParseArrow(s string) Arrow {
	switch a := Arrow(strings.TrimSpace(s)); a {
	case ArrowNone, ArrowArrow, ArrowTriangle, ArrowDiamond, ArrowOval:
		return a
	}
	return ""
}

// ParsePattern returns the pattern for s, or "" when s is not in the vocabulary.
func ParsePattern(s string) Pattern {
	switch p := Pattern(strings.TrimSpace(s)); p {
	case PatternSolid, PatternDashed, PatternDotted:
		return p
	}
	return ""
}
