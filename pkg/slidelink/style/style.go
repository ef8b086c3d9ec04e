// Package style resolves connector line style from edge metadata and
// marker hints.
package style

import (
	"strings"

	"github.com/erland/pwa-modeller-sub000/pkg/slidelink/marker"
	"github.com/erland/pwa-modeller-sub000/pkg/slidelink/models"
	"github.com/erland/pwa-modeller-sub000/pkg/slidelink/parser"
)

// DefaultStrokeWidthPt is the line width used when an edge names none.
const DefaultStrokeWidthPt = 1.0

// Resolved is the final line style of one connector.
type Resolved struct {
	// Dash is the a:prstDash value.
	Dash    string
	Pattern marker.Pattern
	Head    marker.Arrow
	Tail    marker.Arrow
}

// Resolve picks each attribute from the first source that sets it: explicit
// edge fields, then marker hints, then the legacy dashed flag (pattern only),
// then defaults. A composition or aggregation relationship always renders as
// a diamond at the head with no tail.
func Resolve(edge *models.EdgeMeta, hints *marker.Hints, relType string) Resolved {
	var h marker.Hints
	if hints != nil {
		h = *hints
	}

	r := Resolved{
		Pattern: firstPattern(edgePattern(edge), h.Pattern, legacyPattern(edge), marker.PatternSolid),
		Head:    firstArrow(edgeHead(edge), h.Head, marker.ArrowNone),
		Tail:    firstArrow(edgeTail(edge), h.Tail, marker.ArrowNone),
	}

	rel := relType
	if edge != nil && edge.RelationshipType != "" {
		rel = edge.RelationshipType
	}
	if IsWholePart(rel) {
		r.Head = marker.ArrowDiamond
		r.Tail = marker.ArrowNone
	}

	r.Dash = DashFor(r.Pattern)
	return r
}

// IsWholePart reports whether a relationship type is a composition or aggregation.
func IsWholePart(relType string) bool {
	t := strings.ToLower(relType)
	return strings.Contains(t, "composition") || strings.Contains(t, "aggregation")
}

// DashFor maps a pattern to its preset dash value.
func DashFor(p marker.Pattern) string {
	switch p {
	case marker.PatternDashed:
		return "dash"
	case marker.PatternDotted:
		return "dot"
	default:
		return "solid"
	}
}

// Stroke returns the normalized stroke color and width in EMU.
func Stroke(edge *models.EdgeMeta) (hex string, widthEMU int64) {
	color, width := "", DefaultStrokeWidthPt
	if edge != nil {
		color = edge.StrokeColor
		if edge.StrokeWidthPt > 0 {
			width = edge.StrokeWidthPt
		}
	}
	return parser.NormalizeHex(color, parser.DefaultStrokeHex), parser.PointsToEMU(width)
}

// ArrowFromMarkerName maps a renderer marker name (arrowClosed, diamondFilled,
// circle, ...) onto the arrow vocabulary. Unknown names yield "".
func ArrowFromMarkerName(name string) marker.Arrow {
	n := strings.ToLower(strings.TrimSpace(name))
	switch {
	case n == "":
		return ""
	case n == "none":
		return marker.ArrowNone
	case strings.Contains(n, "diamond"):
		return marker.ArrowDiamond
	case strings.Contains(n, "triangle"):
		return marker.ArrowTriangle
	case strings.Contains(n, "circle"), strings.Contains(n, "oval"), strings.Contains(n, "dot"):
		return marker.ArrowOval
	case strings.Contains(n, "arrow"):
		return marker.ArrowArrow
	}
	return ""
}

func edgePattern(edge *models.EdgeMeta) marker.Pattern {
	if edge == nil {
		return ""
	}
	return marker.ParsePattern(edge.LinePattern)
}

func legacyPattern(edge *models.EdgeMeta) marker.Pattern {
	if edge != nil && edge.Dashed {
		return marker.PatternDashed
	}
	return ""
}

func edgeHead(edge *models.EdgeMeta) marker.Arrow {
	if edge == nil {
		return ""
	}
	return firstArrow(marker.ParseArrow(edge.HeadEnd), ArrowFromMarkerName(edge.MarkerStart))
}

func edgeTail(edge *models.EdgeMeta) marker.Arrow {
	if edge == nil {
		return ""
	}
	return firstArrow(marker.ParseArrow(edge.TailEnd), ArrowFromMarkerName(edge.MarkerEnd))
}

func firstPattern(ps ...marker.Pattern) marker.Pattern {
	for _, p := range ps {
		if p != "" {
			return p
		}
	}
	return ""
}

func firstArrow(as ...marker.Arrow) marker.Arrow {
	for _, a := range as {
		if a != "" {
			return a
		}
	}
	return ""
}
