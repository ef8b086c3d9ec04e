package models

import "strings"

// EdgeMeta describes one diagram edge and its intended styling.
type EdgeMeta struct {
	EdgeID           string `json:"edgeId" yaml:"edgeId"`
	FromNodeID       string `json:"fromNodeId,omitempty" yaml:"fromNodeId,omitempty"`
	ToNodeID         string `json:"toNodeId,omitempty" yaml:"toNodeId,omitempty"`
	RelationshipType string `json:"relationshipType,omitempty" yaml:"relationshipType,omitempty"`
	// LinePattern is one of solid, dashed, dotted.
	LinePattern string `json:"linePattern,omitempty" yaml:"linePattern,omitempty"`
	// MarkerStart and MarkerEnd are renderer marker names (arrow, diamond, ...).
	MarkerStart string `json:"markerStart,omitempty" yaml:"markerStart,omitempty"`
	MarkerEnd   string `json:"markerEnd,omitempty" yaml:"markerEnd,omitempty"`
	// HeadEnd and TailEnd are explicit line end types.
	HeadEnd       string  `json:"pptxHeadEnd,omitempty" yaml:"pptxHeadEnd,omitempty"`
	TailEnd       string  `json:"pptxTailEnd,omitempty" yaml:"pptxTailEnd,omitempty"`
	StrokeColor   string  `json:"strokeColor,omitempty" yaml:"strokeColor,omitempty"`
	StrokeWidthPt float64 `json:"strokeWidthPt,omitempty" yaml:"strokeWidthPt,omitempty"`
	// Dashed is the legacy boolean dash flag, superseded by LinePattern.
	Dashed bool `json:"dashed,omitempty" yaml:"dashed,omitempty"`

	// Endpoint coordinates in inches.
	X1 float64 `json:"x1,omitempty" yaml:"x1,omitempty"`
	Y1 float64 `json:"y1,omitempty" yaml:"y1,omitempty"`
	X2 float64 `json:"x2,omitempty" yaml:"x2,omitempty"`
	Y2 float64 `json:"y2,omitempty" yaml:"y2,omitempty"`
	// Rect is the edge bounding rectangle in inches.
	Rect RectInches `json:"rect,omitempty" yaml:"rect,omitempty"`
}

// HasEndpoints reports whether both endpoint node ids are set.
func (e EdgeMeta) HasEndpoints() bool {
	return strings.TrimSpace(e.FromNodeID) != "" && strings.TrimSpace(e.ToNodeID) != ""
}
