// Package models defines data structures for slide post-processing.
package models

// RectEMU is an absolute rectangle in English Metric Units (914400 per inch).
type RectEMU struct {
	// X is the left offset.
	X int64 `json:"x" yaml:"x"`
	// Y is the top offset.
	Y int64 `json:"y" yaml:"y"`
	// CX is the width. Never negative.
	CX int64 `json:"cx" yaml:"cx"`
	// CY is the height. Never negative.
	CY int64 `json:"cy" yaml:"cy"`
}

// NewRectEMU returns a rectangle with negative extents clamped to zero.
func NewRectEMU(x, y, cx, cy int64) RectEMU {
	if cx < 0 {
		cx = 0
	}
	if cy < 0 {
		cy = 0
	}
	return RectEMU{X: x, Y: y, CX: cx, CY: cy}
}

// Center returns the rectangle center point.
func (r RectEMU) Center() Point {
	return Point{X: r.X + r.CX/2, Y: r.Y + r.CY/2}
}

// Right returns the x coordinate of the right edge.
func (r RectEMU) Right() int64 { return r.X + r.CX }

// Bottom returns the y coordinate of the bottom edge.
func (r RectEMU) Bottom() int64 { return r.Y + r.CY }

// RectInches is a rectangle in inches as supplied by the diagram renderer.
type RectInches struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	W float64 `json:"w" yaml:"w"`
	H float64 `json:"h" yaml:"h"`
}

// Point is a position in EMU.
type Point struct {
	X int64 `json:"x"`
	Y int64 `json:"y"`
}
