package parser

import "github.com/erland/pwa-modeller-sub000/pkg/slidelink/models"

// RectScore is the sum of absolute differences of position and extent.
// Lower is closer; identical rectangles score 0.
func RectScore(a, b models.RectEMU) int64 {
	return abs(a.X-b.X) + abs(a.Y-b.Y) + abs(a.CX-b.CX) + abs(a.CY-b.CY)
}

// CenterDistSq is the squared distance from p to the center of r.
func CenterDistSq(p models.Point, r models.RectEMU) float64 {
	c := r.Center()
	dx := float64(p.X - c.X)
	dy := float64(p.Y - c.Y)
	return dx*dx + dy*dy
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
