// Package parser reads and edits slide markup: an index-based XML tree,
// shape geometry records, unit conversion and color normalization.
package parser

import (
	"math"

	"github.com/erland/pwa-modeller-sub000/pkg/slidelink/models"
)

// EMUPerInch is the number of EMUs (English Metric Units) per inch.
const EMUPerInch = 914400

// EMUPerPoint is the number of EMUs per typographic point (1/72 inch).
const EMUPerPoint = 12700

// EMUPerPixel is the number of EMUs per pixel at 96 DPI.
// 1 inch = 914400 EMU, 1 inch = 96 pixels at 96 DPI
// Therefore: 914400 / 96 = 9525 EMU per pixel
const EMUPerPixel = 9525

// InchesToEMU converts inches to EMU, rounding to the nearest unit.
func InchesToEMU(in float64) int64 {
	return int64(math.Round(in * EMUPerInch))
}

// EMUToInches converts EMU to inches.
func EMUToInches(emu int64) float64 {
	return float64(emu) / EMUPerInch
}

// PointsToEMU converts points to EMU, rounding to the nearest unit.
func PointsToEMU(pt float64) int64 {
	return int64(math.Round(pt * EMUPerPoint))
}

// EMUToPixels converts EMU (English Metric Units) to pixels at 96 DPI.
func EMUToPixels(emu int64) int {
	return int(emu / EMUPerPixel)
}

// RectToEMU converts an inch rectangle to EMU, clamping negative extents.
func RectToEMU(r models.RectInches) models.RectEMU {
	return models.NewRectEMU(InchesToEMU(r.X), InchesToEMU(r.Y), InchesToEMU(r.W), InchesToEMU(r.H))
}

// RectToInches converts an EMU rectangle to inches.
func RectToInches(r models.RectEMU) models.RectInches {
	return models.RectInches{
		X: EMUToInches(r.X),
		Y: EMUToInches(r.Y),
		W: EMUToInches(r.CX),
		H: EMUToInches(r.CY),
	}
}
