package models

// PackageInspection represents package-level container with per-slide data.
type PackageInspection struct {
	// PackageName is the package file name (no path), when known.
	PackageName string `json:"package_name,omitempty"`
	// Slides lists slide parts in numeric order.
	Slides []SlideInspection `json:"slides"`
}
