// Package output serializes post-processing results.
package output

import (
	"encoding/json"

	"github.com/erland/pwa-modeller-sub000/pkg/slidelink/models"
)

// ToJSON serializes a post-processing report.
func ToJSON(report *models.Report, pretty bool) ([]byte, error) {
	return marshal(report, pretty)
}

// InspectionToJSON serializes a package inspection.
func InspectionToJSON(insp *models.PackageInspection, pretty bool) ([]byte, error) {
	return marshal(insp, pretty)
}

// SlideToJSON serializes a single slide inspection.
func SlideToJSON(slide *models.SlideInspection, pretty bool) ([]byte, error) {
	return marshal(slide, pretty)
}

// MetaToJSON serializes post-process metadata.
func MetaToJSON(meta *models.PostProcessMeta, pretty bool) ([]byte, error) {
	return marshal(meta, pretty)
}

func marshal(v interface{}, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
