package slidelink

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/erland/pwa-modeller-sub000/pkg/slidelink/models"
	"github.com/erland/pwa-modeller-sub000/pkg/slidelink/parser"
)

// Inspect lists the shapes and decoded markers of every slide in a package.
// Slides whose markup cannot be parsed are listed without shapes.
func Inspect(input []byte) (*models.PackageInspection, error) {
	zr, err := zip.NewReader(bytes.NewReader(input), int64(len(input)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenPackage, err)
	}

	parts := parser.SlideParts(zr)
	if len(parts) == 0 {
		return nil, ErrNoSlides
	}

	result := &models.PackageInspection{}
	for _, part := range parts {
		slide := models.SlideInspection{Part: part}
		data, err := parser.ReadZipFile(zr, part)
		if err != nil {
			return nil, NewPostProcessError(part, "read", err)
		}
		if doc, err := parser.Parse(data); err == nil {
			for _, s := range parser.ReadShapes(doc) {
				slide.Shapes = append(slide.Shapes, s.Info())
			}
		}
		result.Slides = append(result.Slides, slide)
	}
	return result, nil
}

// InspectFile inspects the package at path.
func InspectFile(path string) (*models.PackageInspection, error) {
	input, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	result, err := Inspect(input)
	if err != nil {
		return nil, err
	}
	result.PackageName = filepath.Base(path)
	return result, nil
}
