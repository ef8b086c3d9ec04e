package slidelink

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/erland/pwa-modeller-sub000/pkg/slidelink/models"
	"github.com/erland/pwa-modeller-sub000/pkg/slidelink/sheet"
)

// LoadMeta reads post-process metadata from a JSON, YAML or xlsx file and
// validates it.
func LoadMeta(path string) (*models.PostProcessMeta, error) {
	var (
		meta *models.PostProcessMeta
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		meta, err = sheet.LoadMeta(path)
	} else {
		meta, err = models.LoadMeta(path)
	}
	if err != nil {
		return nil, err
	}
	if err := meta.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMeta, err)
	}
	return meta, nil
}
