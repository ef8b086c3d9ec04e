package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// MetaFormat identifies the encoding of a PostProcessMeta document.
type MetaFormat string

const (
	MetaJSON MetaFormat = "json"
	MetaYAML MetaFormat = "yaml"
)

// ErrUnknownMetaFormat is returned for files whose extension names no known format.
var ErrUnknownMetaFormat = errors.New("unknown meta format")

// PostProcessMeta is the semantic snapshot passed alongside a generated package.
// It is treated as immutable for the duration of one export.
type PostProcessMeta struct {
	Nodes []NodeMeta `json:"nodes" yaml:"nodes"`
	Edges []EdgeMeta `json:"edges" yaml:"edges"`
}

// EdgeByID returns the edge with the given edge id, or nil.
func (m *PostProcessMeta) EdgeByID(id string) *EdgeMeta {
	if m == nil || id == "" {
		return nil
	}
	for i := range m.Edges {
		if m.Edges[i].EdgeID == id {
			return &m.Edges[i]
		}
	}
	return nil
}

// FullEdgeMeta reports whether every edge carries explicit endpoints.
// An empty edge list is not full metadata.
func (m *PostProcessMeta) FullEdgeMeta() bool {
	if m == nil || len(m.Edges) == 0 {
		return false
	}
	for _, e := range m.Edges {
		if !e.HasEndpoints() {
			return false
		}
	}
	return true
}

// Validate checks for duplicate ids and negative rectangle extents.
func (m *PostProcessMeta) Validate() error {
	if m == nil {
		return nil
	}
	var errs []string
	seen := make(map[string]bool)
	for i, n := range m.Nodes {
		if strings.TrimSpace(n.ElementID) == "" {
			errs = append(errs, fmt.Sprintf("node %d: empty elementId", i))
			continue
		}
		if seen[n.ElementID] {
			errs = append(errs, fmt.Sprintf("node %d: duplicate elementId %q", i, n.ElementID))
		}
		seen[n.ElementID] = true
		if n.Rect.W < 0 || n.Rect.H < 0 {
			errs = append(errs, fmt.Sprintf("node %q: negative extent", n.ElementID))
		}
	}
	edgeSeen := make(map[string]bool)
	for i, e := range m.Edges {
		if e.EdgeID == "" {
			continue
		}
		if edgeSeen[e.EdgeID] {
			errs = append(errs, fmt.Sprintf("edge %d: duplicate edgeId %q", i, e.EdgeID))
		}
		edgeSeen[e.EdgeID] = true
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("invalid meta:\n  %s", strings.Join(errs, "\n  "))
}

// ReadMeta decodes a PostProcessMeta document in the given format.
func ReadMeta(r io.Reader, format MetaFormat) (*PostProcessMeta, error) {
	var meta PostProcessMeta
	switch format {
	case MetaJSON:
		if err := json.NewDecoder(r).Decode(&meta); err != nil {
			return nil, fmt.Errorf("decode json meta: %w", err)
		}
	case MetaYAML:
		if err := yaml.NewDecoder(r).Decode(&meta); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode yaml meta: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMetaFormat, format)
	}
	return &meta, nil
}

// FormatForPath returns the meta format implied by a file extension.
func FormatForPath(path string) (MetaFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return MetaJSON, nil
	case ".yaml", ".yml":
		return MetaYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownMetaFormat, path)
	}
}

// LoadMeta reads a JSON or YAML meta file, picking the format from its extension.
func LoadMeta(path string) (*PostProcessMeta, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadMeta(f, format)
}
