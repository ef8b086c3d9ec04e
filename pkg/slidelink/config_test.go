package slidelink

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erland/pwa-modeller-sub000/pkg/slidelink/connector"
	"github.com/erland/pwa-modeller-sub000/pkg/slidelink/sheet"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, "slidelink.toml", `
mode = "Replace"
slides = [1, 3, 0]
min_markup_length = 250
parallel = 4
log_level = "debug"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Parallel)

	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, connector.ModeReplace, opts.Mode)
	assert.Equal(t, []string{"ppt/slides/slide1.xml", "ppt/slides/slide3.xml"}, opts.Slides)
	assert.Equal(t, 250, opts.MinMarkupLength)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, log.DebugLevel, level)
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := writeFile(t, "slidelink.toml", "mode = \"auto\"\nthreshold = 3\n")

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown keys: threshold")
}

func TestConfigDefaults(t *testing.T) {
	var cfg Config

	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, DefaultOptions(), opts)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, log.InfoLevel, level)

	_, err = Config{Mode: "sideways"}.Options()
	assert.ErrorIs(t, err, connector.ErrUnknownMode)
}

func TestLoadMetaFormats(t *testing.T) {
	jsonPath := writeFile(t, "meta.json", `{
  "nodes": [{"elementId": "a", "rect": {"x": 1, "y": 1, "w": 2, "h": 1}}],
  "edges": [{"edgeId": "e1", "fromNodeId": "a", "toNodeId": "a", "linePattern": "dotted"}]
}`)
	yamlPath := writeFile(t, "meta.yaml", `
nodes:
  - elementId: a
    rect: {x: 1, y: 1, w: 2, h: 1}
edges:
  - edgeId: e1
    fromNodeId: a
    toNodeId: a
    linePattern: dotted
`)

	fromJSON, err := LoadMeta(jsonPath)
	require.NoError(t, err)
	fromYAML, err := LoadMeta(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, fromJSON, fromYAML)
	assert.Equal(t, 2.0, fromYAML.Nodes[0].Rect.W)

	xlsxPath := filepath.Join(t.TempDir(), "meta.xlsx")
	require.NoError(t, sheet.WriteFile(fullMeta(), xlsxPath))
	fromXLSX, err := LoadMeta(xlsxPath)
	require.NoError(t, err)
	assert.Equal(t, fullMeta(), fromXLSX)
}

func TestLoadMetaInvalid(t *testing.T) {
	path := writeFile(t, "meta.json", `{"nodes": [{"elementId": "a"}, {"elementId": "a"}]}`)

	_, err := LoadMeta(path)
	assert.ErrorIs(t, err, ErrInvalidMeta)

	_, err = LoadMeta(writeFile(t, "meta.txt", "{}"))
	assert.Error(t, err)
}
