package slidelink

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erland/pwa-modeller-sub000/pkg/slidelink/connector"
	"github.com/erland/pwa-modeller-sub000/pkg/slidelink/models"
	"github.com/erland/pwa-modeller-sub000/pkg/slidelink/packager"
	"github.com/erland/pwa-modeller-sub000/pkg/slidelink/parser"
)

func TestPostProcessRebuildsConnectors(t *testing.T) {
	input := buildPackage(t, nil)

	out, report, err := PostProcess(input, fullMeta(), quietOptions())
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.NotEmpty(t, report.ExportID)
	assert.False(t, report.Fallback)

	require.Len(t, report.Slides, 2)
	assert.Equal(t, "ppt/slides/slide1.xml", report.Slides[0].Part)
	assert.Equal(t, "rebuild", report.Slides[0].Mode)
	assert.Equal(t, 1, report.Slides[0].Replaced)
	assert.Equal(t, 0, report.Slides[0].Skipped)
	assert.False(t, report.Slides[0].Reverted)
	assert.Equal(t, 1, report.Slides[1].Skipped, "geometry maps only a onto slide 2's single shape, so b never resolves")

	inNames, inParts := readParts(t, input)
	outNames, outParts := readParts(t, out)
	assert.Equal(t, inNames, outNames, "part order is preserved")
	assert.Equal(t, inParts["docProps/app.xml"], outParts["docProps/app.xml"])
	assert.Equal(t, inParts["ppt/slides/slide2.xml"], outParts["ppt/slides/slide2.xml"])

	doc, err := parser.Parse(outParts["ppt/slides/slide1.xml"])
	require.NoError(t, err)
	var kinds []parser.ShapeKind
	for _, s := range parser.ReadShapes(doc) {
		kinds = append(kinds, s.Kind)
	}
	assert.Equal(t, []parser.ShapeKind{parser.KindConnector, parser.KindNode, parser.KindNode}, kinds)
}

func TestPostProcessReplaceMode(t *testing.T) {
	input := buildPackage(t, nil)
	opts := quietOptions()
	opts.Mode = connector.ModeReplace

	_, report, err := PostProcess(input, nil, opts)
	require.NoError(t, err)
	require.Len(t, report.Slides, 2)
	assert.Equal(t, "replace", report.Slides[0].Mode)
	assert.Equal(t, 1, report.Slides[0].Replaced, "plain line attached by geometry")

	replaced, skipped := report.Totals()
	assert.Equal(t, 1, replaced)
	assert.Equal(t, 0, skipped)
}

func TestPostProcessOpenError(t *testing.T) {
	out, _, err := PostProcess([]byte("definitely not a zip"), nil, quietOptions())
	assert.Nil(t, out)
	assert.ErrorIs(t, err, ErrOpenPackage)
}

func TestPostProcessRevertsImplausibleMarkup(t *testing.T) {
	input := buildPackage(t, nil)
	opts := quietOptions()
	opts.MinMarkupLength = 1 << 20

	out, report, err := PostProcess(input, fullMeta(), opts)
	require.NoError(t, err)
	for _, s := range report.Slides {
		assert.True(t, s.Reverted, s.Part)
		assert.Zero(t, s.Replaced)
	}

	_, inParts := readParts(t, input)
	_, outParts := readParts(t, out)
	assert.Equal(t, inParts["ppt/slides/slide1.xml"], outParts["ppt/slides/slide1.xml"])
}

func TestPostProcessRevertsMalformedSlide(t *testing.T) {
	broken := `<p:sld xmlns:p="` + parser.NsP + `"><p:cSld><p:spTree></p:cSld></p:sld>`
	input := buildPackage(t, map[string]string{"ppt/slides/slide2.xml": broken})

	out, report, err := PostProcess(input, fullMeta(), quietOptions())
	require.NoError(t, err)
	require.Len(t, report.Slides, 2)
	assert.False(t, report.Slides[0].Reverted)
	assert.Equal(t, 1, report.Slides[0].Replaced)
	assert.True(t, report.Slides[1].Reverted)

	_, outParts := readParts(t, out)
	assert.Equal(t, broken, string(outParts["ppt/slides/slide2.xml"]))
}

func TestPostProcessRevertsOnPanic(t *testing.T) {
	orig := rebuildSlide
	t.Cleanup(func() { rebuildSlide = orig })
	rebuildSlide = func(markup []byte, meta *models.PostProcessMeta, opts connector.Options) (connector.Result, error) {
		panic("boom")
	}

	input := buildPackage(t, nil)
	out, report, err := PostProcess(input, fullMeta(), quietOptions())
	require.NoError(t, err)
	assert.False(t, report.Fallback)
	for _, s := range report.Slides {
		assert.True(t, s.Reverted)
		require.NotEmpty(t, s.Notes)
		assert.Contains(t, s.Notes[len(s.Notes)-1], "panic: boom")
	}

	_, inParts := readParts(t, input)
	_, outParts := readParts(t, out)
	assert.Equal(t, inParts, outParts)
}

func TestPostProcessFallsBackToInput(t *testing.T) {
	input := buildPackage(t, nil)

	// Corrupt a stored payload so its checksum no longer matches.
	corrupt := bytes.Replace(input, []byte("payload-app"), []byte("payload-APP"), 1)
	require.NotEqual(t, input, corrupt)

	out, report, err := PostProcess(corrupt, fullMeta(), quietOptions())
	require.NoError(t, err)
	assert.True(t, report.Fallback)
	assert.Equal(t, corrupt, out)
	require.NotEmpty(t, report.Notes)

	assert.Contains(t, report.Notes[len(report.Notes)-1], "docProps/app.xml")
}

func TestPostProcessSlideFilter(t *testing.T) {
	input := buildPackage(t, nil)
	opts := quietOptions()
	opts.Slides = SlidePaths([]int{2})

	_, report, err := PostProcess(input, fullMeta(), opts)
	require.NoError(t, err)
	require.Len(t, report.Slides, 1)
	assert.Equal(t, "ppt/slides/slide2.xml", report.Slides[0].Part)

	opts.Slides = SlidePaths([]int{9})
	out, report, err := PostProcess(input, fullMeta(), opts)
	require.NoError(t, err)
	assert.Empty(t, report.Slides)
	assert.Contains(t, report.Notes, ErrNoSlides.Error())

	_, inParts := readParts(t, input)
	_, outParts := readParts(t, out)
	assert.Equal(t, inParts, outParts)
}

func TestPostProcessNotesInvalidMeta(t *testing.T) {
	meta := fullMeta()
	meta.Nodes = append(meta.Nodes, models.NodeMeta{ElementID: "a"})

	_, report, err := PostProcess(buildPackage(t, nil), meta, quietOptions())
	require.NoError(t, err)
	require.NotEmpty(t, report.Notes)
	assert.Contains(t, report.Notes[0], `duplicate elementId "a"`)
}

func TestProcessFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.pptx")
	out := filepath.Join(dir, "out.pptx")
	require.NoError(t, os.WriteFile(in, buildPackage(t, nil), 0644))

	report, err := ProcessFile(in, out, fullMeta(), quietOptions())
	require.NoError(t, err)
	replaced, _ := report.Totals()
	assert.Equal(t, 1, replaced)

	insp, err := InspectFile(out)
	require.NoError(t, err)
	assert.Equal(t, "out.pptx", insp.PackageName)

	_, err = ProcessFile(filepath.Join(dir, "missing.pptx"), out, nil, quietOptions())
	assert.Error(t, err)
}

func TestInspect(t *testing.T) {
	insp, err := Inspect(buildPackage(t, nil))
	require.NoError(t, err)
	require.Len(t, insp.Slides, 2)

	nodes, lines := insp.Slides[0].Counts()
	assert.Equal(t, 2, nodes)
	assert.Equal(t, 1, lines)
	assert.Equal(t, "EA_NODE:a", insp.Slides[0].Shapes[0].Marker)
	assert.Equal(t, 192, insp.Slides[0].Shapes[0].WidthPx)
	assert.Equal(t, 96, insp.Slides[0].Shapes[0].HeightPx)

	_, err = Inspect([]byte("nope"))
	assert.ErrorIs(t, err, ErrOpenPackage)
}

func TestInspectWithoutSlides(t *testing.T) {
	pk := packager.New()
	pk.AddText("[Content_Types].xml", contentTypes)
	empty, err := pk.Build()
	require.NoError(t, err)

	_, err = Inspect(empty)
	assert.ErrorIs(t, err, ErrNoSlides)
}
