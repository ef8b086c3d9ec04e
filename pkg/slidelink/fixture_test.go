package slidelink

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"github.com/erland/pwa-modeller-sub000/pkg/slidelink/models"
	"github.com/erland/pwa-modeller-sub000/pkg/slidelink/packager"
	"github.com/erland/pwa-modeller-sub000/pkg/slidelink/parser"
)

const contentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
	`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="xml" ContentType="application/xml"/></Types>`

func slideXML(body string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n" +
		`<p:sld xmlns:a="` + parser.NsA + `" xmlns:r="` + parser.NsR + `" xmlns:p="` + parser.NsP + `">` +
		`<p:cSld><p:spTree>` +
		`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>` +
		body +
		`</p:spTree></p:cSld></p:sld>`
}

func rectShape(id int, descr string, x, y, w, h float64) string {
	return fmt.Sprintf(`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="Shape %d" descr="%s"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr>`+
		`<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr></p:sp>`,
		id, id, descr, parser.InchesToEMU(x), parser.InchesToEMU(y), parser.InchesToEMU(w), parser.InchesToEMU(h))
}

func lineShape(id int, x, y, w float64) string {
	return fmt.Sprintf(`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="Line %d"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr>`+
		`<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="0"/></a:xfrm><a:prstGeom prst="line"><a:avLst/></a:prstGeom></p:spPr></p:sp>`,
		id, id, parser.InchesToEMU(x), parser.InchesToEMU(y), parser.InchesToEMU(w))
}

// twoNodeSlide has nodes a (1,1,2,1) and b (4,1,2,1) joined by a plain line.
func twoNodeSlide() string {
	return slideXML(rectShape(2, "EA_NODE:a", 1, 1, 2, 1) + rectShape(3, "EA_NODE:b", 4, 1, 2, 1) + lineShape(4, 3, 1.5, 1))
}

func fullMeta() *models.PostProcessMeta {
	return &models.PostProcessMeta{
		Nodes: []models.NodeMeta{
			{ElementID: "a", Rect: models.RectInches{X: 1, Y: 1, W: 2, H: 1}},
			{ElementID: "b", Rect: models.RectInches{X: 4, Y: 1, W: 2, H: 1}},
		},
		Edges: []models.EdgeMeta{
			{EdgeID: "e1", FromNodeID: "a", ToNodeID: "b", Dashed: true, MarkerEnd: "arrow"},
		},
	}
}

type part struct {
	name string
	data string
}

// buildPackage assembles a two-slide package; overrides replace part data by name.
func buildPackage(t *testing.T, overrides map[string]string) []byte {
	t.Helper()
	parts := []part{
		{"[Content_Types].xml", contentTypes},
		{"ppt/presentation.xml", `<p:presentation xmlns:p="` + parser.NsP + `" xmlns:r="` + parser.NsR + `">` +
			`<p:sldIdLst><p:sldId id="256" r:id="rId2"/><p:sldId id="257" r:id="rId3"/></p:sldIdLst></p:presentation>`},
		{"ppt/_rels/presentation.xml.rels", `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
			`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide1.xml"/>` +
			`<Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide2.xml"/>` +
			`</Relationships>`},
		{"ppt/slides/slide1.xml", twoNodeSlide()},
		{"ppt/slides/slide2.xml", slideXML(rectShape(2, "", 1, 1, 1, 1))},
		{"docProps/app.xml", `<Properties>payload-app</Properties>`},
	}

	pk := packager.New()
	for _, p := range parts {
		data := p.data
		if o, ok := overrides[p.name]; ok {
			data = o
		}
		pk.AddText(p.name, data)
	}
	out, err := pk.Build()
	require.NoError(t, err)
	return out
}

func readParts(t *testing.T, data []byte) ([]string, map[string][]byte) {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	var names []string
	contents := make(map[string][]byte)
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		names = append(names, f.Name)
		contents[f.Name] = b
	}
	return names, contents
}

func quietOptions() Options {
	opts := DefaultOptions()
	opts.Logger = log.New(io.Discard)
	return opts
}
