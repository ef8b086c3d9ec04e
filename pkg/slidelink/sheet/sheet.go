// Package sheet converts post-process metadata to and from xlsx workbooks so
// layouts can be reviewed or hand-edited in a spreadsheet.
package sheet

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/erland/pwa-modeller-sub000/pkg/slidelink/models"
	"github.com/erland/pwa-modeller-sub000/pkg/slidelink/parser"
)

// Sheet names used in metadata workbooks.
const (
	NodesSheet = "Nodes"
	EdgesSheet = "Edges"
)

// ErrMissingColumn indicates a required header is absent.
var ErrMissingColumn = errors.New("missing column")

var nodeHeaders = []string{
	"elementId", "name", "typeLabel", "x", "y", "w", "h",
	"fillColor", "strokeColor", "textColor",
}

var edgeHeaders = []string{
	"edgeId", "fromNodeId", "toNodeId", "relationshipType", "linePattern",
	"markerStart", "markerEnd", "pptxHeadEnd", "pptxTailEnd",
	"strokeColor", "strokeWidthPt", "dashed", "x1", "y1", "x2", "y2",
}

// Export writes meta into a new workbook with a Nodes and an Edges sheet.
// Each sheet is formatted as a table; node rows show their fill color.
func Export(meta *models.PostProcessMeta) (*excelize.File, error) {
	if meta == nil {
		meta = &models.PostProcessMeta{}
	}
	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(0), NodesSheet); err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.NewSheet(EdgesSheet); err != nil {
		f.Close()
		return nil, err
	}

	nodeRows := make([][]interface{}, 0, len(meta.Nodes))
	for _, n := range meta.Nodes {
		nodeRows = append(nodeRows, []interface{}{
			n.ElementID, n.Name, n.TypeLabel, n.Rect.X, n.Rect.Y, n.Rect.W, n.Rect.H,
			n.FillColor, n.StrokeColor, n.TextColor,
		})
	}
	if err := writeTable(f, NodesSheet, "NodeTable", nodeHeaders, nodeRows); err != nil {
		f.Close()
		return nil, err
	}
	if err := fillSwatches(f, meta.Nodes); err != nil {
		f.Close()
		return nil, err
	}

	edgeRows := make([][]interface{}, 0, len(meta.Edges))
	for _, e := range meta.Edges {
		edgeRows = append(edgeRows, []interface{}{
			e.EdgeID, e.FromNodeID, e.ToNodeID, e.RelationshipType, e.LinePattern,
			e.MarkerStart, e.MarkerEnd, e.HeadEnd, e.TailEnd,
			e.StrokeColor, e.StrokeWidthPt, e.Dashed, e.X1, e.Y1, e.X2, e.Y2,
		})
	}
	if err := writeTable(f, EdgesSheet, "EdgeTable", edgeHeaders, edgeRows); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}

// WriteFile exports meta to an xlsx file at path.
func WriteFile(meta *models.PostProcessMeta, path string) error {
	f, err := Export(meta)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

func writeTable(f *excelize.File, sheet, table string, headers []string, rows [][]interface{}) error {
	hdr := make([]interface{}, len(headers))
	for i, h := range headers {
		hdr[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &hdr); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	if len(rows) == 0 {
		return nil
	}
	startCell, _ := excelize.CoordinatesToCellName(1, 1)
	endCell, _ := excelize.CoordinatesToCellName(len(headers), len(rows)+1)
	return f.AddTable(sheet, &excelize.Table{
		Range:     fmt.Sprintf("%s:%s", startCell, endCell),
		Name:      table,
		StyleName: "TableStyleLight9",
	})
}

// fillSwatches colors each node's fillColor cell with the normalized color.
func fillSwatches(f *excelize.File, nodes []models.NodeMeta) error {
	col := columnIndex(nodeHeaders, "fillColor") + 1
	styles := make(map[string]int)
	for i, n := range nodes {
		if n.FillColor == "" {
			continue
		}
		hex := parser.NormalizeHex(n.FillColor, parser.DefaultFillHex)
		id, ok := styles[hex]
		if !ok {
			var err error
			id, err = f.NewStyle(&excelize.Style{
				Fill: excelize.Fill{Type: "pattern", Color: []string{hex}, Pattern: 1},
			})
			if err != nil {
				return err
			}
			styles[hex] = id
		}
		cell, _ := excelize.CoordinatesToCellName(col, i+2)
		if err := f.SetCellStyle(NodesSheet, cell, cell, id); err != nil {
			return err
		}
	}
	return nil
}

// ReadMeta reads a workbook produced by Export (or edited by hand). Columns
// are matched by header name in any order; a missing Edges sheet yields no edges.
func ReadMeta(f *excelize.File) (*models.PostProcessMeta, error) {
	meta := &models.PostProcessMeta{}

	rows, err := f.GetRows(NodesSheet)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", NodesSheet, err)
	}
	if len(rows) > 0 {
		cols, err := headerColumns(rows[0], "elementId")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", NodesSheet, err)
		}
		for _, row := range rows[1:] {
			get := cellGetter(row, cols)
			if get("elementId") == "" {
				continue
			}
			meta.Nodes = append(meta.Nodes, models.NodeMeta{
				ElementID: get("elementId"),
				Name:      get("name"),
				TypeLabel: get("typeLabel"),
				Rect: models.RectInches{
					X: parseFloat(get("x")),
					Y: parseFloat(get("y")),
					W: parseFloat(get("w")),
					H: parseFloat(get("h")),
				},
				FillColor:   get("fillColor"),
				StrokeColor: get("strokeColor"),
				TextColor:   get("textColor"),
			})
		}
	}

	if idx, _ := f.GetSheetIndex(EdgesSheet); idx < 0 {
		return meta, nil
	}
	rows, err = f.GetRows(EdgesSheet)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", EdgesSheet, err)
	}
	if len(rows) == 0 {
		return meta, nil
	}
	cols, err := headerColumns(rows[0], "edgeId")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", EdgesSheet, err)
	}
	for _, row := range rows[1:] {
		get := cellGetter(row, cols)
		if get("edgeId") == "" && get("fromNodeId") == "" && get("toNodeId") == "" {
			continue
		}
		meta.Edges = append(meta.Edges, models.EdgeMeta{
			EdgeID:           get("edgeId"),
			FromNodeID:       get("fromNodeId"),
			ToNodeID:         get("toNodeId"),
			RelationshipType: get("relationshipType"),
			LinePattern:      get("linePattern"),
			MarkerStart:      get("markerStart"),
			MarkerEnd:        get("markerEnd"),
			HeadEnd:          get("pptxHeadEnd"),
			TailEnd:          get("pptxTailEnd"),
			StrokeColor:      get("strokeColor"),
			StrokeWidthPt:    parseFloat(get("strokeWidthPt")),
			Dashed:           parseBool(get("dashed")),
			X1:               parseFloat(get("x1")),
			Y1:               parseFloat(get("y1")),
			X2:               parseFloat(get("x2")),
			Y2:               parseFloat(get("y2")),
		})
	}
	return meta, nil
}

// LoadMeta opens an xlsx file and reads its metadata.
func LoadMeta(path string) (*models.PostProcessMeta, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadMeta(f)
}

// headerColumns maps lower-cased header names to column indices.
func headerColumns(header []string, required string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, dup := cols[key]; !dup && key != "" {
			cols[key] = i
		}
	}
	if _, ok := cols[strings.ToLower(required)]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, required)
	}
	return cols, nil
}

func cellGetter(row []string, cols map[string]int) func(string) string {
	return func(name string) string {
		i, ok := cols[strings.ToLower(name)]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
}

func columnIndex(headers []string, name string) int {
	for i, h := range headers {
		if h == name {
			return i
		}
	}
	return -1
}

// parseFloat parses a numeric cell. Blank or non-numeric cells read as 0.
func parseFloat(s string) float64 {
	if s == "" {
		return 0
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return float64(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return 0
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "1", "yes", "x":
		return true
	}
	return false
}
