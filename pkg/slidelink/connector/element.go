package connector

import (
	"strconv"

	"github.com/erland/pwa-modeller-sub000/pkg/slidelink/marker"
	"github.com/erland/pwa-modeller-sub000/pkg/slidelink/models"
	"github.com/erland/pwa-modeller-sub000/pkg/slidelink/parser"
	"github.com/erland/pwa-modeller-sub000/pkg/slidelink/style"
)

// Connection site indices on a rectangle.
const (
	SiteTop    = 0
	SiteLeft   = 1
	SiteBottom = 2
	SiteRight  = 3
)

// Elements that may follow a:prstDash inside a:ln, in schema order.
var afterDash = []string{"round", "bevel", "miter", "headEnd", "tailEnd", "extLst"}

// cxnShape describes one connector to emit.
type cxnShape struct {
	ID       int
	Name     string
	Descr    string
	Rect     models.RectEMU
	FlipH    bool
	FlipV    bool
	StartID  int
	StartIdx int
	EndID    int
	EndIdx   int
	Line     *parser.Element
	// Style is an optional p:style block copied from a placeholder.
	Style *parser.Element
}

// element builds the p:cxnSp markup. Child order is nvCxnSpPr, spPr, style.
func (c cxnShape) element(p, a string) *parser.Element {
	cNvPr := parser.E(parser.Q(p, "cNvPr"), "id", strconv.Itoa(c.ID), "name", c.Name)
	if c.Descr != "" {
		cNvPr.SetAttr("descr", c.Descr)
	}

	nv := parser.E(parser.Q(p, "nvCxnSpPr")).Add(
		cNvPr,
		parser.E(parser.Q(p, "cNvCxnSpPr")).Add(
			parser.E(parser.Q(a, "stCxn"), "id", strconv.Itoa(c.StartID), "idx", strconv.Itoa(c.StartIdx)),
			parser.E(parser.Q(a, "endCxn"), "id", strconv.Itoa(c.EndID), "idx", strconv.Itoa(c.EndIdx)),
		),
		parser.E(parser.Q(p, "nvPr")),
	)

	spPr := parser.E(parser.Q(p, "spPr")).Add(
		parser.XfrmElement(a, c.Rect, c.FlipH, c.FlipV),
		parser.E(parser.Q(a, "prstGeom"), "prst", "straightConnector1").Add(parser.E(parser.Q(a, "avLst"))),
		c.Line,
	)

	return parser.E(parser.Q(p, "cxnSp")).Add(nv, spPr, c.Style)
}

// styleLine rewrites dash and arrow ends of an a:ln element in place. Stroke
// color and width are applied when the edge names them, or always when
// force is set.
func styleLine(ln *parser.Element, a string, st style.Resolved, edge *models.EdgeMeta, force bool) *parser.Element {
	hex, width := style.Stroke(edge)

	if force || (edge != nil && edge.StrokeWidthPt > 0) {
		ln.SetAttr("w", strconv.FormatInt(width, 10))
	} else if _, ok := ln.Attr("w"); !ok {
		ln.SetAttr("w", strconv.FormatInt(width, 10))
	}

	hasFill := ln.Child("solidFill") != nil || ln.Child("noFill") != nil ||
		ln.Child("gradFill") != nil || ln.Child("pattFill") != nil
	if force || !hasFill || (edge != nil && edge.StrokeColor != "") {
		ln.RemoveChildren("noFill", "solidFill", "gradFill", "pattFill")
		fill := parser.E(parser.Q(a, "solidFill")).Add(parser.E(parser.Q(a, "srgbClr"), "val", hex))
		ln.InsertBefore(fill, append([]string{"prstDash", "custDash"}, afterDash...)...)
	}

	ln.RemoveChildren("prstDash", "custDash", "headEnd", "tailEnd")
	ln.InsertBefore(parser.E(parser.Q(a, "prstDash"), "val", st.Dash), afterDash...)
	if st.Head != "" && st.Head != marker.ArrowNone {
		ln.InsertBefore(parser.E(parser.Q(a, "headEnd"), "type", string(st.Head)), "tailEnd", "extLst")
	}
	if st.Tail != "" && st.Tail != marker.ArrowNone {
		ln.InsertBefore(parser.E(parser.Q(a, "tailEnd"), "type", string(st.Tail)), "extLst")
	}
	return ln
}

// anchors picks connection sites from the relative position of two nodes.
// The dominant axis decides between left/right and top/bottom attachment.
func anchors(from, to models.RectEMU) (startIdx, endIdx int) {
	c1, c2 := from.Center(), to.Center()
	dx, dy := c2.X-c1.X, c2.Y-c1.Y
	if abs(dx) >= abs(dy) {
		if dx >= 0 {
			return SiteRight, SiteLeft
		}
		return SiteLeft, SiteRight
	}
	if dy >= 0 {
		return SiteBottom, SiteTop
	}
	return SiteTop, SiteBottom
}

// spanBox is the connector box between two node centers. Each extent is at
// least MinExtentEMU.
func spanBox(from, to models.RectEMU) (rect models.RectEMU, flipH, flipV bool) {
	c1, c2 := from.Center(), to.Center()
	rect = models.RectEMU{
		X:  min(c1.X, c2.X),
		Y:  min(c1.Y, c2.Y),
		CX: max(abs(c2.X-c1.X), MinExtentEMU),
		CY: max(abs(c2.Y-c1.Y), MinExtentEMU),
	}
	return rect, c2.X < c1.X, c2.Y < c1.Y
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
