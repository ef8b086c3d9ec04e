package parser

import (
	"math"
	"strconv"
	"strings"

	"github.com/erland/pwa-modeller-sub000/pkg/slidelink/marker"
	"github.com/erland/pwa-modeller-sub000/pkg/slidelink/models"
)

// XML namespaces used in PresentationML slides.
const (
	NsP = "http://schemas.openxmlformats.org/presentationml/2006/main"
	NsA = "http://schemas.openxmlformats.org/drawingml/2006/main"
	NsR = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
)

// ShapeKind classifies a shape element.
type ShapeKind int

const (
	// KindOther covers pictures, graphic frames, groups and placeholders.
	KindOther ShapeKind = iota
	// KindNode is a node-like shape (rectangle, ellipse, text shape...).
	KindNode
	// KindLine is a plain shape drawn with a line preset.
	KindLine
	// KindConnector is a connection shape (cxnSp).
	KindConnector
)

func (k ShapeKind) String() string {
	switch k {
	case KindNode:
		return "node"
	case KindLine:
		return "line"
	case KindConnector:
		return "connector"
	default:
		return "other"
	}
}

// IsLineLike reports whether the kind is a line placeholder or connector.
func (k ShapeKind) IsLineLike() bool {
	return k == KindLine || k == KindConnector
}

// ShapeRecord is a derived view over one shape element. Records are built
// fresh from a Document and never persisted.
type ShapeRecord struct {
	// Index is the element index in the Document.
	Index int
	// Parent is the index of the containing spTree or grpSp.
	Parent int
	// ID is the cNvPr id (0 when missing or invalid).
	ID     int
	Name   string
	Descr  string
	Kind   ShapeKind
	Preset string
	// Rect is the xfrm rectangle; HasXfrm is false when the shape has none.
	Rect    models.RectEMU
	HasXfrm bool
	FlipH   bool
	FlipV   bool
	// StartCxn and EndCxn are connection target ids (0 when unattached).
	StartCxn int
	EndCxn   int
	HeadEnd  string
	TailEnd  string
	// Marker is the decoded name/description marker, or nil.
	Marker marker.Marker
}

// Endpoints returns the line start and end points, honoring flips.
func (s ShapeRecord) Endpoints() (start, end models.Point) {
	x1, x2 := s.Rect.X, s.Rect.Right()
	y1, y2 := s.Rect.Y, s.Rect.Bottom()
	if s.FlipH {
		x1, x2 = x2, x1
	}
	if s.FlipV {
		y1, y2 = y2, y1
	}
	return models.Point{X: x1, Y: y1}, models.Point{X: x2, Y: y2}
}

// Attached reports whether both connector ends reference shapes.
func (s ShapeRecord) Attached() bool {
	return s.StartCxn != 0 && s.EndCxn != 0
}

// Direction is the compass heading from start to end, or "" for a point.
func (s ShapeRecord) Direction() string {
	start, end := s.Endpoints()
	return computeDirection(end.X-start.X, end.Y-start.Y)
}

// Info converts the record into its JSON inspection view.
func (s ShapeRecord) Info() models.ShapeInfo {
	info := models.ShapeInfo{
		ID:          s.ID,
		Kind:        s.Kind.String(),
		Name:        s.Name,
		Description: s.Descr,
		Preset:      s.Preset,
		Rect:        s.Rect,
		WidthPx:     EMUToPixels(s.Rect.CX),
		HeightPx:    EMUToPixels(s.Rect.CY),
		HeadEnd:     s.HeadEnd,
		TailEnd:     s.TailEnd,
	}
	if s.Marker != nil {
		info.Marker = s.Marker.String()
	}
	if s.Kind.IsLineLike() {
		info.Direction = s.Direction()
	}
	if s.StartCxn != 0 {
		id := s.StartCxn
		info.BeginID = &id
	}
	if s.EndCxn != 0 {
		id := s.EndCxn
		info.EndID = &id
	}
	return info
}

// ShapeTree returns the index of the slide's spTree element, or -1.
func ShapeTree(doc *Document) int {
	return doc.Find(doc.Root(), "spTree")
}

// ReadShapes walks the shape tree, including group contents, and returns
// records in document order.
func ReadShapes(doc *Document) []ShapeRecord {
	tree := ShapeTree(doc)
	if tree < 0 {
		return nil
	}
	var out []ShapeRecord
	readContainer(doc, tree, &out)
	return out
}

func readContainer(doc *Document, container int, out *[]ShapeRecord) {
	for _, c := range doc.Elements(container) {
		switch doc.Node(c).Name.Local {
		case "sp":
			*out = append(*out, readShape(doc, c, container, false))
		case "cxnSp":
			*out = append(*out, readShape(doc, c, container, true))
		case "pic", "graphicFrame", "contentPart":
			rec := readShape(doc, c, container, false)
			rec.Kind = KindOther
			*out = append(*out, rec)
		case "grpSp":
			rec := readShape(doc, c, container, false)
			rec.Kind = KindOther
			*out = append(*out, rec)
			readContainer(doc, c, out)
		}
	}
}

func readShape(doc *Document, idx, parent int, isCxnSp bool) ShapeRecord {
	rec := ShapeRecord{Index: idx, Parent: parent}

	nv := firstNonVisual(doc, idx)
	cNvPr := doc.FirstChild(nv, "cNvPr")
	if v, ok := doc.Attr(cNvPr, "id"); ok {
		if id, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && id > 0 {
			rec.ID = id
		}
	}
	rec.Name, _ = doc.Attr(cNvPr, "name")
	rec.Descr, _ = doc.Attr(cNvPr, "descr")
	rec.Marker = marker.FromShape(rec.Name, rec.Descr)

	spPr := doc.FirstChild(idx, "spPr")
	if spPr < 0 {
		spPr = doc.FirstChild(idx, "grpSpPr")
	}
	if spPr < 0 {
		// graphicFrame carries its transform directly.
		spPr = idx
	}
	if rect, flipH, flipV, ok := ReadXfrm(doc, spPr); ok {
		rec.Rect, rec.FlipH, rec.FlipV, rec.HasXfrm = rect, flipH, flipV, true
	}
	if geom := doc.FirstChild(spPr, "prstGeom"); geom >= 0 {
		rec.Preset, _ = doc.Attr(geom, "prst")
	}
	if ln := doc.FirstChild(spPr, "ln"); ln >= 0 {
		rec.HeadEnd, _ = doc.Attr(doc.FirstChild(ln, "headEnd"), "type")
		rec.TailEnd, _ = doc.Attr(doc.FirstChild(ln, "tailEnd"), "type")
	}

	if isCxnSp {
		rec.Kind = KindConnector
		cNvCxnSpPr := doc.FirstChild(nv, "cNvCxnSpPr")
		rec.StartCxn = attrInt(doc, doc.FirstChild(cNvCxnSpPr, "stCxn"), "id")
		rec.EndCxn = attrInt(doc, doc.FirstChild(cNvCxnSpPr, "endCxn"), "id")
		return rec
	}

	switch {
	case isPlaceholder(doc, nv):
		rec.Kind = KindOther
	case isConnectorShape(rec.Preset):
		rec.Kind = KindLine
	case rec.HasXfrm:
		rec.Kind = KindNode
	default:
		rec.Kind = KindOther
	}
	return rec
}

// firstNonVisual returns the nv*Pr child (nvSpPr, nvCxnSpPr, nvPicPr, ...).
func firstNonVisual(doc *Document, idx int) int {
	for _, c := range doc.Elements(idx) {
		local := doc.Node(c).Name.Local
		if strings.HasPrefix(local, "nv") && strings.HasSuffix(local, "Pr") {
			return c
		}
	}
	return -1
}

func isPlaceholder(doc *Document, nv int) bool {
	return doc.Path(nv, "nvPr", "ph") >= 0
}

// isConnectorShape checks if a preset geometry draws a line or connector.
func isConnectorShape(prst string) bool {
	p := strings.ToLower(prst)
	return p == "line" || p == "lineinv" || strings.Contains(p, "connector")
}

// ReadXfrm reads the a:xfrm child of parent (an spPr-like element).
func ReadXfrm(doc *Document, parent int) (rect models.RectEMU, flipH, flipV, ok bool) {
	xfrm := doc.FirstChild(parent, "xfrm")
	if xfrm < 0 {
		return models.RectEMU{}, false, false, false
	}
	off := doc.FirstChild(xfrm, "off")
	ext := doc.FirstChild(xfrm, "ext")
	if off < 0 || ext < 0 {
		return models.RectEMU{}, false, false, false
	}
	rect = models.NewRectEMU(
		attrInt64(doc, off, "x"),
		attrInt64(doc, off, "y"),
		attrInt64(doc, ext, "cx"),
		attrInt64(doc, ext, "cy"),
	)
	flipH = attrBool(doc, xfrm, "flipH")
	flipV = attrBool(doc, xfrm, "flipV")
	return rect, flipH, flipV, true
}

// XfrmElement builds an a:xfrm block using the given DrawingML prefix.
func XfrmElement(prefix string, rect models.RectEMU, flipH, flipV bool) *Element {
	xfrm := E(Q(prefix, "xfrm"))
	if flipH {
		xfrm.SetAttr("flipH", "1")
	}
	if flipV {
		xfrm.SetAttr("flipV", "1")
	}
	return xfrm.Add(
		E(Q(prefix, "off"), "x", itoa(rect.X), "y", itoa(rect.Y)),
		E(Q(prefix, "ext"), "cx", itoa(rect.CX), "cy", itoa(rect.CY)),
	)
}

// MaxShapeID returns the highest cNvPr id anywhere in the document.
func MaxShapeID(doc *Document) int {
	maxID := 0
	for _, i := range doc.FindAll(doc.Root(), "cNvPr") {
		if id := attrInt(doc, i, "id"); id > maxID {
			maxID = id
		}
	}
	return maxID
}

// Prefixes returns the PresentationML and DrawingML prefixes declared on the
// document element, defaulting to "p" and "a".
func Prefixes(doc *Document) (p, a string) {
	p, a = "p", "a"
	if v, ok := doc.PrefixFor(NsP); ok {
		p = v
	}
	if v, ok := doc.PrefixFor(NsA); ok {
		a = v
	}
	return p, a
}

// Q joins a namespace prefix and local name into a qualified name.
func Q(prefix, local string) string {
	if prefix == "" {
		return local
	}
	return prefix + ":" + local
}

// computeDirection computes compass direction from a line's delta.
func computeDirection(dx, dy int64) string {
	if dx == 0 && dy == 0 {
		return ""
	}

	angle := math.Atan2(float64(-dy), float64(dx)) * 180 / math.Pi
	if angle < 0 {
		angle += 360
	}

	switch {
	case angle >= 337.5 || angle < 22.5:
		return "E"
	case angle >= 22.5 && angle < 67.5:
		return "NE"
	case angle >= 67.5 && angle < 112.5:
		return "N"
	case angle >= 112.5 && angle < 157.5:
		return "NW"
	case angle >= 157.5 && angle < 202.5:
		return "W"
	case angle >= 202.5 && angle < 247.5:
		return "SW"
	case angle >= 247.5 && angle < 292.5:
		return "S"
	default:
		return "SE"
	}
}

func attrInt(doc *Document, i int, local string) int {
	v, ok := doc.Attr(i, local)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0
	}
	return n
}

func attrInt64(doc *Document, i int, local string) int64 {
	v, ok := doc.Attr(i, local)
	if !ok {
		return 0
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func attrBool(doc *Document, i int, local string) bool {
	v, _ := doc.Attr(i, local)
	return v == "1" || v == "true"
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
