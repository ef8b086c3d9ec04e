// Package connector rewrites the edge shapes of a generated slide as native
// connectors attached to their endpoint nodes.
package connector

import (
	"errors"
	"fmt"
	"strings"

	"github.com/erland/pwa-modeller-sub000/pkg/slidelink/marker"
	"github.com/erland/pwa-modeller-sub000/pkg/slidelink/models"
	"github.com/erland/pwa-modeller-sub000/pkg/slidelink/parser"
	"github.com/erland/pwa-modeller-sub000/pkg/slidelink/reconcile"
	"github.com/erland/pwa-modeller-sub000/pkg/slidelink/style"
)

// MinExtentEMU is the smallest connector box extent on either axis.
const MinExtentEMU = 10000

// Mode selects how connectors are produced.
type Mode string

const (
	// ModeAuto rebuilds from metadata when every edge names its endpoints
	// and replaces placeholders otherwise.
	ModeAuto Mode = "auto"
	// ModeReplace converts existing line placeholders in place.
	ModeReplace Mode = "replace"
	// ModeRebuild drops all lines and emits one connector per edge.
	ModeRebuild Mode = "rebuild"
)

// ErrUnknownMode is returned by ParseMode for unrecognized names.
var ErrUnknownMode = errors.New("unknown connector mode")

// ErrNoShapeTree is returned for slide markup without a p:spTree.
var ErrNoShapeTree = errors.New("slide has no shape tree")

// ParseMode converts a mode name. The empty string selects ModeAuto.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeAuto, nil
	case ModeAuto, ModeReplace, ModeRebuild:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Options configures Rebuild.
type Options struct {
	Mode Mode
}

// Result is the outcome of rebuilding one slide.
type Result struct {
	// Markup is the rewritten slide. It is the input unchanged when nothing
	// was edited.
	Markup []byte
	// Mode is the mode actually applied (never ModeAuto).
	Mode     Mode
	Replaced int
	Skipped  int
	Notes    []string
}

// Rebuild rewrites the connectors of one slide. Errors are returned only for
// markup that cannot be parsed or has no shape tree; unresolved edges are
// counted as skipped.
func Rebuild(markup []byte, meta *models.PostProcessMeta, opts Options) (Result, error) {
	doc, err := parser.Parse(markup)
	if err != nil {
		return Result{}, fmt.Errorf("parse slide: %w", err)
	}
	tree := parser.ShapeTree(doc)
	if tree < 0 {
		return Result{}, ErrNoShapeTree
	}

	r := &rebuilder{
		doc:    doc,
		tree:   tree,
		meta:   meta,
		shapes: parser.ReadShapes(doc),
		edits:  parser.NewEdits(),
		res:    Result{Mode: selectMode(opts.Mode, meta)},
	}
	r.p, r.a = parser.Prefixes(doc)
	r.nextID = parser.MaxShapeID(doc) + 1
	r.anchor = firstNodeShape(r.shapes, tree)

	nodes := reconcile.BuildNodeMap(r.shapes, meta)
	r.nodes = nodes.Map
	r.note(nodes.Notes...)

	if r.res.Mode == ModeRebuild {
		r.rebuildFromMeta()
	} else {
		r.replacePlaceholders()
	}

	if r.edits.Empty() {
		r.res.Markup = markup
	} else {
		r.res.Markup = doc.Apply(r.edits).Serialize()
	}
	r.note(fmt.Sprintf("%s: replaced %d, skipped %d", r.res.Mode, r.res.Replaced, r.res.Skipped))
	return r.res, nil
}

func selectMode(m Mode, meta *models.PostProcessMeta) Mode {
	switch m {
	case ModeReplace, ModeRebuild:
		return m
	}
	if meta.FullEdgeMeta() {
		return ModeRebuild
	}
	return ModeReplace
}

// firstNodeShape returns the document index of the first node-like shape
// directly under the shape tree, or -1.
func firstNodeShape(shapes []parser.ShapeRecord, tree int) int {
	for _, s := range shapes {
		if s.Parent == tree && s.Kind == parser.KindNode {
			return s.Index
		}
	}
	return -1
}

type rebuilder struct {
	doc    *parser.Document
	tree   int
	anchor int
	p, a   string
	nextID int
	meta   *models.PostProcessMeta
	shapes []parser.ShapeRecord
	nodes  reconcile.NodeMap
	edits  *parser.Edits
	res    Result
}

func (r *rebuilder) note(notes ...string) {
	r.res.Notes = append(r.res.Notes, notes...)
}

func (r *rebuilder) allocID() int {
	id := r.nextID
	r.nextID++
	return id
}

// emit places a connector before the first node-like shape so connectors
// render underneath nodes.
func (r *rebuilder) emit(c cxnShape) {
	el := c.element(r.p, r.a)
	if r.anchor >= 0 {
		r.edits.InsertBefore(r.anchor, el)
	} else {
		r.edits.Append(r.tree, el)
	}
	r.res.Replaced++
}

func (r *rebuilder) rebuildFromMeta() {
	if r.meta == nil || len(r.meta.Edges) == 0 {
		r.note("no edges in meta; slide left unchanged")
		return
	}
	if r.nodes.Len() == 0 {
		r.res.Skipped = len(r.meta.Edges)
		r.note("no nodes resolved; slide left unchanged")
		return
	}

	removed := 0
	for _, s := range r.shapes {
		if s.Kind.IsLineLike() {
			r.edits.Remove(s.Index)
			removed++
		}
	}
	if removed > 0 {
		r.note(fmt.Sprintf("removed %d existing lines", removed))
	}

	for i := range r.meta.Edges {
		edge := &r.meta.Edges[i]
		from, okFrom := r.nodes.Lookup(edge.FromNodeID)
		to, okTo := r.nodes.Lookup(edge.ToNodeID)
		if !okFrom || !okTo || from.ShapeID == to.ShapeID {
			r.res.Skipped++
			r.note(fmt.Sprintf("edge %q skipped: endpoints %q -> %q unresolved", edge.EdgeID, edge.FromNodeID, edge.ToNodeID))
			continue
		}

		st := style.Resolve(edge, nil, "")
		rect, flipH, flipV := spanBox(from.Rect, to.Rect)
		stIdx, endIdx := anchors(from.Rect, to.Rect)
		id := r.allocID()

		r.emit(cxnShape{
			ID:       id,
			Name:     fmt.Sprintf("Connector %d", id),
			Descr:    edgeDescr(edge.EdgeID, edge.FromNodeID, edge.ToNodeID, edge.RelationshipType, st),
			Rect:     rect,
			FlipH:    flipH,
			FlipV:    flipV,
			StartID:  from.ShapeID,
			StartIdx: stIdx,
			EndID:    to.ShapeID,
			EndIdx:   endIdx,
			Line:     styleLine(parser.E(parser.Q(r.a, "ln")), r.a, st, edge, true),
		})
	}
}

// endpoints is a placeholder resolved to two node shapes.
type endpoints struct {
	fromID, toID string
	from, to     reconcile.NodeRef
	edge         *models.EdgeMeta
	relType      string
	hints        *marker.Hints
	source       string
}

func (r *rebuilder) replacePlaceholders() {
	candidates := reconcile.NodeCandidates(r.shapes)
	for _, s := range r.shapes {
		if !s.Kind.IsLineLike() || s.Attached() {
			continue
		}
		ep, ok := r.resolve(s, candidates)
		if !ok {
			r.res.Skipped++
			r.note(fmt.Sprintf("line %d skipped: endpoints unresolved", s.ID))
			continue
		}

		st := style.Resolve(ep.edge, ep.hints, ep.relType)
		stIdx, endIdx := anchors(ep.from.Rect, ep.to.Rect)

		id := s.ID
		if id <= 0 {
			id = r.allocID()
		}
		descr := s.Descr
		if marker.FromShape("", s.Descr) == nil {
			edgeID := ""
			if ep.edge != nil {
				edgeID = ep.edge.EdgeID
			}
			if d := edgeDescr(edgeID, ep.fromID, ep.toID, ep.relType, st); d != "" {
				descr = d
			}
		}

		rect, flipH, flipV := s.Rect, s.FlipH, s.FlipV
		if !s.HasXfrm {
			rect, flipH, flipV = spanBox(ep.from.Rect, ep.to.Rect)
		}

		r.edits.Remove(s.Index)
		r.emit(cxnShape{
			ID:       id,
			Name:     s.Name,
			Descr:    descr,
			Rect:     rect,
			FlipH:    flipH,
			FlipV:    flipV,
			StartID:  ep.from.ShapeID,
			StartIdx: stIdx,
			EndID:    ep.to.ShapeID,
			EndIdx:   endIdx,
			Line:     styleLine(r.copyLine(s), r.a, st, ep.edge, false),
			Style:    r.copyChild(s.Index, "style"),
		})
		r.note(fmt.Sprintf("line %d attached by %s", s.ID, ep.source))
	}
}

// resolve finds the endpoints of a placeholder: EA_EDGEID marker, then
// EA_EDGE marker, then nearest nodes to the line corners.
func (r *rebuilder) resolve(s parser.ShapeRecord, candidates []parser.ShapeRecord) (endpoints, bool) {
	switch m := s.Marker.(type) {
	case *marker.EdgeIDMarker:
		edge := r.meta.EdgeByID(m.EdgeID)
		fromID, toID, relType := m.From, m.To, m.RelationshipType
		if !m.HasEndpoints() && edge != nil {
			fromID, toID = edge.FromNodeID, edge.ToNodeID
		}
		if relType == "" && edge != nil {
			relType = edge.RelationshipType
		}
		hints := m.Hints
		if ep, ok := r.lookupPair(fromID, toID); ok {
			ep.edge, ep.relType, ep.hints, ep.source = edge, relType, &hints, "edge id marker"
			return ep, true
		}
	case *marker.EdgeMarker:
		if ep, ok := r.lookupPair(m.From, m.To); ok {
			ep.edge, ep.relType, ep.source = findEdge(r.meta, m.From, m.To), m.RelationshipType, "edge marker"
			return ep, true
		}
	}

	start, end := s.Endpoints()
	from, to, ok := reconcile.ResolveEndpointsByGeometry(start, end, candidates)
	if !ok {
		return endpoints{}, false
	}
	ep := endpoints{
		from:   reconcile.NodeRef{ShapeID: from.ID, Rect: from.Rect},
		to:     reconcile.NodeRef{ShapeID: to.ID, Rect: to.Rect},
		source: "geometry",
	}
	ep.fromID, _ = r.nodes.IDForShape(from.ID)
	ep.toID, _ = r.nodes.IDForShape(to.ID)
	if ep.fromID != "" && ep.toID != "" {
		ep.edge = findEdge(r.meta, ep.fromID, ep.toID)
	}
	if ep.edge != nil {
		ep.relType = ep.edge.RelationshipType
	}
	return ep, true
}

func (r *rebuilder) lookupPair(fromID, toID string) (endpoints, bool) {
	if fromID == "" || toID == "" {
		return endpoints{}, false
	}
	from, okFrom := r.nodes.Lookup(fromID)
	to, okTo := r.nodes.Lookup(toID)
	if !okFrom || !okTo || from.ShapeID == to.ShapeID {
		return endpoints{}, false
	}
	return endpoints{fromID: fromID, toID: toID, from: from, to: to}, true
}

// copyLine returns a detached copy of the placeholder's a:ln, or a new one.
func (r *rebuilder) copyLine(s parser.ShapeRecord) *parser.Element {
	spPr := r.doc.FirstChild(s.Index, "spPr")
	if ln := r.doc.FirstChild(spPr, "ln"); ln >= 0 {
		return r.doc.Extract(ln).TrimSpace()
	}
	return parser.E(parser.Q(r.a, "ln"))
}

func (r *rebuilder) copyChild(parent int, local string) *parser.Element {
	if c := r.doc.FirstChild(parent, local); c >= 0 {
		return r.doc.Extract(c).TrimSpace()
	}
	return nil
}

// findEdge returns the first edge joining from and to, in either order.
func findEdge(meta *models.PostProcessMeta, from, to string) *models.EdgeMeta {
	if meta == nil {
		return nil
	}
	for i := range meta.Edges {
		e := &meta.Edges[i]
		if e.FromNodeID == from && e.ToNodeID == to {
			return e
		}
	}
	for i := range meta.Edges {
		e := &meta.Edges[i]
		if e.FromNodeID == to && e.ToNodeID == from {
			return e
		}
	}
	return nil
}

// edgeDescr formats the marker written to a new connector's description.
// Without an edge id the legacy EA_EDGE form is used.
func edgeDescr(edgeID, from, to, relType string, st style.Resolved) string {
	if edgeID != "" {
		return marker.FormatEdgeID(marker.EdgeIDMarker{
			EdgeID:           edgeID,
			From:             from,
			To:               to,
			RelationshipType: relType,
			Hints:            marker.Hints{Head: st.Head, Tail: st.Tail, Pattern: st.Pattern},
		})
	}
	if from != "" && to != "" {
		return marker.FormatEdge(from, to, relType)
	}
	return ""
}
