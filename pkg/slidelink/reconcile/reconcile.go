package reconcile

import (
	"fmt"

	"github.com/erland/pwa-modeller-sub000/pkg/slidelink/marker"
	"github.com/erland/pwa-modeller-sub000/pkg/slidelink/models"
	"github.com/erland/pwa-modeller-sub000/pkg/slidelink/parser"
)

// Strategy is one tier of node resolution. Match returns the mappings it
// found plus diagnostic notes; an empty map passes control to the next tier.
type Strategy struct {
	Name  string
	Match func(candidates []parser.ShapeRecord, meta *models.PostProcessMeta) (NodeMap, []string)
}

// ByMarker maps every node-like shape carrying an EA_NODE marker.
var ByMarker = Strategy{Name: "marker", Match: matchByMarker}

// ByGeometry greedily assigns each NodeMeta the closest unused shape.
var ByGeometry = Strategy{Name: "geometry", Match: matchByGeometry}

// DefaultChain is the resolution order used by BuildNodeMap.
var DefaultChain = []Strategy{ByMarker, ByGeometry}

// Result is the outcome of node resolution.
type Result struct {
	Map NodeMap
	// Strategy names the tier that produced Map, or "" when none matched.
	Strategy string
	Notes    []string
}

// BuildNodeMap resolves nodes using DefaultChain.
func BuildNodeMap(shapes []parser.ShapeRecord, meta *models.PostProcessMeta) Result {
	return Run(DefaultChain, shapes, meta)
}

// Run tries each strategy in order; the first one producing at least one
// mapping wins and later tiers are not consulted.
func Run(chain []Strategy, shapes []parser.ShapeRecord, meta *models.PostProcessMeta) Result {
	candidates := NodeCandidates(shapes)
	var res Result
	for _, s := range chain {
		m, notes := s.Match(candidates, meta)
		res.Notes = append(res.Notes, notes...)
		if m.Len() > 0 {
			res.Map = m
			res.Strategy = s.Name
			return res
		}
	}
	res.Notes = append(res.Notes, "no nodes resolved")
	return res
}

// NodeCandidates returns the node-like shapes that have an id.
func NodeCandidates(shapes []parser.ShapeRecord) []parser.ShapeRecord {
	var out []parser.ShapeRecord
	for _, s := range shapes {
		if s.Kind == parser.KindNode && s.ID > 0 {
			out = append(out, s)
		}
	}
	return out
}

func matchByMarker(candidates []parser.ShapeRecord, _ *models.PostProcessMeta) (NodeMap, []string) {
	var b nodeMapBuilder
	var notes []string
	for _, s := range candidates {
		nm, ok := s.Marker.(*marker.NodeMarker)
		if !ok {
			continue
		}
		if !b.add(nm.ID, NodeRef{ShapeID: s.ID, Rect: s.Rect}) {
			notes = append(notes, fmt.Sprintf("duplicate node marker %q on shape %d ignored", nm.ID, s.ID))
		}
	}
	m := b.build()
	if m.Len() > 0 {
		notes = append(notes, fmt.Sprintf("marker mapping matched %d nodes", m.Len()))
	}
	return m, notes
}

func matchByGeometry(candidates []parser.ShapeRecord, meta *models.PostProcessMeta) (NodeMap, []string) {
	if meta == nil || len(meta.Nodes) == 0 {
		return NodeMap{}, nil
	}

	var b nodeMapBuilder
	used := make([]bool, len(candidates))
	requested := 0
	for _, n := range meta.Nodes {
		if n.ElementID == "" {
			continue
		}
		requested++
		want := parser.RectToEMU(n.Rect)

		best := -1
		var bestScore int64
		for i, c := range candidates {
			if used[i] {
				continue
			}
			score := parser.RectScore(want, c.Rect)
			if best < 0 || score < bestScore {
				best, bestScore = i, score
			}
		}
		if best < 0 {
			continue
		}
		if b.add(n.ElementID, NodeRef{ShapeID: candidates[best].ID, Rect: candidates[best].Rect}) {
			used[best] = true
		}
	}

	m := b.build()
	return m, []string{fmt.Sprintf("geometry fallback matched %d of %d nodes", m.Len(), requested)}
}

// NearestNode returns the node-like shape whose center is closest to p.
// Ties keep the earliest shape in document order.
func NearestNode(p models.Point, shapes []parser.ShapeRecord) (parser.ShapeRecord, bool) {
	best := -1
	var bestDist float64
	for i, s := range shapes {
		if s.Kind != parser.KindNode || s.ID <= 0 {
			continue
		}
		d := parser.CenterDistSq(p, s.Rect)
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return parser.ShapeRecord{}, false
	}
	return shapes[best], true
}

// ResolveEndpointsByGeometry snaps both line corners to their nearest nodes.
// The match is rejected when both corners land on the same shape.
func ResolveEndpointsByGeometry(start, end models.Point, candidates []parser.ShapeRecord) (from, to parser.ShapeRecord, ok bool) {
	from, okFrom := NearestNode(start, candidates)
	to, okTo := NearestNode(end, candidates)
	if !okFrom || !okTo || from.ID == to.ID {
		return parser.ShapeRecord{}, parser.ShapeRecord{}, false
	}
	return from, to, true
}
