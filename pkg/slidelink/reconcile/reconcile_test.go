package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erland/pwa-modeller-sub000/pkg/slidelink/marker"
	"github.com/erland/pwa-modeller-sub000/pkg/slidelink/models"
	"github.com/erland/pwa-modeller-sub000/pkg/slidelink/parser"
)

const in = parser.EMUPerInch

func node(id int, x, y, w, h int64, m marker.Marker) parser.ShapeRecord {
	return parser.ShapeRecord{
		ID:      id,
		Kind:    parser.KindNode,
		Rect:    models.RectEMU{X: x, Y: y, CX: w, CY: h},
		HasXfrm: true,
		Marker:  m,
	}
}

func TestBuildNodeMapPrefersMarkers(t *testing.T) {
	shapes := []parser.ShapeRecord{
		node(2, in, in, 2*in, in, &marker.NodeMarker{ID: "a"}),
		node(3, 4*in, in, 2*in, in, nil),
		node(4, 7*in, in, 2*in, in, &marker.NodeMarker{ID: "a"}),
		{ID: 5, Kind: parser.KindLine, Marker: &marker.NodeMarker{ID: "line"}},
	}
	meta := &models.PostProcessMeta{Nodes: []models.NodeMeta{
		{ElementID: "b", Rect: models.RectInches{X: 4, Y: 1, W: 2, H: 1}},
	}}

	res := BuildNodeMap(shapes, meta)
	assert.Equal(t, "marker", res.Strategy)
	assert.Equal(t, []string{"a"}, res.Map.IDs())

	ref, ok := res.Map.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, 2, ref.ShapeID, "first occurrence wins")

	_, ok = res.Map.Lookup("b")
	assert.False(t, ok, "geometry must not run when markers matched")
	assert.Contains(t, res.Notes, `duplicate node marker "a" on shape 4 ignored`)
}

func TestBuildNodeMapGeometryFallback(t *testing.T) {
	shapes := []parser.ShapeRecord{
		node(2, in, in, 2*in, in, nil),
		node(3, 4*in, in, 2*in, in, nil),
	}
	meta := &models.PostProcessMeta{Nodes: []models.NodeMeta{
		{ElementID: "right", Rect: models.RectInches{X: 4.05, Y: 1, W: 2, H: 1}},
		{ElementID: "left", Rect: models.RectInches{X: 0.9, Y: 1.1, W: 2, H: 1}},
	}}

	res := BuildNodeMap(shapes, meta)
	assert.Equal(t, "geometry", res.Strategy)
	assert.Equal(t, 2, res.Map.Len())

	right, _ := res.Map.Lookup("right")
	left, _ := res.Map.Lookup("left")
	assert.Equal(t, 3, right.ShapeID)
	assert.Equal(t, 2, left.ShapeID)
	assert.Contains(t, res.Notes, "geometry fallback matched 2 of 2 nodes")

	id, ok := res.Map.IDForShape(3)
	assert.True(t, ok)
	assert.Equal(t, "right", id)
}

func TestGeometryFallbackIsInjective(t *testing.T) {
	// Every node prefers the same shape; each must still get a distinct one.
	var shapes []parser.ShapeRecord
	for i := 0; i < 5; i++ {
		shapes = append(shapes, node(10+i, int64(i)*in, 0, in, in, nil))
	}
	meta := &models.PostProcessMeta{}
	for _, id := range []string{"n1", "n2", "n3", "n4", "n5"} {
		meta.Nodes = append(meta.Nodes, models.NodeMeta{ElementID: id, Rect: models.RectInches{W: 1, H: 1}})
	}

	res := BuildNodeMap(shapes, meta)
	require.Equal(t, 5, res.Map.Len())

	seen := make(map[int]bool)
	for _, id := range res.Map.IDs() {
		ref, _ := res.Map.Lookup(id)
		assert.False(t, seen[ref.ShapeID], "shape %d assigned twice", ref.ShapeID)
		seen[ref.ShapeID] = true
	}
	first, _ := res.Map.Lookup("n1")
	assert.Equal(t, 10, first.ShapeID)
}

func TestGeometryFallbackTiesKeepDocumentOrder(t *testing.T) {
	shapes := []parser.ShapeRecord{
		node(7, 0, 0, in, in, nil),
		node(3, 0, 0, in, in, nil),
	}
	meta := &models.PostProcessMeta{Nodes: []models.NodeMeta{{ElementID: "x", Rect: models.RectInches{W: 1, H: 1}}}}

	res := BuildNodeMap(shapes, meta)
	ref, ok := res.Map.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, 7, ref.ShapeID)
	assert.Contains(t, res.Notes, "geometry fallback matched 1 of 1 nodes")
}

func TestBuildNodeMapNothingResolved(t *testing.T) {
	res := BuildNodeMap(nil, nil)
	assert.Equal(t, 0, res.Map.Len())
	assert.Empty(t, res.Strategy)
	assert.Contains(t, res.Notes, "no nodes resolved")
}

func TestResolveEndpointsByGeometry(t *testing.T) {
	shapes := []parser.ShapeRecord{
		node(2, 0, 0, in, in, nil),
		node(3, 5*in, 0, in, in, nil),
		{ID: 4, Kind: parser.KindLine, Rect: models.RectEMU{X: in, Y: in / 2, CX: 4 * in}},
	}

	from, to, ok := ResolveEndpointsByGeometry(models.Point{X: in, Y: in / 2}, models.Point{X: 5 * in, Y: in / 2}, shapes)
	require.True(t, ok)
	assert.Equal(t, 2, from.ID)
	assert.Equal(t, 3, to.ID)

	_, _, ok = ResolveEndpointsByGeometry(models.Point{X: 0, Y: 0}, models.Point{X: in, Y: in}, shapes)
	assert.False(t, ok, "both corners nearest to the same shape")

	_, ok = NearestNode(models.Point{}, shapes[2:])
	assert.False(t, ok)
}
