// Package reconcile maps semantic node ids onto the anonymous shapes of a
// generated slide.
package reconcile

import "github.com/erland/pwa-modeller-sub000/pkg/slidelink/models"

// NodeRef locates a semantic node on the slide.
type NodeRef struct {
	ShapeID int
	Rect    models.RectEMU
}

// NodeMap maps element ids to shapes. It is read-only once built.
type NodeMap struct {
	ids  []string
	refs map[string]NodeRef
}

// nodeMapBuilder accumulates a NodeMap; the first mapping for an id wins.
type nodeMapBuilder struct {
	m NodeMap
}

func (b *nodeMapBuilder) add(id string, ref NodeRef) bool {
	if b.m.refs == nil {
		b.m.refs = make(map[string]NodeRef)
	}
	if _, dup := b.m.refs[id]; dup {
		return false
	}
	b.m.refs[id] = ref
	b.m.ids = append(b.m.ids, id)
	return true
}

func (b *nodeMapBuilder) build() NodeMap {
	return b.m
}

// Lookup returns the shape mapped to an element id.
func (m NodeMap) Lookup(id string) (NodeRef, bool) {
	ref, ok := m.refs[id]
	return ref, ok
}

// Len returns the number of mapped ids.
func (m NodeMap) Len() int {
	return len(m.ids)
}

// IDs returns the mapped element ids in the order they were added.
func (m NodeMap) IDs() []string {
	return append([]string(nil), m.ids...)
}

// IDForShape returns the element id mapped to a shape id.
func (m NodeMap) IDForShape(shapeID int) (string, bool) {
	for _, id := range m.ids {
		if m.refs[id].ShapeID == shapeID {
			return id, true
		}
	}
	return "", false
}
