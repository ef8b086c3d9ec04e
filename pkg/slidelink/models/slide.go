package models

// SlideInspection represents the shapes found on a single slide part.
type SlideInspection struct {
	// Part is the package path of the slide.
	Part string `json:"part"`
	// Shapes contains shapes in document order.
	Shapes []ShapeInfo `json:"shapes,omitempty"`
}

// Counts returns the number of node-like and line-like shapes.
func (s SlideInspection) Counts() (nodes, lines int) {
	for _, sh := range s.Shapes {
		switch sh.Kind {
		case "node":
			nodes++
		case "line", "connector":
			lines++
		}
	}
	return nodes, lines
}
