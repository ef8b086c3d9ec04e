package models

// ShapeInfo represents shape metadata read from a slide, including its marker.
type ShapeInfo struct {
	// ID is the cNvPr shape id within the slide.
	ID int `json:"id"`
	// Kind is the shape classification: node, line, connector, or other.
	Kind string `json:"kind"`
	// Name is the cNvPr name attribute.
	Name string `json:"name,omitempty"`
	// Description is the cNvPr descr attribute.
	Description string `json:"description,omitempty"`
	// Preset is the preset geometry name (e.g., rect, line).
	Preset string `json:"preset,omitempty"`
	// Rect is the shape rectangle in EMU.
	Rect RectEMU `json:"rect"`
	// WidthPx and HeightPx are the shape extents in pixels at 96 DPI.
	WidthPx  int `json:"width_px,omitempty"`
	HeightPx int `json:"height_px,omitempty"`
	// Marker is the decoded marker text, re-formatted in canonical form.
	Marker string `json:"marker,omitempty"`
	// HeadEnd is the line start arrow type for lines and connectors.
	HeadEnd string `json:"head_end,omitempty"`
	// TailEnd is the line end arrow type for lines and connectors.
	TailEnd string `json:"tail_end,omitempty"`
	// BeginID is the shape id at the start of a connector.
	BeginID *int `json:"begin_id,omitempty"`
	// EndID is the shape id at the end of a connector.
	EndID *int `json:"end_id,omitempty"`
	// Direction is the line direction (compass heading: N, NE, E, SE, S, SW, W, NW).
	Direction string `json:"direction,omitempty"`
}
