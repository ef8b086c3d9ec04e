package models

// NodeMeta describes one diagram node as the caller intends it to appear.
type NodeMeta struct {
	// ElementID is the semantic element id carried by EA_NODE markers.
	ElementID string `json:"elementId" yaml:"elementId"`
	// Name is the display name.
	Name string `json:"name" yaml:"name"`
	// TypeLabel is the element type (e.g., "ApplicationComponent").
	TypeLabel string `json:"typeLabel,omitempty" yaml:"typeLabel,omitempty"`
	// Rect is the node rectangle in inches.
	Rect RectInches `json:"rect" yaml:"rect"`
	// FillColor is a CSS color string (hex or rgb()).
	FillColor string `json:"fillColor,omitempty" yaml:"fillColor,omitempty"`
	// StrokeColor is a CSS color string (hex or rgb()).
	StrokeColor string `json:"strokeColor,omitempty" yaml:"strokeColor,omitempty"`
	// TextColor is a CSS color string (hex or rgb()).
	TextColor string `json:"textColor,omitempty" yaml:"textColor,omitempty"`
}
