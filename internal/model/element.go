package model

// Rect is an element frame in logical points, as reported by the
// accessibility layer. Width and Height are never negative.
type Rect struct {
	X      float64 `json:"x"                yaml:"x"`
	Y      float64 `json:"y"                yaml:"y"`
	Width  float64 `json:"width"            yaml:"width"`
	Height float64 `json:"height"           yaml:"height"`
}

// Point is a location in logical points.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// UIElement is one node of a UI snapshot.
type UIElement struct {
	Role     string      `json:"role,omitempty"     yaml:"role,omitempty"`
	Type     string      `json:"type,omitempty"     yaml:"type,omitempty"`
	Label    string      `json:"label,omitempty"    yaml:"label,omitempty"`
	Title    string      `json:"title,omitempty"    yaml:"title,omitempty"`
	Value    string      `json:"value,omitempty"    yaml:"value,omitempty"`
	Frame    Rect        `json:"frame"              yaml:"frame"`
	Enabled  *bool       `json:"enabled,omitempty"  yaml:"enabled,omitempty"` // nil or true = enabled (omit); false = disabled (include)
	Children []UIElement `json:"children,omitempty" yaml:"children,omitempty"`
}

// Center returns the midpoint of the element's frame. This is the point
// gestures are aimed at; no pixel-density conversion is applied because
// the injection tool consumes logical points as well.
func (e *UIElement) Center() Point {
	return Point{
		X: e.Frame.X + e.Frame.Width/2,
		Y: e.Frame.Y + e.Frame.Height/2,
	}
}

// IsEnabled treats a missing enabled attribute as enabled.
func (e *UIElement) IsEnabled() bool {
	return e.Enabled == nil || *e.Enabled
}

// DisplayText returns the first non-empty of label, title, value.
// Used for human-facing listings, not for matching.
func (e *UIElement) DisplayText() string {
	if e.Label != "" {
		return e.Label
	}
	if e.Title != "" {
		return e.Title
	}
	return e.Value
}
