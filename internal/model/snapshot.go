package model

import "time"

// Snapshot is one point-in-time capture of the UI tree. Elements are in the
// order the introspection tool reported them: a flat application-first list
// by default, or a single root element in nested mode. A snapshot is never
// mutated after capture; each observation is a fresh one.
type Snapshot struct {
	Elements []UIElement `json:"elements"          yaml:"elements"`
	Nested   bool        `json:"nested,omitempty"  yaml:"nested,omitempty"`
	TakenAt  time.Time   `json:"taken_at"          yaml:"taken_at"`
}

// Walk visits every element depth-first in report order. This is the
// canonical iteration order for both flat and nested snapshots; resolution
// and summaries are defined over it. Returning false stops the walk.
func (s *Snapshot) Walk(fn func(el *UIElement) bool) {
	walkElements(s.Elements, fn)
}

func walkElements(els []UIElement, fn func(el *UIElement) bool) bool {
	for i := range els {
		if !fn(&els[i]) {
			return false
		}
		if !walkElements(els[i].Children, fn) {
			return false
		}
	}
	return true
}

// Len counts all elements including nested children.
func (s *Snapshot) Len() int {
	n := 0
	s.Walk(func(*UIElement) bool {
		n++
		return true
	})
	return n
}

// App returns the application root element, or nil when the capture did not
// include one. In flat mode this is normally the first element.
func (s *Snapshot) App() *UIElement {
	var app *UIElement
	s.Walk(func(el *UIElement) bool {
		if el.Role == RoleApplication {
			app = el
			return false
		}
		return true
	})
	return app
}

// ScreenSize probes the screen dimensions from the application root frame.
// Falls back to a 390x844 portrait phone when no application element is
// present or its frame is degenerate.
func (s *Snapshot) ScreenSize() (width, height float64) {
	if app := s.App(); app != nil && app.Frame.Width > 0 && app.Frame.Height > 0 {
		return app.Frame.Width, app.Frame.Height
	}
	return DefaultScreenWidth, DefaultScreenHeight
}

// Default screen dimensions in logical points, used when the snapshot does
// not expose an application frame to probe.
const (
	DefaultScreenWidth  = 390
	DefaultScreenHeight = 844
)

// Interactive returns the enabled elements whose role accepts input, in walk
// order. These are the elements worth showing in summaries.
func (s *Snapshot) Interactive() []*UIElement {
	var out []*UIElement
	s.Walk(func(el *UIElement) bool {
		if el.IsEnabled() && IsInteractiveRole(el.Role) {
			out = append(out, el)
		}
		return true
	})
	return out
}
