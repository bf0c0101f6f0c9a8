package model

import "strings"

// FilterByRole returns the elements whose role matches the filter, in walk
// order. The filter accepts raw ("AXButton") or short ("Button") role names.
func FilterByRole(s *Snapshot, role string) []*UIElement {
	var out []*UIElement
	s.Walk(func(el *UIElement) bool {
		if MatchRole(role, el.Role) {
			out = append(out, el)
		}
		return true
	})
	return out
}

// MatchText reports whether the element's label, title, or value contains
// text, case-insensitively. Empty fields never match.
func MatchText(el *UIElement, text string) bool {
	q := strings.ToLower(text)
	for _, c := range matchFields(el) {
		if c != "" && strings.Contains(strings.ToLower(c), q) {
			return true
		}
	}
	return false
}

// FilterByText returns the elements whose label, title, or value contains
// the given text, case-insensitively, in walk order. This is a listing
// filter; action targeting goes through Resolve instead.
func FilterByText(s *Snapshot, text string) []*UIElement {
	var out []*UIElement
	s.Walk(func(el *UIElement) bool {
		if MatchText(el, text) {
			out = append(out, el)
		}
		return true
	})
	return out
}
