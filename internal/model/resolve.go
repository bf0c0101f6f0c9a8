package model

import "strings"

// Resolve finds the element matching query using the two-pass rule:
// an exact pass over every element first, then a substring pass. Both are
// case-insensitive and consider label, title, and value in that order.
// The first match in walk order wins, so resolution is deterministic for a
// given snapshot. A miss returns ok=false, never an error; absence of an
// element is an expected outcome, not a fault.
func Resolve(s *Snapshot, query string) (el *UIElement, ok bool) {
	q := strings.ToLower(query)

	s.Walk(func(e *UIElement) bool {
		for _, c := range matchFields(e) {
			if strings.ToLower(c) == q {
				el = e
				return false
			}
		}
		return true
	})
	if el != nil {
		return el, true
	}

	s.Walk(func(e *UIElement) bool {
		for _, c := range matchFields(e) {
			if c == "" {
				continue
			}
			if strings.Contains(strings.ToLower(c), q) {
				el = e
				return false
			}
		}
		return true
	})
	return el, el != nil
}

// matchFields returns the text fields resolution considers, in precedence
// order. Empty fields are included here; the substring pass skips them.
func matchFields(e *UIElement) [3]string {
	return [3]string{e.Label, e.Title, e.Value}
}

// Labels collects the distinct non-empty display texts of interactive
// elements, in walk order. Shown when resolution fails so the caller can see
// what was actually on screen.
func Labels(s *Snapshot) []string {
	seen := make(map[string]bool)
	var out []string
	for _, el := range s.Interactive() {
		t := el.DisplayText()
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
