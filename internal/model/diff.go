package model

import (
	"crypto/sha256"
	"fmt"
)

// ElementChange describes one element whose mutable properties differ
// between two snapshots that share its identity.
type ElementChange struct {
	Role    string               `yaml:"role,omitempty"  json:"role,omitempty"`
	Text    string               `yaml:"text,omitempty"  json:"text,omitempty"`
	Changes map[string][2]string `yaml:"changes"         json:"changes"`
}

// DiffSummary is the result of comparing the pre and post snapshots of an
// action cycle by content hash. Identity survives reordering, so elements
// that merely shifted position in the report do not show up as churn.
type DiffSummary struct {
	Added     []string        `yaml:"added,omitempty"   json:"added,omitempty"`
	Removed   []string        `yaml:"removed,omitempty" json:"removed,omitempty"`
	Changed   []ElementChange `yaml:"changed,omitempty" json:"changed,omitempty"`
	Unchanged int             `yaml:"unchanged"         json:"unchanged"`
}

// Empty reports whether the two snapshots were observably identical.
func (d *DiffSummary) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

// elementHash is a stable identity for matching elements across snapshots.
// Role, label, and title identify an element; value, frame, and enabled are
// mutable state compared separately.
func elementHash(el *UIElement) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s", el.Role, el.Label, el.Title)
	return fmt.Sprintf("%x", h.Sum(nil))[:16]
}

// DiffSnapshots compares two snapshots and summarizes what appeared,
// disappeared, and changed. Duplicate identities collapse onto one entry,
// which is acceptable for a summary of screen churn.
func DiffSnapshots(pre, post *Snapshot) *DiffSummary {
	preByHash := make(map[string]*UIElement)
	pre.Walk(func(el *UIElement) bool {
		preByHash[elementHash(el)] = el
		return true
	})
	postByHash := make(map[string]*UIElement)
	post.Walk(func(el *UIElement) bool {
		postByHash[elementHash(el)] = el
		return true
	})

	diff := &DiffSummary{}

	post.Walk(func(el *UIElement) bool {
		h := elementHash(el)
		prevEl, existed := preByHash[h]
		if !existed {
			diff.Added = append(diff.Added, describeElement(el))
			return true
		}
		if prevEl == nil {
			return true // duplicate identity already consumed
		}
		preByHash[h] = nil
		if changes := diffElementState(prevEl, el); changes != nil {
			diff.Changed = append(diff.Changed, ElementChange{
				Role:    el.Role,
				Text:    el.DisplayText(),
				Changes: changes,
			})
		} else {
			diff.Unchanged++
		}
		return true
	})

	pre.Walk(func(el *UIElement) bool {
		if _, exists := postByHash[elementHash(el)]; !exists {
			diff.Removed = append(diff.Removed, describeElement(el))
		}
		return true
	})

	return diff
}

// diffElementState compares the mutable properties of two identity-matched
// elements. Role, label, and title are part of the identity hash and cannot
// differ here.
func diffElementState(prev, curr *UIElement) map[string][2]string {
	diffs := make(map[string][2]string)

	if prev.Value != curr.Value {
		diffs["value"] = [2]string{prev.Value, curr.Value}
	}
	if prev.Frame != curr.Frame {
		diffs["frame"] = [2]string{
			fmt.Sprintf("%v", prev.Frame),
			fmt.Sprintf("%v", curr.Frame),
		}
	}
	if prev.IsEnabled() != curr.IsEnabled() {
		diffs["enabled"] = [2]string{
			fmt.Sprintf("%v", prev.IsEnabled()),
			fmt.Sprintf("%v", curr.IsEnabled()),
		}
	}

	if len(diffs) == 0 {
		return nil
	}
	return diffs
}

func describeElement(el *UIElement) string {
	if t := el.DisplayText(); t != "" {
		return fmt.Sprintf("[%s] %q", ShortRole(el.Role), t)
	}
	return fmt.Sprintf("[%s]", ShortRole(el.Role))
}
