package model

import "strings"

// RoleApplication is the role of the snapshot's application root element.
const RoleApplication = "AXApplication"

// interactiveRoles are the accessibility roles that accept user input on the
// simulator. Summaries and label listings are restricted to these so the
// interesting elements are not drowned out by static text and groups.
var interactiveRoles = map[string]bool{
	"AXButton":           true,
	"AXTextField":        true,
	"AXSecureTextField":  true,
	"AXTextArea":         true,
	"AXPopUpButton":      true,
	"AXMenuItem":         true,
	"AXCell":             true,
	"AXLink":             true,
	"AXSwitch":           true,
	"AXSegmentedControl": true,
	"AXSlider":           true,
	"AXCheckBox":         true,
}

// IsInteractiveRole reports whether the role accepts user input.
func IsInteractiveRole(role string) bool {
	return interactiveRoles[role]
}

// ShortRole strips the AX prefix for human-facing listings; structured
// output keeps the raw role.
func ShortRole(role string) string {
	if role == "" {
		return "?"
	}
	return strings.TrimPrefix(role, "AX")
}

// MatchRole compares a user-supplied role filter against an element role,
// accepting both the raw form ("AXButton") and the short form ("Button"),
// case-insensitively.
func MatchRole(filter, role string) bool {
	if filter == "" {
		return true
	}
	return strings.EqualFold(filter, role) || strings.EqualFold(filter, ShortRole(role))
}
