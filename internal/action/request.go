// Package action implements the validated action cycle: capture the UI,
// resolve targets against that capture, dispatch one gesture, then capture
// again so every mutation is observable.
package action

// Request is one action to validate and dispatch. The set of kinds is
// closed and no two kinds share a parameter shape.
type Request interface {
	// Kind names the action in results, errors, and logs.
	Kind() string
}

// TapPoint taps explicit coordinates in logical points.
type TapPoint struct {
	X, Y     float64
	Duration float64
}

func (TapPoint) Kind() string { return "tap" }

// TapElement taps the center of the element resolving to Label.
type TapElement struct {
	Label string
}

func (TapElement) Kind() string { return "tap-element" }

// SwipePoints swipes between explicit coordinates.
type SwipePoints struct {
	FromX, FromY float64
	ToX, ToY     float64
	Duration     float64
	Delta        int
}

func (SwipePoints) Kind() string { return "swipe" }

// Scroll reveals content in the given direction from the screen center.
type Scroll struct {
	Direction Direction
	Distance  float64
	Speed     float64
}

func (Scroll) Kind() string { return "scroll" }

// TypeText types into the focused element. Focus is not verified; callers
// confirm it from the snapshots.
type TypeText struct {
	Text string
}

func (TypeText) Kind() string { return "text" }

// KeyPress presses a hardware key by numeric HID code or mnemonic name.
type KeyPress struct {
	Key string
}

func (KeyPress) Kind() string { return "key" }

// PressButton presses a named hardware button.
type PressButton struct {
	Name string
}

func (PressButton) Kind() string { return "button" }

// OpenURL opens a URL or deep link.
type OpenURL struct {
	URL string
}

func (OpenURL) Kind() string { return "openurl" }

// Direction is a content-reveal scroll direction: scrolling down means new
// content enters from the bottom, which the finger achieves by moving up.
type Direction string

const (
	DirectionUp    Direction = "up"
	DirectionDown  Direction = "down"
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

// ParseDirection validates a user-supplied direction.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirectionUp, DirectionDown, DirectionLeft, DirectionRight:
		return Direction(s), nil
	default:
		return "", NewConfigError("unknown direction %q (use up, down, left, or right)", s)
	}
}
