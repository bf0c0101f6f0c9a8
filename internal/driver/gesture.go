package driver

// Gesture is one primitive the injection tool performs directly. Higher
// level commands (element taps, directional scrolls, named keys) are
// translated into these before they reach an Actuator.
type Gesture interface {
	// Name identifies the gesture kind in errors and logs.
	Name() string
}

// Tap touches a point. Duration in seconds; 0 means the tool default, and
// a longer value produces a press-and-hold.
type Tap struct {
	X, Y     float64
	Duration float64
}

func (Tap) Name() string { return "tap" }

// Swipe drags a finger from one point to another. Duration in seconds and
// Delta in points-per-step; zero values mean tool defaults.
type Swipe struct {
	FromX, FromY float64
	ToX, ToY     float64
	Duration     float64
	Delta        int
}

func (Swipe) Name() string { return "swipe" }

// TypeText sends text to whatever element currently has keyboard focus.
// Focus is not verified here; callers inspect snapshots for that.
type TypeText struct {
	Text string
}

func (TypeText) Name() string { return "text" }

// KeyPress sends a hardware key by HID code.
type KeyPress struct {
	Code int
}

func (KeyPress) Name() string { return "key" }

// PressButton presses a hardware button by name (HOME, LOCK, SIRI, ...).
type PressButton struct {
	Button string
}

func (PressButton) Name() string { return "button" }

// OpenURL opens a URL or deep link on the target.
type OpenURL struct {
	URL string
}

func (OpenURL) Name() string { return "open-url" }
