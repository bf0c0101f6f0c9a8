package action

import (
	"sort"
	"strconv"
	"strings"

	"github.com/simkit/sim-cli/internal/driver"
	"github.com/simkit/sim-cli/internal/model"
)

// Scroll defaults in logical points and seconds.
const (
	DefaultScrollDistance = 300
	DefaultScrollSpeed    = 0.4
)

// namedKeys maps key mnemonics onto the HID usage codes the injection tool
// expects. Numeric key arguments bypass this table.
var namedKeys = map[string]int{
	"enter":     40,
	"return":    40,
	"escape":    41,
	"backspace": 42,
	"delete":    42,
	"tab":       43,
	"space":     44,
	"f1":        58,
	"f2":        59,
	"f3":        60,
	"f4":        61,
	"home":      74,
	"end":       77,
	"right":     79,
	"left":      80,
	"down":      81,
	"up":        82,
}

// hardwareButtons is the set the injection tool accepts.
var hardwareButtons = map[string]bool{
	"APPLE_PAY":   true,
	"HOME":        true,
	"LOCK":        true,
	"SIDE_BUTTON": true,
	"SIRI":        true,
}

// ResolveKey turns a numeric code or mnemonic into a HID code.
func ResolveKey(key string) (int, error) {
	if code, err := strconv.Atoi(strings.TrimSpace(key)); err == nil {
		if code < 0 {
			return 0, NewConfigError("key code must not be negative, got %d", code)
		}
		return code, nil
	}
	if code, ok := namedKeys[strings.ToLower(key)]; ok {
		return code, nil
	}
	return 0, NewConfigError("unknown key %q (known names: %s, or pass a numeric HID code)", key, knownKeyNames())
}

func knownKeyNames() string {
	names := make([]string, 0, len(namedKeys))
	for name := range namedKeys {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// ResolveButton validates and normalizes a hardware button name.
func ResolveButton(name string) (string, error) {
	up := strings.ToUpper(strings.TrimSpace(name))
	if !hardwareButtons[up] {
		return "", NewConfigError("unknown button %q (use APPLE_PAY, HOME, LOCK, SIDE_BUTTON, or SIRI)", name)
	}
	return up, nil
}

// Validate rejects malformed requests. It runs before any external tool is
// invoked so bad parameters never reach the device.
func Validate(req Request) error {
	switch v := req.(type) {
	case TapPoint:
		if v.Duration < 0 {
			return NewConfigError("tap duration must not be negative")
		}
	case TapElement:
		if strings.TrimSpace(v.Label) == "" {
			return NewConfigError("an element label is required")
		}
	case SwipePoints:
		if v.Duration < 0 {
			return NewConfigError("swipe duration must not be negative")
		}
		if v.Delta < 0 {
			return NewConfigError("swipe delta must not be negative")
		}
	case Scroll:
		if _, err := ParseDirection(string(v.Direction)); err != nil {
			return err
		}
		if v.Distance < 0 || v.Speed < 0 {
			return NewConfigError("scroll distance and speed must not be negative")
		}
	case TypeText:
		// Empty text is legal; the tool types nothing.
	case KeyPress:
		if _, err := ResolveKey(v.Key); err != nil {
			return err
		}
	case PressButton:
		if _, err := ResolveButton(v.Name); err != nil {
			return err
		}
	case OpenURL:
		if strings.TrimSpace(v.URL) == "" {
			return NewConfigError("a url is required")
		}
	default:
		return NewConfigError("unsupported action %q", req.Kind())
	}
	return nil
}

// Translate lowers a validated request onto a driver gesture. The pre
// snapshot supplies the screen size for directional scrolls. TapElement
// never reaches here; the orchestrator resolves it to coordinates first.
func Translate(req Request, pre *model.Snapshot) (driver.Gesture, error) {
	switch v := req.(type) {
	case TapPoint:
		return driver.Tap{X: v.X, Y: v.Y, Duration: v.Duration}, nil
	case SwipePoints:
		return driver.Swipe{
			FromX: v.FromX, FromY: v.FromY,
			ToX: v.ToX, ToY: v.ToY,
			Duration: v.Duration,
			Delta:    v.Delta,
		}, nil
	case Scroll:
		return scrollSwipe(v, pre), nil
	case TypeText:
		return driver.TypeText{Text: v.Text}, nil
	case KeyPress:
		code, err := ResolveKey(v.Key)
		if err != nil {
			return nil, err
		}
		return driver.KeyPress{Code: code}, nil
	case PressButton:
		name, err := ResolveButton(v.Name)
		if err != nil {
			return nil, err
		}
		return driver.PressButton{Button: name}, nil
	case OpenURL:
		return driver.OpenURL{URL: v.URL}, nil
	default:
		return nil, NewConfigError("unsupported action %q", req.Kind())
	}
}

// scrollSwipe converts a directional scroll into finger travel centered on
// the screen. The finger moves opposite to the scroll direction: revealing
// content below (scroll down) drags the finger up. Endpoints clamp at zero
// so a large distance near an edge degrades instead of leaving the screen.
func scrollSwipe(s Scroll, pre *model.Snapshot) driver.Swipe {
	distance := s.Distance
	if distance == 0 {
		distance = DefaultScrollDistance
	}
	speed := s.Speed
	if speed == 0 {
		speed = DefaultScrollSpeed
	}

	w, h := pre.ScreenSize()
	cx, cy := w/2, h/2
	half := distance / 2

	var x1, y1, x2, y2 float64
	switch s.Direction {
	case DirectionDown:
		x1, y1, x2, y2 = cx, cy+half, cx, cy-half
	case DirectionUp:
		x1, y1, x2, y2 = cx, cy-half, cx, cy+half
	case DirectionLeft:
		x1, y1, x2, y2 = cx+half, cy, cx-half, cy
	case DirectionRight:
		x1, y1, x2, y2 = cx-half, cy, cx+half, cy
	}

	return driver.Swipe{
		FromX:    clampZero(x1),
		FromY:    clampZero(y1),
		ToX:      clampZero(x2),
		ToY:      clampZero(y2),
		Duration: speed,
	}
}

func clampZero(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
