package action

import "fmt"

// ElementNotFoundError means both resolution passes came up empty. It is
// raised before any gesture is dispatched, so the device is untouched.
type ElementNotFoundError struct {
	Query        string
	ElementCount int
	// Labels are the interactive display texts that were on screen, for
	// the caller to show alongside the failure.
	Labels []string
}

func (e *ElementNotFoundError) Error() string {
	return fmt.Sprintf("element not found: %q (searched %d elements)", e.Query, e.ElementCount)
}

// ConfigError means the request parameters were malformed. It is raised
// before any external tool runs.
type ConfigError struct {
	Msg string
}

// NewConfigError formats a ConfigError.
func NewConfigError(format string, args ...interface{}) *ConfigError {
	return &ConfigError{Msg: fmt.Sprintf(format, args...)}
}

func (e *ConfigError) Error() string {
	return "invalid arguments: " + e.Msg
}
