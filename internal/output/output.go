// Package output renders command results to stdout. Structured formats
// (yaml, json) serialize result structs directly; text mode is rendered
// per command, with the snapshot summary helpers in this package.
package output

import (
	"fmt"
	"strings"
)

// Format represents the output format.
type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// OutputFormat is the current output format, set by the root command's --format flag.
var OutputFormat = FormatText

// PrettyOutput enables pretty-printing for JSON output.
var PrettyOutput bool

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatText:
		return FormatText, nil
	case FormatYAML:
		return FormatYAML, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unsupported output format %q (want text, yaml, or json)", s)
}

// Structured reports whether the current format is a machine format.
// Commands use this to choose between their human rendering and Print.
func Structured() bool {
	return OutputFormat == FormatYAML || OutputFormat == FormatJSON
}

// Print serializes v to stdout in the current output format. Text mode
// has no generic rendering for structured values, so it falls back to
// YAML; commands with a human rendering handle text themselves.
func Print(v interface{}) error {
	switch OutputFormat {
	case FormatJSON:
		if PrettyOutput {
			return PrintPrettyJSON(v)
		}
		return PrintJSON(v)
	default:
		return PrintYAML(v)
	}
}
