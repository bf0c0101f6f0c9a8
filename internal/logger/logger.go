// Package logger provides a small stderr logger for diagnostic output.
// Command results go to stdout; everything here stays on stderr so that
// structured output remains pipeable.
package logger

import (
	"io"
	"log"
	"os"
	"sync"
)

var (
	mu      sync.Mutex
	verbose bool
	std     = log.New(os.Stderr, "", log.Ltime)
)

// Init configures verbosity. Call once from the root command.
func Init(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// SetOutput redirects log output, primarily for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	std.SetOutput(w)
}

// Debugf logs only when --verbose is active. Used for subprocess tracing.
func Debugf(format string, args ...interface{}) {
	mu.Lock()
	v := verbose
	mu.Unlock()
	if v {
		std.Printf("DEBUG "+format, args...)
	}
}

// Warnf logs a non-fatal problem.
func Warnf(format string, args ...interface{}) {
	std.Printf("WARN "+format, args...)
}
