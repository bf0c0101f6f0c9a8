package driver

import (
	"fmt"
	"strings"
)

// stderrLimit caps how much tool stderr is carried into error messages.
const stderrLimit = 400

// CommandError describes one failed external tool invocation.
type CommandError struct {
	Tool     string
	Args     []string
	ExitCode int
	Stderr   string
	TimedOut bool
	NotFound bool
	Err      error
}

func (e *CommandError) Error() string {
	switch {
	case e.NotFound:
		return fmt.Sprintf("%s not found in PATH (is it installed?)", e.Tool)
	case e.TimedOut:
		return fmt.Sprintf("%s %s timed out", e.Tool, firstArg(e.Args))
	case e.Stderr != "":
		return fmt.Sprintf("%s %s exited with status %d: %s", e.Tool, firstArg(e.Args), e.ExitCode, e.Stderr)
	case e.ExitCode != 0:
		return fmt.Sprintf("%s %s exited with status %d", e.Tool, firstArg(e.Args), e.ExitCode)
	default:
		return fmt.Sprintf("%s: %v", e.Tool, e.Err)
	}
}

func (e *CommandError) Unwrap() error { return e.Err }

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	// The leading subcommand words are enough to identify the invocation.
	if len(args) >= 2 && !strings.HasPrefix(args[1], "-") {
		return args[0] + " " + args[1]
	}
	return args[0]
}

// trimStderr normalizes tool stderr for inclusion in an error message.
func trimStderr(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > stderrLimit {
		s = "... " + s[len(s)-stderrLimit:]
	}
	return s
}

// CaptureError means the accessibility snapshot could not be taken: the
// introspection tool is missing, the target does not exist or is not
// booted, the invocation failed, or its output was unparseable.
type CaptureError struct {
	Target string
	Err    error
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("capture failed (target %s): %v", e.Target, e.Err)
}

func (e *CaptureError) Unwrap() error { return e.Err }

// DispatchError means the injection tool rejected or failed a gesture.
// The device may or may not have mutated; callers still attempt the post
// snapshot so partial state stays observable.
type DispatchError struct {
	Gesture string
	Target  string
	Err     error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch failed (%s, target %s): %v", e.Gesture, e.Target, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }
