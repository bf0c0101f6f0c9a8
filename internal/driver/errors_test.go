package driver

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
)

func TestCommandError_NotFound(t *testing.T) {
	err := &CommandError{Tool: "idb", NotFound: true}
	if !strings.Contains(err.Error(), "not found in PATH") {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestCommandError_TimedOut(t *testing.T) {
	err := &CommandError{Tool: "idb", Args: []string{"ui", "describe-all"}, TimedOut: true}
	msg := err.Error()
	if !strings.Contains(msg, "timed out") {
		t.Errorf("unexpected message: %s", msg)
	}
	if !strings.Contains(msg, "idb ui") {
		t.Errorf("message should identify the invocation: %s", msg)
	}
}

func TestCommandError_ExitWithStderr(t *testing.T) {
	err := &CommandError{
		Tool:     "xcrun",
		Args:     []string{"simctl", "boot", "BAD"},
		ExitCode: 164,
		Stderr:   "Invalid device: BAD",
	}
	msg := err.Error()
	if !strings.Contains(msg, "status 164") || !strings.Contains(msg, "Invalid device") {
		t.Errorf("unexpected message: %s", msg)
	}
}

func TestTrimStderr(t *testing.T) {
	long := strings.Repeat("x", stderrLimit*2)
	got := trimStderr("  " + long + "  ")
	if len(got) > stderrLimit+4 {
		t.Errorf("stderr not capped: %d chars", len(got))
	}
	if !strings.HasPrefix(got, "... ") {
		t.Error("truncated stderr should be marked")
	}
}

func TestClassifyExecError(t *testing.T) {
	ctx := context.Background()

	notFound := &exec.Error{Name: "idb", Err: exec.ErrNotFound}
	ce := classifyExecError(ctx, "idb", nil, notFound, "")
	if !ce.NotFound {
		t.Error("exec.ErrNotFound should classify as NotFound")
	}

	timedOut, cancel := context.WithTimeout(ctx, 0)
	defer cancel()
	<-timedOut.Done()
	ce = classifyExecError(timedOut, "idb", []string{"ui", "tap"}, errors.New("signal: killed"), "")
	if !ce.TimedOut {
		t.Error("expired deadline should classify as TimedOut")
	}
}

func TestCaptureError_Unwrap(t *testing.T) {
	inner := &CommandError{Tool: "idb", NotFound: true}
	err := &CaptureError{Target: "booted", Err: inner}

	var ce *CommandError
	if !errors.As(err, &ce) {
		t.Fatal("CaptureError should unwrap to CommandError")
	}
	if !strings.Contains(err.Error(), "capture failed") {
		t.Errorf("message should name the failure kind: %s", err.Error())
	}
}

func TestDispatchError_Message(t *testing.T) {
	err := &DispatchError{
		Gesture: "swipe",
		Target:  "ABC-123",
		Err:     &CommandError{Tool: "idb", ExitCode: 1},
	}
	msg := err.Error()
	if !strings.Contains(msg, "dispatch failed") || !strings.Contains(msg, "swipe") {
		t.Errorf("unexpected message: %s", msg)
	}
}
