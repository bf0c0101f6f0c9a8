package driver

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"

	"github.com/simkit/sim-cli/internal/logger"
)

// Runner executes external tools. The exec-backed implementation is the
// only one used at runtime; tests substitute recording fakes to assert on
// argument construction without touching the host.
type Runner interface {
	// Run executes the tool and returns its stdout. A non-nil error is a
	// *CommandError classifying what went wrong.
	Run(ctx context.Context, tool string, args ...string) ([]byte, error)

	// RunInput is Run with the given string piped to the tool's stdin.
	RunInput(ctx context.Context, input, tool string, args ...string) ([]byte, error)

	// RunStream executes the tool with combined output copied to w,
	// for long-running invocations whose progress the user watches.
	RunStream(ctx context.Context, w io.Writer, tool string, args ...string) error
}

// ExecRunner runs tools via os/exec under the caller's context deadline.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, tool string, args ...string) ([]byte, error) {
	logger.Debugf("exec: %s %s", tool, strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, tool, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.Bytes(), nil
	}
	return stdout.Bytes(), classifyExecError(ctx, tool, args, err, stderr.String())
}

func (ExecRunner) RunInput(ctx context.Context, input, tool string, args ...string) ([]byte, error) {
	logger.Debugf("exec: %s %s (with stdin)", tool, strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, tool, args...)
	cmd.Stdin = strings.NewReader(input)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.Bytes(), nil
	}
	return stdout.Bytes(), classifyExecError(ctx, tool, args, err, stderr.String())
}

func (ExecRunner) RunStream(ctx context.Context, w io.Writer, tool string, args ...string) error {
	logger.Debugf("exec: %s %s", tool, strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, tool, args...)
	cmd.Stdout = w
	cmd.Stderr = w

	if err := cmd.Run(); err != nil {
		return classifyExecError(ctx, tool, args, err, "")
	}
	return nil
}

// classifyExecError turns the assorted failure modes of os/exec into one
// CommandError so callers can branch on what actually happened.
func classifyExecError(ctx context.Context, tool string, args []string, err error, stderr string) *CommandError {
	ce := &CommandError{
		Tool:   tool,
		Args:   args,
		Stderr: trimStderr(stderr),
		Err:    err,
	}

	if ctx.Err() == context.DeadlineExceeded {
		ce.TimedOut = true
		return ce
	}
	if errors.Is(err, exec.ErrNotFound) {
		ce.NotFound = true
		return ce
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		ce.ExitCode = exitErr.ExitCode()
	}
	return ce
}
