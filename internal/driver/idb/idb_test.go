package idb

import (
	"context"
	"errors"
	"io"
	"reflect"
	"testing"

	"github.com/simkit/sim-cli/internal/driver"
)

// fakeRunner records invocations and plays back canned output.
type fakeRunner struct {
	calls [][]string
	out   []byte
	err   error
}

func (f *fakeRunner) Run(_ context.Context, tool string, args ...string) ([]byte, error) {
	call := append([]string{tool}, args...)
	f.calls = append(f.calls, call)
	return f.out, f.err
}

func (f *fakeRunner) RunInput(_ context.Context, _, tool string, args ...string) ([]byte, error) {
	call := append([]string{tool}, args...)
	f.calls = append(f.calls, call)
	return f.out, f.err
}

func (f *fakeRunner) RunStream(_ context.Context, _ io.Writer, tool string, args ...string) error {
	call := append([]string{tool}, args...)
	f.calls = append(f.calls, call)
	return f.err
}

func TestCapture_Args(t *testing.T) {
	r := &fakeRunner{out: []byte(`[]`)}
	c := NewClient(r)

	if _, err := c.Capture(context.Background(), "UDID-1", false); err != nil {
		t.Fatal(err)
	}
	want := []string{"idb", "ui", "describe-all", "--json", "--udid", "UDID-1"}
	if !reflect.DeepEqual(r.calls[0], want) {
		t.Errorf("expected %v, got %v", want, r.calls[0])
	}
}

func TestCapture_NestedArgs(t *testing.T) {
	r := &fakeRunner{out: []byte(`{"role":"AXApplication"}`)}
	c := NewClient(r)

	snap, err := c.Capture(context.Background(), "UDID-1", true)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"idb", "ui", "describe-all", "--json", "--nested", "--udid", "UDID-1"}
	if !reflect.DeepEqual(r.calls[0], want) {
		t.Errorf("expected %v, got %v", want, r.calls[0])
	}
	if !snap.Nested || len(snap.Elements) != 1 {
		t.Errorf("expected single-root nested snapshot, got %+v", snap)
	}
}

func TestCapture_ToolFailure(t *testing.T) {
	r := &fakeRunner{err: &driver.CommandError{Tool: "idb", ExitCode: 1, Stderr: "no companion"}}
	c := NewClient(r)

	_, err := c.Capture(context.Background(), "UDID-1", false)
	var ce *driver.CaptureError
	if !errors.As(err, &ce) {
		t.Fatalf("expected CaptureError, got %T", err)
	}
	if ce.Target != "UDID-1" {
		t.Errorf("expected target UDID-1, got %s", ce.Target)
	}
}

func TestCapture_UnparseableOutput(t *testing.T) {
	r := &fakeRunner{out: []byte("not json at all")}
	c := NewClient(r)

	_, err := c.Capture(context.Background(), "UDID-1", false)
	var ce *driver.CaptureError
	if !errors.As(err, &ce) {
		t.Fatalf("expected CaptureError, got %T", err)
	}
}

func TestGestureArgs(t *testing.T) {
	tests := []struct {
		name string
		g    driver.Gesture
		want []string
	}{
		{"tap rounds to whole points", driver.Tap{X: 201, Y: 463.665}, []string{"ui", "tap", "201", "464"}},
		{"tap with hold", driver.Tap{X: 10, Y: 20, Duration: 1.5}, []string{"ui", "tap", "10", "20", "--duration", "1.5"}},
		{"swipe", driver.Swipe{FromX: 195, FromY: 572, ToX: 195, ToY: 272, Duration: 0.4}, []string{"ui", "swipe", "195", "572", "195", "272", "--duration", "0.4"}},
		{"swipe with delta", driver.Swipe{FromX: 0, FromY: 0, ToX: 100, ToY: 0, Delta: 25}, []string{"ui", "swipe", "0", "0", "100", "0", "--delta", "25"}},
		{"text", driver.TypeText{Text: "hello world"}, []string{"ui", "text", "hello world"}},
		{"key", driver.KeyPress{Code: 40}, []string{"ui", "key", "40"}},
		{"button", driver.PressButton{Button: "HOME"}, []string{"ui", "button", "HOME"}},
		{"open url", driver.OpenURL{URL: "https://example.com"}, []string{"open", "https://example.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := gestureArgs(tt.g)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestPerform_AppendsTarget(t *testing.T) {
	r := &fakeRunner{}
	c := NewClient(r)

	if err := c.Perform(context.Background(), "booted-udid", driver.Tap{X: 1, Y: 2}); err != nil {
		t.Fatal(err)
	}
	call := r.calls[0]
	if call[len(call)-2] != "--udid" || call[len(call)-1] != "booted-udid" {
		t.Errorf("target must be passed explicitly: %v", call)
	}
}

func TestPerform_WrapsDispatchError(t *testing.T) {
	r := &fakeRunner{err: &driver.CommandError{Tool: "idb", ExitCode: 1}}
	c := NewClient(r)

	err := c.Perform(context.Background(), "U", driver.Swipe{FromX: 1, FromY: 2, ToX: 3, ToY: 4})
	var de *driver.DispatchError
	if !errors.As(err, &de) {
		t.Fatalf("expected DispatchError, got %T", err)
	}
	if de.Gesture != "swipe" {
		t.Errorf("expected gesture swipe, got %s", de.Gesture)
	}
}

func TestListApps_Args(t *testing.T) {
	r := &fakeRunner{out: []byte(`[]`)}
	c := NewClient(r)

	if _, err := c.ListApps(context.Background(), "U"); err != nil {
		t.Fatal(err)
	}
	want := []string{"idb", "list-apps", "--json", "--fetch-process-state", "--udid", "U"}
	if !reflect.DeepEqual(r.calls[0], want) {
		t.Errorf("expected %v, got %v", want, r.calls[0])
	}
}

func TestAppCommands_Args(t *testing.T) {
	r := &fakeRunner{}
	c := NewClient(r)
	ctx := context.Background()

	if err := c.Install(ctx, "U", "/tmp/My.app"); err != nil {
		t.Fatal(err)
	}
	if err := c.Launch(ctx, "U", "com.example.app"); err != nil {
		t.Fatal(err)
	}
	if err := c.Terminate(ctx, "U", "com.example.app"); err != nil {
		t.Fatal(err)
	}
	if err := c.Screenshot(ctx, "U", "/tmp/shot.png"); err != nil {
		t.Fatal(err)
	}

	want := [][]string{
		{"idb", "install", "/tmp/My.app", "--udid", "U"},
		{"idb", "launch", "com.example.app", "--udid", "U"},
		{"idb", "terminate", "com.example.app", "--udid", "U"},
		{"idb", "screenshot", "/tmp/shot.png", "--udid", "U"},
	}
	if !reflect.DeepEqual(r.calls, want) {
		t.Errorf("expected %v, got %v", want, r.calls)
	}
}
