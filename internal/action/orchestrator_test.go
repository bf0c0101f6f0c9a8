package action

import (
	"context"
	"errors"
	"testing"

	"github.com/simkit/sim-cli/internal/driver"
	"github.com/simkit/sim-cli/internal/model"
)

// fakeDevice is a canned driver recording the order of driver calls.
type fakeDevice struct {
	pre, post *model.Snapshot
	captures  int
	failAt    map[int]error // capture ordinal -> error
	performed []driver.Gesture
	actErr    error
	order     []string
}

func (f *fakeDevice) Capture(_ context.Context, target string, _ bool) (*model.Snapshot, error) {
	f.captures++
	f.order = append(f.order, "capture")
	if err := f.failAt[f.captures]; err != nil {
		return nil, &driver.CaptureError{Target: target, Err: err}
	}
	if f.captures == 1 {
		return f.pre, nil
	}
	return f.post, nil
}

func (f *fakeDevice) Perform(_ context.Context, target string, g driver.Gesture) error {
	f.order = append(f.order, "perform")
	f.performed = append(f.performed, g)
	if f.actErr != nil {
		return &driver.DispatchError{Gesture: g.Name(), Target: target, Err: f.actErr}
	}
	return nil
}

func signInScreen() *model.Snapshot {
	return &model.Snapshot{Elements: []model.UIElement{
		{Role: model.RoleApplication, Label: "Demo", Frame: model.Rect{Width: 390, Height: 844}},
		{Role: "AXButton", Label: "Sign In", Frame: model.Rect{X: 14.5, Y: 280.83, Width: 373, Height: 365.67}},
	}}
}

func newTestOrchestrator(f *fakeDevice) *Orchestrator {
	return New(f, f, WithSettle(0))
}

func TestRun_TapElementResolvesCenter(t *testing.T) {
	f := &fakeDevice{pre: signInScreen(), post: signInScreen()}
	o := newTestOrchestrator(f)

	res, err := o.Run(context.Background(), "UDID", TapElement{Label: "sign in"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != StatusSucceeded {
		t.Errorf("expected succeeded, got %s", res.Status)
	}
	if res.Resolved == nil {
		t.Fatal("element-addressed action should report resolved coordinates")
	}
	if res.Resolved.X != 201 || res.Resolved.Y != 463.665 {
		t.Errorf("expected (201, 463.665), got (%v, %v)", res.Resolved.X, res.Resolved.Y)
	}

	if len(f.performed) != 1 {
		t.Fatalf("expected one gesture, got %d", len(f.performed))
	}
	tap, ok := f.performed[0].(driver.Tap)
	if !ok || tap.X != 201 || tap.Y != 463.665 {
		t.Errorf("dispatched gesture should aim at the center, got %+v", f.performed[0])
	}
}

func TestRun_OrderOfOperations(t *testing.T) {
	f := &fakeDevice{pre: signInScreen(), post: signInScreen()}
	o := newTestOrchestrator(f)

	if _, err := o.Run(context.Background(), "UDID", TapPoint{X: 5, Y: 6}); err != nil {
		t.Fatal(err)
	}
	want := []string{"capture", "perform", "capture"}
	if len(f.order) != 3 || f.order[0] != want[0] || f.order[1] != want[1] || f.order[2] != want[2] {
		t.Errorf("expected %v, got %v", want, f.order)
	}
}

func TestRun_ElementNotFoundAbortsBeforeDispatch(t *testing.T) {
	f := &fakeDevice{pre: signInScreen(), post: signInScreen()}
	o := newTestOrchestrator(f)

	res, err := o.Run(context.Background(), "UDID", TapElement{Label: "Checkout"})

	var nf *ElementNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected ElementNotFoundError, got %T", err)
	}
	if nf.Query != "Checkout" || nf.ElementCount != 2 {
		t.Errorf("error should carry query and element count: %+v", nf)
	}
	if len(nf.Labels) != 1 || nf.Labels[0] != "Sign In" {
		t.Errorf("error should list on-screen labels, got %v", nf.Labels)
	}

	if len(f.performed) != 0 {
		t.Error("no gesture may be dispatched when resolution fails")
	}
	if res.Status != StatusElementNotFound {
		t.Errorf("expected element-not-found, got %s", res.Status)
	}
	if res.Pre == nil || res.Post != nil {
		t.Error("result should carry the pre snapshot only")
	}
}

func TestRun_PreCaptureFailureAbortsEverything(t *testing.T) {
	f := &fakeDevice{failAt: map[int]error{1: errors.New("companion gone")}}
	o := newTestOrchestrator(f)

	res, err := o.Run(context.Background(), "UDID", TapPoint{X: 1, Y: 1})

	var ce *driver.CaptureError
	if !errors.As(err, &ce) {
		t.Fatalf("expected CaptureError, got %T", err)
	}
	if len(f.performed) != 0 {
		t.Error("device must stay untouched when the pre capture fails")
	}
	if res.Status != StatusCommandFailed || res.Pre != nil {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestRun_DispatchFailureStillTakesPostSnapshot(t *testing.T) {
	f := &fakeDevice{pre: signInScreen(), post: signInScreen(), actErr: errors.New("injection refused")}
	o := newTestOrchestrator(f)

	res, err := o.Run(context.Background(), "UDID", TypeText{Text: "hello"})

	var de *driver.DispatchError
	if !errors.As(err, &de) {
		t.Fatalf("expected DispatchError, got %T", err)
	}
	if f.captures != 2 {
		t.Errorf("post capture must still be attempted, captures = %d", f.captures)
	}
	if res.Post == nil {
		t.Error("partial state should be observable on dispatch failure")
	}
	if res.Status != StatusCommandFailed {
		t.Errorf("expected external-command-failed, got %s", res.Status)
	}
}

func TestRun_PostCaptureFailureSurfaces(t *testing.T) {
	f := &fakeDevice{pre: signInScreen(), failAt: map[int]error{2: errors.New("flaky")}}
	o := newTestOrchestrator(f)

	res, err := o.Run(context.Background(), "UDID", TapPoint{X: 1, Y: 1})

	var ce *driver.CaptureError
	if !errors.As(err, &ce) {
		t.Fatalf("expected CaptureError, got %T", err)
	}
	if res.Pre == nil || res.Post != nil {
		t.Error("result should carry the snapshots that were actually taken")
	}
}

func TestRun_ConfigErrorBeforeAnyExternalCall(t *testing.T) {
	f := &fakeDevice{pre: signInScreen(), post: signInScreen()}
	o := newTestOrchestrator(f)

	res, err := o.Run(context.Background(), "UDID", Scroll{Direction: "diagonal"})

	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConfigError, got %T", err)
	}
	if res != nil {
		t.Error("no cycle starts on invalid parameters")
	}
	if f.captures != 0 || len(f.performed) != 0 {
		t.Error("invalid parameters must not reach any external tool")
	}
}

func TestRun_ScrollUsesPreSnapshotGeometry(t *testing.T) {
	f := &fakeDevice{pre: signInScreen(), post: signInScreen()}
	o := newTestOrchestrator(f)

	if _, err := o.Run(context.Background(), "UDID", Scroll{Direction: DirectionDown}); err != nil {
		t.Fatal(err)
	}
	sw, ok := f.performed[0].(driver.Swipe)
	if !ok {
		t.Fatalf("scroll should dispatch a swipe, got %+v", f.performed[0])
	}
	if sw.FromX != 195 || sw.FromY != 572 || sw.ToX != 195 || sw.ToY != 272 {
		t.Errorf("unexpected geometry: %+v", sw)
	}
	if sw.Duration != 0.4 {
		t.Errorf("default speed should apply, got %v", sw.Duration)
	}
}

func TestRun_IdempotentActionYieldsEmptyDiff(t *testing.T) {
	f := &fakeDevice{pre: signInScreen(), post: signInScreen()}
	o := newTestOrchestrator(f)

	res, err := o.Run(context.Background(), "UDID", TapPoint{X: 10, Y: 10})
	if err != nil {
		t.Fatal(err)
	}
	if res.Diff == nil || !res.Diff.Empty() {
		t.Errorf("identical pre and post should produce an empty diff, got %+v", res.Diff)
	}
}

func TestRun_ReportsActionAndTarget(t *testing.T) {
	f := &fakeDevice{pre: signInScreen(), post: signInScreen()}
	o := newTestOrchestrator(f)

	res, err := o.Run(context.Background(), "UDID-7", OpenURL{URL: "maps://"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Action != "openurl" || res.Target != "UDID-7" {
		t.Errorf("result should identify the action and target: %+v", res)
	}
}
