package cmd

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/simkit/sim-cli/internal/model"
)

// fakeIntrospector serves a scripted sequence of snapshots, repeating the
// last one once the script runs out. A non-nil err fails every capture.
type fakeIntrospector struct {
	snaps []*model.Snapshot
	err   error
	calls int
}

func (f *fakeIntrospector) Capture(ctx context.Context, target string, nested bool) (*model.Snapshot, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	i := f.calls - 1
	if i >= len(f.snaps) {
		i = len(f.snaps) - 1
	}
	return f.snaps[i], nil
}

func emptyScreen() *model.Snapshot {
	return &model.Snapshot{Elements: []model.UIElement{
		{Role: "AXApplication", Label: "Demo", Frame: model.Rect{Width: 390, Height: 844}},
	}}
}

func screenWith(label string) *model.Snapshot {
	s := emptyScreen()
	s.Elements = append(s.Elements, model.UIElement{
		Role: "AXButton", Type: "Button", Label: label,
		Frame: model.Rect{X: 10, Y: 100, Width: 100, Height: 44},
	})
	return s
}

func TestWaitSatisfied(t *testing.T) {
	present := screenWith("Welcome")
	absent := emptyScreen()

	if el, ok := waitSatisfied(present, "Welcome", false); !ok || el == nil {
		t.Error("appear condition should be met when the element is present")
	}
	if _, ok := waitSatisfied(absent, "Welcome", false); ok {
		t.Error("appear condition should not be met on an empty screen")
	}
	if _, ok := waitSatisfied(absent, "Welcome", true); !ok {
		t.Error("gone condition should be met when the element is absent")
	}
	if _, ok := waitSatisfied(present, "Welcome", true); ok {
		t.Error("gone condition should not be met while the element is present")
	}
}

func TestPollUntil_SucceedsWhenElementAppears(t *testing.T) {
	intro := &fakeIntrospector{snaps: []*model.Snapshot{
		emptyScreen(),
		emptyScreen(),
		screenWith("Welcome"),
	}}

	polls, _, ok := pollUntil(context.Background(), intro, "UDID-1",
		time.Second, time.Millisecond, func(snap *model.Snapshot) bool {
			_, met := waitSatisfied(snap, "Welcome", false)
			return met
		})

	if !ok {
		t.Fatal("expected the condition to be met")
	}
	if polls != 3 {
		t.Errorf("polls = %d, want 3", polls)
	}
}

func TestPollUntil_TimesOut(t *testing.T) {
	intro := &fakeIntrospector{snaps: []*model.Snapshot{emptyScreen()}}

	_, _, ok := pollUntil(context.Background(), intro, "UDID-1",
		20*time.Millisecond, 5*time.Millisecond, func(snap *model.Snapshot) bool {
			return false
		})

	if ok {
		t.Error("expected a timeout")
	}
}

func TestPollUntil_ToleratesCaptureErrors(t *testing.T) {
	intro := &fakeIntrospector{err: errors.New("describe failed")}

	polls, _, ok := pollUntil(context.Background(), intro, "UDID-1",
		20*time.Millisecond, 5*time.Millisecond, func(snap *model.Snapshot) bool {
			return true
		})

	if ok {
		t.Error("condition cannot be met when every capture fails")
	}
	if polls < 2 {
		t.Errorf("polling should continue past capture errors, got %d polls", polls)
	}
}

func TestWaitCommand_Flags(t *testing.T) {
	tests := []struct {
		name     string
		flagType string
	}{
		{"for-label", "string"},
		{"gone", "bool"},
		{"wait-timeout", "duration"},
		{"interval", "duration"},
	}

	flags := waitCmd.Flags()
	for _, tt := range tests {
		f := flags.Lookup(tt.name)
		if f == nil {
			t.Errorf("expected flag %q not found", tt.name)
			continue
		}
		if f.Value.Type() != tt.flagType {
			t.Errorf("flag %q: expected type %q, got %q", tt.name, tt.flagType, f.Value.Type())
		}
	}
}
