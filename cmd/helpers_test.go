package cmd

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/simkit/sim-cli/internal/action"
	"github.com/simkit/sim-cli/internal/model"
)

func TestParseCoord(t *testing.T) {
	tests := []struct {
		arg     string
		want    float64
		wantErr bool
	}{
		{"100", 100, false},
		{"201.5", 201.5, false},
		{"-10", -10, false},
		{"abc", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := parseCoord(tt.arg, "x")
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseCoord(%q): expected error, got %v", tt.arg, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseCoord(%q): unexpected error: %v", tt.arg, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseCoord(%q) = %v, want %v", tt.arg, got, tt.want)
		}
	}
}

func TestFormatChanges_SortedByField(t *testing.T) {
	changes := map[string][2]string{
		"value":   {"old", "new"},
		"enabled": {"true", "false"},
	}
	got := formatChanges(changes)
	want := `enabled: "true" → "false", value: "old" → "new"`
	if got != want {
		t.Errorf("formatChanges = %q, want %q", got, want)
	}
}

func TestWriteDiff_Empty(t *testing.T) {
	var buf bytes.Buffer
	writeDiff(&buf, &model.DiffSummary{Unchanged: 7})
	if !strings.Contains(buf.String(), "No observable UI change (7 elements unchanged)") {
		t.Errorf("unexpected empty-diff rendering: %q", buf.String())
	}
}

func TestWriteDiff_Nil(t *testing.T) {
	var buf bytes.Buffer
	writeDiff(&buf, nil)
	if buf.Len() != 0 {
		t.Errorf("nil diff should render nothing, got %q", buf.String())
	}
}

func TestWriteDiff_ListsEntries(t *testing.T) {
	var buf bytes.Buffer
	writeDiff(&buf, &model.DiffSummary{
		Added:   []string{`[Button] "OK"`},
		Removed: []string{`[Other] "Spinner"`},
		Changed: []model.ElementChange{
			{Role: "AXTextField", Text: "Email", Changes: map[string][2]string{"value": {"", "a@b.c"}}},
		},
		Unchanged: 12,
	})
	out := buf.String()

	for _, want := range []string{
		"1 added, 1 removed, 1 changed, 12 unchanged",
		`+ [Button] "OK"`,
		`- [Other] "Spinner"`,
		`~ [TextField] 'Email'`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("diff rendering missing %q:\n%s", want, out)
		}
	}
}

func TestWriteDiff_CapsLongListings(t *testing.T) {
	var added []string
	for i := 0; i < diffListCap+5; i++ {
		added = append(added, fmt.Sprintf(`[Other] "cell %d"`, i))
	}

	var buf bytes.Buffer
	writeDiff(&buf, &model.DiffSummary{Added: added})
	out := buf.String()

	if !strings.Contains(out, "… and 5 more") {
		t.Errorf("expected capped listing, got:\n%s", out)
	}
	if strings.Contains(out, fmt.Sprintf("cell %d", diffListCap)) {
		t.Errorf("entries past the cap should not be listed:\n%s", out)
	}
}

func TestNewCycleReport_Success(t *testing.T) {
	pre := &model.Snapshot{Elements: []model.UIElement{
		{Role: "AXButton", Label: "OK", Frame: model.Rect{X: 10, Y: 20, Width: 100, Height: 40}},
	}}
	res := &action.Result{
		Action:   "tap",
		Target:   "UDID-1",
		Status:   action.StatusSucceeded,
		Resolved: &model.Point{X: 60, Y: 40},
		Pre:      pre,
		Post:     pre,
		Diff:     &model.DiffSummary{Unchanged: 1},
	}

	rep := newCycleReport(action.TapPoint{X: 60, Y: 40}, "UDID-1", res, nil)

	if !rep.OK {
		t.Error("report should be OK on a nil error")
	}
	if rep.Action != "tap" || rep.Target != "UDID-1" {
		t.Errorf("unexpected identity fields: %+v", rep)
	}
	if rep.Pre == nil || rep.Post == nil || rep.Diff == nil {
		t.Error("summaries and diff should be carried into the report")
	}
	if rep.Labels != nil {
		t.Error("labels should only appear on resolution misses")
	}
}

func TestNewCycleReport_ElementNotFoundCarriesLabels(t *testing.T) {
	res := &action.Result{
		Action: "tap-element",
		Target: "UDID-1",
		Status: action.StatusElementNotFound,
		Pre:    &model.Snapshot{},
	}
	runErr := &action.ElementNotFoundError{
		Query:        "Sign In",
		ElementCount: 9,
		Labels:       []string{"Cancel", "Help"},
	}

	rep := newCycleReport(action.TapElement{Label: "Sign In"}, "UDID-1", res, runErr)

	if rep.OK {
		t.Error("report should not be OK when the cycle failed")
	}
	if rep.Error == "" {
		t.Error("error text should be set")
	}
	if len(rep.Labels) != 2 || rep.Labels[0] != "Cancel" {
		t.Errorf("on-screen labels should be carried: %v", rep.Labels)
	}
}

func TestNewCycleReport_ValidationFailureHasNoResult(t *testing.T) {
	rep := newCycleReport(action.Scroll{}, "UDID-1", nil, action.NewConfigError("unknown direction"))

	if rep.OK {
		t.Error("report should not be OK")
	}
	if rep.Pre != nil || rep.Post != nil || rep.Diff != nil {
		t.Error("no snapshots should be reported when validation rejected the request")
	}
}
