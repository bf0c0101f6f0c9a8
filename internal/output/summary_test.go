package output

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/simkit/sim-cli/internal/model"
)

func summaryFixture() *model.Snapshot {
	disabled := false
	return &model.Snapshot{Elements: []model.UIElement{
		{Role: model.RoleApplication, Label: "Demo", Frame: model.Rect{Width: 390, Height: 844}},
		{Role: "AXStaticText", Label: "Welcome back"},
		{Role: "AXTextField", Label: "Email", Frame: model.Rect{X: 20, Y: 300, Width: 350, Height: 44}},
		{Role: "AXButton", Type: "Button", Label: "Sign In", Frame: model.Rect{X: 20, Y: 400, Width: 350, Height: 44}},
		{Role: "AXButton", Label: "Hidden", Enabled: &disabled},
	}}
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	WriteSummary(&buf, "PRE  | tap(10, 20)", summaryFixture())
	out := buf.String()

	for _, want := range []string{
		"PRE  | tap(10, 20)",
		"App    : Demo",
		"Elements: 5",
		"Interactive (2):",
		"'Email'",
		"'Sign In'",
		"tap(195, 422)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}

	// Disabled elements are not interactive.
	if strings.Contains(out, "Hidden") {
		t.Errorf("disabled element should not be listed:\n%s", out)
	}
	// Type takes precedence over role in the listing.
	if !strings.Contains(out, "[Button") {
		t.Errorf("expected type name in listing:\n%s", out)
	}
}

func TestWriteSummary_CapsListing(t *testing.T) {
	snap := &model.Snapshot{}
	for i := 0; i < 20; i++ {
		snap.Elements = append(snap.Elements, model.UIElement{
			Role:  "AXButton",
			Label: fmt.Sprintf("Button %d", i),
			Frame: model.Rect{Y: float64(i * 50), Width: 100, Height: 40},
		})
	}

	var buf bytes.Buffer
	WriteSummary(&buf, "UI State", snap)
	out := buf.String()

	if !strings.Contains(out, "Interactive (20):") {
		t.Errorf("expected full interactive count:\n%s", out)
	}
	if !strings.Contains(out, "and 5 more") {
		t.Errorf("expected truncation marker:\n%s", out)
	}
	if strings.Contains(out, "'Button 15'") {
		t.Errorf("elements past the cap should not be listed:\n%s", out)
	}
}

func TestWriteLabels(t *testing.T) {
	var buf bytes.Buffer
	WriteLabels(&buf, summaryFixture())
	out := buf.String()

	if !strings.Contains(out, "Available labels:") {
		t.Errorf("missing header:\n%s", out)
	}
	// Labels listing covers every labeled element, not just interactive.
	if !strings.Contains(out, "'Welcome back'") {
		t.Errorf("static text label missing:\n%s", out)
	}
	if !strings.Contains(out, "'Sign In'  center=(195,422)") {
		t.Errorf("center missing:\n%s", out)
	}
}

func TestWriteElements(t *testing.T) {
	var buf bytes.Buffer
	WriteElements(&buf, summaryFixture())
	out := buf.String()

	if !strings.Contains(out, "frame=(20,400,350×44)") {
		t.Errorf("frame missing:\n%s", out)
	}
	if !strings.Contains(out, "disabled") {
		t.Errorf("disabled marker missing:\n%s", out)
	}
}

func TestWriteElementList(t *testing.T) {
	snap := summaryFixture()
	var els []*model.UIElement
	snap.Walk(func(el *model.UIElement) bool {
		if el.Role == "AXButton" {
			els = append(els, el)
		}
		return true
	})

	var buf bytes.Buffer
	WriteElementList(&buf, els)
	out := buf.String()

	if !strings.Contains(out, "'Sign In'") || !strings.Contains(out, "'Hidden'") {
		t.Errorf("expected both buttons listed:\n%s", out)
	}
	if strings.Contains(out, "'Email'") {
		t.Errorf("unselected element should not be listed:\n%s", out)
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(summaryFixture())
	if s.App != "Demo" {
		t.Errorf("app: got %q, want Demo", s.App)
	}
	if s.Elements != 5 {
		t.Errorf("elements: got %d, want 5", s.Elements)
	}
	if len(s.Interactive) != 2 {
		t.Fatalf("interactive: got %d, want 2", len(s.Interactive))
	}
	if s.Interactive[1].Text != "Sign In" || s.Interactive[1].Center.X != 195 {
		t.Errorf("unexpected interactive entry: %+v", s.Interactive[1])
	}

	if Summarize(nil) != nil {
		t.Error("nil snapshot should summarize to nil")
	}
}

func TestDisplayRole(t *testing.T) {
	if got := DisplayRole(&model.UIElement{Type: "Button", Role: "AXButton"}); got != "Button" {
		t.Errorf("type should win: got %q", got)
	}
	if got := DisplayRole(&model.UIElement{Role: "AXButton"}); got != "AXButton" {
		t.Errorf("role fallback: got %q", got)
	}
	if got := DisplayRole(&model.UIElement{}); got != "?" {
		t.Errorf("empty element: got %q", got)
	}
}
