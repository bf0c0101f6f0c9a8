package cmd

import (
	"testing"

	"github.com/simkit/sim-cli/internal/model"
)

func TestNewFoundElement(t *testing.T) {
	el := &model.UIElement{
		Role:  "AXButton",
		Type:  "Button",
		Label: "Sign In",
		Frame: model.Rect{X: 14.5, Y: 280.83, Width: 373, Height: 365.67},
	}

	got := newFoundElement(el)

	if got.Role != "Button" {
		t.Errorf("Role = %q, want Button (type preferred over role)", got.Role)
	}
	if got.Text != "Sign In" {
		t.Errorf("Text = %q", got.Text)
	}
	if got.Center.X != 201 {
		t.Errorf("Center.X = %v, want 201", got.Center.X)
	}
	if got.Center.Y != 463.665 {
		t.Errorf("Center.Y = %v, want 463.665", got.Center.Y)
	}
	if !got.Enabled {
		t.Error("missing enabled attribute should mean enabled")
	}
}

func TestNewFoundElement_Disabled(t *testing.T) {
	disabled := false
	el := &model.UIElement{Role: "AXButton", Label: "Pay", Enabled: &disabled}

	if got := newFoundElement(el); got.Enabled {
		t.Error("disabled element should report Enabled=false")
	}
}

func TestFindCommand_IsRegistered(t *testing.T) {
	for _, c := range rootCmd.Commands() {
		if c.Name() == "find" {
			return
		}
	}
	t.Error("find command not registered on root")
}
