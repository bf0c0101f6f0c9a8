package driver

import (
	"strings"
	"testing"
)

func TestResolveBooted_Single(t *testing.T) {
	targets := []Target{
		{UDID: "A", State: "Shutdown"},
		{UDID: "B", State: "Booted", Name: "iPhone 15"},
	}
	got, err := ResolveBooted(targets)
	if err != nil {
		t.Fatal(err)
	}
	if got.UDID != "B" {
		t.Errorf("expected B, got %s", got.UDID)
	}
}

func TestResolveBooted_None(t *testing.T) {
	_, err := ResolveBooted([]Target{{UDID: "A", State: "Shutdown"}})
	if err == nil || !strings.Contains(err.Error(), "no booted simulator") {
		t.Errorf("expected no-booted error, got %v", err)
	}
}

func TestResolveBooted_Ambiguous(t *testing.T) {
	targets := []Target{
		{UDID: "A", State: "Booted", Name: "iPhone 15"},
		{UDID: "B", State: "Booted", Name: "iPad"},
	}
	_, err := ResolveBooted(targets)
	if err == nil {
		t.Fatal("expected ambiguity error")
	}
	if !strings.Contains(err.Error(), "A") || !strings.Contains(err.Error(), "B") {
		t.Errorf("ambiguity error should list candidates, got %v", err)
	}
}

func TestFindTarget(t *testing.T) {
	targets := []Target{{UDID: "ABC-DEF", Name: "iPhone 15"}}
	if _, ok := FindTarget(targets, "abc-def"); !ok {
		t.Error("UDID lookup should be case-insensitive")
	}
	if _, ok := FindTarget(targets, "nope"); ok {
		t.Error("unknown UDID should not match")
	}
}
