package driver

import (
	"errors"
	"fmt"
	"strings"
)

// TargetBooted is the literal callers may pass instead of a UDID to mean
// "the one booted simulator". It resolves through device discovery; when
// zero or several simulators are booted there is no implicit choice and
// resolution fails instead of guessing.
const TargetBooted = "booted"

// ResolveBooted picks the single booted target from a device listing.
func ResolveBooted(targets []Target) (Target, error) {
	var booted []Target
	for _, t := range targets {
		if t.Booted() {
			booted = append(booted, t)
		}
	}
	switch len(booted) {
	case 0:
		return Target{}, errors.New("no booted simulator; start one with 'sim-cli boot <udid>'")
	case 1:
		return booted[0], nil
	default:
		descs := make([]string, len(booted))
		for i, t := range booted {
			descs[i] = fmt.Sprintf("%s (%s)", t.UDID, t.Name)
		}
		return Target{}, fmt.Errorf("%d simulators are booted, pass --udid explicitly: %s",
			len(booted), strings.Join(descs, ", "))
	}
}

// FindTarget locates a device by UDID, case-insensitively.
func FindTarget(targets []Target, udid string) (Target, bool) {
	for _, t := range targets {
		if strings.EqualFold(t.UDID, udid) {
			return t, true
		}
	}
	return Target{}, false
}
