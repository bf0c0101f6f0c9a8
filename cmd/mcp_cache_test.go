package cmd

import (
	"context"
	"testing"
	"time"

	"github.com/simkit/sim-cli/internal/model"
)

func TestMCPSnapshotCache_ServesWithinTTL(t *testing.T) {
	intro := &fakeIntrospector{snaps: []*model.Snapshot{screenWith("OK")}}
	cache := newMCPSnapshotCache(time.Minute)

	for i := 0; i < 3; i++ {
		if _, err := cache.capture(context.Background(), intro, "UDID-1", false); err != nil {
			t.Fatalf("capture %d: %v", i, err)
		}
	}

	if intro.calls != 1 {
		t.Errorf("expected 1 underlying capture, got %d", intro.calls)
	}
}

func TestMCPSnapshotCache_DisabledAlwaysCaptures(t *testing.T) {
	intro := &fakeIntrospector{snaps: []*model.Snapshot{screenWith("OK")}}
	cache := newMCPSnapshotCache(0)

	for i := 0; i < 3; i++ {
		if _, err := cache.capture(context.Background(), intro, "UDID-1", false); err != nil {
			t.Fatalf("capture %d: %v", i, err)
		}
	}

	if intro.calls != 3 {
		t.Errorf("ttl 0 should capture every time, got %d calls", intro.calls)
	}
}

func TestMCPSnapshotCache_KeysOnTargetAndForm(t *testing.T) {
	intro := &fakeIntrospector{snaps: []*model.Snapshot{screenWith("OK")}}
	cache := newMCPSnapshotCache(time.Minute)

	ctx := context.Background()
	_, _ = cache.capture(ctx, intro, "UDID-1", false)
	_, _ = cache.capture(ctx, intro, "UDID-1", true)
	_, _ = cache.capture(ctx, intro, "UDID-2", false)
	_, _ = cache.capture(ctx, intro, "UDID-1", false) // cached

	if intro.calls != 3 {
		t.Errorf("expected 3 underlying captures for 3 distinct keys, got %d", intro.calls)
	}
}

func TestMCPSnapshotCache_InvalidateTarget(t *testing.T) {
	intro := &fakeIntrospector{snaps: []*model.Snapshot{screenWith("OK")}}
	cache := newMCPSnapshotCache(time.Minute)

	ctx := context.Background()
	_, _ = cache.capture(ctx, intro, "UDID-1", false)
	_, _ = cache.capture(ctx, intro, "UDID-1", true)
	_, _ = cache.capture(ctx, intro, "UDID-2", false)

	cache.invalidateTarget("UDID-1")

	_, _ = cache.capture(ctx, intro, "UDID-1", false) // re-captured
	_, _ = cache.capture(ctx, intro, "UDID-2", false) // still cached

	if intro.calls != 4 {
		t.Errorf("expected 4 underlying captures, got %d", intro.calls)
	}
}

func TestMCPSnapshotCache_ExpiredEntryRefreshes(t *testing.T) {
	intro := &fakeIntrospector{snaps: []*model.Snapshot{screenWith("OK")}}
	cache := newMCPSnapshotCache(5 * time.Millisecond)

	ctx := context.Background()
	_, _ = cache.capture(ctx, intro, "UDID-1", false)
	time.Sleep(10 * time.Millisecond)
	_, _ = cache.capture(ctx, intro, "UDID-1", false)

	if intro.calls != 2 {
		t.Errorf("expired entry should refresh, got %d calls", intro.calls)
	}
}
