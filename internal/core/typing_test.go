package core

import (
	"testing"
	"time"
)

func TestTypingSetSnapshotExcludesStale(t *testing.T) {
	set := newTypingSet()
	now := time.Now()

	set.Set("Ann", "#aaa", now.Add(-6*time.Second))
	set.Set("Bob", "#bbb", now)

	snap := set.Snapshot(now.Add(-5 * time.Second))
	if len(snap) != 1 || snap[0].Name != "Bob" {
		t.Fatalf("expected only Bob in snapshot, got %+v", snap)
	}
}

func TestTypingSetRefreshKeepsEntryAlive(t *testing.T) {
	set := newTypingSet()
	now := time.Now()

	set.Set("Ann", "#aaa", now.Add(-8*time.Second))
	set.Set("Ann", "#aaa", now)

	if removed := set.Prune(now.Add(-5 * time.Second)); removed {
		t.Fatal("refreshed entry must not be pruned")
	}
	if snap := set.Snapshot(now.Add(-5 * time.Second)); len(snap) != 1 {
		t.Fatalf("expected Ann present, got %+v", snap)
	}
}

func TestTypingSetPruneReportsRemovals(t *testing.T) {
	set := newTypingSet()
	now := time.Now()

	set.Set("Ann", "#aaa", now.Add(-11*time.Second))
	set.Set("Bob", "#bbb", now)

	if removed := set.Prune(now.Add(-10 * time.Second)); !removed {
		t.Fatal("expected a stale entry to be removed")
	}
	if removed := set.Prune(now.Add(-10 * time.Second)); removed {
		t.Fatal("second prune should be a no-op")
	}
}

func TestTypingSetClear(t *testing.T) {
	set := newTypingSet()
	now := time.Now()

	set.Set("Ann", "#aaa", now)
	set.Clear("Ann")
	set.Clear("Ghost")

	if snap := set.Snapshot(now.Add(-time.Second)); len(snap) != 0 {
		t.Fatalf("expected empty snapshot, got %+v", snap)
	}
}

func TestTypingSetSnapshotSortedByName(t *testing.T) {
	set := newTypingSet()
	now := time.Now()

	set.Set("Zoe", "#zzz", now)
	set.Set("Ann", "#aaa", now)
	set.Set("Mia", "#mmm", now)

	snap := set.Snapshot(now.Add(-time.Second))
	for i, want := range []string{"Ann", "Mia", "Zoe"} {
		if snap[i].Name != want {
			t.Fatalf("snapshot[%d] = %q, want %q", i, snap[i].Name, want)
		}
	}
}
