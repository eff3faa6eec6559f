package core

import (
	"sort"
	"time"
)

// TypingState is one entry of a channel's current-typing snapshot.
type TypingState struct {
	Name  string
	Color string
}

type typingEntry struct {
	color     string
	refreshed time.Time
}

// typingSet tracks which display names are currently typing in a channel.
// Each name is either absent or present with its last refresh time.
type typingSet struct {
	entries map[string]typingEntry
}

func newTypingSet() typingSet {
	return typingSet{entries: make(map[string]typingEntry)}
}

// Set inserts or refreshes a typing entry.
func (t typingSet) Set(name, color string, now time.Time) {
	t.entries[name] = typingEntry{color: color, refreshed: now}
}

// Clear removes the entry for name if present.
func (t typingSet) Clear(name string) {
	delete(t.entries, name)
}

// Prune drops entries refreshed before cutoff. Reports whether any were removed.
func (t typingSet) Prune(cutoff time.Time) bool {
	removed := false
	for name, e := range t.entries {
		if e.refreshed.Before(cutoff) {
			delete(t.entries, name)
			removed = true
		}
	}
	return removed
}

// Snapshot returns entries refreshed at or after cutoff, sorted by name so
// every recipient sees the same order.
func (t typingSet) Snapshot(cutoff time.Time) []TypingState {
	states := make([]TypingState, 0, len(t.entries))
	for name, e := range t.entries {
		if e.refreshed.Before(cutoff) {
			continue
		}
		states = append(states, TypingState{Name: name, Color: e.color})
	}
	sort.Slice(states, func(i, j int) bool { return states[i].Name < states[j].Name })
	return states
}
