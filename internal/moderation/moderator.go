package moderation

import (
	"sort"
	"strings"

	goahocorasick "github.com/anknown/ahocorasick"
)

// Matcher answers whether a text contains any denylisted word, matched as a
// case-insensitive substring. It is a static word list, not a full profanity
// system: the relay rejects offending messages instead of rewriting them.
type Matcher struct {
	machine *goahocorasick.Machine
}

// New builds the Aho-Corasick automaton from the denylist. Empty or
// whitespace-only words are ignored; an empty list yields a matcher that
// matches nothing.
func New(words []string) (*Matcher, error) {
	patterns := make([][]rune, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		patterns = append(patterns, []rune(w))
	}
	if len(patterns) == 0 {
		return &Matcher{}, nil
	}

	// Build requires a sorted dictionary without duplicates.
	sort.Slice(patterns, func(i, j int) bool {
		return string(patterns[i]) < string(patterns[j])
	})
	deduped := patterns[:1]
	for _, p := range patterns[1:] {
		if string(p) != string(deduped[len(deduped)-1]) {
			deduped = append(deduped, p)
		}
	}
	patterns = deduped

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	return &Matcher{machine: m}, nil
}

// Match reports whether text contains a denylisted word.
func (m *Matcher) Match(text string) bool {
	if m == nil || m.machine == nil || text == "" {
		return false
	}
	norm := []rune(strings.ToLower(text))
	return len(m.machine.MultiPatternSearch(norm, true)) > 0
}
