// Package keywords matches free text against ordered keyword groups with a
// single Aho-Corasick pass.
package keywords

import (
	"sort"
	"sync"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"
)

// Matcher reports which groups of keywords occur in a text. Matching is
// ASCII case-insensitive. Group order is significant: First returns the
// lowest-numbered group present.
type Matcher struct {
	mu      sync.Mutex
	ac      ahocorasick.AhoCorasick
	groupOf []int
	groups  int
}

type Options struct {
	// WholeWords rejects matches embedded in a longer word.
	WholeWords bool
}

// New builds a matcher over groups. An empty group never matches.
func New(groups [][]string, opts Options) *Matcher {
	var patterns []string
	var groupOf []int
	for gi, g := range groups {
		for _, kw := range g {
			patterns = append(patterns, kw)
			groupOf = append(groupOf, gi)
		}
	}

	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		AsciiCaseInsensitive: true,
		MatchOnlyWholeWords:  opts.WholeWords,
		MatchKind:            ahocorasick.LeftMostLongestMatch,
		DFA:                  true,
	})

	return &Matcher{
		ac:      builder.Build(patterns),
		groupOf: groupOf,
		groups:  len(groups),
	}
}

// Groups returns the distinct matching group indexes in ascending order.
func (m *Matcher) Groups(text string) []int {
	if m.groups == 0 || text == "" {
		return nil
	}

	m.mu.Lock()
	matches := m.ac.FindAll(text)
	m.mu.Unlock()

	seen := make(map[int]struct{}, len(matches))
	out := make([]int, 0, len(matches))
	for _, match := range matches {
		g := m.groupOf[match.Pattern()]
		if _, dup := seen[g]; dup {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	sort.Ints(out)
	return out
}

// First returns the lowest matching group.
func (m *Matcher) First(text string) (int, bool) {
	gs := m.Groups(text)
	if len(gs) == 0 {
		return 0, false
	}
	return gs[0], true
}

// Has reports whether group g matches.
func (m *Matcher) Has(text string, g int) bool {
	for _, got := range m.Groups(text) {
		if got == g {
			return true
		}
	}
	return false
}

// Any reports whether any keyword matches.
func (m *Matcher) Any(text string) bool {
	return len(m.Groups(text)) > 0
}
