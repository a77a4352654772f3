// Package fuzzy implements the subsequence-matching scorer and picker
// state that power the editor's file/symbol pickers.
package fuzzy

import (
	"sort"
	"unicode"
)

// Entry is one candidate the matcher can score.
type Entry struct {
	Path    string
	Display string
}

// ScoredEntry is an Entry annotated with its match score and the byte
// positions in Display where the query matched, strictly increasing.
type ScoredEntry struct {
	Entry          Entry
	Score          int
	MatchPositions []int
}

// Match scores candidate against query. ok is false if the query's
// characters do not all appear, in order, in candidate (case-insensitive).
// On success, positions holds one strictly increasing byte index per query
// character matched.
func Match(query, candidate string) (score int, positions []int, ok bool) {
	if query == "" {
		return 0, nil, true
	}

	q := []rune(query)
	c := []rune(candidate)
	qi := 0
	consecutive := 0

	for ci := 0; ci < len(c) && qi < len(q); ci++ {
		if !runesEqualFold(c[ci], q[qi]) {
			consecutive = 0
			score--
			continue
		}

		positions = append(positions, ci)
		qi++
		consecutive++
		score += 1 + consecutive

		if ci == 0 || c[ci-1] == '/' || c[ci-1] == '_' {
			score += 5
		}
		if ci > 0 && unicode.IsLower(c[ci-1]) && unicode.IsUpper(c[ci]) {
			score += 3
		}
	}

	if qi != len(q) {
		return 0, nil, false
	}
	return score, runePositionsToByteOffsets(candidate, positions), true
}

func runesEqualFold(a, b rune) bool {
	return unicode.ToLower(a) == unicode.ToLower(b)
}

// runePositionsToByteOffsets converts rune-index match positions into byte
// offsets into s, since ScoredEntry.MatchPositions are documented as valid
// byte indices into Display.
func runePositionsToByteOffsets(s string, runeIdx []int) []int {
	if len(runeIdx) == 0 {
		return nil
	}
	byteOffsets := make([]int, 0, len(runeIdx))
	target := 0
	ri := 0
	byteOff := 0
	for _, r := range s {
		if target < len(runeIdx) && runeIdx[target] == ri {
			byteOffsets = append(byteOffsets, byteOff)
			target++
		}
		byteOff += runeLen(r)
		ri++
	}
	return byteOffsets
}

func runeLen(r rune) int {
	switch {
	case r < 0x80:
		return 1
	case r < 0x800:
		return 2
	case r < 0x10000:
		return 3
	default:
		return 4
	}
}

// Finder owns a list of entries plus the last-computed scored list.
type Finder struct {
	entries []Entry
	scored  []ScoredEntry
}

// NewFinder returns an empty finder.
func NewFinder() *Finder {
	return &Finder{}
}

// AddEntry appends a copy of the given path/display pair.
func (f *Finder) AddEntry(path, display string) {
	f.entries = append(f.entries, Entry{Path: path, Display: display})
}

// Entries returns the finder's current entry list.
func (f *Finder) Entries() []Entry { return f.entries }

// Results returns the last computed scored list.
func (f *Finder) Results() []ScoredEntry { return f.scored }

// Filter recomputes the scored list against query. An empty query yields
// every entry with score 0 and no match positions. Otherwise only
// matching entries appear, sorted by score descending, stable on ties
// (insertion order is the tiebreak).
func (f *Finder) Filter(query string) []ScoredEntry {
	scored := make([]ScoredEntry, 0, len(f.entries))
	for _, e := range f.entries {
		score, positions, ok := Match(query, e.Display)
		if !ok {
			continue
		}
		scored = append(scored, ScoredEntry{Entry: e, Score: score, MatchPositions: positions})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	f.scored = scored
	return scored
}
