package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyQueryMatchesAllWithZeroScore(t *testing.T) {
	f := NewFinder()
	f.AddEntry("/a", "a")
	f.AddEntry("/b", "b")

	results := f.Filter("")
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, 0, r.Score)
		assert.Empty(t, r.MatchPositions)
	}
}

func TestMatchPositionsStrictlyIncreasing(t *testing.T) {
	_, positions, ok := Match("fz", "fuzzy_finder.zig")
	require.True(t, ok)
	for i := 1; i < len(positions); i++ {
		assert.Greater(t, positions[i], positions[i-1])
	}
}

func TestBoundaryBonusOutranksMidStringMatch(t *testing.T) {
	scoreAtStart, _, ok := Match("fz", "fzonly")
	require.True(t, ok)
	scoreMidString, _, ok := Match("fz", "xfz.txt")
	require.True(t, ok)
	assert.Greater(t, scoreAtStart, scoreMidString)
}

func TestFuzzyMatchOrdering(t *testing.T) {
	f := NewFinder()
	f.AddEntry("/fuzzy_finder.zig", "fuzzy_finder.zig")
	f.AddEntry("/xfz.txt", "xfz.txt")
	f.AddEntry("/fzonly", "fzonly")

	results := f.Filter("fz")
	require.Len(t, results, 3)

	order := make([]string, len(results))
	for i, r := range results {
		order[i] = r.Entry.Display
	}
	assert.Equal(t, []string{"fzonly", "fuzzy_finder.zig", "xfz.txt"}, order)
}

func TestNonMatchingCandidateExcluded(t *testing.T) {
	_, _, ok := Match("xyz", "abc")
	assert.False(t, ok)
}

func TestFilterStableOnEqualScores(t *testing.T) {
	f := NewFinder()
	f.AddEntry("/1", "abc")
	f.AddEntry("/2", "abd")
	f.AddEntry("/3", "abe")

	results := f.Filter("ab")
	require.Len(t, results, 3)
	// All three score identically; stability means insertion order holds.
	assert.Equal(t, []string{"abc", "abd", "abe"}, []string{
		results[0].Entry.Display, results[1].Entry.Display, results[2].Entry.Display,
	})
}

func TestCaseInsensitiveMatch(t *testing.T) {
	_, _, ok := Match("FZ", "fuzzy")
	assert.True(t, ok)
}

func TestPickerMoveSelectionClamps(t *testing.T) {
	f := NewFinder()
	f.AddEntry("/a", "a")
	f.AddEntry("/b", "b")
	p := NewPicker(f)

	p.UpdateQuery("")
	p.MoveSelection(-5)
	assert.Equal(t, 0, p.SelectedIndex())

	p.MoveSelection(5)
	assert.Equal(t, 1, p.SelectedIndex())
}

func TestUpdateQueryResetsSelection(t *testing.T) {
	f := NewFinder()
	f.AddEntry("/a", "alpha")
	f.AddEntry("/b", "beta")
	p := NewPicker(f)
	p.UpdateQuery("a")
	p.MoveSelection(1)
	p.UpdateQuery("b")
	assert.Equal(t, 0, p.SelectedIndex())
}
