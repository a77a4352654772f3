package fuzzy

// Picker is the selection state on top of a Finder: a growable query and
// a selected index into the last filtered result set.
type Picker struct {
	finder      *Finder
	query       []byte
	selectedIdx int
}

// NewPicker returns a picker over finder.
func NewPicker(finder *Finder) *Picker {
	p := &Picker{finder: finder}
	p.finder.Filter("")
	return p
}

// Query returns the current query string.
func (p *Picker) Query() string { return string(p.query) }

// Results returns the last filtered result set.
func (p *Picker) Results() []ScoredEntry { return p.finder.Results() }

// Selected returns the currently selected result, or ok=false if there are
// no results.
func (p *Picker) Selected() (ScoredEntry, bool) {
	results := p.finder.Results()
	if p.selectedIdx < 0 || p.selectedIdx >= len(results) {
		return ScoredEntry{}, false
	}
	return results[p.selectedIdx], true
}

// SelectedIndex returns the current selection index.
func (p *Picker) SelectedIndex() int { return p.selectedIdx }

// UpdateQuery replaces the query, re-runs the filter, and resets the
// selection to 0.
func (p *Picker) UpdateQuery(s string) {
	p.query = []byte(s)
	p.finder.Filter(s)
	p.selectedIdx = 0
}

// MoveSelection adjusts the selected index by delta, clamping to
// [0, len(results)).
func (p *Picker) MoveSelection(delta int) {
	results := p.finder.Results()
	if len(results) == 0 {
		p.selectedIdx = 0
		return
	}
	p.selectedIdx = clampInt(p.selectedIdx+delta, 0, len(results)-1)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
