// Package selection tracks the set of tables chosen for bulk export.
package selection

import "github.com/colonyops/mort/internal/core/catalog"

// HeaderState is the tri-state of a select-all control.
type HeaderState int

const (
	Unchecked HeaderState = iota
	Indeterminate
	Checked
)

func (h HeaderState) String() string {
	switch h {
	case Checked:
		return "checked"
	case Indeterminate:
		return "indeterminate"
	default:
		return "unchecked"
	}
}

// Set is a selection of detail paths plus the anchor used for range
// toggles. The anchor is a position in the filtered list the last toggle
// was applied to; -1 means none. The zero value is not usable; call New.
type Set struct {
	keys   map[string]struct{}
	anchor int
}

// New returns an empty selection.
func New() *Set {
	return &Set{keys: map[string]struct{}{}, anchor: -1}
}

// Has reports whether path is selected.
func (s *Set) Has(path string) bool {
	_, ok := s.keys[path]
	return ok
}

// Count returns the number of selected paths.
func (s *Set) Count() int { return len(s.keys) }

// Anchor returns the current anchor position, or -1.
func (s *Set) Anchor() int { return s.anchor }

// Toggle sets path to checked. With shift held and an anchor present the
// whole inclusive range between the anchor and path is set instead. The
// anchor then moves to path. Paths not in filtered are ignored.
func (s *Set) Toggle(filtered []catalog.TableSummary, path string, shift, checked bool) {
	current := indexOf(filtered, path)
	if current < 0 {
		return
	}

	if shift && s.anchor >= 0 {
		start, end := min(current, s.anchor), max(current, s.anchor)
		for i := start; i <= end && i < len(filtered); i++ {
			s.apply(filtered[i].DetailPath, checked)
		}
	} else {
		s.apply(path, checked)
	}
	s.anchor = current
}

// ToggleAllFiltered deselects every filtered item when all of them are
// already selected, otherwise selects them all. Selections outside
// filtered are untouched.
func (s *Set) ToggleAllFiltered(filtered []catalog.TableSummary) {
	all := len(filtered) > 0 && s.CountIn(filtered) == len(filtered)
	for _, t := range filtered {
		s.apply(t.DetailPath, !all)
	}
}

// Clear empties the selection. The anchor is kept.
func (s *Set) Clear() {
	clear(s.keys)
}

// ResetAnchor forgets the range anchor. Call it whenever the filtered list
// changes.
func (s *Set) ResetAnchor() {
	s.anchor = -1
}

// HeaderState reports whether none, some, or all of filtered is selected.
func (s *Set) HeaderState(filtered []catalog.TableSummary) HeaderState {
	n := s.CountIn(filtered)
	switch {
	case n == 0:
		return Unchecked
	case n == len(filtered):
		return Checked
	default:
		return Indeterminate
	}
}

// CountIn returns how many items of list are selected.
func (s *Set) CountIn(list []catalog.TableSummary) int {
	n := 0
	for _, t := range list {
		if s.Has(t.DetailPath) {
			n++
		}
	}
	return n
}

// Selected returns the selected summaries in catalog order.
func (s *Set) Selected(all []catalog.TableSummary) []catalog.TableSummary {
	out := make([]catalog.TableSummary, 0, len(s.keys))
	for _, t := range all {
		if s.Has(t.DetailPath) {
			out = append(out, t)
		}
	}
	return out
}

// Paths returns the selected paths in catalog order, skipping any that are
// no longer in the catalog.
func (s *Set) Paths(all []catalog.TableSummary) []string {
	sel := s.Selected(all)
	out := make([]string, len(sel))
	for i, t := range sel {
		out[i] = t.DetailPath
	}
	return out
}

func (s *Set) apply(path string, checked bool) {
	if checked {
		s.keys[path] = struct{}{}
	} else {
		delete(s.keys, path)
	}
}

func indexOf(list []catalog.TableSummary, path string) int {
	for i, t := range list {
		if t.DetailPath == path {
			return i
		}
	}
	return -1
}
