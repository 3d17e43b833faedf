package search

// Default reveal settings. The scroll threshold is in the caller's display
// units.
const (
	DefaultBatch           = 40
	DefaultScrollThreshold = 48
)

// Window tracks how many items of a filtered list are revealed. It grows
// one batch at a time as the viewport nears the end of rendered content.
type Window struct {
	batch     int
	threshold int
	visible   int
}

// NewWindow returns a window. A non-positive batch or a negative threshold
// uses the default.
func NewWindow(batch, threshold int) *Window {
	if batch <= 0 {
		batch = DefaultBatch
	}
	if threshold < 0 {
		threshold = DefaultScrollThreshold
	}
	return &Window{batch: batch, threshold: threshold, visible: batch}
}

// Batch returns the growth step.
func (w *Window) Batch() int { return w.batch }

// Visible returns the number of revealed items.
func (w *Window) Visible() int { return w.visible }

// HasMore reports whether items beyond the window remain.
func (w *Window) HasMore(n int) bool { return w.visible < n }

// Reset shows the first batch of a new list of length n. Callers scroll
// back to the top after a reset.
func (w *Window) Reset(n int) int {
	w.visible = min(w.batch, n)
	return w.visible
}

// OnScroll grows the window by one batch, capped at n, when the bottom of
// the viewport is within the threshold of the end of content. It reports
// whether the window grew.
func (w *Window) OnScroll(offset, viewport, content, n int) bool {
	if w.visible >= n {
		return false
	}
	if offset+viewport < content-w.threshold {
		return false
	}
	w.visible = min(n, w.visible+w.batch)
	return true
}

// Slice returns the revealed prefix of items.
func Slice[T any](w *Window, items []T) []T {
	return items[:min(w.visible, len(items))]
}
