// Package browse holds the catalog browsing state: the filtered list, the
// reveal window, the selection, and the open detail. It has no UI
// dependencies; views feed it events and carry out the effects it returns.
package browse

import (
	"fmt"
	"strings"

	"github.com/colonyops/mort/internal/core/catalog"
	"github.com/colonyops/mort/internal/core/detail"
	"github.com/colonyops/mort/internal/core/export"
	"github.com/colonyops/mort/internal/core/ratematrix"
	"github.com/colonyops/mort/internal/core/search"
	"github.com/colonyops/mort/internal/core/selection"
)

// Options tunes the controller.
type Options struct {
	// Threshold is the search match cutoff. Zero uses search.DefaultThreshold.
	Threshold float64
	// Batch is the reveal step. Zero uses search.DefaultBatch.
	Batch int
	// ScrollThreshold is the distance, in rows, from the end of the revealed
	// list at which the next batch is revealed.
	ScrollThreshold int
}

// Controller is the single owner of browsing state. All mutation goes
// through Dispatch; everything else is a read.
type Controller struct {
	store *detail.Store
	opts  Options

	all        []catalog.TableSummary
	engine     *search.Engine
	warnings   []string
	catalogErr error
	loaded     bool

	query    string
	filtered []catalog.TableSummary
	window   *search.Window
	sel      *selection.Set

	cursor int
	offset int
	rows   int

	open     *catalog.TableSummary
	ticket   detail.Ticket
	doc      *catalog.ConvertedTable
	state    DetailState
	tab      Tab
	payload  int
	rateView RateView

	bulk    export.Kind
	rowBusy map[string]bool
}

// New returns a controller that loads details through store.
func New(store *detail.Store, opts Options) *Controller {
	return &Controller{
		store:   store,
		opts:    opts,
		engine:  search.New(nil, search.Options{Threshold: opts.Threshold}),
		window:  search.NewWindow(opts.Batch, opts.ScrollThreshold),
		sel:     selection.New(),
		rows:    1,
		rowBusy: map[string]bool{},
	}
}

// Dispatch applies an event and returns the effects it requires.
func (c *Controller) Dispatch(ev Event) []Effect {
	switch ev := ev.(type) {
	case CatalogLoaded:
		return c.onCatalog(ev)
	case QueryChanged:
		if ev.Query == c.query {
			return nil
		}
		c.query = ev.Query
		return c.refilter()
	case CursorMoved:
		c.moveCursor(c.cursor + ev.Delta)
	case CursorJumped:
		if ev.End {
			c.moveCursor(c.window.Visible() - 1)
		} else {
			c.moveCursor(0)
		}
	case Resized:
		c.rows = max(1, ev.Rows)
		c.clampOffset()
	case RowToggled:
		if path := c.resolve(ev.Path); path != "" {
			c.sel.Toggle(c.filtered, path, ev.Shift, !c.sel.Has(path))
		}
	case AllToggled:
		c.sel.ToggleAllFiltered(c.filtered)
	case SelectionCleared:
		c.sel.Clear()
	case RowOpened:
		return c.openRow(c.resolve(ev.Path))
	case DetailClosed:
		c.closeDetail()
	case DetailLoaded:
		c.onDetail(ev.Result)
	case TabSelected:
		if c.doc != nil {
			c.tab = ev.Tab
		}
	case TabCycled:
		if c.doc != nil {
			n := len(Tabs)
			c.tab = Tabs[((int(c.tab)+ev.Delta)%n+n)%n]
		}
	case PayloadPaged:
		c.pagePayload(ev.Delta)
	case RateViewSelected:
		c.setRateView(ev.View)
	case RateViewToggled:
		if c.rateView == ViewMatrix {
			c.setRateView(ViewList)
		} else {
			c.setRateView(ViewMatrix)
		}
	case ExportRequested:
		return c.requestExport(ev)
	case ExportFinished:
		return c.onExportFinished(ev)
	}
	return nil
}

func (c *Controller) onCatalog(ev CatalogLoaded) []Effect {
	if ev.Err != nil {
		c.catalogErr = ev.Err
		return []Effect{Notify{Level: LevelError, Message: "Unable to load catalog: " + ev.Err.Error()}}
	}
	c.catalogErr = nil
	c.loaded = true
	c.all = ev.Items
	c.warnings = ev.Warnings
	c.engine = search.New(ev.Items, search.Options{Threshold: c.opts.Threshold})
	return c.refilter()
}

// refilter recomputes the filtered list. The reveal window, the cursor,
// and the range anchor all restart with a new list.
func (c *Controller) refilter() []Effect {
	c.filtered = c.engine.Search(c.query)
	c.window.Reset(len(c.filtered))
	c.sel.ResetAnchor()
	c.cursor = 0
	c.offset = 0
	return []Effect{ScrollToTop{}}
}

func (c *Controller) moveCursor(to int) {
	visible := c.window.Visible()
	if visible == 0 {
		c.cursor, c.offset = 0, 0
		return
	}
	c.cursor = min(max(to, 0), visible-1)
	c.clampOffset()
	if c.window.OnScroll(c.offset, c.rows, visible, len(c.filtered)) {
		c.clampOffset()
	}
}

func (c *Controller) clampOffset() {
	if c.cursor < c.offset {
		c.offset = c.cursor
	}
	if c.cursor >= c.offset+c.rows {
		c.offset = c.cursor - c.rows + 1
	}
	maxOffset := max(0, c.window.Visible()-c.rows)
	c.offset = min(max(c.offset, 0), maxOffset)
}

// resolve returns path, or the cursor row's path when path is empty.
func (c *Controller) resolve(path string) string {
	if path != "" {
		return path
	}
	if row := c.CursorRow(); row != nil {
		return row.DetailPath
	}
	return ""
}

func (c *Controller) find(path string) (catalog.TableSummary, bool) {
	for _, list := range [][]catalog.TableSummary{c.filtered, c.all} {
		for _, s := range list {
			if s.DetailPath == path {
				return s, true
			}
		}
	}
	return catalog.TableSummary{}, false
}

func (c *Controller) openRow(path string) []Effect {
	s, ok := c.find(path)
	if !ok {
		return nil
	}
	c.open = &s
	c.ticket = c.store.Begin(s.DetailPath)
	c.doc = nil
	c.state = DetailLoading
	c.tab = TabClassification
	c.payload = 0
	c.rateView = ViewList
	return []Effect{LoadDetail{Ticket: c.ticket}}
}

func (c *Controller) closeDetail() {
	if c.open == nil {
		return
	}
	c.store.Cancel()
	c.open = nil
	c.doc = nil
	c.state = DetailIdle
	c.rateView = ViewList
}

func (c *Controller) onDetail(r detail.Result) {
	if c.open == nil || !c.store.Current(r.Ticket) {
		return
	}
	if r.Err != nil {
		c.doc = nil
		c.state = DetailFailed
		c.rateView = ViewList
		return
	}
	c.doc = r.Detail
	c.state = DetailIdle
	c.normalizeRateView()
}

func (c *Controller) pagePayload(delta int) {
	if c.doc == nil || len(c.doc.Tables) == 0 {
		return
	}
	c.payload = min(max(c.payload+delta, 0), len(c.doc.Tables)-1)
	c.normalizeRateView()
}

// normalizeRateView drops back to the list when the shown payload cannot
// be pivoted.
func (c *Controller) normalizeRateView() {
	if c.rateView == ViewMatrix && !c.CanUseMatrix() {
		c.rateView = ViewList
	}
}

func (c *Controller) setRateView(v RateView) {
	if v == ViewMatrix && !c.CanUseMatrix() {
		return
	}
	c.rateView = v
}

func (c *Controller) requestExport(ev ExportRequested) []Effect {
	switch ev.Op {
	case OpRowJSON, OpRowCSV:
		s, ok := c.find(c.resolve(ev.Path))
		if !ok {
			return nil
		}
		kind := export.JSON
		if ev.Op == OpRowCSV {
			if c.rowBusy[s.DetailPath] {
				return nil
			}
			c.rowBusy[s.DetailPath] = true
			kind = export.CSV
		}
		return []Effect{RunExport{Op: ev.Op, Kind: kind, Summary: s}}

	case OpDetailJSON:
		if c.open == nil {
			return nil
		}
		return []Effect{RunExport{Op: ev.Op, Kind: export.JSON, Summary: *c.open, Detail: c.doc}}

	case OpDetailCSV:
		if !c.CanExportDetailCSV() {
			return nil
		}
		return []Effect{RunExport{Op: ev.Op, Kind: export.CSV, Summary: *c.open, Detail: c.doc, Payload: c.payload}}

	case OpBulk:
		if !c.CanBulk() {
			return nil
		}
		c.bulk = ev.Kind
		return []Effect{RunExport{Op: ev.Op, Kind: ev.Kind, Summaries: c.sel.Selected(c.all)}}
	}
	return nil
}

func (c *Controller) onExportFinished(ev ExportFinished) []Effect {
	switch ev.Op {
	case OpRowCSV:
		delete(c.rowBusy, ev.Path)
	case OpBulk:
		c.bulk = ""
	}

	if ev.Err != nil {
		return []Effect{Notify{Level: LevelError, Message: fmt.Sprintf("%s export failed: %v", ev.Op, ev.Err)}}
	}
	if len(ev.Files) == 0 {
		return []Effect{Notify{Level: LevelInfo, Message: "Nothing to export"}}
	}
	return []Effect{Notify{Level: LevelInfo, Message: "Saved " + strings.Join(ev.Files, ", ")}}
}

// Query returns the current search query.
func (c *Controller) Query() string { return c.query }

// Loaded reports whether the catalog has arrived.
func (c *Controller) Loaded() bool { return c.loaded }

// CatalogErr returns the catalog load error, if any.
func (c *Controller) CatalogErr() error { return c.catalogErr }

// Warnings returns the catalog scan warnings.
func (c *Controller) Warnings() []string { return c.warnings }

// All returns the whole catalog in catalog order.
func (c *Controller) All() []catalog.TableSummary { return c.all }

// Filtered returns the search results.
func (c *Controller) Filtered() []catalog.TableSummary { return c.filtered }

// Visible returns the revealed prefix of the search results.
func (c *Controller) Visible() []catalog.TableSummary { return search.Slice(c.window, c.filtered) }

// HasMore reports whether results remain unrevealed.
func (c *Controller) HasMore() bool { return c.window.HasMore(len(c.filtered)) }

// Cursor returns the cursor position within the revealed rows.
func (c *Controller) Cursor() int { return c.cursor }

// Offset returns the first row on screen.
func (c *Controller) Offset() int { return c.offset }

// Rows returns the number of list rows on screen.
func (c *Controller) Rows() int { return c.rows }

// CursorRow returns the summary under the cursor, or nil.
func (c *Controller) CursorRow() *catalog.TableSummary {
	visible := c.Visible()
	if c.cursor < 0 || c.cursor >= len(visible) {
		return nil
	}
	s := visible[c.cursor]
	return &s
}

// IsSelected reports whether path is selected.
func (c *Controller) IsSelected(path string) bool { return c.sel.Has(path) }

// SelectedCount returns the size of the selection.
func (c *Controller) SelectedCount() int { return c.sel.Count() }

// VisibleSelectedCount returns how many revealed rows are selected.
func (c *Controller) VisibleSelectedCount() int { return c.sel.CountIn(c.Visible()) }

// FilteredSelectedCount returns how many search results are selected.
func (c *Controller) FilteredSelectedCount() int { return c.sel.CountIn(c.filtered) }

// Selected returns the selection in catalog order.
func (c *Controller) Selected() []catalog.TableSummary { return c.sel.Selected(c.all) }

// HeaderState returns the select-all checkbox state.
func (c *Controller) HeaderState() selection.HeaderState { return c.sel.HeaderState(c.filtered) }

// ModalOpen reports whether the detail view is open.
func (c *Controller) ModalOpen() bool { return c.open != nil }

// Open returns the summary of the open detail, or nil.
func (c *Controller) Open() *catalog.TableSummary { return c.open }

// Detail returns the loaded document of the open detail, or nil.
func (c *Controller) Detail() *catalog.ConvertedTable { return c.doc }

// DetailState returns the load status of the open detail.
func (c *Controller) DetailState() DetailState { return c.state }

// Tab returns the active detail tab.
func (c *Controller) Tab() Tab { return c.tab }

// Payload returns the position of the shown payload.
func (c *Controller) Payload() int { return c.payload }

// PayloadCount returns the number of payloads in the open document.
func (c *Controller) PayloadCount() int {
	if c.doc == nil {
		return 0
	}
	return len(c.doc.Tables)
}

// CurrentPayload returns the shown payload, or nil.
func (c *Controller) CurrentPayload() *catalog.TablePayload { return c.doc.Payload(c.payload) }

// CanUseMatrix reports whether the shown payload has a duration axis.
func (c *Controller) CanUseMatrix() bool { return ratematrix.HasDuration(c.CurrentPayload()) }

// RateView returns the rate view of the Rates tab.
func (c *Controller) RateView() RateView { return c.rateView }

// Matrix derives the rate matrix of the shown payload, or nil.
func (c *Controller) Matrix() *ratematrix.Matrix {
	p := c.CurrentPayload()
	if p == nil {
		return nil
	}
	m, ok := ratematrix.Build(p.Rates)
	if !ok {
		return nil
	}
	return m
}

// CanExportDetailCSV reports whether the shown payload has rates.
func (c *Controller) CanExportDetailCSV() bool {
	p := c.CurrentPayload()
	return c.open != nil && p != nil && len(p.Rates) > 0
}

// CanBulk reports whether bulk export is enabled.
func (c *Controller) CanBulk() bool { return c.sel.Count() > 0 && c.bulk == "" }

// BulkRunning returns the kind of the running bulk export, or "".
func (c *Controller) BulkRunning() export.Kind { return c.bulk }

// RowBusy reports whether a row CSV export of path is running.
func (c *Controller) RowBusy(path string) bool { return c.rowBusy[path] }
