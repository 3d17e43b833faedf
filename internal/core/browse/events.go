package browse

import (
	"github.com/colonyops/mort/internal/core/catalog"
	"github.com/colonyops/mort/internal/core/detail"
	"github.com/colonyops/mort/internal/core/export"
)

// Event is an input to Controller.Dispatch.
type Event interface{ isEvent() }

// CatalogLoaded delivers the catalog. Warnings are non-fatal scan problems.
type CatalogLoaded struct {
	Items    []catalog.TableSummary
	Warnings []string
	Err      error
}

// QueryChanged replaces the search query.
type QueryChanged struct{ Query string }

// CursorMoved moves the row cursor by Delta rows.
type CursorMoved struct{ Delta int }

// CursorJumped moves the row cursor to the first or last revealed row.
type CursorJumped struct{ End bool }

// Resized reports the number of list rows that fit on screen.
type Resized struct{ Rows int }

// RowToggled flips the checkbox of a row. Shift extends from the anchor.
type RowToggled struct {
	Path  string
	Shift bool
}

// AllToggled flips the select-all checkbox for the filtered list.
type AllToggled struct{}

// SelectionCleared empties the selection.
type SelectionCleared struct{}

// RowOpened opens the detail view for a row.
type RowOpened struct{ Path string }

// DetailClosed closes the detail view.
type DetailClosed struct{}

// DetailLoaded delivers the outcome of a detail fetch.
type DetailLoaded struct{ Result detail.Result }

// TabSelected switches the detail tab.
type TabSelected struct{ Tab Tab }

// TabCycled moves to the next (Delta 1) or previous (Delta -1) tab.
type TabCycled struct{ Delta int }

// PayloadPaged moves the payload pager by Delta.
type PayloadPaged struct{ Delta int }

// RateViewSelected switches between the rate list and matrix.
type RateViewSelected struct{ View RateView }

// RateViewToggled flips between the rate list and matrix.
type RateViewToggled struct{}

// ExportRequested asks for an export.
type ExportRequested struct {
	Op   ExportOp
	Kind export.Kind
	// Path names the row for row exports. Empty means the cursor row.
	Path string
}

// ExportFinished delivers the outcome of an export.
type ExportFinished struct {
	Op    ExportOp
	Kind  export.Kind
	Path  string
	Files []string
	Err   error
}

func (CatalogLoaded) isEvent()    {}
func (QueryChanged) isEvent()     {}
func (CursorMoved) isEvent()      {}
func (CursorJumped) isEvent()     {}
func (Resized) isEvent()          {}
func (RowToggled) isEvent()       {}
func (AllToggled) isEvent()       {}
func (SelectionCleared) isEvent() {}
func (RowOpened) isEvent()        {}
func (DetailClosed) isEvent()     {}
func (DetailLoaded) isEvent()     {}
func (TabSelected) isEvent()      {}
func (TabCycled) isEvent()        {}
func (PayloadPaged) isEvent()     {}
func (RateViewSelected) isEvent() {}
func (RateViewToggled) isEvent()  {}
func (ExportRequested) isEvent()  {}
func (ExportFinished) isEvent()   {}

// Effect is work the caller performs on the controller's behalf.
type Effect interface{ isEffect() }

// LoadDetail asks the caller to run detail.Store.Load for Ticket and feed
// the result back as DetailLoaded.
type LoadDetail struct{ Ticket detail.Ticket }

// ScrollToTop asks the caller to reset the list scroll position.
type ScrollToTop struct{}

// RunExport asks the caller to run an export and feed the outcome back as
// ExportFinished.
type RunExport struct {
	Op        ExportOp
	Kind      export.Kind
	Summary   catalog.TableSummary
	Summaries []catalog.TableSummary
	Detail    *catalog.ConvertedTable
	Payload   int
}

// Notify asks the caller to show a transient status line.
type Notify struct {
	Level   Level
	Message string
}

func (LoadDetail) isEffect()  {}
func (ScrollToTop) isEffect() {}
func (RunExport) isEffect()   {}
func (Notify) isEffect()      {}

// Level is the severity of a Notify effect.
type Level int

const (
	LevelInfo Level = iota
	LevelError
)

// ExportOp identifies an export action.
type ExportOp int

const (
	OpRowJSON ExportOp = iota
	OpRowCSV
	OpDetailJSON
	OpDetailCSV
	OpBulk
)

func (o ExportOp) String() string {
	switch o {
	case OpRowJSON:
		return "row json"
	case OpRowCSV:
		return "row csv"
	case OpDetailJSON:
		return "detail json"
	case OpDetailCSV:
		return "detail csv"
	case OpBulk:
		return "bulk"
	default:
		return "unknown"
	}
}
