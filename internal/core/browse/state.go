package browse

// Tab is a detail view tab.
type Tab int

const (
	TabClassification Tab = iota
	TabMetadata
	TabRates
)

// Tabs lists the detail tabs in display order.
var Tabs = []Tab{TabClassification, TabMetadata, TabRates}

func (t Tab) String() string {
	switch t {
	case TabMetadata:
		return "Metadata"
	case TabRates:
		return "Rates"
	default:
		return "Classification"
	}
}

// RateView selects how rates are shown.
type RateView int

const (
	ViewList RateView = iota
	ViewMatrix
)

func (v RateView) String() string {
	if v == ViewMatrix {
		return "Matrix"
	}
	return "List"
}

// DetailState is the load status of the open detail.
type DetailState int

const (
	DetailIdle DetailState = iota
	DetailLoading
	DetailFailed
)
