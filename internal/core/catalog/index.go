package catalog

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// Entry pairs a summary with the location of its source document.
type Entry struct {
	TableSummary
	Location string `json:"-"`
}

// Scan is the result of reading a catalog source once.
type Scan struct {
	Entries  []Entry
	Warnings []string
}

// ScanFunc reads every document of a catalog source.
type ScanFunc func(ctx context.Context) (Scan, error)

// Index builds the sorted catalog once and serves it from memory for the
// lifetime of the process. There is no invalidation; a failed scan is not
// cached and is retried on the next call.
type Index struct {
	scan ScanFunc
	cmp  *Comparator

	mu       sync.Mutex
	built    bool
	entries  []Entry
	byPath   map[string]int
	warnings []string
}

// NewIndex returns an index over scan. A nil comparator uses the root locale.
func NewIndex(scan ScanFunc, cmp *Comparator) *Index {
	if cmp == nil {
		cmp = comparator()
	}
	return &Index{scan: scan, cmp: cmp}
}

// Entries returns the sorted entries, scanning the source on first use.
// Callers must not modify the returned slice.
func (x *Index) Entries(ctx context.Context) ([]Entry, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.built {
		return x.entries, nil
	}

	scan, err := x.scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan catalog: %w", err)
	}

	entries := make([]Entry, 0, len(scan.Entries))
	byPath := make(map[string]int, len(scan.Entries))
	warnings := append([]string(nil), scan.Warnings...)
	for _, e := range scan.Entries {
		if _, dup := byPath[e.DetailPath]; dup {
			warnings = append(warnings, fmt.Sprintf("%s: duplicate identifier %q, skipped", e.Location, e.Identifier))
			continue
		}
		byPath[e.DetailPath] = len(entries)
		entries = append(entries, e)
	}

	sortEntries(x.cmp, entries)
	for i, e := range entries {
		byPath[e.DetailPath] = i
	}

	x.entries = entries
	x.byPath = byPath
	x.warnings = warnings
	x.built = true
	return x.entries, nil
}

// Summaries returns the sorted summaries.
func (x *Index) Summaries(ctx context.Context) ([]TableSummary, error) {
	entries, err := x.Entries(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]TableSummary, len(entries))
	for i, e := range entries {
		out[i] = e.TableSummary
	}
	return out, nil
}

// Lookup finds the entry for a detail path.
func (x *Index) Lookup(ctx context.Context, detailPath string) (Entry, bool, error) {
	if _, err := x.Entries(ctx); err != nil {
		return Entry{}, false, err
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	i, ok := x.byPath[detailPath]
	if !ok {
		return Entry{}, false, nil
	}
	return x.entries[i], true, nil
}

// Warnings returns the non-fatal problems found while scanning.
func (x *Index) Warnings() []string {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.warnings
}

func sortEntries(cmp *Comparator, entries []Entry) {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		return cmp.Compare(a.TableSummary, b.TableSummary)
	})
}
