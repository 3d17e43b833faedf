// Package detail loads full table documents on demand and guards against
// stale results when the user re-selects faster than fetches complete.
package detail

import (
	"context"
	"sync"

	"github.com/colonyops/mort/internal/core/catalog"
	"github.com/colonyops/mort/internal/core/logging"
	"github.com/rs/zerolog"
)

// Fetcher retrieves a detail document by its detail path.
type Fetcher interface {
	FetchDetail(ctx context.Context, path string) (*catalog.ConvertedTable, error)
}

// Ticket identifies one detail request. Only the most recently issued
// ticket is current.
type Ticket struct {
	Seq  uint64
	Path string
}

// Result is the outcome of loading a ticket.
type Result struct {
	Ticket Ticket
	Detail *catalog.ConvertedTable
	Err    error
}

// Store issues tickets and loads details. Loading never touches visible
// state; callers apply a Result only when Current reports true.
type Store struct {
	fetcher Fetcher
	log     zerolog.Logger

	mu     sync.Mutex
	seq    uint64
	active uint64
}

// NewStore returns a store backed by fetcher.
func NewStore(fetcher Fetcher) *Store {
	return &Store{fetcher: fetcher, log: logging.Component("detail")}
}

// Begin issues a ticket for path, superseding any ticket in flight.
func (s *Store) Begin(path string) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.active = s.seq
	return Ticket{Seq: s.seq, Path: path}
}

// Load fetches the document for t. It may be called from any goroutine.
func (s *Store) Load(ctx context.Context, t Ticket) Result {
	doc, err := s.fetcher.FetchDetail(ctx, t.Path)
	if err != nil {
		s.log.Debug().Err(err).Str("path", t.Path).Uint64("ticket", t.Seq).Msg("detail load failed")
	}
	return Result{Ticket: t, Detail: doc, Err: err}
}

// Current reports whether t is still the active ticket.
func (s *Store) Current(t Ticket) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := t.Seq != 0 && t.Seq == s.active
	if !ok {
		s.log.Debug().Str("path", t.Path).Uint64("ticket", t.Seq).Msg("dropping superseded detail")
	}
	return ok
}

// Cancel invalidates the active ticket. In-flight fetches run to completion
// and their results are discarded.
func (s *Store) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = 0
}
