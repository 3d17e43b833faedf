package detail

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/colonyops/mort/internal/core/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatedFetcher blocks each fetch until its path is released.
type gatedFetcher struct {
	mu    sync.Mutex
	gates map[string]chan struct{}
}

func newGatedFetcher(paths ...string) *gatedFetcher {
	g := &gatedFetcher{gates: map[string]chan struct{}{}}
	for _, p := range paths {
		g.gates[p] = make(chan struct{})
	}
	return g
}

func (g *gatedFetcher) release(path string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	close(g.gates[path])
}

func (g *gatedFetcher) FetchDetail(ctx context.Context, path string) (*catalog.ConvertedTable, error) {
	g.mu.Lock()
	gate := g.gates[path]
	g.mu.Unlock()
	if gate == nil {
		return nil, errors.New("unknown path")
	}
	<-gate
	return &catalog.ConvertedTable{Identifier: catalog.Str(path)}, nil
}

func TestStore_LastRequestWins(t *testing.T) {
	f := newGatedFetcher("X", "Y")
	s := NewStore(f)

	tx := s.Begin("X")
	ty := s.Begin("Y")

	results := make(chan Result, 2)
	go func() { results <- s.Load(context.Background(), tx) }()
	go func() { results <- s.Load(context.Background(), ty) }()

	// Y completes first, X afterwards.
	f.release("Y")
	first := <-results
	f.release("X")
	second := <-results

	var applied *catalog.ConvertedTable
	for _, r := range []Result{first, second} {
		if s.Current(r.Ticket) {
			applied = r.Detail
		}
	}

	require.NotNil(t, applied)
	assert.Equal(t, "Y", applied.ID())
}

func TestStore_Cancel(t *testing.T) {
	f := newGatedFetcher("X")
	f.release("X")
	s := NewStore(f)

	ticket := s.Begin("X")
	s.Cancel()

	r := s.Load(context.Background(), ticket)
	require.NoError(t, r.Err)
	assert.False(t, s.Current(r.Ticket))
}

func TestStore_LoadError(t *testing.T) {
	s := NewStore(newGatedFetcher())

	ticket := s.Begin("missing")
	r := s.Load(context.Background(), ticket)

	require.Error(t, r.Err)
	assert.Nil(t, r.Detail)
	assert.True(t, s.Current(r.Ticket))
}

func TestStore_ZeroTicketNeverCurrent(t *testing.T) {
	s := NewStore(newGatedFetcher())
	assert.False(t, s.Current(Ticket{}))
}
