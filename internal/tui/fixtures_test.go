package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/mort/internal/core/browse"
	"github.com/colonyops/mort/internal/core/catalog"
	"github.com/colonyops/mort/internal/core/detail"
	"github.com/colonyops/mort/internal/core/export"
	"github.com/colonyops/mort/pkg/tuitest"
)

type fakeProvider struct {
	items    []catalog.TableSummary
	docs     map[string]*catalog.ConvertedTable
	warnings []string
	err      error
}

func (f *fakeProvider) ListCatalog(context.Context) ([]catalog.TableSummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

func (f *fakeProvider) Warnings() []string { return f.warnings }

func (f *fakeProvider) FetchDetail(_ context.Context, path string) (*catalog.ConvertedTable, error) {
	doc, ok := f.docs[path]
	if !ok {
		return nil, fmt.Errorf("not found: %s", path)
	}
	return doc, nil
}

func (f *fakeProvider) FetchRaw(ctx context.Context, path string) ([]byte, error) {
	doc, err := f.FetchDetail(ctx, path)
	if err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

func sampleProvider() *fakeProvider {
	return &fakeProvider{
		items: []catalog.TableSummary{
			{Identifier: "cso-1980", TableIdentity: "1", Name: "1980 CSO Basic Table", Provider: "Society of Actuaries", Summary: "Male", DetailPath: "/detail/cso-1980.json"},
			{Identifier: "annuity-2000", TableIdentity: "10", Name: "Annuity 2000 Basic", Provider: "Société Générale", DetailPath: "/detail/annuity-2000.json"},
			{Identifier: "gam-94", TableIdentity: "A", Name: "GAM-94", Provider: "Unknown provider", DetailPath: "/detail/gam-94.json"},
		},
		docs: map[string]*catalog.ConvertedTable{
			"/detail/cso-1980.json": {
				Identifier: catalog.Str("cso-1980"),
				Version:    catalog.Str("1.0"),
				Classification: &catalog.Classification{
					TableIdentity: catalog.Str("1"),
					ProviderName:  catalog.Str("Society of Actuaries"),
					TableName:     catalog.Str("1980 CSO Basic Table"),
					ContentType:   &catalog.ClassifiedValue{Code: "CSO", Label: "CSO / CET"},
					Keywords:      []string{"aggregate", "basic"},
				},
				Tables: []catalog.TablePayload{
					{
						Metadata: &catalog.TableMeta{
							ScalingFactor: catalog.Str("0"),
							Nation:        &catalog.ClassifiedValue{Code: "US", Label: "United States of America"},
						},
						Rates: []catalog.RateEntry{
							{Age: 20, Duration: catalog.Num(1), Rate: catalog.Num(0.0012)},
							{Age: 20, Duration: catalog.Num(2), Rate: catalog.Num(0.0015)},
							{Age: 21, Duration: catalog.Num(1), Rate: catalog.Num(0.0013)},
						},
					},
				},
			},
			"/detail/annuity-2000.json": {
				Identifier: catalog.Str("annuity-2000"),
				Tables: []catalog.TablePayload{
					{Rates: []catalog.RateEntry{{Age: 60, Rate: catalog.Num(0.01)}}},
					{Rates: []catalog.RateEntry{{Age: 60, Rate: catalog.Num(0.02)}}},
				},
			},
		},
	}
}

func newTestModel(t *testing.T, p *fakeProvider) (Model, *export.MemorySink) {
	t.Helper()
	sink := export.NewMemorySink()
	m := New(context.Background(), Deps{
		Catalog:  p,
		Store:    detail.NewStore(p),
		Exporter: export.New(p, sink, export.Options{}),
	}, Options{})

	m = send(t, m, tuitest.WindowSize(120, 40))
	m = drain(t, m, m.loadCatalog())
	return m, sink
}

// update applies msgs and throws away the returned commands.
func update(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

// send applies msgs and runs their commands to completion.
func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, cmd := m.Update(msg)
		m = drain(t, next.(Model), cmd)
	}
	return m
}

// drain runs cmd and feeds every browse event it yields back into the model
// until no work is left. Timer messages are dropped.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for i := 0; len(queue) > 0; i++ {
		require.Less(t, i, 100, "commands did not settle")

		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}

		switch msg := next().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case browse.Event:
			updated, c := m.Update(msg)
			m = updated.(Model)
			queue = append(queue, c)
		}
	}
	return m
}

func screen(m Model) string {
	return tuitest.StripANSI(m.render())
}
