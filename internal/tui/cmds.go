package tui

import (
	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"

	"github.com/colonyops/mort/internal/core/browse"
	"github.com/colonyops/mort/internal/core/detail"
)

func (m Model) loadCatalog() tea.Cmd {
	src := m.deps.Catalog
	ctx := m.ctx
	return func() tea.Msg {
		items, err := src.ListCatalog(ctx)
		if err != nil {
			log.Error().Err(err).Msg("failed to load catalog")
			return browse.CatalogLoaded{Err: err}
		}
		var warnings []string
		if w, ok := src.(warner); ok {
			warnings = w.Warnings()
		}
		return browse.CatalogLoaded{Items: items, Warnings: warnings}
	}
}

func (m Model) loadDetail(t detail.Ticket) tea.Cmd {
	store := m.deps.Store
	ctx := m.ctx
	return func() tea.Msg {
		return browse.DetailLoaded{Result: store.Load(ctx, t)}
	}
}

func (m Model) runExport(e browse.RunExport) tea.Cmd {
	ex := m.deps.Exporter
	ctx := m.ctx
	return func() tea.Msg {
		done := browse.ExportFinished{Op: e.Op, Kind: e.Kind, Path: e.Summary.DetailPath}

		switch e.Op {
		case browse.OpRowJSON:
			name, err := ex.JSON(ctx, e.Summary.DetailPath, e.Summary.Identifier)
			done.Files, done.Err = appendName(nil, name), err
		case browse.OpDetailJSON:
			name, err := ex.JSON(ctx, e.Summary.DetailPath, e.Detail.ID())
			done.Files, done.Err = appendName(nil, name), err
		case browse.OpRowCSV:
			done.Files, done.Err = ex.RowCSV(ctx, e.Summary)
		case browse.OpDetailCSV:
			done.Files, done.Err = ex.DetailCSV(ctx, e.Detail, e.Payload)
		case browse.OpBulk:
			archive, err := ex.Bulk(ctx, e.Kind, e.Summaries)
			if archive != nil {
				done.Files = []string{archive.Name}
			}
			done.Err = err
		}

		if done.Err != nil {
			log.Error().Err(done.Err).Str("op", e.Op.String()).Msg("export failed")
		}
		return done
	}
}

func appendName(names []string, name string) []string {
	if name == "" {
		return names
	}
	return append(names, name)
}
