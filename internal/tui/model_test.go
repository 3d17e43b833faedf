package tui

import (
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/mort/internal/core/browse"
	"github.com/colonyops/mort/internal/core/export"
	"github.com/colonyops/mort/internal/core/selection"
	"github.com/colonyops/mort/pkg/tuitest"
)

func TestModel_RendersCatalog(t *testing.T) {
	m, _ := newTestModel(t, sampleProvider())

	out := screen(m)
	assert.Contains(t, out, "Mortality Tables")
	assert.Contains(t, out, "3 tables")
	assert.Contains(t, out, "1980 CSO Basic Table")
	assert.Contains(t, out, "Annuity 2000 Basic")
	assert.Contains(t, out, "0 selected")
	assert.NotContains(t, out, "scroll for more")
}

func TestModel_LoadingBeforeCatalog(t *testing.T) {
	m := New(t.Context(), Deps{}, Options{})
	m = update(t, m, tuitest.WindowSize(100, 30))

	assert.Contains(t, screen(m), "Loading catalog…")
}

func TestModel_CatalogError(t *testing.T) {
	p := sampleProvider()
	p.err = errors.New("boom")

	m, _ := newTestModel(t, p)

	assert.Contains(t, screen(m), "Unable to load catalog: boom")
	assert.False(t, m.Controller().Loaded())
}

func TestModel_WarningsCollapse(t *testing.T) {
	p := sampleProvider()
	p.warnings = []string{"w1", "w2", "w3", "w4", "w5"}

	m, _ := newTestModel(t, p)

	out := screen(m)
	assert.NotContains(t, out, "! w2")
	assert.Contains(t, out, "! w3")
	assert.Contains(t, out, "! w5")
	assert.Contains(t, out, "+2 more")
}

func TestModel_Search(t *testing.T) {
	m, _ := newTestModel(t, sampleProvider())

	m = update(t, m, tuitest.KeyPress('/'))
	require.True(t, m.searching)

	m = update(t, m, tuitest.Type("qqqqqq")...)
	assert.Equal(t, "qqqqqq", m.Controller().Query())
	assert.Contains(t, screen(m), "No tables match “qqqqqq”.")

	m = update(t, m, tuitest.KeyEsc())
	assert.False(t, m.searching)

	// list keys no longer reach the input
	m = update(t, m, tuitest.KeyPress('j'))
	assert.Equal(t, "qqqqqq", m.Controller().Query())
}

func TestModel_SearchDownLeavesInput(t *testing.T) {
	m, _ := newTestModel(t, sampleProvider())

	m = update(t, m, tuitest.KeyPress('/'), tuitest.KeyDown())

	assert.False(t, m.searching)
	assert.Equal(t, 1, m.Controller().Cursor())
}

func TestModel_Navigation(t *testing.T) {
	m, _ := newTestModel(t, sampleProvider())

	m = send(t, m, tuitest.KeyPress('j'), tuitest.KeyPress('j'), tuitest.KeyPress('j'))
	assert.Equal(t, 2, m.Controller().Cursor(), "cursor stops on the last row")

	m = send(t, m, tuitest.KeyPress('g'))
	assert.Equal(t, 0, m.Controller().Cursor())

	m = send(t, m, tuitest.KeyPress('G'))
	assert.Equal(t, 2, m.Controller().Cursor())

	m = send(t, m, tuitest.KeyUp())
	assert.Equal(t, 1, m.Controller().Cursor())
}

func TestModel_Selection(t *testing.T) {
	m, _ := newTestModel(t, sampleProvider())
	ctrl := m.Controller()

	m = send(t, m, tuitest.KeySpace())
	assert.Equal(t, 1, ctrl.SelectedCount())
	assert.Equal(t, selection.Indeterminate, ctrl.HeaderState())
	assert.Contains(t, screen(m), "1 selected")

	m = send(t, m, tuitest.KeyPress('j'), tuitest.KeyPress('j'), tuitest.KeyShiftSpace())
	assert.Equal(t, 3, ctrl.SelectedCount())
	assert.Equal(t, selection.Checked, ctrl.HeaderState())
	assert.Contains(t, screen(m), "[x] ID")

	m = send(t, m, tuitest.KeyPress('x'))
	assert.Equal(t, 0, ctrl.SelectedCount())

	m = send(t, m, tuitest.KeyPress('a'))
	assert.Equal(t, 3, ctrl.SelectedCount())

	send(t, m, tuitest.KeyPress('a'))
	assert.Equal(t, 0, ctrl.SelectedCount())
}

func TestModel_DetailModal(t *testing.T) {
	m, _ := newTestModel(t, sampleProvider())

	next, cmd := m.Update(tuitest.KeyEnter())
	m = next.(Model)
	require.True(t, m.Controller().ModalOpen())
	assert.Contains(t, screen(m), "Loading detail…")

	m = drain(t, m, cmd)
	require.NotNil(t, m.Controller().Detail())

	out := screen(m)
	assert.Contains(t, out, "Table 1")
	assert.Contains(t, out, "1980 CSO Basic Table")
	assert.Contains(t, out, "Classification")
	assert.Contains(t, out, "CSO / CET (CSO)")
	assert.Contains(t, out, "Table 1 of 1")

	m = send(t, m, tuitest.KeyPress('2'))
	assert.Equal(t, browse.TabMetadata, m.Controller().Tab())
	assert.Contains(t, tuitest.StripANSI(m.modal.Content()), "United States of America (US)")

	m = send(t, m, tuitest.KeyPress('3'))
	assert.Equal(t, browse.TabRates, m.Controller().Tab())
	body := tuitest.StripANSI(m.modal.Content())
	assert.Contains(t, body, "Duration")
	assert.Contains(t, body, "0.001200")

	m = send(t, m, tuitest.KeyPress('m'))
	assert.Equal(t, browse.ViewMatrix, m.Controller().RateView())
	assert.Contains(t, tuitest.StripANSI(m.modal.Content()), "Dur 2")

	m = send(t, m, tuitest.Key(tea.KeyTab))
	assert.Equal(t, browse.TabClassification, m.Controller().Tab())

	m = send(t, m, tuitest.KeyEsc())
	assert.False(t, m.Controller().ModalOpen())
	assert.Nil(t, m.modal)
}

func TestModel_DetailFailure(t *testing.T) {
	m, _ := newTestModel(t, sampleProvider())

	m = send(t, m, tuitest.KeyPress('G'), tuitest.KeyEnter())

	assert.Equal(t, browse.DetailFailed, m.Controller().DetailState())
	assert.Contains(t, screen(m), "Unable to load detail.")
}

func TestModel_DetailPayloadPaging(t *testing.T) {
	m, _ := newTestModel(t, sampleProvider())

	m = send(t, m, tuitest.KeyPress('j'), tuitest.KeyEnter())
	assert.Contains(t, screen(m), "Table 1 of 2")

	m = send(t, m, tuitest.KeyPress(']'))
	assert.Equal(t, 1, m.Controller().Payload())
	assert.Contains(t, screen(m), "Table 2 of 2")

	m = send(t, m, tuitest.KeyPress(']'))
	assert.Equal(t, 1, m.Controller().Payload())
}

func TestModel_RowExports(t *testing.T) {
	tests := []struct {
		name string
		key  rune
		file string
	}{
		{name: "json", key: 'e', file: "cso-1980.json"},
		{name: "csv", key: 'v', file: "cso-1980_1.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, sink := newTestModel(t, sampleProvider())

			m = send(t, m, tuitest.KeyPress(tt.key))

			assert.Equal(t, []string{tt.file}, sink.Names())
			assert.Contains(t, screen(m), "Saved "+tt.file)
			assert.False(t, m.Controller().RowBusy("/detail/cso-1980.json"))
		})
	}
}

func TestModel_RowExportFailure(t *testing.T) {
	m, sink := newTestModel(t, sampleProvider())

	m = send(t, m, tuitest.KeyPress('G'), tuitest.KeyPress('v'))

	assert.Empty(t, sink.Names())
	assert.Contains(t, screen(m), "row csv export failed")
	assert.False(t, m.Controller().RowBusy("/detail/gam-94.json"))
}

func TestModel_DetailExports(t *testing.T) {
	m, sink := newTestModel(t, sampleProvider())

	m = send(t, m, tuitest.KeyPress('j'), tuitest.KeyEnter(), tuitest.KeyPress('c'))
	assert.Equal(t, []string{"annuity-2000_1.csv", "annuity-2000_2.csv"}, sink.Names())

	send(t, m, tuitest.KeyPress('d'))
	assert.Contains(t, sink.Names(), "annuity-2000.json")
}

func TestModel_BulkExport(t *testing.T) {
	tests := []struct {
		name    string
		key     rune
		archive string
	}{
		{name: "json", key: 'J', archive: export.JSONArchiveName},
		{name: "csv", key: 'C', archive: export.CSVArchiveName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, sink := newTestModel(t, sampleProvider())

			m = send(t, m, tuitest.KeySpace(), tuitest.KeyPress('j'), tuitest.KeySpace())
			m = send(t, m, tuitest.KeyPress(tt.key))

			assert.Equal(t, []string{tt.archive}, sink.Names())
			assert.Contains(t, screen(m), "Saved "+tt.archive)
			assert.Empty(t, m.Controller().BulkRunning())
		})
	}
}

func TestModel_BulkWithoutSelectionDoesNothing(t *testing.T) {
	m, sink := newTestModel(t, sampleProvider())

	send(t, m, tuitest.KeyPress('J'))

	assert.Empty(t, sink.Names())
}

func TestModel_Quit(t *testing.T) {
	m, _ := newTestModel(t, sampleProvider())

	_, cmd := m.Update(tuitest.KeyPress('q'))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestModel_ResizeTracksRows(t *testing.T) {
	m, _ := newTestModel(t, sampleProvider())

	m = update(t, m, tuitest.WindowSize(80, 20))

	assert.Equal(t, 20-listChrome, m.Controller().Rows())
}
