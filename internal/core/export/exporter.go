// Package export writes tables out as JSON and CSV files, singly or bundled
// into zip archives.
package export

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/colonyops/mort/internal/core/catalog"
	"github.com/colonyops/mort/internal/core/logging"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds the number of concurrent fetches of a bulk
// export.
const DefaultConcurrency = 4

// ErrBusy is returned when an export of the same kind is already running.
var ErrBusy = errors.New("export already running")

// Source fetches detail documents. provider.Provider satisfies it.
type Source interface {
	FetchRaw(ctx context.Context, path string) ([]byte, error)
	FetchDetail(ctx context.Context, path string) (*catalog.ConvertedTable, error)
}

// Options configures an Exporter.
type Options struct {
	// Concurrency bounds bulk fetches. Zero uses DefaultConcurrency.
	Concurrency int
	// Now stamps archive entries. Nil uses time.Now.
	Now func() time.Time
}

// Archive is a built zip archive.
type Archive struct {
	Name    string
	Entries []string
	Data    []byte
}

// Exporter runs exports from a Source into a Sink.
type Exporter struct {
	src         Source
	sink        Sink
	concurrency int
	now         func() time.Time
	log         zerolog.Logger

	busy atomic.Bool

	rowMu   sync.Mutex
	rowBusy map[string]struct{}
}

// New returns an Exporter. sink may be nil when only BuildArchive is used.
func New(src Source, sink Sink, opts Options) *Exporter {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Exporter{
		src:         src,
		sink:        sink,
		concurrency: opts.Concurrency,
		now:         opts.Now,
		log:         logging.Component("export"),
		rowBusy:     map[string]struct{}{},
	}
}

// Busy reports whether a bulk export is running.
func (e *Exporter) Busy() bool { return e.busy.Load() }

// RowBusy reports whether a row CSV export of path is running.
func (e *Exporter) RowBusy(path string) bool {
	e.rowMu.Lock()
	defer e.rowMu.Unlock()
	_, ok := e.rowBusy[path]
	return ok
}

// JSON saves the raw document at detailPath. identifier names the file
// when known.
func (e *Exporter) JSON(ctx context.Context, detailPath, identifier string) (string, error) {
	data, err := e.src.FetchRaw(ctx, detailPath)
	if err != nil {
		return "", err
	}
	name, err := e.sink.Save(ctx, JSONFileName(detailPath, identifier), data)
	if err != nil {
		return "", err
	}
	e.log.Info().Str("path", detailPath).Str("file", name).Msg("exported json")
	return name, nil
}

// DetailCSV saves CSV files for a loaded document. A document with more
// than one payload exports every payload; otherwise only the payload at
// current. Payloads without rates produce no file.
func (e *Exporter) DetailCSV(ctx context.Context, doc *catalog.ConvertedTable, current int) ([]string, error) {
	if doc == nil {
		return nil, nil
	}

	var saved []string
	for _, pos := range csvPositions(doc, current) {
		name, err := e.sink.Save(ctx, CSVFileName(doc, pos), []byte(BuildCSV(doc, pos)))
		if err != nil {
			return saved, err
		}
		saved = append(saved, name)
	}

	e.log.Info().Str("identifier", doc.ID()).Strs("files", saved).Msg("exported csv")
	return saved, nil
}

// DetailCSVNames returns the file names DetailCSV would save for doc.
func DetailCSVNames(doc *catalog.ConvertedTable, current int) []string {
	if doc == nil {
		return nil
	}
	var names []string
	for _, pos := range csvPositions(doc, current) {
		names = append(names, CSVFileName(doc, pos))
	}
	return names
}

// csvPositions lists the payloads a detail CSV export writes: every
// payload of a multi-table document, otherwise current, skipping payloads
// without rates.
func csvPositions(doc *catalog.ConvertedTable, current int) []int {
	candidates := []int{current}
	if len(doc.Tables) > 1 {
		candidates = make([]int, len(doc.Tables))
		for i := range doc.Tables {
			candidates[i] = i
		}
	}

	var out []int
	for _, pos := range candidates {
		if p := doc.Payload(pos); p != nil && len(p.Rates) > 0 {
			out = append(out, pos)
		}
	}
	return out
}

// RowCSV fetches the document for s and saves its CSV files as DetailCSV
// does with the first payload. A second call for the same row while one
// is running returns ErrBusy.
func (e *Exporter) RowCSV(ctx context.Context, s catalog.TableSummary) ([]string, error) {
	e.rowMu.Lock()
	if _, ok := e.rowBusy[s.DetailPath]; ok {
		e.rowMu.Unlock()
		return nil, ErrBusy
	}
	e.rowBusy[s.DetailPath] = struct{}{}
	e.rowMu.Unlock()

	defer func() {
		e.rowMu.Lock()
		delete(e.rowBusy, s.DetailPath)
		e.rowMu.Unlock()
	}()

	doc, err := e.src.FetchDetail(ctx, s.DetailPath)
	if err != nil {
		e.log.Error().Err(err).Str("path", s.DetailPath).Msg("csv download failed")
		return nil, err
	}

	saved, err := e.DetailCSV(ctx, doc, 0)
	if err != nil {
		e.log.Error().Err(err).Str("path", s.DetailPath).Msg("csv download failed")
		return saved, err
	}
	return saved, nil
}

// Bulk builds an archive of every summary and saves it to the sink. Only
// one bulk export runs at a time; a concurrent call returns ErrBusy. An
// empty selection does nothing and returns a nil archive.
func (e *Exporter) Bulk(ctx context.Context, kind Kind, summaries []catalog.TableSummary) (*Archive, error) {
	if len(summaries) == 0 {
		return nil, nil
	}
	if !e.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer e.busy.Store(false)

	ctx = logging.WithJobID(ctx, uuid.NewString())
	log := e.log.With().Str("kind", string(kind)).Logger()
	log.Info().Ctx(ctx).Int("tables", len(summaries)).Msg("bulk export started")

	archive, err := e.BuildArchive(ctx, kind, summaries)
	if err != nil {
		log.Error().Ctx(ctx).Err(err).Msg("bulk download failed")
		return nil, err
	}

	name, err := e.sink.Save(ctx, archive.Name, archive.Data)
	if err != nil {
		log.Error().Ctx(ctx).Err(err).Msg("bulk download failed")
		return nil, err
	}
	archive.Name = name

	log.Info().Ctx(ctx).Str("file", name).Int("entries", len(archive.Entries)).Msg("bulk export finished")
	return archive, nil
}

// BuildArchive fetches every summary concurrently and bundles the results.
// Entry order follows the order of summaries. Any fetch failure aborts the
// whole build.
func (e *Exporter) BuildArchive(ctx context.Context, kind Kind, summaries []catalog.TableSummary) (*Archive, error) {
	parts := make([][]archiveEntry, len(summaries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, s := range summaries {
		g.Go(func() error {
			entries, err := e.fetchEntries(gctx, kind, s)
			if err != nil {
				return fmt.Errorf("bulk export %s: %w", s.DetailPath, err)
			}
			parts[i] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	a := newArchive()
	for _, entries := range parts {
		for _, en := range entries {
			a.add(en.name, en.data)
		}
	}

	data, err := a.bytes(e.now())
	if err != nil {
		return nil, err
	}
	return &Archive{Name: kind.ArchiveName(), Entries: a.names(), Data: data}, nil
}

func (e *Exporter) fetchEntries(ctx context.Context, kind Kind, s catalog.TableSummary) ([]archiveEntry, error) {
	if kind == JSON {
		data, err := e.src.FetchRaw(ctx, s.DetailPath)
		if err != nil {
			return nil, err
		}
		return []archiveEntry{{name: BulkJSONEntryName(s), data: data}}, nil
	}

	doc, err := e.src.FetchDetail(ctx, s.DetailPath)
	if err != nil {
		return nil, err
	}

	var entries []archiveEntry
	for pos := range doc.Tables {
		csv := BuildCSV(doc, pos)
		if csv == "" {
			continue
		}
		entries = append(entries, archiveEntry{name: BulkCSVEntryName(doc, s, pos), data: []byte(csv)})
	}
	return entries, nil
}
