package export

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"github.com/colonyops/mort/internal/core/catalog"
)

// WorkbookName is the file name of a workbook export.
const WorkbookName = "tables.xlsx"

const (
	indexSheet     = "Index"
	maxSheetName   = 31
	invalidInSheet = `[]:*?/\`
)

var indexHeader = []any{"Sheet", "Identifier", "Table identity", "Name", "Provider", "Version"}

// Workbook fetches every summary and saves a single workbook with an index
// sheet and one sheet per payload with rates.
func (e *Exporter) Workbook(ctx context.Context, summaries []catalog.TableSummary) (string, error) {
	if len(summaries) == 0 {
		return "", nil
	}

	data, err := e.FetchWorkbook(ctx, summaries)
	if err != nil {
		return "", err
	}

	name, err := e.sink.Save(ctx, WorkbookName, data)
	if err != nil {
		return "", err
	}
	e.log.Info().Str("file", name).Int("tables", len(summaries)).Msg("exported workbook")
	return name, nil
}

// FetchWorkbook fetches every summary concurrently and builds the workbook
// without saving it.
func (e *Exporter) FetchWorkbook(ctx context.Context, summaries []catalog.TableSummary) ([]byte, error) {
	docs := make([]*catalog.ConvertedTable, len(summaries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, s := range summaries {
		g.Go(func() error {
			doc, err := e.src.FetchDetail(gctx, s.DetailPath)
			if err != nil {
				return fmt.Errorf("workbook export %s: %w", s.DetailPath, err)
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return BuildWorkbook(summaries, docs)
}

// BuildWorkbook renders docs, paired by position with summaries, as an
// xlsx file.
func BuildWorkbook(summaries []catalog.TableSummary, docs []*catalog.ConvertedTable) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", indexSheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(indexSheet, "A1", &indexHeader); err != nil {
		return nil, err
	}

	used := map[string]bool{strings.ToLower(indexSheet): true}
	row := 2
	for i, doc := range docs {
		if doc == nil {
			continue
		}
		s := summaries[i]
		for pos := range doc.Tables {
			p := doc.Payload(pos)
			if p == nil || len(p.Rates) == 0 {
				continue
			}

			sheet := uniqueSheetName(used, firstNonEmpty(doc.ID(), s.TableIdentity, "table")+" "+strconv.Itoa(payloadNumber(doc, pos)))
			if _, err := f.NewSheet(sheet); err != nil {
				return nil, err
			}
			if err := writeRateSheet(f, sheet, p); err != nil {
				return nil, err
			}

			cell, _ := excelize.CoordinatesToCellName(1, row)
			entry := []any{sheet, s.Identifier, s.TableIdentity, s.Name, s.Provider, doc.VersionString()}
			if err := f.SetSheetRow(indexSheet, cell, &entry); err != nil {
				return nil, err
			}
			row++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRateSheet(f *excelize.File, sheet string, p *catalog.TablePayload) error {
	header := []any{"age", "duration", "rate"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, r := range p.Rates {
		for col, v := range []*float64{&r.Age, r.Duration, r.Rate} {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellFloat(sheet, cell, *v, -1, 64); err != nil {
				return err
			}
		}
	}
	return nil
}

// uniqueSheetName cleans name into a valid sheet name not yet in used and
// records it.
func uniqueSheetName(used map[string]bool, name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(invalidInSheet, r) {
			return '_'
		}
		return r
	}, name)
	name = strings.Trim(name, "'")
	if name == "" {
		name = "table"
	}

	candidate := truncateRunes(name, maxSheetName)
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := " (" + strconv.Itoa(n) + ")"
		candidate = truncateRunes(name, maxSheetName-len(suffix)) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
