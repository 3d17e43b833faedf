package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/mort/internal/core/catalog"
	"github.com/colonyops/mort/internal/core/export"
	"github.com/colonyops/mort/internal/core/search"
	"github.com/colonyops/mort/internal/printer"
	"github.com/colonyops/mort/pkg/iojson"
)

// xlsxFormat selects a workbook export instead of JSON or CSV files.
const xlsxFormat = "xlsx"

type ExportCmd struct {
	flags *Flags
	file  iojson.FileReader[[]string]

	// flags
	all    bool
	format string
	zip    bool
	out    string
	force  bool
}

// NewExportCmd creates a new export command
func NewExportCmd(flags *Flags) *ExportCmd {
	return &ExportCmd{flags: flags}
}

// Register adds the export command to the application
func (cmd *ExportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "export",
		Usage:     "Download tables as JSON or CSV",
		UsageText: "mort export <query> | --all | -f selection.json [--format json|csv] [--zip] [--out DIR] [--force]",
		Description: `Exports the tables matching a query, every table with --all, or the tables
listed in a JSON array of identities, identifiers, or detail paths read from
--file or a pipe.

A single table is saved as <identifier>.json, or as one CSV per rate table.
Several tables, or --zip, produce tables-json.zip or tables-csv.zip.
--format xlsx writes every table into one tables.xlsx workbook.

Existing files are kept and the new file saved alongside unless you confirm
overwriting them, or pass --force.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "all",
				Usage:       "export the whole catalog",
				Destination: &cmd.all,
			},
			cmd.file.Flag(),
			&cli.StringFlag{
				Name:        "format",
				Usage:       "export format (json, csv, xlsx)",
				Value:       string(export.JSON),
				Destination: &cmd.format,
			},
			&cli.BoolFlag{
				Name:        "zip",
				Usage:       "bundle into a zip archive even for a single table",
				Destination: &cmd.zip,
			},
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "directory to write into (defaults to export.dir)",
				Destination: &cmd.out,
			},
			&cli.BoolFlag{
				Name:        "force",
				Usage:       "overwrite existing files without asking",
				Destination: &cmd.force,
			},
		},
		ShellComplete: TableCompleter(cmd.flags),
		Action:        cmd.run,
	})

	return app
}

func (cmd *ExportCmd) run(ctx context.Context, c *cli.Command) error {
	workbook := cmd.format == xlsxFormat
	kind, ok := export.ParseKind(cmd.format)
	if !ok && !workbook {
		return fmt.Errorf("unknown format %q (available: json, csv, xlsx)", cmd.format)
	}

	p, err := cmd.flags.RequireProvider()
	if err != nil {
		return err
	}

	items, err := p.ListCatalog(ctx)
	if err != nil {
		return fmt.Errorf("list catalog: %w", err)
	}

	targets, err := cmd.targets(items, c.Args().Slice())
	if err != nil {
		return err
	}

	cfg := cmd.flags.Config
	dir := cmd.out
	if dir == "" {
		dir = cfg.Export.Dir
	}
	sink := export.DirSink{Dir: dir, Overwrite: cmd.force}

	out := printer.Ctx(ctx)
	bulk := cmd.zip || len(targets) > 1

	// a single CSV needs the document to know its file names
	var doc *catalog.ConvertedTable
	if !workbook && !bulk && kind == export.CSV {
		doc, err = p.FetchDetail(ctx, targets[0].DetailPath)
		if err != nil {
			return fmt.Errorf("load %s: %w", targets[0].DetailPath, err)
		}
	}

	if !cmd.force {
		names := []string{export.WorkbookName}
		if !workbook {
			names = plannedNames(kind, bulk, targets, doc)
		}
		if existing := sink.Exists(names...); len(existing) > 0 {
			overwrite, err := confirmOverwrite(existing)
			if err != nil {
				return err
			}
			sink.Overwrite = overwrite
			if !overwrite {
				out.Infof("Keeping existing files; saving alongside them")
			}
		}
	}

	ex := export.New(p, sink, export.Options{Concurrency: cfg.Export.Concurrency})

	var saved []string
	switch {
	case workbook:
		name, err := ex.Workbook(ctx, targets)
		if err != nil {
			return err
		}
		out.Successf("Saved %s (%d tables) to %s", name, len(targets), dir)
		return nil
	case bulk:
		archive, err := ex.Bulk(ctx, kind, targets)
		if err != nil {
			return fmt.Errorf("bulk export: %w", err)
		}
		out.Successf("Saved %s (%d entries) to %s", archive.Name, len(archive.Entries), dir)
		return nil
	case kind == export.JSON:
		name, err := ex.JSON(ctx, targets[0].DetailPath, targets[0].Identifier)
		if err != nil {
			return fmt.Errorf("export %s: %w", targets[0].DetailPath, err)
		}
		saved = []string{name}
	default:
		saved, err = ex.DetailCSV(ctx, doc, 0)
		if err != nil {
			return fmt.Errorf("export %s: %w", targets[0].DetailPath, err)
		}
	}

	if len(saved) == 0 {
		out.Infof("Nothing to export: %s has no rates", targets[0].TableIdentity)
		return nil
	}
	out.Successf("Saved %s to %s", strings.Join(saved, ", "), dir)
	return nil
}

// targets picks the tables to export from exactly one of --all, a query,
// or a selection list.
func (cmd *ExportCmd) targets(items []catalog.TableSummary, args []string) ([]catalog.TableSummary, error) {
	sources := 0
	for _, set := range []bool{cmd.all, cmd.file.Set(), len(args) > 0} {
		if set {
			sources++
		}
	}
	if sources > 1 {
		return nil, errors.New("use only one of a query, --all, or --file")
	}

	var (
		targets []catalog.TableSummary
		err     error
	)
	switch {
	case cmd.all:
		targets = items
	case len(args) > 0:
		query := strings.Join(args, " ")
		targets = search.New(items, search.Options{Threshold: cmd.flags.Config.Search.Threshold}).Search(query)
		if len(targets) == 0 {
			return nil, fmt.Errorf("no tables match %q", query)
		}
	default:
		keys, rerr := cmd.file.Read()
		if rerr != nil {
			return nil, fmt.Errorf("read selection: %w", rerr)
		}
		targets, err = findTables(items, keys)
	}
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return nil, errors.New("nothing selected")
	}
	return targets, nil
}

func plannedNames(kind export.Kind, bulk bool, targets []catalog.TableSummary, doc *catalog.ConvertedTable) []string {
	switch {
	case bulk:
		return []string{kind.ArchiveName()}
	case kind == export.JSON:
		return []string{export.JSONFileName(targets[0].DetailPath, targets[0].Identifier)}
	default:
		return export.DetailCSVNames(doc, 0)
	}
}

// confirmOverwrite asks whether to replace existing files. Without a
// terminal to ask on, files are kept.
func confirmOverwrite(existing []string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, nil
	}

	overwrite := false
	err := huh.NewConfirm().
		Title(fmt.Sprintf("Overwrite %s?", strings.Join(existing, ", "))).
		Description("Choosing no saves the new files with a numbered suffix.").
		Affirmative("Overwrite").
		Negative("Keep both").
		Value(&overwrite).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, errors.New("export cancelled")
	}
	if err != nil {
		return false, fmt.Errorf("confirm: %w", err)
	}
	return overwrite, nil
}
