package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/mort/internal/core/browse"
	"github.com/colonyops/mort/internal/printer"
	"github.com/colonyops/mort/internal/tui"
)

const defaultShowWidth = 100

type ShowCmd struct {
	flags *Flags

	// flags
	table  int
	matrix bool
}

// NewShowCmd creates a new show command
func NewShowCmd(flags *Flags) *ShowCmd {
	return &ShowCmd{flags: flags}
}

// Register adds the show command to the application
func (cmd *ShowCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "show",
		Usage:     "Print one table",
		UsageText: "mort show <identity|identifier> [--table N] [--matrix]",
		Description: `Prints the classification, the metadata of one rate table, and its rates.

Documents with several rate tables show the first unless --table picks
another. --matrix pivots rates into an age by duration grid when the table
has a duration axis.`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "table",
				Aliases:     []string{"t"},
				Usage:       "rate table to show, starting at 1",
				Value:       1,
				Destination: &cmd.table,
			},
			&cli.BoolFlag{
				Name:        "matrix",
				Aliases:     []string{"m"},
				Usage:       "show rates as an age by duration matrix",
				Destination: &cmd.matrix,
			},
		},
		ShellComplete: TableCompleter(cmd.flags),
		Action:        cmd.run,
	})

	return app
}

func (cmd *ShowCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one table, got %d arguments", c.Args().Len())
	}

	p, err := cmd.flags.RequireProvider()
	if err != nil {
		return err
	}

	items, err := p.ListCatalog(ctx)
	if err != nil {
		return fmt.Errorf("list catalog: %w", err)
	}

	s, err := findTable(items, c.Args().First())
	if err != nil {
		return err
	}

	doc, err := p.FetchDetail(ctx, s.DetailPath)
	if err != nil {
		return fmt.Errorf("load %s: %w", s.DetailPath, err)
	}

	pos := cmd.table - 1
	if n := len(doc.Tables); n > 0 && (pos < 0 || pos >= n) {
		return fmt.Errorf("--table must be between 1 and %d", n)
	}

	view := browse.ViewList
	if cmd.matrix {
		view = browse.ViewMatrix
	}

	out := printer.Ctx(ctx)
	out.Section(fmt.Sprintf("%s  %s", s.TableIdentity, s.Name))
	out.Printf("%s", s.Provider)
	if v := doc.VersionString(); v != "" {
		out.Printf("Version %s", v)
	}
	if n := len(doc.Tables); n > 1 {
		out.Printf("Table %d of %d", pos+1, n)
	}
	out.Printf("")
	out.Printf("%s", tui.RenderDocument(doc, pos, view, outputWidth()))

	return nil
}

func outputWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return defaultShowWidth
}
