package commands

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/mort/internal/core/catalog"
	"github.com/colonyops/mort/internal/core/search"
	"github.com/colonyops/mort/pkg/iojson"
)

type LsCmd struct {
	flags *Flags

	// flags
	jsonOutput bool
	limit      int
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags) *LsCmd {
	return &LsCmd{flags: flags}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List or search tables",
		UsageText: "mort ls [query] [--json] [--limit N]",
		Description: `Lists the catalog in sort order, or the tables matching a fuzzy query in
relevance order. The query is matched against identity, name, provider,
summary, and keywords.

Use --json for the full summary records.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output summaries as a JSON array",
				Destination: &cmd.jsonOutput,
			},
			&cli.IntFlag{
				Name:        "limit",
				Aliases:     []string{"n"},
				Usage:       "show at most N tables (0 for all)",
				Destination: &cmd.limit,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	p, err := cmd.flags.RequireProvider()
	if err != nil {
		return err
	}

	items, err := p.ListCatalog(ctx)
	if err != nil {
		return fmt.Errorf("list catalog: %w", err)
	}

	query := strings.Join(c.Args().Slice(), " ")
	results := search.New(items, search.Options{Threshold: cmd.flags.Config.Search.Threshold}).Search(query)
	if cmd.limit > 0 && len(results) > cmd.limit {
		results = results[:cmd.limit]
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		if results == nil {
			results = []catalog.TableSummary{}
		}
		return iojson.WriteWith(out, c.Root().ErrWriter, results)
	}

	if len(results) == 0 {
		_, _ = fmt.Fprintf(c.Root().ErrWriter, "No tables match %q\n", query)
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tPROVIDER\tPATH")
	for _, s := range results {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.TableIdentity, s.Name, s.Provider, s.DetailPath)
	}
	return w.Flush()
}
