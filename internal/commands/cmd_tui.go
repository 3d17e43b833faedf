package commands

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/mort/internal/core/detail"
	"github.com/colonyops/mort/internal/core/export"
	"github.com/colonyops/mort/internal/tui"
)

type TuiCmd struct {
	flags *Flags
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags) *TuiCmd {
	return &TuiCmd{flags: flags}
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *TuiCmd) run(ctx context.Context, _ *cli.Command) error {
	p, err := cmd.flags.RequireProvider()
	if err != nil {
		return err
	}
	cfg := cmd.flags.Config

	deps := tui.Deps{
		Catalog: p,
		Store:   detail.NewStore(p),
		Exporter: export.New(p, export.DirSink{Dir: cfg.Export.Dir}, export.Options{
			Concurrency: cfg.Export.Concurrency,
		}),
	}
	opts := tui.Options{
		Threshold:       cfg.Search.Threshold,
		Batch:           cfg.List.BatchSize,
		ScrollThreshold: cfg.List.ScrollThreshold,
	}

	if _, err := tea.NewProgram(tui.New(ctx, deps, opts)).Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
