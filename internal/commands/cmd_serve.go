package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/colonyops/mort/internal/core/export"
	"github.com/colonyops/mort/internal/core/logging"
	"github.com/colonyops/mort/internal/printer"
	"github.com/colonyops/mort/internal/server"
)

const shutdownTimeout = 5 * time.Second

type ServeCmd struct {
	flags *Flags
	addr  string
	pprof bool
}

// NewServeCmd creates a new serve command
func NewServeCmd(flags *Flags) *ServeCmd {
	return &ServeCmd{flags: flags}
}

// Register adds the serve command to the application
func (cmd *ServeCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "serve",
		Usage:     "Serve the catalog over HTTP",
		UsageText: "mort serve [--addr :8080]",
		Description: `Serves the catalog in the layout the remote provider reads: index.json,
detail documents under /detail/, and zip archives at
/api/export/{json,csv}.zip?path=... .

Point another mort at it with --remote http://host:port/.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address (defaults to server.addr)",
				Destination: &cmd.addr,
			},
			&cli.BoolFlag{
				Name:        "pprof",
				Usage:       "expose profiling endpoints under /debug/pprof (defaults to server.pprof)",
				Destination: &cmd.pprof,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ServeCmd) run(ctx context.Context, _ *cli.Command) error {
	p, err := cmd.flags.RequireProvider()
	if err != nil {
		return err
	}
	cfg := cmd.flags.Config

	addr := cmd.addr
	if addr == "" {
		addr = cfg.Server.Addr
	}

	log := logging.Component("serve")

	ex := export.New(p, nil, export.Options{Concurrency: cfg.Export.Concurrency})
	srv := server.New(p, ex)
	if cmd.pprof || cfg.Server.Pprof {
		srv.MountProfiler()
		log.Warn().Msg("profiling endpoints enabled")
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	printer.Ctx(ctx).Infof("Listening on %s", addr)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(addr); err != nil {
			return fmt.Errorf("serve %s: %w", addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
