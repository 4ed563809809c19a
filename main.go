package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

type app struct {
	configPath string
	verbose    bool
	cfg        *Config
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "fpl-scatter",
		Short:         "fpl-scatter plots Fantasy Premier League player stats against each other.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			initSlog(cfg.Log.Level, a.verbose)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a TOML config file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(a.serveCmd(), a.plotCmd(), a.tableCmd())
	return root
}

func (a *app) dataset() *Dataset {
	client := NewFPLClient(a.cfg.FPL.URL, a.cfg.FPL.Timeout.Duration)
	return NewDataset(
		NewCachedFetcher(client, a.cfg.FPL.CacheTTL.Duration),
		DefaultSchema(),
		BuildOptions{MinMinutes: a.cfg.Table.MinMinutes},
	)
}

func (a *app) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the interactive dashboard.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	ds := a.dataset()

	// The dashboard is useless without data, so a failed first fetch ends
	// the process.
	t, err := ds.Table(ctx)
	if err != nil {
		return fmt.Errorf("initial fetch: %w", err)
	}
	slog.Info("Player table ready", slog.Int("rows", t.Len()))

	srv := &http.Server{
		Addr:         a.cfg.Server.Addr,
		Handler:      NewRouter(NewServer(ds, a.cfg)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("FPL dashboard is running", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	slog.Info("Server stopped")
	return nil
}
