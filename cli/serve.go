// ABOUTME: API server subcommand
// ABOUTME: Opens the database and serves the REST API until interrupted
package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/johanaerens/assetmanagement/db"
	"github.com/johanaerens/assetmanagement/web"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(a *app) *cobra.Command {
	var addr, dbPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the REST API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			if dbPath == "" {
				dbPath = a.cfg.Database.Path
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			database, err := db.OpenDatabase(ctx, dbPath, a.log)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer database.Close()
			a.log.WithField("path", dbPath).Info("Database ready")

			server := web.NewServer(database, a.log)

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error { return server.Start(addr) })
			g.Go(func() error {
				<-gctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				a.log.Info("Shutting down API server")
				return server.Shutdown(shutdownCtx)
			})
			return g.Wait()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	cmd.Flags().StringVar(&dbPath, "db-path", "", "Database path (overrides database.path)")
	return cmd
}
