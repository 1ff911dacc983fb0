package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/lexwatch/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/lexwatch/internal/core/services"
	"github.com/custodia-labs/lexwatch/internal/logger"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and background poller",
	Long: `Run the HTTP API together with the background scheduler. The source
registry file is watched, so edits made while the server runs are picked
up without a restart. Stops cleanly on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8420", "listen address for the HTTP API")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if pipeline == nil || sourceStore == nil {
		return fmt.Errorf("services not available")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	scheduler := services.NewScheduler(schedulerConfig(), metaStore.SchedulerStore(), pipeline)
	api := httpapi.NewServer(sourceService, queryService, pipeline)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := scheduler.Start(gctx)
		if err == context.Canceled {
			return nil
		}
		return err
	})

	g.Go(func() error {
		return sourceStore.Watch(gctx, func() {
			logger.Info("Source registry changed on disk")
		})
	})

	g.Go(func() error {
		return api.Listen(serveAddr)
	})

	g.Go(func() error {
		<-gctx.Done()
		scheduler.Stop() //nolint:errcheck

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return api.Shutdown(shutdownCtx)
	})

	cmd.Printf("Serving on %s (Ctrl+C to stop)\n", serveAddr)
	if err := g.Wait(); err != nil && err != context.Canceled {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
