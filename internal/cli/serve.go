package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dgallion1/pechaform/internal/api"
	"github.com/dgallion1/pechaform/internal/pipeline"
)

func newServeCommand(g *globals) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the conversion HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port != "" {
				g.cfg.Server.Port = port
			}
			if err := g.cfg.ValidateServer(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			conv, err := g.converter()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			// Initialize pipeline.
			orch := pipeline.NewOrchestrator(g.cfg.Server, conv, g.log)
			orch.Start(ctx)

			// Initialize HTTP server.
			srv := api.NewServer(orch, g.cfg.ParserOptions().Verse, g.log, g.cfg.Server)
			httpServer := &http.Server{
				Addr:         ":" + g.cfg.Server.Port,
				Handler:      srv,
				ReadTimeout:  30 * time.Second,
				WriteTimeout: 120 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			// Graceful shutdown.
			done := make(chan struct{})
			go func() {
				defer close(done)
				<-ctx.Done()
				g.log.Info("shutting down...")

				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer shutdownCancel()
				httpServer.Shutdown(shutdownCtx)
				orch.Stop()
			}()

			g.log.Info("starting pechaform", "port", g.cfg.Server.Port, "workers", g.cfg.Server.Workers)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				stop()
				<-done
				return fmt.Errorf("server error: %w", err)
			}
			<-done
			return nil
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (default: server.port)")
	return cmd
}
