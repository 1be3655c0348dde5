package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/devcraft"
	"github.com/aretw0/devcraft/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Serves the site pages, the contact form API and its event stream.
Pending deliveries and resets are canceled on shutdown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); cmd.Flags().Changed("addr") {
			cfg.HTTP.Addr = addr
		}
		logger := newLogger(cfg)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		app, err := devcraft.New(ctx, cfg, devcraft.WithLogger(logger))
		if err != nil {
			return err
		}

		// Event streams only end when their request context does.
		streams, closeStreams := context.WithCancel(context.Background())
		defer closeStreams()
		srv := &http.Server{
			Addr:              cfg.HTTP.Addr,
			Handler:           app.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
			BaseContext:       func(net.Listener) context.Context { return streams },
		}
		srv.RegisterOnShutdown(closeStreams)

		if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet && tui.IsTerminal(os.Stdout) {
			tui.PrintBanner(cmd.OutOrStdout(), app.Content.Brand.Blurb)
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("Starting DevCraft server", "addr", srv.Addr, "version", devcraft.Version)
			serverErrors <- srv.ListenAndServe()
		}()

		var serveErr error
		select {
		case err := <-serverErrors:
			if !errors.Is(err, http.ErrServerClosed) {
				serveErr = err
			}
		case <-ctx.Done():
			logger.Info("Shutdown signal received")
		}

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Graceful shutdown did not complete", "timeout", cfg.HTTP.ShutdownTimeout, "err", err)
			if err := srv.Close(); err != nil {
				logger.Error("Error killing server", "err", err)
			}
		}
		if err := app.Shutdown(shutdownCtx); err != nil {
			logger.Error("Failed to release resources", "err", err)
		}
		logger.Info("DevCraft server stopped")
		return serveErr
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", ":8080", "Address to listen on (overrides http.addr)")
	serveCmd.Flags().BoolP("quiet", "q", false, "Skip the startup banner")
}
