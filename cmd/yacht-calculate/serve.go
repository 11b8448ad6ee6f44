package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/guillaumekey/yacht-calculate/internal/cache"
	"github.com/guillaumekey/yacht-calculate/internal/logging"
	"github.com/guillaumekey/yacht-calculate/internal/server"
	"github.com/guillaumekey/yacht-calculate/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const gracefulShutdownTimeout = 10 * time.Second

type serveOptions struct {
	root         *rootOptions
	serverConfig string
	address      string
}

func newServeCommand(root *rootOptions) *cobra.Command {
	o := &serveOptions{root: root}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web UI and the estimate API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.Run(cmd)
		},
	}
	cmd.Flags().StringVar(&o.serverConfig, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	cmd.Flags().StringVar(&o.address, "address", "", "listen address override (e.g. :8080)")
	return cmd
}

func (o *serveOptions) Run(cmd *cobra.Command) error {
	cfg, err := server.LoadConfig(o.serverConfig)
	if err != nil {
		return err
	}
	if o.address != "" {
		cfg.Address = o.address
	}

	logger, err := logging.New(cfg.Logging, o.root.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	estimates, err := cache.New(cfg.Cache.Backend, cfg.Cache.Address)
	if err != nil {
		return err
	}
	if redisCache, ok := estimates.(*cache.Redis); ok {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := redisCache.Ping(pingCtx); err != nil {
			logger.Warn("redis cache unreachable, estimates will be recomputed until it recovers",
				zap.String("op", "main.serve"),
				zap.String("address", cfg.Cache.Address),
				zap.Error(err),
			)
		}
		cancel()
	}

	handler, err := server.NewHandler(logger, cfg, version, server.WithCache(estimates))
	if err != nil {
		return err
	}
	defer func() {
		if err := handler.Close(); err != nil {
			logger.Warn("failed to release server resources",
				zap.String("op", "main.serve"),
				zap.Error(err),
			)
		}
	}()

	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			zap.String("op", "main.serve"),
			zap.String("address", cfg.Address),
			zap.String("version", version),
			zap.String("cache", cfg.Cache.Backend),
			zap.Bool("metrics", cfg.Metrics.Enabled),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server",
		zap.String("op", "main.serve"),
	)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
