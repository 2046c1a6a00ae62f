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

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/warp/backoffice/api"
	"github.com/warp/backoffice/config"
	"github.com/warp/backoffice/payroll"
	"github.com/warp/backoffice/store/sqlite"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd(conf *config.Config) *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				conf.Port, _ = cmd.Flags().GetString("port")
			}
			if cmd.Flags().Changed("db") {
				conf.DatabaseURL, _ = cmd.Flags().GetString("db")
			}
			if err := conf.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			return serve(conf)
		},
	}

	serveCmd.Flags().String("port", "", "HTTP server port (overrides PORT)")
	serveCmd.Flags().String("db", "", "database path or URL (overrides DATABASE_URL)")

	return serveCmd
}

func serve(conf *config.Config) error {
	logger := conf.NewLogger()

	store, err := sqlite.Open(conf.StoreOptions())
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer store.Close()

	// Validate already rejected unknown values.
	resolution, _ := payroll.ParseRateResolution(conf.RateResolution)

	handler := api.NewHandler(store, payroll.NewService(store, resolution), logger)
	router := api.NewRouter(handler, api.RouterOptions{
		Auth:           api.NewAuthenticator(conf.JWTSecret),
		CORSOrigins:    conf.CORSOrigins,
		RequestTimeout: conf.RequestTimeout,
		Logger:         logger,
	})

	server := &http.Server{
		Addr:         ":" + conf.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{
			"port":            conf.Port,
			"driver":          conf.DBDriver,
			"rate_resolution": resolution,
		}).Info("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-quit:
	}

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
