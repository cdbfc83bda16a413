// Command api is the service entrypoint.
//
// It exposes two subcommands:
//   - serve:   run the HTTP server (the default when no subcommand is given)
//   - migrate: apply pending database migrations and exit
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

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/storebot/api/internal/config"
	"github.com/storebot/api/internal/database"
	"github.com/storebot/api/internal/handler"
	"github.com/storebot/api/internal/logger"
	"github.com/storebot/api/internal/middleware"
	"github.com/storebot/api/internal/repository"
	"github.com/storebot/api/internal/router"
	"github.com/storebot/api/internal/server"
	"github.com/storebot/api/internal/service"
)

// shutdownTimeout bounds how long in-flight requests may run once a
// termination signal arrives.
const shutdownTimeout = 30 * time.Second

func main() {
	// Prices serialize as JSON numbers, not quoted strings; the chat
	// clients parse them arithmetically.
	decimal.MarshalJSONWithoutQuotes = true

	root := &cobra.Command{
		Use:          "api",
		Short:        "Cart and catalog command API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP server",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runServe()
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply pending database migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runMigrate(cmd.Context())
			},
		},
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// runServe wires the whole application together and blocks until a
// termination signal triggers graceful shutdown.
func runServe() error {
	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, loggerService := logger.New(cfg)
	defer loggerService.Shutdown()

	s, err := server.New(cfg, log, loggerService)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	repos := repository.NewRepositories(s)

	services, err := service.NewService(s, repos)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	mw := middleware.NewMiddlewares(s)
	handlers := handler.NewHandlers(s, services)

	e := router.Setup(s, mw, handlers)
	s.SetupHTTPServer(e)

	// Serve in the background; the main goroutine waits for a signal.
	errCh := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}

// runMigrate applies embedded migrations against the configured database.
func runMigrate(ctx context.Context) error {
	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, loggerService := logger.New(cfg)
	defer loggerService.Shutdown()

	if err := database.Migrate(ctx, log, cfg); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	log.Info().Msg("migrations applied")
	return nil
}
