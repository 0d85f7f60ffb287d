// Package main is the entry point for the dealdesk API server.
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

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"

	"dealdesk/internal/api"
	"dealdesk/internal/app"
	"dealdesk/internal/config"
	internaldb "dealdesk/internal/db"
	"dealdesk/internal/db/repository"
	"dealdesk/internal/middleware"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "dealdesk",
		Short:         "Deal pipeline and commission tracking API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP API server",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runServe(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply database migrations and exit",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runMigrate()
			},
		},
		&cobra.Command{
			Use:   "seed",
			Short: "Load the demo organization and sample deals",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runSeed(cmd.Context())
			},
		},
	)
	return root
}

func loadConfig() (*config.Config, *slog.Logger, error) {
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, nil, err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)
	for _, w := range cfg.Warnings {
		logger.Warn(w)
	}
	return cfg, logger, nil
}

func runMigrate() error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	writeDB, readDB, err := internaldb.OpenSQLitePair(cfg.DBPath, 4)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer writeDB.Close()
	defer readDB.Close()

	if err := internaldb.RunMigrations(writeDB); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	logger.Info("migrations applied", "db", cfg.DBPath)
	return nil
}

func runSeed(ctx context.Context) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	writeDB, readDB, err := internaldb.OpenSQLitePair(cfg.DBPath, 4)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer writeDB.Close()
	defer readDB.Close()

	if err := internaldb.RunMigrations(writeDB); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	deps := app.Deps{Cfg: cfg, WriteDB: writeDB, ReadDB: readDB, Logger: logger}
	if err := app.EnsurePlans(ctx, repository.NewPlanRepo(writeDB)); err != nil {
		return err
	}
	return app.SeedDemo(ctx, deps)
}

func runServe(ctx context.Context) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	// writeDB: single-connection pool for serialized writes (WAL + txlock=immediate).
	// readDB:  4-connection pool for concurrent reads.
	writeDB, readDB, err := internaldb.OpenSQLitePair(cfg.DBPath, 4)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer writeDB.Close()
	defer readDB.Close()

	if err := internaldb.RunMigrations(writeDB); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	deps := app.Deps{Cfg: cfg, WriteDB: writeDB, ReadDB: readDB, Logger: logger}

	if err := app.EnsurePlans(ctx, repository.NewPlanRepo(writeDB)); err != nil {
		return fmt.Errorf("ensure plans: %w", err)
	}
	if cfg.SeedDemo {
		if err := app.SeedDemo(ctx, deps); err != nil {
			logger.Warn("demo seed failed", "error", err)
		}
	}

	a := app.New(deps)

	handler := api.NewHandler(api.HandlerConfig{
		Logger:        logger,
		Auth:          a.Services.Auth,
		Deals:         a.Services.Deals,
		Users:         a.Services.Users,
		Organizations: a.Services.Organizations,
		Commissions:   a.Services.Commissions,
		KPIs:          a.Services.KPIs,
		Billing:       a.Services.Billing,
		Calendar:      a.Services.Calendar,
		Audit:         a.Services.Audit,
	})

	r := handler.Routes(a.Tokens)

	chain := middleware.RequestID(
		middleware.RateLimiter(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimitRPS,
			Burst:             cfg.RateLimitBurst,
		})(
			cors.Handler(cors.Options{
				AllowedOrigins:   cfg.CORSAllowedOrigins,
				AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
				AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
				AllowCredentials: false,
				MaxAge:           300,
			})(
				chimw.Recoverer(r),
			),
		),
	)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           chain,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP API listening", "addr", cfg.ListenAddr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("shutting down", "reason", "context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
