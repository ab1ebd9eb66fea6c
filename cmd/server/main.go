package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Simplici0/quoteworks/internal/cart"
	"github.com/Simplici0/quoteworks/internal/config"
	"github.com/Simplici0/quoteworks/internal/db"
	"github.com/Simplici0/quoteworks/internal/lead"
	"github.com/Simplici0/quoteworks/internal/logging"
	"github.com/Simplici0/quoteworks/internal/migrations"
	"github.com/Simplici0/quoteworks/internal/pricing"
	"github.com/Simplici0/quoteworks/internal/seed"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "quoteworks",
		Short: "Instant pricing and quotes for the product portfolio",
		Long: `quoteworks prices product configurations, keeps a per-visitor quote
cart and forwards submitted quotes to the sales backend.

Examples:
  quoteworks serve
  quoteworks migrate
  quoteworks seed`,
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newServeCmd(&verbose),
		newMigrateCmd(&verbose),
		newSeedCmd(&verbose),
	)
	return root
}

func newServeCmd(verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API. Pending migrations and the current price list are
applied before the listener starts.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(*verbose)
			if err != nil {
				return err
			}
			defer a.close()

			if err := migrations.Up(a.db); err != nil {
				return fmt.Errorf("run database migrations: %w", err)
			}
			if err := a.seed(); err != nil {
				return err
			}

			srv, err := newServer(a.cfg, a.db, a.logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return listen(ctx, a.cfg.Port, srv.routes(), a.logger)
		},
	}
}

func newMigrateCmd(verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(*verbose)
			if err != nil {
				return err
			}
			defer a.close()

			if err := migrations.Up(a.db); err != nil {
				return fmt.Errorf("run database migrations: %w", err)
			}
			a.logger.Info("migrations applied", zap.String("db_path", a.cfg.DBPath))
			return nil
		},
	}
}

func newSeedCmd(verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Record the current price list in the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(*verbose)
			if err != nil {
				return err
			}
			defer a.close()
			return a.seed()
		},
	}
}

type app struct {
	cfg    config.Config
	logger *zap.Logger
	db     *sql.DB
}

func setup(verbose bool) (*app, error) {
	cfg := config.Load()
	if verbose {
		cfg.Logging.Level = "debug"
	}

	logger := logging.New(cfg.Logging)
	for _, warning := range cfg.Warnings {
		logger.Warn(warning)
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("open database: %w", err)
	}

	return &app{cfg: cfg, logger: logger, db: database}, nil
}

func (a *app) seed() error {
	stats, err := seed.Run(a.db)
	if err != nil {
		return fmt.Errorf("seed price list: %w", err)
	}
	a.logger.Info("price list recorded",
		zap.String("version", pricing.RuleTableVersion),
		zap.Int("inserts", stats.Inserts),
		zap.Int("updates", stats.Updates),
	)
	return nil
}

func (a *app) close() {
	_ = a.db.Close()
	_ = a.logger.Sync()
}

func newServer(cfg config.Config, database *sql.DB, logger *zap.Logger) (*server, error) {
	sessions, err := newSessionService(cfg.SessionSecret)
	if err != nil {
		return nil, fmt.Errorf("create session key: %w", err)
	}

	return &server{
		db:    database,
		carts: cart.NewStore(database),
		assembler: pricing.NewAssembler(
			pricing.WithCurrency(cfg.Currency),
			pricing.WithLogger(logger.Named("pricing")),
		),
		submitter: lead.NewSubmitter(cfg.Lead.Endpoint, cfg.Lead.Timeout, logger.Named("lead")),
		sessions:  sessions,
		metrics:   newMetrics(),
		logger:    logger,
		currency:  cfg.Currency,
	}, nil
}

func listen(ctx context.Context, port string, handler http.Handler, logger *zap.Logger) error {
	httpServer := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", httpServer.Addr))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
