package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/skpatro/tallystock/internal/adapters/database/pgsql"
	"github.com/skpatro/tallystock/internal/core/ports/repositories"
	portssvc "github.com/skpatro/tallystock/internal/core/ports/services"
	"github.com/skpatro/tallystock/internal/core/services"
	"github.com/skpatro/tallystock/internal/dto"
	"github.com/skpatro/tallystock/internal/etl/worker"
	"github.com/skpatro/tallystock/internal/handlers"
	"github.com/skpatro/tallystock/internal/middleware"
	"github.com/skpatro/tallystock/internal/platform/config"
	"github.com/skpatro/tallystock/internal/store"
	"github.com/skpatro/tallystock/pkg/database"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Persistence is optional: without PGSQL_URL the dataset lives in
	// memory only and import logs survive until restart.
	var dbPool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		dbPool, err = database.NewPgxPool(context.Background(), cfg.DatabaseURL)
		if err != nil {
			logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer dbPool.Close()
		logger.Info("Database connection pool established.")

		if err := runMigrations(logger, cfg.DatabaseURL); err != nil {
			logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
	} else {
		logger.Warn("Running without database persistence")
	}

	if err := dto.RegisterCustomValidators(); err != nil {
		logger.Error("Failed to register validators", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	container, overrides, rates, pool := buildServices(cfg, dbPool, logger)
	defer pool.Close()

	handlers.RegisterRoutes(r, cfg, container, overrides, rates)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// buildServices wires the pipeline: dataset, worker pool, parse cache,
// optional repositories, and the computed views on top.
func buildServices(cfg *config.Config, dbPool *pgxpool.Pool, logger *slog.Logger) (*portssvc.ServiceContainer, *store.OverrideStore, *store.RateStore, *worker.Pool) {
	dataset := services.NewDatasetService()
	pool := worker.New(logger)
	cache := store.NewParseCache(cfg.CacheDir, cfg.CacheTTL, logger)
	overrides := store.NewOverrideStore(cfg.OverridesFile, logger)
	rates := store.NewRateStore(cfg.RatesFile, cfg.RateLogFile, logger)

	var masters repositories.MasterRepository
	var vouchers repositories.VoucherRepository
	var importLogs repositories.ImportLogRepository
	if dbPool != nil {
		repos := pgsql.NewRepositories(dbPool)
		masters = repos.Masters
		vouchers = repos.Vouchers
		importLogs = repos.ImportLogs
	}

	importer := services.NewImporterService(dataset, pool, cache, masters, vouchers, importLogs, cfg.FYStartMonth, logger)
	ledger := services.NewStockLedgerService(dataset, cfg.FYStartMonth, logger)
	orders := services.NewOrderService(dataset, ledger, overrides, logger)

	return &portssvc.ServiceContainer{
		Import:      importer,
		Dataset:     dataset,
		StockLedger: ledger,
		Order:       orders,
	}, overrides, rates, pool
}

// runMigrations applies all pending up migrations over a temporary
// database/sql connection using the pgx stdlib driver.
func runMigrations(logger *slog.Logger, databaseURL string) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	if err := migrationDB.Ping(); err != nil {
		migrationDB.Close()
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
