package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"library-ledger/internal/adapters/clients"
	"library-ledger/internal/adapters/http/handlers"
	"library-ledger/internal/adapters/http/routes"
	"library-ledger/internal/adapters/persistence/memory"
	"library-ledger/internal/adapters/persistence/models"
	"library-ledger/internal/adapters/persistence/repositories"
	"library-ledger/internal/config"
	"library-ledger/internal/core/services"
	"library-ledger/internal/pkg/cache"
	"library-ledger/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "library-ledger/docs" // Swagger docs
)

// @title Library Ledger API
// @version 1.0
// @description Catalog, loan ledger and fine engine of a small library.

// @BasePath /api/v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.AppMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if !cfg.EnvFileLoaded {
		log.Warn(".env file not found, using environment variables")
	}
	log.Info("Configuration loaded",
		zap.String("mode", cfg.AppMode),
		zap.String("service", cfg.Service),
		zap.String("storage", cfg.Storage),
	)

	if err := run(cfg, log); err != nil {
		log.Fatal("Server stopped with error", zap.Error(err))
	}
}

// storage holds the repositories of the services this process runs
type storage struct {
	db        *gorm.DB
	books     repositories.BookRepository
	borrowers repositories.BorrowerRepository
	loans     repositories.LoanRepository
}

func openStorage(cfg *config.Config, log *zap.Logger) (*storage, error) {
	if cfg.Storage == config.StorageMemory {
		log.Warn("Using in-memory storage; data is lost on restart")
		return &storage{
			books:     memory.NewBookStore(),
			borrowers: memory.NewBorrowerStore(),
			loans:     memory.NewLoanStore(),
		}, nil
	}

	db, err := config.ConnectDatabase(cfg, log)
	if err != nil {
		return nil, err
	}

	// Auto migrate (creates tables if not exist). Production schemas are
	// managed with cmd/migrate.
	if cfg.Database.AutoMigrate {
		if err := models.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("failed to auto migrate: %w", err)
		}
		log.Info("Database migration completed")
	}

	return &storage{
		db:        db,
		books:     repositories.NewBookRepository(db),
		borrowers: repositories.NewBorrowerRepository(db),
		loans:     repositories.NewLoanRepository(db),
	}, nil
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx := context.Background()

	var st *storage
	if cfg.Runs(config.ServiceCatalog) || cfg.Runs(config.ServiceLending) {
		var err error
		if st, err = openStorage(cfg, log); err != nil {
			return err
		}
		defer func() { _ = config.CloseDatabase(st.db) }()
	}

	deps := routes.Dependencies{
		Config:       cfg,
		HealthChecks: make(map[string]handlers.CheckFunc),
	}
	if st != nil && st.db != nil {
		deps.HealthChecks["database"] = func(context.Context) error { return config.HealthCheck(st.db) }
	}

	// Redis caches catalog books for split lending services; a split catalog
	// service shares it to evict changed books.
	var bookCache cache.Cache
	if cfg.Redis.Addr != "" && cfg.Service != config.ServiceAll && st != nil {
		redisCache := cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, "library-ledger:")
		defer func() { _ = redisCache.Close() }()
		if err := redisCache.Ping(ctx); err != nil {
			log.Warn("Redis unreachable; book cache is bypassed until it recovers", zap.Error(err))
		}
		deps.HealthChecks["redis"] = redisCache.Ping
		bookCache = redisCache
	}

	var seedBooks repositories.BookRepository
	var seedBorrowers repositories.BorrowerRepository

	if cfg.Runs(config.ServiceCatalog) {
		deps.Catalog = services.NewCatalogService(st.books, bookCache, log)
		seedBooks = st.books
	}

	if cfg.Runs(config.ServiceLending) {
		deps.Borrowers = services.NewBorrowerService(st.borrowers, log)
		seedBorrowers = st.borrowers

		// Fines: remote only when a separate fine service is configured
		var quoter services.FineQuoter
		var fineClient *clients.FineClient
		if cfg.Service == config.ServiceLending && cfg.Upstream.FineURL != "" {
			fineClient = clients.NewFineClient(cfg.Upstream.FineURL, cfg.Upstream.Timeout)
			quoter = fineClient
		} else {
			quoter = services.NewFineEngine(cfg.Fine, nil, log)
		}
		deps.Ledger = services.NewLedgerService(st.loans, quoter, cfg.Fine, log)
		if fineClient != nil {
			deps.LendingFines = fineClient
		} else {
			deps.LendingFines = services.NewFineEngine(cfg.Fine, deps.Ledger, log)
		}

		// Catalog lookups: in process, or over HTTP with an optional Redis cache
		if deps.Catalog != nil {
			deps.BookLookup = deps.Catalog
		} else {
			deps.BookLookup = clients.NewCatalogClient(cfg.Upstream.CatalogURL, cfg.Upstream.Timeout, bookCache, cfg.Redis.TTL, log)
		}

		monitor, err := services.NewOverdueMonitor(deps.Ledger, cfg.OverdueScanCron, log)
		if err != nil {
			return err
		}
		monitor.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			monitor.Stop(stopCtx)
		}()
		deps.Monitor = monitor
	}

	if cfg.Runs(config.ServiceFines) {
		var history services.LoanHistory
		if deps.Ledger != nil {
			history = deps.Ledger
		} else {
			history = clients.NewLedgerClient(cfg.Upstream.LedgerURL, cfg.Upstream.Timeout)
		}
		deps.Fines = services.NewFineEngine(cfg.Fine, history, log)
	}

	if cfg.SeedDemoData && (seedBooks != nil || seedBorrowers != nil) {
		if err := config.NewSeeder(seedBooks, seedBorrowers, log).Run(ctx); err != nil {
			log.Warn("Failed to seed demo data", zap.Error(err))
		}
	}

	// Create Fiber app
	app := routes.NewApp(cfg, log)
	routes.Setup(app, deps)

	// Graceful shutdown
	go gracefulShutdown(app, log)

	// Start server
	log.Info("Server starting", zap.String("port", cfg.Port), zap.String("service", cfg.Service))
	if err := app.Listen(":" + cfg.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App, log *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		log.Error("Error during shutdown", zap.Error(err))
	}
	log.Info("Server stopped gracefully")
}
