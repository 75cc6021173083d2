package main

import (
	"database/sql"
	"fmt"
	"os"

	"library-ledger/internal/config"
	"library-ledger/internal/pkg/logger"
	"library-ledger/migrations"

	_ "github.com/go-sql-driver/mysql"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

func main() {
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

	// Get command from arguments (default to "up")
	command := "up"
	var args []string
	if len(os.Args) > 1 {
		command = os.Args[1]
		args = os.Args[2:]
	}

	if err := migrate(cfg, log, command, args); err != nil {
		log.Fatal("Migration failed", zap.String("command", command), zap.Error(err))
	}
}

func migrate(cfg *config.Config, log *zap.Logger, command string, args []string) error {
	// Open database connection
	db, err := sql.Open("mysql", config.BuildDSN(cfg.Database))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	// Test connection
	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	log.Info("Connected to MySQL", zap.String("host", cfg.Database.Host), zap.String("db", cfg.Database.DBName))

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("mysql"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	log.Info("Running migrations", zap.String("command", command))
	switch command {
	case "up":
		if err := goose.Up(db, "."); err != nil {
			return err
		}
		log.Info("Migrations completed successfully")
	case "down":
		if err := goose.Down(db, "."); err != nil {
			return err
		}
		log.Info("Rollback completed successfully")
	case "status":
		return goose.Status(db, ".")
	case "version":
		version, err := goose.GetDBVersion(db)
		if err != nil {
			return err
		}
		log.Info("Current migration version", zap.Int64("version", version))
	case "create":
		if len(args) < 1 {
			return fmt.Errorf("usage: migrate create <migration_name>")
		}
		// new files go to the source tree, not the embedded FS
		goose.SetBaseFS(nil)
		if err := goose.Create(db, "./migrations", args[0], "sql"); err != nil {
			return err
		}
		log.Info("Created migration", zap.String("name", args[0]))
	default:
		return fmt.Errorf("unknown command %q (available: up, down, status, version, create)", command)
	}
	return nil
}
