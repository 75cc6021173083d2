package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"library-ledger/internal/core/domain"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Service modes
const (
	ServiceAll     = "all"
	ServiceCatalog = "catalog"
	ServiceLending = "lending"
	ServiceFines   = "fines"
)

// Storage backends
const (
	StorageMemory = "memory"
	StorageMySQL  = "mysql"
)

// Config holds all configuration for the application
type Config struct {
	AppMode      string
	Service      string
	Port         string
	Storage      string
	SeedDemoData bool
	// EnvFileLoaded is false when no .env file was found
	EnvFileLoaded bool

	Database DatabaseConfig
	Upstream UpstreamConfig
	Redis    RedisConfig
	Fine     domain.FinePolicy

	OverdueScanCron string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	DBName      string
	AutoMigrate bool
}

// UpstreamConfig holds the base URLs of the other services, used when they
// do not run in this process
type UpstreamConfig struct {
	CatalogURL string
	LedgerURL  string
	FineURL    string
	Timeout    time.Duration
}

// RedisConfig holds the book cache shared by split catalog and lending
// services. An empty Addr disables the cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	envLoaded := godotenv.Load() == nil

	// Get APP_MODE (default to "dev") - trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	service := strings.ToLower(strings.TrimSpace(getEnv("SERVICE", ServiceAll)))
	switch service {
	case ServiceAll, ServiceCatalog, ServiceLending, ServiceFines:
	default:
		return nil, fmt.Errorf("invalid SERVICE: '%s' (must be 'all', 'catalog', 'lending' or 'fines')", service)
	}

	storage := strings.ToLower(strings.TrimSpace(getEnv("STORAGE", StorageMemory)))
	if storage != StorageMemory && storage != StorageMySQL {
		return nil, fmt.Errorf("invalid STORAGE: '%s' (must be 'memory' or 'mysql')", storage)
	}

	database, err := loadDatabaseConfig(appMode)
	if err != nil {
		return nil, err
	}
	upstream, err := loadUpstreamConfig()
	if err != nil {
		return nil, err
	}
	redis, err := loadRedisConfig()
	if err != nil {
		return nil, err
	}
	fine, err := loadFinePolicy()
	if err != nil {
		return nil, err
	}
	seed, err := getBool("SEED_DEMO_DATA", appMode == "dev")
	if err != nil {
		return nil, err
	}

	config := &Config{
		AppMode:         appMode,
		Service:         service,
		Port:            getEnv("PORT", "3000"),
		Storage:         storage,
		SeedDemoData:    seed,
		EnvFileLoaded:   envLoaded,
		Database:        database,
		Upstream:        upstream,
		Redis:           redis,
		Fine:            fine,
		OverdueScanCron: getEnv("OVERDUE_SCAN_CRON", "@hourly"),
	}

	if config.Service == ServiceLending && config.Upstream.CatalogURL == "" {
		return nil, fmt.Errorf("CATALOG_URL is required when SERVICE=lending")
	}
	if config.Service == ServiceFines && config.Upstream.LedgerURL == "" {
		return nil, fmt.Errorf("LEDGER_URL is required when SERVICE=fines")
	}

	return config, nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) (DatabaseConfig, error) {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	autoMigrate, err := getBool("DB_AUTO_MIGRATE", mode == "dev")
	if err != nil {
		return DatabaseConfig{}, err
	}

	return DatabaseConfig{
		Host:        getEnv(prefix+"DB_HOST", "localhost"),
		Port:        getEnv(prefix+"DB_PORT", "3306"),
		User:        getEnv(prefix+"DB_USER", "root"),
		Password:    getEnv(prefix+"DB_PASS", ""),
		DBName:      getEnv(prefix+"DB_NAME", "library_ledger"),
		AutoMigrate: autoMigrate,
	}, nil
}

func loadUpstreamConfig() (UpstreamConfig, error) {
	timeout, err := getDuration("UPSTREAM_TIMEOUT", 5*time.Second)
	if err != nil {
		return UpstreamConfig{}, err
	}
	return UpstreamConfig{
		CatalogURL: strings.TrimRight(getEnv("CATALOG_URL", ""), "/"),
		LedgerURL:  strings.TrimRight(getEnv("LEDGER_URL", ""), "/"),
		FineURL:    strings.TrimRight(getEnv("FINE_URL", ""), "/"),
		Timeout:    timeout,
	}, nil
}

func loadRedisConfig() (RedisConfig, error) {
	db, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return RedisConfig{}, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	ttl, err := getDuration("CATALOG_CACHE_TTL", time.Minute)
	if err != nil {
		return RedisConfig{}, err
	}
	return RedisConfig{
		Addr:     getEnv("REDIS_ADDR", ""),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       db,
		TTL:      ttl,
	}, nil
}

// loadFinePolicy builds the single fine policy every fine computation uses
func loadFinePolicy() (domain.FinePolicy, error) {
	grace, err := strconv.Atoi(getEnv("FINE_GRACE_DAYS", strconv.Itoa(domain.DefaultGraceDays)))
	if err != nil {
		return domain.FinePolicy{}, fmt.Errorf("invalid FINE_GRACE_DAYS: %w", err)
	}
	rate, err := decimal.NewFromString(getEnv("FINE_DAILY_RATE", domain.DefaultDailyRate))
	if err != nil {
		return domain.FinePolicy{}, fmt.Errorf("invalid FINE_DAILY_RATE: %w", err)
	}
	policy := domain.FinePolicy{GraceDays: grace, DailyRate: rate}
	if err := policy.Validate(); err != nil {
		return domain.FinePolicy{}, fmt.Errorf("invalid fine policy: %w", err)
	}
	return policy, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// Runs reports whether the given service is served by this process
func (c *Config) Runs(service string) bool {
	return c.Service == ServiceAll || c.Service == service
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		return "*"
	}
	return origins
}
