package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stacklok/media-readiness-server/database"
	"github.com/stacklok/media-readiness-server/internal/config"
	"github.com/stacklok/media-readiness-server/internal/store"
	"github.com/stacklok/media-readiness-server/internal/sync/state"
)

// DatabaseFactory creates PostgreSQL-backed storage components.
// Sync state stays in a file under the default data directory.
type DatabaseFactory struct {
	config   *config.Config
	pool     *pgxpool.Pool
	stateDir string
}

var _ Factory = (*DatabaseFactory)(nil)

// DatabaseFactoryOption is a functional option for configuring the DatabaseFactory
type DatabaseFactoryOption func(*DatabaseFactory)

// WithStateDir overrides the directory holding the sync state file
func WithStateDir(dir string) DatabaseFactoryOption {
	return func(f *DatabaseFactory) {
		f.stateDir = dir
	}
}

// NewDatabaseFactory applies pending migrations and opens a connection pool
// to the configured PostgreSQL database.
func NewDatabaseFactory(ctx context.Context, cfg *config.Config, opts ...DatabaseFactoryOption) (*DatabaseFactory, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Database == nil {
		return nil, fmt.Errorf("database configuration is required for database storage type")
	}

	slog.Info("Creating database-backed storage factory")

	connStr, err := cfg.Database.GetConnectionString()
	if err != nil {
		return nil, fmt.Errorf("failed to build database connection string: %w", err)
	}

	if err := database.MigrateUp(connStr); err != nil {
		return nil, fmt.Errorf("failed to apply database migrations: %w", err)
	}

	pool, err := buildDatabaseConnectionPool(ctx, cfg.Database, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection pool: %w", err)
	}

	factory := &DatabaseFactory{
		config:   cfg,
		pool:     pool,
		stateDir: cfg.GetStateDir(),
	}
	for _, opt := range opts {
		opt(factory)
	}

	return factory, nil
}

// CreateStateService creates a file-based state service for sync status tracking
func (d *DatabaseFactory) CreateStateService(ctx context.Context) (state.StateService, error) {
	slog.Debug("Creating file-based state service", "dir", d.stateDir)
	return newStateService(ctx, d.stateDir)
}

// CreateStore creates a PostgreSQL store sharing the factory's pool
func (d *DatabaseFactory) CreateStore(_ context.Context) (store.Store, error) {
	slog.Debug("Creating database-backed store")
	return store.NewPostgresStore(d.pool), nil
}

// Cleanup closes the database connection pool
func (d *DatabaseFactory) Cleanup() {
	if d.pool != nil {
		slog.Info("Closing database connection pool")
		d.pool.Close()
		d.pool = nil
	}
}

// buildDatabaseConnectionPool creates a connection pool configured from cfg and verifies connectivity
func buildDatabaseConnectionPool(ctx context.Context, cfg *config.DatabaseConfig, connStr string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database connection string: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		poolConfig.MaxConns = cfg.MaxOpenConns
	}
	if cfg.MaxIdleConns > 0 {
		poolConfig.MinConns = cfg.MaxIdleConns
	}
	if cfg.ConnMaxLifetime != "" {
		lifetime, err := time.ParseDuration(cfg.ConnMaxLifetime)
		if err != nil {
			return nil, fmt.Errorf("failed to parse connMaxLifetime: %w", err)
		}
		poolConfig.MaxConnLifetime = lifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("Database connection pool created successfully")
	return pool, nil
}
