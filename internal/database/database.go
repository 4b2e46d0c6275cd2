package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"hotel/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/rs/zerolog"
)

const memoryPath = ":memory:"

// DB is the persistence gateway. Every query goes through bound parameters.
type DB struct {
	*sqlx.DB
	driver string
	path   string
	logger *zerolog.Logger
	retry  RetryPolicy
}

// NewDB opens a sqlite database at path with default settings.
func NewDB(path string, logger *zerolog.Logger) (*DB, error) {
	return Open(config.DatabaseConfig{
		Driver:      config.DriverSQLite,
		Path:        path,
		BusyTimeout: 5 * time.Second,
	}, logger)
}

// Open connects to the configured backend and creates the schema if missing.
func Open(cfg config.DatabaseConfig, logger *zerolog.Logger) (*DB, error) {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	if cfg.Driver == "" {
		cfg.Driver = config.DriverSQLite
	}

	var dsn string
	switch cfg.Driver {
	case config.DriverSQLite:
		if cfg.Path != memoryPath {
			// Создаем директорию для БД, если её нет
			if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		dsn = sqliteDSN(cfg)
	case config.DriverPostgres:
		dsn = cfg.Postgres.DSN()
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	conn, err := sqlx.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	switch {
	case cfg.Driver == config.DriverSQLite && cfg.Path == memoryPath:
		// каждое соединение к :memory: получает свою базу
		conn.SetMaxOpenConns(1)
	case cfg.MaxOpenConns > 0:
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := &DB{DB: conn, driver: cfg.Driver, path: cfg.Path, logger: logger, retry: defaultRetryPolicy}
	if err := db.createTables(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	logger.Info().Str("driver", cfg.Driver).Str("path", cfg.Path).Msg("Database initialized")
	return db, nil
}

func sqliteDSN(cfg config.DatabaseConfig) string {
	busy := cfg.BusyTimeout
	if busy <= 0 {
		busy = 5 * time.Second
	}
	params := []string{
		"_foreign_keys=on",
		"_txlock=immediate",
		fmt.Sprintf("_busy_timeout=%d", busy.Milliseconds()),
	}
	if cfg.Path != memoryPath {
		params = append(params, "_journal_mode=WAL")
	}
	return cfg.Path + "?" + strings.Join(params, "&")
}

// Driver returns the database/sql driver name in use.
func (db *DB) Driver() string { return db.driver }

func (db *DB) createTables(ctx context.Context) error {
	queries := sqliteSchema
	if db.driver == config.DriverPostgres {
		queries = postgresSchema
	}
	for _, q := range queries {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}
	return nil
}

// WithTx runs fn in a transaction, retrying on lock contention.
func (db *DB) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	var err error
	for attempt := 1; ; attempt++ {
		err = db.runTx(ctx, fn)
		if err == nil || !isRetryable(err) || attempt > db.retry.MaxRetries {
			return err
		}
		delay := db.retry.NextDelay(attempt)
		db.logger.Warn().Err(err).Int("attempt", attempt).Dur("delay", delay).Msg("Transaction contended, retrying")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

func (db *DB) runTx(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// Stats is a snapshot of connection pool counters for diagnostics.
type Stats struct {
	OpenConnections int
	InUse           int
	Idle            int
	WaitCount       int64
}

func (db *DB) Stats() Stats {
	s := db.DB.Stats()
	return Stats{OpenConnections: s.OpenConnections, InUse: s.InUse, Idle: s.Idle, WaitCount: s.WaitCount}
}
