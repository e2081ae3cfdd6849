// Package store opens a database connection for the selected dialect and
// runs schema DDL against it. Both engines are driven through database/sql:
// Postgres via the pgx stdlib adapter, SQLite via the pure-Go modernc
// driver.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/polygonhell/discogs-load/internal/schema"
	"github.com/polygonhell/discogs-load/internal/util"

	_ "github.com/jackc/pgx/v5/stdlib" // Postgres driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// Config holds database connection settings.
type Config struct {
	Dialect schema.Dialect

	// Postgres settings
	Host     string
	Port     int
	User     string
	Password string
	DBName   string

	// SQLite settings
	SQLitePath string
}

// DefaultConfig returns connection defaults matching the import pipeline's
// development environment.
func DefaultConfig() *Config {
	return &Config{
		Dialect:    schema.DialectPostgres,
		Host:       "localhost",
		Port:       5432,
		User:       "dev",
		Password:   "dev_pass",
		DBName:     "discogs",
		SQLitePath: "discogs.db",
	}
}

// driverAndDSN maps the config to a database/sql driver name and DSN.
func (c *Config) driverAndDSN() (string, string, error) {
	switch c.Dialect {
	case schema.DialectPostgres:
		if c.Host == "" || c.User == "" || c.DBName == "" {
			return "", "", fmt.Errorf("%w: postgres requires host, user and dbname", util.ErrInvalidConfig)
		}
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			c.Host, c.Port, c.User, c.Password, c.DBName)
		return "pgx", dsn, nil

	case schema.DialectSQLite:
		if c.SQLitePath == "" {
			return "", "", fmt.Errorf("%w: sqlite requires a database path", util.ErrInvalidConfig)
		}
		if c.SQLitePath == ":memory:" {
			return "sqlite", ":memory:", nil
		}
		dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", c.SQLitePath)
		return "sqlite", dsn, nil

	default:
		return "", "", fmt.Errorf("%w: %q", util.ErrUnknownDialect, c.Dialect)
	}
}

// Store wraps an open database connection.
type Store struct {
	db      *sql.DB
	dialect schema.Dialect
}

// Open connects to the database described by cfg and verifies the
// connection. Transient connection failures are retried with backoff.
func Open(ctx context.Context, cfg *Config) (*Store, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	driver, dsn, err := cfg.driverAndDSN()
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.Dialect == schema.DialectSQLite {
		// SQLite works best with a single writer
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	err = util.Retry(nil, func() error {
		return db.PingContext(ctx)
	}, fmt.Sprintf("connect(%s)", cfg.Dialect))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	return &Store{db: db, dialect: cfg.Dialect}, nil
}

// Ping verifies the connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection for custom queries
func (s *Store) DB() *sql.DB {
	return s.db
}

// Dialect returns the dialect the store was opened with
func (s *Store) Dialect() schema.Dialect {
	return s.dialect
}

// Tables lists the base tables present in the database, sorted by name.
func (s *Store) Tables(ctx context.Context) ([]string, error) {
	var query string
	switch s.dialect {
	case schema.DialectPostgres:
		query = `
			SELECT table_name FROM information_schema.tables
			WHERE table_schema = 'public' AND table_type = 'BASE TABLE'
			ORDER BY table_name
		`
	default:
		query = `
			SELECT name FROM sqlite_master
			WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
			ORDER BY name
		`
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// HasTable reports whether the named table exists.
func (s *Store) HasTable(ctx context.Context, name string) (bool, error) {
	tables, err := s.Tables(ctx)
	if err != nil {
		return false, err
	}
	for _, t := range tables {
		if t == name {
			return true, nil
		}
	}
	return false, nil
}

// RowCount returns the number of rows in a table. The table name must be
// one of the declared schema tables; it is interpolated, not bound.
func (s *Store) RowCount(ctx context.Context, table string) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return count, nil
}
