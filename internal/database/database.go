package database

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/fekuna/omnipos-stock/config"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	_ "modernc.org/sqlite" // SQLite driver, registered as "sqlite"
)

func init() {
	sqlx.BindDriver(config.DriverSQLite, sqlx.QUESTION)
}

// Open connects to the configured store. SQLite is the default for a single
// till; Postgres is supported for a shared back-office database. Transient
// startup failures are retried with exponential backoff.
func Open(cfg *config.DatabaseConfig) (*sqlx.DB, error) {
	if cfg == nil {
		return nil, errors.New("nil database config")
	}

	dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}

	const (
		maxAttempts = 5
		baseDelay   = 200 * time.Millisecond
	)

	var db *sqlx.DB
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		db, lastErr = sqlx.Open(cfg.Driver, dsn)
		if lastErr != nil {
			sleepWithBackoff(attempt, baseDelay)
			continue
		}

		setPool(db, cfg)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		lastErr = db.PingContext(ctx)
		cancel()
		if lastErr == nil {
			return db, nil
		}

		_ = db.Close()
		if cfg.Driver == config.DriverSQLite {
			// a local file either opens or it doesn't
			break
		}
		sleepWithBackoff(attempt, baseDelay)
	}

	return nil, fmt.Errorf("failed to connect to %s database: %w", cfg.Driver, lastErr)
}

// DSN builds the driver-specific connection string.
func DSN(cfg *config.DatabaseConfig) (string, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		path := cfg.SQLitePath
		if path == "" {
			return "", errors.New("sqlite path is empty")
		}
		pragmas := []string{"_pragma=busy_timeout(5000)", "_pragma=foreign_keys(1)", "_time_format=sqlite"}
		if path != ":memory:" && !strings.Contains(path, "mode=memory") {
			pragmas = append(pragmas, "_pragma=journal_mode(WAL)")
		}
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		return path + sep + strings.Join(pragmas, "&"), nil
	case config.DriverPostgres:
		return fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s?sslmode=%s",
			url.QueryEscape(cfg.User), url.QueryEscape(cfg.Password), cfg.Host, cfg.Port, cfg.DBName, cfg.SSLMode,
		), nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func setPool(db *sqlx.DB, cfg *config.DatabaseConfig) {
	if cfg.Driver == config.DriverSQLite {
		// One writer; also keeps an in-memory database alive for the
		// lifetime of the handle.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
		db.SetConnMaxIdleTime(0)
		return
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
	db.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Second)
}

func sleepWithBackoff(attempt int, base time.Duration) {
	d := base << (attempt - 1)
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	time.Sleep(d)
}
