// Package dbtest opens migrated in-memory SQLite databases for tests.
package dbtest

import (
	"testing"

	"github.com/fekuna/omnipos-stock/config"
	"github.com/fekuna/omnipos-stock/internal/database"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func New(t testing.TB) *sqlx.DB {
	t.Helper()

	cfg := &config.DatabaseConfig{Driver: config.DriverSQLite, SQLitePath: ":memory:"}
	db, err := database.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.Migrate(db, cfg.Driver))
	return db
}
