// Package testutil holds helpers shared by package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/labworks/tracker/internal/db"
)

// DSN returns a file-backed SQLite connection string inside the test's temp dir.
func DSN(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "data", "test.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite&_txlock=immediate"
}

// NewDB opens a fresh SQLite database with all migrations applied.
// The database is closed when the test finishes.
func NewDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := db.Init("sqlite", DSN(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))
	return database
}
