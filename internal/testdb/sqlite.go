package testdb

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// New returns a bun DB backed by a private in-memory SQLite database. The
// pool is pinned to a single connection because the in-memory database lives
// and dies with its connection.
func New(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	require.NoError(t, db.Ping())

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// RunMigrations creates the tables for the given models, mirroring the
// startup migration path.
func RunMigrations(t *testing.T, db *bun.DB, models ...interface{}) {
	t.Helper()
	ctx := context.Background()

	for _, model := range models {
		_, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx)
		require.NoError(t, err, "failed to create table")
	}
}

// CleanupTables removes all rows from the given tables between subtests.
func CleanupTables(t *testing.T, db *bun.DB, tables ...string) {
	t.Helper()
	ctx := context.Background()

	for _, table := range tables {
		_, err := db.NewDelete().Table(table).Where("1 = 1").Exec(ctx)
		require.NoError(t, err, "failed to clean table %s", table)
	}
}
