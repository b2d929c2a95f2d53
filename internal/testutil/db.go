package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/inventory/internal/db"
)

// NewDB returns a migrated in-memory sqlite database that is closed with the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := db.Open(context.Background(), db.DriverSQLite, "file::memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	t.Cleanup(func() { _ = db.Close(gdb) })
	return gdb
}
