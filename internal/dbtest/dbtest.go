// Package dbtest opens migrated sqlite stores for tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/shop_backend/internal/models"
	"github.com/Skotchmaster/shop_backend/pkg/db"
)

func DSN(dir string) string {
	return filepath.Join(dir, "shop.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func Open(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := db.Open(context.Background(), db.DriverSQLite, DSN(t.TempDir()))
	require.NoError(t, err)
	require.NoError(t, models.Migrate(gdb))

	t.Cleanup(func() { _ = db.Close(gdb) })
	return gdb
}
