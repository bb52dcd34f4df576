package database

import (
	"context"
	"path/filepath"
	"testing"

	"kandu_backend/internal/config"
	"kandu_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPostgres(t *testing.T) {
	assert.True(t, IsPostgres("postgres://u:p@localhost:5432/kandu"))
	assert.True(t, IsPostgres("postgresql://localhost/kandu"))
	assert.True(t, IsPostgres("host=localhost user=kandu dbname=kandu"))
	assert.False(t, IsPostgres("file:kandu.db"))
	assert.False(t, IsPostgres("sqlite://./kandu.db"))
}

func TestConnectAndMigrate_SQLite(t *testing.T) {
	cfg := &config.Config{}
	cfg.Database.DSN = "sqlite://" + filepath.Join(t.TempDir(), "kandu.db")

	db, err := Connect(cfg)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, Up(context.Background(), db, cfg.Database.DSN))

	for _, m := range models.All() {
		assert.True(t, db.Migrator().HasTable(m), "%T", m)
	}
}

func TestDownAndStatus_RequirePostgres(t *testing.T) {
	assert.Error(t, Down(context.Background(), "file:kandu.db"))
	assert.Error(t, Status(context.Background(), "file:kandu.db"))
}

func TestConnect_EmptyDSN(t *testing.T) {
	_, err := Connect(&config.Config{})
	assert.Error(t, err)
}
