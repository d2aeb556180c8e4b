package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFromEnvDefaultsToSQLite(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "")
	t.Setenv("DATABASE_URL", "")
	cfg := ConfigFromEnv()
	assert.Equal(t, DriverSQLite, cfg.Driver)
	assert.Equal(t, 1, cfg.MaxConns)
	assert.Equal(t, "gada.db", filepath.Base(cfg.DSN))
}

func TestConfigFromEnvPostgres(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "POSTGRES")
	t.Setenv("DATABASE_URL", "")
	cfg := ConfigFromEnv()
	assert.Equal(t, DriverPostgres, cfg.Driver)
	assert.Contains(t, cfg.DSN, "postgres://")
	assert.Equal(t, 5, cfg.MaxConns)
}

func TestConnectSQLiteFile(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "nested", "client.db")
	db, err := Connect(Config{Driver: DriverSQLite, DSN: dsn, MaxConns: 1})
	require.NoError(t, err)
	defer db.Close()

	var one int
	require.NoError(t, db.Get(&one, "SELECT 1"))
	assert.Equal(t, 1, one)
}

func TestConnectRejectsUnknownDriver(t *testing.T) {
	_, err := Connect(Config{Driver: "mysql", DSN: "x"})
	require.Error(t, err)
}

func TestQuoteLiteral(t *testing.T) {
	assert.Equal(t, "'Africa/Addis_Ababa'", quoteLiteral("Africa/Addis_Ababa"))
	assert.Equal(t, "'it''s'", quoteLiteral("it's"))
}
