package repo

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bini-2002/Gada-ecnomic-zone-website/pkg/database"
)

type store interface {
	Load(ctx context.Context) (string, bool, error)
	Save(ctx context.Context, token string) error
	Delete(ctx context.Context) error
}

func exerciseStore(t *testing.T, s store) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := s.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "fresh store must be empty")

	require.NoError(t, s.Save(ctx, "first"))
	require.NoError(t, s.Save(ctx, "second"))
	tok, ok, err := s.Load(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "second", tok)

	require.NoError(t, s.Delete(ctx))
	require.NoError(t, s.Delete(ctx), "delete of an absent token is a no-op")
	_, ok, err = s.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryRepo(t *testing.T) {
	exerciseStore(t, NewMemoryRepo())
}

func TestFileRepo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "session.json")
	r := NewFileRepo(path)
	exerciseStore(t, r)

	require.NoError(t, r.Save(context.Background(), "abc"))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"access_token":"abc"}`, string(data))
}

func TestFileRepoCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	_, _, err := NewFileRepo(path).Load(context.Background())
	require.Error(t, err)
}

func TestSQLRepoSQLite(t *testing.T) {
	db, err := database.Connect(database.Config{
		Driver:   database.DriverSQLite,
		DSN:      filepath.Join(t.TempDir(), "client.db"),
		MaxConns: 1,
	})
	require.NoError(t, err)
	defer db.Close()

	r := NewSQLRepo(db)
	require.NoError(t, r.EnsureTable(context.Background()))
	require.NoError(t, r.EnsureTable(context.Background()), "EnsureTable is idempotent")
	exerciseStore(t, r)
}

func TestRedisRepo(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	r := NewRedisRepo(rdb)
	require.NoError(t, r.Delete(context.Background()))
	exerciseStore(t, r)
}
