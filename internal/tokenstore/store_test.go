package tokenstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

// exerciseStore runs the shared slot contract against any backend.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("empty initially", func(t *testing.T) {
		token, ok, err := s.Load(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, token)
	})

	t.Run("save then load", func(t *testing.T) {
		require.NoError(t, s.Save(ctx, "T1"))
		token, ok, err := s.Load(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "T1", token)
	})

	t.Run("save replaces", func(t *testing.T) {
		require.NoError(t, s.Save(ctx, "T2"))
		token, _, err := s.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "T2", token)
	})

	t.Run("clear empties", func(t *testing.T) {
		require.NoError(t, s.Clear(ctx))
		_, ok, err := s.Load(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("clear twice is fine", func(t *testing.T) {
		assert.NoError(t, s.Clear(ctx))
	})
}

func TestMemory(t *testing.T) {
	s := NewMemory()
	assert.Equal(t, BackendMemory, s.Backend())
	exerciseStore(t, s)
	assert.NoError(t, s.Close())
}

func TestMemoryWithToken(t *testing.T) {
	s := NewMemoryWithToken("seeded")
	token, ok, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "seeded", token)
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "credentials.yaml")
	s := NewFile(path, "default")
	assert.Equal(t, BackendFile, s.Backend())
	assert.Equal(t, path, s.Path())
	exerciseStore(t, s)
}

func TestFile_Permissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.yaml")
	s := NewFile(path, "default")
	require.NoError(t, s.Save(context.Background(), "secret"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFile_ProfilesAreIndependent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "credentials.yaml")

	staging := NewFile(path, "staging")
	prod := NewFile(path, "prod")

	require.NoError(t, staging.Save(ctx, "staging-token"))
	require.NoError(t, prod.Save(ctx, "prod-token"))
	require.NoError(t, staging.Clear(ctx))

	_, ok, err := staging.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	token, ok, err := prod.Load(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "prod-token", token)
}

func TestFile_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "credentials.yaml")

	require.NoError(t, NewFile(path, "default").Save(ctx, "persisted"))

	token, ok, err := NewFile(path, "default").Load(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "persisted", token)
}

func TestFile_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.yaml")
	require.NoError(t, os.WriteFile(path, []byte("profiles: [unclosed"), 0o600))

	_, _, err := NewFile(path, "default").Load(context.Background())
	assert.Error(t, err)
}

func TestRedis(t *testing.T) {
	_, client := setupTestRedis(t)
	s := NewRedisWithClient(client, "default", 0)
	assert.Equal(t, BackendRedis, s.Backend())
	exerciseStore(t, s)
}

func TestRedis_KeyAndTTL(t *testing.T) {
	mr, client := setupTestRedis(t)
	s := NewRedisWithClient(client, "ops", time.Hour)

	require.NoError(t, s.Save(context.Background(), "T1"))

	assert.Equal(t, "shopctl:ops:token", RedisKey("ops"))
	got, err := mr.Get("shopctl:ops:token")
	require.NoError(t, err)
	assert.Equal(t, "T1", got)
	assert.Equal(t, time.Hour, mr.TTL("shopctl:ops:token"))

	mr.FastForward(2 * time.Hour)
	_, ok, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	s, err := NewRedis(context.Background(), "redis://"+mr.Addr()+"/0", "default", 0)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Save(context.Background(), "T1"))
	assert.True(t, mr.Exists("shopctl:default:token"))
}

func TestNewRedis_InvalidURL(t *testing.T) {
	_, err := NewRedis(context.Background(), "not-a-valid-url", "default", 0)
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	tests := []struct {
		name    string
		cfg     Config
		backend string
		wantErr bool
	}{
		{name: "memory", cfg: Config{Backend: BackendMemory}, backend: BackendMemory},
		{name: "file", cfg: Config{Backend: BackendFile, Path: filepath.Join(t.TempDir(), "c.yaml")}, backend: BackendFile},
		{name: "empty backend defaults to file", cfg: Config{Path: filepath.Join(t.TempDir(), "c.yaml")}, backend: BackendFile},
		{name: "file without path", cfg: Config{Backend: BackendFile}, wantErr: true},
		{name: "redis", cfg: Config{Backend: BackendRedis, RedisURL: "redis://" + mr.Addr()}, backend: BackendRedis},
		{name: "unknown", cfg: Config{Backend: "etcd"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(ctx, tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer s.Close()
			assert.Equal(t, tt.backend, s.Backend())
		})
	}
}
