package cache

import (
	"testing"

	"github.com/momai/momai/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backends returns one of each KV implementation for conformance testing.
func backends(t *testing.T) map[string]KV {
	t.Helper()
	log := logging.New(nil, "silent")

	sqlite, err := OpenSQLiteKV(":memory:", log)
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	badgerKV, err := OpenBadgerKV(t.TempDir(), log)
	require.NoError(t, err)
	t.Cleanup(func() { badgerKV.Close() })

	return map[string]KV{
		"memory": NewMemoryKV(),
		"sqlite": sqlite,
		"badger": badgerKV,
	}
}

func TestKV_SetGet(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, kv.Set("k", []byte("v1")))

			got, ok, err := kv.Get("k")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, []byte("v1"), got)

			// Overwrite
			require.NoError(t, kv.Set("k", []byte("v2")))
			got, _, err = kv.Get("k")
			require.NoError(t, err)
			assert.Equal(t, []byte("v2"), got)
		})
	}
}

func TestKV_GetMissing(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			got, ok, err := kv.Get("absent")
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Nil(t, got)
		})
	}
}

func TestKV_Remove(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, kv.Set("k", []byte("v")))
			require.NoError(t, kv.Remove("k"))

			_, ok, err := kv.Get("k")
			require.NoError(t, err)
			assert.False(t, ok)

			// Removing again is a no-op
			require.NoError(t, kv.Remove("k"))
		})
	}
}

func TestKV_Clear(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, kv.Set("a", []byte("1")))
			require.NoError(t, kv.Set("b", []byte("2")))
			require.NoError(t, kv.Clear())

			for _, key := range []string{"a", "b"} {
				_, ok, err := kv.Get(key)
				require.NoError(t, err)
				assert.False(t, ok)
			}
		})
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open("etcd", "", logging.New(nil, "silent"))
	assert.Error(t, err)
}

func TestOpen_DefaultsToMemory(t *testing.T) {
	kv, err := Open("", "", logging.New(nil, "silent"))
	require.NoError(t, err)
	assert.IsType(t, &MemoryKV{}, kv)
}

func TestSQLite_MigrationsIdempotent(t *testing.T) {
	log := logging.New(nil, "silent")
	kv, err := OpenSQLiteKV(":memory:", log)
	require.NoError(t, err)
	defer kv.Close()

	require.NoError(t, kv.migrate())

	var count int
	err = kv.sql.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, len(migrations), count)
}
