package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Backend {
	t.Helper()

	bolt, err := NewBoltBackend(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { bolt.Close() })

	return map[string]Backend{
		"memory": NewMemoryBackend(),
		"bbolt":  bolt,
	}
}

func TestBackend_PutGet(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, b.Put([]byte("bucket"), []byte("key"), []byte("value")))

			got, err := b.Get([]byte("bucket"), []byte("key"))
			require.NoError(t, err)
			require.Equal(t, []byte("value"), got)
		})
	}
}

func TestBackend_GetMissing(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			got, err := b.Get([]byte("no-bucket"), []byte("no-key"))
			require.NoError(t, err)
			require.Nil(t, got)

			require.NoError(t, b.CreateBucket([]byte("empty")))
			got, err = b.Get([]byte("empty"), []byte("no-key"))
			require.NoError(t, err)
			require.Nil(t, got)
		})
	}
}

func TestBackend_Overwrite(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, b.Put([]byte("b"), []byte("k"), []byte("old")))
			require.NoError(t, b.Put([]byte("b"), []byte("k"), []byte("new")))

			got, err := b.Get([]byte("b"), []byte("k"))
			require.NoError(t, err)
			require.Equal(t, []byte("new"), got)
		})
	}
}

func TestBackend_Delete(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, b.Put([]byte("b"), []byte("k"), []byte("v")))
			require.NoError(t, b.Delete([]byte("b"), []byte("k")))

			got, err := b.Get([]byte("b"), []byte("k"))
			require.NoError(t, err)
			require.Nil(t, got)

			// deleting from a missing bucket is fine
			require.NoError(t, b.Delete([]byte("ghost"), []byte("k")))
		})
	}
}

func TestBackend_ForEach(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, b.Put([]byte("b"), []byte("k1"), []byte("v1")))
			require.NoError(t, b.Put([]byte("b"), []byte("k2"), []byte("v2")))

			seen := map[string]string{}
			err := b.ForEach([]byte("b"), func(k, v []byte) error {
				seen[string(k)] = string(v)
				return nil
			})
			require.NoError(t, err)
			require.Equal(t, map[string]string{"k1": "v1", "k2": "v2"}, seen)

			// missing bucket iterates nothing
			require.NoError(t, b.ForEach([]byte("ghost"), func(k, v []byte) error {
				t.Fatal("should not be called")
				return nil
			}))
		})
	}
}

func TestMemoryBackend_ValueIsolation(t *testing.T) {
	b := NewMemoryBackend()
	value := []byte("original")
	require.NoError(t, b.Put([]byte("b"), []byte("k"), value))

	value[0] = 'X'
	got, err := b.Get([]byte("b"), []byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("original"), got)

	got[0] = 'Y'
	again, err := b.Get([]byte("b"), []byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("original"), again)
}

func TestBoltBackend_Persistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.db")

	b, err := NewBoltBackend(path)
	require.NoError(t, err)
	require.NoError(t, b.Put([]byte("b"), []byte("k"), []byte("v")))
	require.NoError(t, b.Close())

	reopened, err := NewBoltBackend(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get([]byte("b"), []byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("v"), got)
}
