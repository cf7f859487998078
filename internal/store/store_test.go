package store_test

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/0xRadioAc7iv/kvstore/internal/store"
)

func openTemp(t *testing.T) (*store.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "store.data")
	s, err := store.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestRoundTrip(t *testing.T) {
	s, _ := openTemp(t)

	require.NoError(t, s.Put([]byte("k"), []byte("hello"), "text/plain"))

	value, mime, err := s.Get("k")
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), value)
	require.Equal(t, "text/plain", mime)
}

func TestLatestWriteWins(t *testing.T) {
	s, _ := openTemp(t)

	require.NoError(t, s.Put([]byte("k"), []byte("v1"), "text/plain"))
	require.NoError(t, s.Put([]byte("other"), []byte("x"), "text/plain"))
	require.NoError(t, s.Put([]byte("k"), []byte("v2"), "application/json"))

	value, mime, err := s.Get("k")
	require.NoError(t, err)
	require.Equal(t, []byte("v2"), value)
	require.Equal(t, "application/json", mime)
}

func TestGetMissingKey(t *testing.T) {
	s, _ := openTemp(t)

	_, _, err := s.Get("nope")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestPersistenceAcrossReopen(t *testing.T) {
	s, path := openTemp(t)

	require.NoError(t, s.Put([]byte("k"), []byte("hello"), "text/plain"))
	require.NoError(t, s.Close())

	reopened, err := store.Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	value, mime, err := reopened.Get("k")
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), value)
	require.Equal(t, "text/plain", mime)
}

func TestKeysReflectsReopenedStore(t *testing.T) {
	s, path := openTemp(t)

	require.NoError(t, s.Put([]byte("a"), []byte("1"), "text/plain"))
	require.NoError(t, s.Put([]byte("b"), []byte("2"), "text/plain"))
	require.NoError(t, s.Put([]byte("c"), []byte("3"), "text/plain"))
	require.NoError(t, s.Close())

	reopened, err := store.Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	keys := reopened.Keys()
	sort.Strings(keys)
	require.Equal(t, []string{"a", "b", "c"}, keys)
}

func TestMergePreservesLatestAndShrinksFile(t *testing.T) {
	s, _ := openTemp(t)

	keys := []string{"a", "b", "c"}
	for _, k := range keys {
		for i := 0; i < 10; i++ {
			require.NoError(t, s.Put([]byte(k), []byte("version"), "text/plain"))
		}
		require.NoError(t, s.Put([]byte(k), []byte("final-"+k), "text/plain"))
	}

	before, err := s.Size()
	require.NoError(t, err)

	require.NoError(t, s.Merge())

	after, err := s.Size()
	require.NoError(t, err)
	require.Less(t, after, before)

	for _, k := range keys {
		value, _, err := s.Get(k)
		require.NoError(t, err)
		require.Equal(t, []byte("final-"+k), value)
	}
}

func TestKeydirEqualsScanAfterReopen(t *testing.T) {
	s, path := openTemp(t)

	for i := 0; i < 20; i++ {
		k := string(rune('a' + i%5))
		require.NoError(t, s.Put([]byte(k), []byte(k+"-value"), "text/plain"))
	}
	require.NoError(t, s.Close())

	reopened, err := store.Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	for i := 0; i < 5; i++ {
		k := string(rune('a' + i))
		value, _, err := reopened.Get(k)
		require.NoError(t, err)
		require.Equal(t, []byte(k+"-value"), value)
	}
}

func TestBinaryValueRoundTrips(t *testing.T) {
	s, _ := openTemp(t)

	binary := []byte{0x00, 0x05, 0x03, 0x86, 0x05, 0x00, 0x01, 0x00, 0x00}
	require.NoError(t, s.Put([]byte("bin"), binary, "application/octet-stream"))

	value, mime, err := s.Get("bin")
	require.NoError(t, err)
	require.Equal(t, binary, value)
	require.Equal(t, "application/octet-stream", mime)
}

func TestOpenRejectsVersionMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.data")

	// A future major version this code does not understand.
	bad := []byte{0, 0, 0, 0, 0, 0, 0, 0, 99, 0, 0, 0}
	require.NoError(t, os.WriteFile(path, bad, 0644))

	_, err := store.Open(path)
	require.ErrorIs(t, err, store.ErrVersionMismatch)
}

func TestOpenRejectsHeaderlessFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.data")

	// A non-empty, non-zero-sentinel file: not a valid v2+ store.
	require.NoError(t, os.WriteFile(path, []byte("not a bitcask file at all!!"), 0644))

	_, err := store.Open(path)
	require.ErrorIs(t, err, store.ErrCorrupt)
}
