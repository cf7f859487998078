package kvclient_test

import (
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/0xRadioAc7iv/kvstore/internal/httpapi"
	"github.com/0xRadioAc7iv/kvstore/internal/registry"
	"github.com/0xRadioAc7iv/kvstore/kvclient"
)

func newTestClient(t *testing.T) *kvclient.Client {
	t.Helper()

	reg, err := registry.New(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { reg.CloseAll() })

	srv := httptest.NewServer(httpapi.NewServer(reg))
	t.Cleanup(srv.Close)

	host, portStr, err := splitHostPort(srv.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	return kvclient.New(kvclient.WithHost(host), kvclient.WithPort(port))
}

func splitHostPort(url string) (string, string, error) {
	url = strings.TrimPrefix(url, "http://")
	idx := strings.LastIndex(url, ":")
	return url[:idx], url[idx+1:], nil
}

func TestClientPutGetRoundTrips(t *testing.T) {
	c := newTestClient(t)

	require.NoError(t, c.Put("widgets", "foo", []byte("bar"), "text/plain"))

	value, mime, err := c.Get("widgets", "foo")
	require.NoError(t, err)
	require.Equal(t, "bar", string(value))
	require.Equal(t, "text/plain", mime)
}

func TestClientGetMissingReturnsErrNotFound(t *testing.T) {
	c := newTestClient(t)

	_, _, err := c.Get("widgets", "missing")
	require.ErrorIs(t, err, kvclient.ErrNotFound)
}

func TestClientKeysListsStoredKeys(t *testing.T) {
	c := newTestClient(t)

	require.NoError(t, c.Put("widgets", "a", []byte("1"), "text/plain"))
	require.NoError(t, c.Put("widgets", "b", []byte("2"), "text/plain"))

	keys, err := c.Keys("widgets")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"a", "b"}, keys)
}

func TestClientMergeReportsSizes(t *testing.T) {
	c := newTestClient(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, c.Put("widgets", "k", []byte("value"), "text/plain"))
	}

	report, err := c.Merge("widgets")
	require.NoError(t, err)
	require.Contains(t, report, "merged widgets:")
}

func TestClientMergeOnUnknownStoreReturnsErrNotFound(t *testing.T) {
	c := newTestClient(t)

	_, err := c.Merge("never-created")
	require.ErrorIs(t, err, kvclient.ErrNotFound)
}
