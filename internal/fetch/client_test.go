package fetch

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maisonnat/GauchoAPI/internal/cache"
	"github.com/maisonnat/GauchoAPI/internal/config"
	"github.com/maisonnat/GauchoAPI/internal/scraper"
)

func newTestClient(t *testing.T, store cache.Store) *Client {
	t.Helper()

	httpClient := &http.Client{}
	httpmock.ActivateNonDefault(httpClient)
	t.Cleanup(httpmock.DeactivateAndReset)

	cfg := config.ScraperConfig{
		MaxAttempts: 3,
		RetryDelay:  0,
		UserAgents:  []string{"test-agent/1.0"},
	}

	return NewWithHTTPClient(httpClient, store, cfg, time.Minute, slog.Default())
}

func newMemoryStore(t *testing.T) cache.Store {
	t.Helper()
	store, err := cache.NewMemory(16, time.Minute)
	require.NoError(t, err)
	return store
}

func TestFetchSuccessPopulatesCache(t *testing.T) {
	store := newMemoryStore(t)
	client := newTestClient(t, store)

	const url = "https://www.fravega.com/l/?keyword=celular"
	httpmock.RegisterResponder(http.MethodGet, url,
		httpmock.NewStringResponder(http.StatusOK, "<html>results</html>"))

	body, err := client.Fetch(context.Background(), url)
	require.NoError(t, err)
	assert.Equal(t, "<html>results</html>", body)

	cached, err := store.Get(context.Background(), url)
	require.NoError(t, err)
	assert.Equal(t, "<html>results</html>", cached)
}

func TestFetchServesFromCacheWithoutNetwork(t *testing.T) {
	store := newMemoryStore(t)
	client := newTestClient(t, store)

	const url = "https://www.perozzi.com.ar/search?s=celular"
	require.NoError(t, store.Set(context.Background(), url, "cached page", time.Minute))

	body, err := client.Fetch(context.Background(), url)
	require.NoError(t, err)
	assert.Equal(t, "cached page", body)
	assert.Equal(t, 0, httpmock.GetTotalCallCount())
}

func TestFetchRetryBound(t *testing.T) {
	store := newMemoryStore(t)
	client := newTestClient(t, store)

	const url = "https://www.fravega.com/l/?keyword=nada"
	httpmock.RegisterResponder(http.MethodGet, url,
		httpmock.NewErrorResponder(errors.New("connection refused")))

	_, err := client.Fetch(context.Background(), url)

	var transportErr *scraper.TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, url, transportErr.URL)
	assert.Equal(t, 3, httpmock.GetTotalCallCount())
}

func TestFetchRetriesOnHTTPError(t *testing.T) {
	store := newMemoryStore(t)
	client := newTestClient(t, store)

	const url = "https://www.fravega.com/l/?keyword=bloqueado"
	httpmock.RegisterResponder(http.MethodGet, url,
		httpmock.NewStringResponder(http.StatusServiceUnavailable, "maintenance"))

	_, err := client.Fetch(context.Background(), url)

	var transportErr *scraper.TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, 3, httpmock.GetTotalCallCount())

	_, err = store.Get(context.Background(), url)
	assert.ErrorIs(t, err, cache.ErrMiss, "failed responses must not be cached")
}

func TestFetchSetsUserAgentFromPool(t *testing.T) {
	store := newMemoryStore(t)
	client := newTestClient(t, store)

	const url = "https://www.fravega.com/l/?keyword=ua"
	var seenAgent string
	httpmock.RegisterResponder(http.MethodGet, url,
		func(req *http.Request) (*http.Response, error) {
			seenAgent = req.Header.Get("User-Agent")
			return httpmock.NewStringResponse(http.StatusOK, "ok"), nil
		})

	_, err := client.Fetch(context.Background(), url)
	require.NoError(t, err)
	assert.Equal(t, "test-agent/1.0", seenAgent)
}
