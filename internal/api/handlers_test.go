package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maisonnat/GauchoAPI/internal/models"
	"github.com/maisonnat/GauchoAPI/internal/runner"
	"github.com/maisonnat/GauchoAPI/internal/scraper"
)

type stubFetcher struct {
	html string
	err  error
}

func (s *stubFetcher) Fetch(context.Context, string) (string, error) {
	return s.html, s.err
}

type stubRenderer struct{}

func (stubRenderer) Render(context.Context, string) (string, error) {
	return "", nil
}

type memStore struct {
	rows map[string]models.Product
}

func (s *memStore) Upsert(_ context.Context, p *models.Product) error {
	s.rows[p.URL] = *p
	return nil
}

const fravegaFixture = `<html><body>
<article data-test-id="result-item">
	<a href="/p/a23"></a>
	<span class="sc-6321a7c8-0">Samsung A23</span>
	<span class="sc-ad64037f-0">$ 289.999,00</span>
	<img class="sc-3c31b0ed-0" src="https://images.fravega.com/a23.jpg"/>
</article>
<article data-test-id="result-item">
	<a href="/p/funda"></a>
	<span class="sc-6321a7c8-0">Funda A23</span>
	<span class="sc-ad64037f-0">$9.999,00</span>
	<img class="sc-3c31b0ed-0" src="https://images.fravega.com/funda.jpg"/>
</article>
</body></html>`

func newTestHandlers(fetcher scraper.Fetcher) (*Handlers, *memStore) {
	store := &memStore{rows: make(map[string]models.Product)}
	run := runner.New(store, nil, slog.Default())
	return NewHandlers(run, fetcher, stubRenderer{}, false, slog.Default()), store
}

func TestSearchRequiresQuery(t *testing.T) {
	h, _ := newTestHandlers(&stubFetcher{})
	router := NewRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/search?store=fravega", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchRequiresStore(t *testing.T) {
	h, _ := newTestHandlers(&stubFetcher{})
	router := NewRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/search?query=celular", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchRejectsUnknownStore(t *testing.T) {
	h, _ := newTestHandlers(&stubFetcher{})
	router := NewRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/search?query=celular&store=mercadolibre", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchReturnsResultsKeyedByStore(t *testing.T) {
	h, store := newTestHandlers(&stubFetcher{html: fravegaFixture})
	router := NewRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/search?query=celular+samsung+a23&store=fravega", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	result, ok := resp.Results["fravega"]
	require.True(t, ok)
	assert.Equal(t, 2, result.Count)
	assert.Empty(t, result.Error)
	assert.Len(t, store.rows, 2)
}

func TestSearchSurfacesScraperFailureAsEmptyResult(t *testing.T) {
	h, _ := newTestHandlers(&stubFetcher{html: "<html><body>changed layout</body></html>"})
	router := NewRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/search?query=celular&store=fravega", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	result := resp.Results["fravega"]
	assert.Empty(t, result.Products)
	assert.Contains(t, result.Error, "elements not found")
}

func TestHealthz(t *testing.T) {
	h, _ := newTestHandlers(&stubFetcher{})
	router := NewRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
