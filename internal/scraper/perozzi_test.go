package scraper

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const perozziFixture = `<!DOCTYPE html>
<html><body>
<div class="js-product-miniature-wrapper">
	<h2 class="h3 product-title"><a href="https://www.perozzi.com.ar/celulares/samsung-a23">Samsung Galaxy A23</a></h2>
	<span class="product-price">$ 275.500,00</span>
	<img class="img-fluid" data-src="https://www.perozzi.com.ar/img/a23.jpg" src="placeholder.gif"/>
</div>
<div class="js-product-miniature-wrapper">
	<h2 class="h3 product-title"><a href="https://www.perozzi.com.ar/fundas/funda-a23">Funda A23</a></h2>
	<span class="product-price">$4.999,90</span>
	<img class="img-fluid" src="https://www.perozzi.com.ar/img/funda.jpg"/>
</div>
</body></html>`

func TestPerozziQueryEncoding(t *testing.T) {
	fetcher := &stubFetcher{html: perozziFixture}
	adapter := NewPerozzi("celular samsung a23", fetcher, slog.Default())

	_, err := adapter.FetchResults(context.Background())
	require.NoError(t, err)

	assert.Contains(t, fetcher.lastURL, "s=celular+samsung+a23")
	assert.Contains(t, fetcher.lastURL, "perozzi.com.ar/module/iqitsearch/searchiqit")
}

func TestPerozziParseResults(t *testing.T) {
	adapter := NewPerozzi("celular", &stubFetcher{}, slog.Default())

	products, err := adapter.ParseResults(perozziFixture)
	require.NoError(t, err)
	require.Len(t, products, 2)

	first := products[0]
	assert.Equal(t, "Samsung Galaxy A23", first.Name)
	assert.Equal(t, 275500.00, first.Price)
	assert.Equal(t, "https://www.perozzi.com.ar/celulares/samsung-a23", first.URL)

	// Lazy-loaded images carry the real URL in data-src.
	assert.Equal(t, "https://www.perozzi.com.ar/img/a23.jpg", first.ImageURL)
	// Without data-src the plain src attribute is used.
	assert.Equal(t, "https://www.perozzi.com.ar/img/funda.jpg", products[1].ImageURL)
}

func TestPerozziNoContainersIsStructuralFailure(t *testing.T) {
	adapter := NewPerozzi("celular", &stubFetcher{}, slog.Default())

	_, err := adapter.ParseResults(`<html><body><p>mantenimiento</p></body></html>`)

	var scraperErr *ScraperError
	require.True(t, errors.As(err, &scraperErr))
	assert.Equal(t, "perozzi", scraperErr.Site)
	assert.Equal(t, "elements not found", scraperErr.Message)
}

func TestNewAdapterRegistry(t *testing.T) {
	fetcher := &stubFetcher{}
	renderer := &stubRenderer{}

	for _, store := range Stores() {
		adapter, err := NewAdapter(store, "query", fetcher, renderer, slog.Default())
		require.NoError(t, err)
		assert.Equal(t, store, adapter.Site())
	}

	_, err := NewAdapter("mercadolibre", "query", fetcher, renderer, slog.Default())
	assert.Error(t, err)
}
