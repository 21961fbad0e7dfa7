package scraper

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	html    string
	err     error
	lastURL string
}

func (s *stubFetcher) Fetch(_ context.Context, url string) (string, error) {
	s.lastURL = url
	if s.err != nil {
		return "", s.err
	}
	return s.html, nil
}

const fravegaFixture = `<!DOCTYPE html>
<html><body>
<article data-test-id="result-item">
	<a href="/p/celular-samsung-a23-123"></a>
	<span class="sc-6321a7c8-0"> Celular Samsung Galaxy A23 128GB </span>
	<span class="sc-ad64037f-0">$ 289.999,00</span>
	<img class="sc-3c31b0ed-0" src="https://images.fravega.com/a23.jpg"/>
</article>
<article data-test-id="result-item">
	<a href="/p/celular-samsung-a23-funda-456"></a>
	<span class="sc-6321a7c8-0">Funda Samsung A23</span>
	<span class="sc-ad64037f-0">$9.999,50</span>
	<img class="sc-3c31b0ed-0" src="https://images.fravega.com/funda.jpg"/>
</article>
</body></html>`

func TestFravegaQueryEncoding(t *testing.T) {
	fetcher := &stubFetcher{html: fravegaFixture}
	adapter := NewFravega("celular samsung a23", fetcher, slog.Default())

	_, err := adapter.FetchResults(context.Background())
	require.NoError(t, err)

	assert.Contains(t, fetcher.lastURL, "celular%20samsung%20a23")
	assert.Contains(t, fetcher.lastURL, "https://www.fravega.com/l/?keyword=")
}

func TestFravegaParseResults(t *testing.T) {
	adapter := NewFravega("celular samsung a23", &stubFetcher{}, slog.Default())

	products, err := adapter.ParseResults(fravegaFixture)
	require.NoError(t, err)
	require.Len(t, products, 2)

	first := products[0]
	assert.Equal(t, "Celular Samsung Galaxy A23 128GB", first.Name)
	assert.Equal(t, 289999.00, first.Price)
	assert.Equal(t, "https://www.fravega.com/p/celular-samsung-a23-123", first.URL)
	assert.Equal(t, "https://images.fravega.com/a23.jpg", first.ImageURL)

	assert.Equal(t, 9999.50, products[1].Price)

	for _, p := range products {
		assert.True(t, p.IsComplete())
	}
}

func TestFravegaNoContainersIsStructuralFailure(t *testing.T) {
	adapter := NewFravega("celular", &stubFetcher{}, slog.Default())

	_, err := adapter.ParseResults(`<html><body><div>nothing here</div></body></html>`)

	var scraperErr *ScraperError
	require.True(t, errors.As(err, &scraperErr))
	assert.Equal(t, "fravega", scraperErr.Site)
	assert.Equal(t, "elements not found", scraperErr.Message)
}

func TestFravegaSkipsBrokenContainer(t *testing.T) {
	html := `<html><body>
	<article data-test-id="result-item">
		<a href="/p/ok"></a>
		<span class="sc-6321a7c8-0">Producto OK</span>
		<span class="sc-ad64037f-0">$ 1.000,00</span>
		<img class="sc-3c31b0ed-0" src="https://images.fravega.com/ok.jpg"/>
	</article>
	<article data-test-id="result-item">
		<a href="/p/sin-precio"></a>
		<span class="sc-6321a7c8-0">Producto sin precio</span>
		<span class="sc-ad64037f-0">consultar</span>
		<img class="sc-3c31b0ed-0" src="https://images.fravega.com/x.jpg"/>
	</article>
	</body></html>`

	adapter := NewFravega("celular", &stubFetcher{}, slog.Default())

	products, err := adapter.ParseResults(html)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Producto OK", products[0].Name)
}
