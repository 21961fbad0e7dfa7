// Package scraper holds the per-store adapters: each one knows how to
// encode a search query for its site, fetch the results page, and parse
// the markup into product records. Everything else (caching, retries,
// persistence, notifications) lives in the shared pipeline around them.
package scraper

import (
	"context"

	"github.com/maisonnat/GauchoAPI/internal/models"
)

// Adapter is the per-site capability set. Implementations are
// constructed from the raw query string via their New* constructor and
// are single-use: one adapter value serves one run.
type Adapter interface {
	// Site returns the adapter identifier used in logs, errors and
	// API responses.
	Site() string

	// FormatQuery applies the site's own query encoding. Encodings
	// differ per site and must not be assumed uniform.
	FormatQuery(raw string) string

	// SearchURL builds the site's search URL for the formatted query.
	SearchURL() string

	// FetchResults retrieves the raw results markup, through the cached
	// HTTP client or a rendered browser session depending on the site.
	// Fails with *TransportError.
	FetchResults(ctx context.Context) (string, error)

	// ParseResults extracts product records from the markup. Zero
	// matching containers fails with *ScraperError; individual broken
	// containers are skipped.
	ParseResults(html string) ([]models.Product, error)
}
