package scraper

import (
	"context"
)

// Fetcher retrieves raw markup over plain HTTP. Satisfied by the fetch
// client.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// PageRenderer retrieves markup through a headless browser for sites
// that only populate their result grid from client-side script.
// Satisfied by the browser renderer.
type PageRenderer interface {
	Render(ctx context.Context, url string) (string, error)
}
