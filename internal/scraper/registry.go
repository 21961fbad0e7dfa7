package scraper

import (
	"fmt"
	"log/slog"
)

// Stores lists the adapter identifiers this build knows about.
func Stores() []string {
	return []string{"fravega", "garbarino", "perozzi"}
}

// NewAdapter constructs the adapter for a store from the raw query
// string. Every adapter is built through the same signature; the store
// decides which fetch lane it gets.
func NewAdapter(store, query string, fetcher Fetcher, renderer PageRenderer, logger *slog.Logger) (Adapter, error) {
	switch store {
	case "fravega":
		return NewFravega(query, fetcher, logger), nil
	case "garbarino":
		return NewGarbarino(query, renderer, logger), nil
	case "perozzi":
		return NewPerozzi(query, fetcher, logger), nil
	default:
		return nil, fmt.Errorf("unknown store %q", store)
	}
}
