package models

import (
	"time"
)

// Product is one search result normalized into the shape every store
// adapter emits and the database stores. URL is the natural key: the
// store never holds more than one row per URL.
type Product struct {
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	URL       string    `json:"url"`
	ImageURL  string    `json:"image_url"`
	Timestamp time.Time `json:"timestamp"`
}

// IsComplete reports whether every field required for persistence is
// populated. Adapters must not emit partial records downstream.
func (p *Product) IsComplete() bool {
	return p.Name != "" && p.URL != "" && p.ImageURL != "" && p.Price >= 0
}
