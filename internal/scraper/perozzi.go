package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/maisonnat/GauchoAPI/internal/models"
)

const perozziSearchURL = "https://www.perozzi.com.ar/module/iqitsearch/searchiqit?order=product.position.desc&resultsPerPage=9999999&s=%s"

// Perozzi scrapes perozzi.com.ar, a PrestaShop storefront. Results come
// back server-side rendered through the iqitsearch module, so the
// cached HTTP lane applies. Product URLs in the listing are already
// absolute. The query encoding uses "+" for spaces, unlike the other
// stores.
type Perozzi struct {
	query   string
	fetcher Fetcher
	logger  *slog.Logger
}

func NewPerozzi(query string, fetcher Fetcher, logger *slog.Logger) *Perozzi {
	p := &Perozzi{
		fetcher: fetcher,
		logger:  logger.With("store", "perozzi"),
	}
	p.query = p.FormatQuery(query)
	return p
}

func (p *Perozzi) Site() string {
	return "perozzi"
}

func (p *Perozzi) FormatQuery(raw string) string {
	return strings.ReplaceAll(raw, " ", "+")
}

func (p *Perozzi) SearchURL() string {
	return fmt.Sprintf(perozziSearchURL, p.query)
}

func (p *Perozzi) FetchResults(ctx context.Context) (string, error) {
	return p.fetcher.Fetch(ctx, p.SearchURL())
}

func (p *Perozzi) ParseResults(html string) ([]models.Product, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &ScraperError{Site: p.Site(), Message: fmt.Sprintf("invalid markup: %v", err)}
	}

	containers := doc.Find("div.js-product-miniature-wrapper")
	if containers.Length() == 0 {
		return nil, &ScraperError{Site: p.Site(), Message: "elements not found"}
	}

	p.logger.Info("result containers found", "count", containers.Length())

	var products []models.Product
	containers.Each(func(_ int, sel *goquery.Selection) {
		product, err := p.parseContainer(sel)
		if err != nil {
			p.logger.Warn("skipping result", "error", err)
			return
		}
		products = append(products, product)
	})

	return products, nil
}

func (p *Perozzi) parseContainer(sel *goquery.Selection) (models.Product, error) {
	title := sel.Find("h2.product-title").First()
	name := strings.TrimSpace(title.Text())
	if name == "" {
		return models.Product{}, &ParseFieldError{Site: p.Site(), Field: "name"}
	}

	href, ok := title.Find("a").First().Attr("href")
	if !ok || href == "" {
		return models.Product{}, &ParseFieldError{Site: p.Site(), Field: "url"}
	}

	price, err := ParsePrice(p.Site(), sel.Find("span.product-price").First().Text())
	if err != nil {
		return models.Product{}, err
	}

	img := sel.Find("img.img-fluid").First()
	imageURL, ok := img.Attr("data-src")
	if !ok || imageURL == "" {
		imageURL, ok = img.Attr("src")
	}
	if !ok || imageURL == "" {
		return models.Product{}, &ParseFieldError{Site: p.Site(), Field: "image_url"}
	}

	return models.Product{
		Name:     name,
		Price:    price,
		URL:      href,
		ImageURL: imageURL,
	}, nil
}
