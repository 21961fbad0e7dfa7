package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/maisonnat/GauchoAPI/internal/models"
)

const fravegaBaseURL = "https://www.fravega.com"

// Fravega scrapes fravega.com search results. The site renders the
// full result grid server-side, so a plain cached GET is enough.
type Fravega struct {
	query   string
	fetcher Fetcher
	logger  *slog.Logger
}

func NewFravega(query string, fetcher Fetcher, logger *slog.Logger) *Fravega {
	f := &Fravega{
		fetcher: fetcher,
		logger:  logger.With("store", "fravega"),
	}
	f.query = f.FormatQuery(query)
	return f
}

func (f *Fravega) Site() string {
	return "fravega"
}

func (f *Fravega) FormatQuery(raw string) string {
	return strings.ReplaceAll(raw, " ", "%20")
}

func (f *Fravega) SearchURL() string {
	return fmt.Sprintf("%s/l/?keyword=%s", fravegaBaseURL, f.query)
}

func (f *Fravega) FetchResults(ctx context.Context) (string, error) {
	return f.fetcher.Fetch(ctx, f.SearchURL())
}

func (f *Fravega) ParseResults(html string) ([]models.Product, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &ScraperError{Site: f.Site(), Message: fmt.Sprintf("invalid markup: %v", err)}
	}

	containers := doc.Find("article[data-test-id='result-item']")
	if containers.Length() == 0 {
		return nil, &ScraperError{Site: f.Site(), Message: "elements not found"}
	}

	f.logger.Info("result containers found", "count", containers.Length())

	var products []models.Product
	containers.Each(func(_ int, sel *goquery.Selection) {
		product, err := f.parseContainer(sel)
		if err != nil {
			f.logger.Warn("skipping result", "error", err)
			return
		}
		products = append(products, product)
	})

	return products, nil
}

func (f *Fravega) parseContainer(sel *goquery.Selection) (models.Product, error) {
	name := strings.TrimSpace(sel.Find("span.sc-6321a7c8-0").First().Text())
	if name == "" {
		return models.Product{}, &ParseFieldError{Site: f.Site(), Field: "name"}
	}

	price, err := ParsePrice(f.Site(), sel.Find("span.sc-ad64037f-0").First().Text())
	if err != nil {
		return models.Product{}, err
	}

	href, ok := sel.Find("a").First().Attr("href")
	if !ok || href == "" {
		return models.Product{}, &ParseFieldError{Site: f.Site(), Field: "url"}
	}

	imageURL, ok := sel.Find("img.sc-3c31b0ed-0").First().Attr("src")
	if !ok || imageURL == "" {
		return models.Product{}, &ParseFieldError{Site: f.Site(), Field: "image_url"}
	}

	return models.Product{
		Name:     name,
		Price:    price,
		URL:      fravegaBaseURL + href,
		ImageURL: imageURL,
	}, nil
}
