package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/maisonnat/GauchoAPI/internal/models"
)

const garbarinoBaseURL = "https://www.garbarino.com"

// Garbarino scrapes garbarino.com, a VTEX storefront that fills the
// result grid from client-side script. Fetching goes through the
// rendered-browser lane and bypasses the page cache.
//
// VTEX splits the price into digit-group spans rather than printing one
// localized string, so the amount is reassembled span by span instead
// of going through ParsePrice.
type Garbarino struct {
	query    string
	renderer PageRenderer
	logger   *slog.Logger
}

func NewGarbarino(query string, renderer PageRenderer, logger *slog.Logger) *Garbarino {
	g := &Garbarino{
		renderer: renderer,
		logger:   logger.With("store", "garbarino"),
	}
	g.query = g.FormatQuery(query)
	return g
}

func (g *Garbarino) Site() string {
	return "garbarino"
}

func (g *Garbarino) FormatQuery(raw string) string {
	return strings.ReplaceAll(raw, " ", "%20")
}

func (g *Garbarino) SearchURL() string {
	return fmt.Sprintf("%s/%s?_q=%s&map=ft", garbarinoBaseURL, g.query, g.query)
}

func (g *Garbarino) FetchResults(ctx context.Context) (string, error) {
	html, err := g.renderer.Render(ctx, g.SearchURL())
	if err != nil {
		return "", &TransportError{URL: g.SearchURL(), Err: err}
	}
	return html, nil
}

func (g *Garbarino) ParseResults(html string) ([]models.Product, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &ScraperError{Site: g.Site(), Message: fmt.Sprintf("invalid markup: %v", err)}
	}

	containers := doc.Find("section.vtex-product-summary-2-x-container")
	if containers.Length() == 0 {
		return nil, &ScraperError{Site: g.Site(), Message: "elements not found"}
	}

	g.logger.Info("result containers found", "count", containers.Length())

	var products []models.Product
	containers.Each(func(_ int, sel *goquery.Selection) {
		product, err := g.parseContainer(sel)
		if err != nil {
			g.logger.Warn("skipping result", "error", err)
			return
		}
		products = append(products, product)
	})

	return products, nil
}

func (g *Garbarino) parseContainer(sel *goquery.Selection) (models.Product, error) {
	href, ok := sel.Find("a.vtex-product-summary-2-x-clearLink").First().Attr("href")
	if !ok || href == "" {
		return models.Product{}, &ParseFieldError{Site: g.Site(), Field: "url"}
	}

	price, err := g.parsePrice(sel)
	if err != nil {
		return models.Product{}, err
	}

	image := sel.Find("img.vtex-product-summary-2-x-imageNormal").First()
	imageURL, ok := image.Attr("src")
	if !ok || imageURL == "" {
		return models.Product{}, &ParseFieldError{Site: g.Site(), Field: "image_url"}
	}

	name, _ := image.Attr("alt")
	name = strings.TrimSpace(name)
	if name == "" {
		name = strings.TrimSpace(sel.Find("h2, h3").First().Text())
	}
	if name == "" {
		return models.Product{}, &ParseFieldError{Site: g.Site(), Field: "name"}
	}

	return models.Product{
		Name:     name,
		Price:    price,
		URL:      garbarinoBaseURL + href,
		ImageURL: imageURL,
	}, nil
}

func (g *Garbarino) parsePrice(sel *goquery.Selection) (float64, error) {
	priceEl := sel.Find("span.vtex-product-price-1-x-sellingPrice").First()
	if priceEl.Length() == 0 {
		return 0, &ParseFieldError{Site: g.Site(), Field: "price"}
	}

	var integerPart strings.Builder
	priceEl.Find("span.vtex-product-price-1-x-currencyInteger").Each(func(_ int, span *goquery.Selection) {
		integerPart.WriteString(strings.TrimSpace(span.Text()))
	})
	if integerPart.Len() == 0 {
		return 0, &ParseFieldError{Site: g.Site(), Field: "price"}
	}

	fraction := strings.TrimSpace(priceEl.Find("span.vtex-product-price-1-x-currencyFraction").First().Text())
	if fraction == "" {
		fraction = "00"
	}

	price, err := strconv.ParseFloat(integerPart.String()+"."+fraction, 64)
	if err != nil || price < 0 {
		return 0, &ParseFieldError{Site: g.Site(), Field: "price", Err: fmt.Errorf("malformed amount %q.%q", integerPart.String(), fraction)}
	}

	return price, nil
}
