package scraper

import (
	"fmt"
	"strconv"
	"strings"
)

// ParsePrice converts a localized Latin-American currency string into a
// plain decimal: "$ 123.456,78" -> 123456.78. The dot is a thousands
// separator and the comma is the decimal separator. A residual that is
// not numeric after stripping, or a negative amount, is a parse failure
// rather than a zero price.
func ParsePrice(site, text string) (float64, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	cleaned = strings.TrimSpace(cleaned)
	cleaned = strings.ReplaceAll(cleaned, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")

	if cleaned == "" {
		return 0, &ParseFieldError{Site: site, Field: "price"}
	}

	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, &ParseFieldError{Site: site, Field: "price", Err: fmt.Errorf("malformed amount %q", text)}
	}

	if price < 0 {
		return 0, &ParseFieldError{Site: site, Field: "price", Err: fmt.Errorf("negative amount %q", text)}
	}

	return price, nil
}
