package scraper

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/maltedev/luluka-scraper/internal/models"
	"github.com/maltedev/luluka-scraper/internal/probe"
)

var (
	digitRe    = regexp.MustCompile(`\d`)
	nonPriceRe = regexp.MustCompile(`[^\d,.]`)
)

// ExtractProductDetails fetches each referenced product page and emits one
// detail row per variant, or a single row when no variant structure is found.
// maxCount > 0 truncates the input to its first maxCount entries before any
// fetching, bounding request volume for exploratory runs. Products whose page
// cannot be fetched are skipped whole.
func (s *Service) ExtractProductDetails(ctx context.Context, products []models.ProductRef, maxCount int) []models.ProductDetail {
	if maxCount > 0 && maxCount < len(products) {
		s.logger.Info("limiting detail extraction", "max", maxCount, "total", len(products))
		products = products[:maxCount]
	}

	s.logger.Info("extracting product details", "products", len(products))

	var details []models.ProductDetail

	for i, product := range products {
		s.progress("details", i, len(products), fmt.Sprintf("procesando producto: %s", product.Name))
		s.logger.Info("processing product", "name", product.Name, "url", product.URL)

		doc, err := s.fetcher.Fetch(ctx, product.URL)
		if err != nil {
			continue
		}

		details = append(details, s.extractDetail(doc, product)...)
		s.pause()
	}

	s.logger.Info("product details extracted", "rows", len(details))
	s.progress("details", len(products), len(products), fmt.Sprintf("%d filas extraídas", len(details)))

	return details
}

// extractDetail turns one product page into its detail rows.
func (s *Service) extractDetail(doc *goquery.Document, product models.ProductRef) []models.ProductDetail {
	ref := referenceID(product.URL)

	productType := ""
	if sel := probe.First(doc, productTypeProbes); sel != nil {
		productType = probe.CleanText(sel.First().Text())
	}
	if productType == "" {
		productType = variantsLabel
	}

	price := firstPrice(doc, priceProbes, askPriceSentinel)

	availability := ""
	if sel := probe.First(doc, availabilityProbes); sel != nil {
		availability = probe.CleanText(sel.First().Text())
	}

	description := extractDescription(doc)

	variants := probe.First(doc, variantProbes)
	if variants == nil {
		return []models.ProductDetail{{
			Category:     product.Category,
			Ref:          ref,
			Product:      product.Name,
			VariantName:  product.Name,
			Price:        price,
			Availability: availability,
			Description:  description,
			URL:          product.URL,
		}}
	}

	var rows []models.ProductDetail
	variants.Each(func(_ int, variant *goquery.Selection) {
		name := standardVariant
		if sel := probe.First(variant, variantNameProbes); sel != nil {
			if t := probe.CleanText(sel.First().Text()); t != "" {
				name = t
			}
		}

		rows = append(rows, models.ProductDetail{
			Category:     product.Category,
			Ref:          ref,
			Product:      product.Name,
			Type:         productType,
			VariantName:  name,
			VariantGroup: variantsLabel,
			Price:        firstPrice(variant, variantPriceProbes, price),
			Availability: availability,
			Description:  description,
			URL:          product.URL,
		})
	})

	return rows
}

// referenceID parses the product reference out of the URL's id parameter.
func referenceID(url string) string {
	if m := productIDRe.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	return noReferenceSentinel
}

// firstPrice probes for a price, accepting only a match whose leading element
// contains a digit, and falls back to the given default. Only the first
// element of a match set is considered: a probe whose first hit is digit-free
// is a miss even if a later sibling would qualify.
func firstPrice(scope probe.Scope, probes []probe.Probe, fallback string) string {
	sel := probe.FirstFunc(scope, probes, func(s *goquery.Selection) bool {
		return digitRe.MatchString(s.First().Text())
	})
	if sel == nil {
		return fallback
	}
	return normalizePrice(sel.First().Text())
}

// normalizePrice strips everything but digits, comma, and period, drops
// separators picked up from surrounding prose, and appends the currency
// symbol.
func normalizePrice(text string) string {
	stripped := nonPriceRe.ReplaceAllString(text, "")
	stripped = strings.Trim(stripped, ",.")
	return stripped + currencySymbol
}

// extractDescription tries the description probes from most specific down to
// bare paragraphs, returning the first probe's matches whose concatenated
// text is non-empty.
func extractDescription(doc *goquery.Document) string {
	sel := probe.FirstFunc(doc, descriptionProbes, func(s *goquery.Selection) bool {
		return probe.JoinText(s) != ""
	})
	if sel == nil {
		return ""
	}
	return probe.JoinText(sel)
}
