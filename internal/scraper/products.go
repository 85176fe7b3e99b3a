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

var productIDRe = regexp.MustCompile(`idproducte=([^&]+)`)

// ExtractProductList enumerates product detail links for each category. A
// non-empty onlyCategories restricts the pass to categories with those names.
// A category whose page cannot be fetched is skipped whole. Deduplication by
// absolute URL is global across the run, not per category.
func (s *Service) ExtractProductList(ctx context.Context, categories []models.Category, onlyCategories []string) []models.ProductRef {
	if len(onlyCategories) > 0 {
		categories = filterCategories(categories, onlyCategories)
	}

	s.logger.Info("extracting product list", "categories", len(categories))

	var products []models.ProductRef
	seen := make(map[string]bool)

	for i, category := range categories {
		s.progress("products", i, len(categories), fmt.Sprintf("procesando categoría: %s", category.Name))
		s.logger.Info("processing category", "name", category.Name, "url", category.URL)

		doc, err := s.fetcher.Fetch(ctx, category.URL)
		if err != nil {
			continue
		}

		items := probe.First(doc, productListProbes)
		if items == nil {
			s.logger.Info("no product links found", "category", category.Name)
			s.pause()
			continue
		}

		found := 0
		items.Each(func(_ int, item *goquery.Selection) {
			href, _ := item.Attr("href")
			if !containsMarker(href, productURLMarker) {
				return
			}

			fullURL := s.resolveURL(href)
			if seen[fullURL] {
				return
			}
			seen[fullURL] = true

			products = append(products, models.ProductRef{
				Category: category.Name,
				Name:     productName(item, href),
				URL:      fullURL,
			})
			found++
		})

		s.logger.Info("category processed", "name", category.Name, "products", found)
		s.pause()
	}

	s.logger.Info("product list extracted", "count", len(products))
	s.progress("products", len(categories), len(categories), fmt.Sprintf("%d productos encontrados", len(products)))

	return products
}

// productName derives a display name for a product anchor: the anchor's own
// text, else a title-ish sibling under its parent, else a name synthesized
// from the id parameter.
func productName(item *goquery.Selection, href string) string {
	if name := probe.CleanText(item.Text()); name != "" {
		return name
	}

	parent := item.Parent()
	if sel := probe.First(parent, productNameProbes); sel != nil {
		if name := probe.CleanText(sel.First().Text()); name != "" {
			return name
		}
	}

	if m := productIDRe.FindStringSubmatch(href); m != nil {
		return "Producto " + m[1]
	}
	return unnamedProduct
}

func filterCategories(categories []models.Category, names []string) []models.Category {
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	var filtered []models.Category
	for _, c := range categories {
		if wanted[c.Name] {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

func containsMarker(href, marker string) bool {
	return strings.Contains(href, marker)
}
