package scraper

import (
	"context"

	"github.com/PuerkitoBio/goquery"
	"github.com/maltedev/luluka-scraper/internal/models"
	"github.com/maltedev/luluka-scraper/internal/probe"
)

// Known-good categories used when probing the site root finds nothing, so a
// markup redesign degrades the run instead of emptying it.
var fallbackCategories = []models.Category{
	{Name: "Instalaciones", URL: "https://www.lulukabaraka.com/LlistatDeProductes.aspx?idcategoria=109"},
	{Name: "Aislamiento térmico", URL: "https://www.lulukabaraka.com/LlistatDeProductes.aspx?idcategoria=206"},
	{Name: "Inst. Agua", URL: "https://www.lulukabaraka.com/LlistatDeProductes.aspx?idcategoria=205"},
	{Name: "Inst. Eléctricas", URL: "https://www.lulukabaraka.com/LlistatDeProductes.aspx?idcategoria=204"},
}

// ExtractCategories enumerates catalog categories from the site root.
// Returns an empty list only when the root page itself cannot be fetched;
// when probing just finds no category anchors, the hardcoded fallback list is
// returned instead.
func (s *Service) ExtractCategories(ctx context.Context) []models.Category {
	s.logger.Info("extracting categories", "url", s.baseURL)
	s.progress("categories", 0, 0, "extracting categories")

	doc, err := s.fetcher.Fetch(ctx, s.baseURL)
	if err != nil {
		return nil
	}

	var categories []models.Category
	seen := make(map[string]bool)

	// The container probes are evaluated as one union so anchors come out in
	// document order rather than grouped by probe.
	doc.Find(probe.Union(categoryContainerProbes)).Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		if !containsMarker(href, categoryURLMarker) {
			return
		}

		fullURL := s.resolveURL(href)
		if seen[fullURL] {
			return
		}
		seen[fullURL] = true

		categories = append(categories, models.Category{
			Name: probe.CleanText(link.Text()),
			URL:  fullURL,
		})
	})

	if len(categories) == 0 {
		s.logger.Info("no categories found by probing, using predefined list")
		categories = append(categories, fallbackCategories...)
	}

	s.logger.Info("categories extracted", "count", len(categories))
	s.progress("categories", len(categories), len(categories), "categories extracted")

	return categories
}
