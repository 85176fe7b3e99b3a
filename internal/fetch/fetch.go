package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/PuerkitoBio/goquery"
	"github.com/maltedev/luluka-scraper/internal/session"
)

// Fetcher retrieves pages through the shared session and parses them into
// queryable documents. Failures are returned, not raised: a stage that cannot
// fetch a page logs it and moves on.
type Fetcher struct {
	session *session.Client
	logger  *slog.Logger
}

func New(sess *session.Client, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		session: sess,
		logger:  logger.With("component", "fetcher"),
	}
}

// Fetch GETs a URL and parses the body. A transport error or non-2xx status
// yields a nil document and a non-nil error.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	resp, err := f.session.Get(ctx, url)
	if err != nil {
		f.logger.Warn("fetch failed", "url", url, "error", err)
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		f.logger.Warn("fetch failed", "url", url, "status", resp.StatusCode)
		return nil, fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, url)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		f.logger.Warn("parse failed", "url", url, "error", err)
		return nil, fmt.Errorf("failed to parse %s: %w", url, err)
	}

	return doc, nil
}
