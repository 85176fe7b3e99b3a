// Package scraper implements the three-stage catalog harvest: categories from
// the site root, product links per category, then per-product detail rows.
// Every stage fetches through one shared authenticated session and probes the
// returned markup with ordered selector fallbacks, so a partially redesigned
// page degrades the output instead of breaking the run.
package scraper

import (
	"log/slog"
	"net/url"
	"time"

	"github.com/maltedev/luluka-scraper/internal/fetch"
)

// ProgressFunc receives stage progress as the pipeline runs. current/total
// are item counts within the stage; total may be zero when unknown.
type ProgressFunc func(stage string, current, total int, message string)

type Options struct {
	BaseURL string
	// Delay is the courtesy pause inserted after each category and each
	// product fetch. It is unconditional, not a backoff.
	Delay      time.Duration
	OnProgress ProgressFunc
}

// Service runs the pipeline stages. It owns no mutable state beyond the
// session hidden inside the fetcher; stages communicate only through their
// returned record sets.
type Service struct {
	fetcher    *fetch.Fetcher
	baseURL    string
	delay      time.Duration
	onProgress ProgressFunc
	logger     *slog.Logger
}

func NewService(fetcher *fetch.Fetcher, opts Options, logger *slog.Logger) *Service {
	return &Service{
		fetcher:    fetcher,
		baseURL:    opts.BaseURL,
		delay:      opts.Delay,
		onProgress: opts.OnProgress,
		logger:     logger.With("component", "scraper"),
	}
}

func (s *Service) progress(stage string, current, total int, message string) {
	if s.onProgress != nil {
		s.onProgress(stage, current, total, message)
	}
}

func (s *Service) pause() {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
}

// resolveURL makes a possibly relative href absolute against the site base.
func (s *Service) resolveURL(href string) string {
	base, err := url.Parse(s.baseURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
