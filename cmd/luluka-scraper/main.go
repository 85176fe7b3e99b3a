package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"strings"

	"github.com/maltedev/luluka-scraper/internal/auth"
	"github.com/maltedev/luluka-scraper/internal/config"
	"github.com/maltedev/luluka-scraper/internal/export"
	"github.com/maltedev/luluka-scraper/internal/fetch"
	"github.com/maltedev/luluka-scraper/internal/models"
	"github.com/maltedev/luluka-scraper/internal/scraper"
	"github.com/maltedev/luluka-scraper/internal/session"
)

func main() {
	output := flag.String("output", "", "path of the XLSX export (defaults to EXPORT_FILENAME)")
	jsonOut := flag.Bool("json", false, "also write a timestamped JSON export")
	maxProducts := flag.Int("max-products", 0, "limit detail extraction to the first N products (0 = all)")
	categories := flag.String("categories", "", "comma-separated category names to restrict the run to")
	useAuth := flag.Bool("auth", false, "log in first using LULUKA_USERNAME / LULUKA_PASSWORD")
	logLevel := flag.String("loglevel", "info", "log level (debug, info, warn, error)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx := context.Background()

	sess, err := session.New(session.Options{
		UserAgent:      cfg.Site.UserAgent,
		AcceptLanguage: cfg.Site.AcceptLanguage,
		Timeout:        cfg.Scraper.HTTPTimeout,
	})
	if err != nil {
		logger.Error("failed to create session", "error", err)
		os.Exit(1)
	}

	if *useAuth {
		username := os.Getenv("LULUKA_USERNAME")
		password := os.Getenv("LULUKA_PASSWORD")
		if username == "" || password == "" {
			logger.Error("LULUKA_USERNAME and LULUKA_PASSWORD must be set with -auth")
			os.Exit(1)
		}

		authenticator := auth.New(sess, cfg.Site.BaseURL, cfg.Site.LoginPath, logger)
		if !authenticator.Login(ctx, username, password) {
			logger.Error("login failed, aborting run")
			os.Exit(1)
		}
	}

	fetcher := fetch.New(sess, logger)
	service := scraper.NewService(fetcher, scraper.Options{
		BaseURL: cfg.Site.BaseURL,
		Delay:   cfg.Scraper.Delay,
	}, logger)

	var onlyCategories []string
	if *categories != "" {
		for _, name := range strings.Split(*categories, ",") {
			if name = strings.TrimSpace(name); name != "" {
				onlyCategories = append(onlyCategories, name)
			}
		}
	}

	limit := *maxProducts
	if limit == 0 {
		limit = cfg.Scraper.MaxProducts
	}

	result := &models.Result{}
	result.Categories = service.ExtractCategories(ctx)
	logger.Info("stage finished", "stage", "categories", "count", len(result.Categories))

	result.Products = service.ExtractProductList(ctx, result.Categories, onlyCategories)
	logger.Info("stage finished", "stage", "products", "count", len(result.Products))

	result.Details = service.ExtractProductDetails(ctx, result.Products, limit)
	logger.Info("stage finished", "stage", "details", "rows", len(result.Details))

	path := *output
	if path == "" {
		path = cfg.Export.DefaultFilename
	}

	if err := export.WriteXLSX(result, path); err != nil {
		logger.Error("failed to write workbook", "path", path, "error", err)
		os.Exit(1)
	}
	logger.Info("workbook written", "path", path)

	if *jsonOut {
		jsonPath, err := export.WriteJSON(result, cfg.Export.OutputDir)
		if err != nil {
			logger.Error("failed to write JSON export", "error", err)
			os.Exit(1)
		}
		logger.Info("JSON export written", "path", jsonPath)
	}
}
