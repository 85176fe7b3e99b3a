package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Site    SiteConfig
	Scraper ScraperConfig
	Server  ServerConfig
	Export  ExportConfig
	Logging LoggingConfig
}

type SiteConfig struct {
	BaseURL        string
	LoginPath      string
	UserAgent      string
	AcceptLanguage string
}

type ScraperConfig struct {
	Delay       time.Duration
	HTTPTimeout time.Duration
	MaxProducts int
}

type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type ExportConfig struct {
	OutputDir       string
	DefaultFilename string
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	cfg := &Config{
		Site: SiteConfig{
			BaseURL:        getEnvOrDefault("LULUKA_BASE_URL", "https://www.lulukabaraka.com/"),
			LoginPath:      getEnvOrDefault("LULUKA_LOGIN_PATH", "login.aspx"),
			UserAgent:      getEnvOrDefault("SCRAPER_USER_AGENT", defaultUserAgent),
			AcceptLanguage: getEnvOrDefault("SCRAPER_ACCEPT_LANGUAGE", "es-ES,es;q=0.9"),
		},
		Scraper: ScraperConfig{
			Delay:       getDurationOrDefault("SCRAPER_DELAY", 1*time.Second),
			HTTPTimeout: getDurationOrDefault("SCRAPER_HTTP_TIMEOUT", 30*time.Second),
			MaxProducts: getIntOrDefault("SCRAPER_MAX_PRODUCTS", 0),
		},
		Server: ServerConfig{
			Host:            getEnvOrDefault("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvOrDefault("SERVER_PORT", "8080"),
			ReadTimeout:     getDurationOrDefault("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationOrDefault("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getDurationOrDefault("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Export: ExportConfig{
			OutputDir:       getEnvOrDefault("EXPORT_OUTPUT_DIR", "output"),
			DefaultFilename: getEnvOrDefault("EXPORT_FILENAME", "Luluka_Scraping_Result.xlsx"),
		},
		Logging: LoggingConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "text"),
		},
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Site.BaseURL == "" {
		return fmt.Errorf("LULUKA_BASE_URL must not be empty")
	}

	if c.Scraper.Delay < 0 {
		return fmt.Errorf("SCRAPER_DELAY must not be negative")
	}

	if c.Scraper.MaxProducts < 0 {
		return fmt.Errorf("SCRAPER_MAX_PRODUCTS must not be negative")
	}

	return nil
}

// Matches the browser the site was probed with; changing it changes which
// markup variant the server responds with.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
