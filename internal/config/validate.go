package config

import (
	"fmt"
	"net/url"
)

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	if cfg.Scraper.MaxReviews < 0 {
		return fmt.Errorf("scraper.max_reviews must be >= 0, got %d", cfg.Scraper.MaxReviews)
	}
	if cfg.Scraper.PageTimeout <= 0 {
		return fmt.Errorf("scraper.page_timeout must be > 0")
	}
	if cfg.Scraper.FindTimeout <= 0 {
		return fmt.Errorf("scraper.find_timeout must be > 0")
	}
	if cfg.Scraper.LoadMoreRounds < 0 {
		return fmt.Errorf("scraper.load_more_rounds must be >= 0, got %d", cfg.Scraper.LoadMoreRounds)
	}
	if cfg.Scraper.PolitenessDelay < 0 {
		return fmt.Errorf("scraper.politeness_delay must be >= 0")
	}

	if cfg.AI.Enabled {
		if cfg.AI.Provider != "gemini" && cfg.AI.Provider != "custom" {
			return fmt.Errorf("ai.provider must be 'gemini' or 'custom', got %q", cfg.AI.Provider)
		}
		if cfg.AI.Provider == "custom" && cfg.AI.Endpoint == "" {
			return fmt.Errorf("ai.endpoint is required when ai.provider is 'custom'")
		}
		if cfg.AI.MaxPromptReviews < 1 {
			return fmt.Errorf("ai.max_prompt_reviews must be >= 1, got %d", cfg.AI.MaxPromptReviews)
		}
	}

	if cfg.Extract.PriceAggregation != "first" && cfg.Extract.PriceAggregation != "max" {
		return fmt.Errorf("extract.price_aggregation must be 'first' or 'max', got %q", cfg.Extract.PriceAggregation)
	}

	validBackends := map[string]bool{
		"file": true, "mongo": true, "both": true,
	}
	if !validBackends[cfg.Storage.Backend] {
		return fmt.Errorf("storage.backend %q is not supported (valid: file, mongo, both)", cfg.Storage.Backend)
	}
	if cfg.Storage.Backend != "file" && cfg.Storage.MongoURI == "" {
		return fmt.Errorf("storage.mongo_uri is required for backend %q", cfg.Storage.Backend)
	}

	validFormats := map[string]bool{
		"json": true, "csv": true, "xlsx": true,
	}
	if !validFormats[cfg.Export.Format] {
		return fmt.Errorf("export.format %q is not supported (valid: json, csv, xlsx)", cfg.Export.Format)
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", cfg.Logging.Format)
	}

	if cfg.Metrics.Enabled {
		if cfg.Metrics.Port < 1 || cfg.Metrics.Port > 65535 {
			return fmt.Errorf("metrics.port must be 1-65535, got %d", cfg.Metrics.Port)
		}
	}

	return nil
}

// ValidateURL checks if a URL string is usable as a product page URL.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}
