package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for the product analyzer.
type Config struct {
	Scraper Scraper `mapstructure:"scraper" yaml:"scraper"`
	Browser Browser `mapstructure:"browser" yaml:"browser"`
	AI      AI      `mapstructure:"ai"      yaml:"ai"`
	Extract Extract `mapstructure:"extract" yaml:"extract"`
	Storage Storage `mapstructure:"storage" yaml:"storage"`
	Export  Export  `mapstructure:"export"  yaml:"export"`
	Logging Logging `mapstructure:"logging" yaml:"logging"`
	Metrics Metrics `mapstructure:"metrics" yaml:"metrics"`
}

// Scraper controls the product scrape pipeline.
type Scraper struct {
	MaxReviews      int           `mapstructure:"max_reviews"      yaml:"max_reviews"`
	PageTimeout     time.Duration `mapstructure:"page_timeout"     yaml:"page_timeout"`
	FindTimeout     time.Duration `mapstructure:"find_timeout"     yaml:"find_timeout"`
	LoadMoreRounds  int           `mapstructure:"load_more_rounds" yaml:"load_more_rounds"`
	LoadMoreDelay   time.Duration `mapstructure:"load_more_delay"  yaml:"load_more_delay"`
	PolitenessDelay time.Duration `mapstructure:"politeness_delay" yaml:"politeness_delay"`
	UserAgent       string        `mapstructure:"user_agent"       yaml:"user_agent"`
}

// Browser controls the headless browser driver.
type Browser struct {
	Headless bool          `mapstructure:"headless" yaml:"headless"`
	Stealth  bool          `mapstructure:"stealth"  yaml:"stealth"`
	Timeout  time.Duration `mapstructure:"timeout"  yaml:"timeout"`
	BinPath  string        `mapstructure:"bin_path" yaml:"bin_path"`
}

// AI controls the generative-language enrichment client.
type AI struct {
	Enabled           bool          `mapstructure:"enabled"            yaml:"enabled"`
	Provider          string        `mapstructure:"provider"           yaml:"provider"`
	Model             string        `mapstructure:"model"              yaml:"model"`
	APIKey            string        `mapstructure:"api_key"            yaml:"api_key"`
	Endpoint          string        `mapstructure:"endpoint"           yaml:"endpoint"`
	ThemeTimeout      time.Duration `mapstructure:"theme_timeout"      yaml:"theme_timeout"`
	AnalysisTimeout   time.Duration `mapstructure:"analysis_timeout"   yaml:"analysis_timeout"`
	ComparisonTimeout time.Duration `mapstructure:"comparison_timeout" yaml:"comparison_timeout"`
	MaxPromptReviews  int           `mapstructure:"max_prompt_reviews" yaml:"max_prompt_reviews"`
}

// Extract controls field extraction defaults.
type Extract struct {
	DefaultCurrency  string `mapstructure:"default_currency"  yaml:"default_currency"`
	PriceAggregation string `mapstructure:"price_aggregation" yaml:"price_aggregation"` // first, max
}

// Storage controls persistence backends.
type Storage struct {
	Backend      string        `mapstructure:"backend"       yaml:"backend"` // file, mongo, both
	DataDir      string        `mapstructure:"data_dir"      yaml:"data_dir"`
	MongoURI     string        `mapstructure:"mongo_uri"     yaml:"mongo_uri"`
	MongoDB      string        `mapstructure:"mongo_db"      yaml:"mongo_db"`
	MongoTimeout time.Duration `mapstructure:"mongo_timeout" yaml:"mongo_timeout"`
}

// Export controls report generation.
type Export struct {
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`
	Format    string `mapstructure:"format"     yaml:"format"` // json, csv, xlsx
}

// Logging controls logging behavior.
type Logging struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	Output string `mapstructure:"output" yaml:"output"`
}

// Metrics controls the Prometheus text endpoint.
type Metrics struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Port    int    `mapstructure:"port"    yaml:"port"`
	Path    string `mapstructure:"path"    yaml:"path"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Scraper: Scraper{
			MaxReviews:      20,
			PageTimeout:     30 * time.Second,
			FindTimeout:     5 * time.Second,
			LoadMoreRounds:  3,
			LoadMoreDelay:   2 * time.Second,
			PolitenessDelay: 3 * time.Second,
			UserAgent:       "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		},
		Browser: Browser{
			Headless: true,
			Stealth:  true,
			Timeout:  60 * time.Second,
		},
		AI: AI{
			Enabled:           true,
			Provider:          "gemini",
			Model:             "gemini-1.5-flash",
			ThemeTimeout:      15 * time.Second,
			AnalysisTimeout:   30 * time.Second,
			ComparisonTimeout: 25 * time.Second,
			MaxPromptReviews:  30,
		},
		Extract: Extract{
			DefaultCurrency:  "TL",
			PriceAggregation: "first",
		},
		Storage: Storage{
			Backend:      "file",
			DataDir:      "./data",
			MongoDB:      "urunanaliz",
			MongoTimeout: 10 * time.Second,
		},
		Export: Export{
			OutputDir: "./exports",
			Format:    "json",
		},
		Logging: Logging{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Metrics: Metrics{
			Enabled: false,
			Port:    9090,
			Path:    "/metrics",
		},
	}
}
