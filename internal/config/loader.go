package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from file, environment, and CLI flags.
// Priority (highest to lowest): CLI flags > env vars > config file > defaults.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	setDefaults(v, cfg)

	v.SetEnvPrefix("URUNANALIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("urunanaliz")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".urunanaliz"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if not explicitly specified
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// The API key is commonly provided through the bare env var the
	// upstream docs use, so honor it when the config leaves it empty.
	if cfg.AI.APIKey == "" {
		cfg.AI.APIKey = os.Getenv("GEMINI_API_KEY")
	}

	return cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	return Load(path)
}

// setDefaults registers default values in viper.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("scraper.max_reviews", cfg.Scraper.MaxReviews)
	v.SetDefault("scraper.page_timeout", cfg.Scraper.PageTimeout)
	v.SetDefault("scraper.find_timeout", cfg.Scraper.FindTimeout)
	v.SetDefault("scraper.load_more_rounds", cfg.Scraper.LoadMoreRounds)
	v.SetDefault("scraper.load_more_delay", cfg.Scraper.LoadMoreDelay)
	v.SetDefault("scraper.politeness_delay", cfg.Scraper.PolitenessDelay)
	v.SetDefault("scraper.user_agent", cfg.Scraper.UserAgent)

	v.SetDefault("browser.headless", cfg.Browser.Headless)
	v.SetDefault("browser.stealth", cfg.Browser.Stealth)
	v.SetDefault("browser.timeout", cfg.Browser.Timeout)

	v.SetDefault("ai.enabled", cfg.AI.Enabled)
	v.SetDefault("ai.provider", cfg.AI.Provider)
	v.SetDefault("ai.model", cfg.AI.Model)
	v.SetDefault("ai.theme_timeout", cfg.AI.ThemeTimeout)
	v.SetDefault("ai.analysis_timeout", cfg.AI.AnalysisTimeout)
	v.SetDefault("ai.comparison_timeout", cfg.AI.ComparisonTimeout)
	v.SetDefault("ai.max_prompt_reviews", cfg.AI.MaxPromptReviews)

	v.SetDefault("extract.default_currency", cfg.Extract.DefaultCurrency)
	v.SetDefault("extract.price_aggregation", cfg.Extract.PriceAggregation)

	v.SetDefault("storage.backend", cfg.Storage.Backend)
	v.SetDefault("storage.data_dir", cfg.Storage.DataDir)
	v.SetDefault("storage.mongo_db", cfg.Storage.MongoDB)
	v.SetDefault("storage.mongo_timeout", cfg.Storage.MongoTimeout)

	v.SetDefault("export.output_dir", cfg.Export.OutputDir)
	v.SetDefault("export.format", cfg.Export.Format)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.output", cfg.Logging.Output)

	v.SetDefault("metrics.enabled", cfg.Metrics.Enabled)
	v.SetDefault("metrics.port", cfg.Metrics.Port)
	v.SetDefault("metrics.path", cfg.Metrics.Path)
}
