package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/serhatcanunal1/btk-urun-analiz/internal/analyze"
	"github.com/serhatcanunal1/btk-urun-analiz/internal/browser"
	"github.com/serhatcanunal1/btk-urun-analiz/internal/config"
	"github.com/serhatcanunal1/btk-urun-analiz/internal/enrich"
	"github.com/serhatcanunal1/btk-urun-analiz/internal/export"
	"github.com/serhatcanunal1/btk-urun-analiz/internal/observability"
	"github.com/serhatcanunal1/btk-urun-analiz/internal/scrape"
	"github.com/serhatcanunal1/btk-urun-analiz/internal/storage"
	"github.com/serhatcanunal1/btk-urun-analiz/internal/types"
)

var (
	cfgFile     string
	verbose     bool
	urlFile     string
	maxReviews  int
	showReviews bool
	noAI        bool
	noBrowser   bool
	exportFmt   string
	exportAll   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "urunanaliz",
		Short: "Ürün Analiz — marketplace product scraper and review analyzer",
		Long: `Ürün Analiz scrapes product pages from Turkish marketplaces
(Trendyol, Hepsiburada, Amazon.com.tr, N11), harvests customer reviews,
and enriches them with AI-backed sentiment analysis.

Features:
  • Browser-based scraping with a static HTTP fallback
  • Review harvesting with synthetic demo backfill
  • Gemini-backed enrichment with a rule-based substitute
  • Multi-product comparison and purchase recommendation
  • JSON, CSV, Excel export
  • Prometheus metrics endpoint`,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(compareCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// analyzeCmd creates the "analyze" subcommand.
func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [url...]",
		Short: "Scrape and analyze one or more product URLs",
		Long: `Scrape the given product pages, harvest reviews, run the
enrichment pipeline, and persist the results. Two or more successful
products also produce a comparison with a purchase recommendation.`,
		RunE: runAnalyze,
	}

	cmd.Flags().StringVarP(&urlFile, "file", "f", "", "file with one product URL per line")
	cmd.Flags().IntVarP(&maxReviews, "max-reviews", "m", 0, "reviews to collect per product (0 = config default)")
	cmd.Flags().BoolVar(&showReviews, "show-reviews", false, "print harvested reviews")
	cmd.Flags().BoolVar(&noAI, "no-ai", false, "skip the generative backend, use rule-based analysis")
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "skip the browser, use the static HTTP fallback only")
	cmd.Flags().StringVar(&exportFmt, "format", "", "also export results: json, csv, xlsx")

	return cmd
}

// runAnalyze executes the analyze command.
func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	urls, err := collectURLs(args)
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		return fmt.Errorf("no product URLs given (pass URLs as arguments or use --file)")
	}
	for _, rawURL := range urls {
		if err := config.ValidateURL(rawURL); err != nil {
			return fmt.Errorf("invalid URL %q: %w", rawURL, err)
		}
	}

	if maxReviews > 0 {
		cfg.Scraper.MaxReviews = maxReviews
	}
	if noAI {
		cfg.AI.Enabled = false
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, metrics, cleanup, err := buildService(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	logger.Info("starting analysis",
		"urls", len(urls),
		"max_reviews", cfg.Scraper.MaxReviews,
		"ai_enabled", cfg.AI.Enabled,
		"supported", scrape.SupportedDomains(),
	)

	result, err := svc.AnalyzeBatch(ctx, urls)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	for i := range result.Analyses {
		printAnalysis(&result.Analyses[i])
	}
	for url, reason := range result.Failures {
		fmt.Printf("\n❌ %s\n   %s\n", url, reason)
	}
	if result.Comparison != nil {
		printComparison(result.Comparison)
	}

	if exportFmt != "" {
		path, err := exportAnalyses(cfg, logger, result.Analyses, strings.ToLower(exportFmt))
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		fmt.Printf("\n📄 Report written to %s\n", path)
	}

	snap := metrics.Snapshot()
	fmt.Printf("\n✅ Done: %d analyzed, %d failed", len(result.Analyses), len(result.Failures))
	fmt.Printf(" (%d reviews scraped, %d synthetic)\n", snap["reviews_scraped"], snap["reviews_synthetic"])
	return nil
}

// exportAnalyses writes a report in the requested format.
func exportAnalyses(cfg *config.Config, logger *slog.Logger, analyses []types.ProductAnalysis, format string) (string, error) {
	exporter, err := export.New(cfg.Export.OutputDir, logger)
	if err != nil {
		return "", err
	}
	switch format {
	case "csv":
		return exporter.CSV(analyses, "urun_raporu")
	case "xlsx":
		return exporter.Excel(analyses, "urun_raporu")
	case "json":
		return exporter.JSON(analyses, "urun_raporu")
	default:
		return "", fmt.Errorf("unknown export format %q", format)
	}
}

// compareCmd creates the "compare" subcommand.
func compareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare [product-id...]",
		Short: "Compare previously analyzed products",
		Long: `Load stored product analyses by ID and run the comparison:
price and rating extremes, review aggregates, composite rankings, and
a purchase recommendation. Use "urunanaliz list" to see stored IDs.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			store, err := storage.Open(cfg.Storage, logger)
			if err != nil {
				return fmt.Errorf("open storage: %w", err)
			}
			defer store.Close()

			gen := buildGenerator(cfg, logger)
			enricher := enrich.New(gen, cfg.AI, logger)
			metrics := observability.NewMetrics(logger)
			svc := analyze.New(nil, enricher, store, metrics, cfg, logger)

			result, err := svc.Compare(ctx, args)
			if err != nil {
				return fmt.Errorf("compare: %w", err)
			}
			printComparison(result)
			return nil
		},
	}
}

// exportCmd creates the "export" subcommand.
func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [product-id...]",
		Short: "Export stored analyses to a report file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			if exportFmt != "" {
				cfg.Export.Format = strings.ToLower(exportFmt)
			}
			if err := config.Validate(cfg); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			store, err := storage.Open(cfg.Storage, logger)
			if err != nil {
				return fmt.Errorf("open storage: %w", err)
			}
			defer store.Close()

			ids := args
			if exportAll || len(ids) == 0 {
				ids, err = store.ListProductIDs()
				if err != nil {
					return fmt.Errorf("list products: %w", err)
				}
			}
			if len(ids) == 0 {
				return fmt.Errorf("nothing to export: %w", types.ErrNoProducts)
			}

			analyses := make([]types.ProductAnalysis, 0, len(ids))
			for _, id := range ids {
				a, err := store.GetProduct(id)
				if err != nil {
					return fmt.Errorf("load %s: %w", id, err)
				}
				analyses = append(analyses, *a)
			}

			path, err := exportAnalyses(cfg, logger, analyses, cfg.Export.Format)
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}

			fmt.Printf("✅ Exported %d products to %s\n", len(analyses), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&exportFmt, "format", "f", "", "output format: json, csv, xlsx (default from config)")
	cmd.Flags().BoolVarP(&exportAll, "all", "a", false, "export every stored product")
	return cmd
}

// listCmd creates the "list" subcommand.
func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored product analyses",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}

			store, err := storage.Open(cfg.Storage, logger)
			if err != nil {
				return fmt.Errorf("open storage: %w", err)
			}
			defer store.Close()

			ids, err := store.ListProductIDs()
			if err != nil {
				return fmt.Errorf("list products: %w", err)
			}
			if len(ids) == 0 {
				fmt.Println("No stored analyses yet. Run: urunanaliz analyze <url>")
				return nil
			}
			for _, id := range ids {
				a, err := store.GetProduct(id)
				if err != nil {
					fmt.Printf("  %s  (unreadable: %v)\n", id, err)
					continue
				}
				fmt.Printf("  %-28s %-40s %s\n", id, truncateTitle(a.Basic.Title, 40), a.Timestamp.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

// configCmd creates the "config" subcommand for inspecting configuration.
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			fmt.Printf("Scraper:\n")
			fmt.Printf("  Max Reviews:       %d\n", cfg.Scraper.MaxReviews)
			fmt.Printf("  Page Timeout:      %s\n", cfg.Scraper.PageTimeout)
			fmt.Printf("  Politeness Delay:  %s\n", cfg.Scraper.PolitenessDelay)
			fmt.Printf("  Supported Sites:   %s\n", strings.Join(scrape.SupportedDomains(), ", "))
			fmt.Printf("\nBrowser:\n")
			fmt.Printf("  Headless:          %v\n", cfg.Browser.Headless)
			fmt.Printf("  Stealth:           %v\n", cfg.Browser.Stealth)
			fmt.Printf("\nAI:\n")
			fmt.Printf("  Enabled:           %v\n", cfg.AI.Enabled)
			fmt.Printf("  Provider:          %s\n", cfg.AI.Provider)
			fmt.Printf("  Model:             %s\n", cfg.AI.Model)
			fmt.Printf("  API Key Set:       %v\n", cfg.AI.APIKey != "")
			fmt.Printf("\nStorage:\n")
			fmt.Printf("  Backend:           %s\n", cfg.Storage.Backend)
			fmt.Printf("  Data Dir:          %s\n", cfg.Storage.DataDir)
			fmt.Printf("\nExport:\n")
			fmt.Printf("  Output Dir:        %s\n", cfg.Export.OutputDir)
			fmt.Printf("  Format:            %s\n", cfg.Export.Format)
			fmt.Printf("\nMetrics:\n")
			fmt.Printf("  Enabled:           %v\n", cfg.Metrics.Enabled)
			fmt.Printf("  Port:              %d\n", cfg.Metrics.Port)
			return nil
		},
	}
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Ürün Analiz %s\n", config.Version)
		},
	}
}

// loadConfig loads and validates the config and builds the logger.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, setupLogger(cfg.Logging), nil
}

// buildService wires the full pipeline. The returned cleanup closes
// the browser and the store.
func buildService(cfg *config.Config, logger *slog.Logger) (*analyze.Service, *observability.Metrics, func(), error) {
	var (
		dispatcher *scrape.Dispatcher
		driver     browser.Driver
	)
	if noBrowser {
		dispatcher = scrape.NewDispatcher(nil, cfg, logger, nil)
	} else {
		rodDriver, err := browser.NewRodDriver(cfg, logger)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("start browser: %w", err)
		}
		driver = rodDriver
		dispatcher = scrape.NewDispatcher(rodDriver, cfg, logger, nil)
	}

	store, err := storage.Open(cfg.Storage, logger)
	if err != nil {
		if driver != nil {
			driver.Close()
		}
		return nil, nil, nil, fmt.Errorf("open storage: %w", err)
	}

	metrics := observability.NewMetrics(logger)
	if cfg.Metrics.Enabled {
		if err := metrics.StartServer(cfg.Metrics.Port, cfg.Metrics.Path); err != nil {
			logger.Warn("failed to start metrics server", "error", err)
		}
	}

	gen := buildGenerator(cfg, logger)
	enricher := enrich.New(gen, cfg.AI, logger)
	svc := analyze.New(dispatcher, enricher, store, metrics, cfg, logger)

	cleanup := func() {
		if driver != nil {
			if err := driver.Close(); err != nil {
				logger.Warn("browser close failed", "error", err)
			}
		}
		if err := store.Close(); err != nil {
			logger.Warn("storage close failed", "error", err)
		}
	}
	return svc, metrics, cleanup, nil
}

// buildGenerator returns nil when AI is disabled or misconfigured, in
// which case enrichment degrades to the rule-based substitute.
func buildGenerator(cfg *config.Config, logger *slog.Logger) enrich.Generator {
	if !cfg.AI.Enabled {
		return nil
	}
	gen, err := enrich.NewGenerator(cfg.AI, logger)
	if err != nil {
		logger.Warn("generative backend unavailable, using rule-based analysis", "error", err)
		return nil
	}
	return gen
}

// collectURLs merges positional args with the optional --file list.
func collectURLs(args []string) ([]string, error) {
	urls := append([]string(nil), args...)
	if urlFile == "" {
		return urls, nil
	}

	f, err := os.Open(urlFile)
	if err != nil {
		return nil, fmt.Errorf("open url file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, scanner.Err()
}

func printAnalysis(a *types.ProductAnalysis) {
	fmt.Printf("\n📦 %s\n", a.Basic.Title)
	fmt.Printf("   ID:        %s\n", a.ProductID)
	fmt.Printf("   Price:     %s (%s)\n", a.Price.OriginalText, a.Price.Category)
	if a.Rating.NumericValue != nil {
		fmt.Printf("   Rating:    %.1f/5 (%s)\n", *a.Rating.NumericValue, a.Rating.Category)
	} else {
		fmt.Printf("   Rating:    %s\n", a.Rating.Category)
	}
	fmt.Printf("   Reviews:   %d total (%d scraped, %d synthetic)\n",
		a.Reviews.TotalReviews, a.Reviews.ScrapedReviews, a.Reviews.SyntheticReviews)
	fmt.Printf("   Sentiment: %s (%.1f/10)\n", a.Enrichment.SentimentSummary, a.Enrichment.SentimentScore)
	fmt.Printf("   Buy Score: %d/100\n", a.Enrichment.RecommendationScore)
	if len(a.Reviews.KeyThemes) > 0 {
		fmt.Printf("   Themes:    %s\n", strings.Join(a.Reviews.KeyThemes, ", "))
	}
	if a.Enrichment.Note != "" {
		fmt.Printf("   Note:      %s\n", a.Enrichment.Note)
	}

	if showReviews {
		for i, r := range a.Raw.Reviews {
			marker := "💬"
			if r.Provenance == types.ProvenanceSynthetic {
				marker = "🤖"
			}
			fmt.Printf("   %s [%d] %s\n", marker, i+1, r.Text)
		}
	}
}

func printComparison(c *types.ComparisonResult) {
	fmt.Printf("\n🏆 Comparison %s (%d products)\n", c.ComparisonID, c.TotalProducts)
	if c.InsufficientData {
		fmt.Printf("   %s\n", c.Reason)
		return
	}
	if c.Price.Valid {
		fmt.Printf("   Cheapest:       %s\n", c.Price.Cheapest.Title)
		fmt.Printf("   Most expensive: %s\n", c.Price.MostExpensive.Title)
	}
	for i, score := range c.Rankings {
		fmt.Printf("   %d. %-40s %.3f\n", i+1, truncateTitle(score.Title, 40), score.Composite)
	}
	if c.Recommendation.RecommendedProduct != "" {
		fmt.Printf("   👉 Recommended: %s (confidence %d/100)\n",
			c.Recommendation.RecommendedProduct, c.Recommendation.Confidence)
		fmt.Printf("      %s\n", c.Recommendation.Reason)
	}
}

func truncateTitle(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

// setupLogger creates a structured logger from the logging config.
func setupLogger(cfg config.Logging) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	} else {
		switch strings.ToLower(cfg.Level) {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
	}

	var out *os.File
	switch cfg.Output {
	case "stdout":
		out = os.Stdout
	default:
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(out, opts))
	}
	return slog.New(slog.NewTextHandler(out, opts))
}
