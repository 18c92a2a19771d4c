package observability

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
)

// Metrics tracks operational counters for the analysis pipeline.
type Metrics struct {
	// Scrape metrics
	ProductsScraped atomic.Int64
	ScrapeFailures  atomic.Int64
	ScrapeFallbacks atomic.Int64

	// Review metrics
	ReviewsScraped   atomic.Int64
	ReviewsSynthetic atomic.Int64

	// Enrichment metrics
	EnrichCalls       atomic.Int64
	EnrichSubstitutes atomic.Int64

	// Persistence metrics
	ProductsStored    atomic.Int64
	ComparisonsStored atomic.Int64

	logger *slog.Logger
}

// NewMetrics creates a new Metrics instance.
func NewMetrics(logger *slog.Logger) *Metrics {
	return &Metrics{
		logger: logger.With("component", "metrics"),
	}
}

// ServeHTTP serves metrics in Prometheus text exposition format.
func (m *Metrics) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	metrics := []struct {
		name  string
		help  string
		value int64
	}{
		{"urunanaliz_products_scraped_total", "Total products scraped", m.ProductsScraped.Load()},
		{"urunanaliz_scrape_failures_total", "Total scrape attempts that failed on both paths", m.ScrapeFailures.Load()},
		{"urunanaliz_scrape_fallbacks_total", "Total scrapes that used the static fallback", m.ScrapeFallbacks.Load()},
		{"urunanaliz_reviews_scraped_total", "Total reviews scraped from pages", m.ReviewsScraped.Load()},
		{"urunanaliz_reviews_synthetic_total", "Total synthetic placeholder reviews generated", m.ReviewsSynthetic.Load()},
		{"urunanaliz_enrich_calls_total", "Total enrichment runs", m.EnrichCalls.Load()},
		{"urunanaliz_enrich_substitutes_total", "Total enrichments served by the rule-based substitute", m.EnrichSubstitutes.Load()},
		{"urunanaliz_products_stored_total", "Total product analyses persisted", m.ProductsStored.Load()},
		{"urunanaliz_comparisons_stored_total", "Total comparison results persisted", m.ComparisonsStored.Load()},
	}

	for _, metric := range metrics {
		fmt.Fprintf(w, "# HELP %s %s\n", metric.name, metric.help)
		fmt.Fprintf(w, "# TYPE %s counter\n", metric.name)
		fmt.Fprintf(w, "%s %d\n", metric.name, metric.value)
	}
}

// StartServer starts the metrics HTTP server.
func (m *Metrics) StartServer(port int, path string) error {
	mux := http.NewServeMux()
	mux.Handle(path, m)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "ok")
	})

	addr := fmt.Sprintf(":%d", port)
	m.logger.Info("metrics server starting", "addr", addr, "path", path)

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			m.logger.Error("metrics server error", "error", err)
		}
	}()

	return nil
}

// Snapshot returns all metrics as a map.
func (m *Metrics) Snapshot() map[string]int64 {
	return map[string]int64{
		"products_scraped":   m.ProductsScraped.Load(),
		"scrape_failures":    m.ScrapeFailures.Load(),
		"scrape_fallbacks":   m.ScrapeFallbacks.Load(),
		"reviews_scraped":    m.ReviewsScraped.Load(),
		"reviews_synthetic":  m.ReviewsSynthetic.Load(),
		"enrich_calls":       m.EnrichCalls.Load(),
		"enrich_substitutes": m.EnrichSubstitutes.Load(),
		"products_stored":    m.ProductsStored.Load(),
		"comparisons_stored": m.ComparisonsStored.Load(),
	}
}
