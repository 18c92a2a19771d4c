// Package analyze orchestrates the full pipeline: scrape, extract,
// enrich, persist, and compare.
package analyze

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/serhatcanunal1/btk-urun-analiz/internal/compare"
	"github.com/serhatcanunal1/btk-urun-analiz/internal/config"
	"github.com/serhatcanunal1/btk-urun-analiz/internal/enrich"
	"github.com/serhatcanunal1/btk-urun-analiz/internal/extract"
	"github.com/serhatcanunal1/btk-urun-analiz/internal/observability"
	"github.com/serhatcanunal1/btk-urun-analiz/internal/storage"
	"github.com/serhatcanunal1/btk-urun-analiz/internal/types"
)

// Scraper is the scrape capability the service depends on.
type Scraper interface {
	Scrape(ctx context.Context, url string, maxReviews int) types.ProductRecord
}

// BatchResult holds the outcome of a multi-product run. Failures are
// kept per URL so one broken page never sinks the batch.
type BatchResult struct {
	Analyses   []types.ProductAnalysis
	Comparison *types.ComparisonResult
	Failures   map[string]string
}

// Service runs the analysis pipeline.
type Service struct {
	scraper  Scraper
	enricher *enrich.Enricher
	store    storage.Store
	metrics  *observability.Metrics
	cfg      *config.Config
	logger   *slog.Logger
}

// New wires the pipeline together.
func New(scraper Scraper, enricher *enrich.Enricher, store storage.Store, metrics *observability.Metrics, cfg *config.Config, logger *slog.Logger) *Service {
	return &Service{
		scraper:  scraper,
		enricher: enricher,
		store:    store,
		metrics:  metrics,
		cfg:      cfg,
		logger:   logger.With("component", "analyze_service"),
	}
}

// AnalyzeOne scrapes, analyzes, and persists a single product.
func (s *Service) AnalyzeOne(ctx context.Context, url string) (*types.ProductAnalysis, error) {
	record := s.scraper.Scrape(ctx, url, s.cfg.Scraper.MaxReviews)
	if !record.Outcome.Success {
		s.metrics.ScrapeFailures.Add(1)
		return nil, &types.ScrapeError{
			URL:    url,
			Domain: record.Domain,
			Err:    fmt.Errorf("%s", record.Outcome.ErrorDetail),
		}
	}
	s.metrics.ProductsScraped.Add(1)
	if record.Outcome.Method == types.FetchFallback {
		s.metrics.ScrapeFallbacks.Add(1)
	}

	analysis := s.buildAnalysis(ctx, record)

	if err := s.store.SaveProduct(analysis.ProductID, &analysis); err != nil {
		return nil, err
	}
	s.metrics.ProductsStored.Add(1)
	s.logger.Info("product analyzed",
		"id", analysis.ProductID,
		"method", record.Outcome.Method,
		"reviews", analysis.Reviews.TotalReviews,
	)
	return &analysis, nil
}

// AnalyzeBatch runs products sequentially with a politeness delay
// between scrapes. Two or more successes also produce a persisted
// comparison; zero successes is the only terminal error.
func (s *Service) AnalyzeBatch(ctx context.Context, urls []string) (*BatchResult, error) {
	result := &BatchResult{
		Failures: make(map[string]string),
	}

	for i, url := range urls {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.cfg.Scraper.PolitenessDelay):
			}
		}

		analysis, err := s.AnalyzeOne(ctx, url)
		if err != nil {
			s.logger.Warn("product analysis failed", "url", url, "error", err)
			result.Failures[url] = err.Error()
			continue
		}
		result.Analyses = append(result.Analyses, *analysis)
	}

	if len(result.Analyses) == 0 {
		return nil, fmt.Errorf("%d url denendi: %w", len(urls), types.ErrNoProducts)
	}

	if len(result.Analyses) >= 2 {
		cmp := compare.Compare(result.Analyses)
		cmp.Recommendation = s.enricher.Recommend(ctx, result.Analyses)
		if err := s.store.SaveComparison(cmp.ComparisonID, &cmp); err != nil {
			s.logger.Warn("comparison save failed", "id", cmp.ComparisonID, "error", err)
		} else {
			s.metrics.ComparisonsStored.Add(1)
		}
		result.Comparison = &cmp
	}
	return result, nil
}

// Compare re-runs the comparison over previously stored products.
func (s *Service) Compare(ctx context.Context, ids []string) (*types.ComparisonResult, error) {
	analyses := make([]types.ProductAnalysis, 0, len(ids))
	for _, id := range ids {
		a, err := s.store.GetProduct(id)
		if err != nil {
			return nil, err
		}
		analyses = append(analyses, *a)
	}

	cmp := compare.Compare(analyses)
	if !cmp.InsufficientData {
		cmp.Recommendation = s.enricher.Recommend(ctx, analyses)
	}
	if err := s.store.SaveComparison(cmp.ComparisonID, &cmp); err != nil {
		return nil, err
	}
	s.metrics.ComparisonsStored.Add(1)
	return &cmp, nil
}

// buildAnalysis derives the full analysis document from one record.
func (s *Service) buildAnalysis(ctx context.Context, record types.ProductRecord) types.ProductAnalysis {
	title := extract.Title(record.Title)
	price := extract.Price(record.PriceText,
		extract.Aggregation(s.cfg.Extract.PriceAggregation),
		s.cfg.Extract.DefaultCurrency)
	rating := extract.Rating(record.RatingText)

	stats := enrich.AnalyzeReviews(record.Reviews)
	s.metrics.ReviewsScraped.Add(int64(stats.ScrapedReviews))
	s.metrics.ReviewsSynthetic.Add(int64(stats.SyntheticReviews))

	enrichment := s.enricher.Enrich(ctx, record, title)
	s.metrics.EnrichCalls.Add(1)
	if enrichment.Note == enrich.NoteSubstitute {
		s.metrics.EnrichSubstitutes.Add(1)
	}
	if len(enrichment.Themes) > 0 {
		stats.KeyThemes = enrichment.Themes
	} else {
		stats.KeyThemes = s.enricher.ExtractThemes(ctx, record.Reviews)
	}

	return types.ProductAnalysis{
		ProductID:  types.ProductID(record.URL),
		Timestamp:  time.Now(),
		URL:        record.URL,
		Domain:     record.Domain,
		Basic:      title,
		Price:      price,
		Rating:     rating,
		Reviews:    stats,
		Enrichment: enrichment,
		Raw:        record,
	}
}
