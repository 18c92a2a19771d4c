// Package scrape turns product URLs into ProductRecords. A browser
// scrape with marketplace-specific locator cascades is the primary
// path; a static HTTP fetch is the fallback. Neither path surfaces
// errors to the caller: every attempt ends in a record whose
// FetchOutcome tells the story.
package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/serhatcanunal1/btk-urun-analiz/internal/browser"
	"github.com/serhatcanunal1/btk-urun-analiz/internal/config"
	"github.com/serhatcanunal1/btk-urun-analiz/internal/review"
	"github.com/serhatcanunal1/btk-urun-analiz/internal/selector"
	"github.com/serhatcanunal1/btk-urun-analiz/internal/types"
)

// Dispatcher routes URLs to marketplace strategies.
type Dispatcher struct {
	driver    browser.Driver
	harvester *review.Harvester
	fallback  *Fallback
	cfg       *config.Config
	logger    *slog.Logger
}

// NewDispatcher wires the scrape pipeline. rng seeds synthetic
// review generation and may be nil.
func NewDispatcher(driver browser.Driver, cfg *config.Config, logger *slog.Logger, rng *rand.Rand) *Dispatcher {
	return &Dispatcher{
		driver:    driver,
		harvester: review.New(cfg.Scraper, logger, rng),
		fallback:  NewFallback(cfg, logger),
		cfg:       cfg,
		logger:    logger.With("component", "dispatcher"),
	}
}

// Scrape fetches one product. It always returns a record; failure of
// both paths yields Outcome.Success == false with the primary error
// detail preserved.
func (d *Dispatcher) Scrape(ctx context.Context, url string, maxReviews int) types.ProductRecord {
	domain := types.NormalizeDomain(url)
	log := d.logger.With("url", url, "domain", domain)

	strat, supported := strategyFor(domain)
	var primaryErr error
	switch {
	case !supported:
		primaryErr = &types.ScrapeError{URL: url, Domain: domain, Err: types.ErrUnsupportedSite}
		log.Warn("unsupported marketplace, trying fallback")
	case d.driver == nil:
		primaryErr = &types.ScrapeError{URL: url, Domain: domain, Err: fmt.Errorf("browser disabled")}
		log.Debug("browser disabled, using fallback")
	default:
		record, err := d.scrapePrimary(ctx, url, domain, strat, maxReviews)
		if err == nil {
			log.Info("scrape complete", "method", "primary", "reviews", record.ReviewCount)
			return record
		}
		primaryErr = err
		log.Warn("primary scrape failed, trying fallback", "error", err)
	}

	record, err := d.fallback.Fetch(ctx, url)
	if err == nil {
		log.Info("scrape complete", "method", "fallback")
		return record
	}
	log.Error("all scrape paths failed", "primary_error", primaryErr, "fallback_error", err)

	return types.ProductRecord{
		URL:       url,
		Domain:    domain,
		ScrapedAt: time.Now(),
		Outcome: types.FetchOutcome{
			Success:     false,
			ErrorDetail: fmt.Sprintf("primary: %v; fallback: %v", primaryErr, err),
		},
	}
}

func (d *Dispatcher) scrapePrimary(ctx context.Context, url, domain string, strat Strategy, maxReviews int) (types.ProductRecord, error) {
	session, err := d.driver.Open(ctx)
	if err != nil {
		return types.ProductRecord{}, &types.ScrapeError{URL: url, Domain: domain, Err: err}
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			d.logger.Debug("session close failed", "error", cerr)
		}
	}()

	if err := session.Navigate(ctx, url); err != nil {
		return types.ProductRecord{}, &types.ScrapeError{URL: url, Domain: domain, Err: err}
	}

	title, ok := selector.Resolve(session, strat.TitleLocators, 3)
	if !ok {
		return types.ProductRecord{}, &types.ScrapeError{
			URL: url, Domain: domain,
			Err: fmt.Errorf("title cascade exhausted for %s", strat.Name),
		}
	}

	record := types.ProductRecord{
		URL:       url,
		Domain:    domain,
		Title:     title,
		ScrapedAt: time.Now(),
		Outcome:   types.FetchOutcome{Success: true, Method: types.FetchPrimary},
	}
	record.PriceText, _ = selector.Resolve(session, strat.PriceLocators, 1)
	record.RatingText, _ = selector.Resolve(session, strat.RatingLocators, 1)

	record.Reviews = d.harvester.Harvest(ctx, session, strat.ReviewPlan, maxReviews)
	record.ReviewCount = len(record.Reviews)
	return record, nil
}

// ScrapeMany fetches products concurrently, one goroutine per URL.
// Results keep input order; individual failures are recorded, never
// fatal.
func (d *Dispatcher) ScrapeMany(ctx context.Context, urls []string, maxReviews int) []types.ProductRecord {
	records := make([]types.ProductRecord, len(urls))
	var wg sync.WaitGroup
	for i, url := range urls {
		wg.Add(1)
		go func(i int, url string) {
			defer wg.Done()
			records[i] = d.Scrape(ctx, url, maxReviews)
		}(i, url)
	}
	wg.Wait()
	return records
}
