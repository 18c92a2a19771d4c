// Package review collects customer reviews from a live product page
// and backfills with tagged synthetic placeholders when the page
// yields fewer than requested.
package review

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/serhatcanunal1/btk-urun-analiz/internal/browser"
	"github.com/serhatcanunal1/btk-urun-analiz/internal/config"
	"github.com/serhatcanunal1/btk-urun-analiz/internal/extract"
	"github.com/serhatcanunal1/btk-urun-analiz/internal/selector"
	"github.com/serhatcanunal1/btk-urun-analiz/internal/types"
)

const scrollToBottomJS = `window.scrollTo(0, document.body.scrollHeight)`

// Plan describes where a marketplace keeps its reviews and how to
// coax more of them onto the page.
type Plan struct {
	// TabLocators find a reviews tab that must be clicked before any
	// review is visible. Optional.
	TabLocators []selector.Locator
	// LoadMoreLocators find a visible "show more" control.
	LoadMoreLocators []selector.Locator
	// ContainerLocators find one element per review.
	ContainerLocators []selector.Locator
	// Per-container field cascades.
	TextLocators   []selector.Locator
	RatingLocators []selector.Locator
	AuthorLocators []selector.Locator
	DateLocators   []selector.Locator
	// Templates provide marketplace-flavored synthetic review texts
	// keyed by star rating. Empty falls back to the generic set.
	Templates map[int][]string
}

// Harvester gathers reviews from browser sessions. The random source
// is injectable so synthetic backfill is reproducible in tests.
type Harvester struct {
	cfg    config.Scraper
	logger *slog.Logger
	rng    *rand.Rand
	now    func() time.Time
}

// New creates a Harvester. A nil rng gets a time-seeded source.
func New(cfg config.Scraper, logger *slog.Logger, rng *rand.Rand) *Harvester {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Harvester{
		cfg:    cfg,
		logger: logger.With("component", "review_harvester"),
		rng:    rng,
		now:    time.Now,
	}
}

// Harvest collects up to want reviews from the session, then
// backfills with synthetic placeholders to reach want. It never
// fails: any page-level problem degrades to a fully synthetic set.
func (h *Harvester) Harvest(ctx context.Context, session browser.Session, plan Plan, want int) []types.ReviewRecord {
	if want <= 0 {
		return nil
	}

	h.openReviewsTab(session, plan)
	h.loadMore(ctx, session, plan)

	scraped := h.collect(session, plan, want)
	h.logger.Debug("reviews collected", "scraped", len(scraped), "want", want)

	if len(scraped) < want {
		synthetic := h.synthesize(plan, want-len(scraped))
		h.logger.Info("backfilling reviews",
			"scraped", len(scraped),
			"synthetic", len(synthetic),
		)
		scraped = append(scraped, synthetic...)
	}
	return scraped
}

// openReviewsTab clicks the first visible reviews tab, if any.
func (h *Harvester) openReviewsTab(session browser.Session, plan Plan) {
	for _, loc := range plan.TabLocators {
		el, err := session.Find(loc)
		if err != nil || !el.Visible() {
			continue
		}
		if err := el.Click(); err != nil {
			h.logger.Debug("reviews tab click failed", "error", err)
			continue
		}
		time.Sleep(h.cfg.LoadMoreDelay)
		return
	}
}

// loadMore runs a bounded number of scroll-and-click rounds to pull
// lazily loaded reviews onto the page.
func (h *Harvester) loadMore(ctx context.Context, session browser.Session, plan Plan) {
	for round := 0; round < h.cfg.LoadMoreRounds; round++ {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := session.Eval(scrollToBottomJS); err != nil {
			h.logger.Debug("scroll failed", "round", round, "error", err)
			return
		}

		for _, loc := range plan.LoadMoreLocators {
			el, err := session.Find(loc)
			if err != nil || !el.Visible() {
				continue
			}
			if err := el.Click(); err == nil {
				break
			}
		}
		time.Sleep(h.cfg.LoadMoreDelay)
	}
}

// collect resolves review containers and their fields. Duplicate
// texts are dropped; marketplaces repeat reviews across lazy-load
// boundaries.
func (h *Harvester) collect(session browser.Session, plan Plan, want int) []types.ReviewRecord {
	containers, ok := selector.ResolveAll(session, plan.ContainerLocators)
	if !ok {
		return nil
	}

	seen := make(map[string]struct{})
	var out []types.ReviewRecord
	for _, c := range containers {
		if len(out) >= want {
			break
		}
		text, ok := selector.Resolve(c, plan.TextLocators, 3)
		if !ok {
			continue
		}
		if _, dup := seen[text]; dup {
			continue
		}
		seen[text] = struct{}{}

		rec := types.ReviewRecord{
			Text:       text,
			Provenance: types.ProvenanceScraped,
		}
		if raw, ok := selector.Resolve(c, plan.RatingLocators, 1); ok {
			rec.Rating = extract.Rating(raw).NumericValue
		}
		rec.Author, _ = selector.Resolve(c, plan.AuthorLocators, 1)
		rec.Date, _ = selector.Resolve(c, plan.DateLocators, 1)
		out = append(out, rec)
	}
	return out
}
