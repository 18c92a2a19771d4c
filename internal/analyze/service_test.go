package analyze

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/serhatcanunal1/btk-urun-analiz/internal/config"
	"github.com/serhatcanunal1/btk-urun-analiz/internal/enrich"
	"github.com/serhatcanunal1/btk-urun-analiz/internal/observability"
	"github.com/serhatcanunal1/btk-urun-analiz/internal/storage"
	"github.com/serhatcanunal1/btk-urun-analiz/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// fakeScraper serves canned records keyed by URL.
type fakeScraper struct {
	records map[string]types.ProductRecord
}

func (f *fakeScraper) Scrape(ctx context.Context, url string, maxReviews int) types.ProductRecord {
	if rec, ok := f.records[url]; ok {
		return rec
	}
	return types.ProductRecord{
		URL:    url,
		Domain: types.NormalizeDomain(url),
		Outcome: types.FetchOutcome{
			Success:     false,
			ErrorDetail: "sayfa alınamadı",
		},
	}
}

func goodRecord(url, title, price string) types.ProductRecord {
	five := 5.0
	two := 2.0
	return types.ProductRecord{
		URL:        url,
		Domain:     types.NormalizeDomain(url),
		Title:      title,
		PriceText:  price,
		RatingText: "4.5",
		Reviews: []types.ReviewRecord{
			{Text: "Harika ürün, kalitesi çok iyi", Rating: &five, Provenance: types.ProvenanceScraped},
			{Text: "Kargo geç geldi, kötü paketleme", Rating: &two, Provenance: types.ProvenanceScraped},
			{Text: "Demo yorum", Rating: &five, Provenance: types.ProvenanceSynthetic},
		},
		ReviewCount: 3,
		Outcome:     types.FetchOutcome{Success: true, Method: types.FetchPrimary},
		ScrapedAt:   time.Now(),
	}
}

func newService(t *testing.T, scraper Scraper) (*Service, *observability.Metrics) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Scraper.PolitenessDelay = time.Millisecond
	cfg.AI.Enabled = false

	store, err := storage.NewFileStore(t.TempDir(), testLogger)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	metrics := observability.NewMetrics(testLogger)
	enricher := enrich.New(nil, cfg.AI, testLogger)
	return New(scraper, enricher, store, metrics, cfg, testLogger), metrics
}

func TestAnalyzeOne(t *testing.T) {
	url := "https://www.trendyol.com/samsung/telefon-p-111"
	svc, metrics := newService(t, &fakeScraper{records: map[string]types.ProductRecord{
		url: goodRecord(url, "Samsung Galaxy S24 256 GB Siyah", "32.999 TL"),
	}})

	got, err := svc.AnalyzeOne(context.Background(), url)
	if err != nil {
		t.Fatalf("AnalyzeOne: %v", err)
	}

	if got.ProductID != "trendyol_111" {
		t.Errorf("product id = %q", got.ProductID)
	}
	if got.Price.NumericValue == nil || *got.Price.NumericValue != 32999 {
		t.Errorf("price = %v", got.Price.NumericValue)
	}
	if got.Price.Category != "Lüks" {
		t.Errorf("price category = %q", got.Price.Category)
	}
	if got.Rating.NumericValue == nil || *got.Rating.NumericValue != 4.5 {
		t.Errorf("rating = %v", got.Rating.NumericValue)
	}
	if got.Basic.Brand != "Samsung" {
		t.Errorf("brand = %q", got.Basic.Brand)
	}
	if got.Reviews.ScrapedReviews != 2 || got.Reviews.SyntheticReviews != 1 {
		t.Errorf("review split = %d/%d", got.Reviews.ScrapedReviews, got.Reviews.SyntheticReviews)
	}
	// AI disabled, so the substitute must fully populate enrichment.
	if got.Enrichment.Note != enrich.NoteSubstitute {
		t.Errorf("note = %q", got.Enrichment.Note)
	}
	if got.Enrichment.SentimentSummary == "" || got.Enrichment.Themes == nil {
		t.Error("enrichment incomplete")
	}

	snap := metrics.Snapshot()
	if snap["products_scraped"] != 1 || snap["products_stored"] != 1 {
		t.Errorf("metrics = %v", snap)
	}
	if snap["enrich_substitutes"] != 1 {
		t.Errorf("substitute counter = %d", snap["enrich_substitutes"])
	}
}

func TestAnalyzeBatchPartialFailure(t *testing.T) {
	good1 := "https://www.trendyol.com/a/b-p-1"
	good2 := "https://www.hepsiburada.com/c-p-2"
	bad := "https://www.trendyol.com/x/yok-p-9"

	svc, metrics := newService(t, &fakeScraper{records: map[string]types.ProductRecord{
		good1: goodRecord(good1, "Ürün Bir", "1.000 TL"),
		good2: goodRecord(good2, "Ürün İki", "3.000 TL"),
	}})

	got, err := svc.AnalyzeBatch(context.Background(), []string{good1, bad, good2})
	if err != nil {
		t.Fatalf("AnalyzeBatch: %v", err)
	}

	if len(got.Analyses) != 2 {
		t.Fatalf("analyses = %d, want 2", len(got.Analyses))
	}
	if len(got.Failures) != 1 {
		t.Fatalf("failures = %v", got.Failures)
	}
	if got.Comparison == nil {
		t.Fatal("two successes must produce a comparison")
	}
	if got.Comparison.Price.Range != 2000 {
		t.Errorf("price range = %v, want 2000", got.Comparison.Price.Range)
	}
	if got.Comparison.Recommendation.RecommendedProduct == "" {
		t.Error("comparison missing recommendation")
	}
	if metrics.Snapshot()["comparisons_stored"] != 1 {
		t.Error("comparison not counted as stored")
	}
}

func TestAnalyzeBatchAllFailed(t *testing.T) {
	svc, _ := newService(t, &fakeScraper{})

	_, err := svc.AnalyzeBatch(context.Background(), []string{
		"https://www.trendyol.com/a-p-1",
		"https://www.trendyol.com/b-p-2",
	})
	if !errors.Is(err, types.ErrNoProducts) {
		t.Errorf("err = %v, want ErrNoProducts", err)
	}
}

func TestAnalyzeBatchSingleSuccessNoComparison(t *testing.T) {
	url := "https://www.n11.com/urun/tek-p-5"
	svc, _ := newService(t, &fakeScraper{records: map[string]types.ProductRecord{
		url: goodRecord(url, "Tek Ürün", "500 TL"),
	}})

	got, err := svc.AnalyzeBatch(context.Background(), []string{url})
	if err != nil {
		t.Fatalf("AnalyzeBatch: %v", err)
	}
	if got.Comparison != nil {
		t.Error("single product must not produce a comparison")
	}
}

func TestAnalyzeBatchEndToEnd(t *testing.T) {
	// A pricier zero-review product against a cheaper, well-reviewed
	// one: extraction, enrichment degradation, and comparison must all
	// line up in a single run.
	five := 5.0
	four := 4.0
	two := 2.0
	urlA := "https://www.trendyol.com/marka/pahali-p-10"
	urlB := "https://www.trendyol.com/marka/ucuz-p-20"

	recA := types.ProductRecord{
		URL:        urlA,
		Domain:     "trendyol.com",
		Title:      "Pahalı Ürün",
		PriceText:  "1.200,00 TL",
		RatingText: "4,8",
		Outcome:    types.FetchOutcome{Success: true, Method: types.FetchPrimary},
		ScrapedAt:  time.Now(),
	}
	recB := types.ProductRecord{
		URL:        urlB,
		Domain:     "trendyol.com",
		Title:      "Ucuz Ürün",
		PriceText:  "800 TL",
		RatingText: "3,9",
		Reviews: []types.ReviewRecord{
			{Text: "Harika ürün, çok memnun kaldım", Rating: &five, Provenance: types.ProvenanceScraped},
			{Text: "Kalitesi iyi, kargo hızlı geldi", Rating: &four, Provenance: types.ProvenanceScraped},
			{Text: "Kötü paketleme", Rating: &two, Provenance: types.ProvenanceScraped},
		},
		ReviewCount: 3,
		Outcome:     types.FetchOutcome{Success: true, Method: types.FetchPrimary},
		ScrapedAt:   time.Now(),
	}

	svc, _ := newService(t, &fakeScraper{records: map[string]types.ProductRecord{
		urlA: recA,
		urlB: recB,
	}})

	got, err := svc.AnalyzeBatch(context.Background(), []string{urlA, urlB})
	if err != nil {
		t.Fatalf("AnalyzeBatch: %v", err)
	}
	if len(got.Analyses) != 2 {
		t.Fatalf("analyses = %d, want 2", len(got.Analyses))
	}

	a, b := got.Analyses[0], got.Analyses[1]
	if a.Price.NumericValue == nil || *a.Price.NumericValue != 1200 || a.Price.Category != "Orta Seviye" {
		t.Errorf("product A price = %+v", a.Price)
	}
	if a.Rating.NumericValue == nil || *a.Rating.NumericValue != 4.8 || a.Rating.Category != "Mükemmel" {
		t.Errorf("product A rating = %+v", a.Rating)
	}
	if b.Price.NumericValue == nil || *b.Price.NumericValue != 800 || b.Price.Category != "Ekonomik" {
		t.Errorf("product B price = %+v", b.Price)
	}
	if b.Rating.NumericValue == nil || *b.Rating.NumericValue != 3.9 || b.Rating.Category != "İyi" {
		t.Errorf("product B rating = %+v", b.Rating)
	}

	// Zero reviews: fixed result without a backend call, still total.
	if a.Enrichment.SentimentSummary != "Yorum bulunamadı" || a.Enrichment.RecommendationScore != 50 {
		t.Errorf("product A enrichment = %+v", a.Enrichment)
	}
	if a.Enrichment.Themes == nil || a.Enrichment.Pros == nil || a.Enrichment.Cons == nil {
		t.Error("product A enrichment collections must be non-nil")
	}
	// Reviewed product degrades to the substitute with full coverage.
	if b.Enrichment.Note != enrich.NoteSubstitute {
		t.Errorf("product B note = %q", b.Enrichment.Note)
	}
	if b.Enrichment.TargetAudience == "" || b.Enrichment.MarketPosition == "" {
		t.Errorf("product B enrichment incomplete: %+v", b.Enrichment)
	}
	if b.Reviews.TotalReviews != 3 || b.Reviews.ScrapedReviews != 3 {
		t.Errorf("product B review stats = %+v", b.Reviews)
	}

	cmp := got.Comparison
	if cmp == nil {
		t.Fatal("expected a comparison")
	}
	if cmp.Price.Cheapest == nil || cmp.Price.Cheapest.ProductID != "trendyol_20" {
		t.Errorf("cheapest = %+v, want trendyol_20", cmp.Price.Cheapest)
	}
	if cmp.Price.MostExpensive == nil || cmp.Price.MostExpensive.ProductID != "trendyol_10" {
		t.Errorf("most expensive = %+v, want trendyol_10", cmp.Price.MostExpensive)
	}
	if cmp.Price.Range != 400 || cmp.Price.Average != 1000 {
		t.Errorf("price range/average = %v/%v, want 400/1000", cmp.Price.Range, cmp.Price.Average)
	}
	if cmp.Reviews.MostReviewed != "trendyol_20" {
		t.Errorf("most reviewed = %q, want trendyol_20", cmp.Reviews.MostReviewed)
	}
	if len(cmp.Rankings) != 2 {
		t.Fatalf("rankings = %d, want 2", len(cmp.Rankings))
	}
	for _, score := range cmp.Rankings {
		if score.Composite < 0 || score.Composite > 1 {
			t.Errorf("composite %v for %s out of [0,1]", score.Composite, score.ProductID)
		}
	}
}

func TestCompareStoredProducts(t *testing.T) {
	u1 := "https://www.trendyol.com/a/b-p-1"
	u2 := "https://www.trendyol.com/c/d-p-2"
	svc, _ := newService(t, &fakeScraper{records: map[string]types.ProductRecord{
		u1: goodRecord(u1, "Ürün Bir", "1.000 TL"),
		u2: goodRecord(u2, "Ürün İki", "2.000 TL"),
	}})

	if _, err := svc.AnalyzeBatch(context.Background(), []string{u1, u2}); err != nil {
		t.Fatalf("AnalyzeBatch: %v", err)
	}

	cmp, err := svc.Compare(context.Background(), []string{"trendyol_1", "trendyol_2"})
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if cmp.InsufficientData {
		t.Error("expected a full comparison")
	}
	if cmp.Price.Average != 1500 {
		t.Errorf("average = %v", cmp.Price.Average)
	}

	if _, err := svc.Compare(context.Background(), []string{"yok_1", "yok_2"}); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("missing product err = %v, want ErrNotFound", err)
	}
}
