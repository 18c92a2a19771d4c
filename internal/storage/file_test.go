package storage

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/serhatcanunal1/btk-urun-analiz/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func sampleAnalysis(id string) *types.ProductAnalysis {
	price := 1299.90
	rating := 4.4
	return &types.ProductAnalysis{
		ProductID: id,
		Timestamp: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		URL:       "https://www.trendyol.com/x/y-p-" + id,
		Domain:    "trendyol.com",
		Basic:     types.TitleInfo{Title: "Test Ürünü", Brand: "Samsung"},
		Price:     types.PriceAnalysis{OriginalText: "1.299,90 TL", NumericValue: &price, Category: "Orta Seviye", Currency: "TL"},
		Rating:    types.RatingAnalysis{OriginalText: "4.4", NumericValue: &rating, Category: "Çok İyi"},
		Reviews:   types.ReviewStats{TotalReviews: 3, ScrapedReviews: 2, SyntheticReviews: 1, KeyThemes: []string{"Fiyat"}},
		Enrichment: types.EnrichmentResult{
			SentimentSummary:    "Olumlu",
			SentimentScore:      7.5,
			RecommendationScore: 80,
		},
	}
}

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(t.TempDir(), testLogger)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return s
}

func TestFileStoreRoundTrip(t *testing.T) {
	s := newTestStore(t)
	want := sampleAnalysis("trendyol_123")

	if err := s.SaveProduct(want.ProductID, want); err != nil {
		t.Fatalf("SaveProduct: %v", err)
	}

	got, err := s.GetProduct(want.ProductID)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if got.ProductID != want.ProductID {
		t.Errorf("id = %q", got.ProductID)
	}
	if got.Price.NumericValue == nil || *got.Price.NumericValue != 1299.90 {
		t.Errorf("price = %v", got.Price.NumericValue)
	}
	if got.Enrichment.RecommendationScore != 80 {
		t.Errorf("recommendation = %d", got.Enrichment.RecommendationScore)
	}
}

func TestFileStoreSummaryCSV(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir, testLogger)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	a := sampleAnalysis("trendyol_456")
	if err := s.SaveProduct(a.ProductID, a); err != nil {
		t.Fatalf("SaveProduct: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "products", "trendyol_456_summary.csv"))
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("summary lines = %d, want header + row", len(lines))
	}
	if !strings.Contains(lines[0], "product_id") || !strings.Contains(lines[1], "trendyol_456") {
		t.Errorf("summary content unexpected:\n%s", data)
	}
}

func TestFileStoreGetMissing(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetProduct("yok")
	if !errors.Is(err, types.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	var serr *types.StorageError
	if !errors.As(err, &serr) {
		t.Errorf("err should be a StorageError, got %T", err)
	}
}

func TestFileStoreListAndComparison(t *testing.T) {
	s := newTestStore(t)
	for _, id := range []string{"b_2", "a_1"} {
		if err := s.SaveProduct(id, sampleAnalysis(id)); err != nil {
			t.Fatalf("SaveProduct(%s): %v", id, err)
		}
	}

	ids, err := s.ListProductIDs()
	if err != nil {
		t.Fatalf("ListProductIDs: %v", err)
	}
	// Summary CSVs must not show up, and order is sorted.
	if len(ids) != 2 || ids[0] != "a_1" || ids[1] != "b_2" {
		t.Errorf("ids = %v", ids)
	}

	cmp := &types.ComparisonResult{ComparisonID: "comparison_20260830_120000", TotalProducts: 2}
	if err := s.SaveComparison(cmp.ComparisonID, cmp); err != nil {
		t.Fatalf("SaveComparison: %v", err)
	}
	if _, err := os.Stat(filepath.Join(s.dataDir, "analysis", cmp.ComparisonID+".json")); err != nil {
		t.Errorf("comparison file missing: %v", err)
	}
}

func TestFileStoreOverwrite(t *testing.T) {
	s := newTestStore(t)
	a := sampleAnalysis("x_1")
	if err := s.SaveProduct(a.ProductID, a); err != nil {
		t.Fatal(err)
	}
	a.Enrichment.RecommendationScore = 10
	if err := s.SaveProduct(a.ProductID, a); err != nil {
		t.Fatal(err)
	}
	got, err := s.GetProduct("x_1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Enrichment.RecommendationScore != 10 {
		t.Errorf("overwrite not applied, score = %d", got.Enrichment.RecommendationScore)
	}
	// No leftover temp files from the atomic writes.
	entries, _ := os.ReadDir(filepath.Join(s.dataDir, "products"))
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".tmp-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}
