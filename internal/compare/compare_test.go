package compare

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/serhatcanunal1/btk-urun-analiz/internal/types"
)

func analysis(id string, price, rating float64, rec int, quality, posPct float64, reviews int) types.ProductAnalysis {
	a := types.ProductAnalysis{
		ProductID: id,
		Basic:     types.TitleInfo{Title: "Ürün " + id},
		Price:     types.PriceAnalysis{NumericValue: &price},
		Rating:    types.RatingAnalysis{NumericValue: &rating},
		Reviews: types.ReviewStats{
			TotalReviews: reviews,
			PositivePct:  posPct,
			QualityScore: quality,
		},
		Enrichment: types.EnrichmentResult{RecommendationScore: rec},
	}
	return a
}

func TestComparePriceExtremes(t *testing.T) {
	a := analysis("a", 100, 4.0, 70, 3, 50, 10)
	b := analysis("b", 300, 4.5, 80, 4, 60, 20)

	got := Compare([]types.ProductAnalysis{a, b})

	if got.InsufficientData {
		t.Fatal("unexpected insufficient data")
	}
	if !got.Price.Valid {
		t.Fatal("price comparison invalid")
	}
	if got.Price.Cheapest.ProductID != "a" || got.Price.MostExpensive.ProductID != "b" {
		t.Errorf("extremes = %s/%s", got.Price.Cheapest.ProductID, got.Price.MostExpensive.ProductID)
	}
	if got.Price.Range != 200 {
		t.Errorf("range = %v, want 200", got.Price.Range)
	}
	if got.Price.Average != 200 {
		t.Errorf("average = %v, want 200", got.Price.Average)
	}
}

func TestCompareInsufficientData(t *testing.T) {
	got := Compare([]types.ProductAnalysis{analysis("tek", 100, 4, 70, 3, 50, 5)})

	if !got.InsufficientData {
		t.Fatal("expected insufficient data flag")
	}
	if got.Reason == "" {
		t.Error("insufficient data needs a reason")
	}
	if got.TotalProducts != 1 {
		t.Errorf("total products = %d", got.TotalProducts)
	}
	if got.Rankings == nil {
		t.Error("rankings must be non-nil")
	}
}

func TestCompareComposite(t *testing.T) {
	// 0.4*rating/5 + 0.3*rec/100 + 0.2*quality/5 + 0.1*posPct/100
	a := analysis("a", 100, 5.0, 100, 5, 100, 10)
	b := analysis("b", 200, 2.5, 50, 2.5, 50, 10)

	got := Compare([]types.ProductAnalysis{b, a})

	if len(got.Rankings) != 2 {
		t.Fatalf("rankings = %d", len(got.Rankings))
	}
	if got.Rankings[0].ProductID != "a" {
		t.Errorf("top ranked = %s, want a", got.Rankings[0].ProductID)
	}
	if math.Abs(got.Rankings[0].Composite-1.0) > 1e-9 {
		t.Errorf("perfect composite = %v, want 1.0", got.Rankings[0].Composite)
	}
	if math.Abs(got.Rankings[1].Composite-0.5) > 1e-9 {
		t.Errorf("half composite = %v, want 0.5", got.Rankings[1].Composite)
	}
}

func TestCompareMissingTermsScoreZero(t *testing.T) {
	a := analysis("a", 100, 4, 80, 3, 50, 10)
	b := types.ProductAnalysis{
		ProductID: "b",
		Basic:     types.TitleInfo{Title: "Ürün b"},
		// no price, no rating, no enrichment
	}

	got := Compare([]types.ProductAnalysis{a, b})

	var bScore types.ProductScore
	for _, s := range got.Rankings {
		if s.ProductID == "b" {
			bScore = s
		}
	}
	if bScore.RatingTerm != 0 || bScore.Composite != 0 {
		t.Errorf("missing data should contribute zero, got %+v", bScore)
	}
	// Price comparison only covers parseable prices.
	if got.Price.Cheapest.ProductID != "a" || got.Price.MostExpensive.ProductID != "a" {
		t.Error("price extremes should both be the only priced product")
	}
}

func TestNewComparisonID(t *testing.T) {
	ts := time.Date(2026, 8, 31, 14, 5, 9, 0, time.UTC)
	got := NewComparisonID(ts)
	if got != "comparison_20260831_140509" {
		t.Errorf("id = %q", got)
	}
	if !strings.HasPrefix(got, "comparison_") {
		t.Errorf("id prefix missing: %q", got)
	}
}

func TestCompareReviewAggregates(t *testing.T) {
	a := analysis("a", 100, 4, 70, 3, 80, 5)
	b := analysis("b", 200, 4, 70, 3, 20, 15)

	got := Compare([]types.ProductAnalysis{a, b})

	if got.Reviews.MostReviewed != "b" || got.Reviews.LeastReviewed != "a" {
		t.Errorf("review extremes = %s/%s", got.Reviews.MostReviewed, got.Reviews.LeastReviewed)
	}
	if got.Reviews.MostPositive != "a" {
		t.Errorf("most positive = %s, want a", got.Reviews.MostPositive)
	}
	if got.Reviews.TotalReviews != 20 {
		t.Errorf("total reviews = %d, want 20", got.Reviews.TotalReviews)
	}
	if got.Reviews.AvgPositive != 50 {
		t.Errorf("avg positive = %v, want 50", got.Reviews.AvgPositive)
	}
}
