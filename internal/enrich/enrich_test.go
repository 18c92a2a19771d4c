package enrich

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/serhatcanunal1/btk-urun-analiz/internal/config"
	"github.com/serhatcanunal1/btk-urun-analiz/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func testAIConfig() config.AI {
	return config.AI{
		Enabled:           true,
		Provider:          "gemini",
		ThemeTimeout:      15 * time.Second,
		AnalysisTimeout:   30 * time.Second,
		ComparisonTimeout: 25 * time.Second,
		MaxPromptReviews:  30,
	}
}

// fakeGenerator returns a canned response.
type fakeGenerator struct {
	response string
	err      error
	calls    int
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	return f.response, f.err
}

// guardGenerator fails the test if the backend is ever invoked.
type guardGenerator struct{ t *testing.T }

func (g *guardGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.t.Fatal("generator must not be called")
	return "", nil
}

func rated(text string, stars float64) types.ReviewRecord {
	return types.ReviewRecord{Text: text, Rating: &stars, Provenance: types.ProvenanceScraped}
}

func sampleProduct() types.ProductRecord {
	return types.ProductRecord{
		URL:   "https://www.trendyol.com/x/y-p-1",
		Title: "Samsung Galaxy S24",
		Reviews: []types.ReviewRecord{
			rated("Harika telefon, çok memnun kaldım", 5),
			rated("Kargo hızlıydı, kalitesi iyi", 5),
			rated("Batarya kötü, pişman oldum", 2),
			rated("Fena değil", 3),
		},
	}
}

func TestEnrichZeroReviewsSkipsBackend(t *testing.T) {
	e := New(&guardGenerator{t: t}, testAIConfig(), testLogger)

	got := e.Enrich(context.Background(), types.ProductRecord{Title: "Ürün"}, types.TitleInfo{})

	if got.SentimentSummary != "Yorum bulunamadı" {
		t.Errorf("summary = %q", got.SentimentSummary)
	}
	if got.SentimentScore != 0 {
		t.Errorf("score = %v, want 0", got.SentimentScore)
	}
	if got.Themes == nil || got.Pros == nil || got.Cons == nil {
		t.Error("collections must be non-nil")
	}
}

func TestEnrichCleanResponse(t *testing.T) {
	gen := &fakeGenerator{response: `{
		"sentiment_summary": "Kullanıcılar üründen memnun",
		"sentiment_score": 8.2,
		"common_themes": ["kalite", "kargo"],
		"pros": ["hızlı"],
		"cons": ["pahalı"],
		"category": "Elektronik/Telefon",
		"strengths": ["marka"],
		"weaknesses": ["fiyat"],
		"purchase_recommendation": 85,
		"target_audience": "Teknoloji meraklıları",
		"market_position": "Üst segment"
	}`}
	e := New(gen, testAIConfig(), testLogger)

	got := e.Enrich(context.Background(), sampleProduct(), types.TitleInfo{})

	if gen.calls != 1 {
		t.Fatalf("generator calls = %d, want 1", gen.calls)
	}
	if got.SentimentScore != 8.2 {
		t.Errorf("score = %v", got.SentimentScore)
	}
	if got.RecommendationScore != 85 {
		t.Errorf("recommendation = %d", got.RecommendationScore)
	}
	if got.Note != "" {
		t.Errorf("clean parse should not set note, got %q", got.Note)
	}
}

func TestEnrichRepairsAlmostJSON(t *testing.T) {
	gen := &fakeGenerator{response: "```json\n{'sentiment_summary': 'Olumlu', sentiment_score: 7, purchase_recommendation: 70,}\n```"}
	e := New(gen, testAIConfig(), testLogger)

	got := e.Enrich(context.Background(), sampleProduct(), types.TitleInfo{})

	if got.SentimentSummary != "Olumlu" {
		t.Errorf("summary = %q", got.SentimentSummary)
	}
	if got.SentimentScore != 7 {
		t.Errorf("score = %v", got.SentimentScore)
	}
	if got.Note != "JSON onarımı uygulandı" {
		t.Errorf("note = %q", got.Note)
	}
	if got.Themes == nil {
		t.Error("themes must be non-nil after normalize")
	}
}

func TestEnrichSubstituteOnGarbage(t *testing.T) {
	gen := &fakeGenerator{response: "model bugün konuşkan değil"}
	e := New(gen, testAIConfig(), testLogger)

	got := e.Enrich(context.Background(), sampleProduct(), types.TitleInfo{Brand: "Samsung"})

	if got.Note != "Kural tabanlı analiz kullanıldı" {
		t.Errorf("note = %q", got.Note)
	}
	if len(got.Strengths) == 0 {
		t.Error("substitute must fill strengths")
	}
}

func TestEnrichSubstituteOnQuota(t *testing.T) {
	gen := &fakeGenerator{err: types.ErrQuotaExceeded}
	e := New(gen, testAIConfig(), testLogger)

	got := e.Enrich(context.Background(), sampleProduct(), types.TitleInfo{})
	if got.Note != "Kural tabanlı analiz kullanıldı" {
		t.Errorf("note = %q", got.Note)
	}
	// 4 positive and 2 negative keyword hits over 4 reviews: 5 + (4-2)/4
	if got.SentimentScore != 5.5 {
		t.Errorf("substitute score = %v, want 5.5", got.SentimentScore)
	}
}

func TestSubstituteCountsKeywordOccurrences(t *testing.T) {
	product := types.ProductRecord{
		Title: "Ürün",
		Reviews: []types.ReviewRecord{
			rated("Harika, mükemmel ve kaliteli", 5),
		},
	}

	got := Substitute(product, types.TitleInfo{})

	// Three positive hits in a single review: 5 + 3/1.
	if got.SentimentScore != 8 {
		t.Errorf("score = %v, want 8", got.SentimentScore)
	}
	if got.SentimentSummary != "Yorumlar genel olarak olumlu" {
		t.Errorf("summary = %q", got.SentimentSummary)
	}
}

func TestRepair(t *testing.T) {
	in := `{'a': 1, "b": bare_word,}`
	want := `{"a": 1, "b": "bare_word"}`
	if got := Repair(in); got != want {
		t.Errorf("Repair = %q, want %q", got, want)
	}
}

func TestRepairKeepsLiterals(t *testing.T) {
	in := `{flag: true, missing: null}`
	want := `{"flag": true, "missing": null}`
	if got := Repair(in); got != want {
		t.Errorf("Repair = %q, want %q", got, want)
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"a": 1}`, `{"a": 1}`},
		{"prose around", `Sonuç: {"a": {"b": 2}} bitti`, `{"a": {"b": 2}}`},
		{"fenced", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"brace in string", `{"a": "}"}`, `{"a": "}"}`},
		{"no object", "hiç json yok", "{}"},
		{"unbalanced", `{"a": 1`, "{}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractJSON(tt.in); got != tt.want {
				t.Errorf("ExtractJSON = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAnalyzeReviews(t *testing.T) {
	stats := AnalyzeReviews(sampleProduct().Reviews)

	if stats.TotalReviews != 4 {
		t.Errorf("total = %d", stats.TotalReviews)
	}
	if stats.ScrapedReviews != 4 || stats.SyntheticReviews != 0 {
		t.Errorf("scraped/synthetic = %d/%d", stats.ScrapedReviews, stats.SyntheticReviews)
	}
	if stats.Positive != 2 || stats.Negative != 1 || stats.Neutral != 1 {
		t.Errorf("pos/neg/neu = %d/%d/%d, want 2/1/1", stats.Positive, stats.Negative, stats.Neutral)
	}
	if stats.PositivePct != 50 {
		t.Errorf("positive pct = %v, want 50", stats.PositivePct)
	}
	if stats.QualityScore < 0 || stats.QualityScore > 5 {
		t.Errorf("quality score %v out of range", stats.QualityScore)
	}
	if stats.KeyThemes == nil {
		t.Error("key themes must be non-nil")
	}

	empty := AnalyzeReviews(nil)
	if empty.TotalReviews != 0 || empty.KeyThemes == nil {
		t.Errorf("empty stats = %+v", empty)
	}
}

func TestExtractThemesFallback(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("down")}
	e := New(gen, testAIConfig(), testLogger)

	themes := e.ExtractThemes(context.Background(), sampleProduct().Reviews)
	if len(themes) == 0 {
		t.Fatal("keyword fallback produced no themes")
	}
}

func TestRecommendSubstitutePicksBest(t *testing.T) {
	analyses := []types.ProductAnalysis{
		{Basic: types.TitleInfo{Title: "A"}, Enrichment: types.EnrichmentResult{RecommendationScore: 40}},
		{Basic: types.TitleInfo{Title: "B"}, Enrichment: types.EnrichmentResult{RecommendationScore: 90}},
	}
	e := New(nil, config.AI{Enabled: false}, testLogger)

	rec := e.Recommend(context.Background(), analyses)
	if rec.RecommendedProduct != "B" {
		t.Errorf("recommended = %q, want B", rec.RecommendedProduct)
	}
	if rec.Confidence != 60 {
		t.Errorf("confidence = %d, want 60", rec.Confidence)
	}
}
