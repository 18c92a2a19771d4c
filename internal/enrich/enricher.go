package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/serhatcanunal1/btk-urun-analiz/internal/config"
	"github.com/serhatcanunal1/btk-urun-analiz/internal/types"
)

// Enricher runs the generate-parse-repair-substitute pipeline.
type Enricher struct {
	gen    Generator
	cfg    config.AI
	logger *slog.Logger
}

// New creates an Enricher. gen may be nil, in which case every call
// takes the substitute path.
func New(gen Generator, cfg config.AI, logger *slog.Logger) *Enricher {
	return &Enricher{
		gen:    gen,
		cfg:    cfg,
		logger: logger.With("component", "enricher"),
	}
}

// Enrich analyzes one product's reviews. Products without reviews
// short-circuit to a fixed result without touching the backend.
func (e *Enricher) Enrich(ctx context.Context, product types.ProductRecord, title types.TitleInfo) types.EnrichmentResult {
	if len(product.Reviews) == 0 {
		return zeroReviewResult()
	}
	if !e.cfg.Enabled || e.gen == nil {
		return Substitute(product, title)
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.AnalysisTimeout)
	defer cancel()

	raw, err := e.gen.Generate(ctx, analysisPrompt(product, e.cfg.MaxPromptReviews))
	if err != nil {
		e.logGenerateFailure(product.URL, "analysis", err)
		return Substitute(product, title)
	}

	result, err := parseResult(raw)
	if err != nil {
		e.logger.Warn("unrecoverable model output, using substitute",
			"url", product.URL, "error", err)
		return Substitute(product, title)
	}
	normalize(&result)
	return result
}

// ExtractThemes asks the backend for common review themes, with the
// keyword extractor as fallback.
func (e *Enricher) ExtractThemes(ctx context.Context, reviews []types.ReviewRecord) []string {
	if len(reviews) == 0 {
		return []string{}
	}
	if !e.cfg.Enabled || e.gen == nil {
		return KeywordThemes(reviews)
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.ThemeTimeout)
	defer cancel()

	raw, err := e.gen.Generate(ctx, themesPrompt(reviews, e.cfg.MaxPromptReviews))
	if err != nil {
		e.logGenerateFailure("", "themes", err)
		return KeywordThemes(reviews)
	}

	var parsed struct {
		Themes []string `json:"themes"`
	}
	if err := json.Unmarshal([]byte(ExtractJSON(raw)), &parsed); err != nil {
		if err = json.Unmarshal([]byte(Repair(ExtractJSON(raw))), &parsed); err != nil {
			return KeywordThemes(reviews)
		}
	}
	if len(parsed.Themes) == 0 {
		return KeywordThemes(reviews)
	}
	return parsed.Themes
}

// Recommend picks one product out of several analyzed ones. The
// substitute favors the highest recommendation score.
func (e *Enricher) Recommend(ctx context.Context, analyses []types.ProductAnalysis) types.Recommendation {
	if len(analyses) == 0 {
		return types.Recommendation{}
	}
	if !e.cfg.Enabled || e.gen == nil {
		return substituteRecommendation(analyses)
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.ComparisonTimeout)
	defer cancel()

	raw, err := e.gen.Generate(ctx, comparisonPrompt(analyses))
	if err != nil {
		e.logGenerateFailure("", "comparison", err)
		return substituteRecommendation(analyses)
	}

	var rec types.Recommendation
	if err := json.Unmarshal([]byte(ExtractJSON(raw)), &rec); err != nil {
		if err = json.Unmarshal([]byte(Repair(ExtractJSON(raw))), &rec); err != nil {
			return substituteRecommendation(analyses)
		}
	}
	if rec.RecommendedProduct == "" {
		return substituteRecommendation(analyses)
	}
	if rec.Confidence < 0 {
		rec.Confidence = 0
	}
	if rec.Confidence > 100 {
		rec.Confidence = 100
	}
	return rec
}

func (e *Enricher) logGenerateFailure(url, stage string, err error) {
	if errors.Is(err, types.ErrQuotaExceeded) {
		e.logger.Warn("generation quota exhausted, using substitute", "stage", stage, "url", url)
		return
	}
	e.logger.Warn("generation failed, using substitute", "stage", stage, "url", url, "error", err)
}

// parseResult tries a strict parse of the model output, then one
// repair-and-reparse pass.
func parseResult(raw string) (types.EnrichmentResult, error) {
	var result types.EnrichmentResult
	extracted := ExtractJSON(raw)
	if extracted == "{}" {
		return result, errors.New("no json object in model output")
	}
	if err := json.Unmarshal([]byte(extracted), &result); err == nil {
		return result, nil
	}
	repaired := Repair(extracted)
	if err := json.Unmarshal([]byte(repaired), &result); err != nil {
		return types.EnrichmentResult{}, err
	}
	result.Note = "JSON onarımı uygulandı"
	return result, nil
}

func zeroReviewResult() types.EnrichmentResult {
	return types.EnrichmentResult{
		SentimentSummary:    "Yorum bulunamadı",
		SentimentScore:      0,
		Themes:              []string{},
		Pros:                []string{},
		Cons:                []string{},
		Category:            "Genel",
		Strengths:           []string{},
		Weaknesses:          []string{"Yorum verisi yok"},
		RecommendationScore: 50,
		TargetAudience:      "Belirsiz",
		MarketPosition:      "Belirsiz",
		Note:                "Yorum bulunmadığı için analiz yapılmadı",
	}
}

// normalize guarantees full field coverage and in-range scores on
// results the model produced.
func normalize(r *types.EnrichmentResult) {
	r.SentimentScore = clamp(r.SentimentScore, 0, 10)
	if r.RecommendationScore < 0 {
		r.RecommendationScore = 0
	}
	if r.RecommendationScore > 100 {
		r.RecommendationScore = 100
	}
	if r.SentimentSummary == "" {
		r.SentimentSummary = sentimentSummary(r.SentimentScore)
	}
	if r.Category == "" {
		r.Category = "Genel"
	}
	if r.TargetAudience == "" {
		r.TargetAudience = "Genel kullanıcılar"
	}
	if r.MarketPosition == "" {
		r.MarketPosition = "Belirsiz"
	}
	if r.Themes == nil {
		r.Themes = []string{}
	}
	if r.Pros == nil {
		r.Pros = []string{}
	}
	if r.Cons == nil {
		r.Cons = []string{}
	}
	if r.Strengths == nil {
		r.Strengths = []string{}
	}
	if r.Weaknesses == nil {
		r.Weaknesses = []string{}
	}
}

func substituteRecommendation(analyses []types.ProductAnalysis) types.Recommendation {
	best := analyses[0]
	for _, a := range analyses[1:] {
		if a.Enrichment.RecommendationScore > best.Enrichment.RecommendationScore {
			best = a
		}
	}
	return types.Recommendation{
		RecommendedProduct: best.Basic.Title,
		Reason:             "En yüksek satın alma önerisi puanına sahip ürün",
		Confidence:         60,
		Note:               "Kural tabanlı öneri kullanıldı",
	}
}
