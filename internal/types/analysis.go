package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// PriceAnalysis is the derived interpretation of a raw price string.
type PriceAnalysis struct {
	OriginalText string   `json:"original_text"`
	NumericValue *float64 `json:"numeric_value"`
	Category     string   `json:"category"`
	Currency     string   `json:"currency"`
	HasDiscount  bool     `json:"has_discount"`
}

// RatingAnalysis is the derived interpretation of a raw rating string.
type RatingAnalysis struct {
	OriginalText string   `json:"original_text"`
	NumericValue *float64 `json:"numeric_value"`
	Category     string   `json:"category"`
	Percentage   float64  `json:"percentage"`
}

// TitleInfo holds cheap features extracted from a product title.
type TitleInfo struct {
	Title    string   `json:"title"`
	Brand    string   `json:"brand"`
	Model    string   `json:"model"`
	HasSpecs bool     `json:"has_specs"`
	HasColor bool     `json:"has_color"`
	Colors   []string `json:"colors,omitempty"`
}

// ReviewStats summarizes a product's review set using deterministic
// keyword heuristics. Recomputed each run, never persisted alone.
type ReviewStats struct {
	TotalReviews     int      `json:"total_reviews"`
	ScrapedReviews   int      `json:"scraped_reviews"`
	SyntheticReviews int      `json:"synthetic_reviews"`
	Positive         int      `json:"positive"`
	Negative         int      `json:"negative"`
	Neutral          int      `json:"neutral"`
	PositivePct      float64  `json:"positive_pct"`
	NegativePct      float64  `json:"negative_pct"`
	NeutralPct       float64  `json:"neutral_pct"`
	AverageLength    float64  `json:"average_length"`
	QualityScore     float64  `json:"review_quality_score"` // 0-5
	KeyThemes        []string `json:"key_themes"`
}

// EnrichmentResult is the sentiment/theme/recommendation analysis for
// one product. Every field is populated on every path: when the
// generative capability fails, the rule-based substitute fills the
// same shape so consumers never branch on provenance.
type EnrichmentResult struct {
	SentimentSummary    string   `json:"sentiment_summary"`
	SentimentScore      float64  `json:"sentiment_score"` // 0-10
	Themes              []string `json:"common_themes"`
	Pros                []string `json:"pros"`
	Cons                []string `json:"cons"`
	Category            string   `json:"category"`
	Strengths           []string `json:"strengths"`
	Weaknesses          []string `json:"weaknesses"`
	RecommendationScore int      `json:"purchase_recommendation"` // 0-100
	TargetAudience      string   `json:"target_audience"`
	MarketPosition      string   `json:"market_position"`
	Note                string   `json:"note,omitempty"`
}

// ProductAnalysis is the persisted per-product document.
type ProductAnalysis struct {
	ProductID  string           `json:"product_id"`
	Timestamp  time.Time        `json:"timestamp"`
	URL        string           `json:"url"`
	Domain     string           `json:"domain"`
	Basic      TitleInfo        `json:"basic_info"`
	Price      PriceAnalysis    `json:"price_analysis"`
	Rating     RatingAnalysis   `json:"rating_analysis"`
	Reviews    ReviewStats      `json:"review_analysis"`
	Enrichment EnrichmentResult `json:"ai_analysis"`
	Raw        ProductRecord    `json:"raw_data"`
}

// FlatRow flattens the analysis into a single CSV-friendly row.
func (a *ProductAnalysis) FlatRow() map[string]string {
	row := map[string]string{
		"product_id":           a.ProductID,
		"timestamp":            a.Timestamp.Format(time.RFC3339),
		"url":                  a.URL,
		"domain":               a.Domain,
		"title":                a.Basic.Title,
		"brand":                a.Basic.Brand,
		"model":                a.Basic.Model,
		"price_text":           a.Price.OriginalText,
		"price_category":       a.Price.Category,
		"currency":             a.Price.Currency,
		"rating_text":          a.Rating.OriginalText,
		"rating_category":      a.Rating.Category,
		"total_reviews":        fmt.Sprintf("%d", a.Reviews.TotalReviews),
		"scraped_reviews":      fmt.Sprintf("%d", a.Reviews.ScrapedReviews),
		"synthetic_reviews":    fmt.Sprintf("%d", a.Reviews.SyntheticReviews),
		"positive_sentiment":   fmt.Sprintf("%.2f", a.Reviews.PositivePct),
		"negative_sentiment":   fmt.Sprintf("%.2f", a.Reviews.NegativePct),
		"review_quality_score": fmt.Sprintf("%.2f", a.Reviews.QualityScore),
		"sentiment_score":      fmt.Sprintf("%.1f", a.Enrichment.SentimentScore),
		"ai_category":          a.Enrichment.Category,
		"ai_recommendation":    fmt.Sprintf("%d", a.Enrichment.RecommendationScore),
		"ai_strengths":         strings.Join(a.Enrichment.Strengths, " | "),
		"ai_weaknesses":        strings.Join(a.Enrichment.Weaknesses, " | "),
		"fetch_method":         string(a.Raw.Outcome.Method),
	}
	if a.Price.NumericValue != nil {
		row["price_value"] = fmt.Sprintf("%.2f", *a.Price.NumericValue)
	} else {
		row["price_value"] = ""
	}
	if a.Rating.NumericValue != nil {
		row["rating_value"] = fmt.Sprintf("%.1f", *a.Rating.NumericValue)
	} else {
		row["rating_value"] = ""
	}
	return row
}

// ToJSON serializes the analysis document.
func (a *ProductAnalysis) ToJSON() ([]byte, error) {
	return json.MarshalIndent(a, "", "  ")
}

// PricePoint is one product's position in a price comparison.
type PricePoint struct {
	ProductID string  `json:"product_id"`
	Title     string  `json:"title"`
	Value     float64 `json:"value"`
	Category  string  `json:"category"`
}

// PriceComparison holds cross-product price extremes.
type PriceComparison struct {
	Valid         bool        `json:"valid"`
	Cheapest      *PricePoint `json:"cheapest,omitempty"`
	MostExpensive *PricePoint `json:"most_expensive,omitempty"`
	Range         float64     `json:"price_range"`
	Average       float64     `json:"average_price"`
}

// RatingPoint is one product's position in a rating comparison.
type RatingPoint struct {
	ProductID string  `json:"product_id"`
	Title     string  `json:"title"`
	Value     float64 `json:"value"`
	Category  string  `json:"category"`
}

// RatingComparison holds cross-product rating extremes.
type RatingComparison struct {
	Valid      bool         `json:"valid"`
	Highest    *RatingPoint `json:"highest_rated,omitempty"`
	Lowest     *RatingPoint `json:"lowest_rated,omitempty"`
	Difference float64      `json:"rating_difference"`
	Average    float64      `json:"average_rating"`
}

// ReviewComparison holds cross-product review-count extremes.
type ReviewComparison struct {
	MostReviewed  string  `json:"most_reviewed"`
	MostPositive  string  `json:"most_positive"`
	TotalReviews  int     `json:"total_reviews_all"`
	AvgPositive   float64 `json:"average_positive_sentiment"`
	LeastReviewed string  `json:"least_reviewed"`
}

// ProductScore is one product's weighted composite ranking entry.
type ProductScore struct {
	ProductID          string  `json:"product_id"`
	Title              string  `json:"title"`
	Composite          float64 `json:"total_score"`
	RatingTerm         float64 `json:"rating_score"`
	RecommendationTerm float64 `json:"ai_score"`
	QualityTerm        float64 `json:"quality_score"`
	SentimentTerm      float64 `json:"sentiment_score"`
}

// Recommendation is the AI-or-substitute "which product" verdict.
type Recommendation struct {
	RecommendedProduct string `json:"recommended_product"`
	Reason             string `json:"reason"`
	Confidence         int    `json:"confidence_score"` // 0-100
	Note               string `json:"note,omitempty"`
}

// ComparisonResult is the persisted cross-product comparison document.
type ComparisonResult struct {
	ComparisonID     string           `json:"comparison_id"`
	Timestamp        time.Time        `json:"timestamp"`
	TotalProducts    int              `json:"total_products"`
	InsufficientData bool             `json:"insufficient_data"`
	Reason           string           `json:"reason,omitempty"`
	Price            PriceComparison  `json:"price_comparison"`
	Rating           RatingComparison `json:"rating_comparison"`
	Reviews          ReviewComparison `json:"review_comparison"`
	Rankings         []ProductScore   `json:"rankings"`
	Recommendation   Recommendation   `json:"ai_recommendation"`
}
