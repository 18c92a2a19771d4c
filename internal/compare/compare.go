// Package compare aggregates analyzed products into a cross-product
// comparison with a weighted composite ranking.
package compare

import (
	"fmt"
	"sort"
	"time"

	"github.com/serhatcanunal1/btk-urun-analiz/internal/types"
)

// Composite score weights. Rating dominates, the generative
// recommendation comes second, review quality and positive sentiment
// round it out.
const (
	weightRating         = 0.4
	weightRecommendation = 0.3
	weightQuality        = 0.2
	weightSentiment      = 0.1
)

// NewComparisonID derives the storage key for a comparison run.
func NewComparisonID(t time.Time) string {
	return "comparison_" + t.Format("20060102_150405")
}

// Compare builds a ComparisonResult over analyzed products. Fewer
// than two products yields a structured insufficient-data result
// instead of an error; callers persist it like any other.
func Compare(analyses []types.ProductAnalysis) types.ComparisonResult {
	now := time.Now()
	result := types.ComparisonResult{
		ComparisonID:  NewComparisonID(now),
		Timestamp:     now,
		TotalProducts: len(analyses),
		Rankings:      []types.ProductScore{},
	}

	if len(analyses) < 2 {
		result.InsufficientData = true
		result.Reason = fmt.Sprintf("karşılaştırma için en az 2 ürün gerekir, %d var", len(analyses))
		return result
	}

	result.Price = comparePrices(analyses)
	result.Rating = compareRatings(analyses)
	result.Reviews = compareReviews(analyses)
	result.Rankings = rank(analyses)
	return result
}

func comparePrices(analyses []types.ProductAnalysis) types.PriceComparison {
	var points []types.PricePoint
	sum := 0.0
	for _, a := range analyses {
		if a.Price.NumericValue == nil {
			continue
		}
		points = append(points, types.PricePoint{
			ProductID: a.ProductID,
			Title:     a.Basic.Title,
			Value:     *a.Price.NumericValue,
			Category:  a.Price.Category,
		})
		sum += *a.Price.NumericValue
	}
	if len(points) == 0 {
		return types.PriceComparison{}
	}

	cheapest, expensive := points[0], points[0]
	for _, p := range points[1:] {
		if p.Value < cheapest.Value {
			cheapest = p
		}
		if p.Value > expensive.Value {
			expensive = p
		}
	}
	return types.PriceComparison{
		Valid:         true,
		Cheapest:      &cheapest,
		MostExpensive: &expensive,
		Range:         expensive.Value - cheapest.Value,
		Average:       sum / float64(len(points)),
	}
}

func compareRatings(analyses []types.ProductAnalysis) types.RatingComparison {
	var points []types.RatingPoint
	sum := 0.0
	for _, a := range analyses {
		if a.Rating.NumericValue == nil {
			continue
		}
		points = append(points, types.RatingPoint{
			ProductID: a.ProductID,
			Title:     a.Basic.Title,
			Value:     *a.Rating.NumericValue,
			Category:  a.Rating.Category,
		})
		sum += *a.Rating.NumericValue
	}
	if len(points) == 0 {
		return types.RatingComparison{}
	}

	highest, lowest := points[0], points[0]
	for _, p := range points[1:] {
		if p.Value > highest.Value {
			highest = p
		}
		if p.Value < lowest.Value {
			lowest = p
		}
	}
	return types.RatingComparison{
		Valid:      true,
		Highest:    &highest,
		Lowest:     &lowest,
		Difference: highest.Value - lowest.Value,
		Average:    sum / float64(len(points)),
	}
}

func compareReviews(analyses []types.ProductAnalysis) types.ReviewComparison {
	out := types.ReviewComparison{}
	total := 0
	posSum := 0.0
	most, least, mostPositive := analyses[0], analyses[0], analyses[0]
	for _, a := range analyses {
		total += a.Reviews.TotalReviews
		posSum += a.Reviews.PositivePct
		if a.Reviews.TotalReviews > most.Reviews.TotalReviews {
			most = a
		}
		if a.Reviews.TotalReviews < least.Reviews.TotalReviews {
			least = a
		}
		if a.Reviews.PositivePct > mostPositive.Reviews.PositivePct {
			mostPositive = a
		}
	}
	out.MostReviewed = most.ProductID
	out.LeastReviewed = least.ProductID
	out.MostPositive = mostPositive.ProductID
	out.TotalReviews = total
	out.AvgPositive = posSum / float64(len(analyses))
	return out
}

// rank computes the weighted composite per product and sorts
// descending. The sort is stable so equal scores keep input order.
func rank(analyses []types.ProductAnalysis) []types.ProductScore {
	scores := make([]types.ProductScore, 0, len(analyses))
	for _, a := range analyses {
		s := types.ProductScore{
			ProductID: a.ProductID,
			Title:     a.Basic.Title,
		}
		if a.Rating.NumericValue != nil {
			s.RatingTerm = *a.Rating.NumericValue / 5 * weightRating
		}
		s.RecommendationTerm = float64(a.Enrichment.RecommendationScore) / 100 * weightRecommendation
		s.QualityTerm = a.Reviews.QualityScore / 5 * weightQuality
		s.SentimentTerm = a.Reviews.PositivePct / 100 * weightSentiment
		s.Composite = s.RatingTerm + s.RecommendationTerm + s.QualityTerm + s.SentimentTerm
		scores = append(scores, s)
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Composite > scores[j].Composite
	})
	return scores
}
