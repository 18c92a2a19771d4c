// Package extract turns raw scraped field text into structured
// analyses. All functions are pure and total: unparseable input
// produces a result with a nil numeric value and the "Belirsiz"
// category, never an error.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/serhatcanunal1/btk-urun-analiz/internal/types"
)

// Aggregation selects which of several numeric candidates in a price
// string becomes the price. Marketplace pages often show the
// discounted and the original price side by side.
type Aggregation string

const (
	AggregationFirst Aggregation = "first"
	AggregationMax   Aggregation = "max"
)

// Price category labels, bracketed in Turkish lira.
const (
	PriceEconomic = "Ekonomik"
	PriceMid      = "Orta Seviye"
	PricePremium  = "Premium"
	PriceLuxury   = "Lüks"
	Unknown       = "Belirsiz"
)

var (
	numberPattern = regexp.MustCompile(`\d[\d.,]*`)
	tokenPattern  = regexp.MustCompile(`\d+[.,]?\d*`)
)

// Price analyzes a raw price string. agg picks among multiple numeric
// candidates, fallbackCurrency is used when no currency marker is
// found in the text.
func Price(text string, agg Aggregation, fallbackCurrency string) types.PriceAnalysis {
	out := types.PriceAnalysis{
		OriginalText: text,
		Category:     Unknown,
		Currency:     inferCurrency(text, fallbackCurrency),
	}

	var values []float64
	for _, m := range numberPattern.FindAllString(text, -1) {
		if v, ok := parseNumber(m); ok {
			values = append(values, v)
			continue
		}
		// A malformed separator run like "1.2.3" still contains
		// numbers; fall back to its individual tokens instead of
		// discarding the match.
		for _, token := range tokenPattern.FindAllString(m, -1) {
			if v, ok := parseNumber(token); ok {
				values = append(values, v)
			}
		}
	}
	if len(values) == 0 {
		return out
	}

	picked := values[0]
	if agg == AggregationMax {
		for _, v := range values[1:] {
			if v > picked {
				picked = v
			}
		}
	}
	out.NumericValue = &picked
	out.Category = priceCategory(picked)
	out.HasDiscount = distinctCount(values) > 1
	return out
}

// parseNumber interprets a numeric substring with Turkish or English
// separator conventions. When both separators appear, the dot is the
// thousands separator and the comma the decimal mark.
func parseNumber(s string) (float64, bool) {
	s = strings.Trim(s, ".,")
	hasDot := strings.Contains(s, ".")
	hasComma := strings.Contains(s, ",")

	switch {
	case hasDot && hasComma:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case hasComma:
		s = strings.ReplaceAll(s, ",", ".")
	case hasDot:
		// A lone dot followed by exactly three digits is a
		// thousands separator ("12.499"), anything else a
		// decimal mark ("4.5").
		if i := strings.LastIndex(s, "."); len(s)-i-1 == 3 && strings.Count(s, ".") >= 1 {
			s = strings.ReplaceAll(s, ".", "")
		}
	}
	if strings.Count(s, ".") > 1 {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func priceCategory(v float64) string {
	switch {
	case v < 1000:
		return PriceEconomic
	case v < 5000:
		return PriceMid
	case v < 15000:
		return PricePremium
	default:
		return PriceLuxury
	}
}

func inferCurrency(text, fallback string) string {
	upper := strings.ToUpper(text)
	switch {
	case strings.Contains(text, "₺"), strings.Contains(upper, "TL"), strings.Contains(upper, "TRY"):
		return "TL"
	case strings.Contains(text, "$"), strings.Contains(upper, "USD"):
		return "USD"
	case strings.Contains(text, "€"), strings.Contains(upper, "EUR"):
		return "EUR"
	default:
		return fallback
	}
}

func distinctCount(values []float64) int {
	seen := make(map[float64]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}
	return len(seen)
}
