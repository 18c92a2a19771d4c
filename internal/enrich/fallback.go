package enrich

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/serhatcanunal1/btk-urun-analiz/internal/types"
)

// NoteSubstitute marks results produced by the rule-based path.
const NoteSubstitute = "Kural tabanlı analiz kullanıldı"

// Turkish sentiment keyword lists for the rule-based substitute.
var positiveWords = []string{
	"harika", "mükemmel", "güzel", "iyi", "kaliteli", "memnun", "hızlı",
	"tavsiye", "başarılı", "süper", "beğendim", "sağlam", "uygun",
}

var negativeWords = []string{
	"kötü", "berbat", "yavaş", "bozuk", "sorun", "iade", "pişman",
	"eksik", "kalitesiz", "geç", "hasarlı", "almayın", "kırık",
}

// themeKeywords maps a presentable theme to the tokens that signal
// it in review text.
var themeKeywords = map[string][]string{
	"Kargo ve teslimat": {"kargo", "teslimat", "paket"},
	"Ürün kalitesi":     {"kalite", "kaliteli", "kalitesiz", "sağlam"},
	"Fiyat":             {"fiyat", "ucuz", "pahalı", "indirim"},
	"Batarya":           {"batarya", "şarj", "pil"},
	"Performans":        {"hızlı", "yavaş", "performans", "donma"},
	"Görünüm":           {"renk", "tasarım", "görünüm", "şık"},
}

// classify counts sentiment keyword occurrences in one review text.
// Repeated keywords count repeatedly; a review hammering "kötü" three
// times weighs more than one mentioning it once.
func classify(text string) (pos, neg int) {
	lower := strings.ToLower(text)
	for _, w := range positiveWords {
		pos += strings.Count(lower, w)
	}
	for _, w := range negativeWords {
		neg += strings.Count(lower, w)
	}
	return pos, neg
}

// AnalyzeReviews computes deterministic review statistics. It never
// calls the generative backend; the numbers here back the composite
// score even when enrichment degrades.
func AnalyzeReviews(reviews []types.ReviewRecord) types.ReviewStats {
	stats := types.ReviewStats{
		TotalReviews: len(reviews),
		KeyThemes:    []string{},
	}
	if len(reviews) == 0 {
		return stats
	}

	totalLen := 0
	rated := 0
	for _, r := range reviews {
		if r.Provenance == types.ProvenanceSynthetic {
			stats.SyntheticReviews++
		} else {
			stats.ScrapedReviews++
		}
		totalLen += utf8.RuneCountInString(r.Text)
		if r.Rating != nil {
			rated++
		}
		pos, neg := classify(r.Text)
		switch {
		case pos > neg:
			stats.Positive++
		case neg > pos:
			stats.Negative++
		default:
			stats.Neutral++
		}
	}

	n := float64(len(reviews))
	stats.PositivePct = float64(stats.Positive) / n * 100
	stats.NegativePct = float64(stats.Negative) / n * 100
	stats.NeutralPct = float64(stats.Neutral) / n * 100
	stats.AverageLength = float64(totalLen) / n
	stats.QualityScore = qualityScore(stats.AverageLength, float64(rated)/n)
	stats.KeyThemes = KeywordThemes(reviews)
	return stats
}

// qualityScore rates the review set on a 0-5 scale from average
// length and the fraction of reviews carrying a star rating.
func qualityScore(avgLen, ratedFraction float64) float64 {
	lengthTerm := avgLen / 80
	if lengthTerm > 1 {
		lengthTerm = 1
	}
	return clamp(lengthTerm*2.5+ratedFraction*2.5, 0, 5)
}

// KeywordThemes extracts recurring themes by keyword counting,
// ordered by frequency. At most five themes are returned.
func KeywordThemes(reviews []types.ReviewRecord) []string {
	counts := make(map[string]int)
	for _, r := range reviews {
		lower := strings.ToLower(r.Text)
		for theme, words := range themeKeywords {
			for _, w := range words {
				if strings.Contains(lower, w) {
					counts[theme]++
					break
				}
			}
		}
	}

	themes := make([]string, 0, len(counts))
	for t := range counts {
		themes = append(themes, t)
	}
	sort.Slice(themes, func(i, j int) bool {
		if counts[themes[i]] != counts[themes[j]] {
			return counts[themes[i]] > counts[themes[j]]
		}
		return themes[i] < themes[j]
	})
	if len(themes) > 5 {
		themes = themes[:5]
	}
	return themes
}

// Substitute builds a complete EnrichmentResult without the
// generative backend. Every field gets a value so consumers never
// see a partial analysis.
func Substitute(product types.ProductRecord, title types.TitleInfo) types.EnrichmentResult {
	n := len(product.Reviews)
	posHits, negHits := 0, 0
	posReviews, negReviews := 0, 0
	for _, r := range product.Reviews {
		pos, neg := classify(r.Text)
		posHits += pos
		negHits += neg
		switch {
		case pos > neg:
			posReviews++
		case neg > pos:
			negReviews++
		}
	}

	// Keyword occurrences, not classified reviews, drive the score:
	// 5 + (positive hits - negative hits) / review count, clamped.
	score := 5.0
	if n > 0 {
		score = clamp(5+float64(posHits-negHits)/float64(n), 0, 10)
	}

	result := types.EnrichmentResult{
		SentimentSummary:    sentimentSummary(score),
		SentimentScore:      score,
		Themes:              KeywordThemes(product.Reviews),
		Pros:                []string{},
		Cons:                []string{},
		Category:            categoryFromTitle(title.Title),
		Strengths:           strengthsFromTitle(title),
		Weaknesses:          []string{"Detaylı analiz yapılamadı"},
		RecommendationScore: int(score * 10),
		TargetAudience:      "Genel kullanıcılar",
		MarketPosition:      "Belirsiz",
		Note:                NoteSubstitute,
	}
	if posReviews > 0 {
		result.Pros = append(result.Pros, fmt.Sprintf("%d yorumda olumlu ifadeler var", posReviews))
	}
	if negReviews > 0 {
		result.Cons = append(result.Cons, fmt.Sprintf("%d yorumda olumsuz ifadeler var", negReviews))
	}
	return result
}

func sentimentSummary(score float64) string {
	switch {
	case score >= 6:
		return "Yorumlar genel olarak olumlu"
	case score <= 4:
		return "Yorumlar genel olarak olumsuz"
	default:
		return "Yorumlar karışık"
	}
}

// categoryFromTitle guesses a product category from title keywords.
var categoryKeywords = []struct {
	category string
	words    []string
}{
	{"Elektronik/Telefon", []string{"telefon", "iphone", "galaxy", "redmi"}},
	{"Bilgisayar", []string{"laptop", "notebook", "bilgisayar", "macbook"}},
	{"Ev Aletleri", []string{"süpürge", "robot", "blender", "ütü", "kettle"}},
	{"Giyim", []string{"tişört", "pantolon", "elbise", "ayakkabı", "mont"}},
	{"Kozmetik", []string{"parfüm", "krem", "şampuan", "makyaj"}},
}

func categoryFromTitle(title string) string {
	lower := strings.ToLower(title)
	for _, ck := range categoryKeywords {
		for _, w := range ck.words {
			if strings.Contains(lower, w) {
				return ck.category
			}
		}
	}
	return "Genel"
}

func strengthsFromTitle(title types.TitleInfo) []string {
	var out []string
	if title.Brand != "" {
		out = append(out, "Bilinen marka: "+title.Brand)
	}
	if title.HasSpecs {
		out = append(out, "Teknik özellikler belirtilmiş")
	}
	if title.HasColor {
		out = append(out, "Renk seçeneği belirtilmiş")
	}
	if len(out) == 0 {
		out = append(out, "Müşteri yorumları mevcut")
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
