package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/serhatcanunal1/btk-urun-analiz/internal/types"
)

// Rating category labels for the 5-point scale.
const (
	RatingExcellent = "Mükemmel"
	RatingVeryGood  = "Çok İyi"
	RatingGood      = "İyi"
	RatingAverage   = "Orta"
	RatingWeak      = "Zayıf"
)

var ratingPattern = regexp.MustCompile(`\d+[.,]?\d*`)

// Rating analyzes a raw rating string. Values on a 10-point scale are
// halved; anything outside [0,10] is rejected rather than clamped so
// a bad selector match never fabricates a score.
func Rating(text string) types.RatingAnalysis {
	out := types.RatingAnalysis{
		OriginalText: text,
		Category:     Unknown,
	}

	m := ratingPattern.FindString(text)
	if m == "" {
		return out
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", "."), 64)
	if err != nil {
		return out
	}

	switch {
	case v >= 0 && v <= 5:
		// already on the 5-point scale
	case v > 5 && v <= 10:
		v /= 2
	default:
		return out
	}

	out.NumericValue = &v
	out.Category = ratingCategory(v)
	out.Percentage = v / 5 * 100
	return out
}

func ratingCategory(v float64) string {
	switch {
	case v >= 4.5:
		return RatingExcellent
	case v >= 4.0:
		return RatingVeryGood
	case v >= 3.5:
		return RatingGood
	case v >= 3.0:
		return RatingAverage
	default:
		return RatingWeak
	}
}
