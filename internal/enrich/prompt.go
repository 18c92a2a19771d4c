package enrich

import (
	"fmt"
	"strings"

	"github.com/serhatcanunal1/btk-urun-analiz/internal/types"
)

const jsonOnlyDirective = "SADECE geçerli JSON döndür. Açıklama, markdown veya kod bloğu ekleme."

// reviewBlock renders at most max review lines for a prompt.
func reviewBlock(reviews []types.ReviewRecord, max int) string {
	if len(reviews) > max {
		reviews = reviews[:max]
	}
	var b strings.Builder
	for i, r := range reviews {
		rating := "-"
		if r.Rating != nil {
			rating = fmt.Sprintf("%.0f", *r.Rating)
		}
		fmt.Fprintf(&b, "%d. [%s yıldız] %s\n", i+1, rating, r.Text)
	}
	return b.String()
}

func analysisPrompt(product types.ProductRecord, maxReviews int) string {
	return fmt.Sprintf(`Bir e-ticaret ürününü müşteri yorumlarına göre analiz et.

Ürün: %s
Fiyat: %s
Puan: %s

Yorumlar:
%s
Şu alanlarla bir JSON nesnesi döndür:
{
  "sentiment_summary": "yorumların genel özeti (1-2 cümle)",
  "sentiment_score": 0-10 arası sayı,
  "common_themes": ["tema1", "tema2"],
  "pros": ["artı1"],
  "cons": ["eksi1"],
  "category": "ürün kategorisi",
  "strengths": ["güçlü yön"],
  "weaknesses": ["zayıf yön"],
  "purchase_recommendation": 0-100 arası tam sayı,
  "target_audience": "hedef kitle",
  "market_position": "pazar konumu"
}

%s`,
		product.Title, product.PriceText, product.RatingText,
		reviewBlock(product.Reviews, maxReviews), jsonOnlyDirective)
}

func themesPrompt(reviews []types.ReviewRecord, maxReviews int) string {
	return fmt.Sprintf(`Aşağıdaki müşteri yorumlarında geçen ortak temaları çıkar.

Yorumlar:
%s
Şu biçimde bir JSON nesnesi döndür: {"themes": ["tema1", "tema2", "tema3"]}

%s`, reviewBlock(reviews, maxReviews), jsonOnlyDirective)
}

func comparisonPrompt(analyses []types.ProductAnalysis) string {
	var b strings.Builder
	for i, a := range analyses {
		price := a.Price.OriginalText
		if price == "" {
			price = "bilinmiyor"
		}
		fmt.Fprintf(&b, "%d. %s | Fiyat: %s | Puan: %s | Duygu skoru: %.1f | AI önerisi: %d/100\n",
			i+1, a.Basic.Title, price, a.Rating.OriginalText,
			a.Enrichment.SentimentScore, a.Enrichment.RecommendationScore)
	}
	return fmt.Sprintf(`Aşağıdaki ürünleri karşılaştır ve hangisinin alınması gerektiğini öner.

Ürünler:
%s
Şu biçimde bir JSON nesnesi döndür:
{"recommended_product": "ürün adı", "reason": "gerekçe", "confidence_score": 0-100 arası tam sayı}

%s`, b.String(), jsonOnlyDirective)
}
