package review

import (
	"fmt"

	"github.com/serhatcanunal1/btk-urun-analiz/internal/types"
)

// ratingWeights gives synthetic reviews a realistic skew toward the
// top of the scale: 40% five star, 30% four, 20% three, 7% two,
// 3% one.
var ratingWeights = []struct {
	rating int
	weight int
}{
	{5, 40},
	{4, 30},
	{3, 20},
	{2, 7},
	{1, 3},
}

// genericTemplates backs any marketplace plan without its own set.
var genericTemplates = map[int][]string{
	5: {
		"Harika bir ürün, beklentimin çok üzerinde çıktı. Herkese tavsiye ederim.",
		"Kargo çok hızlıydı, ürün açıklamayla birebir aynı. Çok memnunum.",
		"Uzun süredir kullanıyorum, hiçbir sorun yaşamadım. Kalitesi çok iyi.",
	},
	4: {
		"Genel olarak memnunum, fiyatına göre gayet başarılı bir ürün.",
		"Ürün güzel ama paketleme biraz daha özenli olabilirdi.",
		"Beklediğim gibi geldi, küçük eksikleri var ama idare eder.",
	},
	3: {
		"Fiyat performans olarak ortalama, ne iyi ne kötü diyebilirim.",
		"Ürün fena değil ama fotoğraftaki kadar iyi durmuyor.",
		"İdare eder, daha iyisini beklerdim açıkçası.",
	},
	2: {
		"Kargo geç geldi ve kutu hasarlıydı, ürün de beklentimi karşılamadı.",
		"Kalitesi fiyatına göre düşük, tavsiye etmem.",
	},
	1: {
		"Ürün bozuk geldi, iade sürecindeyim. Hiç memnun kalmadım.",
		"Kesinlikle almayın, açıklamayla alakası yok.",
	},
}

// synthesize generates n placeholder reviews tagged as synthetic.
// Dates are synthesized within the last 90 days so exports stay
// plausible without masquerading as scraped data.
func (h *Harvester) synthesize(plan Plan, n int) []types.ReviewRecord {
	templates := plan.Templates
	if len(templates) == 0 {
		templates = genericTemplates
	}

	out := make([]types.ReviewRecord, 0, n)
	for i := 0; i < n; i++ {
		stars := h.pickRating()
		texts := templates[stars]
		if len(texts) == 0 {
			texts = genericTemplates[stars]
		}
		rating := float64(stars)
		daysAgo := h.rng.Intn(90) + 1
		out = append(out, types.ReviewRecord{
			Text:       texts[h.rng.Intn(len(texts))],
			Rating:     &rating,
			Author:     fmt.Sprintf("Müşteri %d", h.rng.Intn(9000)+1000),
			Date:       h.now().AddDate(0, 0, -daysAgo).Format("02.01.2006"),
			Provenance: types.ProvenanceSynthetic,
		})
	}
	return out
}

func (h *Harvester) pickRating() int {
	roll := h.rng.Intn(100)
	for _, rw := range ratingWeights {
		if roll < rw.weight {
			return rw.rating
		}
		roll -= rw.weight
	}
	return 5
}
