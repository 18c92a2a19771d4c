package extract

import (
	"regexp"
	"strings"

	"github.com/serhatcanunal1/btk-urun-analiz/internal/types"
)

// knownBrands covers the brands most common on Turkish marketplaces.
// Matching is case-insensitive against title tokens.
var knownBrands = []string{
	"Samsung", "Apple", "iPhone", "Xiaomi", "Huawei", "Oppo", "Realme",
	"Poco", "Tecno", "Lenovo", "HP", "Dell", "Asus", "Acer", "Monster",
	"Casper", "Vestel", "Arçelik", "Beko", "Philips", "Bosch", "Siemens",
	"Dyson", "Sony", "LG", "JBL", "Logitech", "Anker", "Baseus",
}

// turkishColors lists color tokens looked for in titles.
var turkishColors = []string{
	"siyah", "beyaz", "mavi", "kırmızı", "yeşil", "sarı", "mor", "pembe",
	"gri", "gümüş", "altın", "lacivert", "turuncu", "kahverengi", "bej",
}

var specPattern = regexp.MustCompile(`(?i)\d+\s*(gb|tb|mp|mah|hz|inç|inch|watt|litre)\b`)

// Title extracts cheap structural features from a product title:
// brand, a model guess, and whether the title carries spec or color
// tokens. These feed the rule-based enrichment substitute.
func Title(text string) types.TitleInfo {
	out := types.TitleInfo{Title: text}
	if text == "" {
		return out
	}

	lower := strings.ToLower(text)
	tokens := strings.Fields(text)

	for i, tok := range tokens {
		for _, brand := range knownBrands {
			if strings.EqualFold(tok, brand) {
				out.Brand = brand
				if i+1 < len(tokens) {
					out.Model = tokens[i+1]
				}
				break
			}
		}
		if out.Brand != "" {
			break
		}
	}

	out.HasSpecs = specPattern.MatchString(text)

	for _, color := range turkishColors {
		if strings.Contains(lower, color) {
			out.HasColor = true
			out.Colors = append(out.Colors, color)
		}
	}
	return out
}
