package scrape

import (
	"strings"

	"github.com/serhatcanunal1/btk-urun-analiz/internal/review"
	"github.com/serhatcanunal1/btk-urun-analiz/internal/selector"
)

// Strategy holds the locator cascades for one marketplace. Cascades
// are ordered most-specific first; markup churn on these sites is
// constant, so every field carries spares.
type Strategy struct {
	Name           string
	TitleLocators  []selector.Locator
	PriceLocators  []selector.Locator
	RatingLocators []selector.Locator
	ReviewPlan     review.Plan
}

// strategies maps marketplace domain suffixes to strategies.
var strategies = map[string]Strategy{
	"trendyol.com": {
		Name: "trendyol",
		TitleLocators: []selector.Locator{
			selector.CSS("h1.pr-new-br"),
			selector.CSS("h1[data-drroot]"),
			selector.XPath(`//h1[contains(@class,"pr-new-br")]`),
			selector.CSS("h1"),
		},
		PriceLocators: []selector.Locator{
			selector.CSS("span.prc-dsc"),
			selector.CSS("span.prc-slg"),
			selector.XPath(`//span[contains(@class,"prc-dsc")]`),
			selector.CSS("div.product-price-container span"),
		},
		RatingLocators: []selector.Locator{
			selector.CSS("div.rating-line-count"),
			selector.CSS("div.pr-rnr-sm-p > span"),
			selector.XPath(`//div[contains(@class,"rating-line-count")]`),
		},
		ReviewPlan: review.Plan{
			TabLocators: []selector.Locator{
				selector.XPath(`//a[contains(@href,"yorumlar")]`),
				selector.XPath(`//div[contains(text(),"Değerlendirmeler")]`),
			},
			LoadMoreLocators: []selector.Locator{
				selector.XPath(`//button[contains(text(),"Daha Fazla")]`),
			},
			ContainerLocators: []selector.Locator{
				selector.CSS("div.comment"),
				selector.CSS("div.rnr-com-w"),
				selector.XPath(`//div[contains(@class,"comment-text")]/..`),
			},
			TextLocators: []selector.Locator{
				selector.CSS("div.comment-text p"),
				selector.CSS("p.comment-text"),
				selector.CSS("p"),
			},
			RatingLocators: []selector.Locator{
				selector.CSSAttr("div.star-w div.full", "style"),
				selector.CSS("span.rating-score"),
			},
			AuthorLocators: []selector.Locator{
				selector.CSS("div.comment-info-item"),
				selector.CSS("span.user-name"),
			},
			DateLocators: []selector.Locator{
				selector.CSS("div.comment-info div.comment-info-item:last-child"),
				selector.CSS("span.comment-date"),
			},
		},
	},
	"hepsiburada.com": {
		Name: "hepsiburada",
		TitleLocators: []selector.Locator{
			selector.CSS("h1#product-name"),
			selector.CSS(`h1[itemprop="name"]`),
			selector.XPath(`//h1[@itemprop="name"]`),
			selector.CSS("h1"),
		},
		PriceLocators: []selector.Locator{
			selector.CSS(`span[itemprop="price"]`),
			selector.CSS("div[data-test-id='price-current-price']"),
			selector.XPath(`//span[@itemprop="price"]`),
		},
		RatingLocators: []selector.Locator{
			selector.CSS("span.rating-star"),
			selector.CSS("div[data-test-id='rating-score']"),
			selector.CSSAttr(`meta[itemprop="ratingValue"]`, "content"),
		},
		ReviewPlan: review.Plan{
			TabLocators: []selector.Locator{
				selector.XPath(`//a[contains(@href,"-yorumlari")]`),
				selector.XPath(`//span[contains(text(),"Değerlendirmeler")]`),
			},
			LoadMoreLocators: []selector.Locator{
				selector.XPath(`//button[contains(text(),"Daha fazla")]`),
			},
			ContainerLocators: []selector.Locator{
				selector.CSS("div[itemprop='review']"),
				selector.CSS("div.hermes-ReviewCard-module"),
				selector.CSS("div.review-item"),
			},
			TextLocators: []selector.Locator{
				selector.CSS("span[itemprop='description']"),
				selector.CSS("div.review-text"),
				selector.CSS("p"),
			},
			RatingLocators: []selector.Locator{
				selector.CSSAttr("meta[itemprop='ratingValue']", "content"),
				selector.CSS("div.star-rating"),
			},
			AuthorLocators: []selector.Locator{
				selector.CSS("span[itemprop='author']"),
				selector.CSS("div.reviewer-name"),
			},
			DateLocators: []selector.Locator{
				selector.CSSAttr("meta[itemprop='datePublished']", "content"),
				selector.CSS("span.review-date"),
			},
		},
	},
	"amazon.com.tr": {
		Name: "amazon",
		TitleLocators: []selector.Locator{
			selector.CSS("span#productTitle"),
			selector.XPath(`//span[@id="productTitle"]`),
			selector.CSS("h1"),
		},
		PriceLocators: []selector.Locator{
			selector.CSS("span.a-price span.a-offscreen"),
			selector.CSS("span.a-price-whole"),
			selector.XPath(`//span[contains(@class,"a-price-whole")]`),
		},
		RatingLocators: []selector.Locator{
			selector.CSS("span[data-hook='rating-out-of-text']"),
			selector.CSS("span.a-icon-alt"),
			selector.XPath(`//span[@class="a-icon-alt"]`),
		},
		ReviewPlan: review.Plan{
			LoadMoreLocators: []selector.Locator{
				selector.XPath(`//a[contains(text(),"tüm yorumları")]`),
			},
			ContainerLocators: []selector.Locator{
				selector.CSS("div[data-hook='review']"),
				selector.CSS("div.review"),
			},
			TextLocators: []selector.Locator{
				selector.CSS("span[data-hook='review-body'] span"),
				selector.CSS("span.review-text-content"),
				selector.CSS("p"),
			},
			RatingLocators: []selector.Locator{
				selector.CSS("i[data-hook='review-star-rating'] span"),
				selector.CSS("span.a-icon-alt"),
			},
			AuthorLocators: []selector.Locator{
				selector.CSS("span.a-profile-name"),
			},
			DateLocators: []selector.Locator{
				selector.CSS("span[data-hook='review-date']"),
			},
		},
	},
	"n11.com": {
		Name: "n11",
		TitleLocators: []selector.Locator{
			selector.CSS("h1.proName"),
			selector.XPath(`//h1[@class="proName"]`),
			selector.CSS("h1"),
		},
		PriceLocators: []selector.Locator{
			selector.CSS("ins.newPrice"),
			selector.CSS("div.newPrice ins"),
			selector.XPath(`//ins[contains(@class,"newPrice")]`),
		},
		RatingLocators: []selector.Locator{
			selector.CSS("span.ratingScore"),
			selector.CSSAttr("div.ratingCont span", "class"),
		},
		ReviewPlan: review.Plan{
			TabLocators: []selector.Locator{
				selector.XPath(`//a[contains(@href,"#degerlendirmeler")]`),
			},
			LoadMoreLocators: []selector.Locator{
				selector.XPath(`//a[contains(text(),"Daha Fazla")]`),
			},
			ContainerLocators: []selector.Locator{
				selector.CSS("li.comment"),
				selector.CSS("div.comment-item"),
			},
			TextLocators: []selector.Locator{
				selector.CSS("p.comment-text"),
				selector.CSS("p"),
			},
			RatingLocators: []selector.Locator{
				selector.CSSAttr("span.rating", "data-score"),
			},
			AuthorLocators: []selector.Locator{
				selector.CSS("span.commenter"),
			},
			DateLocators: []selector.Locator{
				selector.CSS("span.commentDate"),
			},
		},
	},
}

// strategyFor matches a domain against the registry by suffix, so
// regional mirrors and subdomains resolve to their marketplace.
func strategyFor(domain string) (Strategy, bool) {
	for suffix, strat := range strategies {
		if domain == suffix || strings.HasSuffix(domain, "."+suffix) {
			return strat, true
		}
	}
	// amazon.com.tr registered explicitly; plain amazon.com paths
	// share the same markup.
	if domain == "amazon.com" || strings.HasSuffix(domain, ".amazon.com") {
		return strategies["amazon.com.tr"], true
	}
	return Strategy{}, false
}

// SupportedDomains lists the registered marketplace suffixes.
func SupportedDomains() []string {
	out := make([]string, 0, len(strategies))
	for d := range strategies {
		out = append(out, d)
	}
	return out
}
