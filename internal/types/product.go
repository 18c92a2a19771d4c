package types

import (
	"crypto/sha1"
	"encoding/hex"
	"net/url"
	"strings"
	"time"
)

// Provenance marks whether a review was scraped from the page or
// generated locally as a placeholder. It is mandatory on every
// ReviewRecord so downstream consumers can filter deterministically.
type Provenance string

const (
	ProvenanceScraped   Provenance = "scraped"
	ProvenanceSynthetic Provenance = "synthetic-demo"
)

// ReviewRecord is a single customer review.
type ReviewRecord struct {
	Text       string     `json:"text"`
	Rating     *float64   `json:"rating"` // 1-5, nil when unparseable
	Author     string     `json:"author,omitempty"`
	Date       string     `json:"date,omitempty"`
	Provenance Provenance `json:"provenance"`
}

// FetchMethod identifies which extraction strategy produced a record.
type FetchMethod string

const (
	FetchPrimary  FetchMethod = "primary"
	FetchFallback FetchMethod = "fallback"
)

// FetchOutcome records how a scrape attempt ended.
type FetchOutcome struct {
	Success     bool        `json:"success"`
	ErrorDetail string      `json:"error_detail,omitempty"`
	Method      FetchMethod `json:"method_used"`
}

// ProductRecord is the immutable result of one scrape attempt.
type ProductRecord struct {
	URL         string         `json:"url"`
	Domain      string         `json:"domain"`
	Title       string         `json:"title"`
	PriceText   string         `json:"price"`
	RatingText  string         `json:"rating"`
	ReviewCount int            `json:"review_count"`
	Reviews     []ReviewRecord `json:"reviews"`
	Outcome     FetchOutcome   `json:"fetch_outcome"`
	ScrapedAt   time.Time      `json:"scraped_at"`
}

// RealReviews returns only the reviews that were actually scraped.
func (p *ProductRecord) RealReviews() []ReviewRecord {
	out := make([]ReviewRecord, 0, len(p.Reviews))
	for _, r := range p.Reviews {
		if r.Provenance == ProvenanceScraped {
			out = append(out, r)
		}
	}
	return out
}

// SyntheticCount returns the number of backfilled placeholder reviews.
func (p *ProductRecord) SyntheticCount() int {
	n := 0
	for _, r := range p.Reviews {
		if r.Provenance == ProvenanceSynthetic {
			n++
		}
	}
	return n
}

// ProductID derives a stable storage key from a product URL: a
// normalized domain token joined with a product token parsed from the
// URL path. Trendyol-style "p-12345" and Amazon-style "/dp/ASIN"
// tokens are recognized; anything else falls back to a short hash of
// the full URL.
func ProductID(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "unknown_" + shortHash(rawURL)
	}

	domain := strings.ToLower(u.Hostname())
	domain = strings.TrimPrefix(domain, "www.")
	domain = strings.TrimSuffix(domain, ".tr")
	domain = strings.TrimSuffix(domain, ".com")

	token := productToken(u.Path)
	if token == "" {
		token = shortHash(rawURL)
	}
	return domain + "_" + token
}

func productToken(path string) string {
	if i := strings.Index(path, "p-"); i >= 0 {
		token := path[i+2:]
		if j := strings.IndexAny(token, "/?"); j >= 0 {
			token = token[:j]
		}
		if token != "" {
			return token
		}
	}
	if i := strings.Index(path, "/dp/"); i >= 0 {
		token := path[i+4:]
		if j := strings.IndexAny(token, "/?"); j >= 0 {
			token = token[:j]
		}
		if token != "" {
			return token
		}
	}
	return ""
}

func shortHash(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:4])
}

// NormalizeDomain extracts the bare marketplace domain from a URL.
func NormalizeDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}
