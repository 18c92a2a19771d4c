package scrape

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/andybalholm/brotli"

	"github.com/serhatcanunal1/btk-urun-analiz/internal/config"
	"github.com/serhatcanunal1/btk-urun-analiz/internal/selector"
	"github.com/serhatcanunal1/btk-urun-analiz/internal/types"
)

// tlPricePattern finds a lira amount anywhere in static markup.
var tlPricePattern = regexp.MustCompile(`\d[\d.]*(?:,\d+)?\s*(?:TL|₺)`)

// genericTitleLocators work on most product pages regardless of
// marketplace.
var genericTitleLocators = []selector.Locator{
	selector.CSSAttr(`meta[property="og:title"]`, "content"),
	selector.CSS("h1"),
	selector.CSS("title"),
}

var genericPriceLocators = []selector.Locator{
	selector.CSSAttr(`meta[property="product:price:amount"]`, "content"),
	selector.CSS("span.prc-dsc"),
	selector.CSS(`span[itemprop="price"]`),
}

// Fallback fetches a product page over plain HTTP and extracts what
// it can from the static markup. It is the degraded path used when
// the browser scrape fails; dynamic content is out of reach here, so
// reviews are replaced with a single tagged placeholder.
type Fallback struct {
	client *http.Client
	cfg    *config.Config
	logger *slog.Logger
}

// NewFallback builds the fallback fetcher. Decompression is handled
// manually so brotli responses work too.
func NewFallback(cfg *config.Config, logger *slog.Logger) *Fallback {
	return &Fallback{
		client: &http.Client{
			Timeout: cfg.Scraper.PageTimeout,
			Transport: &http.Transport{
				DisableCompression: true,
			},
		},
		cfg:    cfg,
		logger: logger.With("component", "scrape_fallback"),
	}
}

// Fetch retrieves and parses a product page without a browser.
func (f *Fallback) Fetch(ctx context.Context, url string) (types.ProductRecord, error) {
	domain := types.NormalizeDomain(url)
	record := types.ProductRecord{
		URL:       url,
		Domain:    domain,
		ScrapedAt: time.Now(),
	}

	doc, err := f.fetchDocument(ctx, url)
	if err != nil {
		return record, &types.ScrapeError{URL: url, Domain: domain, Err: err}
	}

	title, ok := selector.Resolve(doc, genericTitleLocators, 3)
	if !ok {
		return record, &types.ScrapeError{URL: url, Domain: domain, Err: fmt.Errorf("no title in static markup")}
	}
	record.Title = strings.TrimSpace(title)

	if price, ok := selector.Resolve(doc, genericPriceLocators, 1); ok {
		record.PriceText = price
	} else if html, err := doc.Lookup(selector.XPath("//body")); err == nil {
		record.PriceText = tlPricePattern.FindString(html)
	}

	rating := 4.0
	record.Reviews = []types.ReviewRecord{{
		Text:       "Ürün sayfası sınırlı modda alındı, gerçek yorumlar yüklenemedi.",
		Rating:     &rating,
		Author:     "Sistem",
		Date:       time.Now().Format("02.01.2006"),
		Provenance: types.ProvenanceSynthetic,
	}}
	record.ReviewCount = len(record.Reviews)
	record.Outcome = types.FetchOutcome{Success: true, Method: types.FetchFallback}
	return record, nil
}

func (f *Fallback) fetchDocument(ctx context.Context, url string) (*selector.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", f.cfg.Scraper.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "tr-TR,tr;q=0.9,en;q=0.5")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := decompressedReader(resp.Body, resp.Header.Get("Content-Encoding"))
	if err != nil {
		return nil, fmt.Errorf("decompress: %w", err)
	}
	defer body.Close()

	doc, err := selector.Parse(body)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// decompressedReader wraps the body according to Content-Encoding.
// Handles gzip, deflate, and brotli.
func decompressedReader(r io.ReadCloser, encoding string) (io.ReadCloser, error) {
	switch strings.ToLower(encoding) {
	case "gzip":
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		return gz, nil
	case "deflate":
		return flate.NewReader(r), nil
	case "br":
		return io.NopCloser(brotli.NewReader(r)), nil
	default:
		return r, nil
	}
}
