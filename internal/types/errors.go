package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	ErrUnsupportedSite   = errors.New("unsupported marketplace")
	ErrQuotaExceeded     = errors.New("generation quota exceeded")
	ErrGenerationTimeout = errors.New("generation timed out")
	ErrNoProducts        = errors.New("no products could be analyzed")
	ErrNotFound          = errors.New("record not found")
	ErrInsufficientData  = errors.New("insufficient data for comparison")
)

// ScrapeError wraps errors that occur while fetching a product page.
type ScrapeError struct {
	URL    string
	Domain string
	Err    error
}

func (e *ScrapeError) Error() string {
	return fmt.Sprintf("scrape error for %s (%s): %v", e.URL, e.Domain, e.Err)
}

func (e *ScrapeError) Unwrap() error { return e.Err }

// EnrichError wraps errors from the generative-language capability.
type EnrichError struct {
	ProductID string
	Stage     string // generate, parse, repair
	Err       error
}

func (e *EnrichError) Error() string {
	return fmt.Sprintf("enrich error for %s at stage %q: %v", e.ProductID, e.Stage, e.Err)
}

func (e *EnrichError) Unwrap() error { return e.Err }

// StorageError wraps errors that occur during persistence or export.
type StorageError struct {
	Backend string
	Key     string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error (%s, key=%q): %v", e.Backend, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
