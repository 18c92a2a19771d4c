// Package browser defines the headless-browser capability boundary
// and its Rod-backed implementation. Scrapers depend only on the
// interfaces so tests can run against static HTML.
package browser

import (
	"context"

	"github.com/serhatcanunal1/btk-urun-analiz/internal/selector"
)

// Driver owns a browser process and hands out sessions.
type Driver interface {
	// Open creates a fresh page session.
	Open(ctx context.Context) (Session, error)
	// Close shuts the browser down.
	Close() error
}

// Session is one browser page. It is a selector.Scope so locator
// cascades resolve against the live DOM the same way they resolve
// against parsed documents.
type Session interface {
	selector.Scope

	// Navigate loads a URL and waits for the page to settle.
	Navigate(ctx context.Context, url string) error
	// Find returns the first element matching the locator. A missing
	// element is a normal outcome reported as an error the caller is
	// expected to tolerate.
	Find(loc selector.Locator) (Element, error)
	// FindAll returns every element matching the locator.
	FindAll(loc selector.Locator) ([]Element, error)
	// Eval runs JavaScript in the page.
	Eval(js string) error
	// HTML returns the current rendered markup.
	HTML() (string, error)
	// Close releases the page.
	Close() error
}

// Element is a live DOM element.
type Element interface {
	selector.Scope

	Text() (string, error)
	Attribute(name string) (string, error)
	Click() error
	Visible() bool
}
