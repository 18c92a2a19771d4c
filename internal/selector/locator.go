// Package selector implements cascading locator resolution over HTML
// scopes. A scope is anything that can look up a locator and return
// text: a parsed document, a live browser element, or a test fake.
package selector

import "errors"

// ErrNoMatch is returned by a Scope when a locator matches nothing.
var ErrNoMatch = errors.New("no match for locator")

// Kind discriminates locator syntaxes.
type Kind string

const (
	KindCSS   Kind = "css"
	KindXPath Kind = "xpath"
)

// Locator identifies one place to look for a value in a page.
// When Attr is empty the element's text content is used.
type Locator struct {
	Kind Kind
	Expr string
	Attr string
}

// CSS builds a CSS locator extracting text content.
func CSS(expr string) Locator { return Locator{Kind: KindCSS, Expr: expr} }

// CSSAttr builds a CSS locator extracting an attribute value.
func CSSAttr(expr, attr string) Locator { return Locator{Kind: KindCSS, Expr: expr, Attr: attr} }

// XPath builds an XPath locator extracting text content.
func XPath(expr string) Locator { return Locator{Kind: KindXPath, Expr: expr} }

// Scope is a region of a page that locators can be resolved against.
type Scope interface {
	// Lookup returns the value of the first match, or ErrNoMatch.
	Lookup(loc Locator) (string, error)
	// LookupAll returns one sub-scope per match. An empty slice and
	// a nil error means the locator matched nothing.
	LookupAll(loc Locator) ([]Scope, error)
}
