package browser

import (
	"context"

	"github.com/serhatcanunal1/btk-urun-analiz/internal/selector"
)

// StaticDriver serves pre-parsed documents keyed by URL. It exists
// for tests and offline replay: the scrape and harvest pipelines run
// against it exactly as they would against a live browser, minus
// interaction side effects.
type StaticDriver struct {
	Pages map[string]*selector.Document
	// NavigateErr, when set, fails every navigation.
	NavigateErr error
}

func (d *StaticDriver) Open(ctx context.Context) (Session, error) {
	return &StaticSession{driver: d}, nil
}

func (d *StaticDriver) Close() error { return nil }

// StaticSession is the Session handed out by StaticDriver.
type StaticSession struct {
	driver *StaticDriver
	doc    *selector.Document

	Navigated []string
	EvalCalls []string
	Closed    bool
}

// NewStaticSession wraps a single document directly, for tests that
// exercise harvesting without a driver.
func NewStaticSession(doc *selector.Document) *StaticSession {
	return &StaticSession{doc: doc}
}

func (s *StaticSession) Navigate(ctx context.Context, url string) error {
	s.Navigated = append(s.Navigated, url)
	if s.driver != nil {
		if s.driver.NavigateErr != nil {
			return s.driver.NavigateErr
		}
		s.doc = s.driver.Pages[url]
	}
	if s.doc == nil {
		return selector.ErrNoMatch
	}
	return nil
}

func (s *StaticSession) Find(loc selector.Locator) (Element, error) {
	scopes, err := s.LookupAll(loc)
	if err != nil {
		return nil, err
	}
	if len(scopes) == 0 {
		return nil, selector.ErrNoMatch
	}
	return staticElement{scope: scopes[0]}, nil
}

func (s *StaticSession) FindAll(loc selector.Locator) ([]Element, error) {
	scopes, err := s.LookupAll(loc)
	if err != nil {
		return nil, err
	}
	els := make([]Element, 0, len(scopes))
	for _, sc := range scopes {
		els = append(els, staticElement{scope: sc})
	}
	return els, nil
}

func (s *StaticSession) Lookup(loc selector.Locator) (string, error) {
	if s.doc == nil {
		return "", selector.ErrNoMatch
	}
	return s.doc.Lookup(loc)
}

func (s *StaticSession) LookupAll(loc selector.Locator) ([]selector.Scope, error) {
	if s.doc == nil {
		return nil, selector.ErrNoMatch
	}
	return s.doc.LookupAll(loc)
}

func (s *StaticSession) Eval(js string) error {
	s.EvalCalls = append(s.EvalCalls, js)
	return nil
}

func (s *StaticSession) HTML() (string, error) { return "", nil }

func (s *StaticSession) Close() error {
	s.Closed = true
	return nil
}

type staticElement struct {
	scope selector.Scope
}

func (e staticElement) Text() (string, error) {
	return e.scope.Lookup(selector.XPath("."))
}

func (e staticElement) Attribute(name string) (string, error) {
	return e.scope.Lookup(selector.Locator{Kind: selector.KindXPath, Expr: ".", Attr: name})
}

func (e staticElement) Click() error  { return nil }
func (e staticElement) Visible() bool { return true }

func (e staticElement) Lookup(loc selector.Locator) (string, error) {
	return e.scope.Lookup(loc)
}

func (e staticElement) LookupAll(loc selector.Locator) ([]selector.Scope, error) {
	return e.scope.LookupAll(loc)
}
