package selector

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// Document is a Scope backed by a statically parsed HTML tree. The
// tree is parsed once and shared by the CSS (goquery) and XPath
// (htmlquery) lookups.
type Document struct {
	nodeScope
}

// Parse reads and parses an HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{nodeScope{node: root}}, nil
}

// ParseString parses an HTML document from a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// nodeScope resolves locators against a subtree.
type nodeScope struct {
	node *html.Node
}

func (s nodeScope) Lookup(loc Locator) (string, error) {
	switch loc.Kind {
	case KindCSS:
		sel := goquery.NewDocumentFromNode(s.node).Find(loc.Expr).First()
		if sel.Length() == 0 {
			return "", ErrNoMatch
		}
		if loc.Attr != "" {
			val, ok := sel.Attr(loc.Attr)
			if !ok {
				return "", ErrNoMatch
			}
			return val, nil
		}
		return sel.Text(), nil
	case KindXPath:
		node, err := htmlquery.Query(s.node, loc.Expr)
		if err != nil {
			return "", fmt.Errorf("xpath %q: %w", loc.Expr, err)
		}
		if node == nil {
			return "", ErrNoMatch
		}
		if loc.Attr != "" {
			val := htmlquery.SelectAttr(node, loc.Attr)
			if val == "" {
				return "", ErrNoMatch
			}
			return val, nil
		}
		return htmlquery.InnerText(node), nil
	default:
		return "", fmt.Errorf("unknown locator kind %q", loc.Kind)
	}
}

func (s nodeScope) LookupAll(loc Locator) ([]Scope, error) {
	switch loc.Kind {
	case KindCSS:
		var scopes []Scope
		goquery.NewDocumentFromNode(s.node).Find(loc.Expr).Each(func(_ int, sel *goquery.Selection) {
			for _, n := range sel.Nodes {
				scopes = append(scopes, nodeScope{node: n})
			}
		})
		return scopes, nil
	case KindXPath:
		nodes, err := htmlquery.QueryAll(s.node, loc.Expr)
		if err != nil {
			return nil, fmt.Errorf("xpath %q: %w", loc.Expr, err)
		}
		scopes := make([]Scope, 0, len(nodes))
		for _, n := range nodes {
			scopes = append(scopes, nodeScope{node: n})
		}
		return scopes, nil
	default:
		return nil, fmt.Errorf("unknown locator kind %q", loc.Kind)
	}
}
