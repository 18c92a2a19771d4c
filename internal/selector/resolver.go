package selector

import (
	"strings"
	"unicode/utf8"
)

// Resolve tries each candidate locator in order and returns the first
// trimmed value of at least minLen characters. Per-candidate lookup
// failures are swallowed so that a broken selector never poisons the
// rest of the cascade. The second return reports whether any
// candidate produced a usable value.
func Resolve(scope Scope, candidates []Locator, minLen int) (string, bool) {
	for _, loc := range candidates {
		val, err := scope.Lookup(loc)
		if err != nil {
			continue
		}
		val = strings.TrimSpace(val)
		if val == "" {
			continue
		}
		if utf8.RuneCountInString(val) >= minLen {
			return val, true
		}
	}
	return "", false
}

// ResolveAll tries each candidate locator in order and returns the
// sub-scopes of the first candidate that matches at least one
// element.
func ResolveAll(scope Scope, candidates []Locator) ([]Scope, bool) {
	for _, loc := range candidates {
		scopes, err := scope.LookupAll(loc)
		if err != nil {
			continue
		}
		if len(scopes) > 0 {
			return scopes, true
		}
	}
	return nil, false
}
