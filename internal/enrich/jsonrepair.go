package enrich

import (
	"regexp"
	"strings"
)

var (
	fencePattern     = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")
	bareKeyPattern   = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)
	bareValuePattern = regexp.MustCompile(`(:\s*)([A-Za-z_][A-Za-z0-9_]*)(\s*[,}\]])`)
	trailingComma    = regexp.MustCompile(`,\s*([}\]])`)
)

// ExtractJSON finds the first balanced JSON object in a model
// response, stripping Markdown code fences first. Returns "{}" when
// no object is present.
func ExtractJSON(s string) string {
	if m := fencePattern.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	start := strings.Index(s, "{")
	if start < 0 {
		return "{}"
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch ch {
		case '\\':
			escaped = inString
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return s[start : i+1]
				}
			}
		}
	}
	return "{}"
}

// Repair applies the common fixes for almost-JSON model output:
// single quotes become double quotes, bare keys and bare scalar
// values are quoted, and trailing commas are dropped. It is a best
// effort; the caller reparses and falls back on failure.
func Repair(s string) string {
	s = strings.ReplaceAll(s, "'", `"`)
	s = bareKeyPattern.ReplaceAllString(s, `$1"$2":`)
	s = bareValuePattern.ReplaceAllStringFunc(s, func(m string) string {
		sub := bareValuePattern.FindStringSubmatch(m)
		switch sub[2] {
		case "true", "false", "null":
			return m
		}
		return sub[1] + `"` + sub[2] + `"` + sub[3]
	})
	s = trailingComma.ReplaceAllString(s, `$1`)
	return s
}
