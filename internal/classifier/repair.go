package classifier

import (
	"regexp"
	"strings"
)

// The repair pass is a chain of pure text transformations applied to
// near-JSON classifier output. Each step is exported so it can be unit
// tested against crafted malformed inputs on its own.

var (
	bareKeyPattern       = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)
	trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)
)

// Repair applies every repair step in a fixed order and returns the result.
// It never fails; the output simply gets one more strict-parse attempt.
func Repair(raw string) string {
	s := strings.TrimSpace(raw)
	s = CollapseNewlines(s)
	s = NormalizeQuotes(s)
	s = QuoteBareKeys(s)
	s = StripTrailingCommas(s)
	return s
}

// CollapseNewlines replaces raw newlines with spaces. Models sometimes emit
// literal line breaks inside string values, which strict JSON forbids.
func CollapseNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.ReplaceAll(s, "\n", " ")
}

// NormalizeQuotes converts single-quoted strings and curly typographic
// quotes to plain double quotes. Double quotes already present inside
// single-quoted strings are escaped.
func NormalizeQuotes(s string) string {
	// Typographic quotes first, they are never legal JSON.
	replacer := strings.NewReplacer(
		"“", `"`, // left double
		"”", `"`, // right double
		"‘", "'", // left single
		"’", "'", // right single
	)
	s = replacer.Replace(s)

	var b strings.Builder
	b.Grow(len(s))
	inDouble := false
	inSingle := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
			b.WriteByte(c)
		case c == '\\':
			escaped = true
			b.WriteByte(c)
		case c == '"' && !inSingle:
			inDouble = !inDouble
			b.WriteByte(c)
		case c == '"' && inSingle:
			b.WriteString(`\"`)
		case c == '\'' && !inDouble:
			inSingle = !inSingle
			b.WriteByte('"')
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// QuoteBareKeys wraps unquoted object keys in double quotes.
func QuoteBareKeys(s string) string {
	return bareKeyPattern.ReplaceAllString(s, `$1"$2":`)
}

// StripTrailingCommas removes commas that directly precede a closing brace
// or bracket.
func StripTrailingCommas(s string) string {
	return trailingCommaPattern.ReplaceAllString(s, `$1`)
}
