package classifier

import (
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"ethicheck/societal-debt/internal/engineerror"
	"ethicheck/societal-debt/internal/models"
)

// wireResponse is the strict structural type a classifier response must
// validate into before anything downstream may touch it.
type wireResponse struct {
	Transactions []wireTransaction `json:"transactions"`
}

type wireTransaction struct {
	Date                *string                    `json:"date"`
	Name                *string                    `json:"name"`
	Amount              *decimal.Decimal           `json:"amount"`
	UnethicalPractices  []string                   `json:"unethicalPractices"`
	EthicalPractices    []string                   `json:"ethicalPractices"`
	PracticeWeights     map[string]decimal.Decimal `json:"practiceWeights"`
	PracticeSearchTerms map[string]string          `json:"practiceSearchTerms"`
	PracticeCategories  map[string]string          `json:"practiceCategories"`
	Information         map[string]string          `json:"information"`
}

// Result holds the validated transactions extracted from a classifier
// response. Entries that failed structural validation are dropped and
// reported in Rejected; the invoker substitutes fallbacks for anything
// missing.
type Result struct {
	Transactions []models.Transaction
	Rejected     []*engineerror.ValidationError
}

// extractor is one strategy for locating a JSON document inside raw
// classifier text. Strategies are pure and independently testable.
type extractor func(raw string) (string, bool)

// Parse turns raw classifier output into a validated Result. It attempts, in
// order: strict parse of the raw text, the first fenced code block, the first
// balanced top-level object, and a textual repair pass. The first candidate
// that parses wins; if all fail the returned error is a *engineerror.ParseError.
func Parse(raw string) (*Result, error) {
	extractors := []extractor{
		func(s string) (string, bool) { return strings.TrimSpace(s), true },
		ExtractFencedBlock,
		ExtractBalancedObject,
		func(s string) (string, bool) {
			// Repair works best on the isolated object span when one exists.
			if span, ok := ExtractBalancedObject(s); ok {
				s = span
			}
			return Repair(s), true
		},
	}

	var lastErr error
	attempts := 0
	for _, extract := range extractors {
		candidate, ok := extract(raw)
		if !ok {
			continue
		}
		attempts++

		var wire wireResponse
		if err := json.Unmarshal([]byte(candidate), &wire); err != nil {
			lastErr = err
			continue
		}
		return validate(wire), nil
	}

	return nil, &engineerror.ParseError{
		Attempts:   attempts,
		RawSnippet: snippet(raw, 120),
		Err:        lastErr,
	}
}

// validate screens every wire entry into the strict model type. An entry
// missing any identity field is rejected rather than trusted downstream.
func validate(wire wireResponse) *Result {
	result := &Result{}
	for i, entry := range wire.Transactions {
		if field, ok := missingField(entry); ok {
			result.Rejected = append(result.Rejected, &engineerror.ValidationError{
				Index:  i,
				Field:  field,
				Reason: "missing or empty",
			})
			continue
		}

		result.Transactions = append(result.Transactions, models.Transaction{
			Date:                *entry.Date,
			Name:                *entry.Name,
			Amount:              *entry.Amount,
			UnethicalPractices:  entry.UnethicalPractices,
			EthicalPractices:    entry.EthicalPractices,
			PracticeWeights:     entry.PracticeWeights,
			PracticeSearchTerms: entry.PracticeSearchTerms,
			PracticeCategories:  entry.PracticeCategories,
			Information:         entry.Information,
		})
	}
	return result
}

func missingField(entry wireTransaction) (string, bool) {
	switch {
	case entry.Date == nil || *entry.Date == "":
		return "date", true
	case entry.Name == nil || *entry.Name == "":
		return "name", true
	case entry.Amount == nil:
		return "amount", true
	}
	return "", false
}

// ExtractFencedBlock returns the contents of the first ``` fenced code block
// in the text, tolerating a language tag after the opening fence.
func ExtractFencedBlock(raw string) (string, bool) {
	start := strings.Index(raw, "```")
	if start == -1 {
		return "", false
	}
	rest := raw[start+3:]

	// Skip the language tag line (```json etc.).
	if nl := strings.Index(rest, "\n"); nl != -1 {
		rest = rest[nl+1:]
	}

	end := strings.Index(rest, "```")
	if end == -1 {
		return "", false
	}
	return strings.TrimSpace(rest[:end]), true
}

// ExtractBalancedObject returns the first balanced top-level {...} span,
// tracking string literals and escapes so braces inside values don't
// terminate the scan early.
func ExtractBalancedObject(raw string) (string, bool) {
	start := strings.IndexByte(raw, '{')
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return raw[start : i+1], true
			}
		}
	}
	return "", false
}

// snippet truncates s to at most max bytes, backing up to a rune boundary so
// the result stays valid UTF-8.
func snippet(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
