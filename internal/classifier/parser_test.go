package classifier_test

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ethicheck/societal-debt/internal/classifier"
	"ethicheck/societal-debt/internal/engineerror"
)

const strictResponse = `{"transactions":[{"date":"2024-01-01","name":"Acme","amount":50,` +
	`"unethicalPractices":["High Emissions"],"ethicalPractices":[],` +
	`"practiceWeights":{"High Emissions":40}}]}`

func TestParseStrictJSON(t *testing.T) {
	result, err := classifier.Parse(strictResponse)
	require.NoError(t, err)
	require.Len(t, result.Transactions, 1)

	got := result.Transactions[0]
	assert.Equal(t, "2024-01-01", got.Date)
	assert.Equal(t, "Acme", got.Name)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, []string{"High Emissions"}, got.UnethicalPractices)
	assert.True(t, got.PracticeWeights["High Emissions"].Equal(decimal.NewFromInt(40)))
}

func TestParseFencedCodeBlock(t *testing.T) {
	raw := "Here is the classification you asked for:\n```json\n" + strictResponse + "\n```\nLet me know if I can help further."

	result, err := classifier.Parse(raw)
	require.NoError(t, err)
	assert.Len(t, result.Transactions, 1)
}

func TestParseProseWrappedObject(t *testing.T) {
	raw := "Sure! The result is " + strictResponse + " and that concludes the analysis."

	result, err := classifier.Parse(raw)
	require.NoError(t, err)
	assert.Len(t, result.Transactions, 1)
}

func TestParseNearJSON(t *testing.T) {
	raw := `{transactions: [{date: '2024-01-01', name: 'Acme', amount: 50, unethicalPractices: ['High Emissions'], practiceWeights: {'High Emissions': 40,},},],}`

	result, err := classifier.Parse(raw)
	require.NoError(t, err)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, "Acme", result.Transactions[0].Name)
}

func TestParseUnparseableNoise(t *testing.T) {
	result, err := classifier.Parse("I'm sorry, I cannot classify these transactions.")
	assert.Nil(t, result)

	var parseErr *engineerror.ParseError
	require.True(t, errors.As(err, &parseErr), "error must be a typed ParseError, got %T", err)
	assert.NotZero(t, parseErr.Attempts)
}

func TestParseSnippetTruncatesOnRuneBoundary(t *testing.T) {
	// Multi-byte runes straddling the truncation point must not leave a
	// partial encoding in the error message.
	raw := strings.Repeat("x", 119) + strings.Repeat("é", 10)

	_, err := classifier.Parse(raw)
	var parseErr *engineerror.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.True(t, utf8.ValidString(parseErr.RawSnippet), "snippet %q is not valid UTF-8", parseErr.RawSnippet)
	assert.LessOrEqual(t, len(parseErr.RawSnippet), 120)
}

func TestParseDropsEntriesMissingRequiredFields(t *testing.T) {
	raw := `{"transactions":[
		{"date":"2024-01-01","name":"Acme","amount":50},
		{"name":"NoDate","amount":10},
		{"date":"2024-01-02","amount":10},
		{"date":"2024-01-03","name":"NoAmount"}
	]}`

	result, err := classifier.Parse(raw)
	require.NoError(t, err)
	require.Len(t, result.Transactions, 1, "structurally invalid entries must be rejected")
	assert.Equal(t, "Acme", result.Transactions[0].Name)

	require.Len(t, result.Rejected, 3)
	assert.Equal(t, "date", result.Rejected[0].Field)
	assert.Equal(t, "name", result.Rejected[1].Field)
	assert.Equal(t, "amount", result.Rejected[2].Field)
}

func TestParseEmptyTransactionList(t *testing.T) {
	result, err := classifier.Parse(`{"transactions":[]}`)
	require.NoError(t, err)
	assert.Empty(t, result.Transactions)
}

func TestExtractFencedBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		found    bool
	}{
		{"json tagged fence", "```json\n{\"a\":1}\n```", `{"a":1}`, true},
		{"untagged fence", "```\n{\"a\":1}\n```", `{"a":1}`, true},
		{"no fence", `{"a":1}`, "", false},
		{"unclosed fence", "```json\n{\"a\":1}", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := classifier.ExtractFencedBlock(tt.input)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestExtractBalancedObject(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		found    bool
	}{
		{"bare object", `{"a":1}`, `{"a":1}`, true},
		{"prose around object", `noise {"a":{"b":2}} trailing`, `{"a":{"b":2}}`, true},
		{"brace inside string", `{"a":"}"}`, `{"a":"}"}`, true},
		{"escaped quote inside string", `{"a":"\"}"}`, `{"a":"\"}"}`, true},
		{"unbalanced", `{"a":1`, "", false},
		{"no object", "nothing here", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := classifier.ExtractBalancedObject(tt.input)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}
