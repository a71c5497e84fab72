// Package models defines the transaction data model shared by every stage of
// the societal-debt pipeline.
package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ErrorInfoKey is the information-map key under which the engine records a
// per-transaction classification failure note. It is visible to the user but
// never blocks the batch.
const ErrorInfoKey = "_error"

// Transaction represents a single financial event flowing through the
// engine. Practice lists, weights, debts and rationale text are empty until
// the transaction has been classified; Analyzed marks it as finished ground
// truth that must never be re-derived.
type Transaction struct {
	Date   string          `json:"date" yaml:"date"`
	Name   string          `json:"name" yaml:"name"`
	Amount decimal.Decimal `json:"amount" yaml:"amount"`

	UnethicalPractices []string                   `json:"unethicalPractices,omitempty" yaml:"unethical_practices,omitempty"`
	EthicalPractices   []string                   `json:"ethicalPractices,omitempty" yaml:"ethical_practices,omitempty"`
	PracticeWeights    map[string]decimal.Decimal `json:"practiceWeights,omitempty" yaml:"practice_weights,omitempty"`
	PracticeDebts      map[string]decimal.Decimal `json:"practiceDebts,omitempty" yaml:"practice_debts,omitempty"`
	SocietalDebt       decimal.Decimal            `json:"societalDebt" yaml:"societal_debt"`

	Information         map[string]string `json:"information,omitempty" yaml:"information,omitempty"`
	PracticeCategories  map[string]string `json:"practiceCategories,omitempty" yaml:"practice_categories,omitempty"`
	PracticeSearchTerms map[string]string `json:"practiceSearchTerms,omitempty" yaml:"practice_search_terms,omitempty"`

	Analyzed bool `json:"analyzed" yaml:"analyzed"`
}

// Key derives the stable identity of a transaction from its immutable fields.
// Two transactions with equal (date, name, amount) are the same logical event
// for merge purposes, regardless of any other field differences. The amount
// is rendered at fixed precision so that equal decimal values always produce
// identical keys whatever their internal representation.
func (t Transaction) Key() string {
	return strings.Join([]string{t.Date, t.Name, t.Amount.StringFixed(2)}, "|")
}

// Clone returns a deep copy of the transaction. Maps and slices are copied so
// that mutating the clone never leaks into the original.
func (t Transaction) Clone() Transaction {
	c := t
	c.UnethicalPractices = cloneSlice(t.UnethicalPractices)
	c.EthicalPractices = cloneSlice(t.EthicalPractices)
	c.PracticeWeights = cloneDecimalMap(t.PracticeWeights)
	c.PracticeDebts = cloneDecimalMap(t.PracticeDebts)
	c.Information = cloneStringMap(t.Information)
	c.PracticeCategories = cloneStringMap(t.PracticeCategories)
	c.PracticeSearchTerms = cloneStringMap(t.PracticeSearchTerms)
	return c
}

func cloneSlice(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

func cloneStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneDecimalMap(m map[string]decimal.Decimal) map[string]decimal.Decimal {
	if m == nil {
		return nil
	}
	out := make(map[string]decimal.Decimal, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
