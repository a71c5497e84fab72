// Package debt computes the signed societal-debt contributions of a
// classified transaction. It is a pure calculation with no I/O and no
// failure mode.
package debt

import (
	"github.com/shopspring/decimal"

	"ethicheck/societal-debt/internal/models"
)

// DefaultWeight is the percentage assumed for a practice that appears in one
// of the practice lists without an entry in practiceWeights. It is applied
// here and nowhere else.
var DefaultWeight = decimal.NewFromInt(100)

var oneHundred = decimal.NewFromInt(100)

// Compute derives the per-practice debt contributions and the net societal
// debt of a transaction.
//
// For each unethical practice the contribution is amount * weight / 100
// (positive); for each ethical practice it is negated. When both practice
// lists are empty the result is exactly zero, regardless of any stray weight
// data, so a clean transaction can never accumulate drift.
//
// Weights outside [0,100] are passed through arithmetically, and a practice
// listed as both ethical and unethical contributes with both signs. Both
// behaviors are deliberate: rejecting classifier output here would block the
// whole batch.
func Compute(tx models.Transaction) (map[string]decimal.Decimal, decimal.Decimal) {
	if len(tx.UnethicalPractices) == 0 && len(tx.EthicalPractices) == 0 {
		return nil, decimal.Zero
	}

	debts := make(map[string]decimal.Decimal, len(tx.UnethicalPractices)+len(tx.EthicalPractices))
	total := decimal.Zero

	for _, practice := range tx.UnethicalPractices {
		c := contribution(tx, practice)
		debts[practice] = debts[practice].Add(c)
		total = total.Add(c)
	}

	// A practice listed on both sides accumulates both signed contributions
	// into its entry, so the per-practice map always sums to the total.
	for _, practice := range tx.EthicalPractices {
		c := contribution(tx, practice).Neg()
		debts[practice] = debts[practice].Add(c)
		total = total.Add(c)
	}

	return debts, total
}

func contribution(tx models.Transaction, practice string) decimal.Decimal {
	weight := DefaultWeight
	if w, ok := tx.PracticeWeights[practice]; ok {
		weight = w
	}
	return tx.Amount.Mul(weight).Div(oneHundred)
}
