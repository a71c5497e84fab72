package engine

import (
	"sort"

	"github.com/shopspring/decimal"

	"ethicheck/societal-debt/internal/models"
)

var oneHundred = decimal.NewFromInt(100)

// Aggregate computes the batch totals and produces the externally visible
// ordering: societal debt descending, ties keeping their original order.
// The sort is presentation only; any identical input yields an identical
// result.
func Aggregate(batch []models.Transaction) models.AnalyzedBatch {
	totalDebt := decimal.Zero
	totalSpend := decimal.Zero
	for _, tx := range batch {
		totalDebt = totalDebt.Add(tx.SocietalDebt)
		totalSpend = totalSpend.Add(tx.Amount)
	}

	debtPercentage := decimal.Zero
	if !totalSpend.IsZero() {
		debtPercentage = totalDebt.Mul(oneHundred).Div(totalSpend)
	}

	sorted := make([]models.Transaction, len(batch))
	copy(sorted, batch)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SocietalDebt.GreaterThan(sorted[j].SocietalDebt)
	})

	return models.AnalyzedBatch{
		Transactions:      sorted,
		TotalSocietalDebt: totalDebt,
		TotalSpend:        totalSpend,
		DebtPercentage:    debtPercentage,
	}
}
