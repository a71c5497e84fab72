package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AnalyzedBatch is the engine's final output: every transaction analyzed,
// with aggregate totals over the whole set.
type AnalyzedBatch struct {
	Transactions      []Transaction   `json:"transactions" yaml:"transactions"`
	TotalSocietalDebt decimal.Decimal `json:"totalSocietalDebt" yaml:"total_societal_debt"`
	TotalSpend        decimal.Decimal `json:"totalSpend" yaml:"total_spend"`
	DebtPercentage    decimal.Decimal `json:"debtPercentage" yaml:"debt_percentage"`
}

// StoredBatch wraps an AnalyzedBatch with the persistence metadata the store
// keys it by.
type StoredBatch struct {
	User      string        `yaml:"user"`
	CreatedAt time.Time     `yaml:"created_at"`
	Batch     AnalyzedBatch `yaml:"batch"`
}

// Practice describes one entry of the practice taxonomy used to build the
// classifier prompt. The engine itself treats practice names as opaque.
type Practice struct {
	Name       string `yaml:"name"`
	Kind       string `yaml:"kind"` // "ethical" or "unethical"
	Category   string `yaml:"category"`
	SearchTerm string `yaml:"search_term"`
}
