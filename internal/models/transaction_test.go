package models_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"ethicheck/societal-debt/internal/models"
)

func TestKeyStability(t *testing.T) {
	a := models.Transaction{
		Date:   "2024-01-01",
		Name:   "Acme",
		Amount: decimal.NewFromInt(50),
	}
	b := models.Transaction{
		Date:               "2024-01-01",
		Name:               "Acme",
		Amount:             decimal.NewFromInt(50),
		UnethicalPractices: []string{"High Emissions"},
		SocietalDebt:       decimal.NewFromInt(20),
		Analyzed:           true,
	}

	assert.Equal(t, a.Key(), b.Key(), "identity must ignore non-identity fields")
}

func TestKeyAmountRepresentation(t *testing.T) {
	fromInt := models.Transaction{Date: "2024-01-01", Name: "Acme", Amount: decimal.NewFromInt(50)}
	fromString, err := decimal.NewFromString("50.00")
	assert.NoError(t, err)
	fromStr := models.Transaction{Date: "2024-01-01", Name: "Acme", Amount: fromString}

	assert.Equal(t, fromInt.Key(), fromStr.Key(), "equal amounts must key identically regardless of representation")
}

func TestKeyDistinguishesFields(t *testing.T) {
	base := models.Transaction{Date: "2024-01-01", Name: "Acme", Amount: decimal.NewFromInt(50)}

	tests := []struct {
		name string
		tx   models.Transaction
	}{
		{"different date", models.Transaction{Date: "2024-01-02", Name: "Acme", Amount: decimal.NewFromInt(50)}},
		{"different name", models.Transaction{Date: "2024-01-01", Name: "Bcme", Amount: decimal.NewFromInt(50)}},
		{"different amount", models.Transaction{Date: "2024-01-01", Name: "Acme", Amount: decimal.NewFromInt(51)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEqual(t, base.Key(), tt.tx.Key())
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	original := models.Transaction{
		Date:               "2024-01-01",
		Name:               "Acme",
		Amount:             decimal.NewFromInt(50),
		UnethicalPractices: []string{"High Emissions"},
		PracticeWeights:    map[string]decimal.Decimal{"High Emissions": decimal.NewFromInt(40)},
		Information:        map[string]string{"High Emissions": "heavy logistics"},
	}

	clone := original.Clone()
	clone.UnethicalPractices[0] = "Factory Farming"
	clone.PracticeWeights["High Emissions"] = decimal.NewFromInt(90)
	clone.Information["High Emissions"] = "changed"

	assert.Equal(t, "High Emissions", original.UnethicalPractices[0])
	assert.True(t, original.PracticeWeights["High Emissions"].Equal(decimal.NewFromInt(40)))
	assert.Equal(t, "heavy logistics", original.Information["High Emissions"])
}
