package classifier

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"ethicheck/societal-debt/internal/models"
)

// requestTransaction is the trimmed wire form sent to the classifier: only
// identity fields plus any pre-existing practice data, so the classifier can
// refine an earlier judgment without seeing derived values.
type requestTransaction struct {
	Date               string                     `json:"date"`
	Name               string                     `json:"name"`
	Amount             decimal.Decimal            `json:"amount"`
	UnethicalPractices []string                   `json:"unethicalPractices,omitempty"`
	EthicalPractices   []string                   `json:"ethicalPractices,omitempty"`
	PracticeWeights    map[string]decimal.Decimal `json:"practiceWeights,omitempty"`
	Information        map[string]string          `json:"information,omitempty"`
}

// BuildPrompt assembles the full prompt for one classification call: the
// fixed system instruction describing the taxonomy and output contract,
// followed by the pending transactions as a JSON payload.
func BuildPrompt(transactions []models.Transaction, practices []models.Practice) (string, error) {
	wire := make([]requestTransaction, 0, len(transactions))
	for _, tx := range transactions {
		wire = append(wire, requestTransaction{
			Date:               tx.Date,
			Name:               tx.Name,
			Amount:             tx.Amount,
			UnethicalPractices: tx.UnethicalPractices,
			EthicalPractices:   tx.EthicalPractices,
			PracticeWeights:    tx.PracticeWeights,
			Information:        tx.Information,
		})
	}

	payload, err := json.Marshal(map[string]interface{}{"transactions": wire})
	if err != nil {
		return "", fmt.Errorf("marshaling classifier request: %w", err)
	}

	return systemInstruction(practices) + "\n\nTransactions to classify:\n" + string(payload), nil
}

func systemInstruction(practices []models.Practice) string {
	var b strings.Builder

	b.WriteString("You are an ethical-impact analyst for consumer financial transactions.\n\n")
	b.WriteString("Task:\n")
	b.WriteString("- For EVERY transaction in the attached JSON, judge which practices of the merchant apply.\n")
	b.WriteString("- Assign each practice a weight: the percentage (0-100) of the amount attributable to it.\n")
	b.WriteString("- Provide a short rationale per practice in \"information\".\n\n")

	if len(practices) > 0 {
		b.WriteString("Known practices (prefer these names):\n")
		for _, p := range practices {
			fmt.Fprintf(&b, "- %s (%s, category: %s)\n", p.Name, p.Kind, p.Category)
		}
		b.WriteString("\n")
	}

	b.WriteString("Output contract:\n")
	b.WriteString("- Return STRICT JSON only: no prose, no code fences, no comments, no trailing commas.\n")
	b.WriteString("- Shape: {\"transactions\": [{\"date\", \"name\", \"amount\", \"unethicalPractices\": [string], ")
	b.WriteString("\"ethicalPractices\": [string], \"practiceWeights\": {practice: number}, ")
	b.WriteString("\"practiceSearchTerms\": {practice: string}, \"practiceCategories\": {practice: string}, ")
	b.WriteString("\"information\": {practice: string}}]}\n")
	b.WriteString("- Echo date, name and amount unchanged for every transaction.\n")
	b.WriteString("- A practice must never appear in both lists for the same transaction.\n")
	b.WriteString("- Output must begin with \"{\" and end with \"}\".\n")

	return b.String()
}
