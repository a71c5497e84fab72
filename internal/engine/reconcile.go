package engine

import (
	"ethicheck/societal-debt/internal/models"
)

// Merge folds freshly classified transactions back into the original batch
// by identity key. A transaction is replaced only if it was actually pending;
// transactions that were already analyzed before this call are kept
// byte-for-byte even when the classified subset carries the same key, since
// analyzed results are immutable ground truth. The merge is total and
// preserves the original batch order.
func Merge(original, classified []models.Transaction) []models.Transaction {
	byKey := make(map[string]models.Transaction, len(classified))
	for _, tx := range classified {
		byKey[tx.Key()] = tx
	}

	merged := make([]models.Transaction, 0, len(original))
	for _, tx := range original {
		if !tx.Analyzed {
			if replacement, ok := byKey[tx.Key()]; ok {
				merged = append(merged, replacement)
				continue
			}
		}
		merged = append(merged, tx)
	}
	return merged
}
