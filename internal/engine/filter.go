package engine

import (
	"ethicheck/societal-debt/internal/models"
)

// Partition splits a batch into transactions still awaiting classification
// and those already analyzed. Already-analyzed transactions are caller
// visible history and must never be sent to the classifier again; when
// pending is empty the caller skips the classifier call entirely.
func Partition(batch []models.Transaction) (pending, done []models.Transaction) {
	for _, tx := range batch {
		if tx.Analyzed {
			done = append(done, tx)
		} else {
			pending = append(pending, tx)
		}
	}
	return pending, done
}
