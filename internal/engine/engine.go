// Package engine decides which transactions need classification, invokes the
// classifier, merges results back by identity, and computes the aggregate
// societal-debt figures. It is stateless between calls; serializing
// concurrent Analyze calls for the same batch is a caller obligation.
package engine

import (
	"context"

	"ethicheck/societal-debt/internal/classifier"
	"ethicheck/societal-debt/internal/logging"
	"ethicheck/societal-debt/internal/models"
)

// Engine is the single caller-facing entry point of the analysis pipeline.
type Engine struct {
	invoker *classifier.Invoker
	log     logging.Logger
}

// New creates an Engine on top of a classifier client.
func New(client classifier.Client, log logging.Logger) *Engine {
	return &Engine{
		invoker: classifier.NewInvoker(client, log),
		log:     log,
	}
}

// Analyze runs the full pipeline on a batch and returns the aggregated
// result. Transactions already analyzed pass through untouched; if nothing
// is pending the classifier is never called. The only error that can return
// is a transport failure, in which case no partial result exists and the
// caller may retry the whole operation.
func (e *Engine) Analyze(ctx context.Context, transactions []models.Transaction) (models.AnalyzedBatch, error) {
	batch, _, err := e.AnalyzeWithCitations(ctx, transactions, nil)
	return batch, err
}

// AnalyzeWithCitations is Analyze with an explicit citation map threaded
// through the classifier call: the caller passes the mapping accumulated so
// far and receives the updated one back, so citation sources resolved in one
// batch carry into the next. The input map is not mutated.
func (e *Engine) AnalyzeWithCitations(ctx context.Context, transactions []models.Transaction, citations classifier.CitationMap) (models.AnalyzedBatch, classifier.CitationMap, error) {
	pending, done := Partition(transactions)

	e.log.WithFields(
		logging.Field{Key: logging.FieldPendingCount, Value: len(pending)},
		logging.Field{Key: logging.FieldAnalyzedCount, Value: len(done)},
	).Debug("Partitioned transaction batch")

	if len(pending) == 0 {
		return Aggregate(transactions), citations, nil
	}

	classified, updated, err := e.invoker.Classify(ctx, pending, citations)
	if err != nil {
		return models.AnalyzedBatch{}, citations, err
	}

	merged := Merge(transactions, classified)
	return Aggregate(merged), updated, nil
}
