package classifier

import (
	"context"

	"github.com/shopspring/decimal"

	"ethicheck/societal-debt/internal/debt"
	"ethicheck/societal-debt/internal/engineerror"
	"ethicheck/societal-debt/internal/logging"
	"ethicheck/societal-debt/internal/models"
)

// Invoker orchestrates one classification call: request, parse/repair,
// citation resolution, debt computation, and the fallback path. It holds no
// state between calls; the citation map travels as an explicit value.
type Invoker struct {
	client Client
	log    logging.Logger
}

// NewInvoker creates an Invoker backed by the given classifier client.
func NewInvoker(client Client, log logging.Logger) *Invoker {
	return &Invoker{client: client, log: log}
}

// Classify sends the pending transactions to the classifier in a single
// request and returns one analyzed transaction per pending input, always.
//
// Transport failures (the request never produced a response) surface as a
// *engineerror.TransportError so the caller can distinguish "no attempt was
// made" from "succeeded with fallback" and retry the whole operation.
// Unparseable output never propagates: every pending transaction comes back
// as a zero-debt fallback with an information["_error"] note instead.
func (inv *Invoker) Classify(ctx context.Context, pending []models.Transaction, citations CitationMap) ([]models.Transaction, CitationMap, error) {
	if len(pending) == 0 {
		return nil, citations, nil
	}

	resp, err := inv.client.Classify(ctx, pending)
	if err != nil {
		return nil, citations, &engineerror.TransportError{Err: err}
	}

	result, err := Parse(resp.Text)
	if err != nil {
		inv.log.WithError(err).WithFields(
			logging.Field{Key: logging.FieldOperation, Value: "classify"},
			logging.Field{Key: logging.FieldPendingCount, Value: len(pending)},
		).Warn("Classifier response unparseable, substituting fallback entries")
		return fallbackBatch(pending, "classifier response could not be parsed"), citations, nil
	}

	for _, rejected := range result.Rejected {
		inv.log.WithError(rejected).WithField(logging.FieldOperation, "classify").
			Warn("Rejected structurally invalid classifier entry")
	}

	classified := make(map[string]models.Transaction, len(result.Transactions))
	for _, tx := range result.Transactions {
		classified[tx.Key()] = tx
	}

	out := make([]models.Transaction, 0, len(pending))
	for _, p := range pending {
		entry, ok := classified[p.Key()]
		if !ok {
			inv.log.WithFields(
				logging.Field{Key: logging.FieldTransactionKey, Value: p.Key()},
				logging.Field{Key: logging.FieldMerchant, Value: p.Name},
			).Warn("Classifier omitted transaction, substituting fallback entry")
			out = append(out, fallbackEntry(p, "classifier returned no result for this transaction"))
			continue
		}

		tx := p.Clone()
		tx.UnethicalPractices = entry.UnethicalPractices
		tx.EthicalPractices = entry.EthicalPractices
		tx.PracticeWeights = entry.PracticeWeights
		tx.PracticeSearchTerms = entry.PracticeSearchTerms
		tx.PracticeCategories = entry.PracticeCategories
		tx.Information, citations = ResolveCitations(entry.Information, resp.Annotations, citations)

		inv.warnOnDualListing(tx)

		tx.PracticeDebts, tx.SocietalDebt = debt.Compute(tx)
		tx.Analyzed = true
		out = append(out, tx)
	}

	return out, citations, nil
}

// warnOnDualListing flags classifier output that lists one practice as both
// ethical and unethical. The contributions still apply with both signs; this
// is a data-quality signal, not a rejection.
func (inv *Invoker) warnOnDualListing(tx models.Transaction) {
	unethical := make(map[string]struct{}, len(tx.UnethicalPractices))
	for _, p := range tx.UnethicalPractices {
		unethical[p] = struct{}{}
	}
	for _, p := range tx.EthicalPractices {
		if _, ok := unethical[p]; ok {
			inv.log.WithFields(
				logging.Field{Key: logging.FieldTransactionKey, Value: tx.Key()},
				logging.Field{Key: logging.FieldPractice, Value: p},
			).Warn("Practice listed as both ethical and unethical")
		}
	}
}

// fallbackBatch builds one zero-debt fallback per pending transaction.
func fallbackBatch(pending []models.Transaction, note string) []models.Transaction {
	out := make([]models.Transaction, 0, len(pending))
	for _, p := range pending {
		out = append(out, fallbackEntry(p, note))
	}
	return out
}

// fallbackEntry returns the pending transaction marked analyzed with zero
// debt and an error note, so the pipeline terminates with a fully analyzed
// batch even under total classifier failure.
func fallbackEntry(p models.Transaction, note string) models.Transaction {
	tx := p.Clone()
	tx.UnethicalPractices = nil
	tx.EthicalPractices = nil
	tx.PracticeWeights = nil
	tx.PracticeDebts = nil
	tx.SocietalDebt = decimal.Zero
	if tx.Information == nil {
		tx.Information = map[string]string{}
	}
	tx.Information[models.ErrorInfoKey] = note
	tx.Analyzed = true
	return tx
}
