// Package classifier invokes the external practice classifier, repairs and
// validates its output, and guarantees that every pending transaction comes
// back analyzed even when the classifier misbehaves.
package classifier

import (
	"context"

	"ethicheck/societal-debt/internal/models"
)

// Annotation links a citation-reference token embedded in rationale text to
// a real source.
type Annotation struct {
	Token string
	Title string
	URL   string
}

// RawResponse is the untrusted output of one classifier call. Text has not
// survived parsing yet and must be treated as free-form.
type RawResponse struct {
	Text        string
	Annotations []Annotation
}

// Client abstracts the external classifier service. Implementations send one
// request per batch, never one per transaction, and surface transport-level
// failures as plain errors.
type Client interface {
	Classify(ctx context.Context, transactions []models.Transaction) (*RawResponse, error)
}
