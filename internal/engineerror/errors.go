// Package engineerror defines the typed error taxonomy of the analysis
// engine. Transport failures are the only errors that reach the caller;
// parse failures are absorbed by the fallback path and never propagate.
package engineerror

import "fmt"

// TransportError represents a failure to reach the classifier at all: the
// request never produced a response (network error, timeout, cancellation).
// No classification attempt was made, so the caller may retry the whole
// operation.
type TransportError struct {
	Model string
	Err   error
}

func (e *TransportError) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("classifier transport failure (model %s): %v", e.Model, e.Err)
	}
	return fmt.Sprintf("classifier transport failure: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ParseError represents classifier output that could not be turned into a
// structured result after every repair attempt.
type ParseError struct {
	Attempts   int
	RawSnippet string // leading slice of the raw response, for debugging
	Err        error
}

func (e *ParseError) Error() string {
	if e.RawSnippet != "" {
		return fmt.Sprintf("failed to parse classifier response after %d attempts: %v. Response snippet: '%s'",
			e.Attempts, e.Err, e.RawSnippet)
	}
	return fmt.Sprintf("failed to parse classifier response after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError represents a structurally invalid transaction entry in an
// otherwise parseable classifier response.
type ValidationError struct {
	Index  int
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid classifier entry at index %d: field '%s': %s", e.Index, e.Field, e.Reason)
}
