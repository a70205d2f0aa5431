package domain

import "fmt"

// ErrorKind classifies external capability failures
type ErrorKind string

// error kinds shared by fetch and enrichment failures
const (
	ErrRateLimited ErrorKind = "rate_limited"
	ErrUnavailable ErrorKind = "unavailable"
	ErrMalformed   ErrorKind = "malformed"
)

// FetchError reports a failure of the article source provider
type FetchError struct {
	Kind ErrorKind
	Err  error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch failed (%s): %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("fetch failed (%s)", e.Kind)
}

func (e *FetchError) Unwrap() error { return e.Err }

// EnrichmentError reports a failure of the text analysis capability
type EnrichmentError struct {
	Kind ErrorKind
	Err  error
}

func (e *EnrichmentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("enrichment failed (%s): %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("enrichment failed (%s)", e.Kind)
}

func (e *EnrichmentError) Unwrap() error { return e.Err }

// ValidationError reports a profile invariant violation. It surfaces to the
// caller as-is and is never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid profile: %s %s", e.Field, e.Reason)
}
