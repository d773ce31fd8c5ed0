package dictionary

import (
	"errors"
	"fmt"
)

// Lookup failure kinds. A *LookupError always unwraps to exactly one of these,
// so callers classify failures with errors.Is.
var (
	// ErrValidation indicates the input was rejected before any request was made
	ErrValidation = errors.New("invalid lookup input")

	// ErrNotFound indicates the dictionary has no entry for the word (HTTP 404)
	ErrNotFound = errors.New("word not found")

	// ErrRateLimited indicates the API rate limit was exceeded (HTTP 429)
	ErrRateLimited = errors.New("dictionary API rate limit exceeded")

	// ErrTransport indicates any other non-success HTTP status
	ErrTransport = errors.New("unexpected dictionary API status")

	// ErrEmptyResult indicates a success status with an empty or malformed payload
	ErrEmptyResult = errors.New("empty dictionary response")

	// ErrNetwork indicates the request never produced a response
	ErrNetwork = errors.New("dictionary API unreachable")
)

// LookupError describes a failed lookup. Error returns a message suitable for
// showing to the user as-is.
type LookupError struct {
	Kind       error
	Word       string
	StatusCode int    // set for ErrTransport
	Reason     string // set for ErrValidation
	Err        error  // underlying cause, if any
}

func (e *LookupError) Error() string {
	switch e.Kind {
	case ErrValidation:
		return e.Reason
	case ErrNotFound:
		return fmt.Sprintf("The word %q was not found in the dictionary. Please check the spelling.", e.Word)
	case ErrRateLimited:
		return "Too many requests. Please wait a moment before searching again."
	case ErrTransport:
		return fmt.Sprintf("Unable to fetch word data. Please try again. (Error: %d)", e.StatusCode)
	case ErrEmptyResult:
		return fmt.Sprintf("No data found for %q.", e.Word)
	case ErrNetwork:
		return "Unable to reach the dictionary service. Please check your connection and try again."
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "lookup failed"
}

func (e *LookupError) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// KindName returns a stable identifier for the failure kind, used in API responses.
func KindName(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, ErrEmptyResult):
		return "empty_result"
	case errors.Is(err, ErrNetwork):
		return "network"
	}
	return "unknown"
}
