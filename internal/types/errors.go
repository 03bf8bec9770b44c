package types

import (
	"errors"
	"fmt"
)

// Error taxonomy for boundary operations. Pipeline-internal steps
// (canonicalize, extract, aggregate, hash) never fail; only store I/O,
// external calls and reviewer edits surface these.
var (
	// ErrNotFound indicates an operation referenced an unknown
	// fingerprint or confirmed-entry id.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a concurrent writer raced an upsert, or a
	// lifecycle transition was attempted from an incompatible state.
	// Callers should re-run the whole reconciliation for the date.
	ErrConflict = errors.New("conflict")

	// ErrSourceUnavailable indicates the external activity source could
	// not be reached or returned a failure. No local retry is attempted.
	ErrSourceUnavailable = errors.New("activity source unavailable")
)

// ValidationError reports a malformed field in reviewer-submitted input.
// It is returned before any store is mutated.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
