package models

import "errors"

// Error taxonomy for the ledger engine. Callers wrap these with context via
// fmt.Errorf("...: %w", Err...) and match with errors.Is.
var (
	// ErrValidation marks malformed input: non-positive amount, unknown payer,
	// bad split weights. Surfaced to the caller, never retried.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a reference to a nonexistent user, group, transaction
	// or settlement.
	ErrNotFound = errors.New("not found")

	// ErrInvariant marks an internal conservation check failure. It indicates
	// a bug in the ledger or balance calculation, not bad input, and is never
	// silently corrected.
	ErrInvariant = errors.New("invariant violation")
)
