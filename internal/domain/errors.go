package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Catalog errors
	ErrMsgCatalogUnavailable = "catalog unavailable"
	ErrMsgCardNotFound       = "card not found"

	// Draw errors
	ErrMsgEmptyPool = "empty candidate pool"

	// Quota errors
	ErrMsgRateLimited = "no free opens remaining"

	// Exchange errors
	ErrMsgOfferNotFound = "offer not found"

	// Input errors
	ErrMsgInvalidInput = "invalid input"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// ErrCatalogUnavailable blocks all draws until the catalog load succeeds.
	ErrCatalogUnavailable = errors.New(ErrMsgCatalogUnavailable)

	// ErrCardNotFound covers both a stale catalog reference and an inventory
	// item the user does not own.
	ErrCardNotFound = errors.New(ErrMsgCardNotFound)

	// ErrEmptyPool is a precondition violation: a weighted draw was attempted
	// against zero eligible candidates.
	ErrEmptyPool = errors.New(ErrMsgEmptyPool)

	// ErrRateLimited is an expected condition, not a failure: the daily free
	// quota is exhausted.
	ErrRateLimited = errors.New(ErrMsgRateLimited)

	// ErrOfferNotFound covers stale or already-accepted offer ids.
	ErrOfferNotFound = errors.New(ErrMsgOfferNotFound)

	// Validation errors
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)
