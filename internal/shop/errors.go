package shop

import "errors"

var (
	// ErrEmptyOrder signals that the user has no order lines. It is an
	// expected outcome, not a fault; callers render a notice instead of a line.
	ErrEmptyOrder = errors.New("shop: order is empty")

	// ErrInvalidCursor signals that the session cursor no longer points at an
	// existing order line. It indicates drift between the session and the
	// ledger and resets the session when detected.
	ErrInvalidCursor = errors.New("shop: cursor out of range")
)
