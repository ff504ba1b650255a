package services

import (
	"errors"

	"github.com/Curtis1706/lahamarchand-main-sub001/gate"
)

// Error taxonomy returned to the dashboard layer. The codes double as the
// JSON error strings at the HTTP boundary. stale_state is the only condition
// the caller may retry (re-read then re-attempt); all others are terminal
// for that request.
var (
	ErrInvalidTransition   = errors.New("invalid_transition")
	ErrUnauthorized        = gate.ErrUnauthorized
	ErrStaleState          = errors.New("stale_state")
	ErrInsufficientStock   = errors.New("insufficient_stock")
	ErrScopeViolation      = errors.New("scope_violation")
	ErrMissingReason       = errors.New("missing_reason")
	ErrDuplicateSettlement = errors.New("duplicate_settlement")
	ErrNotFound            = errors.New("not_found")
	ErrUnknownStatus       = errors.New("unknown_status")
	ErrEmptyOrder          = errors.New("empty_order")
	ErrInvalidQuantity     = errors.New("invalid_quantity")
	ErrInvalidAmount       = errors.New("invalid_amount")
	ErrUnknownTarget       = errors.New("unknown_correction_target")
)
