package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Curtis1706/lahamarchand-main-sub001/internal/httpx"
	"github.com/Curtis1706/lahamarchand-main-sub001/internal/services"
)

// ActorHeader carries the acting user's id, resolved and authenticated by
// the dashboard layer upstream. The core never infers an actor from ambient
// state: every call names its actor explicitly.
const ActorHeader = "X-Acteur"

func actorID(r *http.Request) (uint, bool) {
	v := r.Header.Get(ActorHeader)
	if v == "" {
		return 0, false
	}
	id, err := strconv.ParseUint(v, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func requireActor(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, ok := actorID(r)
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, "missing_actor", nil)
	}
	return id, ok
}

func queryUint(r *http.Request, key string) *uint {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return nil
	}
	id := uint(n)
	return &id
}

// writeServiceError maps the service error taxonomy onto HTTP statuses.
// stale_state maps to 409 so the dashboard layer knows it may re-fetch and
// retry; everything else is terminal for the request.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		httpx.JSONError(w, http.StatusForbidden, "unauthorized", nil)
	case errors.Is(err, services.ErrInvalidTransition):
		httpx.JSONError(w, http.StatusUnprocessableEntity, "invalid_transition", nil)
	case errors.Is(err, services.ErrStaleState):
		httpx.JSONError(w, http.StatusConflict, "stale_state", nil)
	case errors.Is(err, services.ErrInsufficientStock):
		httpx.JSONError(w, http.StatusUnprocessableEntity, "insufficient_stock", nil)
	case errors.Is(err, services.ErrScopeViolation):
		httpx.JSONError(w, http.StatusUnprocessableEntity, "scope_violation", nil)
	case errors.Is(err, services.ErrMissingReason):
		httpx.JSONError(w, http.StatusBadRequest, "missing_reason", nil)
	case errors.Is(err, services.ErrDuplicateSettlement):
		httpx.JSONError(w, http.StatusConflict, "duplicate_settlement", nil)
	case errors.Is(err, services.ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
	case errors.Is(err, services.ErrUnknownStatus):
		httpx.JSONError(w, http.StatusBadRequest, "unknown_status", nil)
	case errors.Is(err, services.ErrEmptyOrder), errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrInvalidAmount), errors.Is(err, services.ErrUnknownTarget):
		httpx.JSONError(w, http.StatusBadRequest, err.Error(), nil)
	default:
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}
