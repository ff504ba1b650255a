// Package httpx is the JSON envelope shared by every handler. Errors travel
// as {"error": "<code>"} where the code is one of the platform's sentinel
// strings (invalid_transition, stale_state, insufficient_stock, ...), so the
// dashboard layer switches on codes rather than parsing messages.
package httpx

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the uniform error body. Details carries optional
// machine-readable context (e.g. the offending field) and is omitted when
// nil.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// JSON writes payload with the given status. The body is marshalled before
// any byte is sent so an encoding failure cannot leave a truncated response
// behind a success status.
func JSON(w http.ResponseWriter, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, `{"error":"encode_error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// JSONError writes the uniform error envelope.
func JSONError(w http.ResponseWriter, status int, code string, details any) {
	JSON(w, status, ErrorResponse{Error: code, Details: details})
}
