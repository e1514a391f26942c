// Package shared holds the JSON response helpers used by every handler
// package, so error envelopes stay consistent across the API surface.
package shared

import (
	"encoding/json"
	"net/http"

	dErrors "applyform/pkg/domain-errors"
)

// ErrorResponse is the uniform error envelope. Message is always the
// sanitized domain message; raw error text never reaches the client.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteJSON writes a payload with the given status code.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteError translates a domain error into its HTTP status and envelope.
func WriteError(w http.ResponseWriter, err error) {
	WriteJSON(w, dErrors.ToHTTPStatus(err), ErrorResponse{
		Success: false,
		Error:   string(dErrors.CodeOf(err)),
		Message: dErrors.Message(err),
	})
}
