// internal/adapters/in/http/handlers/common/common_handler.go
package common

import (
	"encoding/json"
	"log"
	"net/http"
)

// ------------------------------
// Utility functions
// ------------------------------

// WriteJSON writes v as a JSON response with status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[http] WARN: encode response: %v", err)
	}
}

// ErrorBody is the JSON error envelope. View is set when the page state is useful to the client.
type ErrorBody struct {
	Error string `json:"error"`
	View  any    `json:"view,omitempty"`
}

// WriteError writes {"error": code}.
func WriteError(w http.ResponseWriter, status int, code string) {
	WriteJSON(w, status, ErrorBody{Error: code})
}

// MethodNotAllowed writes 405 response.
func MethodNotAllowed(w http.ResponseWriter) {
	WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed")
}
