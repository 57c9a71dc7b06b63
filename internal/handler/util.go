// Package handler provides HTTP handlers for the paper API.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/scholarly-ai/paper-agent/internal/apperr"
)

// response is the envelope every JSON endpoint uses. Clients key off
// success, not the HTTP status code.
type response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeData writes a success envelope.
func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, response{Success: true, Data: data})
}

// writeError writes a failure envelope with the status derived from the
// error taxonomy.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), response{Success: false, Error: err.Error()})
}

// writeErrorMessage writes a failure envelope with an explicit status.
func writeErrorMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, response{Success: false, Error: message})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, apperr.ErrEmptyContent):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrGeneration):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
