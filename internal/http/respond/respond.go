// Package respond writes the JSON envelope shared by every API handler.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/teamspend/internal/apperr"
)

// Envelope wraps every JSON response body.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Count   *int   `json:"count,omitempty"`
}

func write(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// JSON writes data with the given status.
func JSON(w http.ResponseWriter, status int, data any) {
	write(w, status, Envelope{Success: true, Data: data})
}

// List writes a collection together with its length.
func List[T any](w http.ResponseWriter, items []T) {
	n := len(items)
	write(w, http.StatusOK, Envelope{Success: true, Data: items, Count: &n})
}

// Fail writes an error message with the given status.
func Fail(w http.ResponseWriter, status int, msg string) {
	write(w, status, Envelope{Error: msg})
}

// Error maps err onto a status code and writes it. Storage and unknown
// errors are logged and reported with a generic message.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		Fail(w, status, "internal server error")

		return
	}

	Fail(w, status, err.Error())
}

// StatusFor returns the HTTP status for an error kind.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrInvalidReference),
		errors.Is(err, apperr.ErrValidation),
		errors.Is(err, apperr.ErrBudgetExceeded):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict
	}

	return http.StatusInternalServerError
}

// Decode reads a JSON request body into v, rejecting unknown fields.
func Decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return apperr.Invalid("", "invalid request body: %v", err)
	}

	return nil
}
