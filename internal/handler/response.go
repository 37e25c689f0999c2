// Package handler contains the HTTP handlers. Handlers are deliberately thin:
// decode the request, call the service, encode the response. All decisions
// about what is allowed or valid live in the service layer; all decisions
// about status codes live here.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/haitezaz/workedin-pakistan-connect/internal/apperror"
)

// writeJSON encodes data as the response body with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		// Encoding failures after WriteHeader can't change the status; a
		// truncated body is the best we can do, and the client sees it.
		_ = json.NewEncoder(w).Encode(data)
	}
}

// errorResponse is the uniform error body.
type errorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}

// writeError maps a service error to an HTTP status via the apperror
// sentinels. The sentinel decides the status; the AppError's message (already
// written for end users) becomes the body. Anything unclassified is a 500
// with a generic body — internal details go to the log, never to the client.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var status int
	var code string

	switch {
	case errors.Is(err, apperror.ErrValidation):
		status, code = http.StatusBadRequest, "validation_failed"
	case errors.Is(err, apperror.ErrInvalidCredentials):
		status, code = http.StatusUnauthorized, "invalid_credentials"
	case errors.Is(err, apperror.ErrForbidden):
		status, code = http.StatusForbidden, "forbidden"
	case errors.Is(err, apperror.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, apperror.ErrDuplicateEmail), errors.Is(err, apperror.ErrConflict):
		status, code = http.StatusConflict, "conflict"
	case errors.Is(err, apperror.ErrUnavailable):
		status, code = http.StatusServiceUnavailable, "unavailable"
		logger.Error("store unavailable", "error", err)
	default:
		logger.Error("unhandled error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   "internal",
			Message: "something went wrong",
		})
		return
	}

	resp := errorResponse{Error: code, Message: err.Error()}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		resp.Fields = appErr.Fields
	}
	writeJSON(w, status, resp)
}

// decodeJSON decodes the request body into dst, rejecting unknown fields so
// a typo'd field name fails loudly instead of being silently dropped.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperror.ValidationFailed("request body is not valid JSON")
	}
	return nil
}
