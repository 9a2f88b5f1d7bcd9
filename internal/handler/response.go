package handler

// RESPONSE HELPERS:
// Every endpoint answers with JSON. Errors always have the same shape:
//
//	{"error": "not_found", "message": "pet not found with id 7"}
//
// plus a "field" key when a single input field is to blame, so the client
// can highlight it.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/pet-adoption/internal/apperror"
)

// maxBodyBytes caps request bodies. The largest legitimate body is a signup
// with a 100-char email and a 72-byte password.
const maxBodyBytes = 1 << 16

// ErrorResponse is the standard error format returned by all API endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`           // machine-readable type, e.g. "not_found"
	Message string `json:"message"`         // human-readable description
	Field   string `json:"field,omitempty"` // offending input, if any
}

// writeJSON sends a JSON response. Headers and status must be written
// before the body; anything set after Encode starts is ignored.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to an HTTP status and sends it.
//
// errors.Is walks the whole chain, so a service that returns
// fmt.Errorf("creating pet: %w", apperror.InvalidReference(...)) still maps
// to 422. Errors that are not *apperror.AppError become a generic 500: raw
// messages may contain SQL or file paths.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
		return
	}

	status, errorType := http.StatusInternalServerError, "internal_error"
	switch {
	case errors.Is(err, apperror.ErrValidation):
		status, errorType = http.StatusBadRequest, "validation_error"
	case errors.Is(err, apperror.ErrUnauthorized):
		status, errorType = http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, apperror.ErrForbidden):
		status, errorType = http.StatusForbidden, "forbidden"
	case errors.Is(err, apperror.ErrNotFound):
		status, errorType = http.StatusNotFound, "not_found"
	case errors.Is(err, apperror.ErrConflict):
		status, errorType = http.StatusConflict, "conflict"
	case errors.Is(err, apperror.ErrReference):
		status, errorType = http.StatusUnprocessableEntity, "invalid_reference"
	}

	writeJSON(w, status, ErrorResponse{
		Error:   errorType,
		Message: appErr.Message,
		Field:   appErr.Field,
	})
}

// logFailure records a failed service call. Errors that become a generic
// 500 are logged at Error with their cause, ownership violations at Warn,
// and the remaining client errors at Debug.
func logFailure(ctx context.Context, logger *slog.Logger, msg string, err error, attrs ...slog.Attr) {
	level := slog.LevelDebug
	var appErr *apperror.AppError
	switch {
	case !errors.As(err, &appErr):
		level = slog.LevelError
	case errors.Is(err, apperror.ErrForbidden):
		level = slog.LevelWarn
	}
	logger.LogAttrs(ctx, level, msg, append(attrs, slog.String("error", err.Error()))...)
}

// decodeJSON reads a single JSON object from the request body into dst.
// Unknown fields are rejected so typos like "petID" surface as 400s.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return apperror.ValidationFailed("", "request body is required")
		case errors.As(err, &maxErr):
			return apperror.ValidationFailed("", fmt.Sprintf("request body must be %d bytes or less", maxErr.Limit))
		default:
			return apperror.ValidationFailed("", "invalid JSON body: "+err.Error())
		}
	}
	if dec.More() {
		return apperror.ValidationFailed("", "request body must contain a single JSON object")
	}
	return nil
}

// pathID parses a positive integer chi URL parameter.
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.ValidationFailed(name, fmt.Sprintf("%s must be a positive integer, got %q", name, raw))
	}
	return id, nil
}

// queryInt parses an optional integer query parameter, returning 0 when it
// is absent.
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperror.ValidationFailed(name, fmt.Sprintf("%s must be an integer, got %q", name, raw))
	}
	return n, nil
}
