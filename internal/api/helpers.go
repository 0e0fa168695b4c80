// Package api implements the HTTP handlers. Each handler closes over the
// server's shared dependencies and maps the core error taxonomy onto HTTP
// statuses.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hashicorp/go-hclog"

	"github.com/shoemakerdr/ellie/internal/format"
	"github.com/shoemakerdr/ellie/internal/storage"
	"github.com/shoemakerdr/ellie/internal/store"
	"github.com/shoemakerdr/ellie/internal/uploads"
	"github.com/shoemakerdr/ellie/pkg/ids"
)

// apiError is the JSON body every failed API request carries.
type apiError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// decodeRequest decodes a JSON request body, rejecting unknown fields.
func decodeRequest(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// respondJSON writes v as the JSON response body.
func respondJSON(
	log hclog.Logger, w http.ResponseWriter, status int, v interface{},
) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("error encoding response", "error", err)
	}
}

// errResp writes an error response body with the given status and message.
func errResp(
	log hclog.Logger, w http.ResponseWriter, status int, message string,
	err error, extraArgs ...interface{},
) {
	if status >= http.StatusInternalServerError {
		log.Error(message, append([]interface{}{"error", err}, extraArgs...)...)
	} else {
		log.Warn(message, append([]interface{}{"error", err}, extraArgs...)...)
	}
	respondJSON(log, w, status, apiError{Status: status, Message: message})
}

// coreErrResp maps a core error onto its HTTP status, using the caller's
// message for client errors and a generic one for everything unexpected.
func coreErrResp(
	log hclog.Logger, w http.ResponseWriter, message string, err error,
	extraArgs ...interface{},
) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		message = "Internal server error"
	}
	errResp(log, w, status, message, err, extraArgs...)
}

// errorStatus translates the core error taxonomy into HTTP statuses.
// Transient storage trouble maps to 503 so clients know to retry, and a
// lost confirm race maps to 409 so it stays distinguishable from the 400 a
// skipped-ahead request gets.
func errorStatus(err error) int {
	var srcErr *format.SourceError
	switch {
	case errors.Is(err, ids.ErrInvalidFormat),
		errors.Is(err, uploads.ErrInvalidArgument),
		errors.Is(err, uploads.ErrPredecessorMissing),
		errors.As(err, &srcErr):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrSequenceViolation):
		return http.StatusConflict
	case errors.Is(err, storage.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
