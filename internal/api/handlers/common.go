// Package handlers provides HTTP request handlers for the escudo API.
// This file contains the helpers shared by all handlers: JSON encoding,
// request parsing and the mapping from typed errors to HTTP responses.
package handlers

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/anstrom/escudo/internal/api/middleware"
	"github.com/anstrom/escudo/internal/errors"
	"github.com/anstrom/escudo/internal/logging"
)

const internalErrorMessage = "Internal server error"

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, r *http.Request, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Error("Failed to encode JSON response",
			"request_id", middleware.GetRequestID(r),
			"error", err)
	}
}

// writeError writes an error response with an explicit status and code.
func writeError(w http.ResponseWriter, r *http.Request, statusCode int, code errors.ErrorCode, message string) {
	middleware.WriteError(w, r, statusCode, code, message)
}

// writeServiceError maps err to a status code and writes it. Errors that
// map to 5xx are logged; their internal detail never reaches the client.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *logging.Logger, err error) {
	status, message := statusForError(err)
	code := errors.GetCode(err)

	if status >= http.StatusInternalServerError {
		logger.Error("Request failed",
			"request_id", middleware.GetRequestID(r),
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"code", code,
			"error", err)
	}

	writeError(w, r, status, code, message)
}

// statusForError returns the HTTP status for err and the message that is
// safe to show the client.
func statusForError(err error) (int, string) {
	code := errors.GetCode(err)

	if errors.IsPersistence(err) {
		switch code {
		case errors.CodeConflict:
			return http.StatusBadRequest, publicMessage(err)
		case errors.CodeNotFound:
			return http.StatusNotFound, publicMessage(err)
		case errors.CodeValidation:
			return http.StatusBadRequest, publicMessage(err)
		default:
			return http.StatusInternalServerError, internalErrorMessage
		}
	}

	switch code {
	case errors.CodeTargetInvalid, errors.CodeValidation, errors.CodeConflict:
		return http.StatusBadRequest, publicMessage(err)
	case errors.CodeUnauthorized:
		return http.StatusUnauthorized, publicMessage(err)
	case errors.CodeNotFound:
		return http.StatusNotFound, publicMessage(err)
	case errors.CodeToolUnavailable:
		return http.StatusServiceUnavailable, publicMessage(err)
	case errors.CodeScanFailed:
		if errors.IsTimeout(err) {
			return http.StatusBadGateway, "Scan operation timed out"
		}
		return http.StatusBadGateway, publicMessage(err)
	case errors.CodeTimeout, errors.CodeCanceled:
		return http.StatusGatewayTimeout, "Request did not complete in time"
	default:
		return http.StatusInternalServerError, internalErrorMessage
	}
}

// publicMessage returns the message of the first typed error in the chain,
// without its cause.
func publicMessage(err error) string {
	var scanErr *errors.ScanError
	if stderrors.As(err, &scanErr) {
		return scanErr.Message
	}
	var dbErr *errors.DatabaseError
	if stderrors.As(err, &dbErr) {
		return dbErr.Message
	}
	var authErr *errors.AuthError
	if stderrors.As(err, &authErr) {
		return authErr.Message
	}
	return internalErrorMessage
}

// parseJSON decodes a single JSON object from the request body into dest.
// Unknown fields are ignored.
func parseJSON(r *http.Request, dest interface{}) error {
	if r.Body == nil || r.Body == http.NoBody {
		return fmt.Errorf("request body is empty")
	}

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		if stderrors.As(err, &maxErr) {
			return fmt.Errorf("request body too large (max %d bytes)", maxErr.Limit)
		}
		return fmt.Errorf("invalid JSON: %w", err)
	}

	return nil
}

// getQueryParamInt extracts an integer query parameter. The second result
// reports whether the parameter was present.
func getQueryParamInt(r *http.Request, key string) (int, bool, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, true, fmt.Errorf("invalid %s parameter: %q", key, value)
	}
	return n, true, nil
}
