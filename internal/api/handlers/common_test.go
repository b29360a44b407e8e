package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anstrom/escudo/internal/api/middleware"
	"github.com/anstrom/escudo/internal/errors"
	"github.com/anstrom/escudo/internal/logging"
)

func createTestLogger() *logging.Logger {
	return logging.NewWithWriter(logging.DefaultConfig(), &bytes.Buffer{})
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) middleware.ErrorResponse {
	t.Helper()
	var body middleware.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestStatusForError(t *testing.T) {
	timeout := errors.ErrScanFailed("10.0.0.1", errors.ErrScanTimeout("10.0.0.1"))

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"invalid target", errors.ErrInvalidTarget("x", fmt.Errorf("bad")), http.StatusBadRequest,
			"Invalid target: must be an IPv4 or IPv6 address"},
		{"validation", errors.NewScanError(errors.CodeValidation, "limit must be positive"), http.StatusBadRequest,
			"limit must be positive"},
		{"unauthorized", errors.ErrUnauthorized(nil), http.StatusUnauthorized, "Could not validate credentials"},
		{"auth conflict", errors.NewAuthError(errors.CodeConflict, "Email already registered"), http.StatusBadRequest,
			"Email already registered"},
		{"tool unavailable", errors.ErrToolUnavailable(fmt.Errorf("exec: nmap not found")), http.StatusServiceUnavailable,
			"nmap is not available on the server"},
		{"scan failed", errors.ErrScanFailed("10.0.0.1", fmt.Errorf("exit status 1")), http.StatusBadGateway,
			"Scan failed"},
		{"scan timeout", timeout, http.StatusBadGateway, "Scan operation timed out"},
		{"db connection", errors.NewDatabaseError(errors.CodeDatabaseConnection, "dial tcp 10.1.1.1:5432"),
			http.StatusInternalServerError, "Internal server error"},
		{"db query", errors.WrapDatabaseError(errors.CodeDatabaseQuery, "relation missing", fmt.Errorf("pq")),
			http.StatusInternalServerError, "Internal server error"},
		{"db foreign key", errors.NewDatabaseError(errors.CodeDatabaseQuery, "Referenced resource does not exist"),
			http.StatusInternalServerError, "Internal server error"},
		{"db conflict", errors.NewDatabaseError(errors.CodeConflict, "Resource already exists"), http.StatusBadRequest,
			"Resource already exists"},
		{"db not found", errors.NewDatabaseError(errors.CodeNotFound, "User not found"), http.StatusNotFound,
			"User not found"},
		{"canceled", errors.NewDatabaseError(errors.CodeCanceled, "canceled"), http.StatusInternalServerError,
			"Internal server error"},
		{"untyped", fmt.Errorf("something broke"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, message := statusForError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMessage, message)
		})
	}
}

func TestWriteServiceError_HidesInternalDetail(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(logging.DefaultConfig(), &buf)
	err := errors.WrapDatabaseError(errors.CodeDatabaseQuery, "Database query error",
		fmt.Errorf("password authentication failed for user escudo"))

	rec := httptest.NewRecorder()
	writeServiceError(rec, httptest.NewRequest(http.MethodGet, "/scan/results", nil), logger, err)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password authentication")
	body := decodeError(t, rec)
	assert.Equal(t, errors.CodeDatabaseQuery, body.Code)
	assert.Contains(t, buf.String(), "password authentication")
}

func TestParseJSON(t *testing.T) {
	var dest ScanRequest

	require.NoError(t, parseJSON(jsonRequest(http.MethodPost, "/", `{"ip":"10.0.0.1"}`), &dest))
	assert.Equal(t, "10.0.0.1", dest.IP)

	assert.Error(t, parseJSON(jsonRequest(http.MethodPost, "/", `{"ip":`), &dest))
	require.NoError(t, parseJSON(jsonRequest(http.MethodPost, "/", `{"ip":"10.0.0.2","extra":1}`), &dest))
	assert.Equal(t, "10.0.0.2", dest.IP)
	assert.Error(t, parseJSON(httptest.NewRequest(http.MethodPost, "/", nil), &dest))
}

func TestParseJSON_TooLarge(t *testing.T) {
	req := jsonRequest(http.MethodPost, "/", `{"ip":"`+strings.Repeat("1", 100)+`"}`)
	req.Body = http.MaxBytesReader(httptest.NewRecorder(), req.Body, 16)

	err := parseJSON(req, &ScanRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
}

func TestGetQueryParamInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=10&offset=abc", nil)

	n, ok, err := getQueryParamInt(req, "limit")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 10, n)

	_, ok, err = getQueryParamInt(req, "offset")
	assert.True(t, ok)
	assert.Error(t, err)

	_, ok, err = getQueryParamInt(req, "missing")
	assert.NoError(t, err)
	assert.False(t, ok)
}
