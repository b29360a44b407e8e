package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/anstrom/escudo/internal/api/middleware/mocks"
	"github.com/anstrom/escudo/internal/auth"
	"github.com/anstrom/escudo/internal/errors"
	"github.com/anstrom/escudo/internal/logging"
	metricsmocks "github.com/anstrom/escudo/internal/metrics/mocks"
)

func testLogger(buf *bytes.Buffer) *logging.Logger {
	return logging.NewWithWriter(logging.Config{Level: logging.LevelDebug, Format: logging.FormatJSON}, buf)
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
})

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r)
	}))

	t.Run("generated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
	})

	t.Run("inbound header reused", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, "abc-123", seen)
		assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
	})

	t.Run("oversized header replaced", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, strings.Repeat("x", maxRequestIDLength+1))
		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.Len(t, seen, 36)
	})
}

func TestGetRequestID_Missing(t *testing.T) {
	assert.Empty(t, GetRequestID(httptest.NewRequest(http.MethodGet, "/", nil)))
}

func TestWriteError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	var rec *httptest.ResponseRecorder
	RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec = httptest.NewRecorder()
		WriteError(rec, r, http.StatusBadRequest, errors.CodeTargetInvalid, "Invalid IP address")
	})).ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decodeError(t, rec)
	assert.Equal(t, "Bad Request", body.Error)
	assert.Equal(t, "Invalid IP address", body.Message)
	assert.Equal(t, errors.CodeTargetInvalid, body.Code)
	assert.NotEmpty(t, body.RequestID)
	assert.WithinDuration(t, time.Now(), body.Timestamp, time.Minute)
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	handler := RequestID()(Logging(testLogger(&buf))(okHandler))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	out := buf.String()
	assert.Contains(t, out, "HTTP request started")
	assert.Contains(t, out, "HTTP request completed")
	assert.Contains(t, out, `"status_code":200`)
	assert.Contains(t, out, `"path":"/healthz"`)
	assert.Contains(t, out, rec.Header().Get(RequestIDHeader))
}

func TestMetrics(t *testing.T) {
	ctrl := gomock.NewController(t)
	recorder := metricsmocks.NewMockRecorder(ctrl)

	router := mux.NewRouter()
	router.Use(Metrics(recorder))
	router.HandleFunc("/scan/results", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	recorder.EXPECT().RecordHTTPRequest("GET", "/scan/results", "418", gomock.Any())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/scan/results", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestRouteTemplate_Unmatched(t *testing.T) {
	assert.Equal(t, "unmatched", routeTemplate(httptest.NewRequest(http.MethodGet, "/x", nil)))
}

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer
	handler := Recovery(testLogger(&buf))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", decodeError(t, rec).Message)
	assert.Contains(t, buf.String(), "boom")
}

func TestAuthentication(t *testing.T) {
	identity := &auth.Identity{UserID: 4, Email: "a@corp.com"}

	tests := []struct {
		name       string
		header     string
		setup      func(*mocks.MockAuthenticator)
		wantStatus int
		wantCode   errors.ErrorCode
	}{
		{
			name:       "missing header",
			setup:      func(*mocks.MockAuthenticator) {},
			wantStatus: http.StatusUnauthorized,
			wantCode:   errors.CodeUnauthorized,
		},
		{
			name:       "wrong scheme",
			header:     "Basic dXNlcjpwYXNz",
			setup:      func(*mocks.MockAuthenticator) {},
			wantStatus: http.StatusUnauthorized,
			wantCode:   errors.CodeUnauthorized,
		},
		{
			name:       "empty token",
			header:     "Bearer   ",
			setup:      func(*mocks.MockAuthenticator) {},
			wantStatus: http.StatusUnauthorized,
			wantCode:   errors.CodeUnauthorized,
		},
		{
			name:   "rejected token",
			header: "Bearer bad",
			setup: func(m *mocks.MockAuthenticator) {
				m.EXPECT().Authenticate(gomock.Any(), "bad").Return(nil, errors.ErrUnauthorized(nil))
			},
			wantStatus: http.StatusUnauthorized,
			wantCode:   errors.CodeUnauthorized,
		},
		{
			name:   "store failure",
			header: "Bearer good",
			setup: func(m *mocks.MockAuthenticator) {
				m.EXPECT().Authenticate(gomock.Any(), "good").
					Return(nil, errors.NewDatabaseError(errors.CodeDatabaseConnection, "Database connection error"))
			},
			wantStatus: http.StatusInternalServerError,
			wantCode:   errors.CodeDatabaseConnection,
		},
		{
			name:   "accepted token",
			header: "bearer good",
			setup: func(m *mocks.MockAuthenticator) {
				m.EXPECT().Authenticate(gomock.Any(), "good").Return(identity, nil)
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			authn := mocks.NewMockAuthenticator(ctrl)
			tt.setup(authn)

			var got *auth.Identity
			handler := Authentication(authn, testLogger(&bytes.Buffer{}))(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					got, _ = auth.IdentityFromContext(r.Context())
					w.WriteHeader(http.StatusOK)
				}))

			req := httptest.NewRequest(http.MethodGet, "/scan/results", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, identity, got)
				return
			}
			assert.Nil(t, got)
			body := decodeError(t, rec)
			assert.Equal(t, tt.wantCode, body.Code)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
			} else {
				assert.NotContains(t, body.Message, "Database")
			}
		})
	}
}

func TestMaxBodySize(t *testing.T) {
	handler := MaxBodySize(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("small")))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("this body is too large")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestContentType(t *testing.T) {
	tests := []struct {
		method      string
		contentType string
		want        int
	}{
		{http.MethodPost, "application/json", http.StatusOK},
		{http.MethodPost, "application/json; charset=utf-8", http.StatusOK},
		{http.MethodPost, "application/x-www-form-urlencoded", http.StatusOK},
		{http.MethodPost, "", http.StatusOK},
		{http.MethodPost, "text/plain", http.StatusUnsupportedMediaType},
		{http.MethodGet, "text/plain", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.contentType, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/", nil)
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			ContentType()(okHandler).ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeaders()(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded for", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "10.0.0.1:1234", "203.0.113.7"},
		{"real ip", map[string]string{"X-Real-IP": "203.0.113.8"}, "10.0.0.1:1234", "203.0.113.8"},
		{"ipv4 remote", nil, "192.0.2.1:5555", "192.0.2.1"},
		{"ipv6 remote", nil, "[2001:db8::1]:5555", "2001:db8::1"},
		{"bare remote", nil, "192.0.2.1", "192.0.2.1"},
		{"empty", nil, "", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, getClientIP(req))
		})
	}
}

func TestResponseWriter_FirstStatusWins(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := wrap(rec)

	_, _ = rw.Write([]byte("hello"))
	rw.WriteHeader(http.StatusInternalServerError)

	assert.Equal(t, http.StatusOK, rw.statusCode)
	assert.Equal(t, 5, rw.size)
}
