// Package handlers provides HTTP request handlers for the escudo API.
// This file implements the status, health and version endpoints.
package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/anstrom/escudo/internal/logging"
)

// DatabasePinger defines the interface for database health checking.
type DatabasePinger interface {
	Ping(ctx context.Context) error
}

const healthCheckTimeout = 5 * time.Second

// Status values reported by the health endpoints.
const (
	StatusOK            = "ok"
	StatusUnhealthy     = "unhealthy"
	StatusNotConfigured = "not configured"
)

// ServiceName is reported by the root endpoint.
const ServiceName = "escudo"

// HealthHandler handles status and health endpoints.
type HealthHandler struct {
	database  DatabasePinger
	logger    *logging.Logger
	startTime time.Time
}

// NewHealthHandler creates a new health handler. database may be nil.
func NewHealthHandler(database DatabasePinger, logger *logging.Logger) *HealthHandler {
	return &HealthHandler{
		database:  database,
		logger:    logger.WithFields("handler", "health"),
		startTime: time.Now(),
	}
}

// RootResponse is returned by GET /.
type RootResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Uptime    string            `json:"uptime"`
	Checks    map[string]string `json:"checks"`
}

// VersionResponse represents version information.
type VersionResponse struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// Root reports that the service is up.
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, RootResponse{Status: StatusOK, Service: ServiceName})
}

// Health checks the database and reports 503 when it is unreachable.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	response := HealthResponse{
		Status:    StatusOK,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Checks:    make(map[string]string),
	}

	if h.database == nil {
		response.Checks["database"] = StatusNotConfigured
	} else if err := h.database.Ping(ctx); err != nil {
		response.Status = StatusUnhealthy
		response.Checks["database"] = "failed"
		h.logger.Warn("Database health check failed", "error", err)
	} else {
		response.Checks["database"] = StatusOK
	}

	statusCode := http.StatusOK
	if response.Status == StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}
	writeJSON(w, r, statusCode, response)
}

// Version reports build information.
func (h *HealthHandler) Version(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, VersionResponse{
		Version:   version,
		Commit:    commit,
		BuildTime: buildTime,
		GoVersion: runtime.Version(),
	})
}

// Build information, set via SetBuildInfo from ldflags values.
var (
	version   = "dev"
	commit    = "none"
	buildTime = "unknown"
)

// SetBuildInfo sets build information (called by main package).
func SetBuildInfo(v, c, bt string) {
	version = v
	commit = c
	buildTime = bt
}
