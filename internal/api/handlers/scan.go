// Package handlers provides HTTP request handlers for the escudo API.
// This file implements the scan trigger and result listing endpoints.
// Both act only on the authenticated caller's own results.
package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/anstrom/escudo/internal/api/middleware"
	"github.com/anstrom/escudo/internal/auth"
	"github.com/anstrom/escudo/internal/db"
	"github.com/anstrom/escudo/internal/errors"
	"github.com/anstrom/escudo/internal/logging"
	"github.com/anstrom/escudo/internal/services"
)

// TotalCountHeader carries the owner's total result count on paginated
// listings.
const TotalCountHeader = "X-Total-Count"

//go:generate mockgen -destination=mocks/mock_scan_service.go -package=mocks github.com/anstrom/escudo/internal/api/handlers ScanService

// ScanService is the scan logic behind ScanHandler. services.ScanService
// implements it.
type ScanService interface {
	Scan(ctx context.Context, owner int64, rawIP string) (*db.ScanResult, error)
	ListResults(ctx context.Context, owner int64) ([]*db.ScanResult, error)
	ListResultsPage(ctx context.Context, owner int64, limit, offset int) (*services.ResultPage, error)
}

// ScanHandler handles /scan endpoints.
type ScanHandler struct {
	service ScanService
	logger  *logging.Logger
}

// NewScanHandler creates a new scan handler.
func NewScanHandler(service ScanService, logger *logging.Logger) *ScanHandler {
	return &ScanHandler{
		service: service,
		logger:  logger.WithFields("handler", "scan"),
	}
}

// ScanRequest is the body of POST /scan/network. IP is passed to the scan
// service verbatim; a missing, padded or malformed address is rejected there
// as TARGET_INVALID.
type ScanRequest struct {
	IP string `json:"ip"`
}

// ScanResultResponse is one stored scan result.
type ScanResultResponse struct {
	ID          int64     `json:"id"`
	IP          string    `json:"ip"`
	ScanPayload db.JSONB  `json:"scan_payload"`
	CreatedAt   time.Time `json:"created_at"`
}

func resultToResponse(result *db.ScanResult) ScanResultResponse {
	return ScanResultResponse{
		ID:          result.ID,
		IP:          result.IP,
		ScanPayload: result.ScanPayload,
		CreatedAt:   result.CreatedAt,
	}
}

func resultsToResponse(results []*db.ScanResult) []ScanResultResponse {
	responses := make([]ScanResultResponse, len(results))
	for i, result := range results {
		responses[i] = resultToResponse(result)
	}
	return responses
}

// ScanNetwork handles POST /scan/network.
func (h *ScanHandler) ScanNetwork(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	var req ScanRequest
	if err := parseJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, errors.CodeValidation, err.Error())
		return
	}
	h.logger.Info("Scan requested",
		"request_id", middleware.GetRequestID(r),
		"user_id", identity.UserID,
		"target", req.IP)

	result, err := h.service.Scan(r.Context(), identity.UserID, req.IP)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, r, http.StatusOK, resultToResponse(result))
}

// ListResults handles GET /scan/results. Without limit or offset every
// result is returned; with either, one page is returned and the total is
// reported in the X-Total-Count header.
func (h *ScanHandler) ListResults(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	limit, hasLimit, err := getQueryParamInt(r, "limit")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, errors.CodeValidation, err.Error())
		return
	}
	offset, hasOffset, err := getQueryParamInt(r, "offset")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, errors.CodeValidation, err.Error())
		return
	}

	if !hasLimit && !hasOffset {
		results, err := h.service.ListResults(r.Context(), identity.UserID)
		if err != nil {
			writeServiceError(w, r, h.logger, err)
			return
		}
		writeJSON(w, r, http.StatusOK, resultsToResponse(results))
		return
	}

	page, err := h.service.ListResultsPage(r.Context(), identity.UserID, limit, offset)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	w.Header().Set(TotalCountHeader, strconv.FormatInt(page.Total, 10))
	writeJSON(w, r, http.StatusOK, resultsToResponse(page.Results))
}

func (h *ScanHandler) identity(w http.ResponseWriter, r *http.Request) (*auth.Identity, bool) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, errors.CodeUnauthorized, "Could not validate credentials")
	}
	return identity, ok
}
