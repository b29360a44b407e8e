// Package services provides business logic services for escudo.
// This file implements the tenant-scoped scan service: it validates a
// target, runs the scanner, normalizes the output and stores the result
// under the caller's identity.
package services

import (
	"context"
	"time"

	"github.com/anstrom/escudo/internal/db"
	"github.com/anstrom/escudo/internal/errors"
	"github.com/anstrom/escudo/internal/logging"
	"github.com/anstrom/escudo/internal/metrics"
	"github.com/anstrom/escudo/internal/scanning"
)

// Pagination bounds for ListResultsPage.
const (
	DefaultPageSize = 50
	MaxPageSize     = 100
)

//go:generate mockgen -destination=mocks/mock_result_store.go -package=mocks github.com/anstrom/escudo/internal/services ResultStore

// ResultStore persists scan results scoped to their owner.
// db.ScanResultRepository implements it.
type ResultStore interface {
	Save(ctx context.Context, owner int64, target scanning.Target, result scanning.HostResult) (*db.ScanResult, error)
	FindByOwner(ctx context.Context, owner int64) ([]*db.ScanResult, error)
	FindByOwnerPage(ctx context.Context, owner int64, limit, offset int) ([]*db.ScanResult, error)
	CountByOwner(ctx context.Context, owner int64) (int64, error)
}

// ResultPage is one page of an owner's results, newest first.
type ResultPage struct {
	Results []*db.ScanResult `json:"results"`
	Total   int64            `json:"total"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
}

// ScanService runs scans on behalf of an owner. It holds no mutable state,
// so concurrent calls are independent.
type ScanService struct {
	executor scanning.Executor
	store    ResultStore
	metrics  metrics.Recorder
	logger   *logging.Logger
}

// NewScanService creates a scan service. A nil recorder disables metrics.
func NewScanService(
	executor scanning.Executor, store ResultStore, recorder metrics.Recorder, logger *logging.Logger,
) *ScanService {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ScanService{
		executor: executor,
		store:    store,
		metrics:  recorder,
		logger:   logger.WithComponent("scan"),
	}
}

// Scan validates rawIP, scans it and stores the normalized result under
// owner. An invalid address fails with CodeTargetInvalid before the scanner
// is invoked. Executor errors are returned unchanged and nothing is stored.
func (s *ScanService) Scan(ctx context.Context, owner int64, rawIP string) (*db.ScanResult, error) {
	target, result, err := s.run(ctx, rawIP, "owner_id", owner)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	record, err := s.store.Save(ctx, owner, target, result)
	s.metrics.RecordDatabaseQuery("save_scan_result", time.Since(start), err == nil)
	if err != nil {
		s.logger.ErrorDatabase("Failed to save scan result", err,
			"owner_id", owner, "target", target.String())
		return nil, err
	}

	s.logger.InfoScan("Scan result stored", target.String(),
		"owner_id", owner, "result_id", record.ID)
	return record, nil
}

// Probe validates rawIP and scans it without storing anything.
func (s *ScanService) Probe(ctx context.Context, rawIP string) (scanning.HostResult, error) {
	_, result, err := s.run(ctx, rawIP)
	return result, err
}

func (s *ScanService) run(ctx context.Context, rawIP string, fields ...any) (scanning.Target, scanning.HostResult, error) {
	target, err := scanning.ParseTarget(rawIP)
	if err != nil {
		return scanning.Target{}, nil, err
	}

	s.logger.InfoScan("Starting scan", target.String(), fields...)
	start := time.Now()

	raw, err := s.executor.Run(ctx, target)
	if err != nil {
		s.metrics.RecordScanError(string(errors.GetCode(err)))
		s.logger.ErrorScan("Scan failed", target.String(), err, fields...)
		return target, nil, err
	}

	result := scanning.Normalize(raw)
	duration := time.Since(start)
	s.metrics.RecordScan(metrics.StatusSuccess, duration, len(result), result.PortCount())
	s.logger.InfoScan("Scan completed", target.String(),
		append(fields, "hosts", len(result), "ports", result.PortCount(), "duration", duration)...)

	return target, result, nil
}

// ListResults returns every result owned by owner, newest first. Results of
// other owners are never included.
func (s *ScanService) ListResults(ctx context.Context, owner int64) ([]*db.ScanResult, error) {
	start := time.Now()
	results, err := s.store.FindByOwner(ctx, owner)
	s.metrics.RecordDatabaseQuery("find_scan_results", time.Since(start), err == nil)
	if err != nil {
		s.logger.ErrorDatabase("Failed to list scan results", err, "owner_id", owner)
		return nil, err
	}
	return results, nil
}

// ListResultsPage returns one page of ListResults. A zero limit selects
// DefaultPageSize; limits above MaxPageSize are clamped.
func (s *ScanService) ListResultsPage(ctx context.Context, owner int64, limit, offset int) (*ResultPage, error) {
	if limit < 0 || offset < 0 {
		return nil, errors.NewScanError(errors.CodeValidation, "limit and offset must not be negative")
	}
	if limit == 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	start := time.Now()
	results, err := s.store.FindByOwnerPage(ctx, owner, limit, offset)
	if err != nil {
		s.metrics.RecordDatabaseQuery("find_scan_results_page", time.Since(start), false)
		return nil, err
	}
	total, err := s.store.CountByOwner(ctx, owner)
	s.metrics.RecordDatabaseQuery("find_scan_results_page", time.Since(start), err == nil)
	if err != nil {
		return nil, err
	}

	return &ResultPage{Results: results, Total: total, Limit: limit, Offset: offset}, nil
}
