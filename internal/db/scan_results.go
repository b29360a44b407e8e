package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anstrom/escudo/internal/errors"
	"github.com/anstrom/escudo/internal/scanning"
)

// ScanResultRepository stores scan results scoped to their owner. Every read
// filters on owner_id in SQL.
type ScanResultRepository struct {
	db *DB
}

// NewScanResultRepository creates a new scan result repository.
func NewScanResultRepository(db *DB) *ScanResultRepository {
	return &ScanResultRepository{db: db}
}

const scanResultColumns = `id, owner_id, ip, scan_payload, created_at`

// Save inserts one scan result and returns it with its store-assigned id and
// creation time.
func (r *ScanResultRepository) Save(
	ctx context.Context, owner int64, target scanning.Target, result scanning.HostResult,
) (*ScanResult, error) {
	if result == nil {
		result = make(scanning.HostResult)
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return nil, errors.WrapDatabaseError(errors.CodeValidation,
			fmt.Sprintf("Failed to encode scan payload for %s", target), err)
	}

	record := &ScanResult{
		OwnerID:     owner,
		IP:          target.String(),
		ScanPayload: JSONB(payload),
	}

	query := `
		INSERT INTO scan_results (owner_id, ip, scan_payload)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err = r.db.QueryRowxContext(ctx, query, record.OwnerID, record.IP, record.ScanPayload).
		Scan(&record.ID, &record.CreatedAt)
	if err != nil {
		return nil, sanitizeDBError("save scan result", err)
	}

	return record, nil
}

// FindByOwner returns every result owned by owner, newest first. Ties on
// created_at are broken by id, newest first.
func (r *ScanResultRepository) FindByOwner(ctx context.Context, owner int64) ([]*ScanResult, error) {
	results := make([]*ScanResult, 0)
	query := `SELECT ` + scanResultColumns + `
		FROM scan_results
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC`

	if err := r.db.SelectContext(ctx, &results, query, owner); err != nil {
		return nil, sanitizeDBError("find scan results", err)
	}

	return results, nil
}

// FindByOwnerPage returns one page of FindByOwner.
func (r *ScanResultRepository) FindByOwnerPage(
	ctx context.Context, owner int64, limit, offset int,
) ([]*ScanResult, error) {
	if limit <= 0 || offset < 0 {
		return nil, errors.NewDatabaseError(errors.CodeValidation, "Invalid pagination parameters")
	}

	results := make([]*ScanResult, 0, limit)
	query := `SELECT ` + scanResultColumns + `
		FROM scan_results
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`

	if err := r.db.SelectContext(ctx, &results, query, owner, limit, offset); err != nil {
		return nil, sanitizeDBError("find scan results page", err)
	}

	return results, nil
}

// CountByOwner returns the number of results owned by owner.
func (r *ScanResultRepository) CountByOwner(ctx context.Context, owner int64) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM scan_results WHERE owner_id = $1`

	if err := r.db.GetContext(ctx, &count, query, owner); err != nil {
		return 0, sanitizeDBError("count scan results", err)
	}

	return count, nil
}
