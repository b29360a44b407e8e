package db

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/anstrom/escudo/internal/scanning"
)

// JSONB wraps json.RawMessage for the PostgreSQL JSONB type.
type JSONB json.RawMessage

// Scan implements sql.Scanner for PostgreSQL JSONB type.
func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = append([]byte(nil), v...)
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into JSONB", value)
	}

	if !json.Valid(data) {
		return fmt.Errorf("invalid JSON in JSONB column")
	}
	*j = JSONB(data)
	return nil
}

// Value implements driver.Valuer for PostgreSQL JSONB type.
func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return []byte(j), nil
}

// String returns the JSON string.
func (j JSONB) String() string {
	return string(j)
}

// MarshalJSON implements json.Marshaler.
func (j JSONB) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return []byte(j), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (j *JSONB) UnmarshalJSON(data []byte) error {
	*j = JSONB(append([]byte(nil), data...))
	return nil
}

// User is a registered account. Every scan result belongs to exactly one user.
type User struct {
	ID             int64     `db:"id" json:"id"`
	Email          string    `db:"email" json:"email"`
	HashedPassword string    `db:"hashed_password" json:"-"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// ScanResult is one persisted scan. Rows are never updated after insert.
type ScanResult struct {
	ID          int64     `db:"id" json:"id"`
	OwnerID     int64     `db:"owner_id" json:"-"`
	IP          string    `db:"ip" json:"ip"`
	ScanPayload JSONB     `db:"scan_payload" json:"scan_payload"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// HostResult decodes the stored payload.
func (r *ScanResult) HostResult() (scanning.HostResult, error) {
	result := make(scanning.HostResult)
	if len(r.ScanPayload) == 0 {
		return result, nil
	}
	if err := json.Unmarshal(r.ScanPayload, &result); err != nil {
		return nil, fmt.Errorf("failed to decode scan payload: %w", err)
	}
	return result, nil
}
