package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// uploadLockKey is the advisory lock key serializing upload cycles.
const uploadLockKey = int64(0x7463696e74616b65)

// UploadLock serializes concurrent upload transactions via a Postgres
// transaction-scoped advisory lock. The lock releases on commit or rollback.
type UploadLock struct{}

// NewUploadLock constructs an UploadLock.
func NewUploadLock() *UploadLock {
	return &UploadLock{}
}

// Acquire blocks until the current transaction holds the upload lock.
func (l *UploadLock) Acquire(ctx context.Context, exec sqlx.ExtContext) error {
	if _, err := exec.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", uploadLockKey); err != nil {
		return fmt.Errorf("acquire upload lock: %w", err)
	}
	return nil
}
