package sqlstore

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/riskibarqy/standings-sync/internal/usecase"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const (
	pqClassIntegrityViolation pq.ErrorClass = "23"
	pqCodeStringTooLong       pq.ErrorCode  = "22001"
)

// storageError tags err with the usecase error kind it represents.
func storageError(op string, err error) error {
	if isConstraintViolation(err) {
		return fmt.Errorf("%w: %s: %w", usecase.ErrConstraintViolation, op, err)
	}
	return fmt.Errorf("%w: %s: %w", usecase.ErrConnectivity, op, err)
}

func isConstraintViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code.Class() == pqClassIntegrityViolation || pqErr.Code == pqCodeStringTooLong
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
	}
	return false
}
