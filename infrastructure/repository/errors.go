package repository

import (
	"errors"

	"github.com/lib/pq"
	"github.com/vfg2006/meta-ads-sync-api/internal/domain"
)

// persistenceError embrulha falhas do banco, preservando o código do postgres quando houver
func persistenceError(op string, err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return &domain.PersistenceError{Op: op, Code: string(pqErr.Code), Err: err}
	}

	return &domain.PersistenceError{Op: op, Err: err}
}
