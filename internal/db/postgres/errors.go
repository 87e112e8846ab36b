package postgres

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

// PostgreSQL error codes the repositories translate into domain errors
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"
)

// isConstraintViolation reports whether err is a pq error with the given code,
// raised by the named constraint. An empty constraint matches any.
func isConstraintViolation(err error, code, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || string(pqErr.Code) != code {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func int64Ptr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}
