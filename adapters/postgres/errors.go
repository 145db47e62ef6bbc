package postgres

import (
	"database/sql"
	stderrors "errors"

	"github.com/lib/pq"

	"datahealth/internal/errors"
)

const uniqueViolation = "23505"

// translate maps driver errors onto application codes
func translate(err error, resource, action string) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, sql.ErrNoRows) {
		return errors.NotFound(resource)
	}
	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return errors.WithCode(errors.CodeConflict, err)
	}
	return errors.DatabaseError("failed to "+action+" "+resource, err)
}
