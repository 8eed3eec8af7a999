package postgres

import (
	"errors"
	"fmt"

	"github.com/lib/pq"

	"eventplanner/internal/domain"
)

// PostgreSQL SQLSTATE codes inspected by the repositories.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	classDataException      = "22"
	classIntegrity          = "23"
)

func pqCode(err error) (pq.ErrorCode, bool) {
	var perr *pq.Error
	if errors.As(err, &perr) {
		return perr.Code, true
	}
	return "", false
}

// classifyWriteError maps constraint and data errors to domain errors. fkErr is the
// domain error used for a foreign-key violation, which depends on the statement.
func classifyWriteError(err error, fkErr error) error {
	code, ok := pqCode(err)
	if !ok {
		return err
	}
	switch {
	case code == codeUniqueViolation:
		return fmt.Errorf("%w: %v", domain.ErrDuplicate, err)
	case code == codeForeignKeyViolation && fkErr != nil:
		return fmt.Errorf("%w: %v", fkErr, err)
	case code.Class() == classDataException || code.Class() == classIntegrity:
		return fmt.Errorf("%w: %v", domain.ErrRejected, err)
	}
	return err
}
