package utils

import (
	"errors"

	mysqlDriver "github.com/go-sql-driver/mysql"
)

var ErrorRecordNotFound = errors.New("record not found")

// ValidationError is malformed input: empty required field, negative
// amount, empty head list. Nothing is written when it is returned.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

// DuplicateError is a uniqueness violation on a named field
// (roll_no, plan name, catalog entry name, staff_id).
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return "duplicate " + e.Field
}

// DuplicateTransactionError means the external transaction id was already
// credited to a payment. It is distinct from DuplicateError so callers can
// surface a specific message instead of a generic failure.
type DuplicateTransactionError struct {
	TransactionId string
}

func (e *DuplicateTransactionError) Error() string {
	return "transaction id " + e.TransactionId + " has already been used"
}

// IsDuplicateKeyErr reports whether err is a MySQL duplicate-entry error
// (1062), i.e. a unique index rejected the insert.
func IsDuplicateKeyErr(err error) bool {
	var mysqlErr *mysqlDriver.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return false
}
