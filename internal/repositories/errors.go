package repository

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicate        = errors.New("record already exists")
	ErrAlreadyConfirmed = errors.New("cart already confirmed")
	ErrAlreadyShipped   = errors.New("order already shipped")
	ErrCartChanged      = errors.New("cart lines changed during confirmation")
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// StockError is returned when a conditional decrement finds less stock than
// the line asks for.
type StockError struct {
	ProductID uuid.UUID
	Available int
	Requested int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: available %d, requested %d", e.ProductID, e.Available, e.Requested)
}

func isPQCode(err error, code string) bool {
	var pqErr *pq.Error

	return errors.As(err, &pqErr) && string(pqErr.Code) == code
}

func IsUniqueViolation(err error) bool {
	return isPQCode(err, pqUniqueViolation)
}

func IsForeignKeyViolation(err error) bool {
	return isPQCode(err, pqForeignKeyViolation)
}
