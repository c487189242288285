package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// MySQL server error numbers for lock conflicts.
const (
	mysqlErrLockWaitTimeout = 1205
	mysqlErrDeadlock        = 1213
)

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrOrderItemNotFound    = errors.New("order item not found")
	ErrProductUnavailable   = errors.New("product not found or inactive")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrDuplicateTransaction = errors.New("transaction id already used by another order")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrNotInKitchenFlow     = errors.New("cannot update item status for an order not in kitchen flow")
	ErrItemsNotDone         = errors.New("all items must be marked as done before marking order as ready to serve")
	ErrOrderLocked          = errors.New("cannot cancel a completed or ready order")
	ErrOrderCodeAllocation  = errors.New("could not allocate order code")
	ErrInvalidSignature     = errors.New("invalid payment notification signature")
)

// ValidationError carries per-field messages for rejected input.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// IsValidationError reports whether err is (or wraps) a *ValidationError.
func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate entry")
}

// isTransientConflict reports lock conflicts a fresh transaction can clear:
// MySQL deadlocks and lock wait timeouts, busy or locked SQLite files.
func isTransientConflict(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlErrDeadlock || myErr.Number == mysqlErrLockWaitTimeout
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code == sqlite3.ErrBusy || liteErr.Code == sqlite3.ErrLocked
	}
	return false
}

func isRetryableAllocation(err error) bool {
	return isDuplicateKey(err) || isTransientConflict(err)
}

func productUnavailable(id uint) error {
	return fmt.Errorf("%w: product with ID %d", ErrProductUnavailable, id)
}
