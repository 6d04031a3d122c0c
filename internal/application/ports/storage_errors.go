package ports

import (
	"errors"
	"fmt"
	"strings"
)

// Storage error taxonomy. The infrastructure layer translates backend
// failures into exactly these errors; nothing above it sees SDK types.
var (
	// ErrItemNotFound - the requested item does not exist.
	ErrItemNotFound = errors.New("item not found")

	// ErrConditionalCheckFailed - a single conditional write lost its
	// condition (e.g. the key already existed).
	ErrConditionalCheckFailed = errors.New("conditional check failed")

	// ErrTransactionConflict - a concurrent operation touched the same
	// items; the batch may be retried as-is.
	ErrTransactionConflict = errors.New("transaction conflict")

	// ErrTooManyOperations - the batch exceeds MaxTransactItems.
	ErrTooManyOperations = fmt.Errorf("transaction batch exceeds %d operations", MaxTransactItems)

	// ErrInvalidArgument - a locally detectable bad input, such as a
	// non-positive increment.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrStorageInternal - anything the taxonomy cannot classify.
	ErrStorageInternal = errors.New("internal storage error")
)

// CancellationCode classifies why one item of a transactional batch
// caused the batch to cancel.
type CancellationCode string

const (
	// CancellationNone - this item was not the cause.
	CancellationNone CancellationCode = "None"
	// CancellationConditionalCheckFailed - this item's condition did
	// not hold.
	CancellationConditionalCheckFailed CancellationCode = "ConditionalCheckFailed"
	// CancellationTransactionConflict - this item collided with a
	// concurrent operation.
	CancellationTransactionConflict CancellationCode = "TransactionConflict"
)

// TransactionCanceledError reports a cancelled transactional batch.
// Reasons holds one entry per submitted item, in submission order.
type TransactionCanceledError struct {
	Reasons []CancellationCode
}

// Error implements the error interface.
func (e *TransactionCanceledError) Error() string {
	codes := make([]string, len(e.Reasons))
	for i, r := range e.Reasons {
		codes[i] = string(r)
	}
	return fmt.Sprintf("transaction canceled: [%s]", strings.Join(codes, ", "))
}

// Reason returns the cancellation code at position i, or
// CancellationNone when the position is out of range.
func (e *TransactionCanceledError) Reason(i int) CancellationCode {
	if i < 0 || i >= len(e.Reasons) {
		return CancellationNone
	}
	return e.Reasons[i]
}

// HasConflict reports whether any item collided with a concurrent
// operation.
func (e *TransactionCanceledError) HasConflict() bool {
	for _, r := range e.Reasons {
		if r == CancellationTransactionConflict {
			return true
		}
	}
	return false
}
