// Package errors defines domain-specific error types.
// Typed errors (instead of strings) let callers handle specific cases.
//
// Pattern: Sentinel Errors + Custom Error Types
package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors for the wallet domain
var (
	// Wallet errors
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrWalletAlreadyExists = errors.New("user already owns a wallet")
	ErrInsufficientFunds   = errors.New("insufficient funds")

	// Transaction errors
	ErrTransactionAlreadyRegistered = errors.New("transaction already registered")
	ErrTransactionConflict          = errors.New("transaction conflict")
	ErrSelfTransfer                 = errors.New("source and target wallets must differ")

	// Input errors
	ErrInvalidAmount = errors.New("amount must be a positive integer")
	ErrInvalidNonce  = errors.New("nonce must be 8 to 16 characters")
)

// Error codes exposed to clients.
const (
	CodeWalletNotFound                = "WALLET_NOT_FOUND"
	CodeWalletAlreadyExists           = "WALLET_ALREADY_EXISTS"
	CodeInsufficientFunds             = "INSUFFICIENT_FUNDS"
	CodeTransactionAlreadyRegistered  = "TRANSACTION_ALREADY_REGISTERED"
	CodeTransactionConflict           = "TRANSACTION_CONFLICT"
	CodeValidation                    = "VALIDATION_ERROR"
	CodeInternal                      = "INTERNAL_ERROR"
)

// DomainError wraps an error with a machine-readable code and a
// human-readable detail while keeping the error chain intact.
type DomainError struct {
	Code    string // e.g. "INSUFFICIENT_FUNDS"
	Message string // human-readable detail
	Err     error  // underlying error (for error chains)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements error unwrapping for errors.Is and errors.As.
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new domain error.
func NewDomainError(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ============================================
// Constructors
// ============================================

// WalletNotFound reports that no wallet exists under the given id.
func WalletNotFound(walletID string) *DomainError {
	return NewDomainError(
		CodeWalletNotFound,
		fmt.Sprintf("wallet %s not found", walletID),
		ErrWalletNotFound,
	)
}

// WalletAlreadyExists reports that the user already owns a wallet.
func WalletAlreadyExists(userID string) *DomainError {
	return NewDomainError(
		CodeWalletAlreadyExists,
		fmt.Sprintf("user %s already owns a wallet", userID),
		ErrWalletAlreadyExists,
	)
}

// InsufficientFunds reports that the wallet balance cannot cover the
// requested amount. A missing source wallet surfaces the same way.
func InsufficientFunds(walletID string) *DomainError {
	return NewDomainError(
		CodeInsufficientFunds,
		fmt.Sprintf("wallet %s has insufficient funds", walletID),
		ErrInsufficientFunds,
	)
}

// TransactionAlreadyRegistered reports a nonce replay inside the
// idempotency window. The detail carries the nonce so clients can tell
// which request was deduplicated.
func TransactionAlreadyRegistered(nonce string) *DomainError {
	return NewDomainError(
		CodeTransactionAlreadyRegistered,
		fmt.Sprintf("transaction with nonce %s already registered", nonce),
		ErrTransactionAlreadyRegistered,
	)
}

// TransactionConflict reports a transient concurrent-write conflict.
// The operation may be retried with the same nonce.
func TransactionConflict(nonce string) *DomainError {
	return NewDomainError(
		CodeTransactionConflict,
		fmt.Sprintf("transaction with nonce %s conflicted with a concurrent operation, retry with the same nonce", nonce),
		ErrTransactionConflict,
	)
}

// ============================================
// Validation Errors
// ============================================

// ValidationError represents a field-level validation failure.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s': %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %d error(s)", len(e))
}

// Add appends a validation error.
func (e *ValidationErrors) Add(field, message string) {
	*e = append(*e, ValidationError{Field: field, Message: message})
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// ============================================
// Helpers
// ============================================

// IsNotFound checks if an error means the wallet does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrWalletNotFound)
}

// IsConflict checks if an error should surface as a conflict: the user
// already owns a wallet, a nonce replay, a concurrent-write conflict,
// or a balance that cannot cover the amount.
func IsConflict(err error) bool {
	return errors.Is(err, ErrWalletAlreadyExists) ||
		errors.Is(err, ErrTransactionAlreadyRegistered) ||
		errors.Is(err, ErrTransactionConflict) ||
		errors.Is(err, ErrInsufficientFunds)
}

// IsRetryable checks if the operation may be retried with the same nonce.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransactionConflict)
}

// IsValidationError checks if an error is a validation error.
func IsValidationError(err error) bool {
	var valErr ValidationError
	var valErrs ValidationErrors
	return errors.As(err, &valErr) || errors.As(err, &valErrs) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidNonce) ||
		errors.Is(err, ErrSelfTransfer)
}
