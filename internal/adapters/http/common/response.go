// Package common holds the shared types of the HTTP layer.
//
// Lives in its own package to avoid import cycles between handlers and
// the main http package.
package common

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerrors "github.com/altpay/wallet/internal/domain/errors"
)

// ============================================
// API Error Format
// ============================================

// ErrorResponse is the envelope of every failed request.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// APIError carries the machine-readable code and the human-readable
// detail of a failure.
type APIError struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

// ============================================
// Error Codes
// ============================================

const (
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

// ============================================
// Request ID
// ============================================

const RequestIDKey = "X-Request-ID"

// GetRequestID returns the request id from the gin context.
func GetRequestID(c *gin.Context) string {
	if id, exists := c.Get(RequestIDKey); exists {
		return id.(string)
	}
	return ""
}

// SetRequestID stores the request id in the context and echoes it in
// the response header.
func SetRequestID(c *gin.Context, id string) {
	c.Set(RequestIDKey, id)
	c.Header(RequestIDKey, id)
}

// ============================================
// Response Helpers
// ============================================

// Error sends an error envelope with the given status.
func Error(c *gin.Context, statusCode int, code, detail string) {
	c.JSON(statusCode, ErrorResponse{
		Error: APIError{Code: code, Detail: detail},
	})
}

// ValidationErrorResponse sends a 422 for a request that failed
// validation.
func ValidationErrorResponse(c *gin.Context, detail string) {
	Error(c, http.StatusUnprocessableEntity, ErrCodeValidation, detail)
}

// NotFoundResponse sends a 404.
func NotFoundResponse(c *gin.Context, detail string) {
	Error(c, http.StatusNotFound, ErrCodeNotFound, detail)
}

// TooManyRequestsResponse sends a 429 for rate-limited requests.
func TooManyRequestsResponse(c *gin.Context, retryAfter string) {
	c.Header("Retry-After", retryAfter)
	Error(c, http.StatusTooManyRequests, ErrCodeTooManyRequests,
		"too many requests, please try again later")
}

// InternalErrorResponse sends a 500 without leaking internals.
func InternalErrorResponse(c *gin.Context) {
	Error(c, http.StatusInternalServerError, ErrCodeInternal,
		"an unexpected error occurred")
}

// ============================================
// Domain Error to HTTP Error Mapper
// ============================================

// HandleDomainError renders a domain error as an HTTP response.
//
// Status mapping: validation failures are 422, a missing wallet is 404,
// conflicts (existing wallet, nonce replay, concurrent write, short
// balance) are 409, anything else is 500.
func HandleDomainError(c *gin.Context, err error) {
	switch {
	case domainerrors.IsValidationError(err):
		ValidationErrorResponse(c, err.Error())

	case domainerrors.IsNotFound(err):
		Error(c, http.StatusNotFound, errorCode(err, ErrCodeNotFound), errorDetail(err))

	case domainerrors.IsConflict(err):
		Error(c, http.StatusConflict, errorCode(err, domainerrors.CodeTransactionConflict), errorDetail(err))

	default:
		InternalErrorResponse(c)
	}
}

// errorCode pulls the code off a DomainError in the chain, falling
// back when the error is a bare sentinel.
func errorCode(err error, fallback string) string {
	var domainErr *domainerrors.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return fallback
}

// errorDetail pulls the human-readable message off a DomainError in
// the chain, falling back to the error text.
func errorDetail(err error) string {
	var domainErr *domainerrors.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return err.Error()
}
