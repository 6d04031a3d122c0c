package common

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/altpay/wallet/internal/domain/errors"
)

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var envelope ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope
}

func TestError_Envelope(t *testing.T) {
	c, w := newTestContext(t)

	Error(c, http.StatusConflict, "SOME_CODE", "something happened")

	assert.Equal(t, http.StatusConflict, w.Code)
	envelope := decodeEnvelope(t, w)
	assert.Equal(t, "SOME_CODE", envelope.Error.Code)
	assert.Equal(t, "something happened", envelope.Error.Detail)
}

func TestHandleDomainError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "wallet not found",
			err:        domainerrors.WalletNotFound("W1"),
			wantStatus: http.StatusNotFound,
			wantCode:   domainerrors.CodeWalletNotFound,
		},
		{
			name:       "wallet already exists",
			err:        domainerrors.WalletAlreadyExists("U1"),
			wantStatus: http.StatusConflict,
			wantCode:   domainerrors.CodeWalletAlreadyExists,
		},
		{
			name:       "nonce replay",
			err:        domainerrors.TransactionAlreadyRegistered("abcdef01"),
			wantStatus: http.StatusConflict,
			wantCode:   domainerrors.CodeTransactionAlreadyRegistered,
		},
		{
			name:       "insufficient funds",
			err:        domainerrors.InsufficientFunds("W1"),
			wantStatus: http.StatusConflict,
			wantCode:   domainerrors.CodeInsufficientFunds,
		},
		{
			name:       "transaction conflict",
			err:        domainerrors.TransactionConflict("abcdef01"),
			wantStatus: http.StatusConflict,
			wantCode:   domainerrors.CodeTransactionConflict,
		},
		{
			name:       "validation error",
			err:        domainerrors.ValidationError{Field: "amount", Message: "must be positive"},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   ErrCodeValidation,
		},
		{
			name:       "invalid amount sentinel",
			err:        domainerrors.ErrInvalidAmount,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   ErrCodeValidation,
		},
		{
			name:       "self transfer sentinel",
			err:        domainerrors.ErrSelfTransfer,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   ErrCodeValidation,
		},
		{
			name:       "unknown error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   ErrCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext(t)

			HandleDomainError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			envelope := decodeEnvelope(t, w)
			assert.Equal(t, tt.wantCode, envelope.Error.Code)
		})
	}
}

func TestHandleDomainError_ReplayDetailCarriesNonce(t *testing.T) {
	c, w := newTestContext(t)

	HandleDomainError(c, domainerrors.TransactionAlreadyRegistered("abcdef01"))

	envelope := decodeEnvelope(t, w)
	assert.Contains(t, envelope.Error.Detail, "abcdef01")
}

func TestHandleDomainError_InternalHidesDetail(t *testing.T) {
	c, w := newTestContext(t)

	HandleDomainError(c, errors.New("connection string with secrets"))

	envelope := decodeEnvelope(t, w)
	assert.NotContains(t, envelope.Error.Detail, "secrets")
}

func TestRequestID_RoundTrip(t *testing.T) {
	c, w := newTestContext(t)

	SetRequestID(c, "req-123")

	assert.Equal(t, "req-123", GetRequestID(c))
	assert.Equal(t, "req-123", w.Header().Get(RequestIDKey))
}
