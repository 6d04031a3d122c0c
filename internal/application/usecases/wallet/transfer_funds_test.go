package wallet

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altpay/wallet/internal/application/dtos"
	domainerrors "github.com/altpay/wallet/internal/domain/errors"
	domainwallet "github.com/altpay/wallet/internal/domain/wallet"
)

func TestTransferFundsUseCase_Success(t *testing.T) {
	var gotSource, gotTarget, gotAmount, gotNonce string

	engine := &mockEngine{
		TransferFn: func(ctx context.Context, sourceID, targetID string, amount domainwallet.Amount, nonce string) error {
			gotSource, gotTarget, gotAmount, gotNonce = sourceID, targetID, amount.String(), nonce
			return nil
		},
	}

	err := NewTransferFundsUseCase(engine).Execute(context.Background(), dtos.TransferFundsCommand{
		SourceWalletID: "wallet-1",
		TargetWalletID: "wallet-2",
		Amount:         "250",
		Nonce:          "nonce-00002",
	})

	require.NoError(t, err)
	assert.Equal(t, "wallet-1", gotSource)
	assert.Equal(t, "wallet-2", gotTarget)
	assert.Equal(t, "250", gotAmount)
	assert.Equal(t, "nonce-00002", gotNonce)
}

func TestTransferFundsUseCase_InvalidAmount(t *testing.T) {
	engine := &mockEngine{
		TransferFn: func(ctx context.Context, sourceID, targetID string, amount domainwallet.Amount, nonce string) error {
			t.Fatal("engine must not be reached on invalid amount")
			return nil
		},
	}

	err := NewTransferFundsUseCase(engine).Execute(context.Background(), dtos.TransferFundsCommand{
		SourceWalletID: "wallet-1",
		TargetWalletID: "wallet-2",
		Amount:         "0",
		Nonce:          "nonce-00002",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidAmount))
}

func TestTransferFundsUseCase_DomainErrorsPassThrough(t *testing.T) {
	tests := []struct {
		name     string
		engine   error
		sentinel error
	}{
		{
			name:     "insufficient funds",
			engine:   domainerrors.InsufficientFunds("wallet-1"),
			sentinel: domainerrors.ErrInsufficientFunds,
		},
		{
			name:     "target not found",
			engine:   domainerrors.WalletNotFound("wallet-2"),
			sentinel: domainerrors.ErrWalletNotFound,
		},
		{
			name:     "self transfer",
			engine:   domainerrors.ErrSelfTransfer,
			sentinel: domainerrors.ErrSelfTransfer,
		},
		{
			name:     "nonce replay",
			engine:   domainerrors.TransactionAlreadyRegistered("nonce-00002"),
			sentinel: domainerrors.ErrTransactionAlreadyRegistered,
		},
		{
			name:     "concurrent conflict",
			engine:   domainerrors.TransactionConflict("nonce-00002"),
			sentinel: domainerrors.ErrTransactionConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &mockEngine{
				TransferFn: func(ctx context.Context, sourceID, targetID string, amount domainwallet.Amount, nonce string) error {
					return tt.engine
				},
			}

			err := NewTransferFundsUseCase(engine).Execute(context.Background(), dtos.TransferFundsCommand{
				SourceWalletID: "wallet-1",
				TargetWalletID: "wallet-2",
				Amount:         "250",
				Nonce:          "nonce-00002",
			})

			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.sentinel), "got %v", err)
		})
	}
}
