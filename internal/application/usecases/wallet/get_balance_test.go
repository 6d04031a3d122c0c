package wallet

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altpay/wallet/internal/application/dtos"
	domainerrors "github.com/altpay/wallet/internal/domain/errors"
	domainwallet "github.com/altpay/wallet/internal/domain/wallet"
)

func TestGetBalanceUseCase_Success(t *testing.T) {
	engine := &mockEngine{
		BalanceFn: func(ctx context.Context, walletID string) (domainwallet.Wallet, error) {
			assert.Equal(t, "wallet-1", walletID)
			return domainwallet.Wallet{ID: walletID, Balance: "12345678901234567890"}, nil
		},
	}

	result, err := NewGetBalanceUseCase(engine).Execute(context.Background(), dtos.GetBalanceQuery{
		WalletID: "wallet-1",
	})

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "wallet-1", result.ID)
	assert.Equal(t, "12345678901234567890", result.Balance)
}

func TestGetBalanceUseCase_WalletNotFound(t *testing.T) {
	engine := &mockEngine{
		BalanceFn: func(ctx context.Context, walletID string) (domainwallet.Wallet, error) {
			return domainwallet.Wallet{}, domainerrors.WalletNotFound(walletID)
		},
	}

	result, err := NewGetBalanceUseCase(engine).Execute(context.Background(), dtos.GetBalanceQuery{
		WalletID: "missing",
	})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, domainerrors.IsNotFound(err))
}
