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

// mockEngine implements Engine with overridable behavior per method.
type mockEngine struct {
	CreateFn   func(ctx context.Context, userID string) (domainwallet.Wallet, error)
	DepositFn  func(ctx context.Context, walletID string, amount domainwallet.Amount, nonce string) error
	TransferFn func(ctx context.Context, sourceID, targetID string, amount domainwallet.Amount, nonce string) error
	BalanceFn  func(ctx context.Context, walletID string) (domainwallet.Wallet, error)
}

func (m *mockEngine) Create(ctx context.Context, userID string) (domainwallet.Wallet, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, userID)
	}
	return domainwallet.Wallet{}, errors.New("unexpected Create call")
}

func (m *mockEngine) Deposit(ctx context.Context, walletID string, amount domainwallet.Amount, nonce string) error {
	if m.DepositFn != nil {
		return m.DepositFn(ctx, walletID, amount, nonce)
	}
	return errors.New("unexpected Deposit call")
}

func (m *mockEngine) Transfer(ctx context.Context, sourceID, targetID string, amount domainwallet.Amount, nonce string) error {
	if m.TransferFn != nil {
		return m.TransferFn(ctx, sourceID, targetID, amount, nonce)
	}
	return errors.New("unexpected Transfer call")
}

func (m *mockEngine) Balance(ctx context.Context, walletID string) (domainwallet.Wallet, error) {
	if m.BalanceFn != nil {
		return m.BalanceFn(ctx, walletID)
	}
	return domainwallet.Wallet{}, errors.New("unexpected Balance call")
}

func TestCreateWalletUseCase_Success(t *testing.T) {
	engine := &mockEngine{
		CreateFn: func(ctx context.Context, userID string) (domainwallet.Wallet, error) {
			assert.Equal(t, "b9b01b95-4be4-4a23-b6b8-5d36dcbba0bc", userID)
			return domainwallet.Wallet{ID: "wallet-1", Balance: "0"}, nil
		},
	}

	useCase := NewCreateWalletUseCase(engine)

	result, err := useCase.Execute(context.Background(), dtos.CreateWalletCommand{
		UserID: "b9b01b95-4be4-4a23-b6b8-5d36dcbba0bc",
	})

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "wallet-1", result.ID)
	assert.Equal(t, "0", result.Balance)
}

func TestCreateWalletUseCase_InvalidUserUUID(t *testing.T) {
	engine := &mockEngine{
		CreateFn: func(ctx context.Context, userID string) (domainwallet.Wallet, error) {
			t.Fatal("engine must not be reached on invalid input")
			return domainwallet.Wallet{}, nil
		},
	}

	useCase := NewCreateWalletUseCase(engine)

	result, err := useCase.Execute(context.Background(), dtos.CreateWalletCommand{
		UserID: "not-a-uuid",
	})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, domainerrors.IsValidationError(err))
}

func TestCreateWalletUseCase_UserAlreadyOwnsWallet(t *testing.T) {
	engine := &mockEngine{
		CreateFn: func(ctx context.Context, userID string) (domainwallet.Wallet, error) {
			return domainwallet.Wallet{}, domainerrors.WalletAlreadyExists(userID)
		},
	}

	useCase := NewCreateWalletUseCase(engine)

	result, err := useCase.Execute(context.Background(), dtos.CreateWalletCommand{
		UserID: "b9b01b95-4be4-4a23-b6b8-5d36dcbba0bc",
	})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, domainerrors.ErrWalletAlreadyExists))
	assert.True(t, domainerrors.IsConflict(err))
}
