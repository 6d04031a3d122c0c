package wallet

import (
	"context"

	"github.com/altpay/wallet/internal/application/dtos"
)

// GetBalanceUseCase reads the current balance of one wallet.
type GetBalanceUseCase struct {
	engine Engine
}

// NewGetBalanceUseCase creates the use case.
func NewGetBalanceUseCase(engine Engine) *GetBalanceUseCase {
	return &GetBalanceUseCase{engine: engine}
}

// Execute returns the wallet with its balance.
func (uc *GetBalanceUseCase) Execute(ctx context.Context, query dtos.GetBalanceQuery) (*dtos.WalletDTO, error) {
	wallet, err := uc.engine.Balance(ctx, query.WalletID)
	if err != nil {
		return nil, err
	}

	return &dtos.WalletDTO{
		ID:      wallet.ID,
		Balance: wallet.Balance,
	}, nil
}
