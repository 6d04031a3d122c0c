package wallet

import (
	"context"

	"github.com/google/uuid"

	"github.com/altpay/wallet/internal/application/dtos"
	"github.com/altpay/wallet/internal/domain/errors"
)

// CreateWalletUseCase provisions a wallet with a zero balance.
//
// Business rules:
//   - A user owns at most one wallet.
//   - Creation is atomic: either the wallet, its owner link and its
//     creation record all appear, or none of them do.
type CreateWalletUseCase struct {
	engine Engine
}

// NewCreateWalletUseCase creates the use case.
func NewCreateWalletUseCase(engine Engine) *CreateWalletUseCase {
	return &CreateWalletUseCase{engine: engine}
}

// Execute creates the wallet and returns its representation.
func (uc *CreateWalletUseCase) Execute(ctx context.Context, cmd dtos.CreateWalletCommand) (*dtos.WalletDTO, error) {
	userID, err := uuid.Parse(cmd.UserID)
	if err != nil {
		return nil, errors.ValidationError{
			Field:   "user_id",
			Message: "invalid UUID format",
		}
	}

	wallet, err := uc.engine.Create(ctx, userID.String())
	if err != nil {
		return nil, err
	}

	return &dtos.WalletDTO{
		ID:      wallet.ID,
		Balance: wallet.Balance,
	}, nil
}
