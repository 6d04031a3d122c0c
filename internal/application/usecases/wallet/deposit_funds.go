package wallet

import (
	"context"

	"github.com/altpay/wallet/internal/application/dtos"
	domainwallet "github.com/altpay/wallet/internal/domain/wallet"
)

// DepositFundsUseCase credits a wallet by a positive integer amount.
//
// Business rules:
//   - The nonce makes the deposit idempotent: a replay inside the
//     idempotency window is rejected without crediting twice.
//   - The wallet must already exist.
type DepositFundsUseCase struct {
	engine Engine
}

// NewDepositFundsUseCase creates the use case.
func NewDepositFundsUseCase(engine Engine) *DepositFundsUseCase {
	return &DepositFundsUseCase{engine: engine}
}

// Execute applies the deposit.
func (uc *DepositFundsUseCase) Execute(ctx context.Context, cmd dtos.DepositFundsCommand) error {
	amount, err := domainwallet.ParseAmount(cmd.Amount)
	if err != nil {
		return err
	}

	return uc.engine.Deposit(ctx, cmd.WalletID, amount, cmd.Nonce)
}
