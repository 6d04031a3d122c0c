package wallet

import (
	"context"

	"github.com/altpay/wallet/internal/application/dtos"
	domainwallet "github.com/altpay/wallet/internal/domain/wallet"
)

// TransferFundsUseCase moves funds between two wallets.
//
// Business rules:
//   - The source must hold at least the transferred amount; balances
//     never go negative.
//   - Debit and credit land in one atomic batch, so no partial
//     transfer is ever visible.
//   - The nonce, scoped to the source wallet, deduplicates retries.
type TransferFundsUseCase struct {
	engine Engine
}

// NewTransferFundsUseCase creates the use case.
func NewTransferFundsUseCase(engine Engine) *TransferFundsUseCase {
	return &TransferFundsUseCase{engine: engine}
}

// Execute applies the transfer.
func (uc *TransferFundsUseCase) Execute(ctx context.Context, cmd dtos.TransferFundsCommand) error {
	amount, err := domainwallet.ParseAmount(cmd.Amount)
	if err != nil {
		return err
	}

	return uc.engine.Transfer(ctx, cmd.SourceWalletID, cmd.TargetWalletID, amount, cmd.Nonce)
}
