// Package wallet contains the use cases driving wallet operations.
package wallet

import (
	"context"

	domainwallet "github.com/altpay/wallet/internal/domain/wallet"
)

// Engine is the subset of domain operations the use cases drive. The
// domain engine satisfies it.
type Engine interface {
	Create(ctx context.Context, userID string) (domainwallet.Wallet, error)
	Deposit(ctx context.Context, walletID string, amount domainwallet.Amount, nonce string) error
	Transfer(ctx context.Context, sourceID, targetID string, amount domainwallet.Amount, nonce string) error
	Balance(ctx context.Context, walletID string) (domainwallet.Wallet, error)
}
