package wallet

import (
	"fmt"

	"github.com/google/uuid"

	domainerrors "github.com/altpay/wallet/internal/domain/errors"
)

// Storage key postfixes keep entity namespaces from crossing inside
// the single shared table.
const (
	walletKeyPostfix      = "#wallet"
	userKeyPostfix        = "#user"
	transactionKeyPostfix = "#transaction"
)

// Attribute names of the stored items.
const (
	balanceAttr    = "balance"
	userWalletAttr = "wallet"
)

// Nonce length bounds. Callers supply the nonce; it scopes idempotency
// per wallet, so two wallets may reuse the same nonce.
const (
	nonceMinLen = 8
	nonceMaxLen = 16
)

// NewWalletID generates a fresh wallet identifier.
func NewWalletID() string {
	return uuid.NewString()
}

// WalletKey returns the primary key of a wallet item.
func WalletKey(walletID string) string {
	return walletID + walletKeyPostfix
}

// UserKey returns the primary key of the user-to-wallet link item.
func UserKey(userID string) string {
	return userID + userKeyPostfix
}

// TransactionKey returns the primary key of an idempotency record.
// With a nonce the key is scoped per wallet and nonce; without one it
// marks the wallet's creation.
func TransactionKey(walletID, nonce string) string {
	if nonce != "" {
		return fmt.Sprintf("%s_%s%s", walletID, nonce, transactionKeyPostfix)
	}
	return walletID + transactionKeyPostfix
}

// ValidateNonce checks the caller-supplied idempotency nonce.
func ValidateNonce(nonce string) error {
	if len(nonce) < nonceMinLen || len(nonce) > nonceMaxLen {
		return domainerrors.ErrInvalidNonce
	}
	return nil
}
