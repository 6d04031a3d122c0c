// Package dtos holds the data transfer objects crossing the
// application boundary.
package dtos

// ============================================
// Commands (write operations)
// ============================================

// CreateWalletCommand provisions a wallet for a user.
type CreateWalletCommand struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

// DepositFundsCommand credits a wallet. The nonce deduplicates retries
// of the same deposit.
type DepositFundsCommand struct {
	WalletID string `json:"wallet_id" validate:"required"`
	Amount   string `json:"amount" validate:"required,money_amount"` // Decimal string: "1000"
	Nonce    string `json:"nonce" validate:"required,tx_nonce"`
}

// TransferFundsCommand moves funds between two wallets. The nonce is
// scoped to the source wallet.
type TransferFundsCommand struct {
	SourceWalletID string `json:"source_wallet_id" validate:"required"`
	TargetWalletID string `json:"target_wallet_id" validate:"required"`
	Amount         string `json:"amount" validate:"required,money_amount"`
	Nonce          string `json:"nonce" validate:"required,tx_nonce"`
}

// ============================================
// Queries (read operations)
// ============================================

// GetBalanceQuery asks for the current balance of one wallet.
type GetBalanceQuery struct {
	WalletID string `json:"wallet_id" validate:"required"`
}

// ============================================
// Response DTOs
// ============================================

// WalletDTO is the wallet representation returned to clients. Balance
// is a decimal string so large values survive JSON number precision.
type WalletDTO struct {
	ID      string `json:"id"`
	Balance string `json:"balance"`
}
