package wallet

import (
	"time"

	"github.com/altpay/wallet/internal/application/ports"
)

// TransactionType labels what a transaction record witnessed.
type TransactionType string

const (
	TransactionCreate   TransactionType = "create"
	TransactionDeposit  TransactionType = "deposit"
	TransactionTransfer TransactionType = "transfer"
)

// Transaction is the idempotency record written alongside every money
// movement. Its presence blocks a replayed nonce until the TTL expires
// and the store reclaims the item.
type Transaction struct {
	WalletID  string
	Nonce     string
	Type      TransactionType
	Data      map[string]interface{}
	ExpiresAt int64 // unix seconds
}

// NewTransaction builds a transaction record expiring ttl from now.
func NewTransaction(walletID, nonce string, txType TransactionType, data map[string]interface{}, ttl time.Duration, now time.Time) Transaction {
	return Transaction{
		WalletID:  walletID,
		Nonce:     nonce,
		Type:      txType,
		Data:      data,
		ExpiresAt: now.UTC().Unix() + int64(ttl.Seconds()),
	}
}

// Key returns the record's primary key.
func (t Transaction) Key() string {
	return TransactionKey(t.WalletID, t.Nonce)
}

// Item returns the record in its stored shape. The "ttl" attribute
// drives the store's native item expiry.
func (t Transaction) Item() ports.Item {
	return ports.Item{
		"ttl":  t.ExpiresAt,
		"type": string(t.Type),
		"data": t.Data,
	}
}
