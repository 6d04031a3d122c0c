package wallet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/altpay/wallet/internal/application/ports"
	domainerrors "github.com/altpay/wallet/internal/domain/errors"
)

// DefaultBalance is the balance of a freshly created wallet.
const DefaultBalance = "0"

// Wallet is the read model returned by Create and Balance.
type Wallet struct {
	ID      string
	Balance string
}

// ============================================
// Role-addressable batch
// ============================================

// role names one slot of a transactional batch so cancellation reasons
// are interpreted by purpose, not by raw position.
type role string

const (
	roleTransaction role = "transaction"
	roleWallet      role = "wallet"
	roleUserLink    role = "user_link"
	roleDebit       role = "debit"
	roleCredit      role = "credit"
)

// batch collects conditional writes with the role each occupies.
type batch struct {
	roles []role
	items []ports.TransactItem
}

func (b *batch) add(r role, item ports.TransactItem) {
	b.roles = append(b.roles, r)
	b.items = append(b.items, item)
}

// failed reports whether the slot holding r caused the cancellation.
func (b *batch) failed(canceled *ports.TransactionCanceledError, r role) bool {
	for i, slot := range b.roles {
		if slot == r {
			return canceled.Reason(i) != ports.CancellationNone
		}
	}
	return false
}

// ============================================
// Engine
// ============================================

// Engine executes the composite wallet operations. Every money
// movement is exactly one transactional batch against the store, so
// partial effects cannot be observed.
type Engine struct {
	store   ports.Store
	factory ports.ItemFactory
	ttl     time.Duration
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string
}

// Option customizes an Engine.
type Option func(*Engine)

// WithClock overrides the time source. Used in tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator overrides wallet id generation. Used in tests.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// NewEngine creates an Engine. ttl bounds the idempotency window of
// transaction records.
func NewEngine(store ports.Store, factory ports.ItemFactory, ttl time.Duration, opts ...Option) *Engine {
	e := &Engine{
		store:   store,
		factory: factory,
		ttl:     ttl,
		logger:  slog.Default(),
		now:     time.Now,
		newID:   NewWalletID,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Create provisions a wallet for userID with a zero balance. A user
// owns at most one wallet; a second creation fails without touching
// existing state.
func (e *Engine) Create(ctx context.Context, userID string) (Wallet, error) {
	walletID := e.newID()

	tx := NewTransaction(walletID, "", TransactionCreate,
		map[string]interface{}{"amount": 0}, e.ttl, e.now())

	var b batch
	b.add(roleTransaction, e.factory.PutIfAbsent(tx.Key(), tx.Item()))
	b.add(roleWallet, e.factory.PutIfAbsent(WalletKey(walletID), ports.Item{balanceAttr: 0}))
	b.add(roleUserLink, e.factory.PutIfAbsent(UserKey(userID), ports.Item{userWalletAttr: walletID}))

	if err := e.store.TransactWrite(ctx, b.items...); err != nil {
		var canceled *ports.TransactionCanceledError
		if !errors.As(err, &canceled) {
			return Wallet{}, e.internal("create wallet", err)
		}

		switch {
		case canceled.HasConflict():
			return Wallet{}, domainerrors.NewDomainError(
				domainerrors.CodeTransactionConflict,
				fmt.Sprintf("creation of wallet for user %s conflicted with a concurrent operation, retry", userID),
				domainerrors.ErrTransactionConflict,
			)
		case b.failed(canceled, roleTransaction):
			return Wallet{}, domainerrors.NewDomainError(
				domainerrors.CodeTransactionAlreadyRegistered,
				fmt.Sprintf("creation of wallet %s already registered", walletID),
				domainerrors.ErrTransactionAlreadyRegistered,
			)
		default:
			return Wallet{}, domainerrors.WalletAlreadyExists(userID)
		}
	}

	e.logger.InfoContext(ctx, "wallet created",
		slog.String("wallet_id", walletID),
		slog.String("user_id", userID),
	)

	return Wallet{ID: walletID, Balance: DefaultBalance}, nil
}

// Deposit credits amount to the wallet. The nonce makes the operation
// idempotent: a replay inside the TTL window fails without applying
// the credit twice.
func (e *Engine) Deposit(ctx context.Context, walletID string, amount Amount, nonce string) error {
	if err := ValidateNonce(nonce); err != nil {
		return err
	}
	if amount.IsZero() {
		return domainerrors.ErrInvalidAmount
	}

	tx := NewTransaction(walletID, nonce, TransactionDeposit,
		map[string]interface{}{"amount": amount.String()}, e.ttl, e.now())

	credit, err := e.factory.AddIfExists(WalletKey(walletID), balanceAttr, amount.String())
	if err != nil {
		return err
	}

	var b batch
	b.add(roleTransaction, e.factory.PutIfAbsent(tx.Key(), tx.Item()))
	b.add(roleCredit, credit)

	if err := e.store.TransactWrite(ctx, b.items...); err != nil {
		var canceled *ports.TransactionCanceledError
		if !errors.As(err, &canceled) {
			return e.internal("deposit", err)
		}

		switch {
		case canceled.HasConflict():
			return domainerrors.TransactionConflict(nonce)
		case b.failed(canceled, roleTransaction):
			return domainerrors.TransactionAlreadyRegistered(nonce)
		default:
			return domainerrors.WalletNotFound(walletID)
		}
	}

	e.logger.InfoContext(ctx, "deposit applied",
		slog.String("wallet_id", walletID),
		slog.String("amount", amount.String()),
	)

	return nil
}

// Transfer moves amount from the source wallet to the target wallet.
// The debit is conditioned on the source holding at least amount, so
// balances never go negative. The nonce is scoped to the source
// wallet.
func (e *Engine) Transfer(ctx context.Context, sourceID, targetID string, amount Amount, nonce string) error {
	if sourceID == targetID {
		return domainerrors.ErrSelfTransfer
	}
	if err := ValidateNonce(nonce); err != nil {
		return err
	}
	if amount.IsZero() {
		return domainerrors.ErrInvalidAmount
	}

	tx := NewTransaction(sourceID, nonce, TransactionTransfer,
		map[string]interface{}{
			"amount":        amount.String(),
			"target_wallet": targetID,
		}, e.ttl, e.now())

	debit, err := e.factory.SubtractIfAtLeast(WalletKey(sourceID), balanceAttr, amount.String())
	if err != nil {
		return err
	}
	credit, err := e.factory.AddIfExists(WalletKey(targetID), balanceAttr, amount.String())
	if err != nil {
		return err
	}

	var b batch
	b.add(roleTransaction, e.factory.PutIfAbsent(tx.Key(), tx.Item()))
	b.add(roleDebit, debit)
	b.add(roleCredit, credit)

	if err := e.store.TransactWrite(ctx, b.items...); err != nil {
		var canceled *ports.TransactionCanceledError
		if !errors.As(err, &canceled) {
			return e.internal("transfer", err)
		}

		switch {
		case canceled.HasConflict():
			return domainerrors.TransactionConflict(nonce)
		case b.failed(canceled, roleTransaction):
			return domainerrors.TransactionAlreadyRegistered(nonce)
		case b.failed(canceled, roleDebit):
			// Also covers a missing source wallet: the debit condition
			// cannot distinguish absence from a short balance.
			return domainerrors.InsufficientFunds(sourceID)
		case b.failed(canceled, roleCredit):
			return domainerrors.WalletNotFound(targetID)
		default:
			return e.internal("transfer", err)
		}
	}

	e.logger.InfoContext(ctx, "transfer applied",
		slog.String("source_wallet_id", sourceID),
		slog.String("target_wallet_id", targetID),
		slog.String("amount", amount.String()),
	)

	return nil
}

// Balance reads the wallet's current balance.
func (e *Engine) Balance(ctx context.Context, walletID string) (Wallet, error) {
	item, err := e.store.Get(ctx, WalletKey(walletID), balanceAttr)
	if err != nil {
		if errors.Is(err, ports.ErrItemNotFound) {
			return Wallet{}, domainerrors.WalletNotFound(walletID)
		}
		return Wallet{}, e.internal("get balance", err)
	}

	balance, err := balanceValue(item)
	if err != nil {
		return Wallet{}, e.internal("get balance", err)
	}

	return Wallet{ID: walletID, Balance: balance}, nil
}

// balanceValue extracts the balance attribute in decimal string form.
func balanceValue(item ports.Item) (string, error) {
	raw, ok := item[balanceAttr]
	if !ok {
		return "", fmt.Errorf("wallet item has no %s attribute", balanceAttr)
	}

	switch v := raw.(type) {
	case string:
		return v, nil
	case int64:
		return fmt.Sprintf("%d", v), nil
	case int:
		return fmt.Sprintf("%d", v), nil
	case float64:
		return fmt.Sprintf("%.0f", v), nil
	default:
		return "", fmt.Errorf("unexpected balance type %T", raw)
	}
}

func (e *Engine) internal(op string, err error) error {
	e.logger.Error("storage operation failed",
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
	return domainerrors.NewDomainError(domainerrors.CodeInternal, op+" failed", err)
}
