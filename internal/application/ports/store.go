// Package ports defines the interfaces (ports) the application layer
// depends on. Implementations live in the infrastructure layer.
//
// Pattern: Ports & Adapters (Hexagonal Architecture)
package ports

import "context"

// Item is a stored record in its native Go representation, keyed by
// attribute name. The primary key attribute is "pk". Numeric
// attributes surface as decimal strings to preserve precision.
type Item map[string]interface{}

// TransactItem is a single conditional write inside a transactional
// batch. Concrete values are backend specific and produced by an
// ItemFactory; the application layer treats them as opaque.
type TransactItem interface {
	// Key returns the primary key the write targets.
	Key() string
}

// ItemFactory builds the conditional writes a Store can execute.
//
// Numeric arguments are decimal integer strings because the backing
// store keeps numbers at arbitrary precision; int64 would silently cap
// amounts at 19 digits.
type ItemFactory interface {
	// PutIfAbsent inserts a new item under pk, failing the batch if the
	// key already exists.
	PutIfAbsent(pk string, data Item) TransactItem

	// AddIfExists increments a numeric attribute of an existing item
	// by n. The write fails if the item does not exist. n must be a
	// positive decimal integer.
	AddIfExists(pk, attribute, n string) (TransactItem, error)

	// SubtractIfAtLeast decrements a numeric attribute by n, failing
	// unless the item exists and the current value is at least n.
	// n must be a positive decimal integer.
	SubtractIfAtLeast(pk, attribute, n string) (TransactItem, error)
}

// MaxTransactItems is the largest batch a single TransactWrite accepts.
// Larger batches are rejected locally, before any network call.
const MaxTransactItems = 25

// Store is the persistence contract for the wallet table.
//
// All methods honor context cancellation. Failures surface through the
// storage error taxonomy in this package; TransactWrite reports batch
// cancellations as a *TransactionCanceledError carrying one reason per
// submitted item.
type Store interface {
	// Get loads the item under pk. Only the named attributes are
	// fetched when attributes is non-empty. The pk attribute is
	// stripped from the result. Returns ErrItemNotFound if absent.
	Get(ctx context.Context, pk string, attributes ...string) (Item, error)

	// Put executes a single conditional write outside a batch.
	Put(ctx context.Context, item TransactItem) error

	// Delete removes the item under pk, failing with ErrItemNotFound
	// if it does not exist.
	Delete(ctx context.Context, pk string) error

	// TransactWrite executes up to MaxTransactItems conditional writes
	// atomically: all succeed or none apply.
	TransactWrite(ctx context.Context, items ...TransactItem) error
}

// TableAdmin manages the lifecycle of the backing table. Split from
// Store because request-serving code never needs it.
type TableAdmin interface {
	// CreateTable creates the table and waits until it is active.
	CreateTable(ctx context.Context) error

	// DropTable deletes the table and waits until it is gone.
	DropTable(ctx context.Context) error

	// TableExists reports whether the table exists.
	TableExists(ctx context.Context) (bool, error)
}
