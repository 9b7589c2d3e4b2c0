package store

import (
	"context"

	"github.com/chaintip/chaintip/internal/domain"
)

// Txn exposes the binding registry and the custodial ledger as one unit of
// work. Every public operation of the service runs inside a single Txn, so a
// failure in any step discards all staged mutations: the two binding maps and
// the balance book are never observable in a divergent state.
type Txn interface {
	// Registry
	PlatformOf(ctx context.Context, wallet domain.WalletID) (domain.PlatformID, bool, error)
	WalletOf(ctx context.Context, platform domain.PlatformID) (domain.WalletID, bool, error)
	Bind(ctx context.Context, wallet domain.WalletID, platform domain.PlatformID) error
	Unbind(ctx context.Context, wallet domain.WalletID) (domain.PlatformID, error)

	// Ledger
	Balance(ctx context.Context, wallet domain.WalletID) (int64, error)
	Credit(ctx context.Context, wallet domain.WalletID, amount int64) error
	Debit(ctx context.Context, wallet domain.WalletID, amount int64) error
	WithdrawAll(ctx context.Context, wallet domain.WalletID) (int64, error)
}

// Store is implemented by state backends (in-memory, Postgres).
type Store interface {
	// View runs fn against a read snapshot. Mutations made through the Txn
	// are discarded.
	View(ctx context.Context, fn func(Txn) error) error

	// Update runs fn against staged state and commits only if fn returns
	// nil. Any error rolls back every mutation fn made.
	Update(ctx context.Context, fn func(Txn) error) error
}
