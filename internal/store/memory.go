package store

import (
	"context"
	"sync"

	"github.com/chaintip/chaintip/internal/domain"
	"github.com/chaintip/chaintip/internal/ledger"
	"github.com/chaintip/chaintip/internal/registry"
)

// MemoryStore keeps all state in process. Update stages mutations on cloned
// copies of the registry and ledger and swaps them in only when the closure
// succeeds, which gives the same all-or-nothing behaviour as the Postgres
// backend. Useful for tests and local development without a database.
type MemoryStore struct {
	mu       sync.Mutex
	registry *registry.Registry
	ledger   *ledger.Ledger
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		registry: registry.New(),
		ledger:   ledger.New(),
	}
}

type memoryTxn struct {
	registry *registry.Registry
	ledger   *ledger.Ledger
}

// View runs fn on cloned state; whatever fn does to it is discarded.
func (s *MemoryStore) View(_ context.Context, fn func(Txn) error) error {
	s.mu.Lock()
	txn := &memoryTxn{registry: s.registry.Clone(), ledger: s.ledger.Clone()}
	s.mu.Unlock()
	return fn(txn)
}

// Update runs fn on cloned state and commits the clones on success.
func (s *MemoryStore) Update(_ context.Context, fn func(Txn) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	txn := &memoryTxn{registry: s.registry.Clone(), ledger: s.ledger.Clone()}
	if err := fn(txn); err != nil {
		return err
	}
	s.registry = txn.registry
	s.ledger = txn.ledger
	return nil
}

func (t *memoryTxn) PlatformOf(_ context.Context, wallet domain.WalletID) (domain.PlatformID, bool, error) {
	platform, ok := t.registry.PlatformOf(wallet)
	return platform, ok, nil
}

func (t *memoryTxn) WalletOf(_ context.Context, platform domain.PlatformID) (domain.WalletID, bool, error) {
	wallet, ok := t.registry.WalletOf(platform)
	return wallet, ok, nil
}

func (t *memoryTxn) Bind(_ context.Context, wallet domain.WalletID, platform domain.PlatformID) error {
	return t.registry.Bind(wallet, platform)
}

func (t *memoryTxn) Unbind(_ context.Context, wallet domain.WalletID) (domain.PlatformID, error) {
	return t.registry.Unbind(wallet)
}

func (t *memoryTxn) Balance(_ context.Context, wallet domain.WalletID) (int64, error) {
	return t.ledger.Balance(wallet), nil
}

func (t *memoryTxn) Credit(_ context.Context, wallet domain.WalletID, amount int64) error {
	return t.ledger.Credit(wallet, amount)
}

func (t *memoryTxn) Debit(_ context.Context, wallet domain.WalletID, amount int64) error {
	return t.ledger.Debit(wallet, amount)
}

func (t *memoryTxn) WithdrawAll(_ context.Context, wallet domain.WalletID) (int64, error) {
	return t.ledger.WithdrawAll(wallet), nil
}
