package treasury

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/chaintip/chaintip/internal/domain"
)

// Transferer is the connector to the chain's value-transfer primitive. It
// moves amount out of the service's custodial pool directly to the wallet's
// spendable balance. The call is synchronous; an error means nothing moved.
type Transferer interface {
	Transfer(ctx context.Context, to domain.WalletID, amount int64) error
}

// StaticTreasury simulates a chain connector that approves every payout.
// Used in development when no node endpoint is configured.
type StaticTreasury struct {
	logger *slog.Logger
}

// NewStatic builds the always-approve treasury.
func NewStatic(logger *slog.Logger) *StaticTreasury {
	return &StaticTreasury{logger: logger}
}

// Transfer approves the payout and records it on the logger.
func (t *StaticTreasury) Transfer(_ context.Context, to domain.WalletID, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("%w: negative amount", domain.ErrTransferFailed)
	}
	if t.logger != nil {
		t.logger.Info("payout", "to", string(to), "amount", amount)
	}
	return nil
}

// MemoryTreasury models chain spendable balances in process, including the
// existential-deposit rule: a transfer that would leave the recipient below
// the threshold is rejected and nothing moves. Used by tests.
type MemoryTreasury struct {
	mu        sync.Mutex
	threshold int64
	spendable map[domain.WalletID]int64
}

// NewMemory builds an in-memory treasury with the given subsistence threshold.
func NewMemory(threshold int64) *MemoryTreasury {
	return &MemoryTreasury{
		threshold: threshold,
		spendable: make(map[domain.WalletID]int64),
	}
}

// Transfer credits the recipient's spendable balance, enforcing the
// subsistence threshold on the resulting balance.
func (t *MemoryTreasury) Transfer(_ context.Context, to domain.WalletID, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("%w: negative amount", domain.ErrTransferFailed)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.spendable[to]+amount < t.threshold {
		return domain.ErrBelowSubsistence
	}
	t.spendable[to] += amount
	return nil
}

// Spendable reports the wallet's spendable balance.
func (t *MemoryTreasury) Spendable(wallet domain.WalletID) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.spendable[wallet]
}

// SetSpendable seeds a wallet's spendable balance for tests.
func (t *MemoryTreasury) SetSpendable(wallet domain.WalletID, amount int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.spendable[wallet] = amount
}
