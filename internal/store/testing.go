package store

import (
	"github.com/chaintip/chaintip/internal/domain"
)

// SeedBinding is a test helper that installs a binding directly, bypassing
// the service layer. Only effective on the in-memory store.
func SeedBinding(s Store, wallet domain.WalletID, platform domain.PlatformID) {
	if mem, ok := s.(*MemoryStore); ok {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		_ = mem.registry.Bind(wallet, platform)
	}
}

// SeedBalance is a test helper that sets a wallet's custodial balance when
// using the in-memory store.
func SeedBalance(s Store, wallet domain.WalletID, amount int64) {
	if mem, ok := s.(*MemoryStore); ok {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		mem.ledger.WithdrawAll(wallet)
		_ = mem.ledger.Credit(wallet, amount)
	}
}

// Counts is a test helper reporting how many bindings and balance entries the
// in-memory store holds, for round-trip assertions.
func Counts(s Store) (bindings, balances int) {
	if mem, ok := s.(*MemoryStore); ok {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		return mem.registry.Len(), mem.ledger.Len()
	}
	return 0, 0
}
