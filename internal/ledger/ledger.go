package ledger

import (
	"math"

	"github.com/chaintip/chaintip/internal/domain"
)

// Ledger holds the custodial balances the service keeps on behalf of bound
// wallets. A wallet with no entry has a zero balance. Amounts are int64 and
// every mutation is bounds-checked; arithmetic never wraps.
//
// Like registry.Registry this is a plain value serialized by the owning store.
type Ledger struct {
	balances map[domain.WalletID]int64
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{balances: make(map[domain.WalletID]int64)}
}

// Balance returns the wallet's custodial balance, zero if absent.
func (l *Ledger) Balance(wallet domain.WalletID) int64 {
	return l.balances[wallet]
}

// Credit adds amount to the wallet's balance, creating the entry if absent.
// A zero amount is a no-op. Negative amounts and additions that would exceed
// math.MaxInt64 return ErrAmountOverflow.
func (l *Ledger) Credit(wallet domain.WalletID, amount int64) error {
	if amount < 0 {
		return domain.ErrAmountOverflow
	}
	if amount == 0 {
		return nil
	}
	current := l.balances[wallet]
	if current > math.MaxInt64-amount {
		return domain.ErrAmountOverflow
	}
	l.balances[wallet] = current + amount
	return nil
}

// Debit subtracts amount from the wallet's balance. Returns
// ErrInsufficientFunds if the wallet has no entry or holds less than amount.
func (l *Ledger) Debit(wallet domain.WalletID, amount int64) error {
	if amount < 0 {
		return domain.ErrAmountOverflow
	}
	current, ok := l.balances[wallet]
	if !ok || current < amount {
		return domain.ErrInsufficientFunds
	}
	if current == amount {
		delete(l.balances, wallet)
		return nil
	}
	l.balances[wallet] = current - amount
	return nil
}

// WithdrawAll removes the wallet's entry and returns the full balance, zero
// if the wallet had none.
func (l *Ledger) WithdrawAll(wallet domain.WalletID) int64 {
	amount := l.balances[wallet]
	delete(l.balances, wallet)
	return amount
}

// Len reports the number of wallets with a nonzero balance.
func (l *Ledger) Len() int {
	return len(l.balances)
}

// Clone returns an independent copy, used by the store to stage mutations.
func (l *Ledger) Clone() *Ledger {
	clone := New()
	for wallet, amount := range l.balances {
		clone.balances[wallet] = amount
	}
	return clone
}
