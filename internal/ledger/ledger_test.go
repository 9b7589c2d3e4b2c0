package ledger

import (
	"math"
	"testing"

	"github.com/chaintip/chaintip/internal/domain"
)

const wallet = domain.WalletID("5FAlice")

func TestCreditAndBalance(t *testing.T) {
	l := New()

	if got := l.Balance(wallet); got != 0 {
		t.Fatalf("expected zero balance for unknown wallet, got %d", got)
	}

	if err := l.Credit(wallet, 6_969); err != nil {
		t.Fatalf("credit: %v", err)
	}
	if err := l.Credit(wallet, 31); err != nil {
		t.Fatalf("second credit: %v", err)
	}
	if got := l.Balance(wallet); got != 7_000 {
		t.Fatalf("expected balance 7000, got %d", got)
	}
}

func TestCreditZeroIsNoop(t *testing.T) {
	l := New()
	if err := l.Credit(wallet, 0); err != nil {
		t.Fatalf("credit zero: %v", err)
	}
	if l.Len() != 0 {
		t.Fatalf("zero credit must not create an entry")
	}
}

func TestDebit(t *testing.T) {
	l := New()
	if err := l.Credit(wallet, 100); err != nil {
		t.Fatalf("credit: %v", err)
	}

	if err := l.Debit(wallet, 40); err != nil {
		t.Fatalf("debit: %v", err)
	}
	if got := l.Balance(wallet); got != 60 {
		t.Fatalf("expected balance 60, got %d", got)
	}

	if err := l.Debit(wallet, 61); err != domain.ErrInsufficientFunds {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if got := l.Balance(wallet); got != 60 {
		t.Fatalf("failed debit changed balance: %d", got)
	}

	// draining the balance removes the entry
	if err := l.Debit(wallet, 60); err != nil {
		t.Fatalf("drain: %v", err)
	}
	if l.Len() != 0 {
		t.Fatalf("entry should be removed at zero")
	}
}

func TestDebitUnknownWallet(t *testing.T) {
	l := New()
	if err := l.Debit(wallet, 1); err != domain.ErrInsufficientFunds {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
}

func TestArithmeticNeverWraps(t *testing.T) {
	l := New()
	if err := l.Credit(wallet, math.MaxInt64); err != nil {
		t.Fatalf("credit max: %v", err)
	}
	if err := l.Credit(wallet, 1); err != domain.ErrAmountOverflow {
		t.Fatalf("expected ErrAmountOverflow, got %v", err)
	}
	if got := l.Balance(wallet); got != math.MaxInt64 {
		t.Fatalf("overflowing credit changed balance: %d", got)
	}

	if err := l.Credit(wallet, -1); err != domain.ErrAmountOverflow {
		t.Fatalf("expected ErrAmountOverflow for negative credit, got %v", err)
	}
	if err := l.Debit(wallet, -1); err != domain.ErrAmountOverflow {
		t.Fatalf("expected ErrAmountOverflow for negative debit, got %v", err)
	}
}

func TestWithdrawAll(t *testing.T) {
	l := New()
	if err := l.Credit(wallet, 2_500); err != nil {
		t.Fatalf("credit: %v", err)
	}

	if got := l.WithdrawAll(wallet); got != 2_500 {
		t.Fatalf("expected withdrawal of 2500, got %d", got)
	}
	if l.Len() != 0 {
		t.Fatalf("entry should be removed after withdrawal")
	}
	if got := l.WithdrawAll(wallet); got != 0 {
		t.Fatalf("expected zero on second withdrawal, got %d", got)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	l := New()
	if err := l.Credit(wallet, 100); err != nil {
		t.Fatalf("credit: %v", err)
	}

	clone := l.Clone()
	if err := clone.Debit(wallet, 100); err != nil {
		t.Fatalf("debit on clone: %v", err)
	}

	if got := l.Balance(wallet); got != 100 {
		t.Fatalf("original balance changed by clone mutation: %d", got)
	}
}
