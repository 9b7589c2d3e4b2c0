package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/chaintip/chaintip/internal/domain"
)

const (
	walletA = domain.WalletID("5FAlice")
	walletB = domain.WalletID("5FBob")
)

func TestUpdateCommitsOnSuccess(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	err := s.Update(ctx, func(tx Txn) error {
		if err := tx.Bind(ctx, walletA, 42); err != nil {
			return err
		}
		return tx.Credit(ctx, walletA, 1_000)
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	err = s.View(ctx, func(tx Txn) error {
		platform, ok, err := tx.PlatformOf(ctx, walletA)
		if err != nil {
			return err
		}
		if !ok || platform != 42 {
			t.Fatalf("expected binding to 42, got %d (ok=%v)", platform, ok)
		}
		balance, err := tx.Balance(ctx, walletA)
		if err != nil {
			return err
		}
		if balance != 1_000 {
			t.Fatalf("expected balance 1000, got %d", balance)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
}

func TestUpdateRollsBackEveryMutation(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	SeedBinding(s, walletA, 42)
	SeedBalance(s, walletA, 500)

	boom := errors.New("boom")
	err := s.Update(ctx, func(tx Txn) error {
		// mutate all three structures, then fail
		if _, err := tx.Unbind(ctx, walletA); err != nil {
			return err
		}
		if _, err := tx.WithdrawAll(ctx, walletA); err != nil {
			return err
		}
		if err := tx.Bind(ctx, walletB, 7); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	err = s.View(ctx, func(tx Txn) error {
		platform, ok, _ := tx.PlatformOf(ctx, walletA)
		if !ok || platform != 42 {
			t.Fatalf("binding lost on rollback: %d (ok=%v)", platform, ok)
		}
		balance, _ := tx.Balance(ctx, walletA)
		if balance != 500 {
			t.Fatalf("balance lost on rollback: %d", balance)
		}
		if _, ok, _ := tx.WalletOf(ctx, 7); ok {
			t.Fatalf("aborted bind leaked")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
}

func TestViewDiscardsMutations(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	err := s.View(ctx, func(tx Txn) error {
		return tx.Bind(ctx, walletA, 42)
	})
	if err != nil {
		t.Fatalf("view: %v", err)
	}

	bindings, balances := Counts(s)
	if bindings != 0 || balances != 0 {
		t.Fatalf("view leaked state: %d bindings, %d balances", bindings, balances)
	}
}

func TestConcurrentUpdatesSerialize(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	SeedBinding(s, walletA, 42)

	const workers = 10
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := s.Update(ctx, func(tx Txn) error {
				return tx.Credit(ctx, walletA, 100)
			})
			if err != nil {
				t.Errorf("update %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	_ = s.View(ctx, func(tx Txn) error {
		balance, _ := tx.Balance(ctx, walletA)
		if balance != workers*100 {
			t.Fatalf("lost credits under concurrency: %d", balance)
		}
		return nil
	})
}
