package tipbot

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chaintip/chaintip/internal/domain"
	"github.com/chaintip/chaintip/internal/notification"
	"github.com/chaintip/chaintip/internal/store"
	"github.com/chaintip/chaintip/internal/treasury"
)

// Service is the transfer engine: it composes the binding registry, the
// custodial ledger and the chain treasury into the public bind/unbind/tip
// operations. Every operation runs inside a single store transaction, so a
// failing step (including a rejected payout) rolls back all of its mutations.
type Service struct {
	store    store.Store
	treasury treasury.Transferer
	notifier notification.Notifier
	owner    domain.WalletID
}

// NewService builds the transfer engine. The owner wallet is fixed for the
// lifetime of the service and gates ForceUnbind and TipFrom.
func NewService(st store.Store, tr treasury.Transferer, notifier notification.Notifier, owner domain.WalletID) (*Service, error) {
	if owner == "" {
		return nil, fmt.Errorf("owner wallet is required")
	}
	if st == nil || tr == nil {
		return nil, fmt.Errorf("store and treasury are required")
	}
	return &Service{store: st, treasury: tr, notifier: notifier, owner: owner}, nil
}

// Owner returns the owner wallet.
func (s *Service) Owner() domain.WalletID {
	return s.owner
}

// PlatformIDOf returns the platform id bound to the wallet, if any.
func (s *Service) PlatformIDOf(ctx context.Context, wallet domain.WalletID) (domain.PlatformID, bool, error) {
	var (
		platform domain.PlatformID
		bound    bool
	)
	err := s.store.View(ctx, func(tx store.Txn) error {
		var err error
		platform, bound, err = tx.PlatformOf(ctx, wallet)
		return err
	})
	return platform, bound, err
}

// WalletOf returns the wallet bound to the platform id, if any.
func (s *Service) WalletOf(ctx context.Context, platform domain.PlatformID) (domain.WalletID, bool, error) {
	var (
		wallet domain.WalletID
		bound  bool
	)
	err := s.store.View(ctx, func(tx store.Txn) error {
		var err error
		wallet, bound, err = tx.WalletOf(ctx, platform)
		return err
	})
	return wallet, bound, err
}

// BalanceOf returns the custodial balance held for the platform id's bound
// wallet, zero when the platform id is unbound.
func (s *Service) BalanceOf(ctx context.Context, platform domain.PlatformID) (int64, error) {
	var balance int64
	err := s.store.View(ctx, func(tx store.Txn) error {
		wallet, bound, err := tx.WalletOf(ctx, platform)
		if err != nil || !bound {
			return err
		}
		balance, err = tx.Balance(ctx, wallet)
		return err
	})
	return balance, err
}

// Bind records the caller's binding to the platform id and credits any
// attached deposit to the caller's custodial balance. A platform id bound to
// a different wallet is refused with ErrAlreadyBounded; rebinding the caller
// to a new platform id frees the old one.
func (s *Service) Bind(ctx context.Context, caller domain.WalletID, platform domain.PlatformID, deposit int64) error {
	if deposit < 0 {
		return fmt.Errorf("deposit must be non-negative")
	}
	return s.store.Update(ctx, func(tx store.Txn) error {
		if err := tx.Bind(ctx, caller, platform); err != nil {
			return err
		}
		if deposit > 0 {
			return tx.Credit(ctx, caller, deposit)
		}
		return nil
	})
}

// Unbind removes the caller's binding and pays their full custodial balance
// back to their spendable balance. A rejected payout aborts the whole
// operation: the binding and the balance survive untouched.
func (s *Service) Unbind(ctx context.Context, caller domain.WalletID) error {
	return s.unbindWallet(ctx, caller)
}

// ForceUnbind is the owner-gated variant of Unbind for an arbitrary wallet,
// used to clean up stale or abusive bindings from the chat side.
func (s *Service) ForceUnbind(ctx context.Context, caller, target domain.WalletID) error {
	if err := s.requireOwner(caller); err != nil {
		return err
	}
	return s.unbindWallet(ctx, target)
}

func (s *Service) unbindWallet(ctx context.Context, wallet domain.WalletID) error {
	var (
		platform domain.PlatformID
		paidOut  int64
	)
	err := s.store.Update(ctx, func(tx store.Txn) error {
		var err error
		platform, err = tx.Unbind(ctx, wallet)
		if err != nil {
			return err
		}
		paidOut, err = tx.WithdrawAll(ctx, wallet)
		if err != nil {
			return err
		}
		if paidOut > 0 {
			return s.treasury.Transfer(ctx, wallet, paidOut)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if paidOut > 0 && s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindPayout,
			Destination: string(wallet),
			Body:        fmt.Sprintf("Returned %d to your wallet after unbinding platform id %d", paidOut, platform),
		})
	}
	return nil
}

// TipResult describes the outcome of a completed tip.
type TipResult struct {
	TransactionID string
	From          domain.PlatformID
	To            domain.PlatformID
	Amount        int64
	FromBalance   int64
	CompletedAt   time.Time
}

// Tip moves amount from the caller's custodial balance directly to the
// spendable balance of the wallet bound to the target platform id. Both the
// caller and the target must be bound; the service refuses to hold funds in
// escrow for an identity nobody has claimed.
func (s *Service) Tip(ctx context.Context, caller domain.WalletID, target domain.PlatformID, amount int64) (TipResult, error) {
	if amount <= 0 {
		return TipResult{}, fmt.Errorf("amount must be positive")
	}

	var res TipResult
	err := s.store.Update(ctx, func(tx store.Txn) error {
		callerPlatform, bound, err := tx.PlatformOf(ctx, caller)
		if err != nil {
			return err
		}
		if !bound {
			return domain.ErrNotFound
		}
		return s.executeTip(ctx, tx, &res, callerPlatform, caller, target, amount)
	})
	if err != nil {
		return TipResult{}, err
	}

	s.notifyTip(ctx, res)
	return res, nil
}

// TipFrom is the owner-gated tip between two platform ids, used when the bot
// executes a tip commanded in chat without the source wallet's own signature.
func (s *Service) TipFrom(ctx context.Context, caller domain.WalletID, from, to domain.PlatformID, amount int64) (TipResult, error) {
	if err := s.requireOwner(caller); err != nil {
		return TipResult{}, err
	}
	if amount <= 0 {
		return TipResult{}, fmt.Errorf("amount must be positive")
	}

	var res TipResult
	err := s.store.Update(ctx, func(tx store.Txn) error {
		source, bound, err := tx.WalletOf(ctx, from)
		if err != nil {
			return err
		}
		if !bound {
			return domain.ErrNotFound
		}
		return s.executeTip(ctx, tx, &res, from, source, to, amount)
	})
	if err != nil {
		return TipResult{}, err
	}

	s.notifyTip(ctx, res)
	return res, nil
}

// executeTip performs the shared debit/transfer sequence inside an open
// transaction: debit the source's custodial balance, then pay the target
// wallet directly. The target's custodial balance is deliberately untouched.
func (s *Service) executeTip(ctx context.Context, tx store.Txn, res *TipResult, fromPlatform domain.PlatformID, source domain.WalletID, target domain.PlatformID, amount int64) error {
	recipient, bound, err := tx.WalletOf(ctx, target)
	if err != nil {
		return err
	}
	if !bound {
		return domain.ErrNotFound
	}

	if err := tx.Debit(ctx, source, amount); err != nil {
		return err
	}
	if err := s.treasury.Transfer(ctx, recipient, amount); err != nil {
		return err
	}

	remaining, err := tx.Balance(ctx, source)
	if err != nil {
		return err
	}

	*res = TipResult{
		TransactionID: uuid.NewString(),
		From:          fromPlatform,
		To:            target,
		Amount:        amount,
		FromBalance:   remaining,
		CompletedAt:   time.Now().UTC(),
	}
	return nil
}

func (s *Service) notifyTip(ctx context.Context, res TipResult) {
	if s.notifier == nil {
		return
	}
	_ = s.notifier.Send(ctx, notification.Message{
		Kind:        notification.KindTipReceived,
		Destination: fmt.Sprintf("%d", res.To),
		Body:        fmt.Sprintf("You received a tip of %d from platform user %d", res.Amount, res.From),
	})
}

func (s *Service) requireOwner(caller domain.WalletID) error {
	if caller != s.owner {
		return domain.ErrNotAllowed
	}
	return nil
}
