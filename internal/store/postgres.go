package store

import (
	"context"
	"errors"
	"math"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chaintip/chaintip/internal/domain"
)

// PostgresStore persists bindings and balances in PostgreSQL. Expected schema:
//
//	CREATE TABLE bindings (
//	    wallet      TEXT   PRIMARY KEY,
//	    platform_id BIGINT NOT NULL UNIQUE
//	);
//	CREATE TABLE balances (
//	    wallet TEXT   PRIMARY KEY,
//	    amount BIGINT NOT NULL CHECK (amount >= 0)
//	);
//
// The UNIQUE constraint on platform_id backs the registry bijection at the
// schema level; Update wraps each operation in a single transaction so partial
// mutations never commit.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgres builds a Postgres-backed store.
func NewPostgres(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

type pgTxn struct {
	tx pgx.Tx
}

// View runs fn inside a read-only transaction.
func (s *PostgresStore) View(ctx context.Context, fn func(Txn) error) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	if err := fn(&pgTxn{tx: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Update runs fn inside a read-write transaction, committing only on success.
func (s *PostgresStore) Update(ctx context.Context, fn func(Txn) error) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	if err := fn(&pgTxn{tx: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (t *pgTxn) PlatformOf(ctx context.Context, wallet domain.WalletID) (domain.PlatformID, bool, error) {
	var platform int64
	err := t.tx.QueryRow(ctx, `SELECT platform_id FROM bindings WHERE wallet = $1`, string(wallet)).Scan(&platform)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return domain.PlatformID(platform), true, nil
}

func (t *pgTxn) WalletOf(ctx context.Context, platform domain.PlatformID) (domain.WalletID, bool, error) {
	var wallet string
	err := t.tx.QueryRow(ctx, `SELECT wallet FROM bindings WHERE platform_id = $1`, int64(platform)).Scan(&wallet)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return domain.WalletID(wallet), true, nil
}

func (t *pgTxn) Bind(ctx context.Context, wallet domain.WalletID, platform domain.PlatformID) error {
	var holder string
	err := t.tx.QueryRow(ctx, `SELECT wallet FROM bindings WHERE platform_id = $1 FOR UPDATE`, int64(platform)).Scan(&holder)
	switch {
	case err == nil:
		if holder != string(wallet) {
			return domain.ErrAlreadyBounded
		}
		return nil
	case !errors.Is(err, pgx.ErrNoRows):
		return err
	}

	// Upserting on the wallet key evicts the wallet's previous platform
	// mapping in the same statement.
	_, err = t.tx.Exec(ctx, `INSERT INTO bindings (wallet, platform_id) VALUES ($1, $2)
        ON CONFLICT (wallet) DO UPDATE SET platform_id = EXCLUDED.platform_id`, string(wallet), int64(platform))
	return err
}

func (t *pgTxn) Unbind(ctx context.Context, wallet domain.WalletID) (domain.PlatformID, error) {
	var platform int64
	err := t.tx.QueryRow(ctx, `DELETE FROM bindings WHERE wallet = $1 RETURNING platform_id`, string(wallet)).Scan(&platform)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return domain.PlatformID(platform), nil
}

func (t *pgTxn) Balance(ctx context.Context, wallet domain.WalletID) (int64, error) {
	var amount int64
	err := t.tx.QueryRow(ctx, `SELECT amount FROM balances WHERE wallet = $1`, string(wallet)).Scan(&amount)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return amount, nil
}

func (t *pgTxn) Credit(ctx context.Context, wallet domain.WalletID, amount int64) error {
	if amount < 0 {
		return domain.ErrAmountOverflow
	}
	if amount == 0 {
		return nil
	}

	current, err := t.lockedBalance(ctx, wallet)
	if err != nil {
		return err
	}
	if current > math.MaxInt64-amount {
		return domain.ErrAmountOverflow
	}

	_, err = t.tx.Exec(ctx, `INSERT INTO balances (wallet, amount) VALUES ($1, $2)
        ON CONFLICT (wallet) DO UPDATE SET amount = balances.amount + EXCLUDED.amount`, string(wallet), amount)
	return err
}

func (t *pgTxn) Debit(ctx context.Context, wallet domain.WalletID, amount int64) error {
	if amount < 0 {
		return domain.ErrAmountOverflow
	}

	current, err := t.lockedBalance(ctx, wallet)
	if err != nil {
		return err
	}
	if current < amount {
		return domain.ErrInsufficientFunds
	}
	if current == amount {
		_, err = t.tx.Exec(ctx, `DELETE FROM balances WHERE wallet = $1`, string(wallet))
		return err
	}
	_, err = t.tx.Exec(ctx, `UPDATE balances SET amount = amount - $2 WHERE wallet = $1`, string(wallet), amount)
	return err
}

func (t *pgTxn) WithdrawAll(ctx context.Context, wallet domain.WalletID) (int64, error) {
	var amount int64
	err := t.tx.QueryRow(ctx, `DELETE FROM balances WHERE wallet = $1 RETURNING amount`, string(wallet)).Scan(&amount)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return amount, nil
}

// lockedBalance reads the wallet's balance with a row lock; zero when absent.
// A debit of an absent wallet is reported as insufficient funds by the caller.
func (t *pgTxn) lockedBalance(ctx context.Context, wallet domain.WalletID) (int64, error) {
	var amount int64
	err := t.tx.QueryRow(ctx, `SELECT amount FROM balances WHERE wallet = $1 FOR UPDATE`, string(wallet)).Scan(&amount)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return amount, nil
}
