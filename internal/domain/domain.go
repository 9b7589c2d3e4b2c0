package domain

import "errors"

// WalletID identifies a value-holding account on the chain. The service never
// creates or destroys wallets; identifiers arrive from the environment opaque.
type WalletID string

// PlatformID is a numeric identity from the chat platform (e.g. a Telegram
// user id).
type PlatformID int64

// Binding pairs a wallet with the platform identity it is bound to. The
// registry guarantees the pairing is one-to-one in both directions.
type Binding struct {
	Wallet   WalletID
	Platform PlatformID
}

var (
	// ErrAlreadyBounded occurs when a platform id is already bound to a
	// different wallet. Rebinding someone else's platform id is refused so a
	// caller cannot hijack an identity that was claimed first.
	ErrAlreadyBounded = errors.New("platform id already bound to another wallet")

	// ErrNotAllowed occurs when a caller invokes an owner-only operation.
	ErrNotAllowed = errors.New("caller is not the owner")

	// ErrNotFound occurs when the referenced wallet or platform id has no
	// binding.
	ErrNotFound = errors.New("binding not found")

	// ErrInsufficientFunds occurs when a wallet's custodial balance cannot
	// cover a requested debit.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrTransferFailed is the generic failure reported by the external
	// value-transfer primitive.
	ErrTransferFailed = errors.New("transfer failed")

	// ErrBelowSubsistence occurs when a payout would leave the recipient
	// below the chain's minimum existence threshold.
	ErrBelowSubsistence = errors.New("transfer would drop recipient below subsistence threshold")

	// ErrAmountOverflow guards balance arithmetic. It is unreachable as long
	// as the ledger's own invariants hold and indicates an internal error.
	ErrAmountOverflow = errors.New("balance arithmetic overflow")
)
