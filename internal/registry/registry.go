package registry

import (
	"github.com/chaintip/chaintip/internal/domain"
)

// Registry maintains the wallet <-> platform binding bijection. Both
// directions live behind this API so no caller can mutate one map without the
// mirrored entry staying in sync.
//
// Registry is a plain value with no internal locking; the store that owns it
// serializes access.
type Registry struct {
	walletToPlatform map[domain.WalletID]domain.PlatformID
	platformToWallet map[domain.PlatformID]domain.WalletID
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		walletToPlatform: make(map[domain.WalletID]domain.PlatformID),
		platformToWallet: make(map[domain.PlatformID]domain.WalletID),
	}
}

// PlatformOf looks up the platform id bound to the wallet.
func (r *Registry) PlatformOf(wallet domain.WalletID) (domain.PlatformID, bool) {
	platform, ok := r.walletToPlatform[wallet]
	return platform, ok
}

// WalletOf looks up the wallet bound to the platform id.
func (r *Registry) WalletOf(platform domain.PlatformID) (domain.WalletID, bool) {
	wallet, ok := r.platformToWallet[platform]
	return wallet, ok
}

// Bind records the (wallet, platform) pair. A platform id held by a different
// wallet is refused with ErrAlreadyBounded. Rebinding the same wallet to a new
// platform id evicts the wallet's previous platform mapping, so exactly one
// pair holds for the wallet afterwards.
func (r *Registry) Bind(wallet domain.WalletID, platform domain.PlatformID) error {
	if holder, ok := r.platformToWallet[platform]; ok && holder != wallet {
		return domain.ErrAlreadyBounded
	}
	if oldPlatform, ok := r.walletToPlatform[wallet]; ok && oldPlatform != platform {
		delete(r.platformToWallet, oldPlatform)
	}
	r.walletToPlatform[wallet] = platform
	r.platformToWallet[platform] = wallet
	return nil
}

// Unbind removes the wallet's binding in both directions and returns the
// freed platform id. Returns ErrNotFound if the wallet is unbound.
func (r *Registry) Unbind(wallet domain.WalletID) (domain.PlatformID, error) {
	platform, ok := r.walletToPlatform[wallet]
	if !ok {
		return 0, domain.ErrNotFound
	}
	delete(r.walletToPlatform, wallet)
	delete(r.platformToWallet, platform)
	return platform, nil
}

// Len reports the number of bindings.
func (r *Registry) Len() int {
	return len(r.walletToPlatform)
}

// Clone returns an independent copy, used by the store to stage mutations.
func (r *Registry) Clone() *Registry {
	clone := New()
	for wallet, platform := range r.walletToPlatform {
		clone.walletToPlatform[wallet] = platform
	}
	for platform, wallet := range r.platformToWallet {
		clone.platformToWallet[platform] = wallet
	}
	return clone
}
