package registry

import (
	"testing"

	"github.com/chaintip/chaintip/internal/domain"
)

const (
	walletA = domain.WalletID("5FAlice")
	walletB = domain.WalletID("5FBob")
)

// checkBijection asserts both maps are exact inverses of each other.
func checkBijection(t *testing.T, r *Registry) {
	t.Helper()
	for wallet, platform := range r.walletToPlatform {
		if holder, ok := r.platformToWallet[platform]; !ok || holder != wallet {
			t.Fatalf("platform %d maps to %q, expected %q", platform, holder, wallet)
		}
	}
	for platform, wallet := range r.platformToWallet {
		if bound, ok := r.walletToPlatform[wallet]; !ok || bound != platform {
			t.Fatalf("wallet %q maps to %d, expected %d", wallet, bound, platform)
		}
	}
}

func TestBindAndLookup(t *testing.T) {
	r := New()

	if err := r.Bind(walletA, 42); err != nil {
		t.Fatalf("bind: %v", err)
	}

	platform, ok := r.PlatformOf(walletA)
	if !ok || platform != 42 {
		t.Fatalf("expected platform 42, got %d (ok=%v)", platform, ok)
	}
	wallet, ok := r.WalletOf(42)
	if !ok || wallet != walletA {
		t.Fatalf("expected wallet %q, got %q (ok=%v)", walletA, wallet, ok)
	}
	checkBijection(t, r)
}

func TestBindRefusesForeignPlatform(t *testing.T) {
	r := New()
	if err := r.Bind(walletA, 42); err != nil {
		t.Fatalf("bind: %v", err)
	}

	if err := r.Bind(walletB, 42); err != domain.ErrAlreadyBounded {
		t.Fatalf("expected ErrAlreadyBounded, got %v", err)
	}

	// state must be untouched
	if wallet, _ := r.WalletOf(42); wallet != walletA {
		t.Fatalf("binding changed after rejected bind: %q", wallet)
	}
	checkBijection(t, r)
}

func TestRebindEvictsOldPlatform(t *testing.T) {
	r := New()
	if err := r.Bind(walletA, 42); err != nil {
		t.Fatalf("bind: %v", err)
	}
	if err := r.Bind(walletA, 99); err != nil {
		t.Fatalf("rebind: %v", err)
	}

	if platform, _ := r.PlatformOf(walletA); platform != 99 {
		t.Fatalf("expected platform 99, got %d", platform)
	}
	if _, ok := r.WalletOf(42); ok {
		t.Fatalf("old platform id 42 should be free")
	}
	if r.Len() != 1 {
		t.Fatalf("expected exactly one binding, got %d", r.Len())
	}
	checkBijection(t, r)
}

func TestRebindSamePairIsNoop(t *testing.T) {
	r := New()
	if err := r.Bind(walletA, 42); err != nil {
		t.Fatalf("bind: %v", err)
	}
	if err := r.Bind(walletA, 42); err != nil {
		t.Fatalf("rebind same pair: %v", err)
	}
	if r.Len() != 1 {
		t.Fatalf("expected one binding, got %d", r.Len())
	}
	checkBijection(t, r)
}

func TestUnbind(t *testing.T) {
	r := New()
	if err := r.Bind(walletA, 42); err != nil {
		t.Fatalf("bind: %v", err)
	}

	platform, err := r.Unbind(walletA)
	if err != nil {
		t.Fatalf("unbind: %v", err)
	}
	if platform != 42 {
		t.Fatalf("expected freed platform 42, got %d", platform)
	}
	if _, ok := r.PlatformOf(walletA); ok {
		t.Fatalf("wallet still bound after unbind")
	}
	if _, ok := r.WalletOf(42); ok {
		t.Fatalf("platform still bound after unbind")
	}
	if r.Len() != 0 {
		t.Fatalf("registry not empty after unbind")
	}

	if _, err := r.Unbind(walletA); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	r := New()
	if err := r.Bind(walletA, 42); err != nil {
		t.Fatalf("bind: %v", err)
	}

	clone := r.Clone()
	if err := clone.Bind(walletB, 7); err != nil {
		t.Fatalf("bind on clone: %v", err)
	}
	if _, err := clone.Unbind(walletA); err != nil {
		t.Fatalf("unbind on clone: %v", err)
	}

	if _, ok := r.PlatformOf(walletA); !ok {
		t.Fatalf("original lost binding after clone mutation")
	}
	if _, ok := r.WalletOf(7); ok {
		t.Fatalf("original gained binding from clone mutation")
	}
	checkBijection(t, r)
	checkBijection(t, clone)
}
