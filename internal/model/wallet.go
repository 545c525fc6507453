package model

import "github.com/shopspring/decimal"

// WalletStatus is one raw reading of the wallet daemon, merged from
// getwalletinfo and getstakinginfo.
type WalletStatus struct {
	Balance decimal.Decimal
	Stake   decimal.Decimal

	// UnlockedUntil is nil for unencrypted wallets, 0 when the wallet is locked.
	UnlockedUntil *int64

	StakingEnabled bool
	Staking        bool
	Errors         []string

	Weight         int64
	NetStakeWeight int64
	ExpectedTime   int64 // seconds until the next expected stake, 0 if unknown
}

// Locked reports whether an encrypted wallet has no active unlock window.
func (w *WalletStatus) Locked() bool {
	return w.UnlockedUntil != nil && *w.UnlockedUntil == 0
}

// HasFunds reports whether either balance or stake is non-zero.
func (w *WalletStatus) HasFunds() bool {
	return !w.Balance.IsZero() || !w.Stake.IsZero()
}
