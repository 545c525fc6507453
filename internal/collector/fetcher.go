package collector

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Fetcher defines the interface for querying the wallet daemon.
type Fetcher interface {
	FetchWalletInfo(ctx context.Context) (*WalletInfo, error)
	FetchStakingInfo(ctx context.Context) (*StakingInfo, error)
	Name() string
}

// WalletInfo is the subset of `getwalletinfo` the monitor uses.
type WalletInfo struct {
	Balance       decimal.Decimal `json:"balance"`
	Stake         decimal.Decimal `json:"stake"`
	UnlockedUntil *int64          `json:"unlocked_until"` // absent for unencrypted wallets
}

// StakingInfo is the subset of `getstakinginfo` the monitor uses.
type StakingInfo struct {
	Enabled        bool      `json:"enabled"`
	Staking        bool      `json:"staking"`
	Errors         ErrorList `json:"errors"`
	Weight         int64     `json:"weight"`
	NetStakeWeight int64     `json:"netstakeweight"`
	ExpectedTime   int64     `json:"expectedtime"`
}

// ErrorList accepts the daemon's "errors" field either as a single string
// (qtumd, empty when healthy) or as an array of strings.
type ErrorList []string

func (e *ErrorList) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		if one == "" {
			*e = nil
		} else {
			*e = ErrorList{one}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("errors field: %w", err)
	}
	out := many[:0]
	for _, m := range many {
		if m != "" {
			out = append(out, m)
		}
	}
	if len(out) == 0 {
		*e = nil
		return nil
	}
	*e = ErrorList(out)
	return nil
}
