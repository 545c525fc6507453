package collector

import (
	"context"
	"errors"
	"fmt"

	"StakeSentinel/internal/model"
)

// ErrQuery marks a failure to obtain data from the wallet daemon.
var ErrQuery = errors.New("wallet query failed")

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Wallet     WalletInfo
	Staking    StakingInfo
	WalletErr  error
	StakingErr error
	Calls      int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchWalletInfo(_ context.Context) (*WalletInfo, error) {
	m.Calls++
	if m.WalletErr != nil {
		return nil, m.WalletErr
	}
	w := m.Wallet
	return &w, nil
}

func (m *MockFetcher) FetchStakingInfo(_ context.Context) (*StakingInfo, error) {
	if m.StakingErr != nil {
		return nil, m.StakingErr
	}
	s := m.Staking
	return &s, nil
}

// Collector merges wallet and staking info into one reading.
type Collector struct {
	Fetcher Fetcher
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher) *Collector {
	return &Collector{Fetcher: fetcher}
}

// Query fetches both daemon calls. Either failing fails the whole reading;
// partial results are never returned.
func (c *Collector) Query(ctx context.Context) (*model.WalletStatus, error) {
	wallet, err := c.Fetcher.FetchWalletInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: getwalletinfo via %s: %w", ErrQuery, c.Fetcher.Name(), err)
	}
	staking, err := c.Fetcher.FetchStakingInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: getstakinginfo via %s: %w", ErrQuery, c.Fetcher.Name(), err)
	}

	return &model.WalletStatus{
		Balance:        wallet.Balance,
		Stake:          wallet.Stake,
		UnlockedUntil:  wallet.UnlockedUntil,
		StakingEnabled: staking.Enabled,
		Staking:        staking.Staking,
		Errors:         []string(staking.Errors),
		Weight:         staking.Weight,
		NetStakeWeight: staking.NetStakeWeight,
		ExpectedTime:   staking.ExpectedTime,
	}, nil
}
