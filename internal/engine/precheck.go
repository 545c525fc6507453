package engine

import (
	"errors"

	"StakeSentinel/internal/model"
)

var errNoData = errors.New("no wallet data returned")

// CheckPreconditions evaluates the wallet reading in a fixed order and returns
// an intent for the first failing check, or nil when the wallet is staking
// normally. A non-nil queryErr always wins; status is ignored in that case.
func CheckPreconditions(status *model.WalletStatus, queryErr error, prefix string) *model.Intent {
	prefix = prefixOr(prefix)

	var in model.Intent
	switch {
	case queryErr != nil:
		in = queryErrorIntent(prefix, queryErr)
	case status == nil:
		in = queryErrorIntent(prefix, errNoData)
	case !status.HasFunds():
		in = noFundsIntent(prefix)
	case len(status.Errors) > 0:
		in = reportedErrorsIntent(prefix, status.Errors)
	case status.Locked():
		in = lockedIntent(prefix)
	case !status.StakingEnabled:
		in = stakingDisabledIntent(prefix)
	case !status.Staking:
		in = notStakingIntent(prefix)
	default:
		return nil
	}
	return &in
}

// CheckTemperature returns a warning intent when current exceeds threshold.
func CheckTemperature(current, threshold float64, prefix string) *model.Intent {
	if current <= threshold {
		return nil
	}
	in := temperatureIntent(prefixOr(prefix), current, threshold)
	return &in
}
