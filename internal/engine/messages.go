package engine

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"StakeSentinel/internal/model"
)

// DefaultPrefix names the coin in notification subjects.
const DefaultPrefix = "QTUM"

func prefixOr(p string) string {
	if p == "" {
		return DefaultPrefix
	}
	return p
}

// whole truncates an amount to integer units for display.
func whole(d decimal.Decimal) string {
	return d.Truncate(0).String()
}

func queryErrorIntent(prefix string, err error) model.Intent {
	return model.Intent{
		Kind:    model.IntentQueryError,
		Subject: "Error running qtum-cli",
		Body:    fmt.Sprintf("Error running qtum-cli. Verify settings.\n\n%v", err),
	}
}

func noFundsIntent(prefix string) model.Intent {
	return model.Intent{
		Kind:    model.IntentNoFunds,
		Subject: fmt.Sprintf("No %s balance", prefix),
		Body:    fmt.Sprintf("No %s balance.", prefix),
	}
}

func reportedErrorsIntent(prefix string, errs []string) model.Intent {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s Errors:\n", prefix))
	for _, e := range errs {
		b.WriteString("  " + e + "\n")
	}
	return model.Intent{
		Kind:    model.IntentReportedErrors,
		Subject: fmt.Sprintf("%s Errors", prefix),
		Body:    b.String(),
	}
}

func lockedIntent(prefix string) model.Intent {
	s := fmt.Sprintf("%s Locked - Not Staking", prefix)
	return model.Intent{Kind: model.IntentLocked, Subject: s, Body: s}
}

func stakingDisabledIntent(prefix string) model.Intent {
	return model.Intent{
		Kind:    model.IntentStakingDisabled,
		Subject: fmt.Sprintf("%s staking disabled", prefix),
		Body:    fmt.Sprintf("%s staking disabled.", prefix),
	}
}

func notStakingIntent(prefix string) model.Intent {
	s := fmt.Sprintf("%s Not Yet Staking", prefix)
	return model.Intent{Kind: model.IntentNotStaking, Subject: s, Body: s}
}

func temperatureIntent(prefix string, current, threshold float64) model.Intent {
	return model.Intent{
		Kind:    model.IntentTemperature,
		Subject: fmt.Sprintf("%s Temperature Warning", prefix),
		Body:    fmt.Sprintf("%s Temperature Warning! %.1fC above %.1fC", prefix, current, threshold),
	}
}

func initializedIntent(prefix string, s *model.WalletSnapshot) model.Intent {
	return model.Intent{
		Kind:    model.IntentInitialized,
		Subject: fmt.Sprintf("%s Monitor initialized", prefix),
		Body:    fmt.Sprintf("%s Monitor initialized. Balance: %s Stake: %s", prefix, whole(s.Balance), whole(s.Stake)),
	}
}

func stakeEarnedIntent(s *model.WalletSnapshot) model.Intent {
	return model.Intent{
		Kind:    model.IntentStakeEarned,
		Subject: "Stake earned!",
		Body:    fmt.Sprintf("Stake earned! Balance: %s Stake: %s", whole(s.Balance), whole(s.Stake)),
	}
}

func updateIntent(s *model.WalletSnapshot) model.Intent {
	return model.Intent{
		Kind:    model.IntentUpdate,
		Subject: "Update",
		Body:    fmt.Sprintf("Balance: %s Stake: %s", whole(s.Balance), whole(s.Stake)),
	}
}

func dailySummaryIntent(s *model.WalletSnapshot) model.Intent {
	body := fmt.Sprintf("Balance: %s Stake: %s\nProfit since start: %s",
		whole(s.Balance), whole(s.Stake), s.Profit().StringFixed(2))
	if s.LastWinTime != nil {
		body += fmt.Sprintf("\nLast stake won: %s", s.LastWinTime.Format("2006-01-02 15:04 MST"))
	}
	return model.Intent{
		Kind:    model.IntentDailySummary,
		Subject: fmt.Sprintf("%s Daily Update: %s", s.ObservationDate, whole(s.TotalBalance)),
		Body:    body,
	}
}

// PersistFailureIntent reports that the state file could not be read or
// written. It is not a domain decision; the cycle runner emits it after the fact.
func PersistFailureIntent(prefix string, err error) model.Intent {
	prefix = prefixOr(prefix)
	return model.Intent{
		Kind:    model.IntentPersistFailure,
		Subject: fmt.Sprintf("%s Monitor state error", prefix),
		Body:    fmt.Sprintf("Wallet state could not be read or saved. The next run may compare against stale data.\n\n%v", err),
	}
}
