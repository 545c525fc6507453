package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"StakeSentinel/internal/model"
)

// Options are the notification toggles of a cycle. The zero value sends
// nothing beyond stake-earned intents and compares dates in UTC.
type Options struct {
	NotifyOnEveryUpdate bool
	SendDailyUpdate     bool
	Location            *time.Location
	Prefix              string
}

// Decision is the outcome of comparing a fresh reading against the stored one.
type Decision struct {
	Intents     []model.Intent
	Next        *model.WalletSnapshot
	Bootstrap   bool
	StakeEarned bool
}

// ObservationDate returns the calendar date of now in loc (UTC when nil).
func ObservationDate(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return now.In(loc).Format(model.DateLayout)
}

// Decide compares the current balance and stake against prev and returns the
// intents to deliver, in order, together with the snapshot to persist.
// A nil prev is the first run: the reading becomes the baseline and only an
// "initialized" intent is produced.
func Decide(prev *model.WalletSnapshot, balance, stake decimal.Decimal, now time.Time, opts Options) *Decision {
	prefix := prefixOr(opts.Prefix)
	next := &model.WalletSnapshot{
		Balance:         balance,
		Stake:           stake,
		ObservationDate: ObservationDate(now, opts.Location),
	}
	next.TotalBalance = next.Total()

	if prev == nil {
		next.InitialBalance = balance
		return &Decision{
			Intents:   []model.Intent{initializedIntent(prefix, next)},
			Next:      next,
			Bootstrap: true,
		}
	}

	d := &Decision{Next: next}
	next.InitialBalance = prev.InitialBalance
	if prev.LastWinTime != nil {
		t := *prev.LastWinTime
		next.LastWinTime = &t
	}

	if stake.GreaterThan(prev.Stake) {
		won := now
		next.LastWinTime = &won
		d.StakeEarned = true
		d.Intents = append(d.Intents, stakeEarnedIntent(next))
	}
	if opts.NotifyOnEveryUpdate {
		d.Intents = append(d.Intents, updateIntent(next))
	}
	if opts.SendDailyUpdate && next.ObservationDate != prev.ObservationDate {
		d.Intents = append(d.Intents, dailySummaryIntent(next))
	}
	return d
}
