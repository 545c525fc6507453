package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StakeSentinel/internal/model"
)

var defaults = Options{SendDailyUpdate: true}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func at(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func kinds(intents []model.Intent) []model.IntentKind {
	out := make([]model.IntentKind, 0, len(intents))
	for _, in := range intents {
		out = append(out, in.Kind)
	}
	return out
}

func baseline() *model.WalletSnapshot {
	return &model.WalletSnapshot{
		Balance:         dec(100),
		Stake:           dec(5),
		InitialBalance:  dec(100),
		TotalBalance:    dec(105),
		ObservationDate: "2024-01-01",
	}
}

func TestDecide_Bootstrap(t *testing.T) {
	d := Decide(nil, dec(50), dec(0), at(2024, 1, 1, 9), defaults)

	require.True(t, d.Bootstrap)
	assert.Equal(t, []model.IntentKind{model.IntentInitialized}, kinds(d.Intents))
	assert.True(t, d.Next.InitialBalance.Equal(dec(50)))
	assert.True(t, d.Next.TotalBalance.Equal(dec(50)))
	assert.Nil(t, d.Next.LastWinTime)
	assert.Equal(t, "2024-01-01", d.Next.ObservationDate)
}

func TestDecide_BootstrapSuppressesComparisons(t *testing.T) {
	opts := Options{NotifyOnEveryUpdate: true, SendDailyUpdate: true}
	d := Decide(nil, dec(50), dec(10), at(2024, 1, 1, 9), opts)

	assert.Len(t, d.Intents, 1)
	assert.False(t, d.StakeEarned)
}

func TestDecide_BootstrapNotRepeated(t *testing.T) {
	now := at(2024, 1, 1, 9)
	first := Decide(nil, dec(50), dec(0), now, defaults)
	second := Decide(first.Next, dec(50), dec(0), now.Add(time.Hour), defaults)

	assert.False(t, second.Bootstrap)
	assert.Empty(t, second.Intents)
	assert.True(t, second.Next.InitialBalance.Equal(dec(50)))
}

func TestDecide_StakeEarnedSameDay(t *testing.T) {
	now := at(2024, 1, 1, 15)
	d := Decide(baseline(), dec(100), dec(6), now, defaults)

	require.Equal(t, []model.IntentKind{model.IntentStakeEarned}, kinds(d.Intents))
	assert.Equal(t, "Stake earned! Balance: 100 Stake: 6", d.Intents[0].Body)
	assert.True(t, d.Next.Stake.Equal(dec(6)))
	assert.True(t, d.Next.TotalBalance.Equal(dec(106)))
	require.NotNil(t, d.Next.LastWinTime)
	assert.True(t, d.Next.LastWinTime.Equal(now))
}

func TestDecide_StakeEarnedNextDay(t *testing.T) {
	d := Decide(baseline(), dec(100), dec(6), at(2024, 1, 2, 0), defaults)

	assert.Equal(t, []model.IntentKind{model.IntentStakeEarned, model.IntentDailySummary}, kinds(d.Intents))
	assert.Equal(t, "2024-01-02 Daily Update: 106", d.Intents[1].Subject)
}

func TestDecide_StakeTrigger(t *testing.T) {
	won := at(2023, 12, 30, 4)
	tests := []struct {
		name    string
		stake   decimal.Decimal
		trigger bool
	}{
		{"increase", dec(7), true},
		{"fractional increase", decimal.RequireFromString("5.00000001"), true},
		{"unchanged", dec(5), false},
		{"decrease", dec(2), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := baseline()
			prev.LastWinTime = &won
			now := at(2024, 1, 1, 10)

			d := Decide(prev, dec(100), tt.stake, now, defaults)

			assert.Equal(t, tt.trigger, d.StakeEarned)
			require.NotNil(t, d.Next.LastWinTime)
			if tt.trigger {
				assert.True(t, d.Next.LastWinTime.Equal(now))
				assert.Contains(t, kinds(d.Intents), model.IntentStakeEarned)
			} else {
				assert.True(t, d.Next.LastWinTime.Equal(won))
				assert.NotContains(t, kinds(d.Intents), model.IntentStakeEarned)
			}
		})
	}
}

func TestDecide_CarriedWinTimeIsCopied(t *testing.T) {
	won := at(2023, 12, 30, 4)
	prev := baseline()
	prev.LastWinTime = &won

	d := Decide(prev, dec(100), dec(5), at(2024, 1, 1, 10), defaults)
	*d.Next.LastWinTime = d.Next.LastWinTime.Add(time.Hour)

	assert.True(t, prev.LastWinTime.Equal(won))
}

func TestDecide_InitialBalancePropagates(t *testing.T) {
	prev := baseline()
	for i, bal := range []int64{0, 37, 100, 250000} {
		d := Decide(prev, dec(bal), dec(int64(i)), at(2024, 1, 1+i, 1), defaults)
		assert.True(t, d.Next.InitialBalance.Equal(dec(100)), "cycle %d", i)
		prev = d.Next
	}
}

func TestDecide_TotalBalanceInvariant(t *testing.T) {
	cases := [][2]string{
		{"0", "0"},
		{"100", "5"},
		{"1234.56789012", "0.00000001"},
		{"0.1", "0.2"},
	}
	for _, c := range cases {
		bal := decimal.RequireFromString(c[0])
		stake := decimal.RequireFromString(c[1])
		for _, prev := range []*model.WalletSnapshot{nil, baseline()} {
			d := Decide(prev, bal, stake, at(2024, 1, 1, 1), defaults)
			assert.True(t, d.Next.TotalBalance.Equal(bal.Add(stake)), "%s + %s", c[0], c[1])
		}
	}
}

func TestDecide_DailySummaryExactlyOnce(t *testing.T) {
	prev := baseline()

	d := Decide(prev, dec(100), dec(5), at(2024, 1, 1, 12), defaults)
	assert.NotContains(t, kinds(d.Intents), model.IntentDailySummary)

	d = Decide(d.Next, dec(100), dec(5), at(2024, 1, 1, 18), defaults)
	assert.NotContains(t, kinds(d.Intents), model.IntentDailySummary)

	d = Decide(d.Next, dec(100), dec(5), at(2024, 1, 2, 0), defaults)
	assert.Equal(t, []model.IntentKind{model.IntentDailySummary}, kinds(d.Intents))

	d = Decide(d.Next, dec(100), dec(5), at(2024, 1, 2, 1), defaults)
	assert.Empty(t, d.Intents)
}

func TestDecide_DailySummaryDisabled(t *testing.T) {
	d := Decide(baseline(), dec(100), dec(5), at(2024, 1, 5, 1), Options{})
	assert.Empty(t, d.Intents)
}

func TestDecide_UpdateOrdering(t *testing.T) {
	opts := Options{NotifyOnEveryUpdate: true, SendDailyUpdate: true}
	d := Decide(baseline(), dec(100), dec(9), at(2024, 1, 3, 1), opts)

	assert.Equal(t, []model.IntentKind{
		model.IntentStakeEarned,
		model.IntentUpdate,
		model.IntentDailySummary,
	}, kinds(d.Intents))
}

func TestDecide_UpdateWithoutWin(t *testing.T) {
	opts := Options{NotifyOnEveryUpdate: true}
	d := Decide(baseline(), dec(99), dec(5), at(2024, 1, 1, 1), opts)

	require.Equal(t, []model.IntentKind{model.IntentUpdate}, kinds(d.Intents))
	assert.Equal(t, "Balance: 99 Stake: 5", d.Intents[0].Body)
}

func TestDecide_ExactAmountsStored(t *testing.T) {
	d := Decide(baseline(), decimal.RequireFromString("100.987"), decimal.RequireFromString("6.5"), at(2024, 1, 1, 1), defaults)

	assert.Equal(t, "Stake earned! Balance: 100 Stake: 6", d.Intents[0].Body)
	assert.Equal(t, "100.987", d.Next.Balance.String())
	assert.Equal(t, "107.487", d.Next.TotalBalance.String())
}

func TestObservationDate_Timezone(t *testing.T) {
	now := time.Date(2024, 1, 1, 23, 30, 0, 0, time.UTC)
	tokyo := time.FixedZone("JST", 9*3600)

	assert.Equal(t, "2024-01-01", ObservationDate(now, nil))
	assert.Equal(t, "2024-01-02", ObservationDate(now, tokyo))
}
