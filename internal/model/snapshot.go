package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the on-disk format of an observation date.
const DateLayout = "2006-01-02"

// WalletSnapshot is the persisted wallet state carried from one cycle to the next.
type WalletSnapshot struct {
	Balance         decimal.Decimal
	Stake           decimal.Decimal
	InitialBalance  decimal.Decimal
	TotalBalance    decimal.Decimal
	LastWinTime     *time.Time
	ObservationDate string // YYYY-MM-DD in the configured reference timezone
}

// Total returns balance + stake.
func (s *WalletSnapshot) Total() decimal.Decimal {
	return s.Balance.Add(s.Stake)
}

// Profit returns the growth of the total balance since the first recorded balance.
func (s *WalletSnapshot) Profit() decimal.Decimal {
	return s.TotalBalance.Sub(s.InitialBalance)
}

// Clone returns a deep copy, including the win timestamp.
func (s *WalletSnapshot) Clone() *WalletSnapshot {
	c := *s
	if s.LastWinTime != nil {
		t := *s.LastWinTime
		c.LastWinTime = &t
	}
	return &c
}
