package recorder

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CycleRecord holds everything observed and decided in one monitoring cycle.
type CycleRecord struct {
	RunID       uuid.UUID
	StartedAt   time.Time
	Duration    time.Duration
	Outcome     string // see monitor.Outcome*
	Balance     decimal.Decimal
	Stake       decimal.Decimal
	Total       decimal.Decimal
	Temperature *float64
	StakeEarned bool
	Error       string
	Intents     []IntentRecord
}

// IntentRecord is one notification decided in a cycle and its delivery result.
type IntentRecord struct {
	Kind      string
	Subject   string
	Delivered bool
	Error     string
}

// CycleSummary is a row of the cycle history.
type CycleSummary struct {
	RunID       string
	StartedAt   time.Time
	Outcome     string
	Total       decimal.Decimal
	StakeEarned bool
	Intents     int
}

// Recorder persists cycle history for later analysis. It is separate from
// the single-record state file and never consulted for decisions.
type Recorder interface {
	RecordCycle(rec *CycleRecord) error
	RecentCycles(limit int) ([]CycleSummary, error)
	Close() error
}
