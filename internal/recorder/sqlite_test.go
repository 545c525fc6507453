package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteRecorder_RecordAndList(t *testing.T) {
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "db", "history.db"))
	require.NoError(t, err)
	defer r.Close()

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	temp := 81.2
	require.NoError(t, r.RecordCycle(&CycleRecord{
		RunID:     uuid.New(),
		StartedAt: base,
		Outcome:   "precondition_failed",
		Error:     "QTUM Locked - Not Staking",
		Intents:   []IntentRecord{{Kind: "locked", Subject: "QTUM Locked - Not Staking", Delivered: true}},
	}))
	second := uuid.New()
	require.NoError(t, r.RecordCycle(&CycleRecord{
		RunID:       second,
		StartedAt:   base.Add(time.Hour),
		Duration:    1500 * time.Millisecond,
		Outcome:     "ok",
		Balance:     decimal.RequireFromString("100.5"),
		Stake:       decimal.NewFromInt(6),
		Total:       decimal.RequireFromString("106.5"),
		Temperature: &temp,
		StakeEarned: true,
		Intents: []IntentRecord{
			{Kind: "temperature", Subject: "QTUM Temperature Warning", Delivered: false, Error: "timeout"},
			{Kind: "stake_earned", Subject: "Stake earned!", Delivered: true},
		},
	}))

	got, err := r.RecentCycles(10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, second.String(), got[0].RunID)
	assert.Equal(t, "ok", got[0].Outcome)
	assert.True(t, got[0].StakeEarned)
	assert.Equal(t, 2, got[0].Intents)
	assert.Equal(t, "106.5", got[0].Total.String())
	assert.True(t, got[0].StartedAt.Equal(base.Add(time.Hour)))

	assert.Equal(t, "precondition_failed", got[1].Outcome)
	assert.Equal(t, 1, got[1].Intents)

	got, err = r.RecentCycles(1)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSQLiteRecorder_DuplicateRunID(t *testing.T) {
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer r.Close()

	rec := &CycleRecord{RunID: uuid.New(), StartedAt: time.Now(), Outcome: "ok"}
	require.NoError(t, r.RecordCycle(rec))
	assert.Error(t, r.RecordCycle(rec))
}

func TestNoopRecorder(t *testing.T) {
	n := NewNoopRecorder()
	assert.NoError(t, n.RecordCycle(&CycleRecord{}))
	got, err := n.RecentCycles(5)
	assert.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, n.Close())
}
