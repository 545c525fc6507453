package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StakeSentinel/internal/model"
)

func staking() *model.WalletStatus {
	until := int64(1893456000)
	return &model.WalletStatus{
		Balance:        dec(100),
		Stake:          dec(5),
		UnlockedUntil:  &until,
		StakingEnabled: true,
		Staking:        true,
	}
}

func TestCheckPreconditions_Order(t *testing.T) {
	locked := int64(0)
	tests := []struct {
		name   string
		mutate func(*model.WalletStatus)
		err    error
		want   model.IntentKind
	}{
		{"query error beats everything", func(s *model.WalletStatus) { s.Balance, s.Stake = dec(0), dec(0) }, errors.New("exit status 1"), model.IntentQueryError},
		{"no funds", func(s *model.WalletStatus) { s.Balance, s.Stake = dec(0), dec(0); s.Errors = []string{"x"} }, nil, model.IntentNoFunds},
		{"reported errors before locked", func(s *model.WalletStatus) { s.Errors = []string{"sync issue"}; s.UnlockedUntil = &locked }, nil, model.IntentReportedErrors},
		{"locked before disabled", func(s *model.WalletStatus) { s.UnlockedUntil = &locked; s.StakingEnabled = false }, nil, model.IntentLocked},
		{"disabled before inactive", func(s *model.WalletStatus) { s.StakingEnabled = false; s.Staking = false }, nil, model.IntentStakingDisabled},
		{"not yet staking", func(s *model.WalletStatus) { s.Staking = false }, nil, model.IntentNotStaking},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := staking()
			tt.mutate(s)
			in := CheckPreconditions(s, tt.err, "")
			require.NotNil(t, in)
			assert.Equal(t, tt.want, in.Kind)
		})
	}
}

func TestCheckPreconditions_Pass(t *testing.T) {
	assert.Nil(t, CheckPreconditions(staking(), nil, ""))
}

func TestCheckPreconditions_StakeOnlyHasFunds(t *testing.T) {
	s := staking()
	s.Balance = dec(0)
	assert.Nil(t, CheckPreconditions(s, nil, ""))
}

func TestCheckPreconditions_UnencryptedWalletIsUnlocked(t *testing.T) {
	s := staking()
	s.UnlockedUntil = nil
	assert.Nil(t, CheckPreconditions(s, nil, ""))
}

func TestCheckPreconditions_ReportedErrorsVerbatim(t *testing.T) {
	s := staking()
	s.Errors = []string{"sync issue", "Warning: unknown new rules activated"}

	in := CheckPreconditions(s, nil, "")
	require.NotNil(t, in)
	assert.Equal(t, "QTUM Errors", in.Subject)
	assert.Contains(t, in.Body, "sync issue")
	assert.Contains(t, in.Body, "Warning: unknown new rules activated")
}

func TestCheckPreconditions_QueryErrorDetail(t *testing.T) {
	in := CheckPreconditions(nil, errors.New("connection refused"), "")
	require.NotNil(t, in)
	assert.Contains(t, in.Body, "connection refused")

	in = CheckPreconditions(nil, nil, "")
	require.NotNil(t, in)
	assert.Equal(t, model.IntentQueryError, in.Kind)
}

func TestCheckPreconditions_Prefix(t *testing.T) {
	s := staking()
	s.Staking = false
	in := CheckPreconditions(s, nil, "tQTUM")
	require.NotNil(t, in)
	assert.Equal(t, "tQTUM Not Yet Staking", in.Subject)
}

func TestCheckTemperature(t *testing.T) {
	assert.Nil(t, CheckTemperature(79.9, 80, ""))
	assert.Nil(t, CheckTemperature(80, 80, ""))

	in := CheckTemperature(81.5, 80, "")
	require.NotNil(t, in)
	assert.Equal(t, model.IntentTemperature, in.Kind)
	assert.Equal(t, "QTUM Temperature Warning! 81.5C above 80.0C", in.Body)
}
