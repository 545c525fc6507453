package model

// IntentKind identifies why a notification was decided.
type IntentKind string

const (
	IntentQueryError      IntentKind = "query_error"
	IntentNoFunds         IntentKind = "no_funds"
	IntentReportedErrors  IntentKind = "reported_errors"
	IntentLocked          IntentKind = "locked"
	IntentStakingDisabled IntentKind = "staking_disabled"
	IntentNotStaking      IntentKind = "not_staking"
	IntentTemperature     IntentKind = "temperature"
	IntentInitialized     IntentKind = "initialized"
	IntentStakeEarned     IntentKind = "stake_earned"
	IntentUpdate          IntentKind = "update"
	IntentDailySummary    IntentKind = "daily_summary"
	IntentPersistFailure  IntentKind = "persist_failure"
)

// Intent is a decided but not yet delivered notification.
type Intent struct {
	Kind    IntentKind
	Subject string
	Body    string
}
