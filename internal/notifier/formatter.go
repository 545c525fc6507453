package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"StakeSentinel/internal/model"
)

// FormatTelegram renders a subject/body pair as Telegram HTML.
func FormatTelegram(subject, body string) string {
	subject = html.EscapeString(subject)
	body = html.EscapeString(strings.TrimSpace(body))
	if body == "" || body == subject {
		return "<b>" + subject + "</b>"
	}
	return fmt.Sprintf("<b>%s</b>\n\n%s", subject, body)
}

// FormatStatus renders the stored snapshot for the status command.
func FormatStatus(snap *model.WalletSnapshot, loc *time.Location) string {
	if snap == nil {
		return "No wallet state recorded yet."
	}
	if loc == nil {
		loc = time.UTC
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Date: %s\n", snap.ObservationDate))
	b.WriteString(fmt.Sprintf("Balance: %s\n", snap.Balance.StringFixed(8)))
	b.WriteString(fmt.Sprintf("Stake: %s\n", snap.Stake.StringFixed(8)))
	b.WriteString(fmt.Sprintf("Total: %s\n", snap.TotalBalance.StringFixed(8)))
	b.WriteString(fmt.Sprintf("Initial balance: %s\n", snap.InitialBalance.StringFixed(8)))
	b.WriteString(fmt.Sprintf("Profit: %s\n", snap.Profit().StringFixed(8)))
	if snap.LastWinTime != nil {
		b.WriteString(fmt.Sprintf("Last stake won: %s\n", snap.LastWinTime.In(loc).Format("2006-01-02 15:04 MST")))
	} else {
		b.WriteString("Last stake won: never\n")
	}
	return b.String()
}
