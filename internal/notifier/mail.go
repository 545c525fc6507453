package notifier

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// MailNotifier pipes the body into a local mail command, by default
// `/usr/bin/mail -s <subject> <recipient>`.
type MailNotifier struct {
	Command   string
	Recipient string
}

func NewMailNotifier(command, recipient string) *MailNotifier {
	if command == "" {
		command = "/usr/bin/mail"
	}
	return &MailNotifier{Command: command, Recipient: recipient}
}

func (m *MailNotifier) Name() string { return "mail" }

func (m *MailNotifier) Deliver(ctx context.Context, subject, body string) error {
	cmd := exec.CommandContext(ctx, m.Command, "-s", subject, m.Recipient)
	cmd.Stdin = strings.NewReader(body + "\n")
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w: %s", m.Command, err, strings.TrimSpace(out.String()))
	}
	return nil
}
