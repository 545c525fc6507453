package notifier

import (
	"context"
	"errors"
	"fmt"
	"log"
)

// Notifier delivers one subject/body pair to the operator. Delivery is best
// effort; callers log the error and move on.
type Notifier interface {
	Deliver(ctx context.Context, subject, body string) error
	Name() string
}

// Multi fans a message out to every configured notifier.
type Multi []Notifier

func (m Multi) Name() string { return "multi" }

// Deliver tries every notifier and joins their errors.
func (m Multi) Deliver(ctx context.Context, subject, body string) error {
	var errs []error
	for _, n := range m {
		if err := n.Deliver(ctx, subject, body); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", n.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// LogNotifier writes messages to the process log. Used when no channel is
// configured so decisions stay visible.
type LogNotifier struct{}

func (LogNotifier) Name() string { return "log" }

func (LogNotifier) Deliver(_ context.Context, subject, body string) error {
	log.Printf("[INFO] notify: %s | %s", subject, body)
	return nil
}
