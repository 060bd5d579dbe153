package service

import (
	"context"

	"github.com/rs/zerolog"
)

// Notifier delivers a message to a submitter. Callers treat delivery as best effort.
type Notifier interface {
	Notify(ctx context.Context, recipient, subject, body string) error
}

// LogNotifier records notifications as structured log lines instead of sending mail.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(ctx context.Context, recipient, subject, body string) error {
	n.log.Info().
		Str("recipient", recipient).
		Str("subject", subject).
		Int("body_len", len(body)).
		Msg("notification")
	return nil
}
