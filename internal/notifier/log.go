package notifier

import (
	"context"
	"log/slog"
)

// Log writes alerts to the log instead of an external channel.
type Log struct{}

// NewLog creates a log-only notifier.
func NewLog() *Log {
	return &Log{}
}

// Name returns "log".
func (l *Log) Name() string { return "log" }

// Send logs body.
func (l *Log) Send(ctx context.Context, body string) error {
	slog.InfoContext(ctx, "notifier: alert", "message", body)
	return nil
}
