// Package mail defines the outbound email capability. Delivery is currently
// a stand-in that logs and reports success; a real provider integration must
// keep the same contract (recipient, subject, body, error on failure).
package mail

import (
	"context"
	"log/slog"
)

// Sender delivers a single email. A nil return means the message was
// accepted for delivery.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogSender logs the message instead of delivering it and always succeeds.
type LogSender struct{}

// NewLogSender returns a Sender that only logs.
func NewLogSender() *LogSender { return &LogSender{} }

// Send implements Sender.
func (*LogSender) Send(_ context.Context, to, subject, _ string) error {
	slog.Info("email sent", "to", to, "subject", subject)
	return nil
}
