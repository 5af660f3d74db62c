package mail

import (
	"context"
	"log/slog"
)

// Message is a plain-text outbound email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers transactional mail (currently only password resets).
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender writes outbound mail to the application log instead of
// delivering it. Used in development and in tests.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a LogSender.
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send logs the message and reports success.
func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("outbound mail (log sender)", "to", msg.To, "subject", msg.Subject, "body", msg.Body)
	return nil
}
