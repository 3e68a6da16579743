package mail

import (
	"context"

	"go.uber.org/zap"
)

// Mailer is the outbound email transport consumed by the notification
// dispatcher. Implementations map their own timeouts and transport faults to
// a returned error.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogMailer writes emails to the log instead of sending them. Used in
// development and when no SES region is configured.
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer constructs the log-only transport.
func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(_ context.Context, to, subject, body string) error {
	m.logger.Info("email (log transport)",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body))
	return nil
}
