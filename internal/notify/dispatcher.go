package notify

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/staffing-service/internal/mail"
)

// Dispatcher delivers notifications over a mail transport. Send never lets a
// transport fault escape its boundary: failures degrade to a false return
// plus a logged diagnostic, and the caller's transition has already
// committed by the time dispatch is attempted.
type Dispatcher struct {
	mailer mail.Mailer
	logger *zap.Logger
}

// NewDispatcher constructs the dispatcher.
func NewDispatcher(mailer mail.Mailer, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{mailer: mailer, logger: logger}
}

// Send delivers a single notification, reporting success. At-most-once: no
// retry, no dead-letter store.
func (d *Dispatcher) Send(ctx context.Context, msg Message) (ok bool) {
	id := uuid.NewString()
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("notification dispatch panicked",
				zap.String("notification_id", id),
				zap.String("kind", string(msg.Kind())),
				zap.Any("panic", r))
			ok = false
		}
	}()

	if d.mailer == nil {
		d.logger.Warn("no mail transport configured; dropping notification",
			zap.String("notification_id", id),
			zap.String("kind", string(msg.Kind())))
		return false
	}

	subject, body := msg.Render()
	if err := d.mailer.Send(ctx, msg.Recipient(), subject, body); err != nil {
		d.logger.Warn("notification delivery failed",
			zap.String("notification_id", id),
			zap.String("kind", string(msg.Kind())),
			zap.String("recipient", msg.Recipient()),
			zap.Error(err))
		return false
	}

	d.logger.Info("notification sent",
		zap.String("notification_id", id),
		zap.String("kind", string(msg.Kind())),
		zap.String("recipient", msg.Recipient()))
	return true
}
