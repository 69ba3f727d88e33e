package lognotifier

import (
	"context"

	"pet-boarding-backend/internal/platform/logger"
	"pet-boarding-backend/internal/ports/notify"
)

// Notifier escribe las notificaciones al log. Es el default para
// desarrollo y tests; en producción se cambia por el adaptador webhook.
type Notifier struct {
	log logger.Logger
}

func New(log logger.Logger) *Notifier {
	return &Notifier{log: log}
}

func (n *Notifier) Send(ctx context.Context, msg notify.Notification) error {
	n.log.Info("notificación saliente", map[string]any{
		"kind":      msg.Kind,
		"recipient": msg.Recipient,
		"subject":   msg.Subject,
	})
	return nil
}
