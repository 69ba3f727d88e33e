package webhook

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-boarding-backend/internal/platform/httpclient"
	"pet-boarding-backend/internal/ports/notify"
)

var ErrNotConfigured = errors.New("webhook notifier not configured")

// Notifier despacha notificaciones a un webhook HTTP (p.ej. el servicio
// de correo del negocio). El envío ocurre después del commit que originó
// el aviso; un fallo acá nunca revierte nada.
type Notifier struct {
	client *httpclient.Client
	url    string
}

func New(url string, timeout time.Duration) (*Notifier, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, ErrNotConfigured
	}
	return &Notifier{
		client: httpclient.New(timeout),
		url:    url,
	}, nil
}

func (n *Notifier) Send(ctx context.Context, msg notify.Notification) error {
	if n == nil || n.client == nil {
		return ErrNotConfigured
	}

	payload := map[string]any{
		"kind":      msg.Kind,
		"recipient": msg.Recipient,
		"subject":   msg.Subject,
		"body":      msg.Body,
		"metadata":  msg.Metadata,
	}
	return n.client.DoJSON(ctx, http.MethodPost, n.url, nil, payload, nil)
}
