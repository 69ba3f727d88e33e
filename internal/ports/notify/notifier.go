package notify

import "context"

// Notification es un aviso saliente (p.ej. reseteo de contraseña).
type Notification struct {
	Kind      string
	Recipient string
	Subject   string
	Body      string
	Metadata  map[string]string
}

// Notifier despacha notificaciones DESPUÉS del commit de la transacción
// que las origina. Un fallo acá nunca revierte el estado ya confirmado.
type Notifier interface {
	Send(ctx context.Context, n Notification) error
}
