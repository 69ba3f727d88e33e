package auth

import "context"

// Verifier verifica un token y devuelve claims o error.
// El núcleo transaccional asume que este chequeo ya corrió;
// los servicios de dominio no reciben principal.
type Verifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
