package users

import "context"

// Repository persiste usuarios y tokens de recuperación. Username y
// email son únicos en el almacén; la violación se traduce a Conflict.
type Repository interface {
	Create(ctx context.Context, u User) error
	GetByID(ctx context.Context, id string) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, u User) error
	Delete(ctx context.Context, id string) error

	CreateResetToken(ctx context.Context, t ResetToken) error
	GetResetToken(ctx context.Context, token string) (ResetToken, error)

	// ConsumeResetToken marca el token como usado y cambia el hash del
	// usuario en la misma transacción. Devuelve Conflict si el token ya
	// fue consumido por otra petición.
	ConsumeResetToken(ctx context.Context, token string, newHash string) error
}
