package clients

import "context"

type ListFilter struct {
	Status Status
}

type Repository interface {
	Create(ctx context.Context, c Client) error
	GetByID(ctx context.Context, id string) (Client, error)
	GetByDocument(ctx context.Context, document string) (Client, error)
	List(ctx context.Context, f ListFilter) ([]Client, error)

	// Update persiste datos de perfil. No toca SpecimenCount ni Status:
	// el contador lo mantienen las escrituras de specimens y el estado
	// se cambia por UpdateStatus.
	Update(ctx context.Context, c Client) error
	UpdateStatus(ctx context.Context, id string, status Status) error

	// Purge borra el registro definitivamente. Si el cliente todavía
	// posee ejemplares el repo devuelve Conflict (guard + FK).
	Purge(ctx context.Context, id string) error
}
