package categories

import "context"

type ListFilter struct {
	// Vacío => todas. "activo"/"inactivo" => filtrar por estado.
	Status Status
}

type Repository interface {
	Create(ctx context.Context, c Category) error
	GetByID(ctx context.Context, id string) (Category, error)
	GetByName(ctx context.Context, name string) (Category, error)
	List(ctx context.Context, f ListFilter) ([]Category, error)
	Update(ctx context.Context, c Category) error
	Delete(ctx context.Context, id string) error
}
