package catalog

import "context"

type ListFilter struct {
	Status Status
}

type Repository interface {
	Create(ctx context.Context, s Service) error
	GetByID(ctx context.Context, id string) (Service, error)
	List(ctx context.Context, f ListFilter) ([]Service, error)
	Update(ctx context.Context, s Service) error
	Delete(ctx context.Context, id string) error

	// Missing devuelve los IDs que NO existen en el catálogo,
	// en el orden en que fueron pedidos. Lo usan contracts y este módulo.
	Missing(ctx context.Context, ids []string) ([]string, error)
}
