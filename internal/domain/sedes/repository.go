package sedes

import "context"

type Repository interface {
	Create(ctx context.Context, s Sede) error
	GetByID(ctx context.Context, id string) (Sede, error)
	List(ctx context.Context) ([]Sede, error)
	Update(ctx context.Context, s Sede) error
	Delete(ctx context.Context, id string) error
}
