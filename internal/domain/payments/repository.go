package payments

import "context"

// Repository persiste pagos. La unicidad de (contract_id, payment_month)
// la garantiza el almacén con una restricción única, no un find-then-insert
// del servicio: dos cajeros registrando el mismo mes en paralelo producen
// exactamente un pago y un Conflict.
type Repository interface {
	Create(ctx context.Context, p Payment) error
	GetByID(ctx context.Context, id string) (Payment, error)
	List(ctx context.Context) ([]Payment, error)
	ListByContract(ctx context.Context, contractID string) ([]Payment, error)
	Update(ctx context.Context, p Payment) error
	Delete(ctx context.Context, id string) error
}
