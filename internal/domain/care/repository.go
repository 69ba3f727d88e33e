package care

import (
	"context"
	"time"
)

// Repository persiste registros de cuidado. La unicidad de
// (kind, name, specimen_id) la aplica el almacén: una violación se
// traduce a Conflict.
type Repository interface {
	Create(ctx context.Context, rec Record) error
	GetByID(ctx context.Context, id string) (Record, error)
	ListBySpecimen(ctx context.Context, specimenID string, kind Kind) ([]Record, error)
	Update(ctx context.Context, rec Record) error

	// UpdateStatus cambia el estado solo si el actual coincide con from.
	// Devuelve Conflict cuando otra petición ganó la transición.
	UpdateStatus(ctx context.Context, id string, from, to Status, appliedAt *time.Time) error

	Delete(ctx context.Context, id string) error
}
