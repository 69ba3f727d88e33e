package contracts

import "context"

type ListFilter struct {
	ClientID string
	Status   Status
}

// Repository persiste contratos. Las operaciones de escritura son
// unidades atómicas: fila del contrato + asociaciones de servicios +
// binding del ejemplar comparten una única transacción, y cualquier
// fallo intermedio revierte todo. Ningún caller puede observar un
// estado parcialmente asociado.
type Repository interface {
	// Create inserta el contrato, asocia serviceIDs y, si specimenID no es
	// nil, toma el ejemplar con una escritura condicional
	// (solo si su ContractID es nil). Si el ejemplar ya fue tomado por una
	// transacción concurrente devuelve Conflict; la transacción completa
	// se revierte.
	Create(ctx context.Context, c Contract, serviceIDs []string, specimenID *string) error

	GetByID(ctx context.Context, id string) (Contract, error)

	// GetDetail arma el grafo completo (cliente, ejemplares, servicios,
	// pagos recientes). Es una lectura fuera de la transacción de
	// escritura; su fallo nunca implica que la escritura falló.
	GetDetail(ctx context.Context, id string) (Detail, error)

	List(ctx context.Context, f ListFilter) ([]Contract, error)

	// Update persiste los campos del contrato y, si replaceServices es
	// true, reemplaza el set completo de asociaciones por serviceIDs
	// (lista vacía = quitar todos). false = no tocar asociaciones.
	Update(ctx context.Context, c Contract, serviceIDs []string, replaceServices bool) error

	// UpdateStatus aplica la transición from→to de forma condicional
	// (solo si el estado almacenado sigue siendo from). Si la fila ya no
	// está en from devuelve Conflict.
	UpdateStatus(ctx context.Context, id string, from, to Status) error

	// Delete limpia asociaciones de servicios, libera los ejemplares
	// asociados (ContractID→nil) y borra la fila, en ese orden y en una
	// sola transacción. Una violación de FK residual se traduce a Conflict.
	Delete(ctx context.Context, id string) error

	// ServiceIDs devuelve los IDs de servicios asociados (para tests y
	// para la vista de edición).
	ServiceIDs(ctx context.Context, contractID string) ([]string, error)
}
