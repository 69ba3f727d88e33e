package specimens

import "context"

type ListFilter struct {
	OwnerID    string
	CategoryID string
	SedeID     string
}

// Repository persiste ejemplares. Las operaciones que tocan la propiedad
// son el "mantenedor de contador derivado": cada implementación DEBE
// ajustar Client.SpecimenCount dentro de la MISMA transacción que la
// escritura del ejemplar. Si el ajuste falla, la escritura completa se
// revierte; no existe el modo "loguear y seguir".
type Repository interface {
	// Create inserta el ejemplar e incrementa en 1 el contador del dueño.
	Create(ctx context.Context, sp Specimen) error

	GetByID(ctx context.Context, id string) (Specimen, error)
	List(ctx context.Context, f ListFilter) ([]Specimen, error)

	// Update persiste nombre/raza/color/nacimiento y el dueño. Si OwnerID
	// difiere del almacenado, decrementa el contador del dueño anterior e
	// incrementa el del nuevo, todo en la transacción del update.
	// ContractID, CategoryID y SedeID no se tocan por esta vía.
	Update(ctx context.Context, sp Specimen) error

	// Relocate cambia categoría y/o sede en una transacción de una sola
	// fila. nil = no tocar. Sin efectos sobre contadores ni contrato.
	Relocate(ctx context.Context, id string, categoryID *string, sedeID *string) error

	// Delete borra el ejemplar y decrementa el contador del dueño que
	// tenía la fila antes del borrado (snapshot pre-delete).
	Delete(ctx context.Context, id string) error
}
