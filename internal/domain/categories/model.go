package categories

import "time"

// Status de una categoría. Solo las categorías activas
// pueden asignarse a ejemplares.
type Status string

const (
	StatusActive   Status = "activo"
	StatusInactive Status = "inactivo"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// Category agrupa ejemplares por tipo (raza, especie, programa de cría).
type Category struct {
	ID     string
	Name   string
	Status Status

	CreatedAt time.Time
	UpdatedAt time.Time
}
