package catalog

import "time"

type Status string

const (
	StatusActive   Status = "activo"
	StatusInactive Status = "inactivo"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// Service es un servicio facturable del catálogo (guardería, adiestramiento,
// atención veterinaria). Los contratos lo referencian vía many-to-many.
type Service struct {
	ID          string
	Name        string
	Description string
	Price       float64
	ImageURL    string
	Status      Status

	CreatedAt time.Time
	UpdatedAt time.Time
}
