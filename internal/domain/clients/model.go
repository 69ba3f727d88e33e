package clients

import "time"

type Status string

const (
	StatusActive   Status = "activo"
	StatusInactive Status = "inactivo"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// Client es el propietario de los ejemplares.
// SpecimenCount es un contador derivado: SIEMPRE igual al número de
// ejemplares cuyo OwnerID apunta a este cliente. Solo lo mutan las
// escrituras transaccionales de specimens; nunca un caller directo.
type Client struct {
	ID       string
	Name     string
	Document string
	Email    string
	Phone    string

	SpecimenCount int
	Status        Status

	CreatedAt time.Time
	UpdatedAt time.Time
}
