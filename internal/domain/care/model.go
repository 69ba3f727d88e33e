package care

import "time"

// Kind clasifica el registro de cuidado. Los tres tipos comparten el
// mismo ciclo de vida y las mismas reglas de unicidad, así que viven
// en una sola entidad en vez de tres tablas casi idénticas.
type Kind string

const (
	KindMedicine    Kind = "medicamento"
	KindVaccination Kind = "vacuna"
	KindFeeding     Kind = "alimentacion"
)

func (k Kind) Valid() bool {
	return k == KindMedicine || k == KindVaccination || k == KindFeeding
}

// Status es el estado de aplicación del cuidado.
type Status string

const (
	StatusScheduled    Status = "programado"
	StatusAdministered Status = "administrado"
	StatusCancelled    Status = "cancelado"
)

func (s Status) Valid() bool {
	return s == StatusScheduled || s == StatusAdministered || s == StatusCancelled
}

// Record es un cuidado aplicado o programado para un ejemplar. La terna
// (Kind, Name, SpecimenID) es única: el mismo medicamento no se registra
// dos veces para el mismo ejemplar.
type Record struct {
	ID          string
	SpecimenID  string
	Kind        Kind
	Name        string
	Dose        string
	Frequency   string
	Status      Status
	ScheduledAt time.Time
	AppliedAt   *time.Time
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
