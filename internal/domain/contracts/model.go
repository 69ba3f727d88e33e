package contracts

import "time"

// Status del contrato. active es el único estado desde el que se puede
// transicionar; finished y cancelled son terminales.
type Status string

const (
	StatusActive    Status = "activo"
	StatusFinished  Status = "finalizado"
	StatusCancelled Status = "cancelado"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusFinished || s == StatusCancelled
}

// Contract vincula un cliente con servicios facturables y, opcionalmente,
// con UN ejemplar (vía Specimen.ContractID). ClientID es inmutable después
// de la creación.
type Contract struct {
	ID           string
	ClientID     string
	StartDate    time.Time
	MonthlyPrice float64
	Status       Status
	Terms        string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// --- Vista enriquecida post-commit ---

type ClientSummary struct {
	ID       string
	Name     string
	Document string
	Email    string
}

type SpecimenSummary struct {
	ID         string
	Name       string
	Breed      string
	Identifier string
}

type ServiceSummary struct {
	ID    string
	Name  string
	Price float64
}

type PaymentSummary struct {
	ID           string
	Amount       float64
	Method       string
	PaymentMonth int
	PaymentDate  time.Time
}

// Detail es el grafo completo del contrato que se devuelve al caller
// después de una escritura exitosa.
type Detail struct {
	Contract
	Client         ClientSummary
	Specimens      []SpecimenSummary
	Services       []ServiceSummary
	RecentPayments []PaymentSummary
}
