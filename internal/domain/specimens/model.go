package specimens

import "time"

// Specimen es un ejemplar individual del criadero.
//
// Invariantes que protege este módulo junto con el storage:
//   - OwnerID apunta SIEMPRE a exactamente un cliente, y el contador
//     SpecimenCount de ese cliente refleja la cantidad viva de ejemplares.
//   - ContractID es nil ("libre") o apunta a exactamente un contrato;
//     nunca dos contratos concurrentes. La asociación la escribe el módulo
//     contracts, nunca este.
type Specimen struct {
	ID        string
	Name      string
	Breed     string
	Color     string
	BirthDate *time.Time

	OwnerID    string
	CategoryID string
	SedeID     *string
	ContractID *string

	// Identifier es un UUID externo único (chip / tatuaje).
	Identifier string

	CreatedAt time.Time
	UpdatedAt time.Time
}
