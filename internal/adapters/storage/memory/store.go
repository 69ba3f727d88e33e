package memory

import (
	"sync"

	"pet-boarding-backend/internal/domain/care"
	"pet-boarding-backend/internal/domain/catalog"
	"pet-boarding-backend/internal/domain/categories"
	"pet-boarding-backend/internal/domain/clients"
	"pet-boarding-backend/internal/domain/contracts"
	"pet-boarding-backend/internal/domain/payments"
	"pet-boarding-backend/internal/domain/rbac"
	"pet-boarding-backend/internal/domain/sedes"
	"pet-boarding-backend/internal/domain/specimens"
	"pet-boarding-backend/internal/domain/users"
)

// Store es el almacén en memoria compartido por todos los repos del
// adaptador. Un único mutex protege todas las tablas: las operaciones
// que cruzan entidades (contador de ejemplares, binding de contratos)
// necesitan ver y mutar varias tablas bajo la misma sección crítica,
// igual que una transacción de base de datos.
type Store struct {
	mu sync.Mutex

	clients          map[string]clients.Client
	specimens        map[string]specimens.Specimen
	categories       map[string]categories.Category
	sedes            map[string]sedes.Sede
	services         map[string]catalog.Service
	contracts        map[string]contracts.Contract
	contractServices map[string][]string // contractID -> serviceIDs
	payments         map[string]payments.Payment
	careRecords      map[string]care.Record
	roles            map[string]rbac.Role
	users            map[string]users.User
	resetTokens      map[string]users.ResetToken

	// failHook, si no es nil, se invoca en puntos intermedios de las
	// escrituras multi-paso. Devolver un error simula un fallo a mitad
	// de transacción; la operación debe dejar el Store intacto. Solo
	// para tests de atomicidad.
	failHook func(op string) error
}

func NewStore() *Store {
	return &Store{
		clients:          make(map[string]clients.Client),
		specimens:        make(map[string]specimens.Specimen),
		categories:       make(map[string]categories.Category),
		sedes:            make(map[string]sedes.Sede),
		services:         make(map[string]catalog.Service),
		contracts:        make(map[string]contracts.Contract),
		contractServices: make(map[string][]string),
		payments:         make(map[string]payments.Payment),
		careRecords:      make(map[string]care.Record),
		roles:            make(map[string]rbac.Role),
		users:            make(map[string]users.User),
		resetTokens:      make(map[string]users.ResetToken),
	}
}

// SetFailHook instala (o quita, con nil) el hook de fallo para tests.
func (s *Store) SetFailHook(hook func(op string) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failHook = hook
}

func (s *Store) fail(op string) error {
	if s.failHook == nil {
		return nil
	}
	return s.failHook(op)
}
