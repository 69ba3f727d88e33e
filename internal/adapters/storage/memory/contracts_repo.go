package memory

import (
	"context"
	"sort"

	"pet-boarding-backend/internal/apperrors"
	"pet-boarding-backend/internal/domain/contracts"
)

type contractRepo struct {
	store *Store
}

func NewContractRepo(store *Store) contracts.Repository {
	return &contractRepo{store: store}
}

// Create inserta contrato, asociaciones y binding del ejemplar bajo la
// misma sección crítica. Cualquier fallo intermedio (incluido el
// failHook de los tests) deshace todo lo aplicado hasta ese punto.
func (r *contractRepo) Create(ctx context.Context, c contracts.Contract, serviceIDs []string, specimenID *string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clients[c.ClientID]; !ok {
		return apperrors.NotFound("cliente " + c.ClientID + " no encontrado")
	}
	for _, id := range serviceIDs {
		if _, ok := s.services[id]; !ok {
			return apperrors.Conflict("el servicio " + id + " no existe en el catálogo")
		}
	}

	s.contracts[c.ID] = c
	undo := func() {
		delete(s.contracts, c.ID)
		delete(s.contractServices, c.ID)
	}

	if err := s.fail("contracts.create.services"); err != nil {
		undo()
		return apperrors.Internal("la asociación de servicios falló", err)
	}
	s.contractServices[c.ID] = append([]string(nil), serviceIDs...)

	if specimenID != nil {
		sp, ok := s.specimens[*specimenID]
		if !ok {
			undo()
			return apperrors.NotFound("ejemplar " + *specimenID + " no encontrado")
		}
		// Escritura condicional: solo si el ejemplar sigue libre.
		if sp.ContractID != nil {
			undo()
			return apperrors.Conflict("el ejemplar ya está asociado a otro contrato")
		}
		if err := s.fail("contracts.create.bind"); err != nil {
			undo()
			return apperrors.Internal("el binding del ejemplar falló", err)
		}
		id := c.ID
		sp.ContractID = &id
		s.specimens[sp.ID] = sp
	}
	return nil
}

func (r *contractRepo) GetByID(ctx context.Context, id string) (contracts.Contract, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.contracts[id]
	if !ok {
		return contracts.Contract{}, apperrors.NotFound("contrato " + id + " no encontrado")
	}
	return c, nil
}

func (r *contractRepo) GetDetail(ctx context.Context, id string) (contracts.Detail, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fail("contracts.detail"); err != nil {
		return contracts.Detail{}, apperrors.Internal("la relectura del contrato falló", err)
	}

	c, ok := s.contracts[id]
	if !ok {
		return contracts.Detail{}, apperrors.NotFound("contrato " + id + " no encontrado")
	}

	d := contracts.Detail{
		Contract:       c,
		Specimens:      make([]contracts.SpecimenSummary, 0),
		Services:       make([]contracts.ServiceSummary, 0),
		RecentPayments: make([]contracts.PaymentSummary, 0),
	}

	if cl, ok := s.clients[c.ClientID]; ok {
		d.Client = contracts.ClientSummary{
			ID: cl.ID, Name: cl.Name, Document: cl.Document, Email: cl.Email,
		}
	}
	for _, sp := range s.specimens {
		if sp.ContractID != nil && *sp.ContractID == id {
			d.Specimens = append(d.Specimens, contracts.SpecimenSummary{
				ID: sp.ID, Name: sp.Name, Breed: sp.Breed, Identifier: sp.Identifier,
			})
		}
	}
	sort.Slice(d.Specimens, func(i, j int) bool { return d.Specimens[i].ID < d.Specimens[j].ID })

	for _, svcID := range s.contractServices[id] {
		if sv, ok := s.services[svcID]; ok {
			d.Services = append(d.Services, contracts.ServiceSummary{
				ID: sv.ID, Name: sv.Name, Price: sv.Price,
			})
		}
	}
	for _, p := range s.payments {
		if p.ContractID == id {
			d.RecentPayments = append(d.RecentPayments, contracts.PaymentSummary{
				ID:           p.ID,
				Amount:       p.Amount,
				Method:       string(p.Method),
				PaymentMonth: p.PaymentMonth,
				PaymentDate:  p.PaymentDate,
			})
		}
	}
	sort.Slice(d.RecentPayments, func(i, j int) bool {
		return d.RecentPayments[i].PaymentDate.After(d.RecentPayments[j].PaymentDate)
	})
	if len(d.RecentPayments) > 12 {
		d.RecentPayments = d.RecentPayments[:12]
	}
	return d, nil
}

func (r *contractRepo) List(ctx context.Context, f contracts.ListFilter) ([]contracts.Contract, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]contracts.Contract, 0)
	for _, c := range s.contracts {
		if f.ClientID != "" && c.ClientID != f.ClientID {
			continue
		}
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *contractRepo) Update(ctx context.Context, c contracts.Contract, serviceIDs []string, replaceServices bool) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.contracts[c.ID]; !ok {
		return apperrors.NotFound("contrato " + c.ID + " no encontrado")
	}
	if replaceServices {
		for _, id := range serviceIDs {
			if _, ok := s.services[id]; !ok {
				return apperrors.Conflict("el servicio " + id + " no existe en el catálogo")
			}
		}
	}

	prev := s.contracts[c.ID]
	s.contracts[c.ID] = c
	if replaceServices {
		if err := s.fail("contracts.update.services"); err != nil {
			s.contracts[c.ID] = prev
			return apperrors.Internal("el reemplazo de servicios falló", err)
		}
		s.contractServices[c.ID] = append([]string(nil), serviceIDs...)
	}
	return nil
}

func (r *contractRepo) UpdateStatus(ctx context.Context, id string, from, to contracts.Status) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.contracts[id]
	if !ok {
		return apperrors.NotFound("contrato " + id + " no encontrado")
	}
	// Transición condicional: la fila debe seguir en from.
	if c.Status != from {
		return apperrors.Conflict("el contrato ya no está en estado " + string(from))
	}
	c.Status = to
	s.contracts[id] = c
	return nil
}

// Delete limpia asociaciones, libera ejemplares y borra la fila en una
// sola sección crítica.
func (r *contractRepo) Delete(ctx context.Context, id string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.contracts[id]; !ok {
		return apperrors.NotFound("contrato " + id + " no encontrado")
	}
	for _, p := range s.payments {
		if p.ContractID == id {
			return apperrors.Conflict("el contrato tiene pagos registrados")
		}
	}

	if err := s.fail("contracts.delete"); err != nil {
		return apperrors.Internal("el borrado del contrato falló", err)
	}

	delete(s.contractServices, id)
	for spID, sp := range s.specimens {
		if sp.ContractID != nil && *sp.ContractID == id {
			sp.ContractID = nil
			s.specimens[spID] = sp
		}
	}
	delete(s.contracts, id)
	return nil
}

func (r *contractRepo) ServiceIDs(ctx context.Context, contractID string) ([]string, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.contracts[contractID]; !ok {
		return nil, apperrors.NotFound("contrato " + contractID + " no encontrado")
	}
	return append([]string(nil), s.contractServices[contractID]...), nil
}
