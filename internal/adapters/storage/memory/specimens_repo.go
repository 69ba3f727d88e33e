package memory

import (
	"context"
	"sort"

	"pet-boarding-backend/internal/apperrors"
	"pet-boarding-backend/internal/domain/specimens"
)

type specimenRepo struct {
	store *Store
}

func NewSpecimenRepo(store *Store) specimens.Repository {
	return &specimenRepo{store: store}
}

// Create inserta el ejemplar e incrementa el contador del dueño bajo la
// misma sección crítica. El failHook entre ambos pasos permite que los
// tests verifiquen que un fallo intermedio no deja el ejemplar insertado.
func (r *specimenRepo) Create(ctx context.Context, sp specimens.Specimen) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	owner, ok := s.clients[sp.OwnerID]
	if !ok {
		return apperrors.NotFound("cliente " + sp.OwnerID + " no encontrado")
	}

	s.specimens[sp.ID] = sp
	if err := s.fail("specimens.create"); err != nil {
		delete(s.specimens, sp.ID)
		return apperrors.Internal("la escritura del ejemplar falló", err)
	}

	owner.SpecimenCount++
	s.clients[owner.ID] = owner
	return nil
}

func (r *specimenRepo) GetByID(ctx context.Context, id string) (specimens.Specimen, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	sp, ok := s.specimens[id]
	if !ok {
		return specimens.Specimen{}, apperrors.NotFound("ejemplar " + id + " no encontrado")
	}
	return sp, nil
}

func (r *specimenRepo) List(ctx context.Context, f specimens.ListFilter) ([]specimens.Specimen, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]specimens.Specimen, 0)
	for _, sp := range s.specimens {
		if f.OwnerID != "" && sp.OwnerID != f.OwnerID {
			continue
		}
		if f.CategoryID != "" && sp.CategoryID != f.CategoryID {
			continue
		}
		if f.SedeID != "" && (sp.SedeID == nil || *sp.SedeID != f.SedeID) {
			continue
		}
		out = append(out, sp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// Update persiste perfil y dueño. Un cambio de dueño ajusta ambos
// contadores en la misma sección crítica.
func (r *specimenRepo) Update(ctx context.Context, sp specimens.Specimen) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.specimens[sp.ID]
	if !ok {
		return apperrors.NotFound("ejemplar " + sp.ID + " no encontrado")
	}

	if sp.OwnerID != stored.OwnerID {
		prev, ok := s.clients[stored.OwnerID]
		if !ok {
			return apperrors.Internal("el dueño anterior del ejemplar no existe", nil)
		}
		next, ok := s.clients[sp.OwnerID]
		if !ok {
			return apperrors.NotFound("cliente " + sp.OwnerID + " no encontrado")
		}

		if err := s.fail("specimens.update.owner"); err != nil {
			return apperrors.Internal("la transferencia del ejemplar falló", err)
		}

		prev.SpecimenCount--
		next.SpecimenCount++
		s.clients[prev.ID] = prev
		s.clients[next.ID] = next
	}

	// Binding, categoría y sede no se tocan por esta vía.
	sp.ContractID = stored.ContractID
	sp.CategoryID = stored.CategoryID
	sp.SedeID = stored.SedeID
	s.specimens[sp.ID] = sp
	return nil
}

func (r *specimenRepo) Relocate(ctx context.Context, id string, categoryID *string, sedeID *string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	sp, ok := s.specimens[id]
	if !ok {
		return apperrors.NotFound("ejemplar " + id + " no encontrado")
	}
	if categoryID != nil {
		sp.CategoryID = *categoryID
	}
	if sedeID != nil {
		if *sedeID == "" {
			sp.SedeID = nil
		} else {
			v := *sedeID
			sp.SedeID = &v
		}
	}
	s.specimens[id] = sp
	return nil
}

func (r *specimenRepo) Delete(ctx context.Context, id string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	sp, ok := s.specimens[id]
	if !ok {
		return apperrors.NotFound("ejemplar " + id + " no encontrado")
	}
	if sp.ContractID != nil {
		return apperrors.Conflict("el ejemplar está asociado a un contrato")
	}

	delete(s.specimens, id)
	if err := s.fail("specimens.delete"); err != nil {
		s.specimens[id] = sp
		return apperrors.Internal("el borrado del ejemplar falló", err)
	}

	if owner, ok := s.clients[sp.OwnerID]; ok {
		owner.SpecimenCount--
		s.clients[owner.ID] = owner
	}
	return nil
}
