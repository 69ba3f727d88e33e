package memory

import (
	"context"
	"sort"

	"pet-boarding-backend/internal/apperrors"
	"pet-boarding-backend/internal/domain/sedes"
)

type sedeRepo struct {
	store *Store
}

func NewSedeRepo(store *Store) sedes.Repository {
	return &sedeRepo{store: store}
}

func (r *sedeRepo) Create(ctx context.Context, sd sedes.Sede) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.sedes {
		if existing.Name == sd.Name {
			return apperrors.Conflict("ya existe una sede llamada " + sd.Name)
		}
	}
	s.sedes[sd.ID] = sd
	return nil
}

func (r *sedeRepo) GetByID(ctx context.Context, id string) (sedes.Sede, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	sd, ok := s.sedes[id]
	if !ok {
		return sedes.Sede{}, apperrors.NotFound("sede " + id + " no encontrada")
	}
	return sd, nil
}

func (r *sedeRepo) List(ctx context.Context) ([]sedes.Sede, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]sedes.Sede, 0, len(s.sedes))
	for _, sd := range s.sedes {
		out = append(out, sd)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *sedeRepo) Update(ctx context.Context, sd sedes.Sede) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sedes[sd.ID]; !ok {
		return apperrors.NotFound("sede " + sd.ID + " no encontrada")
	}
	for _, other := range s.sedes {
		if other.ID != sd.ID && other.Name == sd.Name {
			return apperrors.Conflict("ya existe una sede llamada " + sd.Name)
		}
	}
	s.sedes[sd.ID] = sd
	return nil
}

func (r *sedeRepo) Delete(ctx context.Context, id string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sedes[id]; !ok {
		return apperrors.NotFound("sede " + id + " no encontrada")
	}
	for _, sp := range s.specimens {
		if sp.SedeID != nil && *sp.SedeID == id {
			return apperrors.Conflict("la sede todavía tiene ejemplares asignados")
		}
	}
	delete(s.sedes, id)
	return nil
}
