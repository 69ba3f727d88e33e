package memory

import (
	"context"
	"sort"

	"pet-boarding-backend/internal/apperrors"
	"pet-boarding-backend/internal/domain/catalog"
)

type catalogRepo struct {
	store *Store
}

func NewCatalogRepo(store *Store) catalog.Repository {
	return &catalogRepo{store: store}
}

func (r *catalogRepo) Create(ctx context.Context, sv catalog.Service) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.services {
		if existing.Name == sv.Name {
			return apperrors.Conflict("ya existe un servicio llamado " + sv.Name)
		}
	}
	s.services[sv.ID] = sv
	return nil
}

func (r *catalogRepo) GetByID(ctx context.Context, id string) (catalog.Service, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	sv, ok := s.services[id]
	if !ok {
		return catalog.Service{}, apperrors.NotFound("servicio " + id + " no encontrado")
	}
	return sv, nil
}

func (r *catalogRepo) List(ctx context.Context, f catalog.ListFilter) ([]catalog.Service, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]catalog.Service, 0)
	for _, sv := range s.services {
		if f.Status != "" && sv.Status != f.Status {
			continue
		}
		out = append(out, sv)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *catalogRepo) Update(ctx context.Context, sv catalog.Service) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.services[sv.ID]; !ok {
		return apperrors.NotFound("servicio " + sv.ID + " no encontrado")
	}
	for _, other := range s.services {
		if other.ID != sv.ID && other.Name == sv.Name {
			return apperrors.Conflict("ya existe un servicio llamado " + sv.Name)
		}
	}
	s.services[sv.ID] = sv
	return nil
}

func (r *catalogRepo) Delete(ctx context.Context, id string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.services[id]; !ok {
		return apperrors.NotFound("servicio " + id + " no encontrado")
	}
	for _, ids := range s.contractServices {
		for _, svcID := range ids {
			if svcID == id {
				return apperrors.Conflict("el servicio está asociado a contratos vigentes")
			}
		}
	}
	delete(s.services, id)
	return nil
}

func (r *catalogRepo) Missing(ctx context.Context, ids []string) ([]string, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	missing := make([]string, 0)
	for _, id := range ids {
		if _, ok := s.services[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}
