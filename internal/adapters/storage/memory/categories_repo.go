package memory

import (
	"context"
	"sort"

	"pet-boarding-backend/internal/apperrors"
	"pet-boarding-backend/internal/domain/categories"
)

type categoryRepo struct {
	store *Store
}

func NewCategoryRepo(store *Store) categories.Repository {
	return &categoryRepo{store: store}
}

func (r *categoryRepo) Create(ctx context.Context, c categories.Category) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.categories {
		if existing.Name == c.Name {
			return apperrors.Conflict("ya existe una categoría llamada " + c.Name)
		}
	}
	s.categories[c.ID] = c
	return nil
}

func (r *categoryRepo) GetByID(ctx context.Context, id string) (categories.Category, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.categories[id]
	if !ok {
		return categories.Category{}, apperrors.NotFound("categoría " + id + " no encontrada")
	}
	return c, nil
}

func (r *categoryRepo) GetByName(ctx context.Context, name string) (categories.Category, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.categories {
		if c.Name == name {
			return c, nil
		}
	}
	return categories.Category{}, apperrors.NotFound("categoría " + name + " no encontrada")
}

func (r *categoryRepo) List(ctx context.Context, f categories.ListFilter) ([]categories.Category, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]categories.Category, 0)
	for _, c := range s.categories {
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

func (r *categoryRepo) Update(ctx context.Context, c categories.Category) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[c.ID]; !ok {
		return apperrors.NotFound("categoría " + c.ID + " no encontrada")
	}
	for _, other := range s.categories {
		if other.ID != c.ID && other.Name == c.Name {
			return apperrors.Conflict("ya existe una categoría llamada " + c.Name)
		}
	}
	s.categories[c.ID] = c
	return nil
}

func (r *categoryRepo) Delete(ctx context.Context, id string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[id]; !ok {
		return apperrors.NotFound("categoría " + id + " no encontrada")
	}
	for _, sp := range s.specimens {
		if sp.CategoryID == id {
			return apperrors.Conflict("la categoría todavía tiene ejemplares asignados")
		}
	}
	delete(s.categories, id)
	return nil
}
