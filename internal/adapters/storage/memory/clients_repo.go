package memory

import (
	"context"
	"sort"

	"pet-boarding-backend/internal/apperrors"
	"pet-boarding-backend/internal/domain/clients"
)

type clientRepo struct {
	store *Store
}

func NewClientRepo(store *Store) clients.Repository {
	return &clientRepo{store: store}
}

func (r *clientRepo) Create(ctx context.Context, c clients.Client) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.clients {
		if existing.Document == c.Document {
			return apperrors.Conflict("ya existe un cliente con el documento " + c.Document)
		}
		if existing.Email == c.Email {
			return apperrors.Conflict("ya existe un cliente con el email " + c.Email)
		}
	}
	s.clients[c.ID] = c
	return nil
}

func (r *clientRepo) GetByID(ctx context.Context, id string) (clients.Client, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.clients[id]
	if !ok {
		return clients.Client{}, apperrors.NotFound("cliente " + id + " no encontrado")
	}
	return c, nil
}

func (r *clientRepo) GetByDocument(ctx context.Context, document string) (clients.Client, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.clients {
		if c.Document == document {
			return c, nil
		}
	}
	return clients.Client{}, apperrors.NotFound("cliente con documento " + document + " no encontrado")
}

func (r *clientRepo) List(ctx context.Context, f clients.ListFilter) ([]clients.Client, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]clients.Client, 0)
	for _, c := range s.clients {
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		out = append(out, c)
	}
	// Orden estable por created_at asc (solo para consistencia en dev)
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *clientRepo) Update(ctx context.Context, c clients.Client) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.clients[c.ID]
	if !ok {
		return apperrors.NotFound("cliente " + c.ID + " no encontrado")
	}
	for _, other := range s.clients {
		if other.ID == c.ID {
			continue
		}
		if other.Document == c.Document {
			return apperrors.Conflict("ya existe un cliente con el documento " + c.Document)
		}
		if other.Email == c.Email {
			return apperrors.Conflict("ya existe un cliente con el email " + c.Email)
		}
	}

	// El contador derivado y el estado se preservan tal como están
	// almacenados; esta vía no los toca.
	c.SpecimenCount = stored.SpecimenCount
	c.Status = stored.Status
	s.clients[c.ID] = c
	return nil
}

func (r *clientRepo) UpdateStatus(ctx context.Context, id string, status clients.Status) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.clients[id]
	if !ok {
		return apperrors.NotFound("cliente " + id + " no encontrado")
	}
	c.Status = status
	s.clients[id] = c
	return nil
}

func (r *clientRepo) Purge(ctx context.Context, id string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.clients[id]
	if !ok {
		return apperrors.NotFound("cliente " + id + " no encontrado")
	}
	if c.SpecimenCount > 0 {
		return apperrors.Conflict("el cliente todavía posee ejemplares registrados")
	}
	delete(s.clients, id)
	return nil
}
