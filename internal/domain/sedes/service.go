package sedes

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-boarding-backend/internal/apperrors"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name    string
	Address string
	City    string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Sede, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Sede{}, apperrors.BadRequest("el nombre de la sede es obligatorio")
	}

	now := s.now()
	sede := Sede{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(in.Name),
		Address:   strings.TrimSpace(in.Address),
		City:      strings.TrimSpace(in.City),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, sede); err != nil {
		return Sede{}, err
	}
	return sede, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Sede, error) {
	if strings.TrimSpace(id) == "" {
		return Sede{}, apperrors.BadRequest("id de sede requerido")
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Sede, error) {
	return s.repo.List(ctx)
}

type UpdateInput struct {
	// Punteros para PATCH real: nil = no tocar.
	Name    *string
	Address *string
	City    *string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Sede, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return Sede{}, err
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return Sede{}, apperrors.BadRequest("el nombre de la sede no puede quedar vacío")
		}
		current.Name = strings.TrimSpace(*in.Name)
	}
	if in.Address != nil {
		current.Address = strings.TrimSpace(*in.Address)
	}
	if in.City != nil {
		current.City = strings.TrimSpace(*in.City)
	}
	current.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, current); err != nil {
		return Sede{}, err
	}
	return current, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Exists expone la existencia de una sede para otros módulos
// (specimens valida la sede destino al reubicar). Evita ciclos de imports.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	_, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
