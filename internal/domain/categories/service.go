package categories

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

func (s *Service) Create(ctx context.Context, name string) (Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Category{}, apperrors.BadRequest("el nombre de la categoría es obligatorio")
	}

	now := s.now()
	c := Category{
		ID:        uuid.NewString(),
		Name:      name,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// El repo traduce la violación del unique de name a Conflict;
	// acá no hacemos find-then-insert porque no es race-safe.
	if err := s.repo.Create(ctx, c); err != nil {
		return Category{}, err
	}
	return c, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Category, error) {
	if strings.TrimSpace(id) == "" {
		return Category{}, apperrors.BadRequest("id de categoría requerido")
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Category, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, apperrors.BadRequest("estado de categoría inválido: debe ser 'activo' o 'inactivo'")
	}
	return s.repo.List(ctx, f)
}

func (s *Service) Rename(ctx context.Context, id, name string) (Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Category{}, apperrors.BadRequest("el nombre de la categoría no puede quedar vacío")
	}

	current, err := s.GetByID(ctx, id)
	if err != nil {
		return Category{}, err
	}

	current.Name = name
	current.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, current); err != nil {
		return Category{}, err
	}
	return current, nil
}

// UpdateStatus activa o desactiva la categoría. Desactivarla no afecta a los
// ejemplares ya asignados; solo bloquea asignaciones nuevas.
func (s *Service) UpdateStatus(ctx context.Context, id string, status Status) (Category, error) {
	if !status.Valid() {
		return Category{}, apperrors.BadRequest("estado inválido: debe ser 'activo' o 'inactivo'")
	}

	current, err := s.GetByID(ctx, id)
	if err != nil {
		return Category{}, err
	}
	if current.Status == status {
		return current, nil
	}

	current.Status = status
	current.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, current); err != nil {
		return Category{}, err
	}
	return current, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// IsActive expone el estado de una categoría para otros módulos
// (specimens la valida antes de asignar). Evita ciclos de imports.
func (s *Service) IsActive(ctx context.Context, id string) (bool, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return c.Status == StatusActive, nil
}
