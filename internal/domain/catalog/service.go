package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-boarding-backend/internal/apperrors"
)

// Manager es el servicio de aplicación del catálogo. No se llama Service
// para no chocar con la entidad Service del dominio.
type Manager struct {
	repo Repository
	now  func() time.Time
}

func NewManager(repo Repository) *Manager {
	return &Manager{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name        string
	Description string
	Price       float64
	ImageURL    string
}

func (m *Manager) Create(ctx context.Context, in CreateInput) (Service, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Service{}, apperrors.BadRequest("el nombre del servicio es obligatorio")
	}
	if in.Price < 0 {
		return Service{}, apperrors.BadRequest("el precio del servicio no puede ser negativo")
	}

	now := m.now()
	svc := Service{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		ImageURL:    strings.TrimSpace(in.ImageURL),
		Status:      StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := m.repo.Create(ctx, svc); err != nil {
		return Service{}, err
	}
	return svc, nil
}

func (m *Manager) GetByID(ctx context.Context, id string) (Service, error) {
	if strings.TrimSpace(id) == "" {
		return Service{}, apperrors.BadRequest("id de servicio requerido")
	}
	return m.repo.GetByID(ctx, id)
}

func (m *Manager) List(ctx context.Context, f ListFilter) ([]Service, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, apperrors.BadRequest("estado de servicio inválido")
	}
	return m.repo.List(ctx, f)
}

type UpdateInput struct {
	Name        *string
	Description *string
	Price       *float64
	ImageURL    *string
}

func (m *Manager) Update(ctx context.Context, id string, in UpdateInput) (Service, error) {
	current, err := m.GetByID(ctx, id)
	if err != nil {
		return Service{}, err
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return Service{}, apperrors.BadRequest("el nombre del servicio no puede quedar vacío")
		}
		current.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		current.Description = strings.TrimSpace(*in.Description)
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return Service{}, apperrors.BadRequest("el precio del servicio no puede ser negativo")
		}
		current.Price = *in.Price
	}
	if in.ImageURL != nil {
		current.ImageURL = strings.TrimSpace(*in.ImageURL)
	}
	current.UpdatedAt = m.now()

	if err := m.repo.Update(ctx, current); err != nil {
		return Service{}, err
	}
	return current, nil
}

func (m *Manager) UpdateStatus(ctx context.Context, id string, status Status) (Service, error) {
	if !status.Valid() {
		return Service{}, apperrors.BadRequest("estado inválido: debe ser 'activo' o 'inactivo'")
	}

	current, err := m.GetByID(ctx, id)
	if err != nil {
		return Service{}, err
	}
	if current.Status == status {
		return current, nil
	}

	current.Status = status
	current.UpdatedAt = m.now()
	if err := m.repo.Update(ctx, current); err != nil {
		return Service{}, err
	}
	return current, nil
}

func (m *Manager) Delete(ctx context.Context, id string) error {
	if _, err := m.GetByID(ctx, id); err != nil {
		return err
	}
	return m.repo.Delete(ctx, id)
}

// Missing expone al módulo contracts qué IDs de servicio no existen,
// para armar el NotFound con la lista exacta de faltantes.
func (m *Manager) Missing(ctx context.Context, ids []string) ([]string, error) {
	return m.repo.Missing(ctx, ids)
}
